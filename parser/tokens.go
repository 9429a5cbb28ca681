// Package parser turns submitted lines into tokens and binds token lists
// against a declared command signature, producing typed bound arguments
// or a structured failure. It also runs a command's validation chain.
package parser

import "fmt"

// Split breaks an input line into tokens. Single and double quotes group
// words, a backslash escapes the next rune outside single quotes, and an
// unterminated quote is an error.
func Split(line string) ([]string, error) {
	var tokens []string
	var current []rune
	inToken := false
	var quote rune

	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case quote == '\'':
			if r == '\'' {
				quote = 0
			} else {
				current = append(current, r)
			}
		case quote == '"':
			switch r {
			case '"':
				quote = 0
			case '\\':
				if i+1 < len(runes) {
					i++
					current = append(current, runes[i])
				}
			default:
				current = append(current, r)
			}
		case r == '\'' || r == '"':
			quote = r
			inToken = true
		case r == '\\':
			if i+1 < len(runes) {
				i++
				current = append(current, runes[i])
				inToken = true
			}
		case r == ' ' || r == '\t':
			if inToken {
				tokens = append(tokens, string(current))
				current = current[:0]
				inToken = false
			}
		default:
			current = append(current, r)
			inToken = true
		}
	}

	if quote != 0 {
		return nil, fmt.Errorf("missing closing quotation")
	}
	if inToken {
		tokens = append(tokens, string(current))
	}
	return tokens, nil
}
