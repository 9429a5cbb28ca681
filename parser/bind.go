package parser

import (
	"errors"
	"strings"

	"github.com/shellframe-tools/shellframe/argtype"
	"github.com/shellframe-tools/shellframe/command"
)

// Bind walks the model's parameter specs against a token list and
// produces the name to typed-value mapping the command body receives,
// including applied defaults. It returns exactly one of bound arguments
// or a ParseError; binding mutates nothing and rebinding the same tokens
// yields equal results.
func Bind(m *command.Model, tokens []string) (command.Args, error) {
	args := make(command.Args, len(m.Params))

	consumed := 0
	for _, p := range m.Positionals() {
		if consumed < len(tokens) {
			v, err := convert(&p, tokens[consumed])
			if err != nil {
				return nil, err
			}
			args[p.Name] = v
			consumed++
			continue
		}
		if p.HasDefault {
			args[p.Name] = p.Default
			continue
		}
		return nil, MissingArgument(p.Name)
	}

	varPos := m.VariadicPositional()
	varKw := m.VariadicKeyword()

	extras := []any{}
	keywords := map[string]any{}

	named := make(map[string]bool, len(m.Params))
	for _, p := range m.Positionals() {
		named[p.Name] = true
	}

	for _, tok := range tokens[consumed:] {
		key, value, isKeyword := splitKeyValue(tok)
		if !isKeyword {
			if varPos == nil {
				return nil, CountMismatch(m.Name, len(tokens[consumed:]))
			}
			v, err := convert(varPos, tok)
			if err != nil {
				return nil, err
			}
			extras = append(extras, v)
			continue
		}

		if !command.IsIdentifier(key) {
			return nil, KeywordFormat(tok)
		}
		if varKw == nil || named[key] {
			return nil, UnexpectedKeyword(key)
		}
		v, err := convert(varKw, value)
		if err != nil {
			return nil, err
		}
		keywords[key] = v
	}

	if varPos != nil {
		args[varPos.Name] = extras
	}
	if varKw != nil {
		args[varKw.Name] = keywords
	}
	return args, nil
}

// splitKeyValue recognizes key=value syntax. A token with no '=' at all
// is plain positional; everything containing '=' is keyword syntax and
// its left-hand side is checked by the caller.
func splitKeyValue(tok string) (key, value string, ok bool) {
	idx := strings.Index(tok, "=")
	if idx < 0 {
		return "", "", false
	}
	return tok[:idx], tok[idx+1:], true
}

// convert invokes the parameter's argument type and maps the failure onto
// the originating parameter.
func convert(p *command.ParameterSpec, raw string) (any, error) {
	v, err := p.Type.Convert(raw)
	if err == nil {
		return v, nil
	}
	var membership *argtype.MembershipError
	if errors.As(err, &membership) {
		return nil, EnumMembership(p.Name, err)
	}
	return nil, Conversion(p.Name, err)
}
