package parser

import "fmt"

// ErrorKind represents the type of parse failure.
type ErrorKind int

const (
	ErrUnknown ErrorKind = iota
	ErrMissingArgument
	ErrCountMismatch
	ErrConversion
	ErrEnumMembership
	ErrKeywordFormat
	ErrUnexpectedKeyword
)

// ParseError is a structured binding failure. Param names the originating
// parameter when one is known.
type ParseError struct {
	Kind    ErrorKind
	Param   string
	Message string
}

func (e *ParseError) Error() string {
	return e.Message
}

// MissingArgument is returned when a required positional has no token and
// no default.
func MissingArgument(param string) *ParseError {
	return &ParseError{
		Kind:    ErrMissingArgument,
		Param:   param,
		Message: fmt.Sprintf("missing required argument '%s'", param),
	}
}

// CountMismatch is returned when positional tokens remain after all
// declared positionals and no variadic-positional is declared.
func CountMismatch(command string, extra int) *ParseError {
	return &ParseError{
		Kind:    ErrCountMismatch,
		Message: fmt.Sprintf("too many arguments for '%s' (%d unexpected)", command, extra),
	}
}

// Conversion wraps an argument type's conversion failure.
func Conversion(param string, cause error) *ParseError {
	return &ParseError{
		Kind:    ErrConversion,
		Param:   param,
		Message: fmt.Sprintf("argument '%s': %v", param, cause),
	}
}

// EnumMembership wraps a failed enumerated-set lookup.
func EnumMembership(param string, cause error) *ParseError {
	return &ParseError{
		Kind:    ErrEnumMembership,
		Param:   param,
		Message: fmt.Sprintf("argument '%s': %v", param, cause),
	}
}

// KeywordFormat is returned for a malformed key=value token.
func KeywordFormat(token string) *ParseError {
	return &ParseError{
		Kind:    ErrKeywordFormat,
		Message: fmt.Sprintf("'%s' must be in the format key=value", token),
	}
}

// UnexpectedKeyword is returned for a keyword token when no variadic-
// keyword parameter is declared, or when the key collides with a named
// parameter.
func UnexpectedKeyword(key string) *ParseError {
	return &ParseError{
		Kind:    ErrUnexpectedKeyword,
		Param:   key,
		Message: fmt.Sprintf("unexpected keyword argument '%s'", key),
	}
}

var _ error = (*ParseError)(nil)
