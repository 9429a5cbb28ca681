// Package command holds the declared shape of callable commands and the
// registry that groups them into one program: names, parameter specs,
// attached validations, setting values, and delegation factories.
package command

import (
	"fmt"
	"unicode"

	"github.com/shellframe-tools/shellframe/argtype"
)

// defaultType applies when a parameter declares no annotation.
var defaultType = argtype.String

// Kind classifies a command.
type Kind int

const (
	KindOperation Kind = iota
	KindSetting
	KindDelegation
)

func (k Kind) String() string {
	switch k {
	case KindOperation:
		return "operation"
	case KindSetting:
		return "setting"
	case KindDelegation:
		return "delegation"
	default:
		return "unknown"
	}
}

// Args is the name to typed-value mapping a command body receives. A
// variadic-positional parameter is bound as []any, a variadic-keyword
// parameter as map[string]any.
type Args map[string]any

// Get returns the bound value for a parameter name.
func (a Args) Get(name string) (any, bool) {
	v, ok := a[name]
	return v, ok
}

// String returns the value for name as a string, or defaultVal.
func (a Args) String(name, defaultVal string) string {
	if v, ok := a[name].(string); ok {
		return v
	}
	return defaultVal
}

// Int returns the value for name as an int, or defaultVal.
func (a Args) Int(name string, defaultVal int) int {
	if v, ok := a[name].(int); ok {
		return v
	}
	return defaultVal
}

// Float returns the value for name as a float64, or defaultVal.
func (a Args) Float(name string, defaultVal float64) float64 {
	if v, ok := a[name].(float64); ok {
		return v
	}
	return defaultVal
}

// Variadic returns the values bound to a variadic-positional parameter.
func (a Args) Variadic(name string) []any {
	v, _ := a[name].([]any)
	return v
}

// Keywords returns the values bound to a variadic-keyword parameter.
func (a Args) Keywords(name string) map[string]any {
	v, _ := a[name].(map[string]any)
	return v
}

// BodyFunc is a command's execution body.
type BodyFunc func(args Args) (any, error)

// FactoryFunc produces the registry a delegation hands control to.
type FactoryFunc func() (*Registry, error)

// Validation is a pre-dispatch guard sharing its command's bound
// arguments. A non-nil error aborts dispatch.
type Validation struct {
	Description string
	Check       func(args Args) error
}

// ParameterSpec declares one parameter of a command.
type ParameterSpec struct {
	Name        string
	Type        argtype.ArgumentType
	Description string

	// Default applies when the token line is exhausted. HasDefault
	// distinguishes "no default" from a nil default value.
	Default    any
	HasDefault bool

	// VariadicPositional absorbs all remaining non-keyword tokens.
	VariadicPositional bool

	// VariadicKeyword absorbs key=value tokens not matching any other
	// parameter.
	VariadicKeyword bool
}

// Model is the compiled, immutable shape of one command.
type Model struct {
	Name        string
	Kind        Kind
	Summary     string
	Params      []ParameterSpec
	Validations []Validation
	Body        BodyFunc

	// Setting only.
	InitialValue any
	Updates      bool

	// Delegation only.
	Factory FactoryFunc
	Reuse   bool
}

// VariadicPositional returns the variadic-positional parameter, if any.
func (m *Model) VariadicPositional() *ParameterSpec {
	for i := range m.Params {
		if m.Params[i].VariadicPositional {
			return &m.Params[i]
		}
	}
	return nil
}

// VariadicKeyword returns the variadic-keyword parameter, if any.
func (m *Model) VariadicKeyword() *ParameterSpec {
	for i := range m.Params {
		if m.Params[i].VariadicKeyword {
			return &m.Params[i]
		}
	}
	return nil
}

// Positionals returns the non-variadic parameters in declaration order.
func (m *Model) Positionals() []ParameterSpec {
	var out []ParameterSpec
	for _, p := range m.Params {
		if !p.VariadicPositional && !p.VariadicKeyword {
			out = append(out, p)
		}
	}
	return out
}

// IsIdentifier reports whether s is a valid parameter or command name:
// a letter or underscore followed by letters, digits, underscores or
// dashes.
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if unicode.IsLetter(r) || r == '_' {
			continue
		}
		if i > 0 && (unicode.IsDigit(r) || r == '-') {
			continue
		}
		return false
	}
	return true
}

// DeclarationError reports an invalid command declaration. Declarations
// fail when the model is built, never at parse time.
type DeclarationError struct {
	Command string
	Message string
}

func (e *DeclarationError) Error() string {
	return fmt.Sprintf("invalid declaration of '%s': %s", e.Command, e.Message)
}

func declErr(command, format string, args ...any) error {
	return &DeclarationError{Command: command, Message: fmt.Sprintf(format, args...)}
}
