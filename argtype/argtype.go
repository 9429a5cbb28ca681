// Package argtype resolves parameter annotations into a uniform argument
// type capability: convert a raw token into a typed value, describe the
// accepted domain for help text, and propose completions for a prefix.
package argtype

import (
	"fmt"
	"strings"
)

// ConvertFunc turns a raw token into a typed value.
type ConvertFunc func(raw string) (any, error)

// ArgumentType is the resolved capability for one parameter.
type ArgumentType interface {
	// Convert parses a raw token. A failed conversion returns a non-nil
	// error and the returned value must be ignored.
	Convert(raw string) (any, error)

	// Complete returns candidate strings for the given prefix, in a
	// deterministic order. An empty result means "no suggestions".
	Complete(prefix string) []string

	// String describes the accepted domain for help text.
	String() string
}

// Custom is the capability a user-supplied argument type must implement.
// Display and completion support are optional; see Displayer and Completer.
type Custom interface {
	Convert(raw string) (any, error)
}

// Displayer is an optional Custom capability providing a help-text
// description of the accepted domain.
type Displayer interface {
	Display() string
}

// Completer is an optional Custom capability providing prefix completion.
type Completer interface {
	Complete(prefix string) []string
}

// MembershipError reports a token that matched no enum candidate.
type MembershipError struct {
	Raw     string
	Options []string
}

func (e *MembershipError) Error() string {
	return fmt.Sprintf("'%s' is not a valid option (expected one of: %s)", e.Raw, strings.Join(e.Options, ", "))
}

// converterType wraps a plain conversion function. It has no intrinsic
// suggestion domain.
type converterType struct {
	name string
	fn   ConvertFunc
	path bool
}

func (t *converterType) Convert(raw string) (any, error) { return t.fn(raw) }

func (t *converterType) Complete(string) []string { return nil }

func (t *converterType) String() string { return t.name }

// NewConverter builds an ArgumentType from a conversion function. The name
// is used in help text.
func NewConverter(name string, fn ConvertFunc) ArgumentType {
	return &converterType{name: name, fn: fn}
}

// IsPath reports whether the type accepts filesystem paths. Path-typed
// arguments are the one case where completion reaches outside the type
// system, into directory listings.
func IsPath(t ArgumentType) bool {
	c, ok := t.(*converterType)
	return ok && c.path
}

// EnumValue is one candidate of an enumerated argument type.
type EnumValue struct {
	Display string
	Value   any
}

type enumType struct {
	values []EnumValue
}

// NewEnum builds an enumerated ArgumentType from an ordered candidate set.
// Duplicate display strings make selection ambiguous and fail here, at
// declaration time.
func NewEnum(values ...EnumValue) (ArgumentType, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("enum requires at least one candidate")
	}
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		if seen[v.Display] {
			return nil, fmt.Errorf("enum has duplicate candidate '%s'", v.Display)
		}
		seen[v.Display] = true
	}
	return &enumType{values: values}, nil
}

// NewStringEnum builds an enumerated ArgumentType whose candidates convert
// to themselves.
func NewStringEnum(options ...string) (ArgumentType, error) {
	values := make([]EnumValue, len(options))
	for i, o := range options {
		values[i] = EnumValue{Display: o, Value: o}
	}
	return NewEnum(values...)
}

func (t *enumType) Convert(raw string) (any, error) {
	for _, v := range t.values {
		if v.Display == raw {
			return v.Value, nil
		}
	}
	return nil, &MembershipError{Raw: raw, Options: t.displays()}
}

func (t *enumType) Complete(prefix string) []string {
	var out []string
	for _, v := range t.values {
		if strings.HasPrefix(strings.ToLower(v.Display), strings.ToLower(prefix)) {
			out = append(out, v.Display)
		}
	}
	return out
}

func (t *enumType) String() string { return strings.Join(t.displays(), ", ") }

func (t *enumType) displays() []string {
	out := make([]string, len(t.values))
	for i, v := range t.values {
		out[i] = v.Display
	}
	return out
}

// customType adapts a user-supplied Custom into an ArgumentType.
type customType struct {
	impl Custom
}

func (t *customType) Convert(raw string) (any, error) { return t.impl.Convert(raw) }

func (t *customType) Complete(prefix string) []string {
	c, ok := t.impl.(Completer)
	if !ok {
		return nil
	}
	return c.Complete(prefix)
}

func (t *customType) String() string {
	if d, ok := t.impl.(Displayer); ok {
		return d.Display()
	}
	return "value"
}

// Resolve normalizes an annotation into an ArgumentType:
//
//   - nil becomes the identity string converter
//   - an ArgumentType is returned as-is
//   - a ConvertFunc becomes a plain converter
//   - a []EnumValue or []string becomes an enumerated set
//   - a Custom implementation is wrapped, its optional Display and
//     Complete capabilities detected by interface assertion
//
// Resolution is a pure classification; anything else is a declaration
// error.
func Resolve(annotation any) (ArgumentType, error) {
	switch a := annotation.(type) {
	case nil:
		return String, nil
	case ArgumentType:
		return a, nil
	case ConvertFunc:
		return NewConverter("value", a), nil
	case func(string) (any, error):
		return NewConverter("value", a), nil
	case []EnumValue:
		return NewEnum(a...)
	case []string:
		return NewStringEnum(a...)
	case Custom:
		return &customType{impl: a}, nil
	default:
		return nil, fmt.Errorf("cannot resolve %T into an argument type", annotation)
	}
}
