package argtype

import (
	"fmt"
	"strconv"
)

// Built-in argument types covering the common scalar domains.
var (
	// String is the identity converter and the default when a parameter
	// carries no annotation.
	String = NewConverter("string", func(raw string) (any, error) {
		return raw, nil
	})

	Int = NewConverter("int", func(raw string) (any, error) {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("'%s' is not a valid int", raw)
		}
		return v, nil
	})

	Float = NewConverter("float", func(raw string) (any, error) {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("'%s' is not a valid float", raw)
		}
		return v, nil
	})

	Bool = NewConverter("bool", func(raw string) (any, error) {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("'%s' is not a valid bool", raw)
		}
		return v, nil
	})

	// Path accepts any string but marks the argument for filesystem
	// completion.
	Path = &converterType{
		name: "path",
		fn: func(raw string) (any, error) {
			return raw, nil
		},
		path: true,
	}
)
