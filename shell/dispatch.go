package shell

import (
	"errors"

	"github.com/shellframe-tools/shellframe/command"
)

// resolution is the outcome of walking a token path through delegation
// commands, left to right.
type resolution struct {
	// registry owns the resolved command; args are the tokens left for
	// binding. Unset when enter is true.
	registry *command.Registry
	model    *command.Model
	args     []string

	// chain holds the delegate frames traversed in order. When enter is
	// true the path named delegations only and the chain becomes the new
	// active frames.
	chain []*command.Registry
	enter bool
}

// resolve looks the first token up in the frame's registry and follows
// delegations recursively through the remaining tokens. A delegation
// with nothing after it is an enter; a delegation followed by more
// tokens is resolved transiently inside its delegate frame.
func resolve(reg *command.Registry, tokens []string) (resolution, error) {
	name := tokens[0]
	m, ok := reg.Lookup(name)
	if !ok {
		return resolution{}, &UnknownCommandError{
			Program:     reg.Name,
			Name:        name,
			Suggestions: findSimilar(name, reg.CommandNames(), maxSuggestions),
		}
	}

	if m.Kind != command.KindDelegation {
		return resolution{registry: reg, model: m, args: tokens[1:]}, nil
	}

	delegate, err := resolveDelegate(reg, m, true)
	if err != nil {
		return resolution{}, err
	}

	if len(tokens) == 1 {
		return resolution{enter: true, chain: []*command.Registry{delegate}}, nil
	}

	sub, err := resolve(delegate, tokens[1:])
	if err != nil {
		return resolution{}, err
	}
	sub.chain = append([]*command.Registry{delegate}, sub.chain...)
	return sub, nil
}

// resolveDelegate obtains a delegation's target registry. With the reuse
// flag set, the first factory result is memoized on the owning registry
// and returned on every later invocation. Completion callers pass
// memoize=false so a query never caches state.
func resolveDelegate(reg *command.Registry, m *command.Model, memoize bool) (*command.Registry, error) {
	if m.Reuse {
		if d, ok := reg.Memoized(m.Name); ok {
			return d, nil
		}
	}
	d, err := m.Factory()
	if err != nil {
		return nil, &DelegationError{Name: m.Name, Err: err}
	}
	if d == nil {
		return nil, &DelegationError{Name: m.Name, Err: errors.New("factory returned no registry")}
	}
	if m.Reuse && memoize {
		reg.Memoize(m.Name, d)
	}
	return d, nil
}

// Dispatch invokes a resolved operation or setting with its bound
// arguments. A setting with its update flag set stores the body's return
// value as the new current value; the result is the stored value either
// way.
func Dispatch(reg *command.Registry, m *command.Model, args command.Args) (any, error) {
	result, err := m.Body(args)
	if err != nil {
		return nil, err
	}
	if m.Kind == command.KindSetting && m.Updates {
		reg.StoreSetting(m.Name, result)
	}
	return result, nil
}
