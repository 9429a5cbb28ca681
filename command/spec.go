package command

// OperationSpec declares a dispatchable command with no persisted state
// effect beyond its return value.
type OperationSpec struct {
	Name        string
	Summary     string
	Params      []ParameterSpec
	Validations []Validation
	Body        BodyFunc
}

// SettingSpec declares a command that also owns a persisted current value
// within its registry. When Updates is set, a successful invocation stores
// the body's return value as the new current value.
type SettingSpec struct {
	Name         string
	Summary      string
	Params       []ParameterSpec
	Validations  []Validation
	Body         BodyFunc
	InitialValue any
	Updates      bool
}

// DelegationSpec declares a zero-parameter command yielding a nested
// registry, addressable through the navigator. With Reuse set the factory
// result is memoized on the owning registry.
type DelegationSpec struct {
	Name        string
	Summary     string
	Validations []Validation
	Factory     FactoryFunc
	Reuse       bool
}

// Operation builds an Operation model, checking the declaration.
func Operation(spec OperationSpec) (*Model, error) {
	m := &Model{
		Name:        spec.Name,
		Kind:        KindOperation,
		Summary:     spec.Summary,
		Params:      spec.Params,
		Validations: spec.Validations,
		Body:        spec.Body,
	}
	if m.Body == nil {
		return nil, declErr(m.Name, "operation requires a body")
	}
	if err := checkDeclaration(m); err != nil {
		return nil, err
	}
	return m, nil
}

// Setting builds a Setting model, checking the declaration.
func Setting(spec SettingSpec) (*Model, error) {
	m := &Model{
		Name:         spec.Name,
		Kind:         KindSetting,
		Summary:      spec.Summary,
		Params:       spec.Params,
		Validations:  spec.Validations,
		Body:         spec.Body,
		InitialValue: spec.InitialValue,
		Updates:      spec.Updates,
	}
	if m.Body == nil {
		return nil, declErr(m.Name, "setting requires a body")
	}
	if err := checkDeclaration(m); err != nil {
		return nil, err
	}
	return m, nil
}

// Delegation builds a Delegation model, checking the declaration.
// Delegations declare zero parameters.
func Delegation(spec DelegationSpec) (*Model, error) {
	m := &Model{
		Name:        spec.Name,
		Kind:        KindDelegation,
		Summary:     spec.Summary,
		Validations: spec.Validations,
		Factory:     spec.Factory,
		Reuse:       spec.Reuse,
	}
	if m.Factory == nil {
		return nil, declErr(m.Name, "delegation requires a factory")
	}
	if err := checkDeclaration(m); err != nil {
		return nil, err
	}
	return m, nil
}

// checkDeclaration enforces the declaration invariants: valid unique
// parameter names, required positionals before defaulted ones before the
// variadic-positional, at most one parameter per variadic kind, and the
// variadic-keyword parameter last.
func checkDeclaration(m *Model) error {
	if !IsIdentifier(m.Name) {
		return declErr(m.Name, "'%s' is not a valid command name", m.Name)
	}

	seen := make(map[string]bool, len(m.Params))
	sawDefault := false
	sawVarPos := false
	sawVarKw := false

	for i := range m.Params {
		p := &m.Params[i]
		if !IsIdentifier(p.Name) {
			return declErr(m.Name, "'%s' is not a valid parameter name", p.Name)
		}
		if seen[p.Name] {
			return declErr(m.Name, "duplicate parameter '%s'", p.Name)
		}
		seen[p.Name] = true

		if p.Type == nil {
			p.Type = defaultType
		}

		switch {
		case p.VariadicPositional && p.VariadicKeyword:
			return declErr(m.Name, "parameter '%s' cannot be variadic in both positions", p.Name)
		case p.VariadicPositional:
			if sawVarPos {
				return declErr(m.Name, "only one variadic-positional parameter is allowed")
			}
			if sawVarKw {
				return declErr(m.Name, "variadic-positional parameter '%s' must precede the variadic-keyword parameter", p.Name)
			}
			sawVarPos = true
		case p.VariadicKeyword:
			if sawVarKw {
				return declErr(m.Name, "only one variadic-keyword parameter is allowed")
			}
			sawVarKw = true
		default:
			if sawVarPos || sawVarKw {
				return declErr(m.Name, "positional parameter '%s' must precede variadic parameters", p.Name)
			}
			if p.HasDefault {
				sawDefault = true
			} else if sawDefault {
				return declErr(m.Name, "required parameter '%s' follows a defaulted parameter", p.Name)
			}
		}
	}

	if m.Kind == KindDelegation && len(m.Params) > 0 {
		return declErr(m.Name, "delegation declares %d parameters, expected none", len(m.Params))
	}
	return nil
}
