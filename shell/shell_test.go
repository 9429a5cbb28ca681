package shell

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shellframe-tools/shellframe/argtype"
	"github.com/shellframe-tools/shellframe/command"
)

// testCounters tracks factory invocations for delegation tests.
type testCounters struct {
	memory  int
	scratch int
}

func mustModel(m *command.Model, err error) *command.Model {
	if err != nil {
		panic(err)
	}
	return m
}

// calcProgram builds a small calculator: operations, a setting with a
// validation, an enumerated parameter, a path parameter, and reuse,
// fresh, and failing delegations. The memory delegation nests one level
// deeper through "deep".
func calcProgram(t *testing.T, counters *testCounters) *command.Registry {
	t.Helper()

	signType, err := argtype.NewEnum(
		argtype.EnumValue{Display: "1", Value: 1},
		argtype.EnumValue{Display: "-1", Value: -1},
	)
	require.NoError(t, err)

	add := mustModel(command.Operation(command.OperationSpec{
		Name:    "add",
		Summary: "Add two integers.",
		Params: []command.ParameterSpec{
			{Name: "a", Type: argtype.Int, Description: "first operand"},
			{Name: "b", Type: argtype.Int, Description: "second operand"},
		},
		Body: func(args command.Args) (any, error) {
			return args.Int("a", 0) + args.Int("b", 0), nil
		},
	}))

	sign := mustModel(command.Operation(command.OperationSpec{
		Name:   "sign",
		Params: []command.ParameterSpec{{Name: "dir", Type: signType}},
		Body: func(args command.Args) (any, error) {
			v, _ := args.Get("dir")
			return v, nil
		},
	}))

	load := mustModel(command.Operation(command.OperationSpec{
		Name:   "load",
		Params: []command.ParameterSpec{{Name: "file", Type: argtype.Path}},
		Body: func(args command.Args) (any, error) {
			return args.String("file", ""), nil
		},
	}))

	precision := mustModel(command.Setting(command.SettingSpec{
		Name:    "precision",
		Summary: "Digits shown after the decimal point.",
		Params:  []command.ParameterSpec{{Name: "value", Type: argtype.Int}},
		Validations: []command.Validation{{
			Description: "value must not be negative",
			Check: func(args command.Args) error {
				if args.Int("value", 0) < 0 {
					return errors.New("precision cannot be negative")
				}
				return nil
			},
		}},
		Body: func(args command.Args) (any, error) {
			return args.Int("value", 0), nil
		},
		Updates: true,
	}))

	memory := mustModel(command.Delegation(command.DelegationSpec{
		Name:    "memory",
		Summary: "Stored values.",
		Factory: func() (*command.Registry, error) {
			counters.memory++
			return memoryProgram(t), nil
		},
		Reuse: true,
	}))

	scratch := mustModel(command.Delegation(command.DelegationSpec{
		Name: "scratch",
		Factory: func() (*command.Registry, error) {
			counters.scratch++
			return memoryProgram(t), nil
		},
	}))

	bad := mustModel(command.Delegation(command.DelegationSpec{
		Name: "bad",
		Factory: func() (*command.Registry, error) {
			return nil, errors.New("no backend")
		},
	}))

	return command.NewRegistry("calc", "1.0.0", "a toy calculator").
		MustAdd(add, sign, load, precision, memory, scratch, bad)
}

func memoryProgram(t *testing.T) *command.Registry {
	t.Helper()

	show := mustModel(command.Operation(command.OperationSpec{
		Name: "show",
		Body: func(command.Args) (any, error) { return "mem", nil },
	}))

	deep := mustModel(command.Delegation(command.DelegationSpec{
		Name: "deep",
		Factory: func() (*command.Registry, error) {
			peek := mustModel(command.Operation(command.OperationSpec{
				Name: "peek",
				Body: func(command.Args) (any, error) { return "deep", nil },
			}))
			return command.NewRegistry("deep", "", "").MustAdd(peek), nil
		},
		Reuse: true,
	}))

	return command.NewRegistry("memory", "", "stored values").MustAdd(show, deep)
}

func TestNavigatorStack(t *testing.T) {
	counters := &testCounters{}
	root := calcProgram(t, counters)
	nav := NewNavigator(root, nil)

	require.Equal(t, root, nav.Active())
	require.Equal(t, 1, nav.Depth())
	require.Equal(t, "", nav.Path())
	require.False(t, nav.Done())

	inner := memoryProgram(t)
	nav.Push(inner)
	require.Equal(t, inner, nav.Active())
	require.Equal(t, "memory", nav.Path())

	require.True(t, nav.Pop())
	require.Equal(t, root, nav.Active())

	require.False(t, nav.Pop())
	require.True(t, nav.Done())
	require.Nil(t, nav.Active())
}

func TestNavigatorExitTokens(t *testing.T) {
	nav := NewNavigator(command.NewRegistry("p", "", ""), nil)
	for _, tok := range []string{"q", "quit", "exit"} {
		require.True(t, nav.IsExitToken(tok), tok)
	}
	require.False(t, nav.IsExitToken("add"))

	custom := NewNavigator(command.NewRegistry("p", "", ""), []string{"bye"})
	require.True(t, custom.IsExitToken("bye"))
	require.False(t, custom.IsExitToken("q"))
}

func TestResolveUnknownCommand(t *testing.T) {
	root := calcProgram(t, &testCounters{})

	_, err := resolve(root, []string{"sub"})
	var unknown *UnknownCommandError
	require.ErrorAs(t, err, &unknown)
	require.Equal(t, "sub", unknown.Name)
	require.Equal(t, "calc", unknown.Program)
	require.Contains(t, unknown.Suggestions, "add")
}

func TestResolveOperation(t *testing.T) {
	root := calcProgram(t, &testCounters{})

	res, err := resolve(root, []string{"add", "1", "2"})
	require.NoError(t, err)
	require.False(t, res.enter)
	require.Equal(t, root, res.registry)
	require.Equal(t, "add", res.model.Name)
	require.Equal(t, []string{"1", "2"}, res.args)
}

func TestResolveDelegationEnter(t *testing.T) {
	root := calcProgram(t, &testCounters{})

	res, err := resolve(root, []string{"memory"})
	require.NoError(t, err)
	require.True(t, res.enter)
	require.Len(t, res.chain, 1)
	require.Equal(t, "memory", res.chain[0].Name)
}

func TestResolveNestedEnter(t *testing.T) {
	root := calcProgram(t, &testCounters{})

	res, err := resolve(root, []string{"memory", "deep"})
	require.NoError(t, err)
	require.True(t, res.enter)
	require.Len(t, res.chain, 2)
	require.Equal(t, "memory", res.chain[0].Name)
	require.Equal(t, "deep", res.chain[1].Name)
}

func TestResolveTransient(t *testing.T) {
	root := calcProgram(t, &testCounters{})

	res, err := resolve(root, []string{"memory", "show"})
	require.NoError(t, err)
	require.False(t, res.enter)
	require.Equal(t, "show", res.model.Name)
	require.Equal(t, "memory", res.registry.Name)
	require.Empty(t, res.args)
}

func TestResolveDelegationFailure(t *testing.T) {
	root := calcProgram(t, &testCounters{})

	_, err := resolve(root, []string{"bad", "show"})
	var delegation *DelegationError
	require.ErrorAs(t, err, &delegation)
	require.Equal(t, "bad", delegation.Name)
}

func TestDelegateReuseMemoized(t *testing.T) {
	counters := &testCounters{}
	root := calcProgram(t, counters)
	m, _ := root.Lookup("memory")

	first, err := resolveDelegate(root, m, true)
	require.NoError(t, err)
	second, err := resolveDelegate(root, m, true)
	require.NoError(t, err)

	require.Same(t, first, second)
	require.Equal(t, 1, counters.memory)
}

func TestDelegateFreshWithoutReuse(t *testing.T) {
	counters := &testCounters{}
	root := calcProgram(t, counters)
	m, _ := root.Lookup("scratch")

	first, err := resolveDelegate(root, m, true)
	require.NoError(t, err)
	second, err := resolveDelegate(root, m, true)
	require.NoError(t, err)

	require.NotSame(t, first, second)
	require.Equal(t, 2, counters.scratch)
}

func TestDelegateResolutionSkipsMemoization(t *testing.T) {
	counters := &testCounters{}
	root := calcProgram(t, counters)
	m, _ := root.Lookup("memory")

	_, err := resolveDelegate(root, m, false)
	require.NoError(t, err)

	_, memoized := root.Memoized("memory")
	require.False(t, memoized)
}

func TestDispatchSettingUpdatesValue(t *testing.T) {
	root := calcProgram(t, &testCounters{})
	m, _ := root.Lookup("precision")

	initial, ok := root.SettingValue("precision")
	require.True(t, ok)
	require.Nil(t, initial)

	result, err := Dispatch(root, m, command.Args{"value": 5})
	require.NoError(t, err)
	require.Equal(t, 5, result)

	stored, ok := root.SettingValue("precision")
	require.True(t, ok)
	require.Equal(t, 5, stored)
}

func TestFindSimilar(t *testing.T) {
	names := []string{"add", "sign", "load", "precision"}

	got := findSimilar("adn", names, 3)
	require.NotEmpty(t, got)
	require.Equal(t, "add", got[0])

	require.Empty(t, findSimilar("completely-unrelated", names, 3))
	require.Len(t, findSimilar("ad", names, 1), 1)
}
