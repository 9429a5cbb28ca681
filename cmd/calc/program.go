package main

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/shellframe-tools/shellframe/argtype"
	"github.com/shellframe-tools/shellframe/command"
)

// calculator owns the mutable state the program operates on. Command
// bodies close over it; the registry's precision setting controls how
// results are rendered.
type calculator struct {
	reg *command.Registry
}

func (c *calculator) format(v float64) string {
	digits, _ := c.reg.SettingValue("precision")
	d, ok := digits.(int)
	if !ok {
		return fmt.Sprintf("%v", v)
	}
	return fmt.Sprintf("%.*f", d, v)
}

// memoryStore is the delegate target behind the "memory" command. The
// delegation is declared with reuse, so one store survives across
// invocations for the life of the calculator.
type memoryStore struct {
	values []float64
}

func must(m *command.Model, err error) *command.Model {
	if err != nil {
		panic(err)
	}
	return m
}

// newCalculator builds the calculator program registry.
func newCalculator(version string) *command.Registry {
	reg := command.NewRegistry("calc", version, "an interactive calculator")
	c := &calculator{reg: reg}

	roundModes, err := argtype.NewStringEnum("nearest", "up", "down")
	if err != nil {
		panic(err)
	}

	reg.MustAdd(
		must(command.Operation(command.OperationSpec{
			Name:    "add",
			Summary: "Add numbers.",
			Params: []command.ParameterSpec{
				{Name: "a", Type: argtype.Float, Description: "first operand"},
				{Name: "b", Type: argtype.Float, Description: "second operand"},
				{Name: "more", Type: argtype.Float, Description: "further operands", VariadicPositional: true},
			},
			Body: func(args command.Args) (any, error) {
				sum := args.Float("a", 0) + args.Float("b", 0)
				for _, v := range args.Variadic("more") {
					sum += v.(float64)
				}
				return c.format(sum), nil
			},
		})),
		must(command.Operation(command.OperationSpec{
			Name:    "sub",
			Summary: "Subtract b from a.",
			Params: []command.ParameterSpec{
				{Name: "a", Type: argtype.Float, Description: "minuend"},
				{Name: "b", Type: argtype.Float, Description: "subtrahend"},
			},
			Body: func(args command.Args) (any, error) {
				return c.format(args.Float("a", 0) - args.Float("b", 0)), nil
			},
		})),
		must(command.Operation(command.OperationSpec{
			Name:    "mul",
			Summary: "Multiply numbers.",
			Params: []command.ParameterSpec{
				{Name: "a", Type: argtype.Float, Description: "first factor"},
				{Name: "b", Type: argtype.Float, Description: "second factor"},
			},
			Body: func(args command.Args) (any, error) {
				return c.format(args.Float("a", 0) * args.Float("b", 0)), nil
			},
		})),
		must(command.Operation(command.OperationSpec{
			Name:    "div",
			Summary: "Divide a by b.",
			Params: []command.ParameterSpec{
				{Name: "a", Type: argtype.Float, Description: "dividend"},
				{Name: "b", Type: argtype.Float, Description: "divisor"},
			},
			Validations: []command.Validation{{
				Description: "divisor must not be zero",
				Check: func(args command.Args) error {
					if args.Float("b", 0) == 0 {
						return errors.New("division by zero")
					}
					return nil
				},
			}},
			Body: func(args command.Args) (any, error) {
				return c.format(args.Float("a", 0) / args.Float("b", 0)), nil
			},
		})),
		must(command.Operation(command.OperationSpec{
			Name:    "round",
			Summary: "Round a number.",
			Params: []command.ParameterSpec{
				{Name: "value", Type: argtype.Float, Description: "number to round"},
				{Name: "mode", Type: roundModes, Description: "rounding direction", Default: "nearest", HasDefault: true},
			},
			Body: func(args command.Args) (any, error) {
				v := args.Float("value", 0)
				switch args.String("mode", "nearest") {
				case "up":
					return int(math.Ceil(v)), nil
				case "down":
					return int(math.Floor(v)), nil
				default:
					return int(math.Round(v)), nil
				}
			},
		})),
		must(command.Operation(command.OperationSpec{
			Name:    "sum-file",
			Summary: "Sum the numbers in a file, one per line.",
			Params: []command.ParameterSpec{
				{Name: "file", Type: argtype.Path, Description: "input file"},
			},
			Body: func(args command.Args) (any, error) {
				return c.sumFile(args.String("file", ""))
			},
		})),
		must(command.Setting(command.SettingSpec{
			Name:    "precision",
			Summary: "Digits shown after the decimal point.",
			Params: []command.ParameterSpec{
				{Name: "value", Type: argtype.Int, Description: "digit count"},
			},
			Validations: []command.Validation{{
				Description: "value must be between 0 and 12",
				Check: func(args command.Args) error {
					if v := args.Int("value", 0); v < 0 || v > 12 {
						return errors.New("precision must be between 0 and 12")
					}
					return nil
				},
			}},
			Body: func(args command.Args) (any, error) {
				return args.Int("value", 0), nil
			},
			InitialValue: 2,
			Updates:      true,
		})),
		must(command.Delegation(command.DelegationSpec{
			Name:    "memory",
			Summary: "Stored values.",
			Factory: func() (*command.Registry, error) {
				return newMemory(c), nil
			},
			Reuse: true,
		})),
	)

	return reg
}

// newMemory builds the delegate registry for the memory sub-program.
func newMemory(c *calculator) *command.Registry {
	m := &memoryStore{}
	reg := command.NewRegistry("memory", "", "stored values")

	reg.MustAdd(
		must(command.Operation(command.OperationSpec{
			Name:    "store",
			Summary: "Store a value.",
			Params: []command.ParameterSpec{
				{Name: "value", Type: argtype.Float, Description: "value to keep"},
			},
			Body: func(args command.Args) (any, error) {
				m.values = append(m.values, args.Float("value", 0))
				return nil, nil
			},
		})),
		must(command.Operation(command.OperationSpec{
			Name:    "show",
			Summary: "List stored values.",
			Body: func(command.Args) (any, error) {
				if len(m.values) == 0 {
					return "empty", nil
				}
				parts := make([]string, len(m.values))
				for i, v := range m.values {
					parts[i] = c.format(v)
				}
				return strings.Join(parts, " "), nil
			},
		})),
		must(command.Operation(command.OperationSpec{
			Name:    "total",
			Summary: "Sum of stored values.",
			Body: func(command.Args) (any, error) {
				var sum float64
				for _, v := range m.values {
					sum += v
				}
				return c.format(sum), nil
			},
		})),
		must(command.Operation(command.OperationSpec{
			Name:    "clear",
			Summary: "Discard stored values.",
			Body: func(command.Args) (any, error) {
				m.values = nil
				return nil, nil
			},
		})),
	)

	return reg
}

func (c *calculator) sumFile(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sum float64
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		v, err := argtype.Float.Convert(line)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		sum += v.(float64)
	}
	return c.format(sum), nil
}
