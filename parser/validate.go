package parser

import (
	"fmt"

	"github.com/shellframe-tools/shellframe/command"
)

// ValidationError reports a validation hook that rejected bound
// arguments. The command body does not execute.
type ValidationError struct {
	Command string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("'%s' rejected: %s", e.Command, e.Message)
}

// Validate runs the model's validation hooks in declaration order against
// the same bound arguments the command body would receive. The first hook
// that fails aborts the chain; later hooks do not run. Hooks observe the
// arguments read-only.
func Validate(m *command.Model, args command.Args) error {
	for _, v := range m.Validations {
		if v.Check == nil {
			continue
		}
		if err := v.Check(args); err != nil {
			return &ValidationError{Command: m.Name, Message: err.Error()}
		}
	}
	return nil
}
