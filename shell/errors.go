package shell

import (
	"fmt"
	"strings"
)

// UnknownCommandError reports a first token matching no command name,
// exit token, or reserved prefix in the active frame.
type UnknownCommandError struct {
	Program     string
	Name        string
	Suggestions []string
}

func (e *UnknownCommandError) Error() string {
	msg := fmt.Sprintf("'%s' is not a %s command", e.Name, e.Program)
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(" (did you mean: %s?)", strings.Join(e.Suggestions, ", "))
	}
	return msg
}

// DelegationError reports a delegation factory that failed to produce a
// registry. The navigator stays at its pre-attempt frame.
type DelegationError struct {
	Name string
	Err  error
}

func (e *DelegationError) Error() string {
	return fmt.Sprintf("delegation '%s' failed: %v", e.Name, e.Err)
}

func (e *DelegationError) Unwrap() error { return e.Err }
