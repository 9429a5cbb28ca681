// Package shell drives a declared command program as a navigable shell:
// it resolves input lines against the active registry frame, binds and
// validates arguments, dispatches commands, proposes completions, and
// renders help and results.
package shell

import (
	"strings"

	"github.com/shellframe-tools/shellframe/command"
)

// DefaultExitTokens pop the current frame when entered alone.
var DefaultExitTokens = []string{"q", "quit", "exit"}

// Navigator maintains the active context stack across nested registries.
// It starts with the root program as its sole frame, grows when a
// delegation is entered, and shrinks on an exit token. Popping the last
// frame ends the session.
type Navigator struct {
	frames     []*command.Registry
	exitTokens []string
}

// NewNavigator creates a navigator rooted at the given registry. An empty
// exitTokens slice selects DefaultExitTokens.
func NewNavigator(root *command.Registry, exitTokens []string) *Navigator {
	if len(exitTokens) == 0 {
		exitTokens = DefaultExitTokens
	}
	return &Navigator{
		frames:     []*command.Registry{root},
		exitTokens: exitTokens,
	}
}

// Active returns the top frame's registry, or nil once the stack is
// empty.
func (n *Navigator) Active() *command.Registry {
	if len(n.frames) == 0 {
		return nil
	}
	return n.frames[len(n.frames)-1]
}

// Depth returns the number of frames on the stack.
func (n *Navigator) Depth() int { return len(n.frames) }

// Done reports whether the last frame has been popped.
func (n *Navigator) Done() bool { return len(n.frames) == 0 }

// Path returns the program names of the frames below the root, space
// joined. Empty at the root frame.
func (n *Navigator) Path() string {
	if len(n.frames) < 2 {
		return ""
	}
	names := make([]string, 0, len(n.frames)-1)
	for _, f := range n.frames[1:] {
		names = append(names, f.Name)
	}
	return strings.Join(names, " ")
}

// Push makes a delegate registry the active frame.
func (n *Navigator) Push(r *command.Registry) {
	n.frames = append(n.frames, r)
}

// Pop removes the active frame. It returns false once the stack is empty,
// which terminates the session.
func (n *Navigator) Pop() bool {
	if len(n.frames) == 0 {
		return false
	}
	n.frames = n.frames[:len(n.frames)-1]
	return len(n.frames) > 0
}

// IsExitToken reports whether tok is one of the configured exit tokens.
func (n *Navigator) IsExitToken(tok string) bool {
	for _, t := range n.exitTokens {
		if tok == t {
			return true
		}
	}
	return false
}

// ExitTokens returns the configured exit token set.
func (n *Navigator) ExitTokens() []string { return n.exitTokens }
