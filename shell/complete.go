package shell

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/shellframe-tools/shellframe/argtype"
	"github.com/shellframe-tools/shellframe/command"
)

// complete proposes candidates for the partial last token, given the
// frame's registry and the tokens already fixed. extras are additional
// position-0 candidates (exit tokens and reserved prefixes); they apply
// only at the outermost frame. The engine is deterministic, keeps no
// state between calls, executes no validations, and mutates nothing.
func complete(reg *command.Registry, extras []string, tokens []string, partial string) (out []string) {
	defer func() {
		if recover() != nil {
			out = nil
		}
	}()

	if len(tokens) == 0 {
		names := append(reg.CommandNames(), extras...)
		return filterPrefix(names, partial)
	}

	m, ok := reg.Lookup(tokens[0])
	if !ok {
		return nil
	}

	if m.Kind == command.KindDelegation {
		delegate, err := resolveDelegate(reg, m, false)
		if err != nil {
			return nil
		}
		return complete(delegate, nil, tokens[1:], partial)
	}

	// Keyword syntax in progress has no intrinsic candidate domain.
	if strings.Contains(partial, "=") {
		return nil
	}

	param := paramAt(m, tokens[1:])
	if param == nil {
		return nil
	}
	if argtype.IsPath(param.Type) {
		return pathCandidates(partial)
	}
	return safeComplete(param.Type, partial)
}

// paramAt resolves the parameter the next token would bind to, counting
// the positional tokens already consumed. Keyword tokens do not count
// toward positional positions.
func paramAt(m *command.Model, consumed []string) *command.ParameterSpec {
	pos := 0
	for _, tok := range consumed {
		if !strings.Contains(tok, "=") {
			pos++
		}
	}
	positionals := m.Positionals()
	if pos < len(positionals) {
		return &positionals[pos]
	}
	return m.VariadicPositional()
}

// safeComplete queries an argument type's completion capability. A panic
// from a custom completer means "no suggestions", never a raised error.
func safeComplete(t argtype.ArgumentType, prefix string) (out []string) {
	defer func() {
		if recover() != nil {
			out = nil
		}
	}()
	return t.Complete(prefix)
}

// pathCandidates lists directory entries matching the partial path.
// Directories gain a trailing separator so completion can continue into
// them.
func pathCandidates(partial string) []string {
	dir, base := filepath.Split(partial)
	searchDir := dir
	if searchDir == "" {
		searchDir = "."
	}
	entries, err := os.ReadDir(searchDir)
	if err != nil {
		return nil
	}

	var out []string
	for _, e := range entries {
		name := e.Name()
		if !strings.HasPrefix(name, base) {
			continue
		}
		candidate := dir + name
		if e.IsDir() {
			candidate += string(os.PathSeparator)
		}
		out = append(out, candidate)
	}
	sort.Strings(out)
	return out
}

func filterPrefix(names []string, prefix string) []string {
	var out []string
	for _, n := range names {
		if strings.HasPrefix(n, prefix) {
			out = append(out, n)
		}
	}
	return out
}
