package shell

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/shellframe-tools/shellframe/command"
	"github.com/shellframe-tools/shellframe/internal/style"
)

// usageLine builds a usage string from the parameter specs: required
// positionals bare, defaulted positionals and variadics bracketed.
func usageLine(m *command.Model) string {
	parts := []string{m.Name}
	for _, p := range m.Positionals() {
		if p.HasDefault {
			parts = append(parts, "["+p.Name+"]")
		} else {
			parts = append(parts, p.Name)
		}
	}
	if vp := m.VariadicPositional(); vp != nil {
		parts = append(parts, "["+vp.Name+"...]")
	}
	if vk := m.VariadicKeyword(); vk != nil {
		parts = append(parts, "["+vk.Name+"=value...]")
	}
	return strings.Join(parts, " ")
}

// formatUsage styles the command name in Info color and the rest muted.
func formatUsage(usage string) string {
	name, rest, found := strings.Cut(usage, " ")
	if !found {
		return style.Info(name)
	}
	return style.Info(name) + " " + style.Muted(rest)
}

// renderCommandHelp renders one command: usage line, description, one
// bullet per validation description, and per-parameter descriptions with
// the argument type's display string.
func renderCommandHelp(m *command.Model) string {
	var out bytes.Buffer

	out.WriteString("USAGE\n   ")
	out.WriteString(formatUsage(usageLine(m)))
	out.WriteString("\n")

	if m.Summary != "" {
		out.WriteString("\n")
		out.WriteString(m.Summary)
		out.WriteString("\n")
	}

	var checks []string
	for _, v := range m.Validations {
		if v.Description != "" {
			checks = append(checks, v.Description)
		}
	}
	if len(checks) > 0 {
		out.WriteString("\n")
		out.WriteString(style.Header("CHECKS"))
		out.WriteString("\n")
		for _, c := range checks {
			out.WriteString("   - ")
			out.WriteString(c)
			out.WriteString("\n")
		}
	}

	if len(m.Params) > 0 {
		out.WriteString("\n")
		out.WriteString(style.Header("ARGUMENTS"))
		out.WriteString("\n")
		width := 0
		for _, p := range m.Params {
			if len(p.Name) > width {
				width = len(p.Name)
			}
		}
		for _, p := range m.Params {
			out.WriteString(fmt.Sprintf("   %-*s  %s", width, p.Name, style.Muted(p.Type.String())))
			if p.Description != "" {
				out.WriteString("  ")
				out.WriteString(p.Description)
			}
			out.WriteString("\n")
		}
	}

	return out.String()
}

// renderProgramHelp renders a registry's own description plus a listing
// of all its commands in declaration order.
func renderProgramHelp(reg *command.Registry) string {
	var out bytes.Buffer

	out.WriteString(style.Header(reg.Name))
	if reg.Version != "" {
		out.WriteString(" ")
		out.WriteString(style.Muted(reg.Version))
	}
	if reg.Description != "" {
		out.WriteString(" - ")
		out.WriteString(reg.Description)
	}
	out.WriteString("\n\nCOMMANDS\n")

	commands := reg.Commands()
	width := 0
	for _, m := range commands {
		if len(m.Name) > width {
			width = len(m.Name)
		}
	}
	for _, m := range commands {
		out.WriteString(fmt.Sprintf("   %-*s  %s", width, m.Name, style.Muted(m.Kind.String())))
		if m.Summary != "" {
			out.WriteString("  ")
			out.WriteString(m.Summary)
		}
		out.WriteString("\n")
	}

	return out.String()
}
