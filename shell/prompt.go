package shell

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/shellframe-tools/shellframe/internal/style"
)

// promptAvailable reports whether stdin is attached to a terminal. Piped
// input uses the plain line reader instead.
func promptAvailable() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// runPrompt reads lines through the interactive editor until the session
// ends or input closes. Failing lines are logged and the loop continues.
func (s *Session) runPrompt() error {
	for !s.nav.Done() {
		line, err := s.readLine()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		_ = s.RunLine(line)
	}
	return nil
}

// readLine runs one prompt cycle and returns the submitted line. Closing
// the input with ctrl+c or ctrl+d returns io.EOF.
func (s *Session) readLine() (string, error) {
	p := tea.NewProgram(newPromptModel(s))
	final, err := p.Run()
	if err != nil {
		return "", err
	}
	m := final.(promptModel)
	if m.eof {
		return "", io.EOF
	}
	return m.value, nil
}

// promptModel is the bubbletea model for one input line. Suggestions are
// refreshed on every keystroke from the session's completion engine and
// accepted through the text input's own suggestion keybinding.
type promptModel struct {
	session *Session
	input   textinput.Model
	value   string
	eof     bool
}

func newPromptModel(s *Session) promptModel {
	ti := textinput.New()
	ti.Prompt = style.Prompt(s.Marker())
	ti.ShowSuggestions = true
	ti.Focus()
	return promptModel{session: s, input: ti}
}

func (m promptModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEnter:
			m.value = m.input.Value()
			return m, tea.Quit
		case tea.KeyCtrlC, tea.KeyCtrlD:
			m.eof = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.input.SetSuggestions(m.session.lineSuggestions(m.input.Value()))
	return m, cmd
}

func (m promptModel) View() string {
	return m.input.View() + "\n"
}

// lineSuggestions turns token-level completions into whole-line
// suggestions, which is the shape the text input matches against.
func (s *Session) lineSuggestions(line string) []string {
	tokens, partial := splitForCompletion(line)
	candidates := s.Complete(tokens, partial)
	if len(candidates) == 0 {
		return nil
	}
	prefix := strings.Join(tokens, " ")
	if prefix != "" {
		prefix += " "
	}
	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = prefix + c
	}
	return out
}
