package shell

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/shellframe-tools/shellframe/command"
	"github.com/shellframe-tools/shellframe/internal/history"
	"github.com/shellframe-tools/shellframe/internal/log"
	"github.com/shellframe-tools/shellframe/internal/style"
	"github.com/shellframe-tools/shellframe/parser"
)

// Reserved first-token prefixes, matched before command-name lookup.
var (
	settingPrefixes = []string{".set", ".setting"}
	readPrefixes    = []string{".r", ".read"}
)

func isHelpFlag(tok string) bool { return tok == "-h" || tok == "--help" }

func isOneOf(tok string, set []string) bool {
	for _, s := range set {
		if tok == s {
			return true
		}
	}
	return false
}

// Logger is the leveled sink the session reports recovered errors to.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Options configure a session. Zero values select stdout, a no-op
// logger, no history, the default marker, and the default exit tokens.
type Options struct {
	Output     io.Writer
	Logger     Logger
	History    *history.Store
	Marker     string
	ExitTokens []string
}

// Session drives one interactive or scripted run of a program. One line
// is fully parsed, validated, and dispatched before the next is read;
// there is no background execution.
type Session struct {
	nav    *Navigator
	out    io.Writer
	log    Logger
	hist   *history.Store
	id     string
	marker string
	last   any
}

// NewSession creates a session rooted at the given registry.
func NewSession(root *command.Registry, opts Options) *Session {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Logger == nil {
		opts.Logger = log.NopLogger{}
	}
	if opts.Marker == "" {
		opts.Marker = "> "
	}
	return &Session{
		nav:    NewNavigator(root, opts.ExitTokens),
		out:    opts.Output,
		log:    opts.Logger,
		hist:   opts.History,
		id:     uuid.NewString(),
		marker: opts.Marker,
	}
}

// Done reports whether an exit token has popped the last frame.
func (s *Session) Done() bool { return s.nav.Done() }

// LastResult returns the result of the most recently dispatched command.
func (s *Session) LastResult() any { return s.last }

// Marker returns the prompt marker, prefixed with the active frame path
// when the session has entered a delegation.
func (s *Session) Marker() string {
	if path := s.nav.Path(); path != "" {
		return path + " " + s.marker
	}
	return s.marker
}

// RunLine consumes one input line: reserved prefixes and exit tokens
// first, then command resolution, binding, validation, and dispatch.
// Failures are reported through the logger and returned; no error is
// fatal to the session.
func (s *Session) RunLine(line string) error {
	err := s.runLine(line, false)
	s.logFailure(err)
	return err
}

// logFailure reports an error once, at the line that produced it. A
// replay abort was already logged by the failing line inside the script.
func (s *Session) logFailure(err error) {
	var aborted *replayAbort
	if err == nil || errors.As(err, &aborted) {
		return
	}
	s.log.Error("%v", err)
}

// Execute runs one line with output suppressed and returns the dispatched
// result. Intended for embedding callers driving the program without a
// terminal.
func (s *Session) Execute(line string) (any, error) {
	if err := s.runLine(line, true); err != nil {
		s.logFailure(err)
		return nil, err
	}
	return s.last, nil
}

// replayAbort wraps the error that stopped a script replay. The failing
// line already reported it through the logger.
type replayAbort struct {
	err error
}

func (e *replayAbort) Error() string { return e.err.Error() }
func (e *replayAbort) Unwrap() error { return e.err }

// RunScript replays lines from a reader in the current frame, as if
// typed. A failing line terminates the replay; an exit token popping the
// last frame ends the session as usual.
func (s *Session) RunScript(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() && !s.nav.Done() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		fmt.Fprintln(s.out, style.Muted(s.Marker()+line))
		if err := s.RunLine(line); err != nil {
			return &replayAbort{err: err}
		}
	}
	return scanner.Err()
}

// Run reads lines until the session ends or input is exhausted. Callers
// with a terminal get the interactive prompt; piped input falls back to
// a plain line reader where a failing line does not stop the following
// ones.
func (s *Session) Run() error {
	s.printBanner()
	if promptAvailable() {
		return s.runPrompt()
	}
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() && !s.nav.Done() {
		_ = s.RunLine(scanner.Text())
	}
	return scanner.Err()
}

func (s *Session) printBanner() {
	reg := s.nav.Active()
	if reg == nil {
		return
	}
	if reg.Description != "" {
		fmt.Fprintln(s.out, style.Header(reg.Name)+" - "+reg.Description)
	} else {
		fmt.Fprintln(s.out, style.Header(reg.Name))
	}
	fmt.Fprintln(s.out, style.Muted(fmt.Sprintf(
		"exit: %s | settings: %s | replay: %s <file> | append -h to any command for help",
		strings.Join(s.nav.ExitTokens(), ", "),
		settingPrefixes[0],
		readPrefixes[0],
	)))
}

func (s *Session) runLine(line string, silent bool) error {
	if s.nav.Done() {
		return nil
	}
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return nil
	}
	s.last = nil
	if strings.HasPrefix(trimmed, "#") {
		if !silent {
			fmt.Fprintln(s.out, style.Muted(trimmed))
		}
		return nil
	}

	s.record(trimmed)

	tokens, err := parser.Split(trimmed)
	if err != nil {
		return err
	}
	if len(tokens) == 0 {
		return nil
	}

	if len(tokens) == 1 && s.nav.IsExitToken(tokens[0]) {
		s.nav.Pop()
		return nil
	}
	if isOneOf(tokens[0], settingPrefixes) {
		return s.runSetting(tokens[1:], silent)
	}
	if isOneOf(tokens[0], readPrefixes) {
		return s.runRead(tokens[1:])
	}
	if isHelpFlag(tokens[len(tokens)-1]) {
		return s.runHelp(tokens[:len(tokens)-1])
	}

	res, err := resolve(s.nav.Active(), tokens)
	if err != nil {
		return err
	}
	if res.enter {
		for _, frame := range res.chain {
			s.nav.Push(frame)
		}
		return nil
	}

	args, err := parser.Bind(res.model, res.args)
	if err != nil {
		return err
	}
	if err := parser.Validate(res.model, args); err != nil {
		return err
	}
	result, err := Dispatch(res.registry, res.model, args)
	if err != nil {
		return err
	}
	s.last = result
	if !silent {
		s.emit(res.model, result)
	}
	return nil
}

// runSetting handles the settings-access prefix: bare lists all settings,
// a name alone reports its current value, a name with value tokens runs
// the setting's bind, validate, and dispatch path.
func (s *Session) runSetting(tokens []string, silent bool) error {
	reg := s.nav.Active()

	if len(tokens) == 0 {
		if !silent {
			for _, name := range reg.SettingNames() {
				v, _ := reg.SettingValue(name)
				fmt.Fprintf(s.out, "%s=%v\n", name, v)
			}
		}
		return nil
	}

	name := tokens[0]
	m, ok := reg.Lookup(name)
	if !ok || m.Kind != command.KindSetting {
		return &UnknownCommandError{
			Program:     reg.Name,
			Name:        name,
			Suggestions: findSimilar(name, reg.SettingNames(), maxSuggestions),
		}
	}

	if len(tokens) == 1 {
		v, _ := reg.SettingValue(name)
		s.last = v
		if !silent {
			fmt.Fprintln(s.out, style.Value(fmt.Sprintf("=%v", v)))
		}
		return nil
	}

	args, err := parser.Bind(m, tokens[1:])
	if err != nil {
		return err
	}
	if err := parser.Validate(m, args); err != nil {
		return err
	}
	result, err := Dispatch(reg, m, args)
	if err != nil {
		return err
	}
	s.last = result
	if !silent {
		s.emit(m, result)
	}
	return nil
}

// runRead replays a script file in the current frame.
func (s *Session) runRead(tokens []string) error {
	if len(tokens) != 1 {
		return fmt.Errorf("usage: %s <file>", readPrefixes[0])
	}
	f, err := os.Open(tokens[0])
	if err != nil {
		return fmt.Errorf("cannot read script: %w", err)
	}
	defer f.Close()
	return s.RunScript(f)
}

// runHelp renders help for the command path preceding the help flag, or
// for the active frame's program when the path is empty.
func (s *Session) runHelp(path []string) error {
	if len(path) == 0 {
		fmt.Fprint(s.out, renderProgramHelp(s.nav.Active()))
		return nil
	}
	res, err := resolve(s.nav.Active(), path)
	if err != nil {
		return err
	}
	if res.enter {
		fmt.Fprint(s.out, renderProgramHelp(res.chain[len(res.chain)-1]))
		return nil
	}
	fmt.Fprint(s.out, renderCommandHelp(res.model))
	return nil
}

// emit renders a dispatched result. Nothing is printed for a nil result;
// settings prefix their output with '='.
func (s *Session) emit(m *command.Model, result any) {
	if result == nil {
		return
	}
	if m.Kind == command.KindSetting {
		fmt.Fprintln(s.out, style.Value(fmt.Sprintf("=%v", result)))
		return
	}
	fmt.Fprintf(s.out, "%v\n", result)
}

// record appends an accepted line to the persistent history.
func (s *Session) record(line string) {
	if s.hist == nil {
		return
	}
	if err := s.hist.Append(s.id, s.nav.Path(), line); err != nil {
		s.log.Debug("history append failed: %v", err)
	}
}

// Complete proposes candidates for a partial last token given the tokens
// already fixed on the line. Safe to call on every keystroke.
func (s *Session) Complete(tokens []string, partial string) []string {
	reg := s.nav.Active()
	if reg == nil {
		return nil
	}

	if len(tokens) > 0 {
		switch {
		case isOneOf(tokens[0], settingPrefixes):
			if len(tokens) == 1 {
				return filterPrefix(reg.SettingNames(), partial)
			}
			// Past the name, complete the setting's own argument domain.
			if m, ok := reg.Lookup(tokens[1]); !ok || m.Kind != command.KindSetting {
				return nil
			}
			return complete(reg, nil, tokens[1:], partial)
		case isOneOf(tokens[0], readPrefixes):
			if len(tokens) == 1 {
				return pathCandidates(partial)
			}
			return nil
		}
	}

	var extras []string
	extras = append(extras, s.nav.ExitTokens()...)
	extras = append(extras, settingPrefixes...)
	extras = append(extras, readPrefixes...)
	return complete(reg, extras, tokens, partial)
}

// CompleteLine splits a raw line and completes its last token. A line
// that does not tokenize yields no suggestions.
func (s *Session) CompleteLine(line string) []string {
	tokens, partial := splitForCompletion(line)
	if tokens == nil && partial == "" && strings.TrimSpace(line) != "" {
		return nil
	}
	return s.Complete(tokens, partial)
}

// splitForCompletion tokenizes a line still being typed. A trailing space
// starts a fresh empty token; an untokenizable line yields nothing.
func splitForCompletion(line string) (tokens []string, partial string) {
	fields, err := parser.Split(line)
	if err != nil {
		return nil, ""
	}
	if len(fields) == 0 {
		return nil, ""
	}
	if strings.HasSuffix(line, " ") || strings.HasSuffix(line, "\t") {
		return fields, ""
	}
	rest := fields[:len(fields)-1]
	if len(rest) == 0 {
		rest = nil
	}
	return rest, fields[len(fields)-1]
}
