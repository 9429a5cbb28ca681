package shell

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shellframe-tools/shellframe/argtype"
	"github.com/shellframe-tools/shellframe/command"
	"github.com/shellframe-tools/shellframe/internal/testutil"
	"github.com/shellframe-tools/shellframe/parser"
)

type captureLogger struct {
	errors []string
}

func (l *captureLogger) Debug(string, ...any) {}
func (l *captureLogger) Info(string, ...any)  {}
func (l *captureLogger) Warn(string, ...any)  {}
func (l *captureLogger) Error(format string, args ...any) {
	l.errors = append(l.errors, fmt.Sprintf(format, args...))
}

func newTestSession(t *testing.T) (*Session, *bytes.Buffer, *captureLogger) {
	t.Helper()
	out := &bytes.Buffer{}
	logger := &captureLogger{}
	s := NewSession(calcProgram(t, &testCounters{}), Options{Output: out, Logger: logger})
	return s, out, logger
}

func TestRunLineOperation(t *testing.T) {
	s, out, _ := newTestSession(t)

	require.NoError(t, s.RunLine("add 1 2"))
	require.Equal(t, "3\n", out.String())
	require.Equal(t, 3, s.LastResult())
}

func TestRunLineEmptyAndWhitespace(t *testing.T) {
	s, out, logger := newTestSession(t)

	require.NoError(t, s.RunLine(""))
	require.NoError(t, s.RunLine("   "))
	require.Empty(t, out.String())
	require.Empty(t, logger.errors)
}

func TestRunLineCommentEchoed(t *testing.T) {
	s, out, logger := newTestSession(t)

	require.NoError(t, s.RunLine("# warming up"))
	require.Contains(t, out.String(), "# warming up")
	require.Empty(t, logger.errors)
}

func TestRunLineConversionErrorLogged(t *testing.T) {
	s, out, logger := newTestSession(t)

	err := s.RunLine("add one 2")
	var parseErr *parser.ParseError
	require.ErrorAs(t, err, &parseErr)
	require.Equal(t, parser.ErrConversion, parseErr.Kind)
	require.Equal(t, "a", parseErr.Param)

	require.Empty(t, out.String())
	require.Len(t, logger.errors, 1)
	require.False(t, s.Done())
}

func TestRunLineUnknownCommand(t *testing.T) {
	s, _, logger := newTestSession(t)

	err := s.RunLine("addd 1 2")
	var unknown *UnknownCommandError
	require.ErrorAs(t, err, &unknown)
	require.Len(t, logger.errors, 1)
}

func TestSettingUpdateAndQuery(t *testing.T) {
	s, out, _ := newTestSession(t)

	// Initial value queried through the settings prefix.
	require.NoError(t, s.RunLine(".set precision"))
	require.Equal(t, "=<nil>\n", out.String())
	out.Reset()

	require.NoError(t, s.RunLine("precision 5"))
	require.Equal(t, "=5\n", out.String())
	out.Reset()

	require.NoError(t, s.RunLine(".set precision"))
	require.Equal(t, "=5\n", out.String())
}

func TestSettingInvokeThroughPrefix(t *testing.T) {
	s, out, _ := newTestSession(t)

	require.NoError(t, s.RunLine(".setting precision 7"))
	require.Equal(t, "=7\n", out.String())

	v, ok := calcValue(s)
	require.True(t, ok)
	require.Equal(t, 7, v)
}

func calcValue(s *Session) (any, bool) {
	return s.nav.Active().SettingValue("precision")
}

func TestSettingValidationRejected(t *testing.T) {
	s, out, _ := newTestSession(t)

	err := s.RunLine(".set precision -3")
	var vErr *parser.ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Empty(t, out.String())

	v, _ := calcValue(s)
	require.Nil(t, v)
}

func TestBareSettingListsAll(t *testing.T) {
	s, out, _ := newTestSession(t)

	require.NoError(t, s.RunLine("precision 2"))
	out.Reset()

	require.NoError(t, s.RunLine(".set"))
	require.Equal(t, "precision=2\n", out.String())
}

func TestUnknownSettingName(t *testing.T) {
	s, _, _ := newTestSession(t)

	err := s.RunLine(".set brightness")
	var unknown *UnknownCommandError
	require.ErrorAs(t, err, &unknown)
	require.Equal(t, "brightness", unknown.Name)
}

func TestEnterAndExit(t *testing.T) {
	s, out, _ := newTestSession(t)
	require.Equal(t, "> ", s.Marker())

	require.NoError(t, s.RunLine("memory"))
	require.Equal(t, "memory > ", s.Marker())
	require.Empty(t, out.String())

	require.NoError(t, s.RunLine("show"))
	require.Equal(t, "mem\n", out.String())

	require.NoError(t, s.RunLine("q"))
	require.Equal(t, "> ", s.Marker())
	require.False(t, s.Done())

	require.NoError(t, s.RunLine("quit"))
	require.True(t, s.Done())
}

func TestTransientInvokeKeepsFrame(t *testing.T) {
	s, out, _ := newTestSession(t)

	require.NoError(t, s.RunLine("memory show"))
	require.Equal(t, "mem\n", out.String())
	require.Equal(t, "> ", s.Marker())
}

func TestNestedTransientInvoke(t *testing.T) {
	s, out, _ := newTestSession(t)

	require.NoError(t, s.RunLine("memory deep peek"))
	require.Equal(t, "deep\n", out.String())
	require.Equal(t, "> ", s.Marker())
}

func TestNestedEnterPushesEachFrame(t *testing.T) {
	s, _, _ := newTestSession(t)

	require.NoError(t, s.RunLine("memory deep"))
	require.Equal(t, "memory deep > ", s.Marker())

	require.NoError(t, s.RunLine("q"))
	require.Equal(t, "memory > ", s.Marker())
}

func TestDelegationFailureKeepsFrame(t *testing.T) {
	s, _, logger := newTestSession(t)

	err := s.RunLine("bad show")
	var dErr *DelegationError
	require.ErrorAs(t, err, &dErr)
	require.Len(t, logger.errors, 1)
	require.Equal(t, "> ", s.Marker())
	require.False(t, s.Done())
}

func TestDelegationReuseAcrossLines(t *testing.T) {
	counters := &testCounters{}
	s := NewSession(calcProgram(t, counters), Options{Output: &bytes.Buffer{}})

	require.NoError(t, s.RunLine("memory show"))
	require.NoError(t, s.RunLine("memory show"))
	require.Equal(t, 1, counters.memory)

	require.NoError(t, s.RunLine("scratch show"))
	require.NoError(t, s.RunLine("scratch show"))
	require.Equal(t, 2, counters.scratch)
}

func TestExecuteSilent(t *testing.T) {
	s, out, _ := newTestSession(t)

	result, err := s.Execute("add 2 3")
	require.NoError(t, err)
	require.Equal(t, 5, result)
	require.Empty(t, out.String())
	require.Equal(t, 5, s.LastResult())
}

func TestRunScriptStopsOnFailure(t *testing.T) {
	s, out, _ := newTestSession(t)

	script := "add 1 2\nbogus\nadd 3 4\n"
	err := s.RunScript(strings.NewReader(script))
	require.Error(t, err)

	require.Contains(t, out.String(), "3\n")
	require.NotContains(t, out.String(), "7")
}

func TestRunScriptSkipsBlankAndComments(t *testing.T) {
	s, out, _ := newTestSession(t)

	script := "\n# setup\nadd 1 1\n"
	require.NoError(t, s.RunScript(strings.NewReader(script)))
	require.Contains(t, out.String(), "# setup")
	require.Contains(t, out.String(), "2\n")
}

func TestReadPrefixReplaysFile(t *testing.T) {
	s, out, _ := newTestSession(t)

	path := filepath.Join(t.TempDir(), "script.txt")
	require.NoError(t, os.WriteFile(path, []byte("add 4 5\n"), 0600))

	require.NoError(t, s.RunLine(".r "+path))
	require.Contains(t, out.String(), "9\n")
}

func TestReadPrefixMissingFile(t *testing.T) {
	s, _, logger := newTestSession(t)

	require.Error(t, s.RunLine(".read /does/not/exist"))
	require.Len(t, logger.errors, 1)
}

func TestHelpForCommand(t *testing.T) {
	s, out, _ := newTestSession(t)

	require.NoError(t, s.RunLine("add -h"))
	got := out.String()
	require.Contains(t, got, "USAGE")
	require.Contains(t, got, "add a b")
	require.Contains(t, got, "first operand")
	require.Contains(t, got, "int")
}

func TestHelpShowsValidationBullets(t *testing.T) {
	s, out, _ := newTestSession(t)

	require.NoError(t, s.RunLine("precision --help"))
	require.Contains(t, out.String(), "value must not be negative")
}

func TestHelpForProgram(t *testing.T) {
	s, out, _ := newTestSession(t)

	require.NoError(t, s.RunLine("-h"))
	got := out.String()
	require.Contains(t, got, "calc")
	require.Contains(t, got, "a toy calculator")
	require.Contains(t, got, "add")
	require.Contains(t, got, "precision")
}

func TestHelpAtDelegationDepth(t *testing.T) {
	s, out, _ := newTestSession(t)

	require.NoError(t, s.RunLine("memory show -h"))
	require.Contains(t, out.String(), "USAGE")
	require.Contains(t, out.String(), "show")
}

func TestHelpForDelegation(t *testing.T) {
	s, out, _ := newTestSession(t)

	require.NoError(t, s.RunLine("memory -h"))
	require.Contains(t, out.String(), "stored values")
	require.Contains(t, out.String(), "show")
}

func TestHistoryRecorded(t *testing.T) {
	store := testutil.NewTestStore(t)
	out := &bytes.Buffer{}
	s := NewSession(calcProgram(t, &testCounters{}), Options{Output: out, History: store})

	require.NoError(t, s.RunLine("add 1 2"))
	require.NoError(t, s.RunLine("# a comment"))
	require.NoError(t, s.RunLine("memory"))
	require.NoError(t, s.RunLine("show"))

	entries, err := store.Recent(10)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	require.Equal(t, "show", entries[0].Line)
	require.Equal(t, "memory", entries[0].Frame)
	require.Equal(t, "memory", entries[1].Line)
	require.Equal(t, "add 1 2", entries[2].Line)
	require.Equal(t, "", entries[2].Frame)
}

func TestSessionComplete(t *testing.T) {
	s, _, _ := newTestSession(t)

	got := s.Complete(nil, "")
	require.Contains(t, got, "add")
	require.Contains(t, got, "q")
	require.Contains(t, got, ".set")
	require.Contains(t, got, ".r")

	require.Equal(t, []string{"precision"}, s.Complete([]string{".set"}, "p"))
	require.Equal(t, []string{"show"}, s.Complete([]string{"memory"}, "sh"))
}

func TestSettingArgumentCompletionThroughPrefix(t *testing.T) {
	modes, err := argtype.NewStringEnum("fast", "slow")
	require.NoError(t, err)

	mode := mustModel(command.Setting(command.SettingSpec{
		Name:   "mode",
		Params: []command.ParameterSpec{{Name: "value", Type: modes}},
		Body: func(args command.Args) (any, error) {
			v, _ := args.Get("value")
			return v, nil
		},
		Updates: true,
	}))
	reg := command.NewRegistry("cfg", "", "").MustAdd(mode)
	s := NewSession(reg, Options{Output: &bytes.Buffer{}})

	// The argument domain completes the same way through the settings
	// prefix as through the plain command form.
	require.Equal(t, []string{"fast", "slow"}, s.Complete([]string{".set", "mode"}, ""))
	require.Equal(t,
		s.Complete([]string{"mode"}, ""),
		s.Complete([]string{".set", "mode"}, ""))
	require.Equal(t, []string{"fast"}, s.Complete([]string{".set", "mode"}, "f"))

	require.Empty(t, s.Complete([]string{".set", "nope"}, ""))
	require.Empty(t, s.Complete([]string{".set", "mode", "fast"}, ""))
}

func TestReplayFailureLoggedOnce(t *testing.T) {
	s, _, logger := newTestSession(t)

	path := filepath.Join(t.TempDir(), "script.txt")
	require.NoError(t, os.WriteFile(path, []byte("add 1 2\nbogus\n"), 0600))

	require.Error(t, s.RunLine(".r "+path))
	require.Len(t, logger.errors, 1)
}

func TestLastResultResetPerLine(t *testing.T) {
	s, _, _ := newTestSession(t)

	require.NoError(t, s.RunLine("add 1 2"))
	require.Equal(t, 3, s.LastResult())

	// Non-dispatching lines clear the previous result.
	result, err := s.Execute("# note")
	require.NoError(t, err)
	require.Nil(t, result)

	require.NoError(t, s.RunLine("add 2 2"))
	require.Equal(t, 4, s.LastResult())

	require.NoError(t, s.RunLine("memory"))
	require.Nil(t, s.LastResult())
}

func TestSessionCompleteTracksActiveFrame(t *testing.T) {
	s, _, _ := newTestSession(t)

	require.NoError(t, s.RunLine("memory"))
	got := s.Complete(nil, "")
	require.Contains(t, got, "show")
	require.NotContains(t, got, "add")
}

func TestCompleteLine(t *testing.T) {
	s, _, _ := newTestSession(t)

	require.Equal(t, []string{"add"}, s.CompleteLine("ad"))
	require.Equal(t, []string{"show"}, s.CompleteLine("memory sh"))
	require.Empty(t, s.CompleteLine("\"unterminated"))
}

func TestLineSuggestionsArePrefixed(t *testing.T) {
	s, _, _ := newTestSession(t)

	require.Equal(t, []string{"memory show"}, s.lineSuggestions("memory sh"))
	require.Equal(t, []string{"sign 1", "sign -1"}, s.lineSuggestions("sign "))
}
