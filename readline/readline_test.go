package readline

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestInstance(input string) *Instance {
	return newTestInstanceFrom(strings.NewReader(input))
}

func newTestInstanceFrom(r io.Reader) *Instance {
	return &Instance{
		Prompt:   &Prompt{Prompt: "> ", AltPrompt: "... "},
		Terminal: newTestTerminal(r),
		History:  NewHistory(DefaultHistorySize),
		out:      io.Discard,
	}
}

func TestReadlineCommit(t *testing.T) {
	i := newTestInstance("hello\r")
	line, err := i.Readline()
	require.NoError(t, err)
	assert.Equal(t, "hello", line)
	assert.Equal(t, []string{"hello"}, i.History.Entries())
}

func TestReadlineInsertAtCursor(t *testing.T) {
	// "ab", cursor left once, then "c" lands between a and b
	i := newTestInstance("ab\x1b[Dc\r")
	line, err := i.Readline()
	require.NoError(t, err)
	assert.Equal(t, "acb", line)
}

func TestReadlineInterrupt(t *testing.T) {
	i := newTestInstance("partial\x03")
	_, err := i.Readline()
	assert.ErrorIs(t, err, ErrInterrupt)
	assert.Empty(t, i.History.Entries())
}

func TestReadlineEOFOnEmptyBuffer(t *testing.T) {
	i := newTestInstance("\x04")
	_, err := i.Readline()
	assert.ErrorIs(t, err, io.EOF)
}

func TestReadlineCtrlDDeletesWhenNotEmpty(t *testing.T) {
	// "abc", home, ctrl+d removes the char under the cursor
	i := newTestInstance("abc\x01\x04\r")
	line, err := i.Readline()
	require.NoError(t, err)
	assert.Equal(t, "bc", line)
}

func TestReadlineKillBindings(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"ctrl+w kills word", "hello world\x17\r", "hello "},
		{"ctrl+u kills to start", "hello\x15x\r", "x"},
		{"ctrl+k kills to end", "hello\x02\x02\x0b\r", "hel"},
		{"ctrl+a and ctrl+e", "ell\x01h\x05o\r", "hello"},
		{"alt+backspace kills word", "one two\x1b\x7f\r", "one "},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			i := newTestInstance(tt.input)
			line, err := i.Readline()
			require.NoError(t, err)
			assert.Equal(t, tt.want, line)
		})
	}
}

func TestReadlineBackspaceAtStart(t *testing.T) {
	i := newTestInstance("\x7f\x7fab\r")
	line, err := i.Readline()
	require.NoError(t, err)
	assert.Equal(t, "ab", line)
}

func TestReadlineHistoryNavigation(t *testing.T) {
	i := newTestInstance("\x1b[A\r")
	i.History.Add("first")
	i.History.Add("second")

	line, err := i.Readline()
	require.NoError(t, err)
	assert.Equal(t, "second", line)
}

func TestReadlineHistoryDownRestoresLiveBuffer(t *testing.T) {
	// type "draft", go up into history, then back down to the live line
	i := newTestInstance("draft\x1b[A\x1b[B\r")
	i.History.Add("old")

	line, err := i.Readline()
	require.NoError(t, err)
	assert.Equal(t, "draft", line)
}

func TestReadlineEscapeIgnored(t *testing.T) {
	// the pause after a lone escape keypress is modeled by a chunk
	// boundary
	i := newTestInstanceFrom(&splitReader{chunks: []string{"\x1b", "ok\r"}})
	line, err := i.Readline()
	require.NoError(t, err)
	assert.Equal(t, "ok", line)
}

func TestReadlineUnknownSequenceIgnored(t *testing.T) {
	i := newTestInstance("a\x1b[Zb\r")
	line, err := i.Readline()
	require.NoError(t, err)
	assert.Equal(t, "ab", line)
}

func TestReadlineMultilineBracketDepth(t *testing.T) {
	i := newTestInstance("foo(bar\rbaz)\r")
	i.MultilineEnable()

	line, err := i.Readline()
	require.NoError(t, err)
	assert.Equal(t, "foo(bar\nbaz)", line)
}

func TestReadlineMultilineBalancedCommits(t *testing.T) {
	i := newTestInstance("foo(bar)\r")
	i.MultilineEnable()

	line, err := i.Readline()
	require.NoError(t, err)
	assert.Equal(t, "foo(bar)", line)
}

func TestReadlineMultilineBackslash(t *testing.T) {
	i := newTestInstance("one \\\rtwo\r")
	i.MultilineEnable()

	line, err := i.Readline()
	require.NoError(t, err)
	assert.Equal(t, "one \\\ntwo", line)
}

func TestReadlineMultilineDisabledCommitsUnbalanced(t *testing.T) {
	i := newTestInstance("foo(bar\r")
	line, err := i.Readline()
	require.NoError(t, err)
	assert.Equal(t, "foo(bar", line)
}

func TestReadlineCompletionSingleCandidate(t *testing.T) {
	i := newTestInstance("git sta\t\r")
	i.Completer = CompleterFunc(func(prefix string) []string {
		assert.Equal(t, "sta", prefix)
		return []string{"status"}
	})

	line, err := i.Readline()
	require.NoError(t, err)
	assert.Equal(t, "git status", line)
}

func TestReadlineCompletionManyCandidatesKeepsLine(t *testing.T) {
	i := newTestInstance("git s\t\r")
	i.Completer = CompleterFunc(func(prefix string) []string {
		return []string{"status", "stash", "show"}
	})

	line, err := i.Readline()
	require.NoError(t, err)
	assert.Equal(t, "git s", line)
}

func TestReadlineTabWithoutCompleterIndents(t *testing.T) {
	i := newTestInstance("\ta\r")
	line, err := i.Readline()
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat(" ", 8)+"a", line)
}

func TestReadlineReverseSearch(t *testing.T) {
	// ^R git ^R ^R walks from the newest match to the oldest, enter
	// exits the search, enter commits the loaded line
	i := newTestInstance("\x12git\x12\x12\r\r")
	i.History.Add("git status")
	i.History.Add("git add .")
	i.History.Add("ls -la")
	i.History.Add("git commit")

	line, err := i.Readline()
	require.NoError(t, err)
	assert.Equal(t, "git status", line)
}

func TestReadlineReverseSearchAbort(t *testing.T) {
	// escape leaves the search; the matched entry stays in the buffer
	i := newTestInstanceFrom(&splitReader{chunks: []string{"\x12add\x1b", "tail\r"}})
	i.History.Add("git add .")

	line, err := i.Readline()
	require.NoError(t, err)
	assert.Equal(t, "git add .tail", line)
}

func TestReadlineReverseSearchNoMatch(t *testing.T) {
	i := newTestInstance("\x12zzz\rkept\r")
	i.History.Add("git status")

	line, err := i.Readline()
	require.NoError(t, err)
	assert.Equal(t, "kept", line)
}

func TestReadlineSessionHistoryAccumulates(t *testing.T) {
	i := newTestInstance("one\rtwo\r\x1b[A\x1b[A\r")

	for _, want := range []string{"one", "two", "one"} {
		line, err := i.Readline()
		require.NoError(t, err)
		assert.Equal(t, want, line)
	}
}
