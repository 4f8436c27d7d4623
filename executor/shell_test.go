package executor

import (
	"context"
	"io"
	"runtime"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testShell() *Shell {
	return NewShell(testExecutor("")).WithOutput(io.Discard)
}

func TestEnvironmentExpand(t *testing.T) {
	env := NewEnvironment()
	env.Set("NAME", "forge")

	assert.Equal(t, "hello forge", env.Expand("hello $NAME"))
	assert.Equal(t, "hello forge!", env.Expand("hello ${NAME}!"))
	assert.Equal(t, "no vars here", env.Expand("no vars here"))
}

func TestEnvironmentChangeDir(t *testing.T) {
	env := NewEnvironment()
	dir := t.TempDir()

	require.NoError(t, env.ChangeDir(dir))
	assert.Equal(t, dir, env.WorkingDir())

	require.Error(t, env.ChangeDir(dir+"/nope"))
	assert.Equal(t, dir, env.WorkingDir(), "failed cd must not move the cwd")
}

func TestEnvironmentChangeDirRelative(t *testing.T) {
	env := NewEnvironment()
	dir := t.TempDir()
	require.NoError(t, env.ChangeDir(dir))

	require.NoError(t, env.ChangeDir(".."))
	assert.NotEqual(t, dir, env.WorkingDir())
}

func TestShellBuiltinPwd(t *testing.T) {
	s := testShell()
	dir := t.TempDir()
	require.NoError(t, s.env.ChangeDir(dir))

	result, err := s.Execute(context.Background(), "pwd")
	require.NoError(t, err)
	assert.Equal(t, dir+"\n", result.Stdout)
}

func TestShellBuiltinCd(t *testing.T) {
	s := testShell()
	dir := t.TempDir()

	result, err := s.Execute(context.Background(), "cd "+dir)
	require.NoError(t, err)
	assert.True(t, result.Success())
	assert.Equal(t, dir, s.env.WorkingDir())

	result, err = s.Execute(context.Background(), "cd /definitely/not/here")
	require.NoError(t, err)
	assert.False(t, result.Success())
	assert.Contains(t, result.Stderr, "does not exist")
}

func TestShellBuiltinSet(t *testing.T) {
	s := testShell()

	_, err := s.Execute(context.Background(), "set GREETING=hello")
	require.NoError(t, err)

	v, ok := s.env.Get("GREETING")
	require.True(t, ok)
	assert.Equal(t, "hello", v)

	result, err := s.Execute(context.Background(), "set")
	require.NoError(t, err)
	assert.Contains(t, result.Stdout, "GREETING=hello")
}

func TestShellAlias(t *testing.T) {
	s := testShell()

	_, err := s.Execute(context.Background(), "alias gs git status")
	require.NoError(t, err)
	assert.Equal(t, "git status", s.aliases["gs"])

	assert.Equal(t, "ls -la /tmp", s.resolveAlias("ll /tmp"))
	assert.Equal(t, "cd ..", s.resolveAlias(".."))
	assert.Equal(t, "plain command", s.resolveAlias("plain command"))

	result, err := s.Execute(context.Background(), "alias")
	require.NoError(t, err)
	assert.Contains(t, result.Stdout, "gs='git status'")
}

func TestShellHistory(t *testing.T) {
	s := testShell()
	ctx := context.Background()

	_, err := s.Execute(ctx, "pwd")
	require.NoError(t, err)
	_, err = s.Execute(ctx, "alias")
	require.NoError(t, err)

	result, err := s.Execute(ctx, "history")
	require.NoError(t, err)
	assert.Contains(t, result.Stdout, "1  pwd")
	assert.Contains(t, result.Stdout, "2  alias")
}

func TestShellExit(t *testing.T) {
	_, err := testShell().Execute(context.Background(), "exit")
	assert.ErrorIs(t, err, ErrExit)
}

func TestShellVariableExpansionInCommand(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("relies on unix shell utilities")
	}

	s := testShell()
	s.env.Set("TARGET", "world")

	result, err := s.Execute(context.Background(), "echo hello $TARGET")
	require.NoError(t, err)
	assert.Equal(t, "hello world\n", result.Stdout)
}

func TestShellEmptyLine(t *testing.T) {
	s := testShell()

	result, err := s.Execute(context.Background(), "   ")
	require.NoError(t, err)
	assert.True(t, result.Success())
	assert.Equal(t, 0, s.history.Size())
}

func TestShellSuggestions(t *testing.T) {
	s := testShell()
	s.history.Add("git checkout main")

	got := s.Suggestions("gi")
	assert.Contains(t, got, "git")
	assert.Contains(t, got, "git checkout main")
	assert.True(t, sort.StringsAreSorted(got))

	assert.LessOrEqual(t, len(s.Suggestions("")), 10)
}
