package workflow

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forge-dev/forge/executor"
)

func testRunner() *Runner {
	exec := executor.New().
		WithOutput(io.Discard).
		WithConfirm(func(string) (string, error) { return "", nil })
	return NewRunner(exec).WithOutput(io.Discard).WithRetryDelay(0)
}

func requireUnix(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("relies on unix shell utilities")
	}
}

func TestRunSuccess(t *testing.T) {
	requireUnix(t)

	r := testRunner()
	r.Add(Simple("greet", []string{"echo one", "echo two"}))

	execution, err := r.Run(context.Background(), "greet")
	require.NoError(t, err)

	assert.True(t, execution.Success)
	require.Len(t, execution.Steps, 2)
	assert.Equal(t, "one\n", execution.Steps[0].Output)
	assert.Equal(t, "two\n", execution.Steps[1].Output)

	_, err = uuid.Parse(execution.ID)
	assert.NoError(t, err, "execution ID should be a UUID")
}

func TestRunStopsOnFailure(t *testing.T) {
	requireUnix(t)

	r := testRunner()
	r.Add(&Workflow{
		Name: "broken",
		Steps: []Step{
			{Name: "ok", Command: "echo fine"},
			{Name: "boom", Command: `sh -c "exit 1"`},
			{Name: "never", Command: "echo unreachable"},
		},
		OnFailure: FailStop,
	})

	execution, err := r.Run(context.Background(), "broken")
	require.NoError(t, err)

	assert.False(t, execution.Success)
	require.Len(t, execution.Steps, 2)
	assert.False(t, execution.Steps[1].Success)
	assert.Contains(t, execution.Steps[1].Error, "exit code 1")
}

func TestRunContinueOnFailure(t *testing.T) {
	requireUnix(t)

	r := testRunner()
	r.Add(&Workflow{
		Name: "tolerant",
		Steps: []Step{
			{Name: "boom", Command: `sh -c "exit 1"`, ContinueOnFailure: true},
			{Name: "after", Command: "echo still here"},
		},
		OnFailure: FailStop,
	})

	execution, err := r.Run(context.Background(), "tolerant")
	require.NoError(t, err)

	assert.True(t, execution.Success, "continue_on_failure steps do not fail the run")
	require.Len(t, execution.Steps, 2)
	assert.Equal(t, "still here\n", execution.Steps[1].Output)
}

func TestRunOnFailureContinue(t *testing.T) {
	requireUnix(t)

	r := testRunner()
	r.Add(&Workflow{
		Name: "keep-going",
		Steps: []Step{
			{Name: "boom", Command: `sh -c "exit 1"`},
			{Name: "after", Command: "echo ran anyway"},
		},
		OnFailure: FailContinue,
	})

	execution, err := r.Run(context.Background(), "keep-going")
	require.NoError(t, err)

	assert.False(t, execution.Success)
	require.Len(t, execution.Steps, 2)
	assert.True(t, execution.Steps[1].Success)
}

func TestRunRetries(t *testing.T) {
	requireUnix(t)

	// Succeeds once the marker file exists, which the command itself
	// creates on its first attempt.
	marker := filepath.Join(t.TempDir(), "marker")
	command := `sh -c "test -f ` + marker + ` || { touch ` + marker + `; exit 1; }"`

	r := testRunner()
	r.Add(&Workflow{
		Name:  "flaky",
		Steps: []Step{{Name: "eventually", Command: command, Retries: 3}},
	})

	execution, err := r.Run(context.Background(), "flaky")
	require.NoError(t, err)

	assert.True(t, execution.Success)
	assert.Equal(t, 1, execution.Steps[0].Retries)
}

func TestRunVariableSubstitution(t *testing.T) {
	requireUnix(t)

	r := testRunner()
	r.Add(&Workflow{
		Name:      "vars",
		Variables: map[string]string{"WHO": "world"},
		Steps:     []Step{{Name: "greet", Command: "echo hello ${WHO}"}},
	})

	execution, err := r.Run(context.Background(), "vars")
	require.NoError(t, err)
	assert.Equal(t, "hello world\n", execution.Steps[0].Output)
}

func TestRunSkipsOnCondition(t *testing.T) {
	requireUnix(t)

	missing := filepath.Join(t.TempDir(), "nope")

	r := testRunner()
	r.Add(&Workflow{
		Name: "conditional",
		Steps: []Step{
			{
				Name:       "guarded",
				Command:    "echo should not run",
				Conditions: []Condition{{Type: FileExists, Value: missing}},
			},
			{Name: "always", Command: "echo ran"},
		},
	})

	execution, err := r.Run(context.Background(), "conditional")
	require.NoError(t, err)

	assert.True(t, execution.Success)
	assert.True(t, execution.Steps[0].Skipped)
	assert.False(t, execution.Steps[1].Skipped)
}

func TestRunStepChaining(t *testing.T) {
	requireUnix(t)

	r := testRunner()
	r.Add(&Workflow{
		Name: "chain",
		Steps: []Step{
			{Name: "first", Command: `sh -c "exit 1"`, ContinueOnFailure: true},
			{
				Name:       "on-success",
				Command:    "echo success path",
				Conditions: []Condition{{Type: StepSucceeded, Value: "first"}},
			},
			{
				Name:       "on-failure",
				Command:    "echo failure path",
				Conditions: []Condition{{Type: StepFailed, Value: "first"}},
			},
		},
	})

	execution, err := r.Run(context.Background(), "chain")
	require.NoError(t, err)

	require.Len(t, execution.Steps, 3)
	assert.True(t, execution.Steps[1].Skipped)
	assert.False(t, execution.Steps[2].Skipped)
	assert.Equal(t, "failure path\n", execution.Steps[2].Output)
}

func TestConditionHolds(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "present")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	t.Setenv("FORGE_TEST_CONDITION", "1")

	cases := []struct {
		name string
		cond Condition
		want bool
	}{
		{"file exists", Condition{FileExists, file}, true},
		{"file exists on dir", Condition{FileExists, dir}, false},
		{"file missing", Condition{FileMissing, filepath.Join(dir, "gone")}, true},
		{"dir exists", Condition{DirExists, dir}, true},
		{"dir exists on file", Condition{DirExists, file}, false},
		{"dir missing", Condition{DirMissing, filepath.Join(dir, "gone")}, true},
		{"env set", Condition{EnvSet, "FORGE_TEST_CONDITION"}, true},
		{"env unset", Condition{EnvSet, "FORGE_TEST_NOT_SET"}, false},
		{"unknown step", Condition{StepSucceeded, "ghost"}, false},
	}

	execution := &Execution{}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, conditionHolds(tt.cond, execution))
		})
	}
}

func TestRunUnknownWorkflow(t *testing.T) {
	_, err := testRunner().Run(context.Background(), "ghost")
	assert.ErrorContains(t, err, "not found")
}

func TestList(t *testing.T) {
	r := testRunner()
	r.Add(Simple("zeta", []string{"echo"}))
	r.Add(Simple("alpha", []string{"echo"}))

	assert.Equal(t, []string{"alpha", "zeta"}, r.List())
}
