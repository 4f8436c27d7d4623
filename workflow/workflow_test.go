package workflow

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	w, err := Parse([]byte(`
name: release
description: Tag and push a release
variables:
  VERSION: v1.0.0
on_failure: continue
steps:
  - name: tag
    command: git tag ${VERSION}
    timeout: 30s
  - name: push
    command: git push --tags
    retries: 2
    conditions:
      - type: step_succeeded
        value: tag
`))
	require.NoError(t, err)

	assert.Equal(t, "release", w.Name)
	assert.Equal(t, FailContinue, w.OnFailure)
	assert.Equal(t, "v1.0.0", w.Variables["VERSION"])

	require.Len(t, w.Steps, 2)
	assert.Equal(t, Duration(30*time.Second), w.Steps[0].Timeout)
	assert.Equal(t, 2, w.Steps[1].Retries)
	require.Len(t, w.Steps[1].Conditions, 1)
	assert.Equal(t, StepSucceeded, w.Steps[1].Conditions[0].Type)
}

func TestParseDefaultsOnFailure(t *testing.T) {
	w, err := Parse([]byte("name: x\nsteps:\n  - name: a\n    command: echo hi\n"))
	require.NoError(t, err)
	assert.Equal(t, FailStop, w.OnFailure)
}

func TestParseRejectsInvalid(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"no name", "steps:\n  - name: a\n    command: echo\n"},
		{"no steps", "name: x\n"},
		{"unnamed step", "name: x\nsteps:\n  - command: echo\n"},
		{"step without command", "name: x\nsteps:\n  - name: a\n"},
		{"duplicate step", "name: x\nsteps:\n  - name: a\n    command: echo\n  - name: a\n    command: echo\n"},
		{"bad on_failure", "name: x\non_failure: explode\nsteps:\n  - name: a\n    command: echo\n"},
		{"bad condition", "name: x\nsteps:\n  - name: a\n    command: echo\n    conditions:\n      - type: moon_phase\n        value: full\n"},
		{"bad duration", "name: x\nsteps:\n  - name: a\n    command: echo\n    timeout: forever\n"},
		{"not yaml", "{{{"},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wf.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: x\nsteps:\n  - name: a\n    command: echo hi\n"), 0o644))

	w, err := ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, "x", w.Name)

	_, err = ParseFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestSimple(t *testing.T) {
	w := Simple("quick", []string{"echo one", "echo two"})

	require.NoError(t, w.Validate())
	require.Len(t, w.Steps, 2)
	assert.Equal(t, "step-1", w.Steps[0].Name)
	assert.Equal(t, "echo two", w.Steps[1].Command)
	assert.Equal(t, FailStop, w.OnFailure)
}

func TestPresetsAreValid(t *testing.T) {
	for _, w := range Presets() {
		assert.NoError(t, w.Validate(), w.Name)
	}
}
