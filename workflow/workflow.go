// Package workflow runs named sequences of shell commands described
// in YAML files, with per-step retries, timeouts, and conditions.
package workflow

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so step timeouts can be written as
// "30s" or "5m" in workflow files.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := time.ParseDuration(node.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", node.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

type ConditionType string

const (
	FileExists    ConditionType = "file_exists"
	FileMissing   ConditionType = "file_missing"
	DirExists     ConditionType = "dir_exists"
	DirMissing    ConditionType = "dir_missing"
	EnvSet        ConditionType = "env_set"
	StepSucceeded ConditionType = "step_succeeded"
	StepFailed    ConditionType = "step_failed"
)

// Condition gates a step; all of a step's conditions must hold or
// the step is skipped.
type Condition struct {
	Type  ConditionType `yaml:"type"`
	Value string        `yaml:"value"`
}

type Step struct {
	Name              string      `yaml:"name"`
	Command           string      `yaml:"command"`
	Description       string      `yaml:"description,omitempty"`
	ContinueOnFailure bool        `yaml:"continue_on_failure,omitempty"`
	Timeout           Duration    `yaml:"timeout,omitempty"`
	Retries           int         `yaml:"retries,omitempty"`
	Conditions        []Condition `yaml:"conditions,omitempty"`
}

type FailureAction string

const (
	FailStop     FailureAction = "stop"
	FailContinue FailureAction = "continue"
	FailRollback FailureAction = "rollback"
)

type Workflow struct {
	Name        string            `yaml:"name"`
	Description string            `yaml:"description,omitempty"`
	Steps       []Step            `yaml:"steps"`
	Variables   map[string]string `yaml:"variables,omitempty"`
	OnFailure   FailureAction     `yaml:"on_failure,omitempty"`
}

// Parse decodes a workflow definition and validates it.
func Parse(data []byte) (*Workflow, error) {
	var w Workflow
	if err := yaml.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("parse workflow: %w", err)
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return &w, nil
}

// ParseFile reads and parses a workflow file.
func ParseFile(path string) (*Workflow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read workflow: %w", err)
	}
	return Parse(data)
}

func (w *Workflow) Validate() error {
	if w.Name == "" {
		return fmt.Errorf("workflow has no name")
	}
	if len(w.Steps) == 0 {
		return fmt.Errorf("workflow %q has no steps", w.Name)
	}

	switch w.OnFailure {
	case "":
		w.OnFailure = FailStop
	case FailStop, FailContinue, FailRollback:
	default:
		return fmt.Errorf("workflow %q: unknown on_failure action %q", w.Name, w.OnFailure)
	}

	seen := make(map[string]bool, len(w.Steps))
	for i, step := range w.Steps {
		if step.Name == "" {
			return fmt.Errorf("workflow %q: step %d has no name", w.Name, i+1)
		}
		if step.Command == "" {
			return fmt.Errorf("workflow %q: step %q has no command", w.Name, step.Name)
		}
		if seen[step.Name] {
			return fmt.Errorf("workflow %q: duplicate step name %q", w.Name, step.Name)
		}
		seen[step.Name] = true

		for _, cond := range step.Conditions {
			switch cond.Type {
			case FileExists, FileMissing, DirExists, DirMissing,
				EnvSet, StepSucceeded, StepFailed:
			default:
				return fmt.Errorf("workflow %q: step %q: unknown condition type %q",
					w.Name, step.Name, cond.Type)
			}
		}
	}
	return nil
}

// Simple builds a stop-on-failure workflow with one step per command.
func Simple(name string, commands []string) *Workflow {
	steps := make([]Step, len(commands))
	for i, command := range commands {
		steps[i] = Step{
			Name:    fmt.Sprintf("step-%d", i+1),
			Command: command,
			Timeout: Duration(5 * time.Minute),
		}
	}
	return &Workflow{
		Name:      name,
		Steps:     steps,
		OnFailure: FailStop,
	}
}
