package workflow

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/olekukonko/tablewriter"

	"github.com/forge-dev/forge/executor"
)

// StepResult records the outcome of one step within a run.
type StepResult struct {
	Name     string
	Skipped  bool
	Success  bool
	Duration time.Duration
	Output   string
	Error    string
	Retries  int
}

// Execution is the report of one workflow run.
type Execution struct {
	ID       string
	Workflow string
	Started  time.Time
	Finished time.Time
	Steps    []StepResult
	Success  bool
}

func (e *Execution) Duration() time.Duration {
	return e.Finished.Sub(e.Started)
}

type Runner struct {
	executor   *executor.Executor
	workflows  map[string]*Workflow
	retryDelay time.Duration
	out        io.Writer
}

func NewRunner(exec *executor.Executor) *Runner {
	return &Runner{
		executor:   exec,
		workflows:  make(map[string]*Workflow),
		retryDelay: time.Second,
		out:        os.Stdout,
	}
}

func (r *Runner) WithOutput(w io.Writer) *Runner {
	r.out = w
	return r
}

func (r *Runner) WithRetryDelay(d time.Duration) *Runner {
	r.retryDelay = d
	return r
}

func (r *Runner) Add(w *Workflow) {
	r.workflows[w.Name] = w
}

// Load parses a workflow file and registers it.
func (r *Runner) Load(path string) (*Workflow, error) {
	w, err := ParseFile(path)
	if err != nil {
		return nil, err
	}
	r.Add(w)
	return w, nil
}

// Get returns a registered workflow by name.
func (r *Runner) Get(name string) (*Workflow, bool) {
	w, ok := r.workflows[name]
	return w, ok
}

// List returns the registered workflow names, sorted.
func (r *Runner) List() []string {
	names := make([]string, 0, len(r.workflows))
	for name := range r.workflows {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Run executes a registered workflow and returns the execution
// report. The report is returned even when the workflow fails.
func (r *Runner) Run(ctx context.Context, name string) (*Execution, error) {
	w, ok := r.workflows[name]
	if !ok {
		return nil, fmt.Errorf("workflow %q not found", name)
	}

	execution := &Execution{
		ID:       uuid.NewString(),
		Workflow: w.Name,
		Started:  time.Now(),
		Success:  true,
	}

	fmt.Fprintf(r.out, "Running workflow %q (%s)\n", w.Name, execution.ID)
	if w.Description != "" {
		fmt.Fprintln(r.out, w.Description)
	}

	for i, step := range w.Steps {
		fmt.Fprintf(r.out, "[%d/%d] %s\n", i+1, len(w.Steps), step.Name)

		if !r.conditionsMet(step, execution) {
			slog.Debug("skipping step", "workflow", w.Name, "step", step.Name)
			fmt.Fprintln(r.out, "  skipped: conditions not met")
			execution.Steps = append(execution.Steps, StepResult{Name: step.Name, Skipped: true, Success: true})
			continue
		}

		result := r.runStep(ctx, step, w.Variables)
		execution.Steps = append(execution.Steps, result)

		if result.Success || step.ContinueOnFailure {
			continue
		}

		execution.Success = false
		switch w.OnFailure {
		case FailContinue:
			fmt.Fprintln(r.out, "  step failed, continuing")
		case FailRollback:
			fmt.Fprintln(r.out, "  step failed, rolling back")
			r.rollback(execution)
		default:
			fmt.Fprintln(r.out, "  step failed, stopping workflow")
		}
		if w.OnFailure != FailContinue {
			break
		}
	}

	execution.Finished = time.Now()
	r.printSummary(execution)
	return execution, nil
}

func (r *Runner) runStep(ctx context.Context, step Step, variables map[string]string) StepResult {
	command := step.Command
	for key, value := range variables {
		command = strings.ReplaceAll(command, "${"+key+"}", value)
	}

	result := StepResult{Name: step.Name}
	start := time.Now()

	for attempt := 0; attempt <= step.Retries; attempt++ {
		if attempt > 0 {
			slog.Info("retrying step", "step", step.Name, "attempt", attempt, "of", step.Retries)
			select {
			case <-time.After(r.retryDelay):
			case <-ctx.Done():
				result.Error = ctx.Err().Error()
				result.Duration = time.Since(start)
				return result
			}
		}

		opts := executor.DefaultOptions()
		opts.Timeout = time.Duration(step.Timeout)

		run, err := r.executor.Run(ctx, command, opts)
		result.Retries = attempt
		if err != nil {
			result.Error = err.Error()
			continue
		}
		if run.Success() {
			result.Success = true
			result.Output = run.Stdout
			if run.Stderr != "" {
				result.Error = run.Stderr
			}
			break
		}
		result.Error = fmt.Sprintf("exit code %d: %s", run.ExitCode, strings.TrimSpace(run.Stderr))
	}

	result.Duration = time.Since(start)
	return result
}

func (r *Runner) conditionsMet(step Step, execution *Execution) bool {
	for _, cond := range step.Conditions {
		if !conditionHolds(cond, execution) {
			return false
		}
	}
	return true
}

func conditionHolds(cond Condition, execution *Execution) bool {
	switch cond.Type {
	case FileExists:
		info, err := os.Stat(cond.Value)
		return err == nil && !info.IsDir()
	case FileMissing:
		_, err := os.Stat(cond.Value)
		return err != nil
	case DirExists:
		info, err := os.Stat(cond.Value)
		return err == nil && info.IsDir()
	case DirMissing:
		info, err := os.Stat(cond.Value)
		return err != nil || !info.IsDir()
	case EnvSet:
		_, ok := os.LookupEnv(cond.Value)
		return ok
	case StepSucceeded, StepFailed:
		for _, prev := range execution.Steps {
			if prev.Name != cond.Value || prev.Skipped {
				continue
			}
			if cond.Type == StepSucceeded {
				return prev.Success
			}
			return !prev.Success
		}
		return false
	}
	return false
}

// rollback walks completed steps in reverse. Steps carry no undo
// commands yet, so this only reports what would be undone.
func (r *Runner) rollback(execution *Execution) {
	for i := len(execution.Steps) - 1; i >= 0; i-- {
		step := execution.Steps[i]
		if step.Success && !step.Skipped {
			fmt.Fprintf(r.out, "  would roll back: %s\n", step.Name)
		}
	}
}

func (r *Runner) printSummary(execution *Execution) {
	var data [][]string
	for i, step := range execution.Steps {
		status := "ok"
		switch {
		case step.Skipped:
			status = "skipped"
		case !step.Success:
			status = "failed"
		}

		retries := ""
		if step.Retries > 0 {
			retries = fmt.Sprintf("%d", step.Retries)
		}
		data = append(data, []string{
			fmt.Sprintf("%d", i+1),
			step.Name,
			status,
			fmt.Sprintf("%.2fs", step.Duration.Seconds()),
			retries,
		})
	}

	fmt.Fprintf(r.out, "\nWorkflow %q finished in %.2fs\n", execution.Workflow, execution.Duration().Seconds())

	table := tablewriter.NewWriter(r.out)
	table.SetHeader([]string{"#", "STEP", "STATUS", "DURATION", "RETRIES"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	table.AppendBulk(data)
	table.Render()

	for _, step := range execution.Steps {
		if !step.Success && step.Error != "" {
			fmt.Fprintf(r.out, "%s: %s\n", step.Name, step.Error)
		}
	}
}
