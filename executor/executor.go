// Package executor runs shell commands on behalf of the assistant,
// gating everything through the safety checker before a process is
// spawned.
package executor

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/forge-dev/forge/safety"
)

var (
	// ErrBlocked is returned when the safety checker refuses a
	// command outright.
	ErrBlocked = errors.New("command blocked for safety")

	// ErrCancelled is returned when the user declines a
	// confirmation prompt.
	ErrCancelled = errors.New("command cancelled by user")
)

// Options controls how a single command is run.
type Options struct {
	Timeout       time.Duration
	CaptureOutput bool
	SafetyCheck   bool
	WorkingDir    string
	Env           []string
}

func DefaultOptions() Options {
	return Options{
		CaptureOutput: true,
		SafetyCheck:   true,
	}
}

// Result is the outcome of one command.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration
}

func (r Result) Success() bool { return r.ExitCode == 0 }

// ConfirmFunc answers a confirmation prompt with the user's raw
// reply. The default implementation reads a line from stdin.
type ConfirmFunc func(prompt string) (string, error)

type Executor struct {
	checker *safety.Checker
	confirm ConfirmFunc
	out     io.Writer
}

func New() *Executor {
	return &Executor{
		checker: safety.NewChecker(),
		confirm: stdinConfirm,
		out:     os.Stderr,
	}
}

// WithAllowedCommands restricts execution to an allowlist of command
// names.
func (e *Executor) WithAllowedCommands(commands []string) *Executor {
	e.checker = safety.NewChecker().WithAllowedCommands(commands)
	return e
}

func (e *Executor) WithConfirm(fn ConfirmFunc) *Executor {
	e.confirm = fn
	return e
}

func (e *Executor) WithOutput(w io.Writer) *Executor {
	e.out = w
	return e
}

func stdinConfirm(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Approve runs the safety gate for a command without executing it.
// Low and medium risks ask for confirmation, high risk requires the
// literal answer YES, critical commands are always refused.
func (e *Executor) Approve(command string) error {
	risk := e.checker.Assess(command)

	switch risk.Level {
	case safety.RiskSafe:
		return nil
	case safety.RiskLow, safety.RiskMedium:
		fmt.Fprintf(e.out, "warning: %s risk: %s\n", risk.Level, risk.Reason)
		for _, s := range risk.Suggestions {
			fmt.Fprintf(e.out, "  - %s\n", s)
		}
		if risk.Level == safety.RiskMedium {
			e.printAlternatives(command)
		}
		answer, err := e.confirm("Proceed with execution? [y/N] ")
		if err != nil {
			return err
		}
		if !strings.EqualFold(answer, "y") {
			return ErrCancelled
		}
		return nil
	case safety.RiskHigh:
		fmt.Fprintf(e.out, "danger: high risk: %s\n", risk.Reason)
		for _, s := range risk.Suggestions {
			fmt.Fprintf(e.out, "  - %s\n", s)
		}
		e.printAlternatives(command)
		answer, err := e.confirm("This is dangerous. Type YES to confirm: ")
		if err != nil {
			return err
		}
		if answer != "YES" {
			return ErrCancelled
		}
		return nil
	default:
		fmt.Fprintf(e.out, "blocked: critical risk: %s\n", risk.Reason)
		for _, s := range risk.Suggestions {
			fmt.Fprintf(e.out, "  - %s\n", s)
		}
		e.printAlternatives(command)
		return fmt.Errorf("%w: %s", ErrBlocked, risk.Reason)
	}
}

func (e *Executor) printAlternatives(command string) {
	alternatives := e.checker.SafeAlternatives(command)
	if len(alternatives) == 0 {
		return
	}
	fmt.Fprintln(e.out, "Safe alternatives:")
	for _, alt := range alternatives {
		fmt.Fprintf(e.out, "  * %s\n", alt)
	}
}

// Run executes a command line after the safety gate passes.
func (e *Executor) Run(ctx context.Context, command string, opts Options) (Result, error) {
	if opts.SafetyCheck {
		if err := e.Approve(command); err != nil {
			return Result{}, err
		}
	}

	parts := splitCommandLine(command)
	if len(parts) == 0 {
		return Result{}, nil
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, parts[0], parts[1:]...)
	cmd.Dir = opts.WorkingDir
	cmd.Env = opts.Env

	var stdout, stderr bytes.Buffer
	if opts.CaptureOutput {
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
	} else {
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		cmd.Stdin = os.Stdin
	}

	start := time.Now()
	err := cmd.Run()
	result := Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case ctx.Err() != nil:
		return result, fmt.Errorf("command %q: %w", command, ctx.Err())
	case errors.As(err, &exitErr):
		result.ExitCode = exitErr.ExitCode()
	default:
		return result, fmt.Errorf("start %q: %w", parts[0], err)
	}
	return result, nil
}

// RunBatch executes commands in order, stopping at the first failure.
func (e *Executor) RunBatch(ctx context.Context, commands []string, opts Options) ([]Result, error) {
	results := make([]Result, 0, len(commands))
	for _, command := range commands {
		result, err := e.Run(ctx, command, opts)
		if err != nil {
			return results, err
		}
		results = append(results, result)
		if !result.Success() {
			return results, fmt.Errorf("command %q exited with code %d", command, result.ExitCode)
		}
	}
	return results, nil
}

// splitCommandLine breaks a command into arguments, honoring double
// quotes but nothing fancier.
func splitCommandLine(command string) []string {
	var parts []string
	var current strings.Builder
	inQuotes := false

	for _, r := range command {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == ' ' && !inQuotes:
			if current.Len() > 0 {
				parts = append(parts, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(r)
		}
	}
	if current.Len() > 0 {
		parts = append(parts, current.String())
	}
	return parts
}
