package executor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/forge-dev/forge/envconfig"
	"github.com/forge-dev/forge/readline"
)

// ErrExit is returned by Shell.Execute when the exit builtin runs.
var ErrExit = errors.New("exit")

// Environment holds the mutable state of an interactive shell
// session: variables, working directory, and the lookup path.
type Environment struct {
	vars map[string]string
	cwd  string
}

func NewEnvironment() *Environment {
	vars := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			vars[k] = v
		}
	}

	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	return &Environment{vars: vars, cwd: cwd}
}

func (e *Environment) WorkingDir() string { return e.cwd }

func (e *Environment) Set(key, value string) { e.vars[key] = value }

func (e *Environment) Get(key string) (string, bool) {
	v, ok := e.vars[key]
	return v, ok
}

// Expand substitutes $VAR and ${VAR} references with the session's
// variables.
func (e *Environment) Expand(input string) string {
	return os.Expand(input, func(key string) string {
		return e.vars[key]
	})
}

// ChangeDir moves the working directory, resolving relative paths
// against the current one. "~" and the empty path mean $HOME.
func (e *Environment) ChangeDir(path string) error {
	path = e.Expand(path)
	if path == "" || path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		path = home
	} else if after, ok := strings.CutPrefix(path, "~/"); ok {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		path = filepath.Join(home, after)
	}

	if !filepath.IsAbs(path) {
		path = filepath.Join(e.cwd, path)
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("directory does not exist: %s", path)
	}
	if !info.IsDir() {
		return fmt.Errorf("not a directory: %s", path)
	}

	e.cwd = path
	return nil
}

func (e *Environment) environ() []string {
	env := make([]string, 0, len(e.vars))
	for k, v := range e.vars {
		env = append(env, k+"="+v)
	}
	return env
}

// Shell is the interactive execution loop. Commands run through the
// executor's safety gate; builtins handle session state like the
// working directory and aliases.
type Shell struct {
	executor *Executor
	env      *Environment
	aliases  map[string]string
	history  *readline.History
	out      io.Writer
	noSafety bool
}

func NewShell(executor *Executor) *Shell {
	return &Shell{
		executor: executor,
		env:      NewEnvironment(),
		aliases: map[string]string{
			"ll":  "ls -la",
			"la":  "ls -a",
			"..":  "cd ..",
			"...": "cd ../..",
		},
		history: readline.NewHistory(readline.DefaultHistorySize),
		out:     os.Stdout,
	}
}

func (s *Shell) WithOutput(w io.Writer) *Shell {
	s.out = w
	return s
}

// WithoutSafety disables the safety gate for every command in the
// session.
func (s *Shell) WithoutSafety() *Shell {
	s.noSafety = true
	return s
}

// Execute runs one line of input: alias resolution, variable
// expansion, builtins, then the external command.
func (s *Shell) Execute(ctx context.Context, line string) (Result, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Result{}, nil
	}

	s.history.Add(line)

	expanded := s.resolveAlias(s.env.Expand(line))

	if result, handled, err := s.builtin(expanded); handled {
		return result, err
	}

	opts := DefaultOptions()
	opts.SafetyCheck = !s.noSafety
	opts.WorkingDir = s.env.WorkingDir()
	opts.Env = s.env.environ()
	return s.executor.Run(ctx, expanded, opts)
}

func (s *Shell) builtin(line string) (Result, bool, error) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return Result{}, false, nil
	}

	switch parts[0] {
	case "cd":
		path := ""
		if len(parts) > 1 {
			path = parts[1]
		}
		if err := s.env.ChangeDir(path); err != nil {
			return Result{Stderr: err.Error() + "\n", ExitCode: 1}, true, nil
		}
		return Result{}, true, nil
	case "pwd":
		return Result{Stdout: s.env.WorkingDir() + "\n"}, true, nil
	case "export", "set":
		if len(parts) == 1 {
			var b strings.Builder
			keys := make([]string, 0, len(s.env.vars))
			for k := range s.env.vars {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(&b, "%s=%s\n", k, s.env.vars[k])
			}
			return Result{Stdout: b.String()}, true, nil
		}
		for _, arg := range parts[1:] {
			if k, v, ok := strings.Cut(arg, "="); ok {
				s.env.Set(k, v)
			}
		}
		return Result{}, true, nil
	case "alias":
		switch len(parts) {
		case 1:
			var b strings.Builder
			names := make([]string, 0, len(s.aliases))
			for name := range s.aliases {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Fprintf(&b, "%s='%s'\n", name, s.aliases[name])
			}
			return Result{Stdout: b.String()}, true, nil
		default:
			name := parts[1]
			s.aliases[name] = strings.Join(parts[2:], " ")
			return Result{}, true, nil
		}
	case "history":
		var b strings.Builder
		for i, entry := range s.history.Entries() {
			fmt.Fprintf(&b, "%4d  %s\n", i+1, entry)
		}
		return Result{Stdout: b.String()}, true, nil
	case "exit":
		return Result{}, true, ErrExit
	}
	return Result{}, false, nil
}

func (s *Shell) resolveAlias(line string) string {
	name, rest, _ := strings.Cut(line, " ")
	target, ok := s.aliases[name]
	if !ok {
		return line
	}
	if rest == "" {
		return target
	}
	return target + " " + rest
}

// Suggestions returns completions for a partial command: common
// command names plus matching history entries, at most ten.
func (s *Shell) Suggestions(partial string) []string {
	common := []string{
		"ls", "cd", "pwd", "echo", "cat", "grep", "find", "ps", "top", "df", "du",
		"git", "go", "npm", "python", "node", "make",
		"curl", "wget", "ssh", "scp", "rsync", "tar", "gzip", "unzip",
	}

	seen := make(map[string]bool)
	var suggestions []string
	for _, cmd := range common {
		if strings.HasPrefix(cmd, partial) && !seen[cmd] {
			seen[cmd] = true
			suggestions = append(suggestions, cmd)
		}
	}
	for _, entry := range s.history.Entries() {
		if strings.HasPrefix(entry, partial) && !seen[entry] {
			seen[entry] = true
			suggestions = append(suggestions, entry)
		}
	}

	sort.Strings(suggestions)
	if len(suggestions) > 10 {
		suggestions = suggestions[:10]
	}
	return suggestions
}

// Interactive runs the shell loop until exit or EOF. Input comes
// through the line editor, so history navigation and completion work
// the same way as in the chat prompt.
func (s *Shell) Interactive(ctx context.Context) error {
	rl, err := readline.New(readline.Prompt{})
	if err != nil {
		return err
	}
	rl.Completer = readline.CompleterFunc(s.Suggestions)

	historyFile := filepath.Join(envconfig.Dir(), "shell_history")
	if err := rl.LoadHistory(historyFile); err != nil {
		slog.Debug("could not load shell history", "error", err)
	}
	defer func() {
		if err := rl.SaveHistory(historyFile); err != nil {
			slog.Warn("could not save shell history", "error", err)
		}
	}()

	fmt.Fprintln(s.out, "forge shell: type 'help' for builtins, 'exit' to quit")

	for {
		rl.Prompt.Prompt = fmt.Sprintf("forge:%s$ ", filepath.Base(s.env.WorkingDir()))

		line, err := rl.Readline()
		switch {
		case errors.Is(err, io.EOF):
			fmt.Fprintln(s.out)
			return nil
		case errors.Is(err, readline.ErrInterrupt):
			continue
		case err != nil:
			return err
		}

		if strings.TrimSpace(line) == "help" {
			s.printHelp()
			continue
		}

		result, err := s.Execute(ctx, line)
		switch {
		case errors.Is(err, ErrExit):
			fmt.Fprintln(s.out, "Goodbye!")
			return nil
		case errors.Is(err, ErrCancelled), errors.Is(err, ErrBlocked):
			fmt.Fprintln(s.out, err.Error())
			continue
		case err != nil:
			fmt.Fprintf(s.out, "error: %v\n", err)
			continue
		}

		if result.Stdout != "" {
			fmt.Fprint(s.out, result.Stdout)
		}
		if result.Stderr != "" {
			fmt.Fprint(s.out, result.Stderr)
		}
		if !result.Success() {
			fmt.Fprintf(s.out, "command failed with exit code %d\n", result.ExitCode)
		}
	}
}

func (s *Shell) printHelp() {
	fmt.Fprintln(s.out, "Builtin commands:")
	fmt.Fprintln(s.out, "  cd <path>         change directory")
	fmt.Fprintln(s.out, "  pwd               print working directory")
	fmt.Fprintln(s.out, "  set [VAR=VALUE]   set or list session variables")
	fmt.Fprintln(s.out, "  alias [name cmd]  set or list aliases")
	fmt.Fprintln(s.out, "  history           show command history")
	fmt.Fprintln(s.out, "  exit              leave the shell")
}
