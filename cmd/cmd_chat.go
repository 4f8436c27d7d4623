package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/spf13/cobra"

	"github.com/forge-dev/forge/api"
	"github.com/forge-dev/forge/config"
	"github.com/forge-dev/forge/envconfig"
	"github.com/forge-dev/forge/readline"
)

type runOptions struct {
	Model    string
	Messages []api.Message
	System   string
	Options  map[string]any
	WordWrap bool
	Verbose  bool
}

// multilineState tracks what a """ block is collecting.
type multilineState int

const (
	multilineNone multilineState = iota
	multilinePrompt
	multilineSystem
)

var slashCommands = []string{
	"/help", "/?", "/list", "/show", "/set", "/clear", "/bye", "/exit", "/quit",
}

func newChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat [MODEL]",
		Short: "Chat with a model interactively",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			opts := runOptions{
				Model:    cfg.LLM.Model,
				Options:  map[string]any{"temperature": cfg.LLM.Temperature},
				WordWrap: true,
			}
			if len(args) > 0 {
				opts.Model = args[0]
			}
			return chatInteractive(cmd, opts)
		},
	}
	return cmd
}

func chatInteractive(cmd *cobra.Command, opts runOptions) error {
	client, err := api.ClientFromEnvironment()
	if err != nil {
		return err
	}

	scanner, err := readline.New(readline.Prompt{
		Prompt:         ">>> ",
		AltPrompt:      "... ",
		Placeholder:    "Send a message (/? for help)",
		AltPlaceholder: `Use """ to end multi-line input`,
	})
	if err != nil {
		return err
	}
	scanner.Completer = readline.CompleterFunc(completeSlash)

	if envconfig.NoHistory() {
		scanner.HistoryDisable()
	} else {
		historyFile := envconfig.HistoryFile()
		scanner.LoadHistory(historyFile) //nolint:errcheck
		defer func() {
			if scanner.History.Enabled {
				scanner.SaveHistory(historyFile) //nolint:errcheck
			}
		}()
	}

	var sb strings.Builder
	var multiline multilineState

	for {
		line, err := scanner.Readline()
		switch {
		case errors.Is(err, io.EOF):
			fmt.Println()
			return nil
		case errors.Is(err, readline.ErrInterrupt):
			if line == "" {
				fmt.Println("\nUse Ctrl + d or /bye to exit.")
			}

			scanner.Prompt.UseAlt = false
			multiline = multilineNone
			sb.Reset()

			continue
		case err != nil:
			return err
		}

		switch {
		case multiline != multilineNone:
			before, ok := strings.CutSuffix(line, `"""`)
			sb.WriteString(before)
			if !ok {
				fmt.Fprintln(&sb)
				scanner.Prompt.UseAlt = true
				continue
			}

			if multiline == multilineSystem {
				opts.System = sb.String()
				opts.Messages = append(opts.Messages, api.Message{Role: "system", Content: opts.System})
				fmt.Println("Set system message.")
				sb.Reset()
			}

			multiline = multilineNone
			scanner.Prompt.UseAlt = false
		case strings.HasPrefix(line, `"""`):
			line := strings.TrimPrefix(line, `"""`)
			line, ok := strings.CutSuffix(line, `"""`)
			sb.WriteString(line)
			if !ok {
				fmt.Fprintln(&sb)
				multiline = multilinePrompt
				scanner.Prompt.UseAlt = true
			}
		case strings.HasPrefix(line, "/list"):
			if err := listModels(cmd.Context(), client); err != nil {
				fmt.Printf("error: %v\n", err)
			}
			continue
		case strings.HasPrefix(line, "/show"):
			handleShowCommand(cmd.Context(), client, &opts, line)
			continue
		case strings.HasPrefix(line, "/set"):
			if err := handleSetCommand(&opts, &multiline, &sb, scanner, line); err != nil {
				fmt.Printf("error: %v\n", err)
			}
			continue
		case strings.HasPrefix(line, "/clear"):
			opts.Messages = nil
			if opts.System != "" {
				opts.Messages = append(opts.Messages, api.Message{Role: "system", Content: opts.System})
			}
			fmt.Println("Cleared session context")
			continue
		case strings.HasPrefix(line, "/bye"), strings.HasPrefix(line, "/exit"), strings.HasPrefix(line, "/quit"):
			return nil
		case strings.HasPrefix(line, "/help"), strings.HasPrefix(line, "/?"):
			printChatHelp()
			continue
		case strings.HasPrefix(line, "/"):
			if suggestion := closestSlashCommand(strings.Fields(line)[0]); suggestion != "" {
				fmt.Printf("Unknown command %q. Did you mean %q?\n", line, suggestion)
			} else {
				fmt.Printf("Unknown command %q. Type /? for help\n", line)
			}
			continue
		default:
			sb.WriteString(line)
		}

		if sb.Len() > 0 && multiline == multilineNone {
			content := sb.String()
			sb.Reset()

			opts.Messages = append(opts.Messages, api.Message{Role: "user", Content: content})
			assistant, err := chat(cmd.Context(), client, &opts)
			if err != nil {
				fmt.Printf("error: %v\n", err)
				// drop the failed turn so a retry does not double it
				opts.Messages = opts.Messages[:len(opts.Messages)-1]
				continue
			}
			opts.Messages = append(opts.Messages, *assistant)
		}
	}
}

// chat streams one assistant reply and returns the full message.
func chat(ctx context.Context, client *api.Client, opts *runOptions) (*api.Message, error) {
	if timeout := envconfig.RequestTimeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var state displayResponseState
	var full strings.Builder
	var metrics api.Metrics

	req := &api.ChatRequest{
		Model:    opts.Model,
		Messages: opts.Messages,
		Options:  opts.Options,
	}

	err := client.Chat(ctx, req, func(resp api.ChatResponse) error {
		displayResponse(resp.Message.Content, opts.WordWrap, &state)
		full.WriteString(resp.Message.Content)
		if resp.Done {
			metrics = resp.Metrics
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	fmt.Println()
	fmt.Println()
	if opts.Verbose {
		printMetrics(metrics)
	}

	return &api.Message{Role: "assistant", Content: full.String()}, nil
}

func printMetrics(m api.Metrics) {
	fmt.Printf("total duration:       %v\n", m.TotalDuration)
	fmt.Printf("load duration:        %v\n", m.LoadDuration)
	fmt.Printf("prompt eval count:    %d token(s)\n", m.PromptEvalCount)
	if m.PromptEvalDuration > 0 {
		fmt.Printf("prompt eval rate:     %.2f tokens/s\n",
			float64(m.PromptEvalCount)/m.PromptEvalDuration.Seconds())
	}
	fmt.Printf("eval count:           %d token(s)\n", m.EvalCount)
	if m.EvalDuration > 0 {
		fmt.Printf("eval rate:            %.2f tokens/s\n",
			float64(m.EvalCount)/m.EvalDuration.Seconds())
	}
}

func handleSetCommand(opts *runOptions, multiline *multilineState, sb *strings.Builder, scanner *readline.Instance, line string) error {
	args := strings.Fields(line)
	if len(args) < 2 {
		printSetUsage()
		return nil
	}

	switch args[1] {
	case "history":
		scanner.HistoryEnable()
	case "nohistory":
		scanner.HistoryDisable()
	case "wordwrap":
		opts.WordWrap = true
		fmt.Println("Set 'wordwrap' mode.")
	case "nowordwrap":
		opts.WordWrap = false
		fmt.Println("Set 'nowordwrap' mode.")
	case "verbose":
		opts.Verbose = true
		fmt.Println("Set 'verbose' mode.")
	case "quiet":
		opts.Verbose = false
		fmt.Println("Set 'quiet' mode.")
	case "model":
		if len(args) != 3 {
			fmt.Println("Usage:\n  /set model <name>")
			return nil
		}
		opts.Model = args[2]
		fmt.Printf("Set model '%s'\n", opts.Model)
	case "system":
		if len(args) < 3 {
			fmt.Println("Usage:\n  /set system <message>")
			return nil
		}
		rest := strings.TrimSpace(strings.TrimPrefix(line, "/set system"))
		if after, ok := strings.CutPrefix(rest, `"""`); ok {
			if body, done := strings.CutSuffix(after, `"""`); done && body != "" {
				rest = body
			} else {
				sb.Reset()
				sb.WriteString(after)
				fmt.Fprintln(sb)
				*multiline = multilineSystem
				scanner.Prompt.UseAlt = true
				return nil
			}
		}
		opts.System = rest
		opts.Messages = append(opts.Messages, api.Message{Role: "system", Content: rest})
		fmt.Println("Set system message.")
	case "parameter":
		if len(args) != 4 {
			printParameterUsage()
			return nil
		}
		return setParameter(opts, args[2], args[3])
	default:
		return fmt.Errorf("unknown setting %q", args[1])
	}
	return nil
}

func setParameter(opts *runOptions, name, value string) error {
	if opts.Options == nil {
		opts.Options = make(map[string]any)
	}

	switch name {
	case "temperature", "top_p":
		f, err := strconv.ParseFloat(value, 32)
		if err != nil {
			return fmt.Errorf("invalid value for %s: %q", name, value)
		}
		opts.Options[name] = float32(f)
	case "seed", "top_k", "num_predict":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for %s: %q", name, value)
		}
		opts.Options[name] = n
	case "stop":
		opts.Options[name] = []string{value}
	default:
		return fmt.Errorf("unknown parameter %q", name)
	}

	fmt.Printf("Set parameter '%s' to '%s'\n", name, value)
	return nil
}

func handleShowCommand(ctx context.Context, client *api.Client, opts *runOptions, line string) {
	args := strings.Fields(line)
	topic := "info"
	if len(args) > 1 {
		topic = args[1]
	}

	switch topic {
	case "system":
		if opts.System == "" {
			fmt.Println("No system message was specified for this model.")
			return
		}
		fmt.Println(opts.System)
	case "parameters":
		if len(opts.Options) == 0 {
			fmt.Println("No parameters are set for this session.")
			return
		}
		for name, value := range opts.Options {
			fmt.Printf("%-24s %v\n", name, value)
		}
	case "info":
		resp, err := client.Show(ctx, &api.ShowRequest{Model: opts.Model})
		if err != nil {
			fmt.Printf("error: %v\n", err)
			return
		}
		fmt.Printf("  Model\n")
		fmt.Printf("    name           \t%s\n", opts.Model)
		fmt.Printf("    architecture   \t%s\n", resp.Details.Family)
		fmt.Printf("    parameters     \t%s\n", resp.Details.ParameterSize)
		fmt.Printf("    quantization   \t%s\n", resp.Details.QuantizationLevel)
	default:
		fmt.Println("Usage:\n  /show <info|parameters|system>")
	}
}

func printChatHelp() {
	fmt.Fprintln(os.Stderr, "Available Commands:")
	fmt.Fprintln(os.Stderr, "  /set            Set session variables")
	fmt.Fprintln(os.Stderr, "  /show           Show model information")
	fmt.Fprintln(os.Stderr, "  /list           List available models")
	fmt.Fprintln(os.Stderr, "  /clear          Clear session context")
	fmt.Fprintln(os.Stderr, "  /bye            Exit")
	fmt.Fprintln(os.Stderr, "  /?, /help       Help for a command")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, `Use """ to begin a multi-line message.`)
	fmt.Fprintln(os.Stderr, "")
}

func printSetUsage() {
	fmt.Fprintln(os.Stderr, "Available Commands:")
	fmt.Fprintln(os.Stderr, "  /set parameter ...     Set a parameter")
	fmt.Fprintln(os.Stderr, "  /set system <message>  Set system message")
	fmt.Fprintln(os.Stderr, "  /set model <name>      Switch model")
	fmt.Fprintln(os.Stderr, "  /set history           Enable history")
	fmt.Fprintln(os.Stderr, "  /set nohistory         Disable history")
	fmt.Fprintln(os.Stderr, "  /set wordwrap          Enable wordwrap")
	fmt.Fprintln(os.Stderr, "  /set nowordwrap        Disable wordwrap")
	fmt.Fprintln(os.Stderr, "  /set verbose           Show timings for responses")
	fmt.Fprintln(os.Stderr, "  /set quiet             Disable timings for responses")
	fmt.Fprintln(os.Stderr, "")
}

func printParameterUsage() {
	fmt.Fprintln(os.Stderr, "Available Parameters:")
	fmt.Fprintln(os.Stderr, "  /set parameter seed <int>         Random number seed")
	fmt.Fprintln(os.Stderr, "  /set parameter num_predict <int>  Max number of tokens to predict")
	fmt.Fprintln(os.Stderr, "  /set parameter top_k <int>        Pick from top k num of tokens")
	fmt.Fprintln(os.Stderr, "  /set parameter top_p <float>      Pick token based on sum of probabilities")
	fmt.Fprintln(os.Stderr, "  /set parameter temperature <float>  Set creativity level")
	fmt.Fprintln(os.Stderr, "  /set parameter stop <string>      Set the stop sequence")
	fmt.Fprintln(os.Stderr, "")
}

// closestSlashCommand suggests the nearest known command, or empty
// when nothing is plausibly close.
func closestSlashCommand(input string) string {
	best := ""
	bestDistance := 4 // anything further is noise

	for _, candidate := range slashCommands {
		d := levenshtein.ComputeDistance(input, candidate)
		if d < bestDistance {
			bestDistance = d
			best = candidate
		}
	}
	return best
}

func completeSlash(prefix string) []string {
	if !strings.HasPrefix(prefix, "/") {
		return nil
	}

	var matches []string
	for _, candidate := range slashCommands {
		if strings.HasPrefix(candidate, prefix) {
			matches = append(matches, candidate)
		}
	}
	return matches
}
