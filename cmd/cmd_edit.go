package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/forge-dev/forge/api"
	"github.com/forge-dev/forge/config"
	"github.com/forge-dev/forge/envconfig"
	"github.com/forge-dev/forge/safety"
)

func newEditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit FILE [INSTRUCTION...]",
		Short: "Rewrite a file with model assistance",
		Long: `Rewrite a file with model assistance. The proposed content is shown
before anything is written, and the previous content is kept in a
.backup file next to the original.`,
		Args: cobra.MinimumNArgs(1),
		RunE: EditHandler,
	}

	cmd.Flags().String("model", "", "Model to use (default from config)")
	cmd.Flags().Bool("yes", false, "Apply changes without asking")
	return cmd
}

func EditHandler(cmd *cobra.Command, args []string) error {
	path := args[0]
	if !safety.IsSafePath(path) {
		if alt := safety.SuggestSafePath(path); alt != "" {
			return fmt.Errorf("refusing to edit protected path %s (try %s)", path, alt)
		}
		return fmt.Errorf("refusing to edit protected path %s", path)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	model, _ := cmd.Flags().GetString("model")
	if model == "" {
		model = cfg.LLM.Model
	}
	yes, _ := cmd.Flags().GetBool("yes")

	in := bufio.NewReader(cmd.InOrStdin())
	out := cmd.OutOrStdout()

	content, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if !yes {
			fmt.Fprintf(out, "File does not exist: %s\n", path)
			ok, err := confirmYes(in, out, "Create it? (y/N): ")
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(out, "Operation cancelled.")
				return nil
			}
		}
		if err := os.WriteFile(path, nil, 0o644); err != nil {
			return err
		}
		content = nil
	case err != nil:
		return err
	}

	if max := int64(cfg.Safety.MaxFileSizeMB) << 20; max > 0 && int64(len(content)) > max {
		return fmt.Errorf("%s is larger than %d MB", path, cfg.Safety.MaxFileSizeMB)
	}

	instruction := strings.Join(args[1:], " ")
	if instruction == "" {
		fmt.Fprintln(out, "What would you like me to do with this file?")
		fmt.Fprint(out, "Instruction: ")
		line, err := in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		instruction = strings.TrimSpace(line)
	}
	if instruction == "" {
		fmt.Fprintln(out, "No instruction provided.")
		return nil
	}

	client, err := api.ClientFromEnvironment()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if timeout := envconfig.RequestTimeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	fmt.Fprintln(out, "Generating changes...")

	stream := false
	req := &api.GenerateRequest{
		Model:  model,
		Prompt: editPrompt(string(content), instruction),
		Stream: &stream,
		Options: map[string]any{
			"temperature": cfg.LLM.Temperature,
		},
	}

	var proposed strings.Builder
	if err := client.Generate(ctx, req, func(resp api.GenerateResponse) error {
		proposed.WriteString(resp.Response)
		return nil
	}); err != nil {
		return err
	}

	updated := stripFences(proposed.String())

	fmt.Fprintln(out, "Proposed changes:")
	fmt.Fprintln(out, "---")
	fmt.Fprintln(out, updated)
	fmt.Fprintln(out, "---")

	if !yes {
		ok, err := confirmYes(in, out, "Apply these changes? (y/N): ")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, "Changes discarded.")
			return nil
		}
	}

	backup, err := applyEdit(path, content, updated)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Created backup: %s\n", backup)
	fmt.Fprintf(out, "Changes applied to: %s\n", path)
	return nil
}

func confirmYes(in *bufio.Reader, out io.Writer, prompt string) (bool, error) {
	fmt.Fprint(out, prompt)

	answer, err := in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	return strings.EqualFold(strings.TrimSpace(answer), "y"), nil
}

func editPrompt(content, instruction string) string {
	var b strings.Builder
	b.WriteString("You are a code editor assistant. The user wants to modify a file.\n\n")
	b.WriteString("Current file content:\n```\n")
	b.WriteString(content)
	b.WriteString("\n```\n\n")
	b.WriteString("User instruction: ")
	b.WriteString(instruction)
	b.WriteString("\n\nOnly respond with the complete updated file content, no explanations or markdown formatting.")
	return b.String()
}

// stripFences removes a surrounding markdown code fence, including a
// language tag on the opening line, from a model response.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if after, ok := strings.CutPrefix(s, "```"); ok {
		if _, rest, found := strings.Cut(after, "\n"); found {
			s = rest
		} else {
			s = after
		}
	}
	if before, ok := strings.CutSuffix(strings.TrimRight(s, "\n"), "```"); ok {
		s = before
	}
	return strings.TrimSpace(s)
}

// applyEdit writes the previous content to path+".backup" before
// replacing path, and reports the backup location.
func applyEdit(path string, previous []byte, proposed string) (string, error) {
	backup := path + ".backup"
	if err := os.WriteFile(backup, previous, 0o644); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(proposed), 0o644); err != nil {
		return "", err
	}
	return backup, nil
}
