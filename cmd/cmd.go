// Package cmd wires the forge command line interface.
package cmd

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"runtime"

	"github.com/containerd/console"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/forge-dev/forge/api"
	"github.com/forge-dev/forge/envconfig"
	"github.com/forge-dev/forge/version"
)

func appendEnvDocs(cmd *cobra.Command, envs []envconfig.EnvVar) {
	if len(envs) == 0 {
		return
	}

	envUsage := `
Environment Variables:
`
	for _, e := range envs {
		envUsage += fmt.Sprintf("      %-24s   %s\n", e.Name, e.Description)
	}

	cmd.SetUsageTemplate(cmd.UsageTemplate() + envUsage)
}

func versionHandler(cmd *cobra.Command, _ []string) {
	fmt.Printf("forge version is %s\n", version.Version)

	client, err := api.ClientFromEnvironment()
	if err != nil {
		return
	}

	serverVersion, err := client.Version(cmd.Context())
	if err != nil {
		fmt.Println("Warning: could not connect to a running Ollama instance")
		return
	}
	fmt.Printf("ollama server version is %s\n", serverVersion)
}

func NewCLI() *cobra.Command {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	slog.SetLogLoggerLevel(envconfig.LogLevel())
	cobra.EnableCommandSorting = false

	if runtime.GOOS == "windows" && term.IsTerminal(int(os.Stdout.Fd())) {
		console.ConsoleFromFile(os.Stdin) //nolint:errcheck
	}

	rootCmd := &cobra.Command{
		Use:           "forge",
		Short:         "AI-assisted development companion",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		Run: func(cmd *cobra.Command, args []string) {
			if version, _ := cmd.Flags().GetBool("version"); version {
				versionHandler(cmd, args)
				return
			}

			cmd.Print(cmd.UsageString())
		},
	}

	rootCmd.Flags().BoolP("version", "v", false, "Show version information")

	chatCmd := newChatCmd()
	runCmd := newRunCmd()
	editCmd := newEditCmd()
	listCmd := newListCmd()
	showCmd := newShowCmd()
	execCmd := newExecCmd()
	shellCmd := newShellCmd()
	searchCmd := newSearchCmd()
	workflowCmd := newWorkflowCmd()
	configCmd := newConfigCmd()
	statusCmd := newStatusCmd()

	envVars := envconfig.AsMap()

	for _, cmd := range []*cobra.Command{
		chatCmd,
		runCmd,
		editCmd,
		listCmd,
		showCmd,
		statusCmd,
	} {
		switch cmd {
		case chatCmd:
			appendEnvDocs(cmd, []envconfig.EnvVar{
				envVars["FORGE_HOST"],
				envVars["FORGE_MODEL"],
				envVars["FORGE_NOHISTORY"],
				envVars["FORGE_HISTORY"],
			})
		case runCmd, editCmd:
			appendEnvDocs(cmd, []envconfig.EnvVar{
				envVars["FORGE_HOST"],
				envVars["FORGE_MODEL"],
				envVars["FORGE_TIMEOUT"],
			})
		default:
			appendEnvDocs(cmd, []envconfig.EnvVar{envVars["FORGE_HOST"]})
		}
	}
	appendEnvDocs(execCmd, []envconfig.EnvVar{envVars["FORGE_NOSAFETY"]})
	appendEnvDocs(shellCmd, []envconfig.EnvVar{envVars["FORGE_NOSAFETY"], envVars["FORGE_DIR"]})

	rootCmd.AddCommand(
		chatCmd,
		runCmd,
		editCmd,
		listCmd,
		showCmd,
		execCmd,
		shellCmd,
		searchCmd,
		workflowCmd,
		configCmd,
		statusCmd,
	)

	return rootCmd
}
