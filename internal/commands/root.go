// Package commands provides the llmtui command line.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/diogo/llmtui/internal/config"
	"github.com/diogo/llmtui/internal/tui"
)

var (
	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// rootFlags are the persistent flags shared by every command.
type rootFlags struct {
	tool    string
	addr    string
	verbose bool
}

// NewRootCmd creates the llmtui command tree.
func NewRootCmd(deps *Dependencies) *cobra.Command {
	if deps == nil {
		deps = NewDependencies()
	}
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "llmtui",
		Short: "Terminal client for the llm command-line tool",
		Long: `llmtui is a terminal client for Simon Willison's llm tool. It lists the
conversations llm has logged, lets you pick a model and chat, and accepts
prompts pushed over a local TCP socket while it runs.

Examples:
  llmtui                          Start the interactive client
  llmtui send "summarize this"    Push a prompt into a running client
  llmtui models                   List models and their aliases
  llmtui history                  List logged conversations
  llmtui config                   Show the effective configuration`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if v, _ := cmd.Flags().GetBool("version"); v {
				fmt.Fprintf(cmd.OutOrStdout(), "llmtui %s (built %s)\n", Version, BuildTime)
				return nil
			}
			return runChat(cmd, deps, flags)
		},
	}

	cmd.PersistentFlags().StringVar(&flags.tool, "tool", "", "External tool to run (default \"llm\")")
	cmd.PersistentFlags().StringVar(&flags.addr, "addr", "", "Remote command address (default \"127.0.0.1:8080\")")
	cmd.PersistentFlags().BoolVar(&flags.verbose, "verbose", false, "Log at debug level")
	cmd.Flags().BoolP("version", "v", false, "Show version and exit")

	cmd.AddCommand(NewSendCmd(deps, flags))
	cmd.AddCommand(NewModelsCmd(deps, flags))
	cmd.AddCommand(NewHistoryCmd(deps, flags))
	cmd.AddCommand(NewConfigCmd(deps, flags))

	return cmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd(NewDependencies()).Execute(); err != nil {
		tui.PrintError(err)
		os.Exit(1)
	}
}

// loadSettings returns the effective configuration: file, then environment,
// then flags.
func loadSettings(deps *Dependencies, flags *rootFlags) (config.Config, error) {
	cfg, err := deps.LoadConfig()
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	cfg = cfg.ApplyEnv()

	if flags.tool != "" {
		cfg.Tool = flags.tool
	}
	if flags.addr != "" {
		cfg.ListenAddr = flags.addr
	}
	if flags.verbose {
		cfg.Verbose = true
	}
	return cfg, nil
}
