package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/diogo/llmtui/internal/config"
	"github.com/diogo/llmtui/internal/render"
)

// NewConfigCmd creates a new config command
func NewConfigCmd(deps *Dependencies, flags *rootFlags) *cobra.Command {
	var initFile bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Long: `Print the configuration llmtui would run with, after applying the config
file, environment variables and flags. With --init, write a default config
file if none exists.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			path, err := config.GetConfigPath()
			if err != nil {
				return err
			}

			if initFile {
				if _, err := os.Stat(path); err == nil {
					fmt.Fprintf(out, "Config already exists at %s\n", path)
					return nil
				}
				if err := config.SaveConfig(config.DefaultConfig()); err != nil {
					return err
				}
				fmt.Fprintf(out, "Wrote default config to %s\n", path)
				return nil
			}

			cfg, err := loadSettings(deps, flags)
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(cfg, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode config: %w", err)
			}

			fmt.Fprintf(out, "# %s\n%s\n", path, data)
			fmt.Fprintf(out, "# tui themes: %v\n", themeNames())
			return nil
		},
	}
	cmd.Flags().BoolVar(&initFile, "init", false, "Write a default config file if none exists")
	return cmd
}

func themeNames() []string {
	var names []string
	for _, t := range render.AvailableTUIThemes() {
		names = append(names, t.Name)
	}
	return names
}
