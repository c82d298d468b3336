package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// NewModelsCmd creates the command that lists the tool's models.
func NewModelsCmd(deps *Dependencies, flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List models and their aliases",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadSettings(deps, flags)
			if err != nil {
				return err
			}

			backend, flush, err := newBackend(deps, cfg)
			if err != nil {
				return err
			}
			defer flush()

			list, err := backend.Aliases(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(list) == 0 {
				fmt.Fprintln(out, "No models found.")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "MODEL\tALIASES\tDEFAULT")
			_, _ = fmt.Fprintln(w, "-----\t-------\t-------")
			for _, m := range list {
				isDefault := ""
				if cfg.DefaultModel != "" && m.HasAlias(cfg.DefaultModel) {
					isDefault = "✓"
				}
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", m.Name, strings.Join(m.Aliases, ", "), isDefault)
			}
			return w.Flush()
		},
	}
}
