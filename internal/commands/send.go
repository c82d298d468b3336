package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/diogo/llmtui/internal/remote"
)

const sendTimeout = 10 * time.Second

// NewSendCmd creates the command that pushes a prompt into a running client.
func NewSendCmd(deps *Dependencies, flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "send [text...]",
		Short: "Send a prompt to a running llmtui",
		Long: `Send a prompt to the conversation currently selected in a running llmtui.
The words are joined with spaces. With no arguments the prompt is read from
stdin; line breaks are folded since the protocol carries a single line.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadSettings(deps, flags)
			if err != nil {
				return err
			}

			text := strings.Join(args, " ")
			if len(args) == 0 {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("failed to read stdin: %w", err)
				}
				text = string(data)
			}
			if strings.TrimSpace(text) == "" {
				return fmt.Errorf("nothing to send")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), sendTimeout)
			defer cancel()

			reply, err := remote.Send(ctx, cfg.ListenAddr, text)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), reply)
			return nil
		},
	}
	cmd.SetIn(os.Stdin)
	return cmd
}
