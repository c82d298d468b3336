package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/diogo/llmtui/internal/models"
)

const maxTitleWidth = 40

// NewHistoryCmd creates the command that lists logged conversations.
func NewHistoryCmd(deps *Dependencies, flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List conversations logged by the tool",
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

			convs, err := backend.Conversations(cmd.Context())
			if err != nil {
				return err
			}
			return printConversations(cmd, convs)
		},
	}
	cmd.AddCommand(newHistoryShowCmd(deps, flags))
	return cmd
}

func printConversations(cmd *cobra.Command, convs []models.Conversation) error {
	out := cmd.OutOrStdout()
	if len(convs) == 0 {
		fmt.Fprintln(out, "No conversations found.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tTITLE\tMESSAGES")
	_, _ = fmt.Fprintln(w, "--\t-----\t--------")
	for _, conv := range convs {
		title := []rune(conv.Title())
		if len(title) > maxTitleWidth {
			title = append(title[:maxTitleWidth], []rune("...")...)
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%d\n", conv.ID, string(title), len(conv.Messages))
	}
	return w.Flush()
}

func newHistoryShowCmd(deps *Dependencies, flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one conversation",
		Args:  cobra.ExactArgs(1),
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

			convs, err := backend.Conversations(cmd.Context())
			if err != nil {
				return err
			}

			for _, conv := range convs {
				if conv.ID != args[0] {
					continue
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "ID: %s\n", conv.ID)
				fmt.Fprintf(out, "Title: %s\n", conv.Title())
				fmt.Fprintf(out, "Messages: %d\n\n", len(conv.Messages))
				for i, msg := range conv.Messages {
					role := "You"
					if msg.Role == models.RoleAssistant {
						role = "Assistant"
					}
					fmt.Fprintf(out, "[%d] %s:\n  %s\n\n", i+1, role, msg.Content)
				}
				return nil
			}
			return fmt.Errorf("conversation %q not found", args[0])
		},
	}
}
