package cli

import (
	"fmt"

	"github.com/quillchat/quill/internal/initialization"
	"github.com/spf13/cobra"
)

func NewHealthCommand(container *initialization.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Report the tri-state health of every configured provider",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, entry := range container.Router.CheckServiceHealth() {
				if entry.Detail != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "%-16s %-14s %s\n", entry.Provider, entry.State, entry.Detail)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-16s %s\n", entry.Provider, entry.State)
			}
			return nil
		},
	}
}
