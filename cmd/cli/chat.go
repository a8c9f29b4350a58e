package cli

import (
	"fmt"
	"strings"

	"github.com/quillchat/quill/internal/initialization"
	"github.com/quillchat/quill/internal/orchestrator"
	"github.com/spf13/cobra"
)

func NewChatCommand(container *initialization.Container) *cobra.Command {
	var persona string
	var model string

	cmd := &cobra.Command{
		Use:   "chat [message]",
		Short: "Send one message through the turn pipeline",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := container.Orchestrator.ProcessTurn(cmd.Context(), orchestrator.TurnRequest{
				Persona: persona,
				Model:   model,
				Message: strings.Join(args, " "),
			})
			if err != nil {
				// Terminal routing failures surface as one synthesized
				// message, never a raw trace.
				fmt.Fprintln(cmd.OutOrStdout(), orchestrator.FailureMessage(err))
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), result.MainResponse)

			if result.MachineTrim != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "\n[trim] %s\n", result.MachineTrim)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&persona, "persona", "sage", "Persona to attribute the turn to")
	cmd.Flags().StringVar(&model, "model", "", "Pin a specific model id for this turn")

	return cmd
}
