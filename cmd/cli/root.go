package cli

import (
	"fmt"
	"os"

	"github.com/quillchat/quill/internal/initialization"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "quill",
		Short: "Quill turn pipeline CLI",
		Long: `Quill is a personal AI chat client. This CLI drives its turn pipeline:
provider routing with fallback, response decomposition, and taxonomy evolution.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if debug, _ := cmd.Flags().GetBool("debug"); debug {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
		},
	}

	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")

	container, err := initialization.NewContainer()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize pipeline: %v\n", err)
		os.Exit(1)
	}

	rootCmd.AddCommand(NewChatCommand(container))
	rootCmd.AddCommand(NewHealthCommand(container))
	rootCmd.AddCommand(NewTaxonomyCommand(container))
	rootCmd.AddCommand(NewVersionCommand())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
