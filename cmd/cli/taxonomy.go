package cli

import (
	"fmt"

	"github.com/quillchat/quill/internal/initialization"
	"github.com/spf13/cobra"
)

func NewTaxonomyCommand(container *initialization.Container) *cobra.Command {
	var asContext bool

	cmd := &cobra.Command{
		Use:   "taxonomy",
		Short: "Print the current taxonomy graph",
		RunE: func(cmd *cobra.Command, args []string) error {
			if asContext {
				fmt.Fprint(cmd.OutOrStdout(), container.Taxonomy.Context())
				return nil
			}

			doc, err := container.Taxonomy.Document()
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), string(doc))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asContext, "context", false, "Print the prompt-context rendering instead of the raw document")

	return cmd
}
