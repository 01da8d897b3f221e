package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show document base statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		stats, err := store.VectorStore().GetDocumentStats(cmd.Context(), flagCatalog)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Documents: %d\n", stats.TotalDocuments)
		fmt.Fprintf(cmd.OutOrStdout(), "Chunks:    %d\n", stats.TotalChunks)
		for _, name := range stats.DocumentNames {
			fmt.Fprintln(cmd.OutOrStdout(), "  - "+name)
		}
		return nil
	},
}
