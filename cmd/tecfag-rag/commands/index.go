package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tecfag/rag/internal/core/domain"
	"github.com/tecfag/rag/internal/core/services"
)

var flagDocumentID string

var indexCmd = &cobra.Command{
	Use:   "index <file>",
	Short: "Index a text file into the document base",
	Long: `Index reads an extracted-text file, splits it into chunks, embeds
them and stores the result. Reindexing a document replaces its previous
chunks.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		cfg, store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		embedder, err := newEmbedder(cfg)
		if err != nil {
			return err
		}
		defer embedder.Close()

		fileName := filepath.Base(path)
		documentID := flagDocumentID
		if documentID == "" {
			documentID = fileName
		}

		documents := services.NewDocumentService(store.ChunkStore(), store.VectorStore(), embedder)
		chunks, err := documents.Index(cmd.Context(), documentID, string(content), domain.ChunkMetadata{
			FileName:  fileName,
			FileType:  strings.TrimPrefix(filepath.Ext(fileName), "."),
			CatalogID: flagCatalog,
		})
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Indexed %s: %d chunks\n", documentID, len(chunks))
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <document-id>",
	Short: "Remove a document's chunks from the document base",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		embedder, err := newEmbedder(cfg)
		if err != nil {
			return err
		}
		defer embedder.Close()

		documents := services.NewDocumentService(store.ChunkStore(), store.VectorStore(), embedder)
		if err := documents.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
		return nil
	},
}

func init() {
	indexCmd.Flags().StringVar(&flagDocumentID, "id", "", "document ID (default: file name)")
}
