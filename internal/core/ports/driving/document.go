package driving

import (
	"context"

	"github.com/tecfag/rag/internal/core/domain"
)

// DocumentService manages the indexed document base.
type DocumentService interface {
	// Index chunks, embeds and stores a document's extracted text.
	// Reindexing an existing document purges its old chunks first.
	Index(ctx context.Context, documentID, content string, meta domain.ChunkMetadata) ([]domain.Chunk, error)

	// Delete removes a document's chunks.
	Delete(ctx context.Context, documentID string) error

	// Stats returns corpus counts, optionally scoped to a catalog.
	Stats(ctx context.Context, catalogID string) (*domain.DocumentStats, error)
}
