package driven

import (
	"context"

	"github.com/tecfag/rag/internal/core/domain"
)

// ChunkStore persists document chunks.
//
// Chunks are created in bulk when a document is indexed and deleted in
// bulk when it is removed or reindexed (old chunks are purged before
// new ones are written). Stores must preserve ChunkIndex ordering and
// DocumentID grouping faithfully.
type ChunkStore interface {
	// CreateMany stores chunks in bulk.
	CreateMany(ctx context.Context, chunks []domain.Chunk) error

	// DeleteByDocument removes every chunk of a document.
	DeleteByDocument(ctx context.Context, documentID string) error

	// CountByDocument returns the number of chunks for a document.
	CountByDocument(ctx context.Context, documentID string) (int, error)

	// GetByDocument retrieves all chunks of a document, ordered by
	// ChunkIndex ascending.
	GetByDocument(ctx context.Context, documentID string) ([]domain.Chunk, error)
}
