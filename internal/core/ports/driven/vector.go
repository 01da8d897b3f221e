package driven

import (
	"context"

	"github.com/tecfag/rag/internal/core/domain"
)

// SearchFilter narrows a similarity search to a document or catalog.
// Zero values mean no filtering.
type SearchFilter struct {
	// DocumentID restricts the search to one document.
	DocumentID string

	// CatalogID restricts the search to one catalog.
	CatalogID string
}

// VectorStore provides similarity search and structural retrieval over
// stored chunks.
//
// Similarity search is exact (brute-force cosine over all stored
// vectors): the corpus is a small internal document base, so
// correctness and simplicity dominate. Full-document retrieval exists
// to defeat the lossy nature of top-K search for counting/listing
// queries, where truncating to K chunks would under-count.
type VectorStore interface {
	// Search computes cosine similarity between the query embedding
	// and every stored chunk matching the filter, sorted descending by
	// similarity, truncated to topK. Ties are broken by the store's
	// natural iteration order and are not deterministic.
	Search(ctx context.Context, queryEmbedding []float32, topK int, filter SearchFilter) ([]domain.VectorSearchResult, error)

	// SearchByDocument returns the first chunksPerDocument chunks of
	// every distinct document (optionally filtered by catalog), ordered
	// by ChunkIndex ascending, annotated with
	// domain.DocumentSampleSimilarity. A structural sampling operation,
	// not a similarity search.
	SearchByDocument(ctx context.Context, catalogID string, chunksPerDocument int) ([]domain.VectorSearchResult, error)

	// GetFullDocumentChunks returns all chunks of every document whose
	// file name contains any of the patterns (case-sensitive substring
	// match, OR semantics), ordered by ChunkIndex ascending per
	// document, annotated with domain.FullDocumentSimilarity.
	GetFullDocumentChunks(ctx context.Context, documentPatterns []string, catalogID string) ([]domain.VectorSearchResult, error)

	// GetDocumentStats aggregates corpus counts for diagnostics.
	GetDocumentStats(ctx context.Context, catalogID string) (*domain.DocumentStats, error)
}
