package driving

import (
	"context"

	"github.com/tecfag/rag/internal/core/domain"
)

// RetrievalService performs multi-query retrieval for questions that
// need fan-out search.
type RetrievalService interface {
	// Search runs the analysis' suggested queries (plus the original
	// question) against the vector store, deduplicates by chunk ID and
	// returns the ordered result set with diagnostics.
	Search(ctx context.Context, question string, analysis domain.QueryAnalysis, catalogID string) (*domain.MultiQueryResult, error)
}
