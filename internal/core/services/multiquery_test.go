package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tecfag/rag/internal/core/domain"
)

func TestMultiQuerySearch_DedupFirstSeenWins(t *testing.T) {
	// Every sub-query returns the same two chunks; the merged set must
	// contain each chunk exactly once.
	vectors := &mockVectorStore{
		searchHits: []domain.VectorSearchResult{
			result("c1", "doc-a", 0, 0.9, "manual.pdf"),
			result("c2", "doc-a", 1, 0.8, "manual.pdf"),
		},
	}
	embedder := &mockEmbedder{embedding: []float32{1, 0}}
	service := NewMultiQueryService(vectors, embedder)

	analysis := domain.QueryAnalysis{
		Type:             domain.QueryExploratory,
		ContextSize:      40,
		NeedsMultiQuery:  true,
		SuggestedQueries: []string{"alt one", "alt two"},
	}

	res, err := service.Search(context.Background(), "original question", analysis, "")
	require.NoError(t, err)

	assert.Len(t, res.Chunks, 2)
	ids := map[string]int{}
	for _, chunk := range res.Chunks {
		ids[chunk.ID]++
	}
	assert.Equal(t, 1, ids["c1"])
	assert.Equal(t, 1, ids["c2"])

	// Breakdown counts raw hits, unaffected by dedup.
	require.Len(t, res.QueryBreakdown, 3)
	assert.Equal(t, "original question", res.QueryBreakdown[0].Query)
	for _, stat := range res.QueryBreakdown {
		assert.Equal(t, 2, stat.ChunksFound)
	}
}

func TestMultiQuerySearch_SubQueryFailureIsSoft(t *testing.T) {
	vectors := &mockVectorStore{
		searchHits: []domain.VectorSearchResult{
			result("c1", "doc-a", 0, 0.9, "manual.pdf"),
		},
	}
	embedder := &mockEmbedder{
		embedding: []float32{1, 0},
		failFor:   map[string]error{"broken query": errors.New("embedding provider down")},
	}
	service := NewMultiQueryService(vectors, embedder)

	analysis := domain.QueryAnalysis{
		Type:             domain.QueryAggregation,
		ContextSize:      60,
		NeedsMultiQuery:  true,
		SuggestedQueries: []string{"broken query", "working query"},
	}

	res, err := service.Search(context.Background(), "original", analysis, "")
	require.NoError(t, err)

	// The failing sub-query contributes zero chunks; the others still
	// return results.
	require.Len(t, res.QueryBreakdown, 3)
	assert.Equal(t, 0, res.QueryBreakdown[1].ChunksFound)
	assert.Equal(t, 1, res.QueryBreakdown[2].ChunksFound)
	assert.Len(t, res.Chunks, 1)
}

func TestMultiQuerySearch_CountQueryNotTruncated(t *testing.T) {
	// Full-document retrieval returns far more chunks than the context
	// size; count queries must keep all of them.
	var fullDoc []domain.VectorSearchResult
	for i := 0; i < 150; i++ {
		fullDoc = append(fullDoc,
			result(fmt.Sprintf("full-%d", i), "doc-catalog", i, domain.FullDocumentSimilarity, "catalogo.xlsx"))
	}

	vectors := &mockVectorStore{fullDocHits: fullDoc}
	embedder := &mockEmbedder{embedding: []float32{1, 0}}
	service := NewMultiQueryService(vectors, embedder)

	analysis := domain.QueryAnalysis{
		Type:             domain.QueryFactual,
		ContextSize:      80,
		IsCountQuery:     true,
		RequiresFullScan: true,
	}

	res, err := service.Search(context.Background(), "quantas máquinas temos?", analysis, "")
	require.NoError(t, err)

	assert.Len(t, res.Chunks, 150)
	assert.Equal(t, 150, res.TotalChunksBeforeDedup)
	assert.Equal(t, 1, vectors.fullDocCalls)
	assert.Equal(t, 1, vectors.sampleCalls)
}

func TestMultiQuerySearch_CountQueryOrdering(t *testing.T) {
	vectors := &mockVectorStore{
		searchHits: []domain.VectorSearchResult{
			result("b5", "doc-b", 5, 0.95, "b.pdf"),
			result("a5", "doc-a", 5, 0.90, "a.pdf"),
			result("a2", "doc-a", 2, 0.85, "a.pdf"),
			result("b1", "doc-b", 1, 0.80, "b.pdf"),
		},
	}
	embedder := &mockEmbedder{embedding: []float32{1, 0}}
	service := NewMultiQueryService(vectors, embedder)

	analysis := domain.QueryAnalysis{
		Type:             domain.QueryFactual,
		ContextSize:      80,
		IsCountQuery:     true,
		RequiresFullScan: true,
	}

	res, err := service.Search(context.Background(), "quantos?", analysis, "")
	require.NoError(t, err)

	// Sorted by documentID, then chunkIndex.
	require.Len(t, res.Chunks, 4)
	assert.Equal(t, "a2", res.Chunks[0].ID)
	assert.Equal(t, "a5", res.Chunks[1].ID)
	assert.Equal(t, "b1", res.Chunks[2].ID)
	assert.Equal(t, "b5", res.Chunks[3].ID)

	assert.Equal(t, []string{"doc-a", "doc-b"}, res.UniqueDocuments)
}

func TestMultiQuerySearch_NonCountSortedAndTruncated(t *testing.T) {
	vectors := &mockVectorStore{
		searchHits: []domain.VectorSearchResult{
			result("c1", "doc-a", 0, 0.3, "a.pdf"),
			result("c2", "doc-b", 0, 0.9, "b.pdf"),
			result("c3", "doc-c", 0, 0.6, "c.pdf"),
		},
		ignoreTopK: true,
	}
	embedder := &mockEmbedder{embedding: []float32{1, 0}}
	service := NewMultiQueryService(vectors, embedder)

	analysis := domain.QueryAnalysis{
		Type:            domain.QueryExploratory,
		ContextSize:     2,
		NeedsMultiQuery: true,
	}

	res, err := service.Search(context.Background(), "fale sobre máquinas", analysis, "")
	require.NoError(t, err)

	require.Len(t, res.Chunks, 2)
	assert.Equal(t, "c2", res.Chunks[0].ID)
	assert.Equal(t, "c3", res.Chunks[1].ID)
	assert.Equal(t, 3, res.TotalChunksBeforeDedup)
	assert.Equal(t, 0, vectors.fullDocCalls, "non-count queries skip full-document retrieval")
}

func TestMultiQuerySearch_FullScanUsesCatalogPatterns(t *testing.T) {
	vectors := &mockVectorStore{}
	embedder := &mockEmbedder{embedding: []float32{1, 0}}
	service := NewMultiQueryService(vectors, embedder)

	analysis := domain.QueryAnalysis{
		Type:             domain.QueryFactual,
		ContextSize:      80,
		IsCountQuery:     true,
		RequiresFullScan: true,
	}

	_, err := service.Search(context.Background(), "quantas seladoras?", analysis, "")
	require.NoError(t, err)

	require.Len(t, vectors.fullDocParams, 1)
	assert.Contains(t, vectors.fullDocParams[0], "catalogo")
	assert.Contains(t, vectors.fullDocParams[0], "planilha")
	assert.Contains(t, vectors.fullDocParams[0], "inventario")
	assert.Contains(t, vectors.fullDocParams[0], "lista")
}

func TestMultiQuerySearch_EmptyEverywhereIsNotAnError(t *testing.T) {
	vectors := &mockVectorStore{}
	embedder := &mockEmbedder{embedding: []float32{1, 0}}
	service := NewMultiQueryService(vectors, embedder)

	analysis := domain.QueryAnalysis{
		Type:            domain.QueryAggregation,
		ContextSize:     60,
		NeedsMultiQuery: true,
	}

	res, err := service.Search(context.Background(), "liste tudo", analysis, "")
	require.NoError(t, err)
	assert.Empty(t, res.Chunks)
	assert.Empty(t, res.UniqueDocuments)
	assert.Equal(t, 0, res.TotalChunksBeforeDedup)
}
