package services

import (
	"context"
	"sort"
	"sync"

	"github.com/tecfag/rag/internal/core/domain"
	"github.com/tecfag/rag/internal/core/ports/driven"
	"github.com/tecfag/rag/internal/core/ports/driving"
	"github.com/tecfag/rag/internal/logger"
)

// Ensure MultiQueryService implements the interface.
var _ driving.RetrievalService = (*MultiQueryService)(nil)

// fullScanPatterns are the filename substrings that identify catalog,
// inventory and listing documents for full-document retrieval.
var fullScanPatterns = []string{
	"catalogo", "catálogo", "catalog",
	"planilha", "spreadsheet",
	"inventario", "inventário", "inventory",
	"mapeamento", "mapping",
	"lista", "list",
	"completo", "complete",
}

// baselineChunksPerDocument is the per-document sample size of the
// full-scan baseline pass.
const baselineChunksPerDocument = 2

// MultiQueryService fans a question out into multiple sub-query
// searches and merges the results into a single deduplicated set.
type MultiQueryService struct {
	vectors  driven.VectorStore
	embedder driven.EmbeddingService
}

// NewMultiQueryService creates a new multi-query retrieval service.
func NewMultiQueryService(vectors driven.VectorStore, embedder driven.EmbeddingService) *MultiQueryService {
	return &MultiQueryService{
		vectors:  vectors,
		embedder: embedder,
	}
}

// Search runs the original question plus the analysis' suggested
// queries concurrently against the vector store and merges the results.
//
// Individual sub-query failures (embedding or search) are logged and
// treated as zero chunks for that query; one failing sub-query never
// aborts the orchestration. A question yielding zero chunks from every
// source produces an empty result, not an error.
func (s *MultiQueryService) Search(
	ctx context.Context, question string, analysis domain.QueryAnalysis, catalogID string,
) (*domain.MultiQueryResult, error) {
	logger.Section("Multi-Query Search")

	queries := append([]string{question}, analysis.SuggestedQueries...)
	chunksPerQuery := ceilDiv(analysis.ContextSize, len(queries))
	logger.Debug("Fan-out: %d queries, %d chunks per query", len(queries), chunksPerQuery)

	// Concurrent fan-out. Results are collected by query-list position
	// so completion order never affects merge order.
	perQuery := make([][]domain.VectorSearchResult, len(queries))
	var wg sync.WaitGroup
	for i, query := range queries {
		wg.Add(1)
		go func(i int, query string) {
			defer wg.Done()
			hits, err := s.searchOne(ctx, query, chunksPerQuery, catalogID)
			if err != nil {
				logger.Warn("Sub-query %q failed: %v (treating as zero chunks)", query, err)
				return
			}
			perQuery[i] = hits
		}(i, query)
	}
	wg.Wait()

	// Merge in query-list order, first occurrence of a chunk ID wins.
	// Diagnostic counts reflect raw hits, not the dedup outcome.
	seen := make(map[string]struct{})
	var merged []domain.VectorSearchResult
	breakdown := make([]domain.QueryStat, len(queries))
	for i, hits := range perQuery {
		breakdown[i] = domain.QueryStat{Query: queries[i], ChunksFound: len(hits)}
		for _, hit := range hits {
			if _, dup := seen[hit.ID]; dup {
				continue
			}
			seen[hit.ID] = struct{}{}
			merged = append(merged, hit)
		}
	}
	logger.Debug("Merged: %d unique chunks from fan-out", len(merged))

	// Count queries must not sample: pull whole catalog-like documents
	// and a per-document baseline on top of the fan-out results.
	if analysis.IsCountQuery || analysis.RequiresFullScan {
		merged = s.augmentFullScan(ctx, merged, seen, catalogID)
	}

	totalBeforeTruncation := len(merged)

	if analysis.IsCountQuery {
		// Counting requires completeness and a stable, per-document
		// auditable order. Never truncate.
		sort.SliceStable(merged, func(i, j int) bool {
			if merged[i].DocumentID != merged[j].DocumentID {
				return merged[i].DocumentID < merged[j].DocumentID
			}
			return merged[i].ChunkIndex < merged[j].ChunkIndex
		})
	} else {
		sort.SliceStable(merged, func(i, j int) bool {
			return merged[i].Similarity > merged[j].Similarity
		})
		if len(merged) > analysis.ContextSize {
			merged = merged[:analysis.ContextSize]
		}
	}

	result := &domain.MultiQueryResult{
		Chunks:                 merged,
		UniqueDocuments:        uniqueDocuments(merged),
		TotalChunksBeforeDedup: totalBeforeTruncation,
		QueryBreakdown:         breakdown,
	}
	logger.Info("Multi-query result: %d chunks across %d documents",
		len(result.Chunks), len(result.UniqueDocuments))

	return result, nil
}

// searchOne embeds one sub-query and searches the vector store.
func (s *MultiQueryService) searchOne(
	ctx context.Context, query string, topK int, catalogID string,
) ([]domain.VectorSearchResult, error) {
	embedding, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}
	return s.vectors.Search(ctx, embedding, topK, driven.SearchFilter{CatalogID: catalogID})
}

// augmentFullScan merges full-document retrieval and a per-document
// baseline sample into the result set, keyed by the same seen map as
// the fan-out merge.
func (s *MultiQueryService) augmentFullScan(
	ctx context.Context,
	merged []domain.VectorSearchResult,
	seen map[string]struct{},
	catalogID string,
) []domain.VectorSearchResult {
	logger.Debug("Full-scan augmentation: retrieving catalog-like documents")

	full, err := s.vectors.GetFullDocumentChunks(ctx, fullScanPatterns, catalogID)
	if err != nil {
		logger.Warn("Full-document retrieval failed: %v (continuing without it)", err)
	} else {
		logger.Debug("Full-document retrieval: %d chunks", len(full))
		merged = mergeUnique(merged, full, seen)
	}

	baseline, err := s.vectors.SearchByDocument(ctx, catalogID, baselineChunksPerDocument)
	if err != nil {
		logger.Warn("Document baseline sampling failed: %v (continuing without it)", err)
	} else {
		logger.Debug("Document baseline: %d chunks", len(baseline))
		merged = mergeUnique(merged, baseline, seen)
	}

	return merged
}

// mergeUnique appends hits whose chunk ID has not been seen yet.
func mergeUnique(
	merged, hits []domain.VectorSearchResult, seen map[string]struct{},
) []domain.VectorSearchResult {
	for _, hit := range hits {
		if _, dup := seen[hit.ID]; dup {
			continue
		}
		seen[hit.ID] = struct{}{}
		merged = append(merged, hit)
	}
	return merged
}

// uniqueDocuments returns the distinct document IDs in first-seen order.
func uniqueDocuments(chunks []domain.VectorSearchResult) []string {
	seen := make(map[string]struct{})
	var docs []string
	for _, chunk := range chunks {
		if _, ok := seen[chunk.DocumentID]; ok {
			continue
		}
		seen[chunk.DocumentID] = struct{}{}
		docs = append(docs, chunk.DocumentID)
	}
	return docs
}

// ceilDiv returns ceil(a/b), treating b < 1 as 1.
func ceilDiv(a, b int) int {
	if b < 1 {
		b = 1
	}
	return (a + b - 1) / b
}
