// Package memory provides an in-memory implementation of the chunk and
// vector stores, used in tests and local development.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/tecfag/rag/internal/core/domain"
	"github.com/tecfag/rag/internal/core/ports/driven"
)

// Ensure Store implements the interfaces.
var (
	_ driven.ChunkStore  = (*Store)(nil)
	_ driven.VectorStore = (*Store)(nil)
)

// Store is an in-memory chunk and vector store. Chunks are kept in
// insertion order, which is the tie-breaking iteration order of
// similarity search.
type Store struct {
	mu     sync.RWMutex
	chunks []domain.Chunk
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{}
}

// CreateMany stores chunks in bulk.
func (s *Store) CreateMany(_ context.Context, chunks []domain.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks = append(s.chunks, chunks...)
	return nil
}

// DeleteByDocument removes every chunk of a document.
func (s *Store) DeleteByDocument(_ context.Context, documentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.chunks[:0]
	for _, chunk := range s.chunks {
		if chunk.DocumentID != documentID {
			kept = append(kept, chunk)
		}
	}
	s.chunks = kept
	return nil
}

// CountByDocument returns the number of chunks for a document.
func (s *Store) CountByDocument(_ context.Context, documentID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, chunk := range s.chunks {
		if chunk.DocumentID == documentID {
			count++
		}
	}
	return count, nil
}

// GetByDocument retrieves all chunks of a document, ordered by chunk
// index ascending.
func (s *Store) GetByDocument(_ context.Context, documentID string) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.Chunk
	for _, chunk := range s.chunks {
		if chunk.DocumentID == documentID {
			result = append(result, chunk)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].ChunkIndex < result[j].ChunkIndex
	})
	return result, nil
}

// Search computes cosine similarity against every stored chunk matching
// the filter and returns the topK by descending similarity.
func (s *Store) Search(
	_ context.Context, queryEmbedding []float32, topK int, filter driven.SearchFilter,
) ([]domain.VectorSearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var results []domain.VectorSearchResult
	for _, chunk := range s.chunks {
		if !matchesFilter(chunk, filter) {
			continue
		}
		similarity, err := domain.CosineSimilarity(queryEmbedding, chunk.Embedding)
		if err != nil {
			return nil, fmt.Errorf("chunk %s: %w", chunk.ID, err)
		}
		results = append(results, domain.VectorSearchResult{Chunk: chunk, Similarity: similarity})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})

	if topK >= 0 && len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

// SearchByDocument returns the first chunksPerDocument chunks of every
// distinct document ordered by chunk index.
func (s *Store) SearchByDocument(
	_ context.Context, catalogID string, chunksPerDocument int,
) ([]domain.VectorSearchResult, error) {
	if chunksPerDocument <= 0 {
		chunksPerDocument = 2
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	byDoc := make(map[string][]domain.Chunk)
	for _, chunk := range s.chunks {
		if catalogID != "" && chunk.Metadata.CatalogID != catalogID {
			continue
		}
		byDoc[chunk.DocumentID] = append(byDoc[chunk.DocumentID], chunk)
	}

	docOrder := make([]string, 0, len(byDoc))
	for docID := range byDoc {
		docOrder = append(docOrder, docID)
	}
	sort.Strings(docOrder)

	var results []domain.VectorSearchResult
	for _, docID := range docOrder {
		chunks := byDoc[docID]
		sort.SliceStable(chunks, func(i, j int) bool {
			return chunks[i].ChunkIndex < chunks[j].ChunkIndex
		})
		for i, chunk := range chunks {
			if i >= chunksPerDocument {
				break
			}
			results = append(results, domain.VectorSearchResult{
				Chunk:      chunk,
				Similarity: domain.DocumentSampleSimilarity,
			})
		}
	}
	return results, nil
}

// GetFullDocumentChunks returns every chunk of the documents whose file
// name contains any of the patterns (case-sensitive).
func (s *Store) GetFullDocumentChunks(
	_ context.Context, documentPatterns []string, catalogID string,
) ([]domain.VectorSearchResult, error) {
	if len(documentPatterns) == 0 {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make(map[string]bool)
	for _, chunk := range s.chunks {
		if catalogID != "" && chunk.Metadata.CatalogID != catalogID {
			continue
		}
		for _, pattern := range documentPatterns {
			if strings.Contains(chunk.Metadata.FileName, pattern) {
				matched[chunk.DocumentID] = true
				break
			}
		}
	}

	var chunks []domain.Chunk
	for _, chunk := range s.chunks {
		if matched[chunk.DocumentID] {
			chunks = append(chunks, chunk)
		}
	}
	sort.SliceStable(chunks, func(i, j int) bool {
		if chunks[i].DocumentID != chunks[j].DocumentID {
			return chunks[i].DocumentID < chunks[j].DocumentID
		}
		return chunks[i].ChunkIndex < chunks[j].ChunkIndex
	})

	results := make([]domain.VectorSearchResult, len(chunks))
	for i, chunk := range chunks {
		results[i] = domain.VectorSearchResult{
			Chunk:      chunk,
			Similarity: domain.FullDocumentSimilarity,
		}
	}
	return results, nil
}

// GetDocumentStats aggregates corpus counts.
func (s *Store) GetDocumentStats(_ context.Context, catalogID string) (*domain.DocumentStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make(map[string]bool)
	names := make(map[string]bool)
	total := 0
	for _, chunk := range s.chunks {
		if catalogID != "" && chunk.Metadata.CatalogID != catalogID {
			continue
		}
		docs[chunk.DocumentID] = true
		if chunk.Metadata.FileName != "" {
			names[chunk.Metadata.FileName] = true
		}
		total++
	}

	stats := &domain.DocumentStats{
		TotalDocuments: len(docs),
		TotalChunks:    total,
	}
	for name := range names {
		stats.DocumentNames = append(stats.DocumentNames, name)
	}
	sort.Strings(stats.DocumentNames)
	return stats, nil
}

func matchesFilter(chunk domain.Chunk, filter driven.SearchFilter) bool {
	if filter.DocumentID != "" && chunk.DocumentID != filter.DocumentID {
		return false
	}
	if filter.CatalogID != "" && chunk.Metadata.CatalogID != filter.CatalogID {
		return false
	}
	return true
}
