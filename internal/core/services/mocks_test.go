package services

import (
	"context"

	"github.com/tecfag/rag/internal/core/domain"
	"github.com/tecfag/rag/internal/core/ports/driven"
)

// --- Mock implementations shared by the service tests ---

// mockEmbedder implements driven.EmbeddingService for testing.
type mockEmbedder struct {
	embedding  []float32
	embedErr   error
	embedCalls int
	// perText lets tests return different embeddings per input.
	perText map[string][]float32
	// failFor makes specific inputs fail while others succeed.
	failFor map[string]error
}

func (m *mockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	m.embedCalls++
	if err, ok := m.failFor[text]; ok {
		return nil, err
	}
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	if e, ok := m.perText[text]; ok {
		return e, nil
	}
	return m.embedding, nil
}

func (m *mockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	result := make([][]float32, len(texts))
	for i, text := range texts {
		e, err := m.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		result[i] = e
	}
	return result, nil
}

func (m *mockEmbedder) Dimensions() int              { return len(m.embedding) }
func (m *mockEmbedder) ModelName() string            { return "mock-embed" }
func (m *mockEmbedder) Ping(_ context.Context) error { return nil }
func (m *mockEmbedder) Close() error                 { return nil }

// mockVectorStore implements driven.VectorStore for testing.
type mockVectorStore struct {
	searchHits  []domain.VectorSearchResult
	searchErr   error
	searchCalls int
	// ignoreTopK returns every configured hit regardless of topK.
	ignoreTopK    bool
	fullDocHits   []domain.VectorSearchResult
	fullDocErr    error
	fullDocCalls  int
	fullDocParams [][]string
	sampleHits    []domain.VectorSearchResult
	sampleErr     error
	sampleCalls   int
	stats         *domain.DocumentStats
	statsErr      error
}

func (m *mockVectorStore) Search(
	_ context.Context, _ []float32, topK int, _ driven.SearchFilter,
) ([]domain.VectorSearchResult, error) {
	m.searchCalls++
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	hits := m.searchHits
	if !m.ignoreTopK && topK >= 0 && len(hits) > topK {
		hits = hits[:topK]
	}
	return hits, nil
}

func (m *mockVectorStore) SearchByDocument(
	_ context.Context, _ string, _ int,
) ([]domain.VectorSearchResult, error) {
	m.sampleCalls++
	if m.sampleErr != nil {
		return nil, m.sampleErr
	}
	return m.sampleHits, nil
}

func (m *mockVectorStore) GetFullDocumentChunks(
	_ context.Context, patterns []string, _ string,
) ([]domain.VectorSearchResult, error) {
	m.fullDocCalls++
	m.fullDocParams = append(m.fullDocParams, patterns)
	if m.fullDocErr != nil {
		return nil, m.fullDocErr
	}
	return m.fullDocHits, nil
}

func (m *mockVectorStore) GetDocumentStats(
	_ context.Context, _ string,
) (*domain.DocumentStats, error) {
	if m.statsErr != nil {
		return nil, m.statsErr
	}
	if m.stats != nil {
		return m.stats, nil
	}
	return &domain.DocumentStats{}, nil
}

// mockRetrieval implements driving.RetrievalService for testing.
type mockRetrieval struct {
	result    *domain.MultiQueryResult
	searchErr error
	calls     int
}

func (m *mockRetrieval) Search(
	_ context.Context, _ string, _ domain.QueryAnalysis, _ string,
) (*domain.MultiQueryResult, error) {
	m.calls++
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	if m.result != nil {
		return m.result, nil
	}
	return &domain.MultiQueryResult{}, nil
}

// mockChunkStore implements driven.ChunkStore for testing.
type mockChunkStore struct {
	created   [][]domain.Chunk
	createErr error
	deleted   []string
	deleteErr error
	count     int
	countErr  error
	chunks    []domain.Chunk
	getErr    error
}

func (m *mockChunkStore) CreateMany(_ context.Context, chunks []domain.Chunk) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = append(m.created, chunks)
	return nil
}

func (m *mockChunkStore) DeleteByDocument(_ context.Context, documentID string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleted = append(m.deleted, documentID)
	return nil
}

func (m *mockChunkStore) CountByDocument(_ context.Context, _ string) (int, error) {
	return m.count, m.countErr
}

func (m *mockChunkStore) GetByDocument(_ context.Context, _ string) ([]domain.Chunk, error) {
	return m.chunks, m.getErr
}

// mockCompleter implements driven.CompletionService for testing.
type mockCompleter struct {
	completion  *domain.Completion
	completeErr error
	calls       int
	lastPrompt  string
}

func (m *mockCompleter) Complete(
	_ context.Context, prompt string, _ []driven.ChatMessage, _ driven.CompleteOptions,
) (*domain.Completion, error) {
	m.calls++
	m.lastPrompt = prompt
	if m.completeErr != nil {
		return nil, m.completeErr
	}
	if m.completion != nil {
		return m.completion, nil
	}
	return &domain.Completion{Text: "mock answer"}, nil
}

func (m *mockCompleter) ModelName() string            { return "mock-llm" }
func (m *mockCompleter) Ping(_ context.Context) error { return nil }
func (m *mockCompleter) Close() error                 { return nil }

// result builds a VectorSearchResult for tests.
func result(id, docID string, index int, similarity float64, fileName string) domain.VectorSearchResult {
	return domain.VectorSearchResult{
		Chunk: domain.Chunk{
			ID:         id,
			DocumentID: docID,
			Content:    "content of " + id,
			ChunkIndex: index,
			Metadata:   domain.ChunkMetadata{FileName: fileName},
		},
		Similarity: similarity,
	}
}
