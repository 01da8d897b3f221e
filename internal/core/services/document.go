package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/tecfag/rag/internal/core/domain"
	"github.com/tecfag/rag/internal/core/ports/driven"
	"github.com/tecfag/rag/internal/core/ports/driving"
	"github.com/tecfag/rag/internal/logger"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 200

// DocumentService ingests documents into the chunk store: chunking,
// embedding and purge-before-write persistence.
type DocumentService struct {
	chunks    driven.ChunkStore
	vectors   driven.VectorStore
	embedder  driven.EmbeddingService
	chunkSize int
	overlap   int
}

// DocumentOption configures the document service.
type DocumentOption func(*DocumentService)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) DocumentOption {
	return func(s *DocumentService) {
		if size > 0 {
			s.chunkSize = size
		}
	}
}

// WithChunkOverlap sets the overlap between chunks in characters.
func WithChunkOverlap(overlap int) DocumentOption {
	return func(s *DocumentService) {
		if overlap >= 0 {
			s.overlap = overlap
		}
	}
}

// NewDocumentService creates a new document ingestion service.
func NewDocumentService(
	chunks driven.ChunkStore,
	vectors driven.VectorStore,
	embedder driven.EmbeddingService,
	opts ...DocumentOption,
) *DocumentService {
	s := &DocumentService{
		chunks:    chunks,
		vectors:   vectors,
		embedder:  embedder,
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(s)
	}

	// Ensure overlap doesn't exceed chunk size
	if s.overlap >= s.chunkSize {
		s.overlap = s.chunkSize / 4
	}

	return s
}

// Index chunks, embeds and stores a document's extracted text.
// Reindexing purges the document's old chunks before writing the new
// ones, so a query never observes a mix of both generations.
func (s *DocumentService) Index(
	ctx context.Context, documentID, content string, meta domain.ChunkMetadata,
) ([]domain.Chunk, error) {
	if documentID == "" {
		return nil, fmt.Errorf("%w: empty document ID", domain.ErrInvalidInput)
	}
	if content == "" {
		return nil, fmt.Errorf("%w: empty document content", domain.ErrInvalidInput)
	}

	logger.Section("Document Indexing")
	logger.Debug("Document %s (%s): %d characters", documentID, meta.FileName, len(content))

	chunks := s.split(documentID, content, meta)
	logger.Debug("Split into %d chunks", len(chunks))

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Content
	}

	embeddings, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed document chunks: %w", err)
	}
	if len(embeddings) != len(chunks) {
		return nil, fmt.Errorf("%w: got %d embeddings for %d chunks",
			domain.ErrEmbeddingFailed, len(embeddings), len(chunks))
	}
	for i := range chunks {
		chunks[i].Embedding = embeddings[i]
	}

	if err := s.chunks.DeleteByDocument(ctx, documentID); err != nil {
		return nil, fmt.Errorf("purge old chunks: %w", err)
	}
	if err := s.chunks.CreateMany(ctx, chunks); err != nil {
		return nil, fmt.Errorf("store chunks: %w", err)
	}

	logger.Info("Indexed document %s: %d chunks", documentID, len(chunks))
	return chunks, nil
}

// Delete removes a document's chunks.
func (s *DocumentService) Delete(ctx context.Context, documentID string) error {
	if err := s.chunks.DeleteByDocument(ctx, documentID); err != nil {
		return fmt.Errorf("delete document %s: %w", documentID, err)
	}
	logger.Info("Deleted document %s", documentID)
	return nil
}

// Stats returns corpus counts, optionally scoped to a catalog.
func (s *DocumentService) Stats(ctx context.Context, catalogID string) (*domain.DocumentStats, error) {
	return s.vectors.GetDocumentStats(ctx, catalogID)
}

// split cuts the content into fixed-size chunks with overlap.
// ChunkIndex is assigned monotonically and never renumbered.
func (s *DocumentService) split(documentID, content string, meta domain.ChunkMetadata) []domain.Chunk {
	contentLen := len(content)
	estimated := (contentLen / (s.chunkSize - s.overlap)) + 1
	chunks := make([]domain.Chunk, 0, estimated)

	index := 0
	start := 0

	for start < contentLen {
		end := start + s.chunkSize
		if end > contentLen {
			end = contentLen
		}

		chunks = append(chunks, domain.Chunk{
			ID:         uuid.New().String(),
			DocumentID: documentID,
			Content:    content[start:end],
			ChunkIndex: index,
			Metadata:   meta,
		})
		index++

		start += s.chunkSize - s.overlap
		if s.chunkSize <= s.overlap {
			break
		}
	}

	return chunks
}
