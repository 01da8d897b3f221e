package domain

// Placeholder similarity scores for retrieval operations that are not
// driven by a query vector. Downstream consumers use these to tell
// structural retrieval apart from genuine similarity hits.
const (
	// DocumentSampleSimilarity annotates chunks returned by per-document
	// sampling (SearchByDocument).
	DocumentSampleSimilarity = 0.5

	// FullDocumentSimilarity annotates chunks returned by full-document
	// retrieval. Higher than DocumentSampleSimilarity to signal
	// authoritative full-context provenance.
	FullDocumentSimilarity = 0.8
)

// ChunkMetadata carries per-document attributes attached to every chunk.
// FileName is the only field consumers depend on; Extra tolerates
// arbitrary ingestion-time tags.
type ChunkMetadata struct {
	// FileName is the name of the source file (e.g. "catalogo-seladoras.pdf").
	FileName string

	// FileType is the document type hint (e.g. "pdf", "docx", "xlsx").
	FileType string

	// CatalogID scopes the chunk to a machine catalog, when applicable.
	CatalogID string

	// Extra holds any additional ingestion-time tags.
	Extra map[string]string
}

// Chunk is a contiguous slice of a source document's extracted text.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocumentID links to the owning document.
	DocumentID string

	// Content is the text content of this chunk.
	Content string

	// ChunkIndex is the 0-based position within the document. It is
	// assigned monotonically at creation time and never renumbered.
	ChunkIndex int

	// Embedding is the vector representation for similarity search.
	Embedding []float32

	// Metadata carries the owning document's attributes.
	Metadata ChunkMetadata
}

// VectorSearchResult is a chunk annotated with a similarity score
// relative to one query. It is never persisted; two results with the
// same chunk ID are the same logical chunk regardless of the score
// each query assigned.
type VectorSearchResult struct {
	Chunk

	// Similarity is the cosine similarity to the query vector, or one
	// of the placeholder constants for structural retrieval.
	Similarity float64
}

// DocumentStats aggregates corpus counts for diagnostics and
// system-context injection.
type DocumentStats struct {
	TotalDocuments int
	TotalChunks    int
	DocumentNames  []string
}
