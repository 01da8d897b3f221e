package driven

import "context"

// EmbeddingService generates vector embeddings from text.
//
// Note: this is separate from VectorStore, which stores and searches
// vectors. EmbeddingService generates them.
//
// Implementations may include:
//   - Gemini (text-embedding-004)
//   - Any provider exposing an embeddings endpoint
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	// Fails with an error wrapping domain.ErrEmbeddingFailed on
	// provider error or empty result.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts. Adapters
	// batch requests (batches of 10) with rate-limit pacing between
	// batches.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size (e.g. 768, 1536).
	// Must match the dimension of stored chunk embeddings.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable with a lightweight
	// request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
