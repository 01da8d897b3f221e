package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDimensionMismatch indicates two vectors of different lengths
	// were compared. Always a hard failure: it points at a data
	// integrity bug such as an embedding model change without
	// reindexing the corpus.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrEmbeddingFailed indicates the embedding provider errored or
	// returned an empty vector. Inside multi-query fan-out this is
	// downgraded to zero results for the failing sub-query; in the
	// single-query search path it propagates.
	ErrEmbeddingFailed = errors.New("embedding generation failed")

	// ErrProviderUnavailable indicates both completion providers
	// failed. Terminal for the request; no retry.
	ErrProviderUnavailable = errors.New("completion providers unavailable")
)
