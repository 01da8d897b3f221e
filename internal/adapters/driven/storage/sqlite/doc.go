// Package sqlite provides SQLite-backed implementations of the chunk
// store and the linear-scan vector store. The schema is managed by
// embedded SQL migrations; embeddings are stored as little-endian
// float32 blobs.
package sqlite
