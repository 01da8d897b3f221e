package domain

// QueryStat records how many chunks one sub-query found, before
// deduplication. Kept for diagnostics regardless of dedup outcome.
type QueryStat struct {
	// Query is the sub-query text.
	Query string

	// ChunksFound is the raw hit count for this sub-query.
	ChunksFound int
}

// MultiQueryResult is the ephemeral aggregate of one orchestrated
// multi-query search.
type MultiQueryResult struct {
	// Chunks is the deduplicated, ordered result set. No two entries
	// share a chunk ID.
	Chunks []VectorSearchResult

	// UniqueDocuments lists the distinct document IDs present in
	// Chunks, in first-seen order. Derived, never independently
	// mutated.
	UniqueDocuments []string

	// TotalChunksBeforeDedup is the merged set size before any
	// truncation (but after dedup-merge).
	TotalChunksBeforeDedup int

	// QueryBreakdown holds per-sub-query hit counts for diagnostics.
	QueryBreakdown []QueryStat
}
