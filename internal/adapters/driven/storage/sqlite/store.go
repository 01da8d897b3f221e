package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/tecfag/rag/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/tecfag/rag/internal/core/domain"
	"github.com/tecfag/rag/internal/core/ports/driven"
)

// jsonNull is the JSON representation of null.
const jsonNull = "null"

// Store is a SQLite-backed storage providing the chunk store and
// vector store interfaces through wrapper types.
//
// Chunk rows are immutable once written (ingestion purges and rewrites
// whole documents), so concurrent reads need no locking beyond what
// SQLite provides.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.tecfag/data/chunks.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".tecfag", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "chunks.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// ChunkStore returns a ChunkStore interface backed by this store.
func (s *Store) ChunkStore() driven.ChunkStore {
	return &chunkStore{store: s}
}

// VectorStore returns a VectorStore interface backed by this store.
func (s *Store) VectorStore() driven.VectorStore {
	return &vectorStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Chunk Store ====================

// chunkStore implements driven.ChunkStore.
type chunkStore struct {
	store *Store
}

var _ driven.ChunkStore = (*chunkStore)(nil)

// CreateMany stores chunks in bulk within a single transaction.
func (c *chunkStore) CreateMany(ctx context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	tx, err := c.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, document_id, content, chunk_index, embedding, file_name, file_type, catalog_id, extra)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, chunk := range chunks {
		extraJSON, err := json.Marshal(chunk.Metadata.Extra)
		if err != nil {
			return fmt.Errorf("marshalling extra metadata: %w", err)
		}

		if _, err := stmt.ExecContext(ctx,
			chunk.ID, chunk.DocumentID, chunk.Content, chunk.ChunkIndex,
			float32SliceToBytes(chunk.Embedding),
			chunk.Metadata.FileName, chunk.Metadata.FileType, chunk.Metadata.CatalogID,
			string(extraJSON)); err != nil {
			return fmt.Errorf("inserting chunk %s: %w", chunk.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing chunks: %w", err)
	}
	return nil
}

// DeleteByDocument removes every chunk of a document.
func (c *chunkStore) DeleteByDocument(ctx context.Context, documentID string) error {
	if _, err := c.store.db.ExecContext(ctx,
		"DELETE FROM chunks WHERE document_id = ?", documentID); err != nil {
		return fmt.Errorf("deleting chunks: %w", err)
	}
	return nil
}

// CountByDocument returns the number of chunks for a document.
func (c *chunkStore) CountByDocument(ctx context.Context, documentID string) (int, error) {
	var count int
	row := c.store.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM chunks WHERE document_id = ?", documentID)
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("counting chunks: %w", err)
	}
	return count, nil
}

// GetByDocument retrieves all chunks of a document, ordered by chunk
// index ascending.
func (c *chunkStore) GetByDocument(ctx context.Context, documentID string) ([]domain.Chunk, error) {
	rows, err := c.store.db.QueryContext(ctx, `
		SELECT id, document_id, content, chunk_index, embedding, file_name, file_type, catalog_id, extra
		FROM chunks WHERE document_id = ? ORDER BY chunk_index ASC
	`, documentID)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	return scanChunks(rows)
}

// ==================== Vector Store ====================

// vectorStore implements driven.VectorStore with an exact brute-force
// cosine scan. The corpus is a small internal document base, so the
// O(n) linear scan is fine and keeps the design simple.
type vectorStore struct {
	store *Store
}

var _ driven.VectorStore = (*vectorStore)(nil)

// Search computes cosine similarity against every stored chunk matching
// the filter and returns the topK by descending similarity. Ties fall
// back to rowid iteration order, which is not deterministic across
// stores and not part of the contract.
func (v *vectorStore) Search(
	ctx context.Context, queryEmbedding []float32, topK int, filter driven.SearchFilter,
) ([]domain.VectorSearchResult, error) {
	query := `
		SELECT id, document_id, content, chunk_index, embedding, file_name, file_type, catalog_id, extra
		FROM chunks WHERE 1=1`
	var args []any
	if filter.DocumentID != "" {
		query += " AND document_id = ?"
		args = append(args, filter.DocumentID)
	}
	if filter.CatalogID != "" {
		query += " AND catalog_id = ?"
		args = append(args, filter.CatalogID)
	}

	rows, err := v.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	chunks, err := scanChunks(rows)
	if err != nil {
		return nil, err
	}

	results := make([]domain.VectorSearchResult, 0, len(chunks))
	for _, chunk := range chunks {
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
// distinct document, ordered by chunk index, with the document-sample
// placeholder similarity.
func (v *vectorStore) SearchByDocument(
	ctx context.Context, catalogID string, chunksPerDocument int,
) ([]domain.VectorSearchResult, error) {
	if chunksPerDocument <= 0 {
		chunksPerDocument = 2
	}

	query := `
		SELECT id, document_id, content, chunk_index, embedding, file_name, file_type, catalog_id, extra
		FROM chunks WHERE chunk_index < ?`
	args := []any{chunksPerDocument}
	if catalogID != "" {
		query += " AND catalog_id = ?"
		args = append(args, catalogID)
	}
	query += " ORDER BY document_id ASC, chunk_index ASC"

	rows, err := v.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying document samples: %w", err)
	}
	defer rows.Close()

	chunks, err := scanChunks(rows)
	if err != nil {
		return nil, err
	}

	results := make([]domain.VectorSearchResult, len(chunks))
	for i, chunk := range chunks {
		results[i] = domain.VectorSearchResult{
			Chunk:      chunk,
			Similarity: domain.DocumentSampleSimilarity,
		}
	}
	return results, nil
}

// GetFullDocumentChunks returns every chunk of the documents whose file
// name contains any of the patterns. Matching is a case-sensitive
// substring test (instr, not LIKE, which folds case for ASCII).
func (v *vectorStore) GetFullDocumentChunks(
	ctx context.Context, documentPatterns []string, catalogID string,
) ([]domain.VectorSearchResult, error) {
	if len(documentPatterns) == 0 {
		return nil, nil
	}

	conds := make([]string, len(documentPatterns))
	args := make([]any, 0, len(documentPatterns)+1)
	for i, pattern := range documentPatterns {
		conds[i] = "instr(file_name, ?) > 0"
		args = append(args, pattern)
	}

	query := `
		SELECT id, document_id, content, chunk_index, embedding, file_name, file_type, catalog_id, extra
		FROM chunks WHERE (` + strings.Join(conds, " OR ") + `)`
	if catalogID != "" {
		query += " AND catalog_id = ?"
		args = append(args, catalogID)
	}
	query += " ORDER BY document_id ASC, chunk_index ASC"

	rows, err := v.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying full documents: %w", err)
	}
	defer rows.Close()

	chunks, err := scanChunks(rows)
	if err != nil {
		return nil, err
	}

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
func (v *vectorStore) GetDocumentStats(ctx context.Context, catalogID string) (*domain.DocumentStats, error) {
	query := `
		SELECT COUNT(DISTINCT document_id), COUNT(*)
		FROM chunks`
	var args []any
	if catalogID != "" {
		query += " WHERE catalog_id = ?"
		args = append(args, catalogID)
	}

	stats := &domain.DocumentStats{}
	row := v.store.db.QueryRowContext(ctx, query, args...)
	if err := row.Scan(&stats.TotalDocuments, &stats.TotalChunks); err != nil {
		return nil, fmt.Errorf("scanning stats: %w", err)
	}

	namesQuery := "SELECT DISTINCT file_name FROM chunks"
	if catalogID != "" {
		namesQuery += " WHERE catalog_id = ?"
	}
	namesQuery += " ORDER BY file_name ASC"

	rows, err := v.store.db.QueryContext(ctx, namesQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("querying document names: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning document name: %w", err)
		}
		if name != "" {
			stats.DocumentNames = append(stats.DocumentNames, name)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating document names: %w", err)
	}

	return stats, nil
}

// ==================== Helpers ====================

// scanChunks reads chunk rows produced by the canonical column list.
func scanChunks(rows *sql.Rows) ([]domain.Chunk, error) {
	var chunks []domain.Chunk
	for rows.Next() {
		var chunk domain.Chunk
		var embeddingBlob []byte
		var extraJSON string

		if err := rows.Scan(&chunk.ID, &chunk.DocumentID, &chunk.Content, &chunk.ChunkIndex,
			&embeddingBlob, &chunk.Metadata.FileName, &chunk.Metadata.FileType,
			&chunk.Metadata.CatalogID, &extraJSON); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}

		chunk.Embedding = bytesToFloat32Slice(embeddingBlob)
		if extraJSON != "" && extraJSON != jsonNull {
			if err := json.Unmarshal([]byte(extraJSON), &chunk.Metadata.Extra); err != nil {
				return nil, fmt.Errorf("unmarshaling extra metadata: %w", err)
			}
		}

		chunks = append(chunks, chunk)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}
	return chunks, nil
}

// float32SliceToBytes encodes embeddings as little-endian float32 blobs.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice decodes little-endian float32 blobs.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
