package vectorstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"codeberg.org/knowledgehub/server/internal/chunker"
	"codeberg.org/knowledgehub/server/internal/logger"
)

// PgStore is the Postgres + pgvector backend.
type PgStore struct {
	pool *pgxpool.Pool
}

func NewPgStore(ctx context.Context, connString string) (*PgStore, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PgStore{pool: pool}, nil
}

func (s *PgStore) Close() {
	s.pool.Close()
}

// Upsert replaces all chunks for the source URLs present in chunks,
// then inserts the new chunks in a single transaction.
func (s *PgStore) Upsert(ctx context.Context, chunks []chunker.Chunk, embeddings [][]float32) error {
	if len(chunks) != len(embeddings) {
		return fmt.Errorf("chunks and embeddings length mismatch")
	}

	if len(chunks) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	// defer rollback - will be no-op if commit succeeds
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			logger.Warn("failed to rollback transaction", "error", err)
		}
	}()

	if _, err := tx.Exec(ctx, deleteForUpsertQuery, sourceURLs(chunks)); err != nil {
		return fmt.Errorf("failed to delete stale chunks: %w", err)
	}

	batch := &pgx.Batch{}

	for i, chunk := range chunks {
		metadata, err := json.Marshal(chunk.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal metadata for chunk %d: %w", i, err)
		}

		batch.Queue(insertChunkQuery,
			chunk.Metadata.SourceURL,
			chunk.Metadata.Title,
			chunk.Text,
			pgvector.NewVector(embeddings[i]),
			metadata,
		)
	}

	br := tx.SendBatch(ctx, batch)

	for i := range len(chunks) {
		if _, err := br.Exec(); err != nil {
			br.Close() //nolint:errcheck,gosec // G104: error path cleanup
			return fmt.Errorf("failed to insert chunk %d: %w", i, err)
		}
	}

	// must close batch results before committing, otherwise connection is still "busy"
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to close batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Query returns the topK nearest chunks by cosine similarity.
func (s *PgStore) Query(ctx context.Context, embedding []float32, topK int, filter Filter) ([]Candidate, error) {
	query, args, err := buildSearchQuery(embedding, topK, filter)
	if err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to run vector search: %w", err)
	}
	defer rows.Close()

	var candidates []Candidate

	for rows.Next() {
		var (
			c        Candidate
			vec      pgvector.Vector
			metadata []byte
		)

		err := rows.Scan(&c.ID, &c.Chunk.Metadata.SourceURL, &c.Chunk.Metadata.Title,
			&c.Chunk.Text, &vec, &metadata, &c.Score)
		if err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}

		if err := json.Unmarshal(metadata, &c.Chunk.Metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
		}

		c.Embedding = vec.Slice()
		candidates = append(candidates, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read candidates: %w", err)
	}

	return candidates, nil
}

// DeleteBySource removes every chunk for sourceURL and reports how many.
func (s *PgStore) DeleteBySource(ctx context.Context, sourceURL string) (int, error) {
	tag, err := s.pool.Exec(ctx, deleteBySourceQuery, sourceURL)
	if err != nil {
		return 0, fmt.Errorf("failed to delete source: %w", err)
	}

	return int(tag.RowsAffected()), nil
}

func (s *PgStore) DeleteAll(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, deleteAllChunksQuery); err != nil {
		return fmt.Errorf("failed to clear chunks: %w", err)
	}

	return nil
}

func (s *PgStore) ListSources(ctx context.Context) ([]SourceInfo, error) {
	rows, err := s.pool.Query(ctx, listSourcesQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to list sources: %w", err)
	}
	defer rows.Close()

	var sources []SourceInfo

	for rows.Next() {
		var info SourceInfo

		if err := rows.Scan(&info.URL, &info.Title, &info.ChunksCount, &info.LastUpdated); err != nil {
			return nil, fmt.Errorf("failed to scan source: %w", err)
		}

		sources = append(sources, info)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read sources: %w", err)
	}

	return sources, nil
}

func (s *PgStore) Count(ctx context.Context) (int, error) {
	var count int

	if err := s.pool.QueryRow(ctx, getChunkCountQuery).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to get chunk count: %w", err)
	}

	return count, nil
}

// buildSearchQuery appends WHERE clauses for recognized filter keys.
// position filters match the metadata JSON; source_url uses its column.
func buildSearchQuery(embedding []float32, topK int, filter Filter) (string, []any, error) {
	var sb strings.Builder

	sb.WriteString(vectorSearchQuery)

	args := []any{pgvector.NewVector(embedding)}

	var clauses []string

	for key, value := range filter {
		if !ValidFilterKey(key) {
			return "", nil, fmt.Errorf("unsupported filter key: %s", key)
		}

		args = append(args, value)

		switch key {
		case FilterSourceURL:
			clauses = append(clauses, fmt.Sprintf("source_url = $%d", len(args)))
		case FilterPosition:
			clauses = append(clauses, fmt.Sprintf("metadata->>'position' = $%d", len(args)))
		}
	}

	if len(clauses) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(clauses, " AND "))
	}

	args = append(args, topK)
	sb.WriteString(fmt.Sprintf(" ORDER BY embedding <=> $1 LIMIT $%d", len(args)))

	return sb.String(), args, nil
}

func sourceURLs(chunks []chunker.Chunk) []string {
	seen := make(map[string]bool)

	var urls []string

	for _, chunk := range chunks {
		if url := chunk.Metadata.SourceURL; !seen[url] {
			seen[url] = true

			urls = append(urls, url)
		}
	}

	return urls
}
