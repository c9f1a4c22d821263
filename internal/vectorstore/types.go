// Package vectorstore persists embedded chunks and answers similarity
// queries over them. Two backends implement Store: a pgvector-backed
// Postgres store for production and an embedded chromem store for
// development and tests.
package vectorstore

import (
	"context"
	"time"

	"codeberg.org/knowledgehub/server/internal/chunker"
)

// Candidate is one similarity match. Score is cosine similarity in
// [0, 1] where higher means more similar. Embedding is returned so
// callers can re-rank candidates without another round trip.
type Candidate struct {
	ID        string
	Chunk     chunker.Chunk
	Score     float64
	Embedding []float32
}

// SourceInfo summarizes one indexed source URL.
type SourceInfo struct {
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	ChunksCount int       `json:"chunks_count"`
	LastUpdated time.Time `json:"last_updated"`
}

// Filter narrows a query to chunks whose metadata matches every entry.
// Only source_url and position are recognized; unknown keys are an error.
type Filter map[string]string

// Store is the persistence interface for embedded chunks.
type Store interface {
	// Upsert replaces all chunks for each source URL present in chunks,
	// then inserts the new chunks with their embeddings.
	Upsert(ctx context.Context, chunks []chunker.Chunk, embeddings [][]float32) error

	// Query returns up to topK candidates ordered by descending score.
	Query(ctx context.Context, embedding []float32, topK int, filter Filter) ([]Candidate, error)

	// DeleteBySource removes every chunk for the given source URL and
	// returns the number of chunks removed.
	DeleteBySource(ctx context.Context, sourceURL string) (int, error)

	// DeleteAll removes every chunk from the store.
	DeleteAll(ctx context.Context) error

	// ListSources returns one entry per distinct source URL.
	ListSources(ctx context.Context) ([]SourceInfo, error)

	// Count returns the total number of stored chunks.
	Count(ctx context.Context) (int, error)

	Close()
}

// filter keys accepted by Query
const (
	FilterSourceURL = "source_url"
	FilterPosition  = "position"
)

// ValidFilterKey reports whether key is an accepted query filter.
func ValidFilterKey(key string) bool {
	return key == FilterSourceURL || key == FilterPosition
}
