package vectorstore

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	chromem "github.com/philippgille/chromem-go"

	"codeberg.org/knowledgehub/server/internal/chunker"
)

const collectionName = "knowledgehub"

// ChromemStore is the embedded chromem-go backend used for development
// and tests. Source listing is tracked in memory, so a persistent DB
// reopened by a new process only lists sources ingested since start.
type ChromemStore struct {
	db         *chromem.DB
	collection *chromem.Collection

	mu      sync.RWMutex
	sources map[string]SourceInfo
}

// NewChromemStore opens an embedded store. An empty path means a purely
// in-memory database.
func NewChromemStore(path string) (*ChromemStore, error) {
	var (
		db  *chromem.DB
		err error
	)

	if path == "" {
		db = chromem.NewDB()
	} else {
		db, err = chromem.NewPersistentDB(path, false)
		if err != nil {
			return nil, fmt.Errorf("failed to open chromem database: %w", err)
		}
	}

	collection, err := db.GetOrCreateCollection(collectionName, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open collection: %w", err)
	}

	return &ChromemStore{
		db:         db,
		collection: collection,
		sources:    make(map[string]SourceInfo),
	}, nil
}

func (s *ChromemStore) Close() {}

func (s *ChromemStore) Upsert(ctx context.Context, chunks []chunker.Chunk, embeddings [][]float32) error {
	if len(chunks) != len(embeddings) {
		return fmt.Errorf("chunks and embeddings length mismatch")
	}

	if len(chunks) == 0 {
		return nil
	}

	for _, url := range sourceURLs(chunks) {
		if _, err := s.DeleteBySource(ctx, url); err != nil {
			return fmt.Errorf("failed to delete stale chunks: %w", err)
		}
	}

	docs := make([]chromem.Document, 0, len(chunks))

	for i, chunk := range chunks {
		metadata, err := json.Marshal(chunk.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal metadata for chunk %d: %w", i, err)
		}

		docs = append(docs, chromem.Document{
			ID:      fmt.Sprintf("%s#%d", chunk.Metadata.SourceURL, chunk.Metadata.ChunkIndex),
			Content: chunk.Text,
			Metadata: map[string]string{
				FilterSourceURL: chunk.Metadata.SourceURL,
				FilterPosition:  chunk.Metadata.Position,
				"metadata":      string(metadata),
			},
			Embedding: embeddings[i],
		})
	}

	if err := s.collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return fmt.Errorf("failed to add documents: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, chunk := range chunks {
		meta := chunk.Metadata

		info := s.sources[meta.SourceURL]
		info.URL = meta.SourceURL
		info.Title = meta.Title
		info.ChunksCount++

		if ts, err := time.Parse(time.RFC3339, meta.UpdatedAt); err == nil {
			info.LastUpdated = ts
		}

		s.sources[meta.SourceURL] = info
	}

	return nil
}

func (s *ChromemStore) Query(ctx context.Context, embedding []float32, topK int, filter Filter) ([]Candidate, error) {
	for key := range filter {
		if !ValidFilterKey(key) {
			return nil, fmt.Errorf("unsupported filter key: %s", key)
		}
	}

	// chromem rejects queries asking for more results than stored
	count := s.collection.Count()
	if topK > count {
		topK = count
	}

	if topK <= 0 {
		return nil, nil
	}

	results, err := s.collection.QueryEmbedding(ctx, embedding, topK, filter, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to query collection: %w", err)
	}

	candidates := make([]Candidate, 0, len(results))

	for _, res := range results {
		var meta chunker.Metadata

		if raw := res.Metadata["metadata"]; raw != "" {
			if err := json.Unmarshal([]byte(raw), &meta); err != nil {
				return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
			}
		}

		candidates = append(candidates, Candidate{
			ID:        res.ID,
			Chunk:     chunker.Chunk{Text: res.Content, Metadata: meta},
			Score:     float64(res.Similarity),
			Embedding: res.Embedding,
		})
	}

	return candidates, nil
}

func (s *ChromemStore) DeleteBySource(ctx context.Context, sourceURL string) (int, error) {
	before := s.collection.Count()

	err := s.collection.Delete(ctx, map[string]string{FilterSourceURL: sourceURL}, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to delete source: %w", err)
	}

	deleted := before - s.collection.Count()

	s.mu.Lock()
	delete(s.sources, sourceURL)
	s.mu.Unlock()

	return deleted, nil
}

func (s *ChromemStore) DeleteAll(_ context.Context) error {
	if err := s.db.DeleteCollection(collectionName); err != nil {
		return fmt.Errorf("failed to drop collection: %w", err)
	}

	collection, err := s.db.GetOrCreateCollection(collectionName, nil, nil)
	if err != nil {
		return fmt.Errorf("failed to recreate collection: %w", err)
	}

	s.collection = collection

	s.mu.Lock()
	s.sources = make(map[string]SourceInfo)
	s.mu.Unlock()

	return nil
}

func (s *ChromemStore) ListSources(_ context.Context) ([]SourceInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sources := make([]SourceInfo, 0, len(s.sources))
	for _, info := range s.sources {
		sources = append(sources, info)
	}

	// newest first, URL as a stable tiebreak
	sort.Slice(sources, func(i, j int) bool {
		if !sources[i].LastUpdated.Equal(sources[j].LastUpdated) {
			return sources[i].LastUpdated.After(sources[j].LastUpdated)
		}
		return sources[i].URL < sources[j].URL
	})

	return sources, nil
}

func (s *ChromemStore) Count(_ context.Context) (int, error) {
	return s.collection.Count(), nil
}
