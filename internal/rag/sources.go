package rag

import (
	"context"
	"fmt"

	"codeberg.org/knowledgehub/server/internal/logger"
	"codeberg.org/knowledgehub/server/internal/vectorstore"
)

// Search returns raw ranked matches with no threshold filtering and no
// LLM involvement.
func (s *Service) Search(ctx context.Context, query string, k int, filter vectorstore.Filter) ([]SearchResult, error) {
	if k <= 0 {
		k = s.config.Retrieval.TopK
	}

	embedding, err := s.llm.GenerateEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	candidates, err := s.store.Query(ctx, embedding, k, filter)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}

	results := make([]SearchResult, len(candidates))
	for i, c := range candidates {
		results[i] = SearchResult{
			Content:  c.Chunk.Text,
			Metadata: c.Chunk.Metadata,
			Score:    c.Score,
		}
	}

	return results, nil
}

// ListSources aggregates indexed chunks by source URL.
func (s *Service) ListSources(ctx context.Context) ([]vectorstore.SourceInfo, error) {
	sources, err := s.store.ListSources(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sources: %w", err)
	}

	return sources, nil
}

// DeleteSource removes every chunk for sourceURL and reports how many.
func (s *Service) DeleteSource(ctx context.Context, sourceURL string) (int, error) {
	deleted, err := s.store.DeleteBySource(ctx, sourceURL)
	if err != nil {
		return 0, fmt.Errorf("failed to delete source: %w", err)
	}

	logger.Info("deleted source", "url", sourceURL, "chunks_removed", deleted)

	// stale cached answers may still cite the deleted source
	s.cache.Clear()

	return deleted, nil
}

// ClearAll drops every chunk from the index and empties the cache.
func (s *Service) ClearAll(ctx context.Context) error {
	if err := s.store.DeleteAll(ctx); err != nil {
		return fmt.Errorf("failed to clear index: %w", err)
	}

	s.cache.Clear()

	logger.Info("cleared all indexed sources")

	return nil
}

// ChunkCount reports the total number of indexed chunks.
func (s *Service) ChunkCount(ctx context.Context) (int, error) {
	return s.store.Count(ctx)
}
