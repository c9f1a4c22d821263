package rag

import (
	"context"
	"errors"
	"fmt"
	"time"

	"codeberg.org/knowledgehub/server/internal/chunker"
	"codeberg.org/knowledgehub/server/internal/crawler"
	"codeberg.org/knowledgehub/server/internal/logger"
)

// Ingest crawls pageURL, chunks the extracted text, embeds every chunk,
// and upserts the result. Re-ingesting a URL replaces its prior chunks.
// Returns ErrNoExtractableContent when the page yields zero chunks.
func (s *Service) Ingest(ctx context.Context, pageURL, sourceName string) (*IngestResult, error) {
	page, err := s.crawler.Fetch(ctx, pageURL)
	if err != nil {
		if errors.Is(err, crawler.ErrNoContent) {
			return nil, fmt.Errorf("%w: %s", ErrNoExtractableContent, pageURL)
		}

		return nil, fmt.Errorf("failed to fetch page: %w", err)
	}

	base := chunker.Metadata{
		SourceURL:  page.URL,
		Title:      page.Title,
		SourceName: sourceName,
		UpdatedAt:  page.LastModified.Format(time.RFC3339),
	}

	chunks := chunker.Split(page.Content, base, chunker.Options{
		MaxTokens:      s.config.Chunking.MaxTokens,
		OverlapPercent: s.config.Chunking.OverlapPercent,
	})

	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoExtractableContent, pageURL)
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}

	embeddings, err := s.llm.GenerateEmbeddings(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to embed chunks: %w", err)
	}

	if err := s.store.Upsert(ctx, chunks, embeddings); err != nil {
		return nil, fmt.Errorf("failed to store chunks: %w", err)
	}

	logger.Info("ingested source",
		"url", page.URL,
		"title", page.Title,
		"chunks", len(chunks),
	)

	return &IngestResult{
		URL:             page.URL,
		Title:           page.Title,
		ChunksProcessed: len(chunks),
	}, nil
}
