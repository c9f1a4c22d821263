package rag

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"codeberg.org/knowledgehub/server/internal/logger"
	"codeberg.org/knowledgehub/server/internal/textproc"
	"codeberg.org/knowledgehub/server/internal/vectorstore"
)

// answers cite at most this many distinct sources
const maxSources = 3

// Answer runs the full question pipeline: cache lookup, retrieval,
// context optimization, generation, and source attribution. The two
// empty-knowledge outcomes return fixed answers without calling the LLM.
func (s *Service) Answer(ctx context.Context, question string, history []Message, k int, filter vectorstore.Filter) (*Answer, error) {
	key := cacheKey(question, k, filter)

	if s.config.Cache.Enabled {
		if cached, ok := s.cache.Get(key); ok {
			logger.Debug("answer served from cache", "key", key)

			cached.Cached = true

			return &cached, nil
		}
	}

	result, err := s.retriever.Retrieve(ctx, question, k, filter)
	if err != nil {
		return nil, fmt.Errorf("retrieval failed: %w", err)
	}

	debug := Debug{
		DocsRetrieved:      result.DocsRetrieved,
		DocsAfterFiltering: result.DocsAfterFilter,
		AvgScore:           result.AvgScore,
	}

	if len(result.Selected) == 0 {
		logger.Info("no relevant documents for question", "docs_retrieved", result.DocsRetrieved)

		return &Answer{Answer: NoInformationAnswer, Sources: []Source{}, Debug: debug}, nil
	}

	docs := make([]textproc.Document, len(result.Selected))
	for i, c := range result.Selected {
		docs[i] = textproc.Document{Title: c.Chunk.Metadata.Title, Text: c.Chunk.Text}
	}

	contextText := textproc.OptimizeContext(docs, question, s.config.Retrieval.MaxContextTokens)
	if strings.TrimSpace(contextText) == "" {
		logger.Info("optimized context is empty", "docs_after_filter", result.DocsAfterFilter)

		return &Answer{Answer: InsufficientContextAnswer, Sources: []Source{}, Debug: debug}, nil
	}

	text, err := s.llm.GenerateText(ctx, systemPrompt, buildUserPrompt(contextText, formatHistory(history), question))
	if err != nil {
		return nil, fmt.Errorf("answer generation failed: %w", err)
	}

	answer := Answer{
		Answer:  text,
		Sources: collectSources(result.Selected),
		Debug:   debug,
	}

	if s.config.Cache.Enabled {
		s.cache.Set(key, answer, s.config.Cache.TTL)
	}

	return &answer, nil
}

// collectSources deduplicates by URL in document order; the first title
// seen for a URL wins, with the hostname as fallback for untitled pages.
func collectSources(selected []vectorstore.Candidate) []Source {
	seen := make(map[string]bool)
	sources := []Source{}

	for _, c := range selected {
		sourceURL := c.Chunk.Metadata.SourceURL
		if sourceURL == "" || seen[sourceURL] {
			continue
		}

		seen[sourceURL] = true

		title := c.Chunk.Metadata.Title
		if title == "" {
			if parsed, err := url.Parse(sourceURL); err == nil {
				title = parsed.Hostname()
			}
		}

		sources = append(sources, Source{Title: title, URL: sourceURL})

		if len(sources) == maxSources {
			break
		}
	}

	return sources
}
