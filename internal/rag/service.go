package rag

import (
	"sort"
	"strconv"
	"strings"

	"codeberg.org/knowledgehub/server/internal/cache"
	"codeberg.org/knowledgehub/server/internal/config"
	"codeberg.org/knowledgehub/server/internal/crawler"
	"codeberg.org/knowledgehub/server/internal/llm"
	"codeberg.org/knowledgehub/server/internal/retriever"
	"codeberg.org/knowledgehub/server/internal/vectorstore"
)

type Service struct {
	llm       llm.LLM
	store     vectorstore.Store
	retriever *retriever.Retriever
	crawler   *crawler.Crawler
	cache     *cache.Cache[Answer]
	config    *config.Config
}

func New(llmClient llm.LLM, store vectorstore.Store, cfg *config.Config) *Service {
	return &Service{
		llm:       llmClient,
		store:     store,
		retriever: retriever.New(llmClient, store, cfg.Retrieval),
		crawler:   crawler.New(),
		cache:     cache.New[Answer](cfg.Cache.MaxEntries),
		config:    cfg,
	}
}

// CacheStats reports current and maximum response cache size.
func (s *Service) CacheStats() (size, maxSize int) {
	return s.cache.Stats()
}

// cacheKey canonicalizes the question, k, and filter into a stable key.
// Filter entries are sorted so logically equal filters hash identically.
func cacheKey(question string, k int, filter vectorstore.Filter) string {
	parts := make([]string, 0, len(filter))
	for key, value := range filter {
		parts = append(parts, key+"="+value)
	}

	sort.Strings(parts)

	key := question + "|k=" + strconv.Itoa(k)
	if len(parts) > 0 {
		key += "|" + strings.Join(parts, "|")
	}

	return key
}
