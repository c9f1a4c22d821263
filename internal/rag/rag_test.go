package rag

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/knowledgehub/server/internal/chunker"
	"codeberg.org/knowledgehub/server/internal/config"
	"codeberg.org/knowledgehub/server/internal/vectorstore"
)

type stubLLM struct {
	embedding     []float32
	answer        string
	embedCalls    int
	generateCalls int
}

func (s *stubLLM) GenerateEmbedding(_ context.Context, _ string) ([]float32, error) {
	s.embedCalls++
	return s.embedding, nil
}

func (s *stubLLM) GenerateEmbeddings(_ context.Context, texts []string) ([][]float32, error) {
	s.embedCalls++

	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = s.embedding
	}

	return out, nil
}

func (s *stubLLM) GenerateText(_ context.Context, _, _ string) (string, error) {
	s.generateCalls++
	return s.answer, nil
}

func (s *stubLLM) Model() string { return "stub-model" }

func testConfig() *config.Config {
	return &config.Config{
		Retrieval: config.RetrievalConfig{
			TopK:                5,
			SimilarityThreshold: 0.7,
			FallbackThreshold:   0.5,
			MMRFetchKMultiplier: 4,
			MMRLambda:           0.5,
			MaxContextTokens:    2000,
		},
		Chunking: config.ChunkingConfig{MaxTokens: 600, OverlapPercent: 0.2},
		Cache:    config.CacheConfig{Enabled: true, TTL: time.Minute, MaxEntries: 10},
	}
}

const relevantText = "The onboarding guide explains how new accounts are provisioned. " +
	"Provisioning happens within one business day of signup. " +
	"Account owners can invite teammates from the settings page."

func seedChunk(t *testing.T, store vectorstore.Store, url, title string, index int, embedding []float32) {
	t.Helper()

	chunk := chunker.Chunk{
		Text: relevantText,
		Metadata: chunker.Metadata{
			SourceURL:  url,
			Title:      title,
			ChunkIndex: index,
			ChunkTotal: index + 1,
			Position:   chunker.PositionBeginning,
			UpdatedAt:  time.Now().UTC().Format(time.RFC3339),
		},
	}

	require.NoError(t, store.Upsert(context.Background(), []chunker.Chunk{chunk}, [][]float32{embedding}))
}

func newTestService(t *testing.T, llmStub *stubLLM, cfg *config.Config) (*Service, vectorstore.Store) {
	t.Helper()

	store, err := vectorstore.NewChromemStore("")
	require.NoError(t, err)

	return New(llmStub, store, cfg), store
}

func TestAnswerEndToEnd(t *testing.T) {
	llmStub := &stubLLM{embedding: []float32{1, 0, 0}, answer: "Accounts are provisioned within one business day."}
	svc, store := newTestService(t, llmStub, testConfig())

	seedChunk(t, store, "https://docs.example/onboarding", "Onboarding Guide", 0, []float32{1, 0, 0})

	answer, err := svc.Answer(context.Background(), "How long does provisioning take?", nil, 3, nil)
	require.NoError(t, err)

	assert.Equal(t, llmStub.answer, answer.Answer)
	assert.False(t, answer.Cached)
	assert.Equal(t, 1, llmStub.generateCalls)
	require.Len(t, answer.Sources, 1)
	assert.Equal(t, "Onboarding Guide", answer.Sources[0].Title)
	assert.Equal(t, "https://docs.example/onboarding", answer.Sources[0].URL)
	assert.Equal(t, 1, answer.Debug.DocsRetrieved)
	assert.Equal(t, 1, answer.Debug.DocsAfterFiltering)
	assert.Greater(t, answer.Debug.AvgScore, 0.9)

	// identical question is served from cache without another generation
	again, err := svc.Answer(context.Background(), "How long does provisioning take?", nil, 3, nil)
	require.NoError(t, err)
	assert.True(t, again.Cached)
	assert.Equal(t, answer.Answer, again.Answer)
	assert.Equal(t, 1, llmStub.generateCalls)
}

func TestAnswerNoMatchSkipsLLM(t *testing.T) {
	llmStub := &stubLLM{embedding: []float32{1, 0, 0}, answer: "should never be used"}
	svc, store := newTestService(t, llmStub, testConfig())

	// indexed content is orthogonal to the query, scoring below both thresholds
	seedChunk(t, store, "https://docs.example/unrelated", "Unrelated", 0, []float32{0, 1, 0})

	answer, err := svc.Answer(context.Background(), "How long does provisioning take?", nil, 3, nil)
	require.NoError(t, err)

	assert.Equal(t, NoInformationAnswer, answer.Answer)
	assert.Empty(t, answer.Sources)
	assert.Zero(t, llmStub.generateCalls)
	assert.Equal(t, 1, answer.Debug.DocsRetrieved)
	assert.Zero(t, answer.Debug.DocsAfterFiltering)
	assert.Zero(t, answer.Debug.AvgScore)
}

func TestAnswerEmptyIndexSkipsLLM(t *testing.T) {
	llmStub := &stubLLM{embedding: []float32{1, 0, 0}, answer: "should never be used"}
	svc, _ := newTestService(t, llmStub, testConfig())

	answer, err := svc.Answer(context.Background(), "Anything at all?", nil, 3, nil)
	require.NoError(t, err)

	assert.Equal(t, NoInformationAnswer, answer.Answer)
	assert.Empty(t, answer.Sources)
	assert.Zero(t, llmStub.generateCalls)
}

func TestAnswerInsufficientContextSkipsLLM(t *testing.T) {
	cfg := testConfig()
	cfg.Retrieval.MaxContextTokens = 1 // nothing fits, so the optimized context is empty

	llmStub := &stubLLM{embedding: []float32{1, 0, 0}, answer: "should never be used"}
	svc, store := newTestService(t, llmStub, cfg)

	seedChunk(t, store, "https://docs.example/onboarding", "Onboarding Guide", 0, []float32{1, 0, 0})

	answer, err := svc.Answer(context.Background(), "How long does provisioning take?", nil, 3, nil)
	require.NoError(t, err)

	assert.Equal(t, InsufficientContextAnswer, answer.Answer)
	assert.Empty(t, answer.Sources)
	assert.Zero(t, llmStub.generateCalls)
}

func TestSourceDeduplication(t *testing.T) {
	selected := []vectorstore.Candidate{
		{Chunk: chunker.Chunk{Metadata: chunker.Metadata{SourceURL: "https://a.test/x", Title: "First Title"}}},
		{Chunk: chunker.Chunk{Metadata: chunker.Metadata{SourceURL: "https://a.test/x", Title: "Second Title"}}},
		{Chunk: chunker.Chunk{Metadata: chunker.Metadata{SourceURL: "https://b.test/y", Title: "Other"}}},
	}

	sources := collectSources(selected)

	require.Len(t, sources, 2)
	assert.Equal(t, "First Title", sources[0].Title)
	assert.Equal(t, "https://a.test/x", sources[0].URL)
	assert.Equal(t, "Other", sources[1].Title)
}

func TestSourcesCappedAtThree(t *testing.T) {
	var selected []vectorstore.Candidate
	for i := range 5 {
		selected = append(selected, vectorstore.Candidate{
			Chunk: chunker.Chunk{Metadata: chunker.Metadata{
				SourceURL: fmt.Sprintf("https://site.test/page-%d", i),
				Title:     fmt.Sprintf("Page %d", i),
			}},
		})
	}

	sources := collectSources(selected)
	assert.Len(t, sources, 3)
}

func TestUntitledSourceUsesHostname(t *testing.T) {
	selected := []vectorstore.Candidate{
		{Chunk: chunker.Chunk{Metadata: chunker.Metadata{SourceURL: "https://docs.example/page"}}},
	}

	sources := collectSources(selected)

	require.Len(t, sources, 1)
	assert.Equal(t, "docs.example", sources[0].Title)
}

func TestCacheKeyCanonicalization(t *testing.T) {
	a := cacheKey("question", 5, vectorstore.Filter{"source_url": "https://a.test", "position": "beginning"})
	b := cacheKey("question", 5, vectorstore.Filter{"position": "beginning", "source_url": "https://a.test"})

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, cacheKey("question", 4, nil))
	assert.NotEqual(t, a, cacheKey("other question", 5, nil))
}

func TestAnswerCacheDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.Cache.Enabled = false

	llmStub := &stubLLM{embedding: []float32{1, 0, 0}, answer: "fresh every time"}
	svc, store := newTestService(t, llmStub, cfg)

	seedChunk(t, store, "https://docs.example/onboarding", "Onboarding Guide", 0, []float32{1, 0, 0})

	for range 2 {
		answer, err := svc.Answer(context.Background(), "How long does provisioning take?", nil, 3, nil)
		require.NoError(t, err)
		assert.False(t, answer.Cached)
	}

	assert.Equal(t, 2, llmStub.generateCalls)
}

func TestDeleteSourceInvalidatesCache(t *testing.T) {
	llmStub := &stubLLM{embedding: []float32{1, 0, 0}, answer: "answer"}
	svc, store := newTestService(t, llmStub, testConfig())

	seedChunk(t, store, "https://docs.example/onboarding", "Onboarding Guide", 0, []float32{1, 0, 0})

	_, err := svc.Answer(context.Background(), "How long does provisioning take?", nil, 3, nil)
	require.NoError(t, err)

	deleted, err := svc.DeleteSource(context.Background(), "https://docs.example/onboarding")
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)

	answer, err := svc.Answer(context.Background(), "How long does provisioning take?", nil, 3, nil)
	require.NoError(t, err)
	assert.False(t, answer.Cached)
	assert.Equal(t, NoInformationAnswer, answer.Answer)
}

func TestSearchReturnsRawRankedResults(t *testing.T) {
	llmStub := &stubLLM{embedding: []float32{1, 0, 0}}
	svc, store := newTestService(t, llmStub, testConfig())

	seedChunk(t, store, "https://docs.example/a", "A", 0, []float32{1, 0, 0})
	seedChunk(t, store, "https://docs.example/b", "B", 0, []float32{0, 1, 0})

	results, err := svc.Search(context.Background(), "provisioning", 2, nil)
	require.NoError(t, err)
	require.Len(t, results, 2)

	// no threshold filtering: even the zero-similarity match is returned
	assert.Equal(t, "A", results[0].Metadata.Title)
	assert.GreaterOrEqual(t, results[0].Score, results[1].Score)
	assert.Zero(t, llmStub.generateCalls)
}

func TestIngestFromLiveServer(t *testing.T) {
	html := `<html><head><title>Release Notes</title></head><body><article>` + relevantText + `</article></body></html>`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(html))
	}))
	defer srv.Close()

	llmStub := &stubLLM{embedding: []float32{1, 0, 0}}
	svc, store := newTestService(t, llmStub, testConfig())

	result, err := svc.Ingest(context.Background(), srv.URL, "release-notes")
	require.NoError(t, err)

	assert.Equal(t, srv.URL, result.URL)
	assert.Equal(t, "Release Notes", result.Title)
	assert.Positive(t, result.ChunksProcessed)

	count, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, result.ChunksProcessed, count)

	// re-ingesting the same URL replaces rather than duplicates
	again, err := svc.Ingest(context.Background(), srv.URL, "release-notes")
	require.NoError(t, err)

	count, err = store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, again.ChunksProcessed, count)
}

func TestIngestThinPageFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body><p>nothing here</p></body></html>`))
	}))
	defer srv.Close()

	llmStub := &stubLLM{embedding: []float32{1, 0, 0}}
	svc, _ := newTestService(t, llmStub, testConfig())

	_, err := svc.Ingest(context.Background(), srv.URL, "")
	require.ErrorIs(t, err, ErrNoExtractableContent)
}
