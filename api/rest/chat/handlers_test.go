package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/knowledgehub/server/internal/config"
	"codeberg.org/knowledgehub/server/internal/rag"
	"codeberg.org/knowledgehub/server/internal/vectorstore"
)

type stubLLM struct {
	answer string
}

func (s *stubLLM) GenerateEmbedding(context.Context, string) ([]float32, error) {
	return []float32{1, 0, 0}, nil
}

func (s *stubLLM) GenerateEmbeddings(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 0, 0}
	}

	return out, nil
}

func (s *stubLLM) GenerateText(context.Context, string, string) (string, error) {
	return s.answer, nil
}

func (s *stubLLM) Model() string { return "stub-model" }

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)

	store, err := vectorstore.NewChromemStore("")
	require.NoError(t, err)

	cfg := &config.Config{
		Retrieval: config.RetrievalConfig{
			TopK:                5,
			SimilarityThreshold: 0.7,
			FallbackThreshold:   0.5,
			MaxContextTokens:    2000,
		},
		Cache: config.CacheConfig{Enabled: true, TTL: time.Minute, MaxEntries: 10},
	}

	svc := rag.New(&stubLLM{answer: "stub answer"}, store, cfg)

	router := gin.New()
	api := router.Group("/api/v1")
	RegisterRoutes(api, svc, func(c *gin.Context) { c.Next() })

	return router
}

func postChat(t *testing.T, router *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	return w
}

func TestChatMissingQuestion(t *testing.T) {
	w := postChat(t, newRouter(t), `{}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "validation_error")
}

func TestChatUnknownFilterKey(t *testing.T) {
	w := postChat(t, newRouter(t), `{"question":"hi","filter":{"author":"x"}}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "unsupported filter key")
}

func TestChatEmptyIndexReturnsFixedAnswer(t *testing.T) {
	w := postChat(t, newRouter(t), `{"question":"what is the refund policy?"}`)

	require.Equal(t, http.StatusOK, w.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.True(t, resp.Success)
	assert.Equal(t, rag.NoInformationAnswer, resp.Answer)
	assert.Empty(t, resp.Sources)
	assert.False(t, resp.Cached)
}
