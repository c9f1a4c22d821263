package retriever

import (
	"context"
	"fmt"

	"codeberg.org/knowledgehub/server/internal/config"
	"codeberg.org/knowledgehub/server/internal/llm"
	"codeberg.org/knowledgehub/server/internal/logger"
	"codeberg.org/knowledgehub/server/internal/vectorstore"
)

type Retriever struct {
	embedder llm.Embedder
	store    vectorstore.Store
	config   config.RetrievalConfig
}

func New(embedder llm.Embedder, store vectorstore.Store, cfg config.RetrievalConfig) *Retriever {
	return &Retriever{
		embedder: embedder,
		store:    store,
		config:   cfg,
	}
}

// Retrieve fetches candidates for query, in plain or diversity-aware
// mode, and filters them by similarity score. Scores are cosine
// similarity where higher means more similar; an empty Selected set is
// a valid outcome, not an error.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int, filter vectorstore.Filter) (*Result, error) {
	if k <= 0 {
		k = r.config.TopK
	}

	embedding, err := r.embedder.GenerateEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	var candidates []vectorstore.Candidate

	if r.config.UseMMR {
		candidates, err = r.retrieveDiverse(ctx, embedding, k, filter)
	} else {
		candidates, err = r.store.Query(ctx, embedding, k, filter)
	}

	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}

	selected := filterByScore(candidates, r.config.SimilarityThreshold, r.config.FallbackThreshold)

	result := &Result{
		Candidates:      candidates,
		Selected:        selected,
		AvgScore:        averageScore(selected),
		DocsRetrieved:   len(candidates),
		DocsAfterFilter: len(selected),
	}

	logger.Debug("retrieval complete",
		"docs_retrieved", result.DocsRetrieved,
		"docs_after_filter", result.DocsAfterFilter,
		"avg_score", result.AvgScore,
		"mmr", r.config.UseMMR,
	)

	return result, nil
}

// retrieveDiverse selects k diverse candidates from a larger pool, then
// attaches scores from a separate plain query by exact text match. Items
// the scored query misses fall back to a neutral 0.5.
func (r *Retriever) retrieveDiverse(ctx context.Context, embedding []float32, k int, filter vectorstore.Filter) ([]vectorstore.Candidate, error) {
	fetchK := k * r.config.MMRFetchKMultiplier
	if fetchK < k {
		fetchK = k
	}

	pool, err := r.store.Query(ctx, embedding, fetchK, filter)
	if err != nil {
		return nil, err
	}

	diverse := maximalMarginalRelevance(embedding, pool, k, r.config.MMRLambda)

	scored, err := r.store.Query(ctx, embedding, 2*k, filter)
	if err != nil {
		return nil, err
	}

	scoreByText := make(map[string]float64, len(scored))
	for _, c := range scored {
		scoreByText[c.Chunk.Text] = c.Score
	}

	for i := range diverse {
		if score, ok := scoreByText[diverse[i].Chunk.Text]; ok {
			diverse[i].Score = score
		} else {
			diverse[i].Score = defaultMMRScore
		}
	}

	return diverse, nil
}

// filterByScore keeps candidates at or above the primary threshold.
// When none pass, it retries the original set against the looser
// fallback threshold before giving up.
func filterByScore(candidates []vectorstore.Candidate, primary, fallback float64) []vectorstore.Candidate {
	selected := keepAbove(candidates, primary)
	if len(selected) > 0 {
		return selected
	}

	return keepAbove(candidates, fallback)
}

func keepAbove(candidates []vectorstore.Candidate, threshold float64) []vectorstore.Candidate {
	var kept []vectorstore.Candidate

	for _, c := range candidates {
		if c.Score >= threshold {
			kept = append(kept, c)
		}
	}

	return kept
}

func averageScore(candidates []vectorstore.Candidate) float64 {
	if len(candidates) == 0 {
		return 0
	}

	var sum float64
	for _, c := range candidates {
		sum += c.Score
	}

	return sum / float64(len(candidates))
}
