package retriever

import (
	"math"

	"codeberg.org/knowledgehub/server/internal/vectorstore"
)

// score used when a diversity-selected item has no exact-text match in
// the scored pool; a neutral midpoint rather than a measured value
const defaultMMRScore = 0.5

// maximalMarginalRelevance greedily picks k candidates trading off query
// relevance against redundancy with already-picked items. lambda=1 is
// pure relevance, lambda=0 pure diversity.
func maximalMarginalRelevance(query []float32, pool []vectorstore.Candidate, k int, lambda float64) []vectorstore.Candidate {
	if len(pool) == 0 || k <= 0 {
		return nil
	}

	if k > len(pool) {
		k = len(pool)
	}

	relevance := make([]float64, len(pool))
	for i, c := range pool {
		relevance[i] = cosineSimilarity(query, c.Embedding)
	}

	picked := make([]int, 0, k)
	used := make([]bool, len(pool))

	for len(picked) < k {
		best := -1
		bestScore := math.Inf(-1)

		for i := range pool {
			if used[i] {
				continue
			}

			redundancy := 0.0
			for _, j := range picked {
				if sim := cosineSimilarity(pool[i].Embedding, pool[j].Embedding); sim > redundancy {
					redundancy = sim
				}
			}

			score := lambda*relevance[i] - (1-lambda)*redundancy
			if score > bestScore {
				bestScore = score
				best = i
			}
		}

		used[best] = true
		picked = append(picked, best)
	}

	selected := make([]vectorstore.Candidate, 0, k)
	for _, i := range picked {
		selected = append(selected, pool[i])
	}

	return selected
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64

	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
