// Package retriever runs similarity search over the vector store and
// applies score filtering before context assembly.
package retriever

import (
	"codeberg.org/knowledgehub/server/internal/vectorstore"
)

// Result carries the retrieval outcome plus observability counters.
// Candidates is the raw retrieved set, Selected the subset that passed
// score filtering. AvgScore is computed over Selected (0 when empty).
type Result struct {
	Candidates      []vectorstore.Candidate
	Selected        []vectorstore.Candidate
	AvgScore        float64
	DocsRetrieved   int
	DocsAfterFilter int
}
