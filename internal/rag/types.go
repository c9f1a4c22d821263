// Package rag orchestrates the answer pipeline: cache lookup, retrieval,
// context optimization, prompt assembly, generation, and source
// attribution. It is the single entry point the HTTP layer talks to.
package rag

import (
	"errors"

	"codeberg.org/knowledgehub/server/internal/chunker"
)

// chat message roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// fixed answers for the two designed empty-knowledge outcomes; these are
// successful responses, not failures, and skip the LLM entirely
const (
	NoInformationAnswer = "I couldn't find any relevant information in the knowledge base to answer your question. Please make sure the relevant content has been added first."

	InsufficientContextAnswer = "The retrieved documents don't contain sufficient information to answer your question. Please add more detailed content to the knowledge base."
)

// ErrNoExtractableContent marks ingestion attempts that produced zero chunks.
var ErrNoExtractableContent = errors.New("no extractable content")

// Message is one turn of chat history.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Source attributes an answer to one indexed page.
type Source struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Debug carries retrieval observability counters through to the client.
type Debug struct {
	DocsRetrieved      int     `json:"docs_retrieved"`
	DocsAfterFiltering int     `json:"docs_after_filtering"`
	AvgScore           float64 `json:"avg_score"`
}

// Answer is the orchestrator's response. Cached is true when the answer
// was served from the response cache without rerunning the pipeline.
type Answer struct {
	Answer  string   `json:"answer"`
	Sources []Source `json:"sources"`
	Cached  bool     `json:"cached"`
	Debug   Debug    `json:"debug"`
}

// IngestResult reports one completed ingestion.
type IngestResult struct {
	URL             string `json:"url"`
	Title           string `json:"title"`
	ChunksProcessed int    `json:"chunks_processed"`
}

// SearchResult is one raw ranked match, no LLM involved.
type SearchResult struct {
	Content  string           `json:"content"`
	Metadata chunker.Metadata `json:"metadata"`
	Score    float64          `json:"score"`
}
