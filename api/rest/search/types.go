package search

import "codeberg.org/knowledgehub/server/internal/rag"

// Request represents the request body for semantic search
type Request struct {
	Query  string            `json:"query" binding:"required"`
	K      int               `json:"k"`
	Filter map[string]string `json:"filter"`
}

// Response represents ranked raw matches
type Response struct {
	Success bool               `json:"success"`
	Results []rag.SearchResult `json:"results"`
	Count   int                `json:"count"`
}
