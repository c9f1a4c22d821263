package sources

import "codeberg.org/knowledgehub/server/internal/vectorstore"

// ListResponse represents the indexed sources, aggregated by URL
type ListResponse struct {
	Success bool                     `json:"success"`
	Sources []vectorstore.SourceInfo `json:"sources"`
	Count   int                      `json:"count"`
}

// DeleteRequest represents the request body for deleting a source
type DeleteRequest struct {
	URL string `json:"url" binding:"required,url"`
}

// DeleteResponse reports how many chunks the deletion removed
type DeleteResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	URL           string `json:"url"`
	ChunksRemoved int    `json:"chunks_removed"`
}
