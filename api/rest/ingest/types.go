package ingest

// Request represents the request body for ingesting a URL
type Request struct {
	URL        string `json:"url" binding:"required,url"`
	SourceName string `json:"source_name"`
}

// Response reports one completed ingestion
type Response struct {
	Success         bool   `json:"success"`
	Message         string `json:"message"`
	URL             string `json:"url"`
	Title           string `json:"title"`
	ChunksProcessed int    `json:"chunks_processed"`
}
