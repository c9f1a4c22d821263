package health

// Response represents the health check response
type Response struct {
	Status        string `json:"status"`
	Service       string `json:"service"`
	Version       string `json:"version,omitempty"`
	ChunksIndexed int    `json:"chunks_indexed"`
	CacheSize     int    `json:"cache_size"`
	CacheMaxSize  int    `json:"cache_max_size"`
}
