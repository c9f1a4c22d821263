package config

import "time"

// vector index backends
const (
	BackendPgvector = "pgvector"
	BackendChromem  = "chromem"
)

type Config struct {
	OpenAIKey    string
	AnthropicKey string
	JWTSecret    string
	Environment  string

	// vector index selection
	VectorBackend string // "pgvector" or "chromem"
	DatabaseURL   string // required for pgvector
	ChromemPath   string // empty means in-memory

	Retrieval RetrievalConfig
	Chunking  ChunkingConfig
	Cache     CacheConfig
}

// RetrievalConfig controls candidate selection and filtering. Thresholds
// compare against cosine similarity, higher is better.
type RetrievalConfig struct {
	TopK                int
	SimilarityThreshold float64
	FallbackThreshold   float64
	UseMMR              bool
	MMRFetchKMultiplier int
	MMRLambda           float64
	MaxContextTokens    int
}

type ChunkingConfig struct {
	MaxTokens      int
	OverlapPercent float64
}

type CacheConfig struct {
	Enabled    bool
	TTL        time.Duration
	MaxEntries int
}

type Flags struct {
	URL    string
	Path   string
	Source string
	All    bool
}
