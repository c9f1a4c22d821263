package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// loads configuration from environment variables
func LoadEnvironmentVariables() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		_ = err // not an error - production environments may not have .env file
	}

	openaiKey := os.Getenv("OPENAI_API_KEY")
	anthropicKey := os.Getenv("ANTHROPIC_API_KEY")
	jwtSecret := os.Getenv("JWT_SECRET")
	environment := os.Getenv("ENVIRONMENT")

	if openaiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable is required")
	}

	if anthropicKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable is required")
	}

	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	if environment == "" {
		environment = "development"
	}

	backend := os.Getenv("VECTOR_BACKEND")
	if backend == "" {
		backend = BackendChromem // zero-dependency default for local use
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if backend == BackendPgvector && databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required for the pgvector backend")
	}

	return &Config{
		OpenAIKey:     openaiKey,
		AnthropicKey:  anthropicKey,
		JWTSecret:     jwtSecret,
		Environment:   environment,
		VectorBackend: backend,
		DatabaseURL:   databaseURL,
		ChromemPath:   os.Getenv("CHROMEM_PATH"),
		Retrieval:     loadRetrievalConfig(),
		Chunking:      loadChunkingConfig(),
		Cache:         loadCacheConfig(),
	}, nil
}

func loadRetrievalConfig() RetrievalConfig {
	return RetrievalConfig{
		TopK:                envInt("RETRIEVAL_TOP_K", 5),
		SimilarityThreshold: envFloat64("SIMILARITY_THRESHOLD", 0.7),
		FallbackThreshold:   envFloat64("FALLBACK_THRESHOLD", 0.5),
		UseMMR:              envBool("USE_MMR", false),
		MMRFetchKMultiplier: envInt("MMR_FETCH_K_MULTIPLIER", 4),
		MMRLambda:           envFloat64("MMR_LAMBDA", 0.5),
		MaxContextTokens:    envInt("MAX_CONTEXT_TOKENS", 2000),
	}
}

func loadChunkingConfig() ChunkingConfig {
	return ChunkingConfig{
		MaxTokens:      envInt("CHUNK_SIZE", 600),
		OverlapPercent: envFloat64("CHUNK_OVERLAP", 0.2),
	}
}

func loadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled:    envBool("CACHE_ENABLED", true),
		TTL:        time.Duration(envInt("CACHE_TTL_MS", 300000)) * time.Millisecond,
		MaxEntries: envInt("CACHE_MAX_ENTRIES", 50),
	}
}

func envInt(key string, fallback int) int {
	if s := os.Getenv(key); s != "" {
		if v, err := strconv.Atoi(s); err == nil {
			return v
		}
	}

	return fallback
}

func envFloat64(key string, fallback float64) float64 {
	if s := os.Getenv(key); s != "" {
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			return v
		}
	}

	return fallback
}

func envBool(key string, fallback bool) bool {
	if s := os.Getenv(key); s != "" {
		if v, err := strconv.ParseBool(s); err == nil {
			return v
		}
	}

	return fallback
}
