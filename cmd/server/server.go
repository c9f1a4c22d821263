package main

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"

	"codeberg.org/knowledgehub/server/internal/config"
	"codeberg.org/knowledgehub/server/internal/llm"
	"codeberg.org/knowledgehub/server/internal/logger"
	"codeberg.org/knowledgehub/server/internal/rag"
	"codeberg.org/knowledgehub/server/internal/vectorstore"
)

// creates and configures a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	ctx := context.Background()

	store, err := newStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	llmClient, err := llm.NewLLM(ctx)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	ragService := rag.New(llmClient, store, cfg)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	server := &Server{
		config: cfg,
		store:  store,
		llm:    llmClient,
		rag:    ragService,
		router: router,
	}

	if err := RegisterRoutes(router, server); err != nil {
		store.Close()
		return nil, err
	}

	return server, nil
}

// selects the vector index backend from configuration
func newStore(ctx context.Context, cfg *config.Config) (vectorstore.Store, error) {
	switch cfg.VectorBackend {
	case config.BackendPgvector:
		store, err := vectorstore.NewPgStore(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to open pgvector store: %w", err)
		}

		logger.Info("using pgvector backend")

		return store, nil
	case config.BackendChromem:
		store, err := vectorstore.NewChromemStore(cfg.ChromemPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open chromem store: %w", err)
		}

		logger.Info("using chromem backend", "path", cfg.ChromemPath)

		return store, nil
	default:
		return nil, fmt.Errorf("unknown vector backend: %s", cfg.VectorBackend)
	}
}
