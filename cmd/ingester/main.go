package main

import (
	"context"
	"fmt"
	"os"

	"codeberg.org/knowledgehub/server/internal/config"
	"codeberg.org/knowledgehub/server/internal/llm"
	"codeberg.org/knowledgehub/server/internal/logger"
	"codeberg.org/knowledgehub/server/internal/rag"
	"codeberg.org/knowledgehub/server/internal/vectorstore"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: ingester <command> [options]")
		fmt.Println("Commands:")
		fmt.Println("  url    - crawl and ingest a single URL")
		fmt.Println("  file   - ingest every URL listed in a file")
		fmt.Println("  clear  - delete indexed sources")
		fmt.Println("\nOptions:")
		fmt.Println("  -url <url>       - URL to ingest or delete")
		fmt.Println("  -source <name>   - optional source name override")
		fmt.Println("  -path <path>     - path to a newline-separated URL list")
		fmt.Println("  -all             - with clear: delete every indexed source")
		os.Exit(1)
	}

	command := os.Args[1]

	// load environment variables
	cfg, err := config.LoadEnvironmentVariables()
	if err != nil {
		logger.Fatal("failed to load configuration", "error", err)
	}

	ctx := context.Background()

	store, err := newStore(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to open vector store", "error", err)
	}

	defer store.Close()

	llmClient, err := llm.NewLLM(ctx)
	if err != nil {
		logger.Fatal("failed to create LLM client", "error", err)
	}

	svc := rag.New(llmClient, store, cfg)

	// route to appropriate command
	switch command {
	case "url":
		flags := config.ParseURLFlags()
		if flags.URL == "" {
			logger.Fatal("missing required -url flag")
		}

		if err := IngestURL(ctx, svc, flags.URL, flags.Source); err != nil {
			logger.Fatal("failed to ingest url", "error", err)
		}

	case "file":
		flags := config.ParseFileFlags()
		if err := IngestFile(ctx, svc, flags.Path); err != nil {
			logger.Fatal("failed to ingest url list", "error", err)
		}

	case "clear":
		flags := config.ParseClearFlags()
		if err := Clear(ctx, svc, flags); err != nil {
			logger.Fatal("failed to clear sources", "error", err)
		}

	default:
		fmt.Printf("Unknown command: %s\n", command)
		os.Exit(1)
	}
}

func newStore(ctx context.Context, cfg *config.Config) (vectorstore.Store, error) {
	switch cfg.VectorBackend {
	case config.BackendPgvector:
		return vectorstore.NewPgStore(ctx, cfg.DatabaseURL)
	case config.BackendChromem:
		return vectorstore.NewChromemStore(cfg.ChromemPath)
	default:
		return nil, fmt.Errorf("unknown vector backend: %s", cfg.VectorBackend)
	}
}
