package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"codeberg.org/knowledgehub/server/internal/config"
	"codeberg.org/knowledgehub/server/internal/logger"
	"codeberg.org/knowledgehub/server/internal/rag"
)

// IngestURL crawls and indexes a single page.
func IngestURL(ctx context.Context, svc *rag.Service, url, sourceName string) error {
	result, err := svc.Ingest(ctx, url, sourceName)
	if err != nil {
		return err
	}

	logger.Info("ingestion complete",
		"url", result.URL,
		"title", result.Title,
		"chunks", result.ChunksProcessed,
	)

	return nil
}

// IngestFile reads a newline-separated URL list and ingests each entry.
// Blank lines and lines starting with # are skipped; a failing URL is
// logged and does not stop the rest of the list.
func IngestFile(ctx context.Context, svc *rag.Service, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open url list: %w", err)
	}

	defer file.Close() //nolint:errcheck

	var ingested, failed int

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		url := strings.TrimSpace(scanner.Text())
		if url == "" || strings.HasPrefix(url, "#") {
			continue
		}

		if err := IngestURL(ctx, svc, url, ""); err != nil {
			logger.ErrorErr(err, "failed to ingest url", "url", url)

			failed++

			continue
		}

		ingested++
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read url list: %w", err)
	}

	logger.Info("url list processed", "ingested", ingested, "failed", failed)

	if ingested == 0 && failed > 0 {
		return fmt.Errorf("all %d urls failed", failed)
	}

	return nil
}

// Clear deletes one source by URL, or everything with -all.
func Clear(ctx context.Context, svc *rag.Service, flags config.Flags) error {
	if flags.All {
		return svc.ClearAll(ctx)
	}

	if flags.URL == "" {
		return fmt.Errorf("either -url or -all is required")
	}

	deleted, err := svc.DeleteSource(ctx, flags.URL)
	if err != nil {
		return err
	}

	logger.Info("source deleted", "url", flags.URL, "chunks_removed", deleted)

	return nil
}
