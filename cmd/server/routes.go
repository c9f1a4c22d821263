package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"codeberg.org/knowledgehub/server/api/rest/chat"
	"codeberg.org/knowledgehub/server/api/rest/health"
	"codeberg.org/knowledgehub/server/api/rest/ingest"
	"codeberg.org/knowledgehub/server/api/rest/search"
	"codeberg.org/knowledgehub/server/api/rest/sources"
	"codeberg.org/knowledgehub/server/internal/ratelimit"
)

// public endpoints share one per-IP budget
const defaultRateLimit = "30-M"

// sets up all API routes and middleware
func RegisterRoutes(router *gin.Engine, server *Server) error {
	router.Use(CORSMiddleware())

	health.RegisterRoutes(router, server.rag)

	format := os.Getenv("RATE_LIMIT")
	if format == "" {
		format = defaultRateLimit
	}

	rateLimit, err := ratelimit.Middleware(format)
	if err != nil {
		return fmt.Errorf("failed to build rate limiter: %w", err)
	}

	v1 := router.Group("/api/v1")

	{
		v1.GET("/ping", health.PingHandler)

		chat.RegisterRoutes(v1, server.rag, rateLimit)
		search.RegisterRoutes(v1, server.rag, rateLimit)
		sources.RegisterRoutes(v1, server.rag)
		ingest.RegisterRoutes(v1, server.rag)
	}

	return nil
}

// allows browser clients from the configured origins; Authorization must
// be listed explicitly for the admin endpoints
func CORSMiddleware() gin.HandlerFunc {
	cfg := cors.DefaultConfig()

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		cfg.AllowOrigins = strings.Split(origins, ",")
	} else {
		cfg.AllowAllOrigins = true
	}

	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization")
	cfg.MaxAge = 12 * time.Hour

	return cors.New(cfg)
}
