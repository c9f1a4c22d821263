package health

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"codeberg.org/knowledgehub/server/internal/rag"
)

// returns the server health status plus index and cache gauges
func Handler(svc *rag.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp := Response{
			Status:  "healthy",
			Service: "knowledgehub",
			Version: "1.0.0",
		}

		if count, err := svc.ChunkCount(c.Request.Context()); err == nil {
			resp.ChunksIndexed = count
		}

		size, maxSize := svc.CacheStats()
		resp.CacheSize = size
		resp.CacheMaxSize = maxSize

		c.JSON(http.StatusOK, resp)
	}
}

// simple liveness probe
func PingHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "pong",
	})
}
