package search

import (
	"github.com/gin-gonic/gin"

	"codeberg.org/knowledgehub/server/internal/rag"
)

// registers the search route
func RegisterRoutes(router *gin.RouterGroup, svc *rag.Service, rateLimit gin.HandlerFunc) {
	router.POST("/search", rateLimit, Handler(svc))
}
