package chat

import (
	"github.com/gin-gonic/gin"

	"codeberg.org/knowledgehub/server/internal/rag"
)

// registers the chat route
func RegisterRoutes(router *gin.RouterGroup, svc *rag.Service, rateLimit gin.HandlerFunc) {
	router.POST("/chat", rateLimit, Handler(svc))
}
