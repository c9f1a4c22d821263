package health

import (
	"github.com/gin-gonic/gin"

	"codeberg.org/knowledgehub/server/internal/rag"
)

// registers the health check route
func RegisterRoutes(router *gin.Engine, svc *rag.Service) {
	router.GET("/health", Handler(svc))
}
