package ingest

import (
	"github.com/gin-gonic/gin"

	"codeberg.org/knowledgehub/server/internal/auth"
	"codeberg.org/knowledgehub/server/internal/rag"
)

// registers the admin-only ingestion route
func RegisterRoutes(router *gin.RouterGroup, svc *rag.Service) {
	admin := router.Group("/admin")
	admin.Use(auth.AuthMiddleware(), auth.AdminOnly())

	admin.POST("/ingest", Handler(svc))
}
