package sources

import (
	"github.com/gin-gonic/gin"

	"codeberg.org/knowledgehub/server/internal/rag"
)

// registers source listing and deletion routes
func RegisterRoutes(router *gin.RouterGroup, svc *rag.Service) {
	router.GET("/sources", ListHandler(svc))
	router.POST("/sources/delete", DeleteHandler(svc))
}
