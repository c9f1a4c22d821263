package sources

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"codeberg.org/knowledgehub/server/internal/errors"
	"codeberg.org/knowledgehub/server/internal/rag"
	"codeberg.org/knowledgehub/server/internal/vectorstore"
)

// creates the handler listing all indexed sources
func ListHandler(svc *rag.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := svc.ListSources(c.Request.Context())
		if err != nil {
			errors.UpstreamError(c, "failed to list sources", err)
			return
		}

		if list == nil {
			list = []vectorstore.SourceInfo{}
		}

		c.JSON(http.StatusOK, ListResponse{
			Success: true,
			Sources: list,
			Count:   len(list),
		})
	}
}

// creates the handler removing every chunk of one source URL
func DeleteHandler(svc *rag.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req DeleteRequest

		if err := c.ShouldBindJSON(&req); err != nil {
			errors.ValidationError(c, err)
			return
		}

		deleted, err := svc.DeleteSource(c.Request.Context(), req.URL)
		if err != nil {
			errors.UpstreamError(c, "failed to delete source", err)
			return
		}

		c.JSON(http.StatusOK, DeleteResponse{
			Success:       true,
			Message:       "source deleted",
			URL:           req.URL,
			ChunksRemoved: deleted,
		})
	}
}
