package ingest

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"codeberg.org/knowledgehub/server/internal/errors"
	"codeberg.org/knowledgehub/server/internal/rag"
)

// creates the handler crawling and indexing one URL
func Handler(svc *rag.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req Request

		if err := c.ShouldBindJSON(&req); err != nil {
			errors.ValidationError(c, err)
			return
		}

		result, err := svc.Ingest(c.Request.Context(), req.URL, req.SourceName)
		if err != nil {
			if stderrors.Is(err, rag.ErrNoExtractableContent) {
				errors.ExtractionError(c, req.URL, err)
				return
			}

			errors.UpstreamError(c, "ingestion failed", err)

			return
		}

		c.JSON(http.StatusOK, Response{
			Success:         true,
			Message:         "ingestion complete",
			URL:             result.URL,
			Title:           result.Title,
			ChunksProcessed: result.ChunksProcessed,
		})
	}
}
