package search

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"codeberg.org/knowledgehub/server/internal/errors"
	"codeberg.org/knowledgehub/server/internal/rag"
	"codeberg.org/knowledgehub/server/internal/vectorstore"
)

// creates the handler for raw semantic search, no LLM involved
func Handler(svc *rag.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req Request

		if err := c.ShouldBindJSON(&req); err != nil {
			errors.ValidationError(c, err)
			return
		}

		for key := range req.Filter {
			if !vectorstore.ValidFilterKey(key) {
				errors.BadRequest(c, "unsupported filter key: "+key, nil)
				return
			}
		}

		results, err := svc.Search(c.Request.Context(), req.Query, req.K, vectorstore.Filter(req.Filter))
		if err != nil {
			errors.UpstreamError(c, "search failed", err)
			return
		}

		if results == nil {
			results = []rag.SearchResult{}
		}

		c.JSON(http.StatusOK, Response{
			Success: true,
			Results: results,
			Count:   len(results),
		})
	}
}
