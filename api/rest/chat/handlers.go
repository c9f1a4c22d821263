package chat

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"codeberg.org/knowledgehub/server/internal/errors"
	"codeberg.org/knowledgehub/server/internal/rag"
	"codeberg.org/knowledgehub/server/internal/vectorstore"
)

// creates the handler answering questions against the knowledge base
func Handler(svc *rag.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req Request

		if err := c.ShouldBindJSON(&req); err != nil {
			errors.ValidationError(c, err)
			return
		}

		filter, ok := parseFilter(c, req.Filter)
		if !ok {
			return
		}

		answer, err := svc.Answer(c.Request.Context(), req.Question, req.ChatHistory, req.K, filter)
		if err != nil {
			errors.UpstreamError(c, "failed to answer question", err)
			return
		}

		c.JSON(http.StatusOK, Response{
			Success: true,
			Answer:  answer.Answer,
			Sources: answer.Sources,
			Cached:  answer.Cached,
			Debug:   answer.Debug,
		})
	}
}

// parseFilter validates filter keys up front so typos fail fast as 400s
// instead of surfacing as upstream query errors
func parseFilter(c *gin.Context, raw map[string]string) (vectorstore.Filter, bool) {
	if len(raw) == 0 {
		return nil, true
	}

	for key := range raw {
		if !vectorstore.ValidFilterKey(key) {
			errors.BadRequest(c, "unsupported filter key: "+key, nil)
			return nil, false
		}
	}

	return vectorstore.Filter(raw), true
}
