// Package ratelimit provides per-client-IP rate limiting for the public
// chat and search endpoints.
package ratelimit

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// Middleware builds a gin middleware enforcing the given limit, expressed
// in limiter's period format, e.g. "30-M" for 30 requests per minute.
func Middleware(format string) (gin.HandlerFunc, error) {
	rate, err := limiter.NewRateFromFormatted(format)
	if err != nil {
		return nil, fmt.Errorf("invalid rate limit %q: %w", format, err)
	}

	return mgin.NewMiddleware(limiter.New(memory.NewStore(), rate)), nil
}
