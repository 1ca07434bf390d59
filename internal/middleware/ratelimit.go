package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/aligarduo/Naive-Dev/internal/service"
	appErrors "github.com/aligarduo/Naive-Dev/pkg/errors"
	"github.com/aligarduo/Naive-Dev/pkg/ratelimit"
	"github.com/aligarduo/Naive-Dev/pkg/response"
)

// RateLimit is the admission gate evaluated once per request before
// authentication and dispatch. The check never blocks a request goroutine; on
// rejection the request receives the fixed envelope and is not otherwise
// processed.
func RateLimit(limiter ratelimit.Limiter, metrics *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.TryAcquire() {
			if metrics != nil {
				metrics.ObserveRateLimited()
			}
			response.Abort(c, appErrors.ErrTooManyRequests)
			return
		}
		c.Next()
	}
}
