package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/aligarduo/Naive-Dev/internal/models"
)

// Audit records a structured security audit line after each request to an
// authentication endpoint. The line carries the acting account when the gate
// has published one, so sign-in attempts and session operations are traceable
// per account, client brand, and source address.
func Audit(logger *zap.Logger, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("action", action),
			zap.String("client", ClientBrand(c)),
			zap.String("ip", c.ClientIP()),
			zap.String("user_agent", c.GetHeader("User-Agent")),
			zap.Int64("latency_ms", time.Since(start).Milliseconds()),
		}
		if v, ok := c.Get(ContextIdentityKey); ok {
			if identity, ok := v.(*models.Identity); ok {
				fields = append(fields, zap.String("account", identity.Account))
			}
		}

		logger.Info("audit", fields...)
	}
}
