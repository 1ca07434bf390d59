package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/aligarduo/Naive-Dev/internal/models"
	"github.com/aligarduo/Naive-Dev/internal/repository"
	"github.com/aligarduo/Naive-Dev/internal/service"
	appErrors "github.com/aligarduo/Naive-Dev/pkg/errors"
	"github.com/aligarduo/Naive-Dev/pkg/response"
	"github.com/aligarduo/Naive-Dev/pkg/useragent"
)

const (
	// ContextIdentityKey is the gin context key storing the authenticated
	// identity.
	ContextIdentityKey = "currentIdentity"
	// ContextClientKey is the gin context key storing the client brand
	// parsed from the User-Agent header.
	ContextClientKey = "clientBrand"
)

// ClientContext classifies the calling device from the User-Agent header and
// stores the brand in the request context. It runs on every request,
// authenticated or not.
func ClientContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextClientKey, useragent.Brand(c.GetHeader("User-Agent")))
		c.Next()
	}
}

// ClientBrand returns the brand stored by ClientContext.
func ClientBrand(c *gin.Context) string {
	if v, exists := c.Get(ContextClientKey); exists {
		if brand, ok := v.(string); ok {
			return brand
		}
	}
	return useragent.BrandUnknown
}

// Authenticated guards routes that require a signed-in caller. The bearer
// token's signature and expiry are checked first, then the session cache
// state: the access entry must exist under the client the token was issued
// to, and the active entry under the brand of the *presenting* request must
// hold the token's anti-replay value. A token carried to a different device
// class therefore fails naturally. Every rejection terminates the request.
func Authenticated(tokens *service.TokenService, cache *repository.CacheRepository, metrics *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := bearerClaims(c, tokens)
		if !ok {
			reject(c, metrics)
			return
		}

		if !claims.Complete() || claims.Type != string(models.AccessToken) {
			reject(c, metrics)
			return
		}

		ctx := c.Request.Context()

		accessKey := repository.TokenKey(models.AccessToken, claims.Client, claims.Account)
		var snapshot models.Identity
		if err := cache.Get(ctx, accessKey, &snapshot); err != nil {
			reject(c, metrics)
			return
		}

		activeKey := repository.ActiveKey(ClientBrand(c), claims.Account)
		activeCSRF, err := cache.GetString(ctx, activeKey)
		if err != nil || activeCSRF != claims.CSRF {
			reject(c, metrics)
			return
		}

		c.Set(ContextIdentityKey, &snapshot)
		c.Next()
	}
}

func bearerClaims(c *gin.Context, tokens *service.TokenService) (*models.TokenClaims, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return nil, false
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, false
	}

	claims, err := tokens.Validate(parts[1])
	if err != nil {
		return nil, false
	}
	return claims, true
}

func reject(c *gin.Context, metrics *service.MetricsService) {
	if metrics != nil {
		metrics.ObserveAuthRejected()
	}
	response.Abort(c, appErrors.ErrUnauthorized)
}
