package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aligarduo/Naive-Dev/internal/models"
	"github.com/aligarduo/Naive-Dev/internal/repository"
	"github.com/aligarduo/Naive-Dev/internal/service"
	"github.com/aligarduo/Naive-Dev/pkg/ratelimit"
	"github.com/aligarduo/Naive-Dev/pkg/response"
)

const androidUA = "Mozilla/5.0 (Linux; Android 13; Pixel 7) AppleWebKit/537.36"

func newGateFixture(t *testing.T) (*gin.Engine, *service.TokenService, *repository.CacheRepository) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cache := repository.NewCacheRepository(client, zap.NewNop())
	tokens := service.NewTokenService("gate-secret")

	r := gin.New()
	r.Use(ClientContext())
	r.GET("/guarded", Authenticated(tokens, cache, nil), func(c *gin.Context) {
		identity, _ := c.Get(ContextIdentityKey)
		response.OK(c, identity)
	})

	return r, tokens, cache
}

// seedSession writes the three cache entries openSession would create for a
// live session on the given brand.
func seedSession(t *testing.T, cache *repository.CacheRepository, brand, account, csrf string) models.Identity {
	t.Helper()
	ctx := context.Background()
	identity := models.Identity{ID: "u-1", Account: account, NickName: "Alice", Email: "alice@example.com", Client: brand}
	require.NoError(t, cache.SetString(ctx, repository.ActiveKey(brand, account), csrf, time.Hour))
	require.NoError(t, cache.Set(ctx, repository.TokenKey(models.AccessToken, brand, account), identity, time.Hour))
	require.NoError(t, cache.Set(ctx, repository.TokenKey(models.RefreshToken, brand, account), identity, time.Hour))
	return identity
}

func doGuarded(r *gin.Engine, token, userAgent string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func envelopeCode(t *testing.T, w *httptest.ResponseRecorder) int {
	t.Helper()
	var env response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env.Code
}

func TestAuthenticatedAdmitsLiveSession(t *testing.T) {
	r, tokens, cache := newGateFixture(t)
	identity := seedSession(t, cache, "Android", "alice", "123456")

	token, err := tokens.Issue(models.AccessToken, "Android", "alice", "123456", time.Now().Add(time.Hour))
	require.NoError(t, err)

	w := doGuarded(r, token, androidUA)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, envelopeCode(t, w))
	assert.Contains(t, w.Body.String(), identity.Account)
}

func TestAuthenticatedRejectsMissingHeader(t *testing.T) {
	r, _, cache := newGateFixture(t)
	seedSession(t, cache, "Android", "alice", "123456")

	w := doGuarded(r, "", androidUA)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1002, envelopeCode(t, w))
}

func TestAuthenticatedRejectsMalformedHeader(t *testing.T) {
	r, tokens, cache := newGateFixture(t)
	seedSession(t, cache, "Android", "alice", "123456")

	token, err := tokens.Issue(models.AccessToken, "Android", "alice", "123456", time.Now().Add(time.Hour))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	req.Header.Set("Authorization", token) // no Bearer prefix
	req.Header.Set("User-Agent", androidUA)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, 1002, envelopeCode(t, w))
}

func TestAuthenticatedRejectsRefreshTokenVariant(t *testing.T) {
	r, tokens, cache := newGateFixture(t)
	seedSession(t, cache, "Android", "alice", "123456")

	token, err := tokens.Issue(models.RefreshToken, "Android", "alice", "123456", time.Now().Add(time.Hour))
	require.NoError(t, err)

	w := doGuarded(r, token, androidUA)
	assert.Equal(t, 1002, envelopeCode(t, w))
}

func TestAuthenticatedRejectsBlankClaim(t *testing.T) {
	r, tokens, cache := newGateFixture(t)
	seedSession(t, cache, "Android", "alice", "123456")

	// A structurally valid signature with an empty csrf claim must not pass.
	token, err := tokens.Issue(models.AccessToken, "Android", "alice", "", time.Now().Add(time.Hour))
	require.NoError(t, err)

	w := doGuarded(r, token, androidUA)
	assert.Equal(t, 1002, envelopeCode(t, w))
}

func TestAuthenticatedRejectsAfterSessionRemoved(t *testing.T) {
	r, tokens, cache := newGateFixture(t)
	seedSession(t, cache, "Android", "alice", "123456")

	token, err := tokens.Issue(models.AccessToken, "Android", "alice", "123456", time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.NoError(t, cache.Remove(context.Background(), repository.TokenKey(models.AccessToken, "Android", "alice")))

	w := doGuarded(r, token, androidUA)
	assert.Equal(t, 1002, envelopeCode(t, w))
}

func TestAuthenticatedRejectsStaleAntiReplayValue(t *testing.T) {
	r, tokens, cache := newGateFixture(t)
	seedSession(t, cache, "Android", "alice", "654321") // rotated since issuance

	token, err := tokens.Issue(models.AccessToken, "Android", "alice", "123456", time.Now().Add(time.Hour))
	require.NoError(t, err)

	w := doGuarded(r, token, androidUA)
	assert.Equal(t, 1002, envelopeCode(t, w))
}

func TestAuthenticatedRejectsCrossDeviceUse(t *testing.T) {
	r, tokens, cache := newGateFixture(t)
	seedSession(t, cache, "Android", "alice", "123456")

	token, err := tokens.Issue(models.AccessToken, "Android", "alice", "123456", time.Now().Add(time.Hour))
	require.NoError(t, err)

	// The active entry is resolved under the presenting request's brand, so
	// the Android session token fails from an iPhone User-Agent.
	w := doGuarded(r, token, "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X)")
	assert.Equal(t, 1002, envelopeCode(t, w))
}

func TestClientContextBrand(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ClientContext())
	r.GET("/brand", func(c *gin.Context) {
		c.String(http.StatusOK, ClientBrand(c))
	})

	for ua, want := range map[string]string{
		androidUA: "Android",
		"curl/8.0.1": "unknown",
		"":           "unknown",
	} {
		req := httptest.NewRequest(http.MethodGet, "/brand", nil)
		if ua != "" {
			req.Header.Set("User-Agent", ua)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, want, w.Body.String(), "ua %q", ua)
	}
}

func TestRateLimitRejectsWhenExhausted(t *testing.T) {
	gin.SetMode(gin.TestMode)
	limiter := ratelimit.NewTokenBucket(2, 1, time.Hour)

	r := gin.New()
	r.Use(RateLimit(limiter, nil))
	r.GET("/ping", func(c *gin.Context) { response.Message(c, "pong") })

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, 0, envelopeCode(t, w), "request %d", i)
	}

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, 1007, envelopeCode(t, w))
}
