package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aligarduo/Naive-Dev/internal/models"
	appErrors "github.com/aligarduo/Naive-Dev/pkg/errors"
)

func TestTokenRoundtrip(t *testing.T) {
	svc := NewTokenService("roundtrip-secret")

	signed, err := svc.Issue(models.AccessToken, "Android", "alice", "123456", time.Now().Add(time.Hour))
	require.NoError(t, err)

	claims, err := svc.Validate(signed)
	require.NoError(t, err)
	assert.Equal(t, string(models.AccessToken), claims.Type)
	assert.Equal(t, "Android", claims.Client)
	assert.Equal(t, "alice", claims.Account)
	assert.Equal(t, "123456", claims.CSRF)
	assert.True(t, claims.Complete())
}

func TestValidateRejectsWrongKey(t *testing.T) {
	issuer := NewTokenService("key-one")
	verifier := NewTokenService("key-two")

	signed, err := issuer.Issue(models.AccessToken, "Android", "alice", "123456", time.Now().Add(time.Hour))
	require.NoError(t, err)

	_, err = verifier.Validate(signed)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	svc := NewTokenService("expiry-secret")

	signed, err := svc.Issue(models.AccessToken, "Android", "alice", "123456", time.Now().Add(-time.Minute))
	require.NoError(t, err)

	_, err = svc.Validate(signed)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestValidateRejectsWrongAlgorithm(t *testing.T) {
	svc := NewTokenService("alg-secret")

	// alg=none tokens must never verify regardless of the claims inside.
	token := jwt.NewWithClaims(jwt.SigningMethodNone, &models.TokenClaims{
		Type:    string(models.AccessToken),
		Client:  "Android",
		Account: "alice",
		CSRF:    "123456",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.Validate(signed)
	require.Error(t, err)
}

func TestValidateRejectsGarbage(t *testing.T) {
	svc := NewTokenService("garbage-secret")

	for _, input := range []string{"", "abc", "a.b.c"} {
		_, err := svc.Validate(input)
		assert.Error(t, err, "input %q", input)
	}
}

func TestClaimsComplete(t *testing.T) {
	complete := &models.TokenClaims{Type: "access_token", Client: "Android", Account: "alice", CSRF: "123456"}
	assert.True(t, complete.Complete())

	for _, blank := range []*models.TokenClaims{
		nil,
		{Client: "Android", Account: "alice", CSRF: "123456"},
		{Type: "access_token", Account: "alice", CSRF: "123456"},
		{Type: "access_token", Client: "Android", CSRF: "123456"},
		{Type: "access_token", Client: "Android", Account: "alice"},
	} {
		assert.False(t, blank.Complete())
	}
}
