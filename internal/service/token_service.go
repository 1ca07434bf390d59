package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/aligarduo/Naive-Dev/internal/models"
	appErrors "github.com/aligarduo/Naive-Dev/pkg/errors"
)

// TokenService builds and validates the signed bearer tokens. Validation here
// is purely cryptographic and structural; the cache-side session checks are
// the caller's responsibility.
type TokenService struct {
	secret []byte
}

// NewTokenService constructs a token codec over an HS256 signing key.
func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret)}
}

// Issue signs a token of the given variant embedding the client brand, the
// account, and the current anti-replay value.
func (s *TokenService) Issue(tokenType models.TokenType, client, account, csrf string, expiresAt time.Time) (string, error) {
	now := time.Now()
	claims := &models.TokenClaims{
		Type:    string(tokenType),
		Client:  client,
		Account: account,
		CSRF:    csrf,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign %s: %w", tokenType, err)
	}
	return signed, nil
}

// Validate parses a token and verifies its signature and expiry, returning
// the embedded claims. Malformed structure, signature mismatch, and expiry
// all map to Unauthorized.
func (s *TokenService) Validate(tokenString string) (*models.TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, "invalid token")
	}

	claims, ok := token.Claims.(*models.TokenClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}

	return claims, nil
}
