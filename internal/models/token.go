package models

import "github.com/golang-jwt/jwt/v5"

// TokenType distinguishes the two issued token variants. The string values are
// embedded in the "type" claim and in cache keys, so they must not change.
type TokenType string

const (
	AccessToken  TokenType = "access_token"
	RefreshToken TokenType = "refresh_token"
)

// TokenClaims is the signed claim set carried by both token variants: the
// variant itself, the client brand the token was issued to, the account it
// belongs to, and the rotating anti-replay value.
type TokenClaims struct {
	Type    string `json:"type"`
	Client  string `json:"client"`
	Account string `json:"account"`
	CSRF    string `json:"csrf"`
	jwt.RegisteredClaims
}

// Complete reports whether all four application claims are present and
// non-blank. Signature validity alone is not enough for admission.
func (c *TokenClaims) Complete() bool {
	return c != nil && c.Type != "" && c.Client != "" && c.Account != "" && c.CSRF != ""
}
