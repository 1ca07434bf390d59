package repository

import (
	"fmt"

	"github.com/aligarduo/Naive-Dev/internal/models"
)

// Cache key layout. The formats are fixed for interop with existing caches:
//
//	{client}:{account}:access_token
//	{client}:{account}:refresh_token
//	{client}:{account}:active
//	email_verify_code:{email}

// TokenKey builds the access or refresh entry key for a session.
func TokenKey(tokenType models.TokenType, client, account string) string {
	return fmt.Sprintf("%s:%s:%s", client, account, tokenType)
}

// ActiveKey builds the active entry key holding the current anti-replay value.
func ActiveKey(client, account string) string {
	return fmt.Sprintf("%s:%s:active", client, account)
}

// VerifyCodeKey builds the email verification code key.
func VerifyCodeKey(email string) string {
	return fmt.Sprintf("email_verify_code:%s", email)
}
