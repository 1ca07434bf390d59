package models

// EmailVerifyRequest asks for a verification code to be mailed.
type EmailVerifyRequest struct {
	Email string `json:"email" binding:"required" validate:"required,email"`
}

// SignUpRequest registers a new account using a previously mailed code.
type SignUpRequest struct {
	NickName string `json:"nick_name" binding:"required" validate:"required,min=1,max=32"`
	Password string `json:"password" binding:"required" validate:"required,min=6"`
	Email    string `json:"email" binding:"required" validate:"required,email"`
	Code     string `json:"code" binding:"required" validate:"required,len=4"`
}

// SignInRequest holds credentials for authenticating a user.
type SignInRequest struct {
	Account  string `json:"account" binding:"required" validate:"required"`
	Password string `json:"password" binding:"required" validate:"required"`
}

// RenewalRequest exchanges a refresh token for a fresh token pair.
type RenewalRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required" validate:"required"`
}

// TokenPairResponse returns the issued tokens. ExpiresIn is the access token
// lifetime in seconds.
type TokenPairResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// CurrentUserResponse is the masked profile of the authenticated user.
type CurrentUserResponse struct {
	ID       string `json:"id"`
	Account  string `json:"account"`
	NickName string `json:"nick_name"`
	Email    string `json:"email"`
	Mobile   string `json:"mobile"`
}
