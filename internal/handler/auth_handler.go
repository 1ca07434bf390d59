package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/aligarduo/Naive-Dev/internal/middleware"
	"github.com/aligarduo/Naive-Dev/internal/models"
	"github.com/aligarduo/Naive-Dev/internal/service"
	appErrors "github.com/aligarduo/Naive-Dev/pkg/errors"
	"github.com/aligarduo/Naive-Dev/pkg/response"
)

// AuthHandler wires the authentication endpoints to the auth service.
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{service: svc}
}

// EmailVerify mails a verification code to the given address.
func (h *AuthHandler) EmailVerify(c *gin.Context) {
	var req models.EmailVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrBadRequest.Code, "invalid email payload"))
		return
	}

	if err := h.service.IssueEmailVerification(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, "a verification code has been sent to your email")
}

// SignUp registers a new account.
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req models.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrBadRequest.Code, "invalid sign-up payload"))
		return
	}

	if err := h.service.SignUp(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, "registration complete, you can sign in now")
}

// SignIn authenticates a user and returns a token pair.
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req models.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrBadRequest.Code, "invalid sign-in payload"))
		return
	}

	res, err := h.service.SignIn(c.Request.Context(), middleware.ClientBrand(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, res)
}

// Renewal exchanges a refresh token for a fresh token pair.
func (h *AuthHandler) Renewal(c *gin.Context) {
	var req models.RenewalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrBadRequest.Code, "invalid renewal payload"))
		return
	}

	res, err := h.service.Renew(c.Request.Context(), middleware.ClientBrand(c), req.RefreshToken)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, res)
}

// SignOut terminates the caller's session.
func (h *AuthHandler) SignOut(c *gin.Context) {
	identity := identityFromContext(c)
	if identity == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.service.SignOut(c.Request.Context(), middleware.ClientBrand(c), identity.Account); err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, "signed out")
}
