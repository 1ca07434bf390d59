package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/aligarduo/Naive-Dev/internal/service"
	appErrors "github.com/aligarduo/Naive-Dev/pkg/errors"
	"github.com/aligarduo/Naive-Dev/pkg/response"
)

// UserHandler serves profile endpoints for the authenticated caller.
type UserHandler struct {
	service *service.UserService
}

// NewUserHandler creates a new handler.
func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{service: svc}
}

// Current returns the masked profile of the signed-in user.
func (h *UserHandler) Current(c *gin.Context) {
	identity := identityFromContext(c)
	if identity == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	res, err := h.service.CurrentUser(c.Request.Context(), *identity)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, res)
}
