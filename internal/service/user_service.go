package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/aligarduo/Naive-Dev/internal/models"
	appErrors "github.com/aligarduo/Naive-Dev/pkg/errors"
	"github.com/aligarduo/Naive-Dev/pkg/mask"
)

type userReader interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// UserService serves profile reads for the authenticated identity.
type UserService struct {
	users  userReader
	logger *zap.Logger
}

// NewUserService constructs a UserService.
func NewUserService(users userReader, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{users: users, logger: logger}
}

// CurrentUser resolves the identity published by the authentication gate to a
// live user and returns the masked profile. A stale identity whose user no
// longer exists or is disabled is rejected.
func (s *UserService) CurrentUser(ctx context.Context, identity models.Identity) (*models.CurrentUserResponse, error) {
	user, err := s.users.FindByID(ctx, identity.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, "failed to load user")
	}
	if !user.IsActive() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "")
	}

	return &models.CurrentUserResponse{
		ID:       user.ID,
		Account:  user.Account,
		NickName: mask.Name(user.NickName),
		Email:    mask.Email(user.Email),
		Mobile:   mask.Mobile(user.Mobile),
	}, nil
}
