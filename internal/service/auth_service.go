package service

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"math/big"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/aligarduo/Naive-Dev/internal/models"
	"github.com/aligarduo/Naive-Dev/internal/repository"
	appErrors "github.com/aligarduo/Naive-Dev/pkg/errors"
)

type authUserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

type sessionCache interface {
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	SetString(ctx context.Context, key, value string, ttl time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
	GetString(ctx context.Context, key string) (string, error)
	Remove(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

type mailSender interface {
	SendVerifyCode(ctx context.Context, to, code string, ttl time.Duration) error
}

// AuthConfig defines lifetimes for the session cache entries and the issued
// tokens. The refresh token's cryptographic expiry intentionally exceeds the
// refresh entry TTL: the cache entry is the session lifetime ceiling, forcing
// re-authentication even if a token's own expiry were extended.
type AuthConfig struct {
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
	ActiveTTL          time.Duration
	AccessTTL          time.Duration
	RefreshTTL         time.Duration
	VerifyCodeTTL      time.Duration
}

// AuthService owns the session lifecycle: sign-up, sign-in, renewal, sign-out,
// and the email verification flow. Sessions are a set of cache entries keyed
// by (client brand, account); revocation is deletion of those entries.
type AuthService struct {
	users     authUserRepository
	cache     sessionCache
	tokens    *TokenService
	mail      mailSender
	validator *validator.Validate
	logger    *zap.Logger
	config    AuthConfig
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(users authUserRepository, cache sessionCache, tokens *TokenService, mail mailSender, validate *validator.Validate, logger *zap.Logger, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AuthService{
		users:     users,
		cache:     cache,
		tokens:    tokens,
		mail:      mail,
		validator: validate,
		logger:    logger,
		config:    config,
	}
}

// SignIn authenticates a user and opens a session on the given client brand,
// returning a fresh token pair.
func (s *AuthService) SignIn(ctx context.Context, client string, req models.SignInRequest) (*models.TokenPairResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrBadRequest.Code, "invalid sign-in payload")
	}

	user, err := s.users.FindByEmail(ctx, req.Account)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "account does not exist")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, "failed to fetch user")
	}
	if !user.IsActive() {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "account does not exist")
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "incorrect password, please try again")
	}

	return s.openSession(ctx, client, user)
}

// Renew exchanges a refresh token for a new token pair, rotating the
// anti-replay value so the presented token can never succeed twice.
func (s *AuthService) Renew(ctx context.Context, client, refreshToken string) (*models.TokenPairResponse, error) {
	claims, err := s.tokens.Validate(refreshToken)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "")
	}

	if !claims.Complete() || claims.Type != string(models.RefreshToken) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "")
	}

	// The active entry is looked up under the brand of the presenting
	// request. A token replayed after rotation, or presented from a
	// different device class, fails this comparison.
	activeKey := repository.ActiveKey(client, claims.Account)
	activeCSRF, err := s.cache.GetString(ctx, activeKey)
	if err != nil {
		if errors.Is(err, appErrors.ErrCacheMiss) {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, "failed to read session state")
	}
	if activeCSRF != claims.CSRF {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "")
	}

	refreshKey := repository.TokenKey(models.RefreshToken, client, claims.Account)
	var snapshot models.Identity
	if err := s.cache.Get(ctx, refreshKey, &snapshot); err != nil {
		if errors.Is(err, appErrors.ErrCacheMiss) {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, "failed to read session state")
	}

	user, err := s.users.FindByID(ctx, snapshot.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, "failed to load user")
	}
	if !user.IsActive() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "")
	}

	// Delete then recreate, never update in place: a concurrent replay of
	// the old refresh token must fail the active-entry comparison above.
	accessKey := repository.TokenKey(models.AccessToken, client, claims.Account)
	if err := s.removeSessionEntries(ctx, activeKey, accessKey, refreshKey); err != nil {
		return nil, err
	}

	return s.openSession(ctx, client, user)
}

// SignOut terminates the caller's session on the given client brand. Deleting
// already-absent entries is not an error, but a sign-out whose access entry no
// longer resolves to a live user is rejected.
func (s *AuthService) SignOut(ctx context.Context, client, account string) error {
	activeKey := repository.ActiveKey(client, account)
	accessKey := repository.TokenKey(models.AccessToken, client, account)
	refreshKey := repository.TokenKey(models.RefreshToken, client, account)

	var snapshot models.Identity
	if err := s.cache.Get(ctx, accessKey, &snapshot); err != nil {
		if errors.Is(err, appErrors.ErrCacheMiss) {
			return appErrors.Clone(appErrors.ErrForbidden, "")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, "failed to read session state")
	}

	user, err := s.users.FindByID(ctx, snapshot.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrForbidden, "")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, "failed to load user")
	}
	if !user.IsActive() {
		return appErrors.Clone(appErrors.ErrForbidden, "")
	}

	return s.removeSessionEntries(ctx, activeKey, accessKey, refreshKey)
}

// IssueEmailVerification mails a fresh 4-digit code. Any previous code for
// the email is invalidated first, so at most one code is ever live.
func (s *AuthService) IssueEmailVerification(ctx context.Context, req models.EmailVerifyRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrBadRequest.Code, "invalid email payload")
	}

	code := randomDigits(4)
	key := repository.VerifyCodeKey(req.Email)

	if err := s.cache.Remove(ctx, key); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, "failed to clear previous code")
	}
	if err := s.cache.SetString(ctx, key, code, s.config.VerifyCodeTTL); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, "failed to store verification code")
	}

	if err := s.mail.SendVerifyCode(ctx, req.Email, code, s.config.VerifyCodeTTL); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, "failed to send verification email")
	}

	return nil
}

// SignUp registers a new account after checking the mailed verification code.
// The code is consumed immediately on success so it cannot be reused.
func (s *AuthService) SignUp(ctx context.Context, req models.SignUpRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrBadRequest.Code, "invalid sign-up payload")
	}

	exists, err := s.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, "failed to check email")
	}
	if exists {
		return appErrors.Clone(appErrors.ErrConflict, "email address is already registered, please sign in or use a different one")
	}

	key := repository.VerifyCodeKey(req.Email)
	code, err := s.cache.GetString(ctx, key)
	if err != nil && !errors.Is(err, appErrors.ErrCacheMiss) {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, "failed to read verification code")
	}
	// An expired (absent) code fails identically to a wrong one.
	if code == "" || code != req.Code {
		return appErrors.Clone(appErrors.ErrUnprocessableEntity, "verification code is incorrect, please check and try again")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, "failed to hash password")
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:           uuid.NewString(),
		Account:      newAccount(),
		NickName:     req.NickName,
		Email:        req.Email,
		PasswordHash: string(hash),
		Status:       models.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, "failed to create user")
	}

	if err := s.cache.Remove(ctx, key); err != nil {
		s.logger.Warn("failed to consume verification code", zap.Error(err))
	}

	return nil
}

// openSession rotates the anti-replay value, issues both tokens, and writes
// the three session entries for (client, account).
func (s *AuthService) openSession(ctx context.Context, client string, user *models.User) (*models.TokenPairResponse, error) {
	csrf := randomDigits(6)
	now := time.Now()

	accessToken, err := s.tokens.Issue(models.AccessToken, client, user.Account, csrf, now.Add(s.config.AccessTokenExpiry))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, "failed to issue access token")
	}
	refreshToken, err := s.tokens.Issue(models.RefreshToken, client, user.Account, csrf, now.Add(s.config.RefreshTokenExpiry))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, "failed to issue refresh token")
	}

	snapshot := models.IdentityOf(user, client)

	if err := s.cache.SetString(ctx, repository.ActiveKey(client, user.Account), csrf, s.config.ActiveTTL); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, "failed to write session state")
	}
	if err := s.cache.Set(ctx, repository.TokenKey(models.AccessToken, client, user.Account), snapshot, s.config.AccessTTL); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, "failed to write session state")
	}
	if err := s.cache.Set(ctx, repository.TokenKey(models.RefreshToken, client, user.Account), snapshot, s.config.RefreshTTL); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, "failed to write session state")
	}

	return &models.TokenPairResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.config.AccessTokenExpiry.Seconds()),
	}, nil
}

func (s *AuthService) removeSessionEntries(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		if err := s.cache.Remove(ctx, key); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, "failed to clear session state")
		}
	}
	return nil
}

// randomDigits returns a cryptographically random numeric string of the given
// length, leading zeros included.
func randomDigits(length int) string {
	var sb strings.Builder
	sb.Grow(length)
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			// crypto/rand only fails when the platform source is
			// broken, which is not recoverable per-request.
			panic(err)
		}
		sb.WriteByte(byte('0' + n.Int64()))
	}
	return sb.String()
}

// newAccount derives a compact account identifier for a new user.
func newAccount() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
}
