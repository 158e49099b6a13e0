package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/storefront/catalog-service/internal/auth"
	"github.com/storefront/catalog-service/internal/config"
	"github.com/storefront/catalog-service/internal/domain"
	"github.com/storefront/catalog-service/internal/repository"
	apperrors "github.com/storefront/catalog-service/pkg/util"
)

// AuthService coordinates registration, login and token verification.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
	logger     *zap.Logger
}

// AuthDependencies encapsulates repo requirements for auth service.
type AuthDependencies struct {
	UserRepo repository.UserRepository
	Logger   *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:      deps.UserRepo,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL()),
		bcryptCost: cfg.Auth.BcryptCost,
		logger:     logger,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// RegisterUser creates a new account. The returned user carries no hash.
func (s *AuthService) RegisterUser(ctx context.Context, name, email, password string) (*domain.User, error) {
	email = normalizeEmail(email)

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewDuplicateEmail(email)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewUpstreamFailure("document store request failed", err)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, apperrors.NewValidationError("password must be at most 72 bytes", map[string]any{"field": "password"})
	}
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewDuplicateEmail(email)
		}
		return nil, apperrors.NewUpstreamFailure("document store request failed", err)
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID))
	return withoutHash(user), nil
}

// LoginUser authenticates a user and mints a bearer token.
func (s *AuthService) LoginUser(ctx context.Context, email, password string) (*domain.User, string, time.Time, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", time.Time{}, apperrors.NewUserNotFound()
		}
		return nil, "", time.Time{}, apperrors.NewUpstreamFailure("document store request failed", err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewIncorrectPassword()
	}

	token, issued, err := s.tokenMgr.GenerateToken(user.ID)
	if err != nil {
		return nil, "", time.Time{}, apperrors.NewInternalError(err)
	}
	return withoutHash(user), token, issued.ExpiresAt, nil
}

// VerifyToken resolves a raw bearer token to its user id.
func (s *AuthService) VerifyToken(raw string) (string, error) {
	if raw == "" {
		return "", apperrors.NewUnauthorized("authentication token is missing")
	}
	claims, err := s.tokenMgr.ParseToken(raw)
	if err != nil {
		s.logger.Debug("token rejected", zap.Error(err))
		return "", apperrors.NewForbidden("authentication token is invalid or expired")
	}
	return claims.UserID, nil
}

// TokenManager exposes the underlying token manager.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func withoutHash(u *domain.User) *domain.User {
	out := *u
	out.PasswordHash = ""
	return &out
}
