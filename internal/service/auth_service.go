package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/fieldworks/maintenance-service/internal/auth"
	"github.com/fieldworks/maintenance-service/internal/config"
	"github.com/fieldworks/maintenance-service/internal/domain"
	"github.com/fieldworks/maintenance-service/internal/repository"
	apperrors "github.com/fieldworks/maintenance-service/pkg/util"
)

// AuthService coordinates portal account registration and login.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, users repository.UserRepository) *AuthService {
	return &AuthService{
		users:      users,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// Register creates a new portal account. The first registration path only
// issues VIEWER accounts; admins promote roles afterwards.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*domain.User, string, time.Time, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || strings.TrimSpace(password) == "" {
		return nil, "", time.Time{}, apperrors.NewValidationError("email and password are required", nil)
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, "", time.Time{}, apperrors.NewConflict("email already registered", map[string]any{"email": email})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.UserRoleViewer,
		Status:       domain.UserStatusActive,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if apperrors.IsUniqueViolation(err) {
			return nil, "", time.Time{}, apperrors.NewConflict("email already registered", map[string]any{"email": email})
		}
		return nil, "", time.Time{}, apperrors.MapError(err)
	}

	token, exp, err := s.tokenMgr.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	return user, token, exp, nil
}

// Login authenticates a portal account.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, time.Time, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	if user.Status != domain.UserStatusActive {
		return nil, "", time.Time{}, apperrors.NewForbidden("account suspended")
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}

	token, exp, err := s.tokenMgr.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	return user, token, exp, nil
}

// ChangePassword verifies the current password before updating the hash.
func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("account", map[string]any{"user_id": userID})
		}
		return apperrors.MapError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, currentPassword); err != nil {
		return apperrors.NewUnauthorized("invalid credentials")
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperrors.MapError(err)
	}
	user.PasswordHash = hash
	if err := s.users.Update(ctx, user); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
