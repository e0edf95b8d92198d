package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/lead-service/internal/auth"
	"github.com/spec-kit/lead-service/internal/config"
	"github.com/spec-kit/lead-service/internal/domain"
	"github.com/spec-kit/lead-service/internal/repository"
	apperrors "github.com/spec-kit/lead-service/pkg/util"
)

// ErrAdminExists is returned when creating an admin whose username or email is taken.
var ErrAdminExists = errors.New("admin with this username or email already exists")

// AuthService coordinates admin login, logout and provisioning.
type AuthService struct {
	admins     repository.AdminRepository
	revoker    auth.Revoker
	tokenMgr   *auth.TokenManager
	bcryptCost int
	logger     *zap.Logger
}

// AuthDependencies encapsulates requirements for auth service.
type AuthDependencies struct {
	AdminRepo repository.AdminRepository
	Revoker   auth.Revoker
	Logger    *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	revoker := deps.Revoker
	if revoker == nil {
		revoker = auth.NoopRevoker{}
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		admins:     deps.AdminRepo,
		revoker:    revoker,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL.Duration()),
		bcryptCost: cfg.Auth.BcryptCost,
		logger:     logger,
	}
}

// TokenManager exposes the token manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// Revoker exposes the revocation store for middleware wiring.
func (s *AuthService) Revoker() auth.Revoker {
	return s.revoker
}

// Login authenticates by username or email and issues a session token.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (*domain.Admin, string, domain.Session, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, "", domain.Session{}, apperrors.NewValidationError("Please provide username/email and password", nil)
	}

	admin, err := s.admins.GetByLogin(ctx, identifier)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, "", domain.Session{}, apperrors.NewUnauthorized("Invalid credentials")
		}
		return nil, "", domain.Session{}, err
	}
	if err := auth.ComparePassword(admin.PasswordHash, password); err != nil {
		return nil, "", domain.Session{}, apperrors.NewUnauthorized("Invalid credentials")
	}

	token, session, err := s.tokenMgr.GenerateToken(admin)
	if err != nil {
		return nil, "", domain.Session{}, apperrors.NewInternalError(err)
	}
	s.logger.Info("admin logged in", zap.String("admin_id", admin.ID))
	return admin, token, session, nil
}

// Logout revokes the presented token until it would have expired.
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil || claims.ExpiresAt == nil {
		return nil
	}
	if err := s.revoker.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return apperrors.NewInternalError(err)
	}
	return nil
}

// CreateAdmin provisions a new admin account.
func (s *AuthService) CreateAdmin(ctx context.Context, username, email, password string) (*domain.Admin, error) {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(email) == "" || password == "" {
		return nil, apperrors.NewValidationError("username, email and password are required", nil)
	}
	exists, err := s.admins.Exists(ctx, username, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAdminExists
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}
	admin := &domain.Admin{Username: username, Email: email, PasswordHash: hash}
	if err := s.admins.Create(ctx, admin); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAdminExists
		}
		return nil, err
	}
	return admin, nil
}
