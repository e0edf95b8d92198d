package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/lead-service/internal/domain"
	"github.com/spec-kit/lead-service/internal/repository"
	apperrors "github.com/spec-kit/lead-service/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated admin and the token presented.
type Principal struct {
	Admin  *domain.Admin
	Claims *Claims
}

// AuthMiddleware validates bearer tokens and loads principals.
type AuthMiddleware struct {
	tokens  *TokenManager
	admins  repository.AdminRepository
	revoker Revoker
	logger  *zap.Logger
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, admins repository.AdminRepository, revoker Revoker, logger *zap.Logger) *AuthMiddleware {
	if revoker == nil {
		revoker = NoopRevoker{}
	}
	return &AuthMiddleware{tokens: tokens, admins: admins, revoker: revoker, logger: logger}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return apperrors.NewUnauthorized("Not authorized, no token")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return apperrors.NewUnauthorized("Not authorized, invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(strings.TrimSpace(parts[1]))
	if err != nil {
		return apperrors.NewUnauthorized("Not authorized, token failed")
	}

	revoked, err := m.revoker.IsRevoked(c.UserContext(), claims.ID)
	if err != nil {
		m.logger.Error("token revocation lookup failed", zap.String("jti", claims.ID), zap.Error(err))
		return apperrors.NewInternalError(err)
	}
	if revoked {
		return apperrors.NewUnauthorized("Not authorized, token revoked")
	}

	admin, err := m.admins.GetByID(c.UserContext(), claims.AdminID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return apperrors.NewUnauthorized("Not authorized, admin not found")
		}
		return err
	}

	c.Locals(principalKey, &Principal{Admin: admin, Claims: claims})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated admin.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
