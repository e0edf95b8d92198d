package auth

import (
	"context"
	"errors"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap/zaptest"

	"github.com/spec-kit/lead-service/internal/domain"
	"github.com/spec-kit/lead-service/internal/repository"
	apperrors "github.com/spec-kit/lead-service/pkg/util"
)

type memRevoker struct {
	revoked map[string]bool
	err     error
}

func (m *memRevoker) Revoke(_ context.Context, id string, _ time.Time) error {
	m.revoked[id] = true
	return nil
}

func (m *memRevoker) IsRevoked(_ context.Context, id string) (bool, error) {
	return m.revoked[id], m.err
}

func TestTokenRoundTrip(t *testing.T) {
	t.Parallel()

	tm := NewTokenManager("secret", time.Hour)
	token, session, err := tm.GenerateToken(&domain.Admin{ID: "a1", Username: "admin"})
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	claims, err := tm.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.AdminID != "a1" || claims.ID != session.TokenID {
		t.Fatalf("claims = %+v, session = %+v", claims, session)
	}
	if session.ExpiresAt.Sub(session.IssuedAt) != time.Hour {
		t.Fatalf("lifetime = %v", session.ExpiresAt.Sub(session.IssuedAt))
	}
}

func TestTokenRejectsExpiredAndForeign(t *testing.T) {
	t.Parallel()

	tm := NewTokenManager("secret", time.Hour)
	tm.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, _, err := tm.GenerateToken(&domain.Admin{ID: "a1"})
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	tm.now = time.Now
	if _, err := tm.ParseToken(expired); err == nil {
		t.Fatal("expected expired token to fail")
	}

	other := NewTokenManager("other-secret", time.Hour)
	foreign, _, _ := other.GenerateToken(&domain.Admin{ID: "a1"})
	if _, err := tm.ParseToken(foreign); err == nil {
		t.Fatal("expected token signed with another secret to fail")
	}
}

func TestDefaultTTLIsSevenDays(t *testing.T) {
	t.Parallel()

	if got := NewTokenManager("s", 0).TTL(); got != 7*24*time.Hour {
		t.Fatalf("ttl = %v", got)
	}
}

func TestPassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("hunter22", 4)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if err := ComparePassword(hash, "hunter22"); err != nil {
		t.Fatalf("ComparePassword: %v", err)
	}
	if err := ComparePassword(hash, "wrong"); !errors.Is(err, ErrPasswordMismatch) {
		t.Fatalf("ComparePassword wrong = %v", err)
	}
}

func newGuardedApp(t *testing.T, tm *TokenManager, admins repository.AdminRepository, rev Revoker) *fiber.App {
	t.Helper()
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			derr := apperrors.ToDomainError(err)
			return c.Status(derr.HTTPStatus).SendString(derr.Code)
		},
	})
	mw := NewAuthMiddleware(tm, admins, rev, zaptest.NewLogger(t))
	app.Get("/me", mw.Handle, func(c *fiber.Ctx) error {
		p, ok := PrincipalFromContext(c)
		if !ok {
			return fiber.ErrInternalServerError
		}
		return c.SendString(p.Admin.Username)
	})
	return app
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	store := repository.NewMemoryStore()
	admin := &domain.Admin{Username: "admin", Email: "admin@example.com", PasswordHash: "x"}
	if err := store.Admins().Create(context.Background(), admin); err != nil {
		t.Fatalf("Create: %v", err)
	}
	tm := NewTokenManager("secret", time.Hour)
	good, _, _ := tm.GenerateToken(admin)
	ghost, _, _ := tm.GenerateToken(&domain.Admin{ID: "missing"})
	revokedToken, revokedSession, _ := tm.GenerateToken(admin)

	rev := &memRevoker{revoked: map[string]bool{revokedSession.TokenID: true}}
	app := newGuardedApp(t, tm, store.Admins(), rev)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"no header", "", fiber.StatusUnauthorized},
		{"wrong scheme", "Basic " + good, fiber.StatusUnauthorized},
		{"garbage", "Bearer not-a-token", fiber.StatusUnauthorized},
		{"unknown admin", "Bearer " + ghost, fiber.StatusUnauthorized},
		{"revoked", "Bearer " + revokedToken, fiber.StatusUnauthorized},
		{"valid", "Bearer " + good, fiber.StatusOK},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(fiber.MethodGet, "/me", nil)
		if tt.header != "" {
			req.Header.Set(fiber.HeaderAuthorization, tt.header)
		}
		resp, err := app.Test(req, -1)
		if err != nil {
			t.Fatalf("%s: app.Test: %v", tt.name, err)
		}
		if resp.StatusCode != tt.want {
			t.Fatalf("%s: status = %d, want %d", tt.name, resp.StatusCode, tt.want)
		}
	}
}

func TestRedisRevoker(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })

	ctx := context.Background()
	r := NewRedisRevoker(client)
	if err := r.Revoke(ctx, "jti-1", time.Now().Add(time.Minute)); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	revoked, err := r.IsRevoked(ctx, "jti-1")
	if err != nil || !revoked {
		t.Fatalf("IsRevoked = %v, %v", revoked, err)
	}
	revoked, _ = r.IsRevoked(ctx, "jti-2")
	if revoked {
		t.Fatal("unexpected revocation")
	}
}
