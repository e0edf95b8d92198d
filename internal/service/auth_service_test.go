package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/lead-service/internal/config"
	"github.com/spec-kit/lead-service/internal/repository"
	apperrors "github.com/spec-kit/lead-service/pkg/util"
)

type recordingRevoker struct{ revoked map[string]time.Time }

func (r *recordingRevoker) Revoke(_ context.Context, id string, exp time.Time) error {
	r.revoked[id] = exp
	return nil
}

func (r *recordingRevoker) IsRevoked(_ context.Context, id string) (bool, error) {
	_, ok := r.revoked[id]
	return ok, nil
}

func newAuthService(t *testing.T) (*AuthService, *recordingRevoker) {
	t.Helper()
	cfg, err := config.LoadFrom(map[string]string{"JWT_SECRET": "test-secret", "AUTH_BCRYPT_COST": "4"})
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	revoker := &recordingRevoker{revoked: map[string]time.Time{}}
	svc := NewAuthService(*cfg, AuthDependencies{
		AdminRepo: repository.NewMemoryStore().Admins(),
		Revoker:   revoker,
		Logger:    zap.NewNop(),
	})
	return svc, revoker
}

func TestAuthServiceLoginAndLogout(t *testing.T) {
	t.Parallel()
	svc, revoker := newAuthService(t)
	ctx := context.Background()

	if _, err := svc.CreateAdmin(ctx, "Admin", "admin@example.com", "s3cret"); err != nil {
		t.Fatalf("CreateAdmin: %v", err)
	}

	for _, login := range []string{"admin", "ADMIN@example.com"} {
		admin, token, session, err := svc.Login(ctx, login, "s3cret")
		if err != nil {
			t.Fatalf("Login(%s): %v", login, err)
		}
		if token == "" || admin.Username != "admin" || session.TokenID == "" {
			t.Fatalf("unexpected login result: %+v %+v", admin, session)
		}
	}

	_, token, _, _ := svc.Login(ctx, "admin", "s3cret")
	claims, err := svc.TokenManager().ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if err := svc.Logout(ctx, claims); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, ok := revoker.revoked[claims.ID]; !ok {
		t.Fatal("token should be revoked")
	}
}

func TestAuthServiceRejectsBadCredentials(t *testing.T) {
	t.Parallel()
	svc, _ := newAuthService(t)
	ctx := context.Background()
	if _, err := svc.CreateAdmin(ctx, "admin", "admin@example.com", "s3cret"); err != nil {
		t.Fatalf("CreateAdmin: %v", err)
	}

	_, _, _, err := svc.Login(ctx, "admin", "wrong")
	if !apperrors.HasCode(err, apperrors.CodeUnauthorized) {
		t.Fatalf("wrong password: %v", err)
	}
	_, _, _, err = svc.Login(ctx, "nobody", "s3cret")
	if !apperrors.HasCode(err, apperrors.CodeUnauthorized) {
		t.Fatalf("unknown admin: %v", err)
	}
	_, _, _, err = svc.Login(ctx, "", "")
	if !apperrors.HasCode(err, apperrors.CodeValidation) {
		t.Fatalf("missing fields: %v", err)
	}
}

func TestAuthServiceCreateAdminDuplicate(t *testing.T) {
	t.Parallel()
	svc, _ := newAuthService(t)
	ctx := context.Background()
	if _, err := svc.CreateAdmin(ctx, "admin", "admin@example.com", "pw"); err != nil {
		t.Fatalf("CreateAdmin: %v", err)
	}
	_, err := svc.CreateAdmin(ctx, "other", "ADMIN@example.com", "pw")
	if !errors.Is(err, ErrAdminExists) {
		t.Fatalf("expected ErrAdminExists, got %v", err)
	}
}
