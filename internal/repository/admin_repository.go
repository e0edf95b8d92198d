package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/lead-service/internal/domain"
)

// AdminRepository persists admin accounts.
type AdminRepository interface {
	Create(ctx context.Context, admin *domain.Admin) error
	GetByID(ctx context.Context, id string) (*domain.Admin, error)
	// GetByLogin matches identifier against username or email, case-insensitively.
	GetByLogin(ctx context.Context, identifier string) (*domain.Admin, error)
	Exists(ctx context.Context, username, email string) (bool, error)
}

type adminRepository struct {
	pool *pgxpool.Pool
}

// NewAdminRepository returns a Postgres-backed implementation.
func NewAdminRepository(pool *pgxpool.Pool) AdminRepository {
	return &adminRepository{pool: pool}
}

func (r *adminRepository) Create(ctx context.Context, admin *domain.Admin) error {
	admin.ID = uuid.NewString()
	admin.Username = strings.ToLower(strings.TrimSpace(admin.Username))
	admin.Email = strings.ToLower(strings.TrimSpace(admin.Email))

	const query = `
        INSERT INTO admins (id, username, email, password_hash)
        VALUES ($1, $2, $3, $4)
        RETURNING created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		admin.ID,
		admin.Username,
		admin.Email,
		admin.PasswordHash,
	).Scan(&admin.CreatedAt, &admin.UpdatedAt)
	return mapError(err, "Admin", admin.ID)
}

func (r *adminRepository) GetByID(ctx context.Context, id string) (*domain.Admin, error) {
	const query = `
        SELECT id, username, email, password_hash, created_at, updated_at
        FROM admins WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *adminRepository) GetByLogin(ctx context.Context, identifier string) (*domain.Admin, error) {
	const query = `
        SELECT id, username, email, password_hash, created_at, updated_at
        FROM admins WHERE username=$1 OR email=$1
        LIMIT 1`
	return r.fetchSingle(ctx, query, strings.ToLower(strings.TrimSpace(identifier)))
}

func (r *adminRepository) Exists(ctx context.Context, username, email string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM admins WHERE username=$1 OR email=$2)`
	var exists bool
	err := r.pool.QueryRow(ctx, query,
		strings.ToLower(strings.TrimSpace(username)),
		strings.ToLower(strings.TrimSpace(email)),
	).Scan(&exists)
	if err != nil {
		return false, mapError(err, "Admin", "")
	}
	return exists, nil
}

func (r *adminRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Admin, error) {
	var admin domain.Admin
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&admin.ID,
		&admin.Username,
		&admin.Email,
		&admin.PasswordHash,
		&admin.CreatedAt,
		&admin.UpdatedAt,
	); err != nil {
		return nil, mapError(err, "Admin", "")
	}
	return &admin, nil
}
