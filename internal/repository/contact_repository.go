package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/lead-service/internal/domain"
)

// ContactRepository persists contact requests.
type ContactRepository interface {
	Create(ctx context.Context, contact *domain.Contact) error
	List(ctx context.Context) ([]domain.Contact, error)
	GetByID(ctx context.Context, id string) (*domain.Contact, error)
	Update(ctx context.Context, id string, patch domain.LeadUpdate) (*domain.Contact, error)
}

type contactRepository struct {
	pool *pgxpool.Pool
}

// NewContactRepository returns a Postgres-backed implementation.
func NewContactRepository(pool *pgxpool.Pool) ContactRepository {
	return &contactRepository{pool: pool}
}

const contactColumns = `id, name, email, phone, status, description, created_at, updated_at`

func (r *contactRepository) Create(ctx context.Context, contact *domain.Contact) error {
	contact.Normalize()
	if err := contact.Validate(); err != nil {
		return err
	}
	contact.ID = uuid.NewString()

	const query = `
        INSERT INTO contacts (id, name, email, phone, status, description)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		contact.ID,
		contact.Name,
		contact.Email,
		contact.Phone,
		contact.Status,
		contact.Description,
	).Scan(&contact.CreatedAt, &contact.UpdatedAt)
	return mapError(err, "Contact request", contact.ID)
}

func (r *contactRepository) List(ctx context.Context) ([]domain.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts ORDER BY created_at DESC, id DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, mapError(err, "Contact request", "")
	}
	contacts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Contact, error) {
		c, err := scanContact(row)
		if err != nil {
			return domain.Contact{}, err
		}
		return *c, nil
	})
	if err != nil {
		return nil, mapError(err, "Contact request", "")
	}
	return contacts, nil
}

func (r *contactRepository) GetByID(ctx context.Context, id string) (*domain.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE id=$1`
	c, err := scanContact(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapError(err, "Contact request", id)
	}
	return c, nil
}

func (r *contactRepository) Update(ctx context.Context, id string, patch domain.LeadUpdate) (*domain.Contact, error) {
	status, err := leadStatusArg(patch.Status)
	if err != nil {
		return nil, err
	}

	query := `
        UPDATE contacts SET status=COALESCE($1, status), description=COALESCE($2, description), updated_at=NOW()
        WHERE id=$3
        RETURNING ` + contactColumns

	c, err := scanContact(r.pool.QueryRow(ctx, query, status, patch.Description, id))
	if err != nil {
		return nil, mapError(err, "Contact request", id)
	}
	return c, nil
}

func scanContact(row pgx.Row) (*domain.Contact, error) {
	var c domain.Contact
	if err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Email,
		&c.Phone,
		&c.Status,
		&c.Description,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &c, nil
}

func leadStatusArg(raw *string) (*string, error) {
	if raw == nil {
		return nil, nil
	}
	if _, err := domain.ParseLeadStatus(*raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func applicationStatusArg(raw *string) (*string, error) {
	if raw == nil {
		return nil, nil
	}
	if _, err := domain.ParseApplicationStatus(*raw); err != nil {
		return nil, err
	}
	return raw, nil
}
