package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/lead-service/internal/domain"
)

// CareerRepository persists career applications.
type CareerRepository interface {
	Create(ctx context.Context, career *domain.Career) error
	List(ctx context.Context) ([]domain.Career, error)
	GetByID(ctx context.Context, id string) (*domain.Career, error)
	Update(ctx context.Context, id string, patch domain.LeadUpdate) (*domain.Career, error)
}

type careerRepository struct {
	pool *pgxpool.Pool
}

// NewCareerRepository returns a Postgres-backed implementation.
func NewCareerRepository(pool *pgxpool.Pool) CareerRepository {
	return &careerRepository{pool: pool}
}

const careerColumns = `id, name, email, phone, position, experience, message,
               resume_path, resume_file_name, resume_content_type, resume_url, resume_public_id, resume_format,
               resume_size_bytes, status, description, created_at, updated_at`

// resumeColumns is the nullable column view of an AttachmentRef.
type resumeColumns struct {
	Path        *string
	FileName    *string
	ContentType *string
	URL         *string
	PublicID    *string
	Format      *string
	SizeBytes   *int64
}

func resumeColumnsOf(ref *domain.AttachmentRef) resumeColumns {
	var cols resumeColumns
	switch {
	case ref.IsRemote():
		cols.URL = &ref.Remote.URL
		cols.PublicID = &ref.Remote.ProviderID
		cols.Format = &ref.Remote.Format
		cols.SizeBytes = &ref.Remote.SizeBytes
		cols.FileName = &ref.Remote.FileName
	case ref.IsLocal():
		cols.Path = &ref.Local.Path
		cols.FileName = &ref.Local.FileName
		cols.ContentType = &ref.Local.ContentType
	}
	return cols
}

func (cols resumeColumns) ref() *domain.AttachmentRef {
	switch {
	case cols.URL != nil:
		return &domain.AttachmentRef{Remote: &domain.RemoteFile{
			URL:        *cols.URL,
			ProviderID: deref(cols.PublicID),
			Format:     deref(cols.Format),
			SizeBytes:  derefInt(cols.SizeBytes),
			FileName:   deref(cols.FileName),
		}}
	case cols.Path != nil:
		return &domain.AttachmentRef{Local: &domain.LocalFile{
			Path:        *cols.Path,
			FileName:    deref(cols.FileName),
			ContentType: deref(cols.ContentType),
		}}
	}
	return nil
}

func (r *careerRepository) Create(ctx context.Context, career *domain.Career) error {
	career.Normalize()
	if err := career.Validate(); err != nil {
		return err
	}
	career.ID = uuid.NewString()
	resume := resumeColumnsOf(career.Resume)

	const query = `
        INSERT INTO careers (id, name, email, phone, position, experience, message,
            resume_path, resume_file_name, resume_content_type, resume_url, resume_public_id, resume_format,
            resume_size_bytes, status, description)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
        RETURNING created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		career.ID,
		career.Name,
		career.Email,
		career.Phone,
		career.Position,
		career.Experience,
		career.Message,
		resume.Path,
		resume.FileName,
		resume.ContentType,
		resume.URL,
		resume.PublicID,
		resume.Format,
		resume.SizeBytes,
		career.Status,
		career.Description,
	).Scan(&career.CreatedAt, &career.UpdatedAt)
	return mapError(err, "Career application", career.ID)
}

func (r *careerRepository) List(ctx context.Context) ([]domain.Career, error) {
	query := `SELECT ` + careerColumns + ` FROM careers ORDER BY created_at DESC, id DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, mapError(err, "Career application", "")
	}
	careers, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Career, error) {
		c, err := scanCareer(row)
		if err != nil {
			return domain.Career{}, err
		}
		return *c, nil
	})
	if err != nil {
		return nil, mapError(err, "Career application", "")
	}
	return careers, nil
}

func (r *careerRepository) GetByID(ctx context.Context, id string) (*domain.Career, error) {
	query := `SELECT ` + careerColumns + ` FROM careers WHERE id=$1`
	c, err := scanCareer(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapError(err, "Career application", id)
	}
	return c, nil
}

func (r *careerRepository) Update(ctx context.Context, id string, patch domain.LeadUpdate) (*domain.Career, error) {
	status, err := applicationStatusArg(patch.Status)
	if err != nil {
		return nil, err
	}

	query := `
        UPDATE careers SET status=COALESCE($1, status), description=COALESCE($2, description), updated_at=NOW()
        WHERE id=$3
        RETURNING ` + careerColumns

	c, err := scanCareer(r.pool.QueryRow(ctx, query, status, patch.Description, id))
	if err != nil {
		return nil, mapError(err, "Career application", id)
	}
	return c, nil
}

func scanCareer(row pgx.Row) (*domain.Career, error) {
	var (
		c      domain.Career
		resume resumeColumns
	)
	if err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Email,
		&c.Phone,
		&c.Position,
		&c.Experience,
		&c.Message,
		&resume.Path,
		&resume.FileName,
		&resume.ContentType,
		&resume.URL,
		&resume.PublicID,
		&resume.Format,
		&resume.SizeBytes,
		&c.Status,
		&c.Description,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	c.Resume = resume.ref()
	return &c, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefInt(n *int64) int64 {
	if n == nil {
		return 0
	}
	return *n
}
