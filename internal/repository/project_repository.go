package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/lead-service/internal/domain"
)

// ProjectRepository persists project inquiries.
type ProjectRepository interface {
	Create(ctx context.Context, project *domain.Project) error
	List(ctx context.Context) ([]domain.Project, error)
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	Update(ctx context.Context, id string, patch domain.LeadUpdate) (*domain.Project, error)
}

type projectRepository struct {
	pool *pgxpool.Pool
}

// NewProjectRepository returns a Postgres-backed implementation.
func NewProjectRepository(pool *pgxpool.Pool) ProjectRepository {
	return &projectRepository{pool: pool}
}

const projectColumns = `id, services, custom_service, industries, custom_industry, timeline, name, email, phone,
               company, project_description, additional_questions, how_did_you_hear, previous_experience,
               status, description, created_at, updated_at`

func (r *projectRepository) Create(ctx context.Context, project *domain.Project) error {
	project.Normalize()
	if err := project.Validate(); err != nil {
		return err
	}
	project.ID = uuid.NewString()

	const query = `
        INSERT INTO projects (id, services, custom_service, industries, custom_industry, timeline, name, email,
            phone, company, project_description, additional_questions, how_did_you_hear, previous_experience,
            status, description)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
        RETURNING created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		project.ID,
		project.Services,
		project.CustomService,
		project.Industries,
		project.CustomIndustry,
		project.Timeline,
		project.Name,
		project.Email,
		project.Phone,
		project.Company,
		project.ProjectDescription,
		project.AdditionalQuestions,
		project.HowDidYouHear,
		project.PreviousExperience,
		project.Status,
		project.Description,
	).Scan(&project.CreatedAt, &project.UpdatedAt)
	return mapError(err, "Project inquiry", project.ID)
}

func (r *projectRepository) List(ctx context.Context) ([]domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects ORDER BY created_at DESC, id DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, mapError(err, "Project inquiry", "")
	}
	projects, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Project, error) {
		p, err := scanProject(row)
		if err != nil {
			return domain.Project{}, err
		}
		return *p, nil
	})
	if err != nil {
		return nil, mapError(err, "Project inquiry", "")
	}
	return projects, nil
}

func (r *projectRepository) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id=$1`
	p, err := scanProject(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapError(err, "Project inquiry", id)
	}
	return p, nil
}

func (r *projectRepository) Update(ctx context.Context, id string, patch domain.LeadUpdate) (*domain.Project, error) {
	status, err := leadStatusArg(patch.Status)
	if err != nil {
		return nil, err
	}

	query := `
        UPDATE projects SET status=COALESCE($1, status), description=COALESCE($2, description), updated_at=NOW()
        WHERE id=$3
        RETURNING ` + projectColumns

	p, err := scanProject(r.pool.QueryRow(ctx, query, status, patch.Description, id))
	if err != nil {
		return nil, mapError(err, "Project inquiry", id)
	}
	return p, nil
}

func scanProject(row pgx.Row) (*domain.Project, error) {
	var p domain.Project
	if err := row.Scan(
		&p.ID,
		&p.Services,
		&p.CustomService,
		&p.Industries,
		&p.CustomIndustry,
		&p.Timeline,
		&p.Name,
		&p.Email,
		&p.Phone,
		&p.Company,
		&p.ProjectDescription,
		&p.AdditionalQuestions,
		&p.HowDidYouHear,
		&p.PreviousExperience,
		&p.Status,
		&p.Description,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}
