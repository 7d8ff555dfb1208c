package persistence

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/khoahotran/portfolio/internal/domain/listing"
	"github.com/khoahotran/portfolio/internal/domain/project"
	"github.com/khoahotran/portfolio/pkg/apperror"
	"github.com/khoahotran/portfolio/pkg/logger"
)

const projectColumns = "id, owner_id, title, description, technologies, image_url, demo_url, github_url, featured, created_at, updated_at"

type postgresProjectRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresProjectRepo(db *pgxpool.Pool, logger logger.Logger) project.Repository {
	return &postgresProjectRepo{db: db, logger: logger}
}

func scanProject(row pgx.Row) (*project.Project, error) {
	p := &project.Project{}
	err := row.Scan(
		&p.ID,
		&p.OwnerID,
		&p.Title,
		&p.Description,
		&p.Technologies,
		&p.ImageURL,
		&p.DemoURL,
		&p.GithubURL,
		&p.Featured,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Technologies = tags(p.Technologies)
	return p, nil
}

func scanProjects(rows pgx.Rows) ([]*project.Project, error) {
	defer rows.Close()
	projects := make([]*project.Project, 0)

	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, apperror.NewInternal("failed to scan project row", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewInternal("error iterating project rows", err)
	}
	return projects, nil
}

func (r *postgresProjectRepo) Save(ctx context.Context, p *project.Project) error {
	query := `
		INSERT INTO projects (id, owner_id, title, description, technologies, image_url, demo_url, github_url, featured, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.db.Exec(ctx, query,
		p.ID, p.OwnerID, p.Title, p.Description, tags(p.Technologies),
		p.ImageURL, p.DemoURL, p.GithubURL, p.Featured,
		p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return writeErr(err, "project", "save")
	}
	return nil
}

func (r *postgresProjectRepo) Update(ctx context.Context, id, ownerID uuid.UUID, patch project.Patch) (*project.Project, error) {
	b := psql.Update("projects").
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id, "owner_id": ownerID})

	if patch.Title != nil {
		b = b.Set("title", *patch.Title)
	}
	if patch.Description != nil {
		b = b.Set("description", *patch.Description)
	}
	if patch.Technologies != nil {
		b = b.Set("technologies", tags(*patch.Technologies))
	}
	if patch.ImageURL != nil {
		b = b.Set("image_url", nullable(patch.ImageURL))
	}
	if patch.DemoURL != nil {
		b = b.Set("demo_url", nullable(patch.DemoURL))
	}
	if patch.GithubURL != nil {
		b = b.Set("github_url", nullable(patch.GithubURL))
	}
	if patch.Featured != nil {
		b = b.Set("featured", *patch.Featured)
	}

	query, args, err := b.Suffix("RETURNING " + projectColumns).ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build project update", err)
	}
	p, err := scanProject(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, rowErr(err, "project", id)
		}
		return nil, writeErr(err, "project", "update")
	}
	return p, nil
}

func (r *postgresProjectRepo) Delete(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) error {
	return deleteOwned(ctx, r.db, "projects", "project", id, ownerID)
}

func (r *postgresProjectRepo) FindByID(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (*project.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1 AND owner_id = $2`
	p, err := scanProject(r.db.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		return nil, rowErr(err, "project", id)
	}
	return p, nil
}

func (r *postgresProjectRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID, order listing.Order, limit int) ([]*project.Project, error) {
	query, args, err := listQuery(projectColumns, "projects", ownerID, order, limit).ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build find by owner query", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, apperror.NewInternal("failed to query projects by owner", err)
	}
	return scanProjects(rows)
}

func (r *postgresProjectRepo) CountByOwner(ctx context.Context, ownerID uuid.UUID) (int, error) {
	return countByOwner(ctx, r.db, "projects", ownerID)
}
