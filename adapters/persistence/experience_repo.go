package persistence

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/khoahotran/portfolio/internal/domain/experience"
	"github.com/khoahotran/portfolio/internal/domain/listing"
	"github.com/khoahotran/portfolio/pkg/apperror"
)

const experienceColumns = "id, owner_id, company, position, location, start_date, end_date, is_current, description, technologies, created_at, updated_at"

type postgresExperienceRepo struct {
	db *pgxpool.Pool
}

func NewPostgresExperienceRepo(db *pgxpool.Pool) experience.Repository {
	return &postgresExperienceRepo{db: db}
}

func scanExperience(row pgx.Row) (*experience.Experience, error) {
	e := &experience.Experience{}
	err := row.Scan(
		&e.ID, &e.OwnerID, &e.Company, &e.Position, &e.Location,
		&e.StartDate, &e.EndDate, &e.Current, &e.Description, &e.Technologies,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.Technologies = tags(e.Technologies)
	return e, nil
}

func (r *postgresExperienceRepo) Save(ctx context.Context, e *experience.Experience) error {
	e.Normalize()
	query := `
		INSERT INTO experiences (id, owner_id, company, position, location, start_date, end_date, is_current, description, technologies, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.db.Exec(ctx, query,
		e.ID, e.OwnerID, e.Company, e.Position, e.Location,
		e.StartDate, e.EndDate, e.Current, e.Description, tags(e.Technologies),
		e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return writeErr(err, "experience", "save")
	}
	return nil
}

// Update writes only the patched columns. end_date is resolved against the
// row's resulting is_current, so an end date sent alone for a current
// position is stored as NULL.
func (r *postgresExperienceRepo) Update(ctx context.Context, id, ownerID uuid.UUID, patch experience.Patch) (*experience.Experience, error) {
	patch = patch.Normalize()
	b := psql.Update("experiences").
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id, "owner_id": ownerID})

	if patch.Company != nil {
		b = b.Set("company", *patch.Company)
	}
	if patch.Position != nil {
		b = b.Set("position", *patch.Position)
	}
	if patch.Location != nil {
		b = b.Set("location", nullable(patch.Location))
	}
	if patch.StartDate != nil {
		b = b.Set("start_date", *patch.StartDate)
	}
	if patch.Current != nil {
		b = b.Set("is_current", *patch.Current)
	}
	switch {
	case patch.ClearEndDate:
		b = b.Set("end_date", nil)
	case patch.EndDate != nil && patch.Current != nil:
		b = b.Set("end_date", *patch.EndDate)
	case patch.EndDate != nil:
		b = b.Set("end_date", sq.Expr("CASE WHEN is_current THEN NULL ELSE ?::date END", *patch.EndDate))
	}
	if patch.Description != nil {
		b = b.Set("description", *patch.Description)
	}
	if patch.Technologies != nil {
		b = b.Set("technologies", tags(*patch.Technologies))
	}

	query, args, err := b.Suffix("RETURNING " + experienceColumns).ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build experience update", err)
	}
	e, err := scanExperience(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, rowErr(err, "experience", id)
		}
		return nil, writeErr(err, "experience", "update")
	}
	return e, nil
}

func (r *postgresExperienceRepo) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	return deleteOwned(ctx, r.db, "experiences", "experience", id, ownerID)
}

func (r *postgresExperienceRepo) FindByID(ctx context.Context, id, ownerID uuid.UUID) (*experience.Experience, error) {
	query := `SELECT ` + experienceColumns + ` FROM experiences WHERE id = $1 AND owner_id = $2`
	e, err := scanExperience(r.db.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		return nil, rowErr(err, "experience", id)
	}
	return e, nil
}

func (r *postgresExperienceRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID, order listing.Order, limit int) ([]*experience.Experience, error) {
	query, args, err := listQuery(experienceColumns, "experiences", ownerID, order, limit).ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build experiences query", err)
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, apperror.NewInternal("failed to query experiences by owner", err)
	}
	defer rows.Close()

	items := make([]*experience.Experience, 0)
	for rows.Next() {
		e, err := scanExperience(rows)
		if err != nil {
			return nil, apperror.NewInternal("failed to scan experience row", err)
		}
		items = append(items, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewInternal("error iterating experience rows", err)
	}
	return items, nil
}

func (r *postgresExperienceRepo) CountByOwner(ctx context.Context, ownerID uuid.UUID) (int, error) {
	return countByOwner(ctx, r.db, "experiences", ownerID)
}
