package persistence

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/khoahotran/portfolio/internal/domain/listing"
	"github.com/khoahotran/portfolio/internal/domain/skill"
	"github.com/khoahotran/portfolio/pkg/apperror"
)

const skillColumns = "id, owner_id, name, category, proficiency, created_at, updated_at"

type postgresSkillRepo struct {
	db *pgxpool.Pool
}

func NewPostgresSkillRepo(db *pgxpool.Pool) skill.Repository {
	return &postgresSkillRepo{db: db}
}

func scanSkill(row pgx.Row) (*skill.Skill, error) {
	s := &skill.Skill{}
	var category string
	if err := row.Scan(&s.ID, &s.OwnerID, &s.Name, &category, &s.Proficiency, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	s.Category = skill.Category(category)
	return s, nil
}

func (r *postgresSkillRepo) Save(ctx context.Context, s *skill.Skill) error {
	query := `
		INSERT INTO skills (id, owner_id, name, category, proficiency, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.Exec(ctx, query, s.ID, s.OwnerID, s.Name, string(s.Category), s.Proficiency, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return writeErr(err, "skill", "save")
	}
	return nil
}

func (r *postgresSkillRepo) Update(ctx context.Context, id, ownerID uuid.UUID, patch skill.Patch) (*skill.Skill, error) {
	b := psql.Update("skills").
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id, "owner_id": ownerID})
	if patch.Name != nil {
		b = b.Set("name", *patch.Name)
	}
	if patch.Category != nil {
		b = b.Set("category", string(*patch.Category))
	}
	if patch.Proficiency != nil {
		b = b.Set("proficiency", *patch.Proficiency)
	}

	query, args, err := b.Suffix("RETURNING " + skillColumns).ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build skill update", err)
	}
	s, err := scanSkill(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, rowErr(err, "skill", id)
		}
		return nil, writeErr(err, "skill", "update")
	}
	return s, nil
}

func (r *postgresSkillRepo) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	return deleteOwned(ctx, r.db, "skills", "skill", id, ownerID)
}

func (r *postgresSkillRepo) FindByID(ctx context.Context, id, ownerID uuid.UUID) (*skill.Skill, error) {
	query := `SELECT ` + skillColumns + ` FROM skills WHERE id = $1 AND owner_id = $2`
	s, err := scanSkill(r.db.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		return nil, rowErr(err, "skill", id)
	}
	return s, nil
}

func (r *postgresSkillRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID, order listing.Order, limit int) ([]*skill.Skill, error) {
	query, args, err := listQuery(skillColumns, "skills", ownerID, order, limit).ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build skills query", err)
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, apperror.NewInternal("failed to query skills by owner", err)
	}
	defer rows.Close()

	skills := make([]*skill.Skill, 0)
	for rows.Next() {
		s, err := scanSkill(rows)
		if err != nil {
			return nil, apperror.NewInternal("failed to scan skill row", err)
		}
		skills = append(skills, s)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewInternal("error iterating skill rows", err)
	}
	return skills, nil
}

func (r *postgresSkillRepo) CountByOwner(ctx context.Context, ownerID uuid.UUID) (int, error) {
	return countByOwner(ctx, r.db, "skills", ownerID)
}
