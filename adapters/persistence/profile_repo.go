package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/khoahotran/portfolio/internal/domain/profile"
	"github.com/khoahotran/portfolio/pkg/apperror"
	"github.com/khoahotran/portfolio/pkg/logger"
)

type postgresProfileRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresProfileRepo(db *pgxpool.Pool, logger logger.Logger) profile.Repository {
	return &postgresProfileRepo{db: db, logger: logger}
}

// GetByUserID returns an empty profile when the user has not saved one yet.
func (r *postgresProfileRepo) GetByUserID(ctx context.Context, ownerID uuid.UUID) (*profile.Profile, error) {
	query := `
		SELECT owner_id, full_name, title, bio, avatar_url, email, github_url, linkedin_url, location, updated_at
		FROM profiles
		WHERE owner_id = $1
	`
	p := &profile.Profile{}
	err := r.db.QueryRow(ctx, query, ownerID).Scan(
		&p.OwnerID,
		&p.FullName,
		&p.Title,
		&p.Bio,
		&p.AvatarURL,
		&p.Email,
		&p.GithubURL,
		&p.LinkedinURL,
		&p.Location,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return profile.Empty(ownerID), nil
		}
		return nil, apperror.NewInternal("failed to query profile", err)
	}
	return p, nil
}

func (r *postgresProfileRepo) Upsert(ctx context.Context, p *profile.Profile) error {
	query := `
		INSERT INTO profiles (owner_id, full_name, title, bio, avatar_url, email, github_url, linkedin_url, location, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (owner_id) DO UPDATE SET
			full_name = EXCLUDED.full_name,
			title = EXCLUDED.title,
			bio = EXCLUDED.bio,
			avatar_url = EXCLUDED.avatar_url,
			email = EXCLUDED.email,
			github_url = EXCLUDED.github_url,
			linkedin_url = EXCLUDED.linkedin_url,
			location = EXCLUDED.location,
			updated_at = NOW()
	`
	_, err := r.db.Exec(ctx, query,
		p.OwnerID,
		p.FullName,
		p.Title,
		p.Bio,
		p.AvatarURL,
		p.Email,
		p.GithubURL,
		p.LinkedinURL,
		p.Location,
		p.UpdatedAt,
	)
	if err != nil {
		return writeErr(err, "profile", "upsert")
	}
	return nil
}
