package persistence

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/khoahotran/portfolio/internal/application/service"
)

type postgresImageRefRepo struct {
	db *pgxpool.Pool
}

func NewPostgresImageRefRepo(db *pgxpool.Pool) service.ImageReferences {
	return &postgresImageRefRepo{db: db}
}

// IsImageReferenced checks every owner's rows, so an image reused across
// entities survives until its last reference is gone.
func (r *postgresImageRefRepo) IsImageReferenced(ctx context.Context, url string) (bool, error) {
	query := `
		SELECT EXISTS (SELECT 1 FROM profiles WHERE avatar_url = $1)
			OR EXISTS (SELECT 1 FROM projects WHERE image_url = $1)
			OR EXISTS (SELECT 1 FROM certificates WHERE image_url = $1)
	`
	var referenced bool
	if err := r.db.QueryRow(ctx, query, url).Scan(&referenced); err != nil {
		return false, fmt.Errorf("error when checking image references: %w", err)
	}
	return referenced, nil
}
