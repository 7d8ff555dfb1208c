package persistence

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/khoahotran/portfolio/internal/domain/certificate"
	"github.com/khoahotran/portfolio/internal/domain/listing"
	"github.com/khoahotran/portfolio/pkg/apperror"
)

const certificateColumns = "id, owner_id, title, provider, issue_date, credential_url, image_url, created_at, updated_at"

type postgresCertificateRepo struct {
	db *pgxpool.Pool
}

func NewPostgresCertificateRepo(db *pgxpool.Pool) certificate.Repository {
	return &postgresCertificateRepo{db: db}
}

func scanCertificate(row pgx.Row) (*certificate.Certificate, error) {
	c := &certificate.Certificate{}
	err := row.Scan(
		&c.ID, &c.OwnerID, &c.Title, &c.Provider, &c.IssueDate,
		&c.CredentialURL, &c.ImageURL, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *postgresCertificateRepo) Save(ctx context.Context, c *certificate.Certificate) error {
	query := `
		INSERT INTO certificates (id, owner_id, title, provider, issue_date, credential_url, image_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.Exec(ctx, query,
		c.ID, c.OwnerID, c.Title, c.Provider, c.IssueDate,
		c.CredentialURL, c.ImageURL, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return writeErr(err, "certificate", "save")
	}
	return nil
}

func (r *postgresCertificateRepo) Update(ctx context.Context, id, ownerID uuid.UUID, patch certificate.Patch) (*certificate.Certificate, error) {
	b := psql.Update("certificates").
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id, "owner_id": ownerID})
	if patch.Title != nil {
		b = b.Set("title", *patch.Title)
	}
	if patch.Provider != nil {
		b = b.Set("provider", *patch.Provider)
	}
	if patch.IssueDate != nil {
		b = b.Set("issue_date", *patch.IssueDate)
	}
	if patch.CredentialURL != nil {
		b = b.Set("credential_url", nullable(patch.CredentialURL))
	}
	if patch.ImageURL != nil {
		b = b.Set("image_url", nullable(patch.ImageURL))
	}

	query, args, err := b.Suffix("RETURNING " + certificateColumns).ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build certificate update", err)
	}
	c, err := scanCertificate(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, rowErr(err, "certificate", id)
		}
		return nil, writeErr(err, "certificate", "update")
	}
	return c, nil
}

func (r *postgresCertificateRepo) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	return deleteOwned(ctx, r.db, "certificates", "certificate", id, ownerID)
}

func (r *postgresCertificateRepo) FindByID(ctx context.Context, id, ownerID uuid.UUID) (*certificate.Certificate, error) {
	query := `SELECT ` + certificateColumns + ` FROM certificates WHERE id = $1 AND owner_id = $2`
	c, err := scanCertificate(r.db.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		return nil, rowErr(err, "certificate", id)
	}
	return c, nil
}

func (r *postgresCertificateRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID, order listing.Order, limit int) ([]*certificate.Certificate, error) {
	query, args, err := listQuery(certificateColumns, "certificates", ownerID, order, limit).ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build certificates query", err)
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, apperror.NewInternal("failed to query certificates by owner", err)
	}
	defer rows.Close()

	certs := make([]*certificate.Certificate, 0)
	for rows.Next() {
		c, err := scanCertificate(rows)
		if err != nil {
			return nil, apperror.NewInternal("failed to scan certificate row", err)
		}
		certs = append(certs, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewInternal("error iterating certificate rows", err)
	}
	return certs, nil
}

func (r *postgresCertificateRepo) CountByOwner(ctx context.Context, ownerID uuid.UUID) (int, error) {
	return countByOwner(ctx, r.db, "certificates", ownerID)
}
