package persistence

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/khoahotran/portfolio/internal/domain/listing"
	"github.com/khoahotran/portfolio/pkg/apperror"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const (
	pgUniqueViolation = "23505"
	pgCheckViolation  = "23514"
)

// nullable maps the "clear" marker of a patch (empty string) to NULL.
func nullable(s *string) any {
	if s == nil || *s == "" {
		return nil
	}
	return *s
}

func tags(t []string) []string {
	if t == nil {
		return []string{}
	}
	return t
}

// writeErr converts a driver error from an INSERT or UPDATE.
func writeErr(err error, resource, op string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return apperror.NewConflict(resource, pgErr.ConstraintName, "")
		case pgCheckViolation:
			return apperror.NewInvalidInput(fmt.Sprintf("%s violates %s", resource, pgErr.ConstraintName), err)
		}
	}
	return apperror.NewInternal(fmt.Sprintf("failed to %s %s", op, resource), err)
}

// rowErr converts the error of a single-row query.
func rowErr(err error, resource string, id uuid.UUID) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperror.NewNotFound(resource, id.String())
	}
	return apperror.NewInternal(fmt.Sprintf("failed to scan %s row", resource), err)
}

func listQuery(columns, table string, ownerID uuid.UUID, order listing.Order, limit int) sq.SelectBuilder {
	b := psql.Select(columns).
		From(table).
		Where(sq.Eq{"owner_id": ownerID}).
		OrderBy(order.SQL(), "id ASC")
	if limit > 0 {
		b = b.Limit(uint64(limit))
	}
	return b
}

func countByOwner(ctx context.Context, db *pgxpool.Pool, table string, ownerID uuid.UUID) (int, error) {
	query, args, err := psql.Select("COUNT(*)").From(table).Where(sq.Eq{"owner_id": ownerID}).ToSql()
	if err != nil {
		return 0, apperror.NewInternal("failed to build count query", err)
	}
	var n int
	if err := db.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, apperror.NewInternal(fmt.Sprintf("failed to count %s", table), err)
	}
	return n, nil
}

func deleteOwned(ctx context.Context, db *pgxpool.Pool, table, resource string, id, ownerID uuid.UUID) error {
	query, args, err := psql.Delete(table).Where(sq.Eq{"id": id, "owner_id": ownerID}).ToSql()
	if err != nil {
		return apperror.NewInternal("failed to build delete query", err)
	}
	cmdTag, err := db.Exec(ctx, query, args...)
	if err != nil {
		return apperror.NewInternal(fmt.Sprintf("failed to delete %s", resource), err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound(resource, id.String())
	}
	return nil
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
