package persistence

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"slices"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"melidash/internal/domain"
	"melidash/pkg/errcodes"
)

//go:embed migrations/*.sql
var migrations embed.FS

const uniqueViolation = "23505"

// Migrations exposes the schema files in apply order.
func Migrations() (fs.FS, []string, error) {
	sub, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return nil, nil, fmt.Errorf("fs.Sub: %w", err)
	}

	names, err := fs.Glob(sub, "*.sql")
	if err != nil {
		return nil, nil, fmt.Errorf("fs.Glob: %w", err)
	}

	slices.Sort(names)

	return sub, names, nil
}

// Migrate applies every schema file. Statements are idempotent.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	fsys, names, err := Migrations()
	if err != nil {
		return err
	}

	for _, name := range names {
		query, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("fs.ReadFile: %w", err)
		}

		if _, err := db.ExecContext(ctx, string(query)); err != nil {
			return fmt.Errorf("migration %s: %w", name, err)
		}
	}

	return nil
}

// withTx выполняет функцию в транзакции.
func withTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to begin transaction")
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return domain.WrapError(
				fmt.Errorf("%w; rollback: %v", err, rbErr),
				errcodes.InternalServerError,
				"transaction failed",
			)
		}

		return err
	}

	if err := tx.Commit(); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to commit")
	}

	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// execAffected fails with notFound when the statement touched no rows.
func execAffected(ctx context.Context, tx *sqlx.Tx, notFound *domain.AppError, query string, arg any) error {
	res, err := tx.NamedExecContext(ctx, query, arg)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to execute update")
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to check affected rows")
	}

	if rows == 0 {
		return notFound
	}

	return nil
}
