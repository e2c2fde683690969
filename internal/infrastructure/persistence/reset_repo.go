package persistence

import (
	"context"

	"github.com/jmoiron/sqlx"

	"melidash/internal/domain"
	"melidash/internal/domain/entity"
	"melidash/pkg/errcodes"
)

type PasswordResetRepository struct {
	db *sqlx.DB
}

func NewPasswordResetRepository(db *sqlx.DB) *PasswordResetRepository {
	return &PasswordResetRepository{db: db}
}

// Save stores a reset token and drops earlier tokens for the same email.
func (r *PasswordResetRepository) Save(ctx context.Context, reset entity.PasswordReset) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM password_resets WHERE email = $1`, reset.Email); err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "failed to drop password resets")
		}

		schema := passwordResetSchema{
			Email:     reset.Email,
			Token:     reset.Token,
			ExpiresAt: reset.ExpiresAt,
		}

		query := `INSERT INTO password_resets (token, email, expires_at) VALUES (:token, :email, :expires_at)`

		if _, err := tx.NamedExecContext(ctx, query, schema); err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "failed to save password reset")
		}

		return nil
	})
}
