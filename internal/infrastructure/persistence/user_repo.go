package persistence

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"melidash/internal/domain"
	"melidash/internal/domain/entity"
	"melidash/pkg/errcodes"
)

const userColumns = `id, email, name, role, status, password_hash, created_at, updated_at, last_login_at`

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) List(ctx context.Context) ([]entity.User, error) {
	var schemas []userSchema
	if err := r.db.SelectContext(ctx, &schemas, `SELECT `+userColumns+` FROM users ORDER BY created_at ASC`); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list users")
	}

	users := make([]entity.User, 0, len(schemas))
	for _, s := range schemas {
		users = append(users, s.toDomain())
	}

	return users, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (entity.User, error) {
	return r.get(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (entity.User, error) {
	return r.get(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *UserRepository) Create(ctx context.Context, user entity.User) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		return insertUser(ctx, tx, user)
	})
}

func insertUser(ctx context.Context, tx *sqlx.Tx, user entity.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES (
			:id, :email, :name, :role, :status, :password_hash,
			:created_at, :updated_at, :last_login_at
		)`

	if _, err := tx.NamedExecContext(ctx, query, fromUser(user)); err != nil {
		if isUniqueViolation(err) {
			return domain.NewError(errcodes.EmailAlreadyInUse, "email is already in use")
		}

		return domain.WrapError(err, errcodes.InternalServerError, "failed to create user")
	}

	return nil
}

func (r *UserRepository) Update(ctx context.Context, user entity.User) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `
			UPDATE users SET
				name = :name,
				role = :role,
				status = :status,
				password_hash = :password_hash,
				updated_at = :updated_at,
				last_login_at = :last_login_at
			WHERE id = :id`

		return execAffected(ctx, tx, domain.NewError(errcodes.UserNotFound, "user not found"), query, fromUser(user))
	})
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		return execAffected(
			ctx, tx,
			domain.NewError(errcodes.UserNotFound, "user not found"),
			`DELETE FROM users WHERE id = :id`,
			map[string]any{"id": id},
		)
	})
}

func (r *UserRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM users`); err != nil {
		return 0, domain.WrapError(err, errcodes.InternalServerError, "failed to count users")
	}

	return count, nil
}

func (r *UserRepository) get(ctx context.Context, query string, arg any) (entity.User, error) {
	var schema userSchema
	if err := r.db.GetContext(ctx, &schema, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.User{}, domain.NewError(errcodes.UserNotFound, "user not found")
		}

		return entity.User{}, domain.WrapError(err, errcodes.InternalServerError, "failed to get user")
	}

	return schema.toDomain(), nil
}
