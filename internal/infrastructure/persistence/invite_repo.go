package persistence

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"melidash/internal/domain"
	"melidash/internal/domain/entity"
	"melidash/internal/domain/value"
	"melidash/pkg/errcodes"
)

const inviteColumns = `id, email, role, token, status, invited_by, created_at, expires_at`

type InviteRepository struct {
	db *sqlx.DB
}

func NewInviteRepository(db *sqlx.DB) *InviteRepository {
	return &InviteRepository{db: db}
}

func (r *InviteRepository) List(ctx context.Context) ([]entity.Invite, error) {
	var schemas []inviteSchema
	if err := r.db.SelectContext(ctx, &schemas, `SELECT `+inviteColumns+` FROM invites ORDER BY created_at DESC`); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list invites")
	}

	invites := make([]entity.Invite, 0, len(schemas))
	for _, s := range schemas {
		invites = append(invites, s.toDomain())
	}

	return invites, nil
}

func (r *InviteRepository) GetByID(ctx context.Context, id string) (entity.Invite, error) {
	return r.get(ctx, `SELECT `+inviteColumns+` FROM invites WHERE id = $1`, id)
}

func (r *InviteRepository) GetByToken(ctx context.Context, token string) (entity.Invite, error) {
	return r.get(ctx, `SELECT `+inviteColumns+` FROM invites WHERE token = $1`, token)
}

func (r *InviteRepository) Create(ctx context.Context, invite entity.Invite) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO invites (` + inviteColumns + `)
			VALUES (:id, :email, :role, :token, :status, :invited_by, :created_at, :expires_at)`

		if _, err := tx.NamedExecContext(ctx, query, fromInvite(invite)); err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "failed to create invite")
		}

		return nil
	})
}

func (r *InviteRepository) Update(ctx context.Context, invite entity.Invite) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `
			UPDATE invites SET
				token = :token,
				status = :status,
				expires_at = :expires_at
			WHERE id = :id`

		return execAffected(ctx, tx, domain.NewError(errcodes.InviteNotFound, "invite not found"), query, fromInvite(invite))
	})
}

// Accept creates the invited user and marks the pending invite accepted in
// one transaction.
func (r *InviteRepository) Accept(ctx context.Context, invite entity.Invite, user entity.User) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := insertUser(ctx, tx, user); err != nil {
			return err
		}

		invite.Status = value.InviteAccepted

		query := `
			UPDATE invites SET status = :status
			WHERE id = :id AND status = '` + string(value.InvitePending) + `'`

		return execAffected(ctx, tx, domain.NewError(errcodes.InviteNotPending, "invite is no longer pending"), query, fromInvite(invite))
	})
}

func (r *InviteRepository) get(ctx context.Context, query string, arg any) (entity.Invite, error) {
	var schema inviteSchema
	if err := r.db.GetContext(ctx, &schema, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Invite{}, domain.NewError(errcodes.InviteNotFound, "invite not found")
		}

		return entity.Invite{}, domain.WrapError(err, errcodes.InternalServerError, "failed to get invite")
	}

	return schema.toDomain(), nil
}
