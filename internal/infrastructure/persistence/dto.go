package persistence

import (
	"database/sql"
	"time"

	"melidash/internal/domain/entity"
	"melidash/internal/domain/value"
)

// userSchema строка таблицы users.
type userSchema struct {
	ID           string       `db:"id"`
	Email        string       `db:"email"`
	Name         string       `db:"name"`
	Role         string       `db:"role"`
	Status       string       `db:"status"`
	PasswordHash string       `db:"password_hash"`
	CreatedAt    time.Time    `db:"created_at"`
	UpdatedAt    time.Time    `db:"updated_at"`
	LastLoginAt  sql.NullTime `db:"last_login_at"`
}

func fromUser(u entity.User) userSchema {
	s := userSchema{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		Role:         u.Role.String(),
		Status:       string(u.Status),
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}

	if u.LastLoginAt != nil {
		s.LastLoginAt = sql.NullTime{Time: *u.LastLoginAt, Valid: true}
	}

	return s
}

func (s userSchema) toDomain() entity.User {
	u := entity.User{
		ID:           s.ID,
		Email:        s.Email,
		Name:         s.Name,
		Role:         value.Role(s.Role),
		Status:       value.UserStatus(s.Status),
		PasswordHash: s.PasswordHash,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}

	if s.LastLoginAt.Valid {
		t := s.LastLoginAt.Time
		u.LastLoginAt = &t
	}

	return u
}

// inviteSchema строка таблицы invites.
type inviteSchema struct {
	ID        string    `db:"id"`
	Email     string    `db:"email"`
	Role      string    `db:"role"`
	Token     string    `db:"token"`
	Status    string    `db:"status"`
	InvitedBy string    `db:"invited_by"`
	CreatedAt time.Time `db:"created_at"`
	ExpiresAt time.Time `db:"expires_at"`
}

func fromInvite(i entity.Invite) inviteSchema {
	return inviteSchema{
		ID:        i.ID,
		Email:     i.Email,
		Role:      i.Role.String(),
		Token:     i.Token,
		Status:    string(i.Status),
		InvitedBy: i.InvitedBy,
		CreatedAt: i.CreatedAt,
		ExpiresAt: i.ExpiresAt,
	}
}

func (s inviteSchema) toDomain() entity.Invite {
	return entity.Invite{
		ID:        s.ID,
		Email:     s.Email,
		Role:      value.Role(s.Role),
		Token:     s.Token,
		Status:    value.InviteStatus(s.Status),
		InvitedBy: s.InvitedBy,
		CreatedAt: s.CreatedAt,
		ExpiresAt: s.ExpiresAt,
	}
}

type passwordResetSchema struct {
	Email     string    `db:"email"`
	Token     string    `db:"token"`
	ExpiresAt time.Time `db:"expires_at"`
}
