package entity

import (
	"time"

	"melidash/internal/domain/value"
)

type User struct {
	ID           string
	Email        string
	Name         string
	Role         value.Role
	Status       value.UserStatus
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	LastLoginAt  *time.Time
}

type UserUpdate struct {
	Name   *string
	Role   *value.Role
	Status *value.UserStatus
}

type Invite struct {
	ID        string
	Email     string
	Role      value.Role
	Token     string
	Status    value.InviteStatus
	InvitedBy string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// EffectiveStatus reports pending invites past their expiry as expired.
func (i Invite) EffectiveStatus(now time.Time) value.InviteStatus {
	if i.Status == value.InvitePending && !now.Before(i.ExpiresAt) {
		return value.InviteExpired
	}

	return i.Status
}

type PasswordReset struct {
	Email     string
	Token     string
	ExpiresAt time.Time
}
