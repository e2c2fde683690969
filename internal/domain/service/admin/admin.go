// Package admin manages dashboard users, invitations and authentication.
package admin

import (
	"context"
	"sync"
	"time"

	"melidash/internal/domain/entity"
	"melidash/pkg/contextx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

const (
	DefaultInviteTTL = 7 * 24 * time.Hour
	resetTTL         = time.Hour
	minPasswordLen   = 8
)

// Repositories return domain errors: UserNotFound, InviteNotFound and
// EmailAlreadyInUse on a duplicate user email. InviteRepository.Accept
// returns InviteNotPending when the invite was consumed concurrently.

type UserRepository interface {
	List(ctx context.Context) ([]entity.User, error)
	GetByID(ctx context.Context, id string) (entity.User, error)
	GetByEmail(ctx context.Context, email string) (entity.User, error)
	Create(ctx context.Context, user entity.User) error
	Update(ctx context.Context, user entity.User) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

type InviteRepository interface {
	List(ctx context.Context) ([]entity.Invite, error)
	GetByID(ctx context.Context, id string) (entity.Invite, error)
	GetByToken(ctx context.Context, token string) (entity.Invite, error)
	Create(ctx context.Context, invite entity.Invite) error
	Update(ctx context.Context, invite entity.Invite) error
	// Accept creates user and marks the pending invite accepted atomically.
	Accept(ctx context.Context, invite entity.Invite, user entity.User) error
}

type PasswordResetRepository interface {
	Save(ctx context.Context, reset entity.PasswordReset) error
}

type Mailer interface {
	SendInvite(ctx context.Context, invite entity.Invite) error
	SendPasswordReset(ctx context.Context, reset entity.PasswordReset) error
}

type Service struct {
	users   UserRepository
	invites InviteRepository
	resets  PasswordResetRepository
	mailer  Mailer
	tokens  *TokenIssuer

	inviteTTL time.Duration
	now       func() time.Time

	// inviteMu serializes invite state transitions.
	inviteMu sync.Mutex
}

func NewService(
	users UserRepository,
	invites InviteRepository,
	resets PasswordResetRepository,
	mailer Mailer,
	tokens *TokenIssuer,
) *Service {
	return &Service{
		users:     users,
		invites:   invites,
		resets:    resets,
		mailer:    mailer,
		tokens:    tokens,
		inviteTTL: DefaultInviteTTL,
		now:       time.Now,
	}
}

func (s *Service) WithInviteTTL(ttl time.Duration) *Service {
	if ttl > 0 {
		s.inviteTTL = ttl
	}

	return s
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	s.tokens.now = now

	return s
}
