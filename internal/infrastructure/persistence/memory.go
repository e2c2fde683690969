package persistence

import (
	"context"
	"sync"

	"melidash/internal/domain"
	"melidash/internal/domain/entity"
	"melidash/internal/domain/value"
	"melidash/pkg/errcodes"
)

// In-memory repositories back the service when no DSN is configured.

type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]entity.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[string]entity.User)}
}

func (r *MemoryUserRepository) List(context.Context) ([]entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]entity.User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, u)
	}

	return users, nil
}

func (r *MemoryUserRepository) GetByID(_ context.Context, id string) (entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return entity.User{}, domain.NewError(errcodes.UserNotFound, "user not found")
	}

	return u, nil
}

func (r *MemoryUserRepository) GetByEmail(_ context.Context, email string) (entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}

	return entity.User{}, domain.NewError(errcodes.UserNotFound, "user not found")
}

func (r *MemoryUserRepository) Create(_ context.Context, user entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == user.Email {
			return domain.NewError(errcodes.EmailAlreadyInUse, "email is already in use")
		}
	}

	r.users[user.ID] = user

	return nil
}

func (r *MemoryUserRepository) Update(_ context.Context, user entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; !ok {
		return domain.NewError(errcodes.UserNotFound, "user not found")
	}

	r.users[user.ID] = user

	return nil
}

func (r *MemoryUserRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return domain.NewError(errcodes.UserNotFound, "user not found")
	}

	delete(r.users, id)

	return nil
}

func (r *MemoryUserRepository) Count(context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.users), nil
}

type MemoryInviteRepository struct {
	users *MemoryUserRepository

	mu      sync.RWMutex
	invites map[string]entity.Invite
}

// NewMemoryInviteRepository stores accepted users in users.
func NewMemoryInviteRepository(users *MemoryUserRepository) *MemoryInviteRepository {
	return &MemoryInviteRepository{
		users:   users,
		invites: make(map[string]entity.Invite),
	}
}

func (r *MemoryInviteRepository) List(context.Context) ([]entity.Invite, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	invites := make([]entity.Invite, 0, len(r.invites))
	for _, i := range r.invites {
		invites = append(invites, i)
	}

	return invites, nil
}

func (r *MemoryInviteRepository) GetByID(_ context.Context, id string) (entity.Invite, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.invites[id]
	if !ok {
		return entity.Invite{}, domain.NewError(errcodes.InviteNotFound, "invite not found")
	}

	return i, nil
}

func (r *MemoryInviteRepository) GetByToken(_ context.Context, token string) (entity.Invite, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, i := range r.invites {
		if i.Token == token {
			return i, nil
		}
	}

	return entity.Invite{}, domain.NewError(errcodes.InviteNotFound, "invite not found")
}

func (r *MemoryInviteRepository) Create(_ context.Context, invite entity.Invite) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.invites[invite.ID] = invite

	return nil
}

func (r *MemoryInviteRepository) Update(_ context.Context, invite entity.Invite) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.invites[invite.ID]; !ok {
		return domain.NewError(errcodes.InviteNotFound, "invite not found")
	}

	r.invites[invite.ID] = invite

	return nil
}

func (r *MemoryInviteRepository) Accept(ctx context.Context, invite entity.Invite, user entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.invites[invite.ID]
	if !ok {
		return domain.NewError(errcodes.InviteNotFound, "invite not found")
	}

	if stored.Status != value.InvitePending {
		return domain.NewError(errcodes.InviteNotPending, "invite is no longer pending")
	}

	if err := r.users.Create(ctx, user); err != nil {
		return err
	}

	stored.Status = value.InviteAccepted
	r.invites[invite.ID] = stored

	return nil
}

type MemoryPasswordResetRepository struct {
	mu     sync.Mutex
	resets map[string]entity.PasswordReset
}

func NewMemoryPasswordResetRepository() *MemoryPasswordResetRepository {
	return &MemoryPasswordResetRepository{resets: make(map[string]entity.PasswordReset)}
}

func (r *MemoryPasswordResetRepository) Save(_ context.Context, reset entity.PasswordReset) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.resets[reset.Email] = reset

	return nil
}

// Get returns the latest reset issued for the email.
func (r *MemoryPasswordResetRepository) Get(email string) (entity.PasswordReset, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	reset, ok := r.resets[email]

	return reset, ok
}
