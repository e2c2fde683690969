package admin

import (
	"cmp"
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/google/uuid"

	"melidash/internal/domain"
	"melidash/internal/domain/entity"
	"melidash/internal/domain/value"
	"melidash/pkg/errcodes"
	"melidash/pkg/logx"
)

type InviteAction string

const (
	InviteActionResend InviteAction = "resend"
	InviteActionRevoke InviteAction = "revoke"
)

// ListInvites returns invites newest first, with lapsed pending invites
// reported as expired.
func (s *Service) ListInvites(ctx context.Context) ([]entity.Invite, error) {
	invites, err := s.invites.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("invites.List: %w", err)
	}

	now := s.now()
	for i := range invites {
		invites[i].Status = invites[i].EffectiveStatus(now)
	}

	slices.SortFunc(invites, func(a, b entity.Invite) int {
		return cmp.Compare(b.CreatedAt.UnixNano(), a.CreatedAt.UnixNano())
	})

	return invites, nil
}

// CreateInvite invites an email. There is at most one live pending invite
// per email and none for registered users.
func (s *Service) CreateInvite(ctx context.Context, actorID, email string, role value.Role) (entity.Invite, error) {
	email = normalizeEmail(email)

	s.inviteMu.Lock()
	defer s.inviteMu.Unlock()

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return entity.Invite{}, domain.NewError(errcodes.EmailAlreadyInUse, "a user with this email already exists")
	} else if !domain.HasCode(err, errcodes.UserNotFound) {
		return entity.Invite{}, fmt.Errorf("users.GetByEmail: %w", err)
	}

	invites, err := s.invites.List(ctx)
	if err != nil {
		return entity.Invite{}, fmt.Errorf("invites.List: %w", err)
	}

	now := s.now()

	for _, inv := range invites {
		if inv.Email == email && inv.EffectiveStatus(now) == value.InvitePending {
			return entity.Invite{}, domain.NewError(errcodes.EmailAlreadyInUse, "a pending invite already exists for this email")
		}
	}

	invite := entity.Invite{
		ID:        uuid.NewString(),
		Email:     email,
		Role:      role,
		Token:     rand.Text(),
		Status:    value.InvitePending,
		InvitedBy: actorID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.inviteTTL),
	}

	if err := s.invites.Create(ctx, invite); err != nil {
		return entity.Invite{}, fmt.Errorf("invites.Create: %w", err)
	}

	s.sendInvite(ctx, invite)

	return invite, nil
}

// UpdateInvite resends (new token and expiry) or revokes an invite.
// Accepted and revoked invites cannot change.
func (s *Service) UpdateInvite(ctx context.Context, id string, action InviteAction) (entity.Invite, error) {
	s.inviteMu.Lock()
	defer s.inviteMu.Unlock()

	invite, err := s.invites.GetByID(ctx, id)
	if err != nil {
		return entity.Invite{}, fmt.Errorf("invites.GetByID: %w", err)
	}

	if invite.Status != value.InvitePending {
		return entity.Invite{}, domain.Errorf(errcodes.InviteNotPending, "invite is %s", invite.Status)
	}

	now := s.now()

	switch action {
	case InviteActionResend:
		invite.Token = rand.Text()
		invite.ExpiresAt = now.Add(s.inviteTTL)
	case InviteActionRevoke:
		invite.Status = value.InviteRevoked
	default:
		return entity.Invite{}, domain.Errorf(errcodes.ValidationError, "unknown invite action %q", action)
	}

	if err := s.invites.Update(ctx, invite); err != nil {
		return entity.Invite{}, fmt.Errorf("invites.Update: %w", err)
	}

	if action == InviteActionResend {
		s.sendInvite(ctx, invite)
	}

	return invite, nil
}

// VerifyInvite resolves a registration token to its pending invite.
func (s *Service) VerifyInvite(ctx context.Context, token string) (entity.Invite, error) {
	invite, err := s.invites.GetByToken(ctx, token)
	if err != nil {
		return entity.Invite{}, fmt.Errorf("invites.GetByToken: %w", err)
	}

	switch invite.EffectiveStatus(s.now()) {
	case value.InvitePending:
		return invite, nil
	case value.InviteExpired:
		return entity.Invite{}, domain.NewError(errcodes.InviteExpired, "invite has expired")
	case value.InviteAccepted, value.InviteRevoked:
		return entity.Invite{}, domain.Errorf(errcodes.InviteNotPending, "invite is %s", invite.Status)
	default:
		return entity.Invite{}, domain.Errorf(errcodes.InviteNotPending, "invite is %s", invite.Status)
	}
}

// Mail delivery failures do not fail the invite; the admin can resend.
func (s *Service) sendInvite(ctx context.Context, invite entity.Invite) {
	if err := s.mailer.SendInvite(ctx, invite); err != nil {
		logger(ctx).Error("mailer.SendInvite", slog.String("invite-id", invite.ID), logx.Error(err))
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
