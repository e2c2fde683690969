package admin_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"melidash/internal/domain"
	"melidash/internal/domain/entity"
	"melidash/internal/domain/service/admin"
	"melidash/internal/domain/value"
	"melidash/internal/infrastructure/persistence"
	"melidash/pkg/errcodes"
)

type mailerMock struct {
	mu      sync.Mutex
	invites []entity.Invite
	resets  []entity.PasswordReset
	err     error
}

func (m *mailerMock) SendInvite(_ context.Context, invite entity.Invite) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.invites = append(m.invites, invite)

	return m.err
}

func (m *mailerMock) SendPasswordReset(_ context.Context, reset entity.PasswordReset) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.resets = append(m.resets, reset)

	return m.err
}

type inviteRepoStub struct {
	*persistence.MemoryInviteRepository

	acceptErr error
}

func (s *inviteRepoStub) Accept(ctx context.Context, invite entity.Invite, user entity.User) error {
	if s.acceptErr != nil {
		return s.acceptErr
	}

	return s.MemoryInviteRepository.Accept(ctx, invite, user)
}

type fixture struct {
	svc     *admin.Service
	users   *persistence.MemoryUserRepository
	invites *inviteRepoStub
	resets  *persistence.MemoryPasswordResetRepository
	mailer  *mailerMock
	now     time.Time
}

func (f *fixture) advance(d time.Duration) {
	f.now = f.now.Add(d)
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		users:  persistence.NewMemoryUserRepository(),
		resets: persistence.NewMemoryPasswordResetRepository(),
		mailer: &mailerMock{},
		now:    time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC),
	}
	f.invites = &inviteRepoStub{MemoryInviteRepository: persistence.NewMemoryInviteRepository(f.users)}

	tokens := admin.NewTokenIssuer("test-secret", time.Hour)
	f.svc = admin.NewService(f.users, f.invites, f.resets, f.mailer, tokens).
		WithClock(func() time.Time { return f.now })

	require.NoError(t, f.svc.EnsureBootstrapAdmin(context.Background(), "Admin@Example.com", "admin1234"))

	return f
}

func (f *fixture) adminSession(t *testing.T) admin.Session {
	t.Helper()

	session, err := f.svc.Login(context.Background(), "admin@example.com", "admin1234")
	require.NoError(t, err)

	return session
}

func TestEnsureBootstrapAdmin(t *testing.T) {
	r := require.New(t)
	ctx := context.Background()
	f := newFixture(t)

	// A second call is a no-op once users exist.
	r.NoError(f.svc.EnsureBootstrapAdmin(ctx, "other@example.com", "other1234"))

	users, err := f.svc.ListUsers(ctx)
	r.NoError(err)
	r.Len(users, 1)
	r.Equal("admin@example.com", users[0].Email)
	r.Equal(value.RoleAdmin, users[0].Role)
}

func TestInviteRegisterLogin(t *testing.T) {
	r := require.New(t)
	ctx := context.Background()
	f := newFixture(t)
	session := f.adminSession(t)

	invite, err := f.svc.CreateInvite(ctx, session.User.ID, " Bo@Example.com ", value.RoleManager)
	r.NoError(err)
	r.Equal("bo@example.com", invite.Email)
	r.Equal(value.InvitePending, invite.Status)
	r.NotEmpty(invite.Token)
	r.Len(f.mailer.invites, 1)

	_, err = f.svc.CreateInvite(ctx, session.User.ID, "bo@example.com", value.RoleViewer)
	r.True(domain.HasCode(err, errcodes.EmailAlreadyInUse))

	_, err = f.svc.Register(ctx, invite.Token, "Bo", "short1")
	r.True(domain.HasCode(err, errcodes.InvalidPasswordFormat))

	_, err = f.svc.Register(ctx, invite.Token, "Bo", "lettersonly")
	r.True(domain.HasCode(err, errcodes.InvalidPasswordFormat))

	user, err := f.svc.Register(ctx, invite.Token, "Bo", "secret123")
	r.NoError(err)
	r.Equal(value.RoleManager, user.Role)
	r.Equal(value.UserActive, user.Status)

	_, err = f.svc.Register(ctx, invite.Token, "Bo", "secret123")
	r.True(domain.HasCode(err, errcodes.InviteNotPending))

	_, err = f.svc.Login(ctx, "bo@example.com", "wrong-pass1")
	r.True(domain.HasCode(err, errcodes.CredentialsMismatch))

	_, err = f.svc.Login(ctx, "nobody@example.com", "secret123")
	r.True(domain.HasCode(err, errcodes.CredentialsMismatch))

	login, err := f.svc.Login(ctx, "BO@example.com", "secret123")
	r.NoError(err)
	r.Equal(f.now.Add(time.Hour), login.ExpiresAt)
	r.NotNil(login.User.LastLoginAt)

	claims, err := f.svc.Authenticate(ctx, login.AccessToken)
	r.NoError(err)
	r.Equal(user.ID, claims.UserID())
	r.Equal(value.RoleManager, claims.Role)

	_, err = f.svc.CreateInvite(ctx, session.User.ID, "bo@example.com", value.RoleViewer)
	r.True(domain.HasCode(err, errcodes.EmailAlreadyInUse))
}

func TestRegisterFailureLeavesInviteUsable(t *testing.T) {
	r := require.New(t)
	ctx := context.Background()
	f := newFixture(t)
	session := f.adminSession(t)

	invite, err := f.svc.CreateInvite(ctx, session.User.ID, "cy@example.com", value.RoleViewer)
	r.NoError(err)

	f.invites.acceptErr = errors.New("connection reset")

	_, err = f.svc.Register(ctx, invite.Token, "Cy", "secret123")
	r.ErrorContains(err, "connection reset")

	count, err := f.users.Count(ctx)
	r.NoError(err)
	r.Equal(1, count)

	pending, err := f.svc.VerifyInvite(ctx, invite.Token)
	r.NoError(err)
	r.Equal(value.InvitePending, pending.Status)

	f.invites.acceptErr = nil

	user, err := f.svc.Register(ctx, invite.Token, "Cy", "secret123")
	r.NoError(err)
	r.Equal("cy@example.com", user.Email)

	_, err = f.svc.VerifyInvite(ctx, invite.Token)
	r.True(domain.HasCode(err, errcodes.InviteNotPending))
}

func TestInviteExpiry(t *testing.T) {
	r := require.New(t)
	ctx := context.Background()
	f := newFixture(t)
	f.svc.WithInviteTTL(24 * time.Hour)

	invite, err := f.svc.CreateInvite(ctx, "admin", "cy@example.com", value.RoleViewer)
	r.NoError(err)

	f.advance(24 * time.Hour)

	_, err = f.svc.VerifyInvite(ctx, invite.Token)
	r.True(domain.HasCode(err, errcodes.InviteExpired))

	invites, err := f.svc.ListInvites(ctx)
	r.NoError(err)
	r.Len(invites, 1)
	r.Equal(value.InviteExpired, invites[0].Status)

	// An expired invite no longer blocks a new one.
	_, err = f.svc.CreateInvite(ctx, "admin", "cy@example.com", value.RoleViewer)
	r.NoError(err)
}

func TestUpdateInvite(t *testing.T) {
	r := require.New(t)
	ctx := context.Background()
	f := newFixture(t)

	invite, err := f.svc.CreateInvite(ctx, "admin", "di@example.com", value.RoleViewer)
	r.NoError(err)

	f.advance(time.Hour)

	resent, err := f.svc.UpdateInvite(ctx, invite.ID, admin.InviteActionResend)
	r.NoError(err)
	r.NotEqual(invite.Token, resent.Token)
	r.True(resent.ExpiresAt.After(invite.ExpiresAt))
	r.Len(f.mailer.invites, 2)

	_, err = f.svc.VerifyInvite(ctx, invite.Token)
	r.True(domain.HasCode(err, errcodes.InviteNotFound))

	revoked, err := f.svc.UpdateInvite(ctx, invite.ID, admin.InviteActionRevoke)
	r.NoError(err)
	r.Equal(value.InviteRevoked, revoked.Status)

	_, err = f.svc.UpdateInvite(ctx, invite.ID, admin.InviteActionResend)
	r.True(domain.HasCode(err, errcodes.InviteNotPending))

	_, err = f.svc.Register(ctx, resent.Token, "Di", "secret123")
	r.True(domain.HasCode(err, errcodes.InviteNotPending))

	_, err = f.svc.UpdateInvite(ctx, "missing", admin.InviteActionRevoke)
	r.True(domain.HasCode(err, errcodes.InviteNotFound))
}

func TestInviteMailerFailureKeepsInvite(t *testing.T) {
	r := require.New(t)
	ctx := context.Background()
	f := newFixture(t)
	f.mailer.err = errors.New("smtp down")

	invite, err := f.svc.CreateInvite(ctx, "admin", "ed@example.com", value.RoleViewer)
	r.NoError(err)

	_, err = f.svc.VerifyInvite(ctx, invite.Token)
	r.NoError(err)
}

func TestUpdateAndDeleteUser(t *testing.T) {
	r := require.New(t)
	ctx := context.Background()
	f := newFixture(t)
	session := f.adminSession(t)

	invite, err := f.svc.CreateInvite(ctx, session.User.ID, "fe@example.com", value.RoleViewer)
	r.NoError(err)

	user, err := f.svc.Register(ctx, invite.Token, "Fe", "secret123")
	r.NoError(err)

	login, err := f.svc.Login(ctx, "fe@example.com", "secret123")
	r.NoError(err)

	blank := "  "
	_, err = f.svc.UpdateUser(ctx, session.User.ID, user.ID, entity.UserUpdate{Name: &blank})
	r.True(domain.HasCode(err, errcodes.ValidationError))

	role := value.RoleManager
	updated, err := f.svc.UpdateUser(ctx, session.User.ID, user.ID, entity.UserUpdate{Role: &role})
	r.NoError(err)
	r.Equal(value.RoleManager, updated.Role)
	r.Equal("Fe", updated.Name)

	// Role changes apply to tokens issued before them.
	claims, err := f.svc.Authenticate(ctx, login.AccessToken)
	r.NoError(err)
	r.Equal(value.RoleManager, claims.Role)

	inactive := value.UserInactive
	_, err = f.svc.UpdateUser(ctx, session.User.ID, user.ID, entity.UserUpdate{Status: &inactive})
	r.NoError(err)

	_, err = f.svc.Authenticate(ctx, login.AccessToken)
	r.True(domain.HasCode(err, errcodes.Unauthorized))

	_, err = f.svc.Login(ctx, "fe@example.com", "secret123")
	r.True(domain.HasCode(err, errcodes.Forbidden))

	r.True(domain.HasCode(f.svc.DeleteUser(ctx, session.User.ID, session.User.ID), errcodes.CannotDeleteSelf))

	viewer := value.RoleViewer
	_, err = f.svc.UpdateUser(ctx, session.User.ID, session.User.ID, entity.UserUpdate{Role: &viewer})
	r.True(domain.HasCode(err, errcodes.CannotChangeOwnAccess))

	_, err = f.svc.UpdateUser(ctx, session.User.ID, session.User.ID, entity.UserUpdate{Status: &inactive})
	r.True(domain.HasCode(err, errcodes.CannotChangeOwnAccess))

	self, err := f.svc.GetUser(ctx, session.User.ID)
	r.NoError(err)
	r.Equal(value.RoleAdmin, self.Role)
	r.Equal(value.UserActive, self.Status)

	// Renaming and restating the current role are allowed.
	name := "Root"
	adminRole := value.RoleAdmin
	renamed, err := f.svc.UpdateUser(ctx, session.User.ID, session.User.ID, entity.UserUpdate{Name: &name, Role: &adminRole})
	r.NoError(err)
	r.Equal("Root", renamed.Name)
	r.NoError(f.svc.DeleteUser(ctx, session.User.ID, user.ID))

	_, err = f.svc.GetUser(ctx, user.ID)
	r.True(domain.HasCode(err, errcodes.UserNotFound))
}

func TestAuthenticateRejectsBadTokens(t *testing.T) {
	r := require.New(t)
	ctx := context.Background()
	f := newFixture(t)
	session := f.adminSession(t)

	_, err := f.svc.Authenticate(ctx, "not-a-jwt")
	r.True(domain.HasCode(err, errcodes.AccessTokenInvalid))

	other := admin.NewTokenIssuer("other-secret", time.Hour)
	forged, _, err := other.Issue(session.User)
	r.NoError(err)

	_, err = f.svc.Authenticate(ctx, forged)
	r.True(domain.HasCode(err, errcodes.AccessTokenInvalid))

	f.advance(2 * time.Hour)

	_, err = f.svc.Authenticate(ctx, session.AccessToken)
	r.True(domain.HasCode(err, errcodes.AccessTokenExpired))
}

func TestForgotPassword(t *testing.T) {
	r := require.New(t)
	ctx := context.Background()
	f := newFixture(t)

	f.svc.ForgotPassword(ctx, "nobody@example.com")
	r.Empty(f.mailer.resets)

	f.svc.ForgotPassword(ctx, " ADMIN@example.com")
	r.Len(f.mailer.resets, 1)

	reset, ok := f.resets.Get("admin@example.com")
	r.True(ok)
	r.Equal(f.mailer.resets[0].Token, reset.Token)
	r.Equal(f.now.Add(time.Hour), reset.ExpiresAt)
}
