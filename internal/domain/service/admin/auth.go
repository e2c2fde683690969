package admin

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"melidash/internal/domain"
	"melidash/internal/domain/entity"
	"melidash/internal/domain/value"
	"melidash/pkg/errcodes"
	"melidash/pkg/logx"
)

// Register creates an active account from a pending invite and consumes it.
func (s *Service) Register(ctx context.Context, token, name, password string) (entity.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return entity.User{}, domain.NewError(errcodes.ValidationError, "name is required")
	}

	if err := validatePassword(password); err != nil {
		return entity.User{}, err
	}

	s.inviteMu.Lock()
	defer s.inviteMu.Unlock()

	invite, err := s.VerifyInvite(ctx, token)
	if err != nil {
		return entity.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return entity.User{}, fmt.Errorf("bcrypt.GenerateFromPassword: %w", err)
	}

	now := s.now()
	user := entity.User{
		ID:           uuid.NewString(),
		Email:        invite.Email,
		Name:         name,
		Role:         invite.Role,
		Status:       value.UserActive,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.invites.Accept(ctx, invite, user); err != nil {
		return entity.User{}, fmt.Errorf("invites.Accept: %w", err)
	}

	logger(ctx).Info("user registered", slog.String(logx.FieldUserID, user.ID), slog.String("role", string(user.Role)))

	return user, nil
}

type Session struct {
	AccessToken string
	ExpiresAt   time.Time
	User        entity.User
}

// Login checks the credentials and issues an access token.
func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if domain.HasCode(err, errcodes.UserNotFound) {
		return Session{}, domain.NewError(errcodes.CredentialsMismatch, "invalid email or password")
	}

	if err != nil {
		return Session{}, fmt.Errorf("users.GetByEmail: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return Session{}, domain.NewError(errcodes.CredentialsMismatch, "invalid email or password")
	}

	if user.Status != value.UserActive {
		return Session{}, domain.NewError(errcodes.Forbidden, "account is inactive")
	}

	now := s.now()
	user.LastLoginAt = &now

	if err := s.users.Update(ctx, user); err != nil {
		return Session{}, fmt.Errorf("users.Update: %w", err)
	}

	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return Session{}, fmt.Errorf("tokens.Issue: %w", err)
	}

	return Session{AccessToken: token, ExpiresAt: expiresAt, User: user}, nil
}

// Authenticate resolves an access token to an active user.
func (s *Service) Authenticate(ctx context.Context, token string) (Claims, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return Claims{}, err
	}

	user, err := s.users.GetByID(ctx, claims.UserID())
	if domain.HasCode(err, errcodes.UserNotFound) {
		return Claims{}, domain.NewError(errcodes.Unauthorized, "account no longer exists")
	}

	if err != nil {
		return Claims{}, fmt.Errorf("users.GetByID: %w", err)
	}

	if user.Status != value.UserActive {
		return Claims{}, domain.NewError(errcodes.Unauthorized, "account is inactive")
	}

	// Role changes apply without a new login.
	claims.Role = user.Role

	return claims, nil
}

// ForgotPassword never reveals whether the email is registered.
func (s *Service) ForgotPassword(ctx context.Context, email string) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if !domain.HasCode(err, errcodes.UserNotFound) {
			logger(ctx).Error("users.GetByEmail", logx.Error(err))
		}

		return
	}

	if user.Status != value.UserActive {
		return
	}

	reset := entity.PasswordReset{
		Email:     user.Email,
		Token:     rand.Text(),
		ExpiresAt: s.now().Add(resetTTL),
	}

	if err := s.resets.Save(ctx, reset); err != nil {
		logger(ctx).Error("resets.Save", logx.Error(err))
		return
	}

	if err := s.mailer.SendPasswordReset(ctx, reset); err != nil {
		logger(ctx).Error("mailer.SendPasswordReset", logx.Error(err))
	}
}

// EnsureBootstrapAdmin creates the first admin when there are no users yet.
func (s *Service) EnsureBootstrapAdmin(ctx context.Context, email, password string) error {
	if email == "" {
		return nil
	}

	count, err := s.users.Count(ctx)
	if err != nil {
		return fmt.Errorf("users.Count: %w", err)
	}

	if count > 0 {
		return nil
	}

	if err := validatePassword(password); err != nil {
		return fmt.Errorf("bootstrap password: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("bcrypt.GenerateFromPassword: %w", err)
	}

	now := s.now()
	admin := entity.User{
		ID:           uuid.NewString(),
		Email:        normalizeEmail(email),
		Name:         "Administrator",
		Role:         value.RoleAdmin,
		Status:       value.UserActive,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, admin); err != nil {
		return fmt.Errorf("users.Create: %w", err)
	}

	logger(ctx).Info("bootstrap admin created", slog.String(logx.FieldUserID, admin.ID))

	return nil
}

// validatePassword requires at least 8 characters with a letter and a digit.
func validatePassword(password string) error {
	var letter, digit bool

	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			letter = true
		case unicode.IsDigit(r):
			digit = true
		}
	}

	if len([]rune(password)) < minPasswordLen || !letter || !digit {
		return domain.NewError(
			errcodes.InvalidPasswordFormat,
			"password must be at least 8 characters and contain a letter and a digit",
		)
	}

	return nil
}
