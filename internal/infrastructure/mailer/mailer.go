// Package mailer delivers account emails. The log mailer writes the links
// to the structured log instead of sending mail.
package mailer

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"melidash/internal/domain/entity"
	"melidash/pkg/contextx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

type LogMailer struct {
	baseURL string
}

func NewLogMailer(baseURL string) *LogMailer {
	return &LogMailer{baseURL: strings.TrimRight(baseURL, "/")}
}

func (m *LogMailer) SendInvite(ctx context.Context, invite entity.Invite) error {
	logger(ctx).Info(
		"invite email",
		slog.String("to", invite.Email),
		slog.String("role", invite.Role.String()),
		slog.String("link", m.InviteLink(invite.Token)),
		slog.Time("expires-at", invite.ExpiresAt),
	)

	return nil
}

func (m *LogMailer) SendPasswordReset(ctx context.Context, reset entity.PasswordReset) error {
	logger(ctx).Info(
		"password reset email",
		slog.String("to", reset.Email),
		slog.String("link", m.link("/reset-password", reset.Token)),
		slog.Time("expires-at", reset.ExpiresAt),
	)

	return nil
}

func (m *LogMailer) InviteLink(token string) string {
	return m.link("/register", token)
}

func (m *LogMailer) link(path, token string) string {
	return m.baseURL + path + "?" + url.Values{"token": {token}}.Encode()
}
