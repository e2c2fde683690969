package mailer

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"melidash/internal/domain/entity"
	"melidash/internal/domain/value"
	"melidash/pkg/contextx"
)

func TestLogMailer(t *testing.T) {
	r := require.New(t)

	var buf bytes.Buffer
	ctx := contextx.WithLogger(context.Background(), slog.New(slog.NewTextHandler(&buf, nil)))

	m := NewLogMailer("https://dash.example.com/")
	r.Equal("https://dash.example.com/register?token=a+b", m.InviteLink("a b"))

	err := m.SendInvite(ctx, entity.Invite{
		Email:     "ana@example.com",
		Role:      value.RoleViewer,
		Token:     "tok",
		ExpiresAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	r.NoError(err)
	r.Contains(buf.String(), "to=ana@example.com")
	r.Contains(buf.String(), "register?token=tok")
}
