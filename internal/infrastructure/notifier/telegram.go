// Package notifier delivers pricing alerts to a Telegram chat.
package notifier

import (
	"context"
	"fmt"
	"html"
	"log/slog"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"melidash/internal/domain/entity"
	"melidash/internal/domain/value"
	"melidash/pkg/contextx"
	"melidash/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

type TelegramBot struct {
	bot    *telego.Bot
	chatID int64
}

func NewTelegramBot(token string, chatID int64, opts ...telego.BotOption) (*TelegramBot, error) {
	bot, err := telego.NewBot(token, append([]telego.BotOption{telego.WithDiscardLogger()}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("telego.NewBot: %w", err)
	}

	return &TelegramBot{
		bot:    bot,
		chatID: chatID,
	}, nil
}

// NotifyAlert отправляет алерт о цене в чат.
func (b *TelegramBot) NotifyAlert(ctx context.Context, alert entity.PricingAlert) error {
	msg := tu.Message(tu.ID(b.chatID), AlertText(alert)).WithParseMode(telego.ModeHTML)

	if _, err := b.bot.SendMessage(ctx, msg); err != nil {
		return fmt.Errorf("bot.SendMessage: %w", err)
	}

	logger(ctx).Debug("alert delivered", slog.String(logx.FieldAlertID, alert.ID))

	return nil
}

// SendText отправляет простое текстовое сообщение.
func (b *TelegramBot) SendText(ctx context.Context, text string) error {
	if _, err := b.bot.SendMessage(ctx, tu.Message(tu.ID(b.chatID), text)); err != nil {
		return fmt.Errorf("bot.SendMessage: %w", err)
	}

	return nil
}

func AlertText(alert entity.PricingAlert) string {
	icon := "⚠️"
	if alert.Severity == value.SeverityHigh {
		icon = "🚨"
	}

	title := "Significant price change"
	if alert.Type == value.AlertExecutionFailed {
		title = "Pricing rule failed"
	}

	return fmt.Sprintf(
		"%s <b>%s</b>\n\n"+
			"📦 <b>Product:</b> %s\n"+
			"⚙️ <b>Rule:</b> %s\n"+
			"💰 <b>Price:</b> %.2f → %.2f\n"+
			"📊 <b>Severity:</b> %s\n\n"+
			"%s",
		icon,
		title,
		html.EscapeString(alert.ProductID),
		html.EscapeString(alert.RuleID),
		alert.OldPrice,
		alert.NewPrice,
		alert.Severity,
		html.EscapeString(alert.Message),
	)
}
