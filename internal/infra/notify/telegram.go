// File: internal/infra/notify/telegram.go
package notify

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"ftth-billing/internal/domain/model"
	"ftth-billing/internal/domain/ports/adapter"
)

var _ adapter.AlertNotifier = (*TelegramNotifier)(nil)

// TelegramNotifier pushes operator alerts to the configured admin
// chats.
type TelegramNotifier struct {
	bot     *tgbotapi.BotAPI
	chatIDs []int64
	log     zerolog.Logger
}

func NewTelegramNotifier(token string, chatIDs []int64, logger *zerolog.Logger) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot init: %w", err)
	}
	return &TelegramNotifier{
		bot:     bot,
		chatIDs: chatIDs,
		log:     logger.With().Str("component", "telegram-notifier").Logger(),
	}, nil
}

func (t *TelegramNotifier) Notify(ctx context.Context, alert model.Alert) error {
	text := formatAlert(alert)
	var firstErr error
	for _, chatID := range t.chatIDs {
		msg := tgbotapi.NewMessage(chatID, text)
		if _, err := t.bot.Send(msg); err != nil {
			t.log.Warn().Err(err).Int64("chat_id", chatID).Msg("telegram send failed")
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func formatAlert(alert model.Alert) string {
	var b strings.Builder
	switch alert.Severity {
	case model.SeverityCritical:
		b.WriteString("🚨 ")
	case model.SeverityWarning:
		b.WriteString("⚠️ ")
	default:
		b.WriteString("ℹ️ ")
	}
	b.WriteString(alert.Title)
	b.WriteString("\n")
	b.WriteString(alert.Message)
	for k, v := range alert.Payload {
		fmt.Fprintf(&b, "\n%s: %s", k, v)
	}
	return b.String()
}
