package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-telegram/bot"
)

// TelegramNotifier pushes operator notifications to a Telegram chat.
// Optional; wired only when a bot token and chat id are configured.
type TelegramNotifier struct {
	bot    *bot.Bot
	chatID int64
	logger *slog.Logger
}

// NewTelegramNotifier creates a new Telegram notifier
func NewTelegramNotifier(token string, chatID int64, logger *slog.Logger) (*TelegramNotifier, error) {
	b, err := bot.New(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	return &TelegramNotifier{
		bot:    b,
		chatID: chatID,
		logger: logger.With("component", "telegram_notifier"),
	}, nil
}

// Notify implements Notifier. Send failures are logged and swallowed.
func (n *TelegramNotifier) Notify(ctx context.Context, message string, kind Kind) {
	prefix := "✅"
	if kind == KindError {
		prefix = "⚠️"
	}

	_, err := n.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: n.chatID,
		Text:   prefix + " " + message,
	})
	if err != nil {
		n.logger.Error("failed to send telegram notification", "error", err)
	}
}
