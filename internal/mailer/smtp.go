package mailer

import (
	"context"
	"fmt"
	"log/slog"

	"gopkg.in/gomail.v2"
)

// SMTPConfig for the SMTP transport
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
}

// SMTPTransport sends composed inquiries through an SMTP relay. Unlike the
// mailto hand-off it can set the From header from the active account.
type SMTPTransport struct {
	dialer *gomail.Dialer
	from   string // fallback when the message carries no From
	logger *slog.Logger
}

// NewSMTPTransport creates a new SMTP transport
func NewSMTPTransport(cfg SMTPConfig, logger *slog.Logger) *SMTPTransport {
	return &SMTPTransport{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.Username,
		logger: logger.With("component", "smtp_transport"),
	}
}

// Send delivers the message through the configured relay.
func (t *SMTPTransport) Send(ctx context.Context, msg Email) error {
	if msg.To == "" {
		return fmt.Errorf("smtp requires a recipient")
	}

	from := msg.From
	if from == "" {
		from = t.from
	}

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)

	if err := t.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send via smtp: %w", err)
	}
	t.logger.Info("inquiry sent", "to", msg.To, "from", from)
	return nil
}
