package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
)

// Opener hands a mailto URL to whatever opens the operator's mail client.
type Opener func(ctx context.Context, mailtoURL string) error

// MailtoTransport composes a mailto: URL and hands it to an opener. It has
// no way to set a From address; the active account is attribution only.
type MailtoTransport struct {
	open   Opener
	logger *slog.Logger
}

// NewMailtoTransport creates a mailto transport. A nil opener logs the URL,
// which is the headless-service behavior.
func NewMailtoTransport(open Opener, logger *slog.Logger) *MailtoTransport {
	t := &MailtoTransport{
		open:   open,
		logger: logger.With("component", "mailto_transport"),
	}
	if t.open == nil {
		t.open = t.logURL
	}
	return t
}

// Send builds the mailto URL and fires the opener.
func (t *MailtoTransport) Send(ctx context.Context, msg Email) error {
	if msg.To == "" {
		return fmt.Errorf("mailto requires a recipient")
	}
	return t.open(ctx, BuildMailtoURL(msg))
}

func (t *MailtoTransport) logURL(ctx context.Context, mailtoURL string) error {
	t.logger.Info("compose surface requested", "url", mailtoURL)
	return nil
}

// BuildMailtoURL encodes a message as a mailto: URL. Spaces are encoded as
// %20, not +, because mail clients do not decode form encoding.
func BuildMailtoURL(msg Email) string {
	var sb strings.Builder
	sb.WriteString("mailto:")
	sb.WriteString(msg.To)

	params := make([]string, 0, 2)
	if msg.Subject != "" {
		params = append(params, "subject="+escapeQuery(msg.Subject))
	}
	if msg.Body != "" {
		params = append(params, "body="+escapeQuery(msg.Body))
	}
	if len(params) > 0 {
		sb.WriteString("?")
		sb.WriteString(strings.Join(params, "&"))
	}
	return sb.String()
}

func escapeQuery(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
