package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/freightwiz/loadscout/internal/mailer"
	"github.com/freightwiz/loadscout/internal/notify"
	"github.com/freightwiz/loadscout/internal/render"
	"github.com/freightwiz/loadscout/internal/store"
	"github.com/freightwiz/loadscout/pkg/models"
)

// ErrNoTemplate is returned when no template exists for a one-click send
var ErrNoTemplate = errors.New("no email template found")

// ErrNoRecipient is returned when a load has no broker email and no prompt
// supplied one
var ErrNoRecipient = errors.New("no recipient address")

// RecipientPrompt solicits a recipient address when a load carries none.
// Returning an empty address cancels the send.
type RecipientPrompt func(ctx context.Context, rec *models.LoadRecord) (string, error)

// Dispatcher wires rendered inquiries to the mail transport and keeps the
// emailed-set and stats bookkeeping. A LoadRecord is only held for the
// duration of one call.
type Dispatcher struct {
	store     *store.Store
	transport mailer.Transport
	notifier  notify.Notifier
	prompt    RecipientPrompt
	logger    *slog.Logger
}

// Deps dependencies for creating a dispatcher
type Deps struct {
	Store     *store.Store
	Transport mailer.Transport
	Notifier  notify.Notifier
	// Prompt is optional; when nil a missing recipient aborts the send.
	Prompt RecipientPrompt
	Logger *slog.Logger
}

// NewDispatcher creates a new action dispatcher
func NewDispatcher(deps Deps) *Dispatcher {
	return &Dispatcher{
		store:     deps.Store,
		transport: deps.Transport,
		notifier:  deps.Notifier,
		prompt:    deps.Prompt,
		logger:    deps.Logger.With("component", "dispatcher"),
	}
}

// SendOneClick renders the default template against the load and the active
// account, hands the message to the transport, and records the send. The
// recoverable failures (no template, no recipient) abort with no side
// effects. The active account drives the signature and attribution only;
// whether it becomes the actual From depends on the transport.
func (d *Dispatcher) SendOneClick(ctx context.Context, rec *models.LoadRecord) error {
	tpl, err := d.store.DefaultTemplate(ctx)
	if err != nil {
		// A broken storage read degrades to "no data available".
		if !errors.Is(err, store.ErrNotFound) {
			d.logger.Error("failed to read templates", "error", err)
		}
		d.notifier.Notify(ctx, "No email template found. Create one first.", notify.KindError)
		return ErrNoTemplate
	}

	acct := d.activeAccount(ctx)

	to := rec.BrokerEmail
	if to == "" {
		to, err = d.solicitRecipient(ctx, rec)
		if err != nil {
			d.notifier.Notify(ctx, "Send cancelled - no recipient address", notify.KindError)
			return err
		}
	}

	msg := render.Render(tpl, rec, acct)
	email := mailer.Email{To: to, Subject: msg.Subject, Body: msg.Body}
	if acct != nil {
		email.From = acct.Email
	}

	if err := d.transport.Send(ctx, email); err != nil {
		d.notifier.Notify(ctx, "Failed to open email. Please try again.", notify.KindError)
		return fmt.Errorf("failed to hand off email: %w", err)
	}

	// The hand-off counts as sent. Persistence failures below must not undo
	// that: log and continue, the in-memory outcome stands.
	if err := d.store.MarkEmailed(ctx, rec.LoadID); err != nil {
		d.logger.Error("failed to record emailed load", "load_id", rec.LoadID, "error", err)
	}
	if err := d.store.RecordSend(ctx); err != nil {
		d.logger.Error("failed to update stats", "error", err)
	}

	who := rec.BrokerName
	if who == "" {
		who = to
	}
	d.notifier.Notify(ctx, fmt.Sprintf("Email opened for %s!", who), notify.KindSuccess)
	return nil
}

// OpenCompose hands off a route-only subject with no body, letting the
// operator write the inquiry themselves. No stats, no emailed-set entry:
// a careful manual inquiry is not a fired template.
func (d *Dispatcher) OpenCompose(ctx context.Context, rec *models.LoadRecord) error {
	to := rec.BrokerEmail
	if to == "" {
		var err error
		to, err = d.solicitRecipient(ctx, rec)
		if err != nil {
			d.notifier.Notify(ctx, "Compose cancelled - no recipient address", notify.KindError)
			return err
		}
	}

	email := mailer.Email{To: to, Subject: render.ComposeSubject(rec)}
	if err := d.transport.Send(ctx, email); err != nil {
		d.notifier.Notify(ctx, "Failed to open compose window.", notify.KindError)
		return fmt.Errorf("failed to hand off compose: %w", err)
	}

	d.notifier.Notify(ctx, "Compose window opened!", notify.KindSuccess)
	return nil
}

// AlreadyEmailed reports whether a load id is in the emailed set. Best
// effort: synthetic ids are not stable across page reloads.
func (d *Dispatcher) AlreadyEmailed(ctx context.Context, loadID string) bool {
	emailed, err := d.store.WasEmailed(ctx, loadID)
	if err != nil {
		d.logger.Error("failed to check emailed set", "error", err)
		return false
	}
	return emailed
}

func (d *Dispatcher) activeAccount(ctx context.Context) *models.EmailAccount {
	acct, err := d.store.ActiveAccount(ctx)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			d.logger.Error("failed to resolve active account", "error", err)
		}
		return nil
	}
	return acct
}

func (d *Dispatcher) solicitRecipient(ctx context.Context, rec *models.LoadRecord) (string, error) {
	if d.prompt == nil {
		return "", ErrNoRecipient
	}
	to, err := d.prompt(ctx, rec)
	if err != nil {
		return "", fmt.Errorf("recipient prompt failed: %w", err)
	}
	if to == "" {
		return "", ErrNoRecipient
	}
	return to, nil
}
