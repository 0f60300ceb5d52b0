package notify

import (
	"context"
	"log/slog"
)

// Kind classifies an operator notification.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Notifier surfaces outcomes to the operator. Fire-and-forget: callers never
// consume a result, and a failing notifier must not fail the caller.
type Notifier interface {
	Notify(ctx context.Context, message string, kind Kind)
}

// LogNotifier writes notifications to the log.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a new log notifier
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With("component", "notifier")}
}

// Notify implements Notifier.
func (n *LogNotifier) Notify(ctx context.Context, message string, kind Kind) {
	if kind == KindError {
		n.logger.Error(message)
		return
	}
	n.logger.Info(message)
}
