package mailer

import "context"

// Email is a composed message handed to a transport. From is advisory: the
// mailto transport cannot carry it and no transport reports delivery back.
type Email struct {
	To      string
	From    string
	Subject string
	Body    string
}

// Transport opens a compose surface or sends the message outright. The
// hand-off itself counts as "sent"; delivery is outside this system.
type Transport interface {
	Send(ctx context.Context, msg Email) error
}
