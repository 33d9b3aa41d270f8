// Package mailer is the outbound notification sink. Delivery is
// best-effort: callers log failures and never roll back data mutations
// because an email did not go out.
package mailer

import "context"

// Sink sends a plain-text email to a list of recipients.
type Sink interface {
	Send(ctx context.Context, recipients []string, subject, body string) error
}

// Nop discards all mail. Used when no sender address is configured and
// in tests that don't care about delivery.
type Nop struct{}

func (Nop) Send(ctx context.Context, recipients []string, subject, body string) error {
	return nil
}
