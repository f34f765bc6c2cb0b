package mailer

import "context"

// Service sends one email and returns the provider's message id, if any.
type Service interface {
	Send(ctx context.Context, toEmail, toName, subject, text, html string) (string, error)
}
