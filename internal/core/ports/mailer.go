package ports

import (
	"context"
)

// Email is one outgoing notification message.
type Email struct {
	To      []string
	Subject string
	Body    string
}

// Mailer defines the contract for sending notification emails. Delivery is
// best effort; callers retry through the outbox, never inline.
type Mailer interface {
	Send(ctx context.Context, email Email) error
}
