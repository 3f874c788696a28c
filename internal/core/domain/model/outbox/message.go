// Package outbox models queued notification emails. Messages are written in
// the same transaction as the order change that caused them and delivered
// later by a background worker, so the request path never waits on, or fails
// because of, the mail service.
package outbox

import (
	"errors"
	"fmt"
	"time"

	"checkout/internal/core/domain/model/kernel"
	"checkout/internal/pkg/errs"
)

// ErrMessageIsNotConstructed is returned when a Message instance was not
// created through the NewMessage factory method.
var ErrMessageIsNotConstructed = errors.New("Message must be created via NewMessage constructor")

// Kind identifies what triggered a notification.
type Kind string

const (
	// KindOrderConfirmation is the customer email sent after checkout.
	KindOrderConfirmation Kind = "order_confirmation"

	// KindStaffAlert is the internal new-order notification.
	KindStaffAlert Kind = "staff_alert"

	// KindShippingConfirmation is the customer email sent after label issuance.
	KindShippingConfirmation Kind = "shipping_confirmation"
)

// Validate checks if the Kind value is valid.
func (k Kind) Validate() error {
	switch k {
	case KindOrderConfirmation, KindStaffAlert, KindShippingConfirmation:
		return nil
	}
	return errs.NewValueIsInvalidErrorWithCause("kind", fmt.Errorf("%q is not a valid outbox kind", string(k)))
}

// Message is one pending or delivered notification email.
// Delivery is at-least-once with bounded attempts; a message whose attempts
// are exhausted stays in the store undelivered for inspection.
type Message struct {
	id            kernel.UUID
	kind          Kind
	orderID       kernel.UUID
	recipients    []string
	subject       string
	body          string
	attempts      int
	nextAttemptAt time.Time
	sentAt        *time.Time
	lastError     string
	createdAt     time.Time

	isConstructed bool
}

// NewMessage creates a pending Message scheduled for immediate delivery.
func NewMessage(id kernel.UUID, kind Kind, orderID kernel.UUID, recipients []string, subject, body string, now time.Time) (*Message, error) {
	if err := errors.Join(id.Validate(), kind.Validate(), orderID.Validate()); err != nil {
		return nil, err
	}
	if len(recipients) == 0 {
		return nil, errs.NewValueIsRequiredError("recipients")
	}
	if subject == "" {
		return nil, errs.NewValueIsRequiredError("subject")
	}

	return &Message{
		id:            id,
		kind:          kind,
		orderID:       orderID,
		recipients:    recipients,
		subject:       subject,
		body:          body,
		nextAttemptAt: now,
		createdAt:     now,
		isConstructed: true,
	}, nil
}

// RestoreMessage reconstructs a Message from persistence.
func RestoreMessage(
	id kernel.UUID, kind Kind, orderID kernel.UUID,
	recipients []string, subject, body string,
	attempts int, nextAttemptAt time.Time, sentAt *time.Time, lastError string,
	createdAt time.Time,
) (*Message, error) {
	m, err := NewMessage(id, kind, orderID, recipients, subject, body, createdAt)
	if err != nil {
		return nil, err
	}

	m.attempts = attempts
	m.nextAttemptAt = nextAttemptAt
	m.sentAt = sentAt
	m.lastError = lastError
	return m, nil
}

// Validate ensures the Message instance was properly constructed.
func (m *Message) Validate() error {
	if m == nil || !m.isConstructed {
		return ErrMessageIsNotConstructed
	}
	return nil
}

// ID returns the message's unique identifier.
func (m *Message) ID() kernel.UUID { return m.id }

// Kind returns what triggered the notification.
func (m *Message) Kind() Kind { return m.kind }

// OrderID returns the order the notification is about.
func (m *Message) OrderID() kernel.UUID { return m.orderID }

// Recipients returns the destination addresses.
func (m *Message) Recipients() []string { return m.recipients }

// Subject returns the email subject.
func (m *Message) Subject() string { return m.subject }

// Body returns the email body.
func (m *Message) Body() string { return m.body }

// Attempts returns how many delivery attempts have been made.
func (m *Message) Attempts() int { return m.attempts }

// NextAttemptAt returns when the message is next due for delivery.
func (m *Message) NextAttemptAt() time.Time { return m.nextAttemptAt }

// SentAt returns when the message was delivered, nil while pending.
func (m *Message) SentAt() *time.Time { return m.sentAt }

// LastError returns the most recent delivery failure, empty if none.
func (m *Message) LastError() string { return m.lastError }

// CreatedAt returns when the message was enqueued.
func (m *Message) CreatedAt() time.Time { return m.createdAt }

// IsSent reports whether the message has been delivered.
func (m *Message) IsSent() bool { return m.sentAt != nil }

// IsDue reports whether the message should be attempted at the given instant.
func (m *Message) IsDue(now time.Time, maxAttempts int) bool {
	return m.sentAt == nil && m.attempts < maxAttempts && !m.nextAttemptAt.After(now)
}

// MarkSent records a successful delivery.
func (m *Message) MarkSent(now time.Time) {
	m.attempts++
	m.sentAt = &now
	m.lastError = ""
}

// MarkFailed records a failed delivery attempt and schedules the next one
// with exponential backoff: base, 2*base, 4*base, ...
func (m *Message) MarkFailed(now time.Time, cause error, backoffBase time.Duration) {
	m.attempts++
	m.lastError = cause.Error()
	m.nextAttemptAt = now.Add(backoffBase << (m.attempts - 1))
}
