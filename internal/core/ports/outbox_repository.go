package ports

import (
	"context"
	"time"

	"checkout/internal/core/domain/model/outbox"
)

// OutboxRepository defines the persistence contract for notification
// messages. Messages are added within the same transaction as the order
// change that produced them; the notification worker reads and updates
// them outside any request transaction.
type OutboxRepository interface {
	// Add persists a new pending message.
	Add(ctx context.Context, message *outbox.Message) error

	// Update persists delivery bookkeeping after an attempt.
	Update(ctx context.Context, message *outbox.Message) error

	// GetDue retrieves up to limit unsent messages whose next attempt is at
	// or before now and whose attempts are below maxAttempts, oldest first.
	GetDue(ctx context.Context, now time.Time, maxAttempts, limit int) ([]*outbox.Message, error)
}
