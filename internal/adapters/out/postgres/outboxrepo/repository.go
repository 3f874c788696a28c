// Package outboxrepo persists notification messages. Messages enter the
// table inside the transaction that produced them and leave it only by
// being marked sent; the notification worker polls for due rows.
package outboxrepo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"checkout/internal/core/domain/model/kernel"
	"checkout/internal/core/domain/model/outbox"
)

// GormOutboxRepository implements OutboxRepository using GORM.
type GormOutboxRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOutboxRepository creates a new GORM outbox repository.
func NewGormOutboxRepository(db *gorm.DB, tracker aggregateTracker) *GormOutboxRepository {
	return &GormOutboxRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new pending message to the database.
func (r *GormOutboxRepository) Add(ctx context.Context, message *outbox.Message) error {
	if err := message.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(message)
	if err != nil {
		return err
	}
	if err = r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(message.ID(), message)
	return nil
}

// Update saves delivery bookkeeping after an attempt. The columns are
// selected explicitly so that clearing last_error on success is written.
func (r *GormOutboxRepository) Update(ctx context.Context, message *outbox.Message) error {
	if err := message.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(message)
	if err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Model(&MessageDTO{}).
		Where("id = ?", dto.ID).
		Select("attempts", "next_attempt_at", "sent_at", "last_error").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// GetDue retrieves up to limit unsent messages due at or before now with
// attempts still below maxAttempts, oldest first.
func (r *GormOutboxRepository) GetDue(ctx context.Context, now time.Time, maxAttempts, limit int) ([]*outbox.Message, error) {
	var dtos []MessageDTO
	err := r.db.WithContext(ctx).
		Where("sent_at IS NULL AND attempts < ? AND next_attempt_at <= ?", maxAttempts, now).
		Order("created_at ASC").
		Limit(limit).
		Find(&dtos).
		Error
	if err != nil {
		return nil, err
	}

	messages := make([]*outbox.Message, 0, len(dtos))
	for _, dto := range dtos {
		message, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		messages = append(messages, message)
	}
	return messages, nil
}
