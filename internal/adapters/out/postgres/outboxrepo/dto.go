package outboxrepo

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"checkout/internal/core/domain/model/kernel"
	"checkout/internal/core/domain/model/outbox"
)

// MessageDTO represents the database structure for outbox messages.
// SentAt is NULL while the message is pending; the worker polls on
// (sent_at, attempts, next_attempt_at).
type MessageDTO struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	Kind          string
	OrderID       uuid.UUID `gorm:"type:uuid"`
	Recipients    []byte    `gorm:"type:jsonb"`
	Subject       string
	Body          string
	Attempts      int
	NextAttemptAt time.Time `gorm:"index"`
	SentAt        *time.Time
	LastError     string
	CreatedAt     time.Time
}

// TableName overrides GORM's default naming to use "outbox_messages".
func (MessageDTO) TableName() string {
	return "outbox_messages"
}

func fromDomain(m *outbox.Message) (MessageDTO, error) {
	recipients, err := json.Marshal(m.Recipients())
	if err != nil {
		return MessageDTO{}, err
	}

	return MessageDTO{
		ID:            m.ID().Bytes(),
		Kind:          string(m.Kind()),
		OrderID:       m.OrderID().Bytes(),
		Recipients:    recipients,
		Subject:       m.Subject(),
		Body:          m.Body(),
		Attempts:      m.Attempts(),
		NextAttemptAt: m.NextAttemptAt(),
		SentAt:        m.SentAt(),
		LastError:     m.LastError(),
		CreatedAt:     m.CreatedAt(),
	}, nil
}

func toDomain(dto MessageDTO) (*outbox.Message, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	var recipients []string
	if err := json.Unmarshal(dto.Recipients, &recipients); err != nil {
		return nil, err
	}

	return outbox.RestoreMessage(
		id, outbox.Kind(dto.Kind), orderID,
		recipients, dto.Subject, dto.Body,
		dto.Attempts, dto.NextAttemptAt, dto.SentAt, dto.LastError,
		dto.CreatedAt,
	)
}
