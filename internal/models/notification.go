package models

import (
	"time"

	"github.com/google/uuid"
)

// Notification is created for the receiver whenever a message is persisted.
type Notification struct {
	ID          uuid.UUID `db:"id" json:"id"`
	RecipientID uuid.UUID `db:"recipient_id" json:"recipient_id"`
	MessageID   uuid.UUID `db:"message_id" json:"message_id"`
	IsRead      bool      `db:"is_read" json:"is_read"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
