package models

import (
	"time"

	"github.com/google/uuid"
)

// Conversation groups an unordered set of participants. The participant set
// is fixed at creation and only shrinks when a participant's account is
// deleted.
type Conversation struct {
	ID        uuid.UUID `db:"id" json:"id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`

	// Participants is loaded from the join table, not a column.
	Participants []uuid.UUID `db:"-" json:"participants"`
}

// HasParticipant reports whether the user belongs to the conversation.
func (c Conversation) HasParticipant(userID uuid.UUID) bool {
	for _, id := range c.Participants {
		if id == userID {
			return true
		}
	}
	return false
}
