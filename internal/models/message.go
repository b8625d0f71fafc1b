package models

import (
	"time"

	"github.com/google/uuid"
)

// MaxMessageBodyLen bounds the length of a message body in characters.
const MaxMessageBodyLen = 500

// Message belongs to exactly one conversation. Sender and receiver must both
// be participants of that conversation at creation time.
type Message struct {
	ID              uuid.UUID  `db:"id" json:"id"`
	ConversationID  uuid.UUID  `db:"conversation_id" json:"conversation_id"`
	SenderID        uuid.UUID  `db:"sender_id" json:"sender_id"`
	ReceiverID      uuid.UUID  `db:"receiver_id" json:"receiver_id"`
	Body            string     `db:"body" json:"body"`
	ParentMessageID *uuid.UUID `db:"parent_message_id" json:"parent_message_id,omitempty"`
	Edited          bool       `db:"edited" json:"edited"`
	Read            bool       `db:"read" json:"read"`
	SentAt          time.Time  `db:"sent_at" json:"sent_at"`
}

// MessageHistory records the prior content of an edited message. Rows are
// appended by the edit observer, never written directly by users.
type MessageHistory struct {
	ID        uuid.UUID `db:"id" json:"id"`
	MessageID uuid.UUID `db:"message_id" json:"message_id"`
	PriorBody string    `db:"prior_body" json:"prior_body"`
	EditedBy  uuid.UUID `db:"edited_by" json:"edited_by"`
	EditedAt  time.Time `db:"edited_at" json:"edited_at"`
}

// MessageEvent is broadcast to websocket subscribers of a conversation.
type MessageEvent struct {
	Type      string    `json:"type"`
	Message   *Message  `json:"message,omitempty"`
	MessageID uuid.UUID `json:"message_id,omitempty"`
}
