package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"messaging-service/internal/filters"
	"messaging-service/internal/models"
)

var ErrMessageNotFound = errors.New("message not found")

// MessageRepository abstracts message persistence.
type MessageRepository interface {
	CreateMessage(ctx context.Context, conversationID, senderID, receiverID uuid.UUID, body string, parentID *uuid.UUID) (models.Message, error)
	GetMessage(ctx context.Context, messageID uuid.UUID) (models.Message, error)
	ListConversationMessages(ctx context.Context, conversationID uuid.UUID, f filters.MessageFilter, page filters.Page) ([]models.Message, error)
	ListUserMessages(ctx context.Context, userID uuid.UUID, f filters.MessageFilter, page filters.Page) ([]models.Message, error)
	ListUnreadMessages(ctx context.Context, userID uuid.UUID, page filters.Page) ([]models.Message, error)
	EditMessageBody(ctx context.Context, messageID uuid.UUID, body string) (models.Message, string, error)
	MarkMessageRead(ctx context.Context, messageID uuid.UUID) error
	DeleteMessage(ctx context.Context, messageID uuid.UUID) error
}

// MessageRepo is a sqlx-backed repository.
type MessageRepo struct {
	db *sqlx.DB
}

// NewMessageRepo constructs a MessageRepo.
func NewMessageRepo(db *sqlx.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

const messageColumns = `id, conversation_id, sender_id, receiver_id, body, parent_message_id, edited, read, sent_at`

// CreateMessage persists a message inside a transaction. Validation happens
// upstream; observers fire after this returns.
func (r *MessageRepo) CreateMessage(ctx context.Context, conversationID, senderID, receiverID uuid.UUID, body string, parentID *uuid.UUID) (models.Message, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.Message{}, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	var msg models.Message
	if err = tx.GetContext(ctx, &msg,
		`INSERT INTO messages (id, conversation_id, sender_id, receiver_id, body, parent_message_id)
         VALUES ($1, $2, $3, $4, $5, $6)
         RETURNING `+messageColumns,
		uuid.New(), conversationID, senderID, receiverID, body, parentID); err != nil {
		return models.Message{}, err
	}

	if err = tx.Commit(); err != nil {
		return models.Message{}, err
	}
	return msg, nil
}

// GetMessage retrieves a single message.
func (r *MessageRepo) GetMessage(ctx context.Context, messageID uuid.UUID) (models.Message, error) {
	var msg models.Message
	err := r.db.GetContext(ctx, &msg,
		`SELECT `+messageColumns+` FROM messages WHERE id=$1`, messageID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Message{}, ErrMessageNotFound
	}
	return msg, err
}

// ListConversationMessages returns the conversation's messages, filtered and
// paginated, newest first.
func (r *MessageRepo) ListConversationMessages(ctx context.Context, conversationID uuid.UUID, f filters.MessageFilter, page filters.Page) ([]models.Message, error) {
	conds := []string{"m.conversation_id = ?"}
	args := []interface{}{conversationID}
	conds, args = f.Apply(conds, args)
	return r.list(ctx, conds, args, page)
}

// ListUserMessages returns every message across the conversations the user
// participates in, filtered and paginated, newest first.
func (r *MessageRepo) ListUserMessages(ctx context.Context, userID uuid.UUID, f filters.MessageFilter, page filters.Page) ([]models.Message, error) {
	conds := []string{`EXISTS (
        SELECT 1 FROM conversation_participants cp
        WHERE cp.conversation_id = m.conversation_id AND cp.user_id = ?)`}
	args := []interface{}{userID}
	conds, args = f.Apply(conds, args)
	return r.list(ctx, conds, args, page)
}

// ListUnreadMessages returns unread messages addressed to the user.
func (r *MessageRepo) ListUnreadMessages(ctx context.Context, userID uuid.UUID, page filters.Page) ([]models.Message, error) {
	conds := []string{"m.receiver_id = ?", "m.read = FALSE"}
	args := []interface{}{userID}
	return r.list(ctx, conds, args, page)
}

func (r *MessageRepo) list(ctx context.Context, conds []string, args []interface{}, page filters.Page) ([]models.Message, error) {
	query := `SELECT ` + prefixed(messageColumns, "m.") + ` FROM messages m WHERE ` +
		strings.Join(conds, " AND ") +
		` ORDER BY m.sent_at DESC, m.id LIMIT ? OFFSET ?`
	args = append(args, page.Limit, page.Offset)

	var msgs []models.Message
	err := r.db.SelectContext(ctx, &msgs, r.db.Rebind(query), args...)
	return msgs, err
}

func prefixed(columns, prefix string) string {
	parts := strings.Split(columns, ", ")
	for i, p := range parts {
		parts[i] = prefix + p
	}
	return strings.Join(parts, ", ")
}

// EditMessageBody replaces the body of a message, marking it edited when the
// content actually changed. It returns the updated message and the prior
// body; an unchanged body is a no-op that returns the prior body equal to
// the new one.
func (r *MessageRepo) EditMessageBody(ctx context.Context, messageID uuid.UUID, body string) (models.Message, string, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.Message{}, "", err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	var current models.Message
	err = tx.GetContext(ctx, &current,
		`SELECT `+messageColumns+` FROM messages WHERE id=$1 FOR UPDATE`, messageID)
	if errors.Is(err, sql.ErrNoRows) {
		err = ErrMessageNotFound
		return models.Message{}, "", err
	}
	if err != nil {
		return models.Message{}, "", err
	}

	if current.Body == body {
		err = tx.Commit()
		return current, current.Body, err
	}

	var updated models.Message
	if err = tx.GetContext(ctx, &updated,
		`UPDATE messages SET body=$2, edited=TRUE WHERE id=$1 RETURNING `+messageColumns,
		messageID, body); err != nil {
		return models.Message{}, "", err
	}

	if err = tx.Commit(); err != nil {
		return models.Message{}, "", err
	}
	return updated, current.Body, nil
}

// MarkMessageRead flags a message as read by its receiver.
func (r *MessageRepo) MarkMessageRead(ctx context.Context, messageID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `UPDATE messages SET read=TRUE WHERE id=$1`, messageID)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrMessageNotFound
	}
	return nil
}

// DeleteMessage removes a message; history and notifications cascade at the
// storage level.
func (r *MessageRepo) DeleteMessage(ctx context.Context, messageID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM messages WHERE id=$1`, messageID)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrMessageNotFound
	}
	return nil
}
