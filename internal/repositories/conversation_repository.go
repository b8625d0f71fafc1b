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

var ErrConversationNotFound = errors.New("conversation not found")

// ConversationRepository abstracts conversation persistence.
type ConversationRepository interface {
	CreateConversation(ctx context.Context, participantIDs []uuid.UUID) (models.Conversation, error)
	GetConversation(ctx context.Context, conversationID uuid.UUID) (models.Conversation, error)
	IsParticipant(ctx context.Context, conversationID, userID uuid.UUID) (bool, error)
	ListConversationsForUser(ctx context.Context, userID uuid.UUID, f filters.ConversationFilter, page filters.Page) ([]models.Conversation, error)
}

// ConversationRepo is a sqlx implementation of ConversationRepository.
type ConversationRepo struct {
	db *sqlx.DB
}

// NewConversationRepo constructs a ConversationRepo.
func NewConversationRepo(db *sqlx.DB) *ConversationRepo {
	return &ConversationRepo{db: db}
}

// CreateConversation creates a conversation and its participant rows
// atomically. The participant list is assumed to be resolved and deduplicated
// by the caller.
func (r *ConversationRepo) CreateConversation(ctx context.Context, participantIDs []uuid.UUID) (models.Conversation, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.Conversation{}, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	var conv models.Conversation
	if err = tx.QueryRowxContext(ctx,
		`INSERT INTO conversations (id) VALUES ($1) RETURNING id, created_at`,
		uuid.New()).Scan(&conv.ID, &conv.CreatedAt); err != nil {
		return models.Conversation{}, err
	}

	for _, id := range participantIDs {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO conversation_participants (conversation_id, user_id) VALUES ($1, $2)`,
			conv.ID, id); err != nil {
			return models.Conversation{}, err
		}
	}

	if err = tx.Commit(); err != nil {
		return models.Conversation{}, err
	}
	conv.Participants = participantIDs
	return conv, nil
}

// GetConversation fetches a conversation with its participant set.
func (r *ConversationRepo) GetConversation(ctx context.Context, conversationID uuid.UUID) (models.Conversation, error) {
	var conv models.Conversation
	err := r.db.GetContext(ctx, &conv,
		`SELECT id, created_at FROM conversations WHERE id=$1`, conversationID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Conversation{}, ErrConversationNotFound
	}
	if err != nil {
		return models.Conversation{}, err
	}

	if err := r.db.SelectContext(ctx, &conv.Participants,
		`SELECT user_id FROM conversation_participants WHERE conversation_id=$1 ORDER BY user_id`,
		conversationID); err != nil {
		return models.Conversation{}, err
	}
	return conv, nil
}

// IsParticipant checks whether the user belongs to the conversation.
func (r *ConversationRepo) IsParticipant(ctx context.Context, conversationID, userID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM conversation_participants WHERE conversation_id=$1 AND user_id=$2)`,
		conversationID, userID)
	return exists, err
}

// ListConversationsForUser returns the conversations where the user
// participates, narrowed by the filter, newest first.
func (r *ConversationRepo) ListConversationsForUser(ctx context.Context, userID uuid.UUID, f filters.ConversationFilter, page filters.Page) ([]models.Conversation, error) {
	conds := []string{`EXISTS (
        SELECT 1 FROM conversation_participants cp
        WHERE cp.conversation_id = c.id AND cp.user_id = ?)`}
	args := []interface{}{userID}
	conds, args = f.Apply(conds, args)

	query := `SELECT c.id, c.created_at FROM conversations c WHERE ` +
		strings.Join(conds, " AND ") + ` ORDER BY c.created_at DESC, c.id LIMIT ? OFFSET ?`
	args = append(args, page.Limit, page.Offset)

	var convs []models.Conversation
	if err := r.db.SelectContext(ctx, &convs, r.db.Rebind(query), args...); err != nil {
		return nil, err
	}
	if len(convs) == 0 {
		return convs, nil
	}

	ids := make([]uuid.UUID, 0, len(convs))
	for _, c := range convs {
		ids = append(ids, c.ID)
	}
	query, inArgs, err := sqlx.In(
		`SELECT conversation_id, user_id FROM conversation_participants WHERE conversation_id IN (?) ORDER BY user_id`, ids)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryxContext(ctx, r.db.Rebind(query), inArgs...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := make(map[uuid.UUID][]uuid.UUID, len(convs))
	for rows.Next() {
		var convID, memberID uuid.UUID
		if err := rows.Scan(&convID, &memberID); err != nil {
			return nil, err
		}
		members[convID] = append(members[convID], memberID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range convs {
		convs[i].Participants = members[convs[i].ID]
	}
	return convs, nil
}
