package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"messaging-service/internal/models"
)

// HistoryRepository abstracts message edit history persistence.
type HistoryRepository interface {
	CreateMessageHistory(ctx context.Context, messageID uuid.UUID, priorBody string, editedBy uuid.UUID) (models.MessageHistory, error)
	ListMessageHistory(ctx context.Context, messageID uuid.UUID) ([]models.MessageHistory, error)
}

// HistoryRepo is a sqlx implementation of HistoryRepository.
type HistoryRepo struct {
	db *sqlx.DB
}

// NewHistoryRepo constructs a HistoryRepo.
func NewHistoryRepo(db *sqlx.DB) *HistoryRepo {
	return &HistoryRepo{db: db}
}

// CreateMessageHistory appends one row capturing content before an edit.
func (r *HistoryRepo) CreateMessageHistory(ctx context.Context, messageID uuid.UUID, priorBody string, editedBy uuid.UUID) (models.MessageHistory, error) {
	var h models.MessageHistory
	err := r.db.GetContext(ctx, &h,
		`INSERT INTO message_history (id, message_id, prior_body, edited_by) VALUES ($1, $2, $3, $4)
         RETURNING id, message_id, prior_body, edited_by, edited_at`,
		uuid.New(), messageID, priorBody, editedBy)
	return h, err
}

// ListMessageHistory returns a message's edit history, most recent first.
func (r *HistoryRepo) ListMessageHistory(ctx context.Context, messageID uuid.UUID) ([]models.MessageHistory, error) {
	var hs []models.MessageHistory
	err := r.db.SelectContext(ctx, &hs,
		`SELECT id, message_id, prior_body, edited_by, edited_at FROM message_history
         WHERE message_id=$1 ORDER BY edited_at DESC`, messageID)
	return hs, err
}
