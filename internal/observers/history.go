package observers

import (
	"context"

	"messaging-service/internal/models"
	"messaging-service/internal/repositories"
)

// HistoryObserver appends one MessageHistory row per content-changing edit,
// capturing the content as it was before the write.
type HistoryObserver struct {
	history repositories.HistoryRepository
}

// NewHistoryObserver builds a HistoryObserver.
func NewHistoryObserver(history repositories.HistoryRepository) *HistoryObserver {
	return &HistoryObserver{history: history}
}

func (o *HistoryObserver) Name() string { return "history" }

func (o *HistoryObserver) MessageCreated(ctx context.Context, msg models.Message) error {
	return nil
}

func (o *HistoryObserver) MessageEdited(ctx context.Context, msg models.Message, priorBody string) error {
	// Only the sender can edit, so the sender is the editor.
	_, err := o.history.CreateMessageHistory(ctx, msg.ID, priorBody, msg.SenderID)
	return err
}

func (o *HistoryObserver) MessageDeleted(ctx context.Context, msg models.Message) error {
	return nil
}
