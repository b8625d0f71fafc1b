package observers

import (
	"context"

	"messaging-service/internal/models"
	"messaging-service/internal/repositories"
)

// NotificationObserver records one unread notification for the receiver of
// every created message.
type NotificationObserver struct {
	notifications repositories.NotificationRepository
}

// NewNotificationObserver builds a NotificationObserver.
func NewNotificationObserver(notifications repositories.NotificationRepository) *NotificationObserver {
	return &NotificationObserver{notifications: notifications}
}

func (o *NotificationObserver) Name() string { return "notification" }

func (o *NotificationObserver) MessageCreated(ctx context.Context, msg models.Message) error {
	_, err := o.notifications.CreateNotification(ctx, msg.ReceiverID, msg.ID)
	return err
}

func (o *NotificationObserver) MessageEdited(ctx context.Context, msg models.Message, priorBody string) error {
	return nil
}

func (o *NotificationObserver) MessageDeleted(ctx context.Context, msg models.Message) error {
	return nil
}
