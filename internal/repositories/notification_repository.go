package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"messaging-service/internal/models"
)

// NotificationRepository abstracts notification persistence.
type NotificationRepository interface {
	CreateNotification(ctx context.Context, recipientID, messageID uuid.UUID) (models.Notification, error)
	ListNotificationsForUser(ctx context.Context, recipientID uuid.UUID) ([]models.Notification, error)
}

// NotificationRepo is a sqlx implementation of NotificationRepository.
type NotificationRepo struct {
	db *sqlx.DB
}

// NewNotificationRepo constructs a NotificationRepo.
func NewNotificationRepo(db *sqlx.DB) *NotificationRepo {
	return &NotificationRepo{db: db}
}

// CreateNotification records an unread notification for the recipient.
func (r *NotificationRepo) CreateNotification(ctx context.Context, recipientID, messageID uuid.UUID) (models.Notification, error) {
	var n models.Notification
	err := r.db.GetContext(ctx, &n,
		`INSERT INTO notifications (id, recipient_id, message_id) VALUES ($1, $2, $3)
         RETURNING id, recipient_id, message_id, is_read, created_at`,
		uuid.New(), recipientID, messageID)
	return n, err
}

// ListNotificationsForUser returns the recipient's notifications, newest
// first.
func (r *NotificationRepo) ListNotificationsForUser(ctx context.Context, recipientID uuid.UUID) ([]models.Notification, error) {
	var ns []models.Notification
	err := r.db.SelectContext(ctx, &ns,
		`SELECT id, recipient_id, message_id, is_read, created_at FROM notifications
         WHERE recipient_id=$1 ORDER BY created_at DESC`, recipientID)
	return ns, err
}
