package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"messaging-service/internal/middleware"
	"messaging-service/internal/models"
	"messaging-service/internal/repositories"
)

// NotificationHandler exposes the principal's notification feed.
type NotificationHandler struct {
	notifications repositories.NotificationRepository
}

// NewNotificationHandler builds a NotificationHandler.
func NewNotificationHandler(notifications repositories.NotificationRepository) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// ListNotifications returns the principal's notifications, newest first.
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	ns, err := h.notifications.ListNotificationsForUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load notifications"})
		return
	}
	if ns == nil {
		ns = []models.Notification{}
	}

	c.JSON(http.StatusOK, gin.H{"notifications": ns})
}
