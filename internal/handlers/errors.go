package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"messaging-service/internal/access"
	"messaging-service/internal/filters"
	"messaging-service/internal/repositories"
)

// respondError maps the error taxonomy to HTTP statuses: missing resources
// to 404, failed participation/authorship checks to 403, invalid input to a
// 400 with a field-level error map, anything else to 500.
func respondError(c *gin.Context, err error) {
	var fieldErrs filters.FieldErrors
	switch {
	case errors.As(err, &fieldErrs):
		c.JSON(http.StatusBadRequest, gin.H{"errors": fieldErrs})
	case errors.Is(err, repositories.ErrConversationNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "conversation not found"})
	case errors.Is(err, repositories.ErrMessageNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "message not found"})
	case errors.Is(err, repositories.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
	case errors.Is(err, access.ErrNotParticipant):
		c.JSON(http.StatusForbidden, gin.H{"error": "not a conversation participant"})
	case errors.Is(err, access.ErrNotSender):
		c.JSON(http.StatusForbidden, gin.H{"error": "only the sender may modify a message"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
