package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"messaging-service/internal/access"
	"messaging-service/internal/middleware"
	"messaging-service/internal/models"
	"messaging-service/internal/repositories"
)

// HistoryHandler exposes a message's edit history.
type HistoryHandler struct {
	history   repositories.HistoryRepository
	evaluator *access.Evaluator
}

// NewHistoryHandler builds a HistoryHandler.
func NewHistoryHandler(history repositories.HistoryRepository, evaluator *access.Evaluator) *HistoryHandler {
	return &HistoryHandler{history: history, evaluator: evaluator}
}

// GetMessageHistory returns the prior contents of a message, most recent
// edit first. Participation gates access, same as reading the message.
func (h *HistoryHandler) GetMessageHistory(c *gin.Context) {
	messageID, err := uuid.Parse(c.Param("message_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid message id"})
		return
	}

	userID := middleware.UserIDFromContext(c)
	msg, err := h.evaluator.MessageForRead(c.Request.Context(), messageID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	hs, err := h.history.ListMessageHistory(c.Request.Context(), msg.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load message history"})
		return
	}
	if hs == nil {
		hs = []models.MessageHistory{}
	}

	c.JSON(http.StatusOK, gin.H{"history": hs})
}
