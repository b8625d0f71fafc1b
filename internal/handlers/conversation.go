package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"messaging-service/internal/access"
	"messaging-service/internal/filters"
	"messaging-service/internal/middleware"
	"messaging-service/internal/models"
	"messaging-service/internal/repositories"
)

// ConversationHandler manages conversation endpoints.
type ConversationHandler struct {
	conversations repositories.ConversationRepository
	messages      repositories.MessageRepository
	users         repositories.UserRepository
	evaluator     *access.Evaluator
}

// NewConversationHandler builds a ConversationHandler.
func NewConversationHandler(conversations repositories.ConversationRepository, messages repositories.MessageRepository, users repositories.UserRepository, evaluator *access.Evaluator) *ConversationHandler {
	return &ConversationHandler{
		conversations: conversations,
		messages:      messages,
		users:         users,
		evaluator:     evaluator,
	}
}

// ListConversations returns the conversations the principal participates in,
// narrowed by filter criteria.
func (h *ConversationHandler) ListConversations(c *gin.Context) {
	filter, err := filters.ParseConversationFilter(c.Request.URL.Query())
	if err != nil {
		respondError(c, err)
		return
	}
	page, err := filters.ParsePage(c.Request.URL.Query())
	if err != nil {
		respondError(c, err)
		return
	}

	userID := middleware.UserIDFromContext(c)
	convs, err := h.conversations.ListConversationsForUser(c.Request.Context(), userID, filter, page)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load conversations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"conversations": convs})
}

// CreateConversation creates a conversation from a list of participant ids.
// Ids that do not resolve to a user are skipped, not rejected; the principal
// is included only when listed explicitly.
func (h *ConversationHandler) CreateConversation(c *gin.Context) {
	var req struct {
		ParticipantIDs []string `json:"participant_ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	candidates := make([]uuid.UUID, 0, len(req.ParticipantIDs))
	for _, raw := range req.ParticipantIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			continue
		}
		candidates = append(candidates, id)
	}

	participants, err := h.users.FilterExisting(c.Request.Context(), candidates)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve participants"})
		return
	}

	conv, err := h.conversations.CreateConversation(c.Request.Context(), participants)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create conversation"})
		return
	}

	c.JSON(http.StatusCreated, conv)
}

// GetConversation returns one conversation with its participants and
// messages. Non-participants receive a 404; this route hides existence.
func (h *ConversationHandler) GetConversation(c *gin.Context) {
	conversationID, err := uuid.Parse(c.Param("conversation_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid conversation id"})
		return
	}

	userID := middleware.UserIDFromContext(c)
	conv, err := h.evaluator.ConversationForDetail(c.Request.Context(), conversationID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	msgs, err := h.messages.ListConversationMessages(c.Request.Context(), conv.ID,
		filters.MessageFilter{}, filters.Page{Limit: 20})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load messages"})
		return
	}
	if msgs == nil {
		msgs = []models.Message{}
	}

	c.JSON(http.StatusOK, gin.H{
		"id":           conv.ID,
		"created_at":   conv.CreatedAt,
		"participants": conv.Participants,
		"messages":     msgs,
	})
}
