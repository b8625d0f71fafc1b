package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"messaging-service/internal/access"
	"messaging-service/internal/filters"
	"messaging-service/internal/middleware"
	"messaging-service/internal/models"
	"messaging-service/internal/observers"
	"messaging-service/internal/repositories"
)

// MessageHandler manages nested and direct message endpoints.
type MessageHandler struct {
	messages   repositories.MessageRepository
	evaluator  *access.Evaluator
	dispatcher *observers.Dispatcher
}

// NewMessageHandler builds a MessageHandler.
func NewMessageHandler(messages repositories.MessageRepository, evaluator *access.Evaluator, dispatcher *observers.Dispatcher) *MessageHandler {
	return &MessageHandler{messages: messages, evaluator: evaluator, dispatcher: dispatcher}
}

// ListConversationMessages returns a conversation's messages for a
// participant, filterable and paginated. Non-participants receive a 403.
func (h *MessageHandler) ListConversationMessages(c *gin.Context) {
	conversationID, ok := parseConversationID(c)
	if !ok {
		return
	}

	userID := middleware.UserIDFromContext(c)
	if _, err := h.evaluator.ConversationForMessages(c.Request.Context(), conversationID, userID); err != nil {
		respondError(c, err)
		return
	}

	filter, err := filters.ParseMessageFilter(c.Request.URL.Query())
	if err != nil {
		respondError(c, err)
		return
	}
	page, err := filters.ParsePage(c.Request.URL.Query())
	if err != nil {
		respondError(c, err)
		return
	}

	msgs, err := h.messages.ListConversationMessages(c.Request.Context(), conversationID, filter, page)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load messages"})
		return
	}
	if msgs == nil {
		msgs = []models.Message{}
	}

	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

// PostConversationMessage validates and persists a message, then fires the
// creation observers. The sender is always the principal; any client-supplied
// sender is ignored.
func (h *MessageHandler) PostConversationMessage(c *gin.Context) {
	conversationID, ok := parseConversationID(c)
	if !ok {
		return
	}

	userID := middleware.UserIDFromContext(c)
	conv, err := h.evaluator.ConversationForMessages(c.Request.Context(), conversationID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	var req struct {
		Content         string  `json:"content" binding:"required"`
		Receiver        string  `json:"receiver" binding:"required"`
		ParentMessageID *string `json:"parent_message_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	receiverID, err := uuid.Parse(req.Receiver)
	if err != nil {
		respondError(c, filters.FieldErrors{"receiver": "malformed user id"})
		return
	}
	var parentID *uuid.UUID
	if req.ParentMessageID != nil {
		parsed, err := uuid.Parse(*req.ParentMessageID)
		if err != nil {
			respondError(c, filters.FieldErrors{"parent_message_id": "malformed message id"})
			return
		}
		parentID = &parsed
	}

	if err := h.evaluator.ValidateNewMessage(c.Request.Context(), conv, userID, receiverID, req.Content, parentID); err != nil {
		respondError(c, err)
		return
	}

	msg, err := h.messages.CreateMessage(c.Request.Context(), conversationID, userID, receiverID, req.Content, parentID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store message"})
		return
	}

	h.dispatcher.MessageCreated(c.Request.Context(), msg)
	c.JSON(http.StatusCreated, msg)
}

// GetConversationMessage reads one message through the nested route.
func (h *MessageHandler) GetConversationMessage(c *gin.Context) {
	h.getMessage(c, true)
}

// GetMessage reads one message through the direct route.
func (h *MessageHandler) GetMessage(c *gin.Context) {
	h.getMessage(c, false)
}

func (h *MessageHandler) getMessage(c *gin.Context, nested bool) {
	msg, ok := h.authorizeRead(c, nested)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, msg)
}

// PatchConversationMessage edits a message through the nested route.
func (h *MessageHandler) PatchConversationMessage(c *gin.Context) {
	h.patchMessage(c, true)
}

// PatchMessage edits a message through the direct route.
func (h *MessageHandler) PatchMessage(c *gin.Context) {
	h.patchMessage(c, false)
}

// patchMessage replaces the body of a message. Only the sender may edit; a
// content change marks the message edited and fires the edit observers with
// the prior content.
func (h *MessageHandler) patchMessage(c *gin.Context, nested bool) {
	msg, ok := h.authorizeWrite(c, nested)
	if !ok {
		return
	}

	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := access.ValidateEditedBody(req.Content); err != nil {
		respondError(c, err)
		return
	}

	updated, priorBody, err := h.messages.EditMessageBody(c.Request.Context(), msg.ID, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}

	if priorBody != updated.Body {
		h.dispatcher.MessageEdited(c.Request.Context(), updated, priorBody)
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteConversationMessage deletes a message through the nested route.
func (h *MessageHandler) DeleteConversationMessage(c *gin.Context) {
	h.deleteMessage(c, true)
}

// DeleteMessage deletes a message through the direct route.
func (h *MessageHandler) DeleteMessage(c *gin.Context) {
	h.deleteMessage(c, false)
}

func (h *MessageHandler) deleteMessage(c *gin.Context, nested bool) {
	msg, ok := h.authorizeWrite(c, nested)
	if !ok {
		return
	}

	if err := h.messages.DeleteMessage(c.Request.Context(), msg.ID); err != nil {
		respondError(c, err)
		return
	}

	h.dispatcher.MessageDeleted(c.Request.Context(), msg)
	c.Status(http.StatusNoContent)
}

// MarkMessageRead flags a message read. Only the receiver may do so; the
// sender-only rule covers content mutation, while the read flag belongs to
// the receiving side.
func (h *MessageHandler) MarkMessageRead(c *gin.Context) {
	msg, ok := h.authorizeRead(c, false)
	if !ok {
		return
	}

	userID := middleware.UserIDFromContext(c)
	if msg.ReceiverID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "only the receiver may mark a message read"})
		return
	}

	if err := h.messages.MarkMessageRead(c.Request.Context(), msg.ID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListMessages returns every message across the conversations the principal
// participates in, filterable and paginated.
func (h *MessageHandler) ListMessages(c *gin.Context) {
	filter, err := filters.ParseMessageFilter(c.Request.URL.Query())
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
	msgs, err := h.messages.ListUserMessages(c.Request.Context(), userID, filter, page)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load messages"})
		return
	}
	if msgs == nil {
		msgs = []models.Message{}
	}

	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

// ListUnreadMessages returns unread messages addressed to the principal.
func (h *MessageHandler) ListUnreadMessages(c *gin.Context) {
	page, err := filters.ParsePage(c.Request.URL.Query())
	if err != nil {
		respondError(c, err)
		return
	}

	userID := middleware.UserIDFromContext(c)
	msgs, err := h.messages.ListUnreadMessages(c.Request.Context(), userID, page)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load messages"})
		return
	}
	if msgs == nil {
		msgs = []models.Message{}
	}

	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

// authorizeRead resolves the message and checks participation. On the nested
// route the message must also belong to the conversation in the path.
func (h *MessageHandler) authorizeRead(c *gin.Context, nested bool) (models.Message, bool) {
	messageID, err := uuid.Parse(c.Param("message_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid message id"})
		return models.Message{}, false
	}

	userID := middleware.UserIDFromContext(c)
	msg, err := h.evaluator.MessageForRead(c.Request.Context(), messageID, userID)
	if err != nil {
		respondError(c, err)
		return models.Message{}, false
	}

	if nested && !h.checkScope(c, msg) {
		return models.Message{}, false
	}
	return msg, true
}

func (h *MessageHandler) authorizeWrite(c *gin.Context, nested bool) (models.Message, bool) {
	messageID, err := uuid.Parse(c.Param("message_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid message id"})
		return models.Message{}, false
	}

	userID := middleware.UserIDFromContext(c)
	msg, err := h.evaluator.MessageForWrite(c.Request.Context(), messageID, userID)
	if err != nil {
		respondError(c, err)
		return models.Message{}, false
	}

	if nested && !h.checkScope(c, msg) {
		return models.Message{}, false
	}
	return msg, true
}

func (h *MessageHandler) checkScope(c *gin.Context, msg models.Message) bool {
	conversationID, ok := parseConversationID(c)
	if !ok {
		return false
	}
	if msg.ConversationID != conversationID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message does not belong to conversation"})
		return false
	}
	return true
}

func parseConversationID(c *gin.Context) (uuid.UUID, bool) {
	conversationID, err := uuid.Parse(c.Param("conversation_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid conversation id"})
		return uuid.Nil, false
	}
	return conversationID, true
}
