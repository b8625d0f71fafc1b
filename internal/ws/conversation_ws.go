package ws

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"

	"messaging-service/internal/auth"
	"messaging-service/internal/observability"
	"messaging-service/internal/repositories"
)

// ConversationWebSocketHandler upgrades participants onto a conversation's
// live message stream.
type ConversationWebSocketHandler struct {
	hub           *Hub
	conversations repositories.ConversationRepository
	tokens        *auth.Manager
}

// NewConversationWebSocketHandler builds the handler.
func NewConversationWebSocketHandler(hub *Hub, conversations repositories.ConversationRepository, tokens *auth.Manager) *ConversationWebSocketHandler {
	return &ConversationWebSocketHandler{hub: hub, conversations: conversations, tokens: tokens}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handle authenticates, verifies participation, upgrades the connection and
// registers the client.
func (h *ConversationWebSocketHandler) Handle(c *gin.Context) {
	conversationID, err := uuid.Parse(c.Param("conversation_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid conversation id"})
		return
	}

	ctx, span := otel.Tracer("messaging-service/ws").Start(c.Request.Context(), "ws.handshake")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	// Browsers cannot set headers on websocket requests, so accept the token
	// as a query parameter too.
	token := c.GetHeader("Authorization")
	if token != "" {
		token = trimBearer(token)
	} else {
		token = c.Query("token")
	}

	userID, err := h.tokens.VerifyAccess(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	member, err := h.conversations.IsParticipant(c.Request.Context(), conversationID, userID)
	if err != nil || !member {
		c.JSON(http.StatusForbidden, gin.H{"error": "not a conversation participant"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	info := ConnInfo{
		ConnID:      newConnID(),
		UserID:      userID,
		DeviceID:    observability.DeviceIDFromRequest(c.Request),
		IP:          observability.IPFromRequest(c.Request),
		RequestID:   observability.RequestIDFromRequest(c.Request),
		TraceID:     span.SpanContext().TraceID().String(),
		ConnectedAt: time.Now(),
	}
	h.hub.AddClient(conversationID, conn, info)

	go h.readLoop(conversationID, conn)
}

// readLoop drains client frames until the connection closes. Clients only
// receive events; inbound frames are discarded.
func (h *ConversationWebSocketHandler) readLoop(conversationID uuid.UUID, conn *websocket.Conn) {
	defer func() {
		h.hub.RemoveClient(conversationID, conn)
		conn.Close()
	}()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func trimBearer(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && header[:len(prefix)] == prefix {
		return header[len(prefix):]
	}
	return header
}
