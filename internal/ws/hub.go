package ws

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"messaging-service/internal/models"
	"messaging-service/internal/observability"
)

// Hub maintains the active websocket room per conversation.
type Hub struct {
	rooms    map[uuid.UUID]map[*websocket.Conn]bool
	connInfo map[uuid.UUID]map[*websocket.Conn]ConnInfo
	// Gorilla connections allow a single writer at a time; concurrent
	// broadcasts serialize on a per-connection lock.
	writeLocks map[*websocket.Conn]*sync.Mutex
	mu         sync.RWMutex
	logger     *zap.Logger
}

// NewHub creates an empty hub.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		rooms:      make(map[uuid.UUID]map[*websocket.Conn]bool),
		connInfo:   make(map[uuid.UUID]map[*websocket.Conn]ConnInfo),
		writeLocks: make(map[*websocket.Conn]*sync.Mutex),
		logger:     logger,
	}
}

// AddClient registers a websocket connection to a conversation room.
func (h *Hub) AddClient(conversationID uuid.UUID, conn *websocket.Conn, info ConnInfo) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.rooms[conversationID]; !ok {
		h.rooms[conversationID] = make(map[*websocket.Conn]bool)
	}
	h.rooms[conversationID][conn] = true
	if _, ok := h.connInfo[conversationID]; !ok {
		h.connInfo[conversationID] = make(map[*websocket.Conn]ConnInfo)
	}
	h.connInfo[conversationID][conn] = info
	if _, ok := h.writeLocks[conn]; !ok {
		h.writeLocks[conn] = &sync.Mutex{}
	}
	observability.IncWSActive()
}

// RemoveClient removes a websocket connection from its room.
func (h *Hub) RemoveClient(conversationID uuid.UUID, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.rooms[conversationID]; ok {
		if _, present := conns[conn]; present {
			delete(conns, conn)
			observability.DecWSActive()
		}
		if len(conns) == 0 {
			delete(h.rooms, conversationID)
		}
	}
	if infos, ok := h.connInfo[conversationID]; ok {
		delete(infos, conn)
		if len(infos) == 0 {
			delete(h.connInfo, conversationID)
		}
	}
	delete(h.writeLocks, conn)
}

// Broadcast sends an event to every client subscribed to the conversation.
func (h *Hub) Broadcast(conversationID uuid.UUID, event models.MessageEvent) {
	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.rooms[conversationID]))
	locks := make([]*sync.Mutex, 0, len(h.rooms[conversationID]))
	for conn := range h.rooms[conversationID] {
		conns = append(conns, conn)
		locks = append(locks, h.writeLocks[conn])
	}
	h.mu.RUnlock()

	payload, _ := json.Marshal(event)
	for i, conn := range conns {
		if err := writeLocked(locks[i], conn, payload); err != nil {
			h.logger.Warn("websocket write failed", zap.Error(err))
			conn.Close()
			h.RemoveClient(conversationID, conn)
			observability.IncWSEvent("ws_error")
		}
	}
	observability.IncWSEvent(event.Type)
}

func writeLocked(lock *sync.Mutex, conn *websocket.Conn, payload []byte) error {
	if lock != nil {
		lock.Lock()
		defer lock.Unlock()
	}
	return conn.WriteMessage(websocket.TextMessage, payload)
}
