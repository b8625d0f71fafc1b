package observers

import (
	"context"

	"messaging-service/internal/models"
	"messaging-service/internal/ws"
)

// BroadcastObserver pushes message events to the conversation's websocket
// room.
type BroadcastObserver struct {
	hub *ws.Hub
}

// NewBroadcastObserver builds a BroadcastObserver.
func NewBroadcastObserver(hub *ws.Hub) *BroadcastObserver {
	return &BroadcastObserver{hub: hub}
}

func (o *BroadcastObserver) Name() string { return "broadcast" }

func (o *BroadcastObserver) MessageCreated(ctx context.Context, msg models.Message) error {
	o.hub.Broadcast(msg.ConversationID, models.MessageEvent{Type: "message", Message: &msg})
	return nil
}

func (o *BroadcastObserver) MessageEdited(ctx context.Context, msg models.Message, priorBody string) error {
	o.hub.Broadcast(msg.ConversationID, models.MessageEvent{Type: "message_edited", Message: &msg})
	return nil
}

func (o *BroadcastObserver) MessageDeleted(ctx context.Context, msg models.Message) error {
	o.hub.Broadcast(msg.ConversationID, models.MessageEvent{Type: "message_deleted", MessageID: msg.ID})
	return nil
}
