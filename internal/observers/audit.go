package observers

import (
	"context"

	"messaging-service/internal/models"
	"messaging-service/internal/telemetry"
)

// AuditObserver ships message lifecycle events to the audit exchange.
type AuditObserver struct {
	emitter *telemetry.AuditEmitter
}

// NewAuditObserver builds an AuditObserver.
func NewAuditObserver(emitter *telemetry.AuditEmitter) *AuditObserver {
	return &AuditObserver{emitter: emitter}
}

func (o *AuditObserver) Name() string { return "audit" }

func (o *AuditObserver) MessageCreated(ctx context.Context, msg models.Message) error {
	o.emitter.Emit(ctx, "message.created", msg.SenderID.String(), auditPayload(msg))
	return nil
}

func (o *AuditObserver) MessageEdited(ctx context.Context, msg models.Message, priorBody string) error {
	o.emitter.Emit(ctx, "message.edited", msg.SenderID.String(), auditPayload(msg))
	return nil
}

func (o *AuditObserver) MessageDeleted(ctx context.Context, msg models.Message) error {
	o.emitter.Emit(ctx, "message.deleted", msg.SenderID.String(), auditPayload(msg))
	return nil
}

func auditPayload(msg models.Message) map[string]any {
	return map[string]any{
		"message_id":      msg.ID,
		"conversation_id": msg.ConversationID,
		"receiver_id":     msg.ReceiverID,
	}
}
