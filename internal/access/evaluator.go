package access

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"messaging-service/internal/filters"
	"messaging-service/internal/models"
	"messaging-service/internal/repositories"
)

var (
	// ErrNotParticipant means the resource exists but the principal is not a
	// member of its conversation.
	ErrNotParticipant = errors.New("not a conversation participant")
	// ErrNotSender means the principal may read the message but only its
	// sender may change it.
	ErrNotSender = errors.New("only the sender may modify a message")
)

// Evaluator gates conversation and message operations by participation and,
// for mutation, authorship. It is stateless; every decision is re-evaluated
// per request.
type Evaluator struct {
	conversations repositories.ConversationRepository
	messages      repositories.MessageRepository
}

// NewEvaluator builds an Evaluator.
func NewEvaluator(conversations repositories.ConversationRepository, messages repositories.MessageRepository) *Evaluator {
	return &Evaluator{conversations: conversations, messages: messages}
}

// ConversationForDetail authorizes the direct conversation detail route.
// Non-participants get ErrConversationNotFound: that route hides existence.
func (e *Evaluator) ConversationForDetail(ctx context.Context, conversationID, principal uuid.UUID) (models.Conversation, error) {
	conv, err := e.conversations.GetConversation(ctx, conversationID)
	if err != nil {
		return models.Conversation{}, err
	}
	if !conv.HasParticipant(principal) {
		return models.Conversation{}, repositories.ErrConversationNotFound
	}
	return conv, nil
}

// ConversationForMessages authorizes the nested message routes, which
// distinguish a missing conversation from a forbidden one.
func (e *Evaluator) ConversationForMessages(ctx context.Context, conversationID, principal uuid.UUID) (models.Conversation, error) {
	conv, err := e.conversations.GetConversation(ctx, conversationID)
	if err != nil {
		return models.Conversation{}, err
	}
	if !conv.HasParticipant(principal) {
		return models.Conversation{}, ErrNotParticipant
	}
	return conv, nil
}

// MessageForRead authorizes safe access to a single message: the principal
// must participate in the message's conversation.
func (e *Evaluator) MessageForRead(ctx context.Context, messageID, principal uuid.UUID) (models.Message, error) {
	msg, err := e.messages.GetMessage(ctx, messageID)
	if err != nil {
		return models.Message{}, err
	}
	member, err := e.conversations.IsParticipant(ctx, msg.ConversationID, principal)
	if err != nil {
		return models.Message{}, err
	}
	if !member {
		return models.Message{}, ErrNotParticipant
	}
	return msg, nil
}

// MessageForWrite authorizes update/delete: participation plus authorship.
func (e *Evaluator) MessageForWrite(ctx context.Context, messageID, principal uuid.UUID) (models.Message, error) {
	msg, err := e.MessageForRead(ctx, messageID, principal)
	if err != nil {
		return models.Message{}, err
	}
	if msg.SenderID != principal {
		return models.Message{}, ErrNotSender
	}
	return msg, nil
}

// ValidateNewMessage checks the create-message payload against the target
// conversation. The sender is the principal; a client-supplied sender has
// already been discarded upstream.
func (e *Evaluator) ValidateNewMessage(ctx context.Context, conv models.Conversation, senderID, receiverID uuid.UUID, body string, parentID *uuid.UUID) error {
	errs := filters.FieldErrors{}

	if strings.TrimSpace(body) == "" {
		errs["content"] = "must not be blank"
	} else if utf8.RuneCountInString(body) > models.MaxMessageBodyLen {
		errs["content"] = "must be at most 500 characters"
	}

	if senderID == receiverID {
		errs["receiver"] = "cannot send a message to yourself"
	} else if !conv.HasParticipant(receiverID) {
		errs["receiver"] = "receiver is not a conversation participant"
	}

	if parentID != nil {
		parent, err := e.messages.GetMessage(ctx, *parentID)
		if errors.Is(err, repositories.ErrMessageNotFound) {
			errs["parent_message_id"] = "parent message does not exist"
		} else if err != nil {
			return err
		} else if parent.ConversationID != conv.ID {
			errs["parent_message_id"] = "parent message belongs to another conversation"
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ValidateEditedBody checks a replacement body for a message edit.
func ValidateEditedBody(body string) error {
	errs := filters.FieldErrors{}
	if strings.TrimSpace(body) == "" {
		errs["content"] = "must not be blank"
	} else if utf8.RuneCountInString(body) > models.MaxMessageBodyLen {
		errs["content"] = "must be at most 500 characters"
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}
