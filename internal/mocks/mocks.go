package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"messaging-service/internal/filters"
	"messaging-service/internal/models"
)

type UserRepositoryMock struct {
	mock.Mock
}

func (m *UserRepositoryMock) CreateUser(ctx context.Context, email, displayName, passwordHash string) (models.User, error) {
	args := m.Called(ctx, email, displayName, passwordHash)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) GetUserByID(ctx context.Context, id uuid.UUID) (models.User, error) {
	args := m.Called(ctx, id)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	args := m.Called(ctx, email)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) FilterExisting(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, ids)
	var out []uuid.UUID
	if val := args.Get(0); val != nil {
		out = val.([]uuid.UUID)
	}
	return out, args.Error(1)
}

func (m *UserRepositoryMock) DeleteUser(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type ConversationRepositoryMock struct {
	mock.Mock
}

func (m *ConversationRepositoryMock) CreateConversation(ctx context.Context, participantIDs []uuid.UUID) (models.Conversation, error) {
	args := m.Called(ctx, participantIDs)
	var conv models.Conversation
	if val := args.Get(0); val != nil {
		conv = val.(models.Conversation)
	}
	return conv, args.Error(1)
}

func (m *ConversationRepositoryMock) GetConversation(ctx context.Context, conversationID uuid.UUID) (models.Conversation, error) {
	args := m.Called(ctx, conversationID)
	var conv models.Conversation
	if val := args.Get(0); val != nil {
		conv = val.(models.Conversation)
	}
	return conv, args.Error(1)
}

func (m *ConversationRepositoryMock) IsParticipant(ctx context.Context, conversationID, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, conversationID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *ConversationRepositoryMock) ListConversationsForUser(ctx context.Context, userID uuid.UUID, f filters.ConversationFilter, page filters.Page) ([]models.Conversation, error) {
	args := m.Called(ctx, userID, f, page)
	var list []models.Conversation
	if val := args.Get(0); val != nil {
		list = val.([]models.Conversation)
	}
	return list, args.Error(1)
}

type MessageRepositoryMock struct {
	mock.Mock
}

func (m *MessageRepositoryMock) CreateMessage(ctx context.Context, conversationID, senderID, receiverID uuid.UUID, body string, parentID *uuid.UUID) (models.Message, error) {
	args := m.Called(ctx, conversationID, senderID, receiverID, body, parentID)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

func (m *MessageRepositoryMock) GetMessage(ctx context.Context, messageID uuid.UUID) (models.Message, error) {
	args := m.Called(ctx, messageID)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

func (m *MessageRepositoryMock) ListConversationMessages(ctx context.Context, conversationID uuid.UUID, f filters.MessageFilter, page filters.Page) ([]models.Message, error) {
	args := m.Called(ctx, conversationID, f, page)
	var list []models.Message
	if val := args.Get(0); val != nil {
		list = val.([]models.Message)
	}
	return list, args.Error(1)
}

func (m *MessageRepositoryMock) ListUserMessages(ctx context.Context, userID uuid.UUID, f filters.MessageFilter, page filters.Page) ([]models.Message, error) {
	args := m.Called(ctx, userID, f, page)
	var list []models.Message
	if val := args.Get(0); val != nil {
		list = val.([]models.Message)
	}
	return list, args.Error(1)
}

func (m *MessageRepositoryMock) ListUnreadMessages(ctx context.Context, userID uuid.UUID, page filters.Page) ([]models.Message, error) {
	args := m.Called(ctx, userID, page)
	var list []models.Message
	if val := args.Get(0); val != nil {
		list = val.([]models.Message)
	}
	return list, args.Error(1)
}

func (m *MessageRepositoryMock) EditMessageBody(ctx context.Context, messageID uuid.UUID, body string) (models.Message, string, error) {
	args := m.Called(ctx, messageID, body)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.String(1), args.Error(2)
}

func (m *MessageRepositoryMock) MarkMessageRead(ctx context.Context, messageID uuid.UUID) error {
	args := m.Called(ctx, messageID)
	return args.Error(0)
}

func (m *MessageRepositoryMock) DeleteMessage(ctx context.Context, messageID uuid.UUID) error {
	args := m.Called(ctx, messageID)
	return args.Error(0)
}

type NotificationRepositoryMock struct {
	mock.Mock
}

func (m *NotificationRepositoryMock) CreateNotification(ctx context.Context, recipientID, messageID uuid.UUID) (models.Notification, error) {
	args := m.Called(ctx, recipientID, messageID)
	var n models.Notification
	if val := args.Get(0); val != nil {
		n = val.(models.Notification)
	}
	return n, args.Error(1)
}

func (m *NotificationRepositoryMock) ListNotificationsForUser(ctx context.Context, recipientID uuid.UUID) ([]models.Notification, error) {
	args := m.Called(ctx, recipientID)
	var list []models.Notification
	if val := args.Get(0); val != nil {
		list = val.([]models.Notification)
	}
	return list, args.Error(1)
}

type HistoryRepositoryMock struct {
	mock.Mock
}

func (m *HistoryRepositoryMock) CreateMessageHistory(ctx context.Context, messageID uuid.UUID, priorBody string, editedBy uuid.UUID) (models.MessageHistory, error) {
	args := m.Called(ctx, messageID, priorBody, editedBy)
	var h models.MessageHistory
	if val := args.Get(0); val != nil {
		h = val.(models.MessageHistory)
	}
	return h, args.Error(1)
}

func (m *HistoryRepositoryMock) ListMessageHistory(ctx context.Context, messageID uuid.UUID) ([]models.MessageHistory, error) {
	args := m.Called(ctx, messageID)
	var list []models.MessageHistory
	if val := args.Get(0); val != nil {
		list = val.([]models.MessageHistory)
	}
	return list, args.Error(1)
}
