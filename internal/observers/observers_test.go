package observers

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"messaging-service/internal/mocks"
	"messaging-service/internal/models"
)

func TestDispatcherSwallowsObserverFailure(t *testing.T) {
	notifRepo := new(mocks.NotificationRepositoryMock)
	historyRepo := new(mocks.HistoryRepositoryMock)
	dispatcher := NewDispatcher(zap.NewNop(),
		NewNotificationObserver(notifRepo),
		NewHistoryObserver(historyRepo),
	)

	msg := models.Message{ID: uuid.New(), ReceiverID: uuid.New(), SenderID: uuid.New()}

	notifRepo.On("CreateNotification", mock.Anything, msg.ReceiverID, msg.ID).
		Return(models.Notification{}, assert.AnError).Once()

	// Must not panic or propagate; a failed observer never fails the write.
	dispatcher.MessageCreated(context.Background(), msg)
	notifRepo.AssertExpectations(t)
}

func TestDispatcherNotifiesEveryObserver(t *testing.T) {
	notifRepo := new(mocks.NotificationRepositoryMock)
	historyRepo := new(mocks.HistoryRepositoryMock)
	dispatcher := NewDispatcher(zap.NewNop(),
		NewNotificationObserver(notifRepo),
		NewHistoryObserver(historyRepo),
	)

	msg := models.Message{ID: uuid.New(), SenderID: uuid.New(), Body: "after"}

	historyRepo.On("CreateMessageHistory", mock.Anything, msg.ID, "before", msg.SenderID).
		Return(models.MessageHistory{}, nil).Once()

	dispatcher.MessageEdited(context.Background(), msg, "before")
	historyRepo.AssertExpectations(t)
	notifRepo.AssertNotCalled(t, "CreateNotification")
}
