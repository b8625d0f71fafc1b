package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"messaging-service/internal/access"
	"messaging-service/internal/mocks"
	"messaging-service/internal/models"
)

func setupHistoryRouter(handler *HistoryHandler, principal uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", principal)
		c.Next()
	})
	r.GET("/messages/:message_id/history/", handler.GetMessageHistory)
	return r
}

func TestGetMessageHistorySuccess(t *testing.T) {
	principal := uuid.New()
	msgID := uuid.New()
	convID := uuid.New()
	convRepo := new(mocks.ConversationRepositoryMock)
	msgRepo := new(mocks.MessageRepositoryMock)
	historyRepo := new(mocks.HistoryRepositoryMock)
	handler := NewHistoryHandler(historyRepo, access.NewEvaluator(convRepo, msgRepo))
	router := setupHistoryRouter(handler, principal)

	msgRepo.On("GetMessage", mock.Anything, msgID).
		Return(models.Message{ID: msgID, ConversationID: convID, SenderID: principal}, nil).Once()
	convRepo.On("IsParticipant", mock.Anything, convID, principal).Return(true, nil).Once()
	historyRepo.On("ListMessageHistory", mock.Anything, msgID).
		Return([]models.MessageHistory{{ID: uuid.New(), MessageID: msgID, PriorBody: "before"}}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/messages/%s/history/", msgID), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string][]models.MessageHistory
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp["history"], 1)
	historyRepo.AssertExpectations(t)
}

func TestGetMessageHistoryForbiddenForOutsider(t *testing.T) {
	principal := uuid.New()
	msgID := uuid.New()
	convID := uuid.New()
	convRepo := new(mocks.ConversationRepositoryMock)
	msgRepo := new(mocks.MessageRepositoryMock)
	historyRepo := new(mocks.HistoryRepositoryMock)
	handler := NewHistoryHandler(historyRepo, access.NewEvaluator(convRepo, msgRepo))
	router := setupHistoryRouter(handler, principal)

	msgRepo.On("GetMessage", mock.Anything, msgID).
		Return(models.Message{ID: msgID, ConversationID: convID, SenderID: uuid.New()}, nil).Once()
	convRepo.On("IsParticipant", mock.Anything, convID, principal).Return(false, nil).Once()

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/messages/%s/history/", msgID), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	historyRepo.AssertNotCalled(t, "ListMessageHistory")
}
