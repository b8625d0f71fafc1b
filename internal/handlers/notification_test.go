package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"messaging-service/internal/mocks"
	"messaging-service/internal/models"
)

func setupNotificationRouter(handler *NotificationHandler, principal uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", principal)
		c.Next()
	})
	r.GET("/notifications/", handler.ListNotifications)
	return r
}

func TestListNotifications(t *testing.T) {
	principal := uuid.New()
	notifRepo := new(mocks.NotificationRepositoryMock)
	handler := NewNotificationHandler(notifRepo)
	router := setupNotificationRouter(handler, principal)

	notifRepo.On("ListNotificationsForUser", mock.Anything, principal).
		Return([]models.Notification{{ID: uuid.New(), RecipientID: principal}}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/notifications/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string][]models.Notification
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp["notifications"], 1)
	notifRepo.AssertExpectations(t)
}

func TestListNotificationsEmpty(t *testing.T) {
	principal := uuid.New()
	notifRepo := new(mocks.NotificationRepositoryMock)
	handler := NewNotificationHandler(notifRepo)
	router := setupNotificationRouter(handler, principal)

	notifRepo.On("ListNotificationsForUser", mock.Anything, principal).
		Return(([]models.Notification)(nil), nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/notifications/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string][]models.Notification
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotNil(t, resp["notifications"])
	require.Empty(t, resp["notifications"])
}
