package handlers

import (
	"bytes"
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
	"messaging-service/internal/filters"
	"messaging-service/internal/mocks"
	"messaging-service/internal/models"
)

func setupConversationRouter(handler *ConversationHandler, principal uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", principal)
		c.Next()
	})
	r.GET("/conversations/", handler.ListConversations)
	r.POST("/conversations/", handler.CreateConversation)
	r.GET("/conversations/:conversation_id/", handler.GetConversation)
	return r
}

func TestListConversationsSuccess(t *testing.T) {
	principal := uuid.New()
	convRepo := new(mocks.ConversationRepositoryMock)
	msgRepo := new(mocks.MessageRepositoryMock)
	handler := NewConversationHandler(convRepo, msgRepo, new(mocks.UserRepositoryMock), access.NewEvaluator(convRepo, msgRepo))
	router := setupConversationRouter(handler, principal)

	convRepo.On("ListConversationsForUser", mock.Anything, principal, mock.Anything, filters.Page{Limit: 20}).
		Return([]models.Conversation{{ID: uuid.New(), Participants: []uuid.UUID{principal}}}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/conversations/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string][]models.Conversation
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp["conversations"], 1)
	convRepo.AssertExpectations(t)
}

func TestListConversationsPaginates(t *testing.T) {
	principal := uuid.New()
	convRepo := new(mocks.ConversationRepositoryMock)
	msgRepo := new(mocks.MessageRepositoryMock)
	handler := NewConversationHandler(convRepo, msgRepo, new(mocks.UserRepositoryMock), access.NewEvaluator(convRepo, msgRepo))
	router := setupConversationRouter(handler, principal)

	convRepo.On("ListConversationsForUser", mock.Anything, principal, mock.Anything, filters.Page{Limit: 10, Offset: 20}).
		Return([]models.Conversation{}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/conversations/?page=3&limit=10", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	convRepo.AssertExpectations(t)
}

func TestListConversationsBadPage(t *testing.T) {
	principal := uuid.New()
	convRepo := new(mocks.ConversationRepositoryMock)
	msgRepo := new(mocks.MessageRepositoryMock)
	handler := NewConversationHandler(convRepo, msgRepo, new(mocks.UserRepositoryMock), access.NewEvaluator(convRepo, msgRepo))
	router := setupConversationRouter(handler, principal)

	req := httptest.NewRequest(http.MethodGet, "/conversations/?page=zero", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	convRepo.AssertNotCalled(t, "ListConversationsForUser")
}

func TestListConversationsBadFilter(t *testing.T) {
	principal := uuid.New()
	convRepo := new(mocks.ConversationRepositoryMock)
	msgRepo := new(mocks.MessageRepositoryMock)
	handler := NewConversationHandler(convRepo, msgRepo, new(mocks.UserRepositoryMock), access.NewEvaluator(convRepo, msgRepo))
	router := setupConversationRouter(handler, principal)

	req := httptest.NewRequest(http.MethodGet, "/conversations/?created_after=yesterday", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp map[string]map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Contains(t, resp["errors"], "created_after")
	convRepo.AssertNotCalled(t, "ListConversationsForUser")
}

func TestCreateConversationSkipsUnresolvableIDs(t *testing.T) {
	principal := uuid.New()
	other := uuid.New()
	missing := uuid.New()
	convRepo := new(mocks.ConversationRepositoryMock)
	msgRepo := new(mocks.MessageRepositoryMock)
	userRepo := new(mocks.UserRepositoryMock)
	handler := NewConversationHandler(convRepo, msgRepo, userRepo, access.NewEvaluator(convRepo, msgRepo))
	router := setupConversationRouter(handler, principal)

	userRepo.On("FilterExisting", mock.Anything, []uuid.UUID{principal, other, missing}).
		Return([]uuid.UUID{principal, other}, nil).Once()
	convRepo.On("CreateConversation", mock.Anything, []uuid.UUID{principal, other}).
		Return(models.Conversation{ID: uuid.New(), Participants: []uuid.UUID{principal, other}}, nil).Once()

	payload := fmt.Sprintf(`{"participant_ids":[%q,%q,"not-a-uuid",%q]}`, principal, other, missing)
	req := httptest.NewRequest(http.MethodPost, "/conversations/", bytes.NewBufferString(payload))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	userRepo.AssertExpectations(t)
	convRepo.AssertExpectations(t)
}

func TestCreateConversationMissingParticipants(t *testing.T) {
	principal := uuid.New()
	convRepo := new(mocks.ConversationRepositoryMock)
	msgRepo := new(mocks.MessageRepositoryMock)
	handler := NewConversationHandler(convRepo, msgRepo, new(mocks.UserRepositoryMock), access.NewEvaluator(convRepo, msgRepo))
	router := setupConversationRouter(handler, principal)

	req := httptest.NewRequest(http.MethodPost, "/conversations/", bytes.NewBufferString(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	convRepo.AssertNotCalled(t, "CreateConversation")
}

func TestGetConversationHidesExistenceFromOutsider(t *testing.T) {
	principal := uuid.New()
	convID := uuid.New()
	convRepo := new(mocks.ConversationRepositoryMock)
	msgRepo := new(mocks.MessageRepositoryMock)
	handler := NewConversationHandler(convRepo, msgRepo, new(mocks.UserRepositoryMock), access.NewEvaluator(convRepo, msgRepo))
	router := setupConversationRouter(handler, principal)

	convRepo.On("GetConversation", mock.Anything, convID).
		Return(models.Conversation{ID: convID, Participants: []uuid.UUID{uuid.New()}}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/conversations/%s/", convID), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	msgRepo.AssertNotCalled(t, "ListConversationMessages")
}

func TestGetConversationSuccess(t *testing.T) {
	principal := uuid.New()
	convID := uuid.New()
	convRepo := new(mocks.ConversationRepositoryMock)
	msgRepo := new(mocks.MessageRepositoryMock)
	handler := NewConversationHandler(convRepo, msgRepo, new(mocks.UserRepositoryMock), access.NewEvaluator(convRepo, msgRepo))
	router := setupConversationRouter(handler, principal)

	convRepo.On("GetConversation", mock.Anything, convID).
		Return(models.Conversation{ID: convID, Participants: []uuid.UUID{principal, uuid.New()}}, nil).Once()
	msgRepo.On("ListConversationMessages", mock.Anything, convID, mock.Anything, mock.Anything).
		Return(([]models.Message)(nil), nil).Once()

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/conversations/%s/", convID), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Equal(t, convID.String(), resp["id"])
	require.NotNil(t, resp["messages"])
	convRepo.AssertExpectations(t)
	msgRepo.AssertExpectations(t)
}
