package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"messaging-service/internal/auth"
	"messaging-service/internal/mocks"
	"messaging-service/internal/models"
	"messaging-service/internal/repositories"
)

func setupAuthRouter(handler *AuthHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/auth/token/", handler.Token)
	r.POST("/auth/token/refresh/", handler.Refresh)
	return r
}

func testTokenManager() *auth.Manager {
	return auth.NewManager("test-secret", 15*time.Minute, 24*time.Hour)
}

func TestTokenSuccess(t *testing.T) {
	userRepo := new(mocks.UserRepositoryMock)
	handler := NewAuthHandler(userRepo, testTokenManager())
	router := setupAuthRouter(handler)

	hash, err := auth.HashPassword("correct horse")
	require.NoError(t, err)

	userRepo.On("GetUserByEmail", mock.Anything, "alice@example.com").
		Return(models.User{ID: uuid.New(), Email: "alice@example.com", PasswordHash: hash, IsActive: true}, nil).Once()

	body := bytes.NewBufferString(`{"email":"alice@example.com","password":"correct horse"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/token/", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotEmpty(t, resp["access"])
	require.NotEmpty(t, resp["refresh"])
	userRepo.AssertExpectations(t)
}

func TestTokenWrongPassword(t *testing.T) {
	userRepo := new(mocks.UserRepositoryMock)
	handler := NewAuthHandler(userRepo, testTokenManager())
	router := setupAuthRouter(handler)

	hash, err := auth.HashPassword("correct horse")
	require.NoError(t, err)

	userRepo.On("GetUserByEmail", mock.Anything, "alice@example.com").
		Return(models.User{ID: uuid.New(), PasswordHash: hash, IsActive: true}, nil).Once()

	body := bytes.NewBufferString(`{"email":"alice@example.com","password":"wrong"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/token/", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTokenUnknownEmail(t *testing.T) {
	userRepo := new(mocks.UserRepositoryMock)
	handler := NewAuthHandler(userRepo, testTokenManager())
	router := setupAuthRouter(handler)

	userRepo.On("GetUserByEmail", mock.Anything, "ghost@example.com").
		Return(models.User{}, repositories.ErrUserNotFound).Once()

	body := bytes.NewBufferString(`{"email":"ghost@example.com","password":"whatever"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/token/", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRefreshSuccess(t *testing.T) {
	userRepo := new(mocks.UserRepositoryMock)
	tokens := testTokenManager()
	handler := NewAuthHandler(userRepo, tokens)
	router := setupAuthRouter(handler)

	userID := uuid.New()
	_, refresh, err := tokens.GeneratePair(userID)
	require.NoError(t, err)

	userRepo.On("GetUserByID", mock.Anything, userID).
		Return(models.User{ID: userID, IsActive: true}, nil).Once()

	body := bytes.NewBufferString(fmt.Sprintf(`{"refresh":%q}`, refresh))
	req := httptest.NewRequest(http.MethodPost, "/auth/token/refresh/", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotEmpty(t, resp["access"])
	userRepo.AssertExpectations(t)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	userRepo := new(mocks.UserRepositoryMock)
	tokens := testTokenManager()
	handler := NewAuthHandler(userRepo, tokens)
	router := setupAuthRouter(handler)

	access, _, err := tokens.GeneratePair(uuid.New())
	require.NoError(t, err)

	body := bytes.NewBufferString(fmt.Sprintf(`{"refresh":%q}`, access))
	req := httptest.NewRequest(http.MethodPost, "/auth/token/refresh/", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	userRepo.AssertNotCalled(t, "GetUserByID")
}

func TestRefreshRejectsDeactivatedUser(t *testing.T) {
	userRepo := new(mocks.UserRepositoryMock)
	tokens := testTokenManager()
	handler := NewAuthHandler(userRepo, tokens)
	router := setupAuthRouter(handler)

	userID := uuid.New()
	_, refresh, err := tokens.GeneratePair(userID)
	require.NoError(t, err)

	userRepo.On("GetUserByID", mock.Anything, userID).
		Return(models.User{ID: userID, IsActive: false}, nil).Once()

	body := bytes.NewBufferString(fmt.Sprintf(`{"refresh":%q}`, refresh))
	req := httptest.NewRequest(http.MethodPost, "/auth/token/refresh/", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
