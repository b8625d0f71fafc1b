package handlers

import (
	"bytes"
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
	"messaging-service/internal/repositories"
)

func setupUserRouter(handler *UserHandler, principal uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", principal)
		c.Next()
	})
	r.POST("/users/", handler.Register)
	r.DELETE("/users/me/", handler.DeleteMe)
	return r
}

func TestRegisterSuccess(t *testing.T) {
	userRepo := new(mocks.UserRepositoryMock)
	handler := NewUserHandler(userRepo)
	router := setupUserRouter(handler, uuid.Nil)

	userRepo.On("CreateUser", mock.Anything, "bob@example.com", "Bob", mock.AnythingOfType("string")).
		Return(models.User{ID: uuid.New(), Email: "bob@example.com", DisplayName: "Bob", IsActive: true}, nil).Once()

	body := bytes.NewBufferString(`{"email":"bob@example.com","display_name":"Bob","password":"longenough"}`)
	req := httptest.NewRequest(http.MethodPost, "/users/", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp models.User
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Equal(t, "bob@example.com", resp.Email)
	userRepo.AssertExpectations(t)
}

func TestRegisterShortPassword(t *testing.T) {
	userRepo := new(mocks.UserRepositoryMock)
	handler := NewUserHandler(userRepo)
	router := setupUserRouter(handler, uuid.Nil)

	body := bytes.NewBufferString(`{"email":"bob@example.com","display_name":"Bob","password":"short"}`)
	req := httptest.NewRequest(http.MethodPost, "/users/", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	userRepo.AssertNotCalled(t, "CreateUser")
}

func TestRegisterDuplicateEmail(t *testing.T) {
	userRepo := new(mocks.UserRepositoryMock)
	handler := NewUserHandler(userRepo)
	router := setupUserRouter(handler, uuid.Nil)

	userRepo.On("CreateUser", mock.Anything, "bob@example.com", "Bob", mock.AnythingOfType("string")).
		Return(models.User{}, repositories.ErrEmailTaken).Once()

	body := bytes.NewBufferString(`{"email":"bob@example.com","display_name":"Bob","password":"longenough"}`)
	req := httptest.NewRequest(http.MethodPost, "/users/", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp map[string]map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Contains(t, resp["errors"], "email")
}

func TestDeleteMe(t *testing.T) {
	principal := uuid.New()
	userRepo := new(mocks.UserRepositoryMock)
	handler := NewUserHandler(userRepo)
	router := setupUserRouter(handler, principal)

	userRepo.On("DeleteUser", mock.Anything, principal).Return(nil).Once()

	req := httptest.NewRequest(http.MethodDelete, "/users/me/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	userRepo.AssertExpectations(t)
}
