package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"messaging-service/internal/auth"
	"messaging-service/internal/middleware"
	"messaging-service/internal/repositories"
)

// UserHandler manages account registration and deletion.
type UserHandler struct {
	users repositories.UserRepository
}

// NewUserHandler builds a UserHandler.
func NewUserHandler(users repositories.UserRepository) *UserHandler {
	return &UserHandler{users: users}
}

// Register creates a new account.
func (h *UserHandler) Register(c *gin.Context) {
	var req struct {
		Email       string `json:"email" binding:"required,email"`
		DisplayName string `json:"display_name" binding:"required"`
		Password    string `json:"password" binding:"required,min=8"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to hash password"})
		return
	}

	user, err := h.users.CreateUser(c.Request.Context(), req.Email, req.DisplayName, hash)
	if err != nil {
		if errors.Is(err, repositories.ErrEmailTaken) {
			c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"email": "already registered"}})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create user"})
		return
	}

	c.JSON(http.StatusCreated, user)
}

// DeleteMe removes the authenticated account together with every message
// the user sent or received and every notification addressed to them.
// Conversations the user participated in survive with a smaller participant
// set.
func (h *UserHandler) DeleteMe(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	if err := h.users.DeleteUser(c.Request.Context(), userID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete user"})
		return
	}

	c.Status(http.StatusNoContent)
}
