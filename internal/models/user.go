package models

import (
	"time"

	"github.com/google/uuid"
)

// User is an account identified by email. Accounts are deactivated rather
// than deleted in normal operation; a hard delete cascades over the user's
// messages and notifications.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	DisplayName  string    `db:"display_name" json:"display_name"`
	PasswordHash string    `db:"password_hash" json:"-"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	IsStaff      bool      `db:"is_staff" json:"is_staff"`
	IsAdmin      bool      `db:"is_admin" json:"is_admin"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
