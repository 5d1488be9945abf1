package user

import (
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
)

var (
	ErrNotFound           = apperror.NotFound("user not found")
	ErrEmailAlreadyUsed   = apperror.Conflict("email already used")
	ErrInvalidCredentials = apperror.Unauthorized("invalid email or password")
	ErrEmailRequired      = apperror.InvalidArgument("email is required")
	ErrNameRequired       = apperror.InvalidArgument("name is required")
	ErrPasswordTooShort   = apperror.InvalidArgument("password is too short")
)

// User represents a user in the system.
// Bookings only ever compare users by ID.
type User struct {
	ID           string // UUID
	Email        string
	PasswordHash string
	Name         string
	CreatedAt    time.Time
	LastLoginAt  *time.Time
}
