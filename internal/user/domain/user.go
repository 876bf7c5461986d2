// Package domain defines the core user domain entities and types.
package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/blocodev/wallethub/internal/errors"
)

// User represents a user in the system
type User struct {
	ID        uuid.UUID
	Name      string
	Email     string
	Password  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Domain-specific errors for user operations.
var (
	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = errors.Wrap(errors.ErrNotFound, "user not found")

	// ErrUserAlreadyExists indicates a user with the same email already exists.
	ErrUserAlreadyExists = errors.Wrap(errors.ErrConflict, "user already exists")

	// ErrInvalidCredentials indicates the email/password pair does not match.
	ErrInvalidCredentials = errors.Wrap(errors.ErrUnauthorized, "invalid credentials")
)

// UserCreatedEvent is emitted when a user registers.
type UserCreatedEvent struct {
	EventType string `json:"event_type"`
	UserID    string `json:"user_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
}

// NewUserCreatedEvent builds a UserCreatedEvent.
func NewUserCreatedEvent(user *User) UserCreatedEvent {
	return UserCreatedEvent{
		EventType: "user.created",
		UserID:    user.ID.String(),
		Name:      user.Name,
		Email:     user.Email,
	}
}

// Kind returns the event type tag.
func (e UserCreatedEvent) Kind() string { return e.EventType }

// Correlation returns an empty correlation id; user events do not participate
// in the wallet saga.
func (e UserCreatedEvent) Correlation() string { return "" }
