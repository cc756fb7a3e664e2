package model

import (
	"time"

	"github.com/google/uuid"
)

// Session is the persisted form of a login. Only the hash of the bearer
// token is stored.
type Session struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	TokenHash string    `json:"token_hash"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Session) IsExpired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}

// SessionWithUser is the joined row returned when a token is validated.
type SessionWithUser struct {
	Session *Session `json:"session"`
	User    *User    `json:"user"`
}

// AuthenticatedUser is what callers get back from login and validation.
type AuthenticatedUser struct {
	User      *User     `json:"user"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
