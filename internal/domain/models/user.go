package model

import (
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
)

const (
	MinPasswordLength = 8
	// bcrypt rejects passwords longer than 72 bytes.
	MaxPasswordBytes = 72
)

type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserFilters struct {
	Limit  *int
	Offset *int
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsValidEmail is intentionally loose; transports run the stricter
// validator "email" rule before this is reached.
func IsValidEmail(email string) bool {
	return email != "" && strings.Contains(email, "@") && strings.Contains(email, ".")
}

func MeetsPasswordRequirements(password string) bool {
	if len(password) < MinPasswordLength || len(password) > MaxPasswordBytes {
		return false
	}
	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	return hasUpper && hasLower && hasDigit
}
