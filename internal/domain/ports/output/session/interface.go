package session_repository

import (
	"context"
	"time"

	model "landing/internal/domain/models"

	"github.com/google/uuid"
)

//go:generate mockery --name Repository --dir . --output ../../../../../mocks/session --outpkg mocks --filename Repository.go
type Repository interface {
	Create(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) (*model.Session, error)
	// GetValid returns the session and its user only when expires_at is after now.
	GetValid(ctx context.Context, tokenHash string, now time.Time) (*model.SessionWithUser, error)
	DeleteByTokenHash(ctx context.Context, tokenHash string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
	DeleteExpiredForUser(ctx context.Context, userID uuid.UUID, now time.Time) (int64, error)
}
