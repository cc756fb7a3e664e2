package cache

import (
	"context"

	model "landing/internal/domain/models"
)

//go:generate mockery --name SessionCache --dir . --output ../../../../../mocks/cache --outpkg mocks --filename SessionCache.go
type SessionCache interface {
	GetSession(ctx context.Context, tokenHash string) (*model.SessionWithUser, error)
	SetSession(ctx context.Context, tokenHash string, session *model.SessionWithUser) error
	DeleteSession(ctx context.Context, tokenHash string) error
}
