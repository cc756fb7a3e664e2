package auth_service

import (
	"context"

	model "landing/internal/domain/models"
)

//go:generate mockery --name Service --dir . --output ../../../../../mocks/auth --outpkg mocks --filename Service.go
type Service interface {
	Register(ctx context.Context, email, password string) (*model.User, error)
	Login(ctx context.Context, email, password string) (*model.AuthenticatedUser, error)
	ValidateSession(ctx context.Context, token string) (*model.AuthenticatedUser, error)
	Logout(ctx context.Context, token string) error
	PurgeExpiredSessions(ctx context.Context) (int64, error)
}
