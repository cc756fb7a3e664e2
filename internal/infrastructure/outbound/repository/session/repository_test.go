package session_repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"landing/internal/custom_errors"
	model "landing/internal/domain/models"
	"landing/internal/infrastructure/logger"
	session_memory "landing/internal/infrastructure/outbound/repository/session/memory"
	user_memory "landing/internal/infrastructure/outbound/repository/user/memory"
)

func setupSessionTest(t *testing.T) (*session_memory.SessionRepository, *model.User) {
	t.Helper()
	log := logger.New("test")
	users := user_memory.NewUserRepository(log)
	user, err := users.Create(context.Background(), "alice@example.com", "hash")
	require.NoError(t, err)
	return session_memory.NewSessionRepository(users, log), user
}

func TestSessionRepository_CreateAndGetValid(t *testing.T) {
	repo, user := setupSessionTest(t)
	ctx := context.Background()
	now := time.Now()

	_, err := repo.Create(ctx, user.ID, "live", now.Add(time.Hour))
	require.NoError(t, err)
	_, err = repo.Create(ctx, user.ID, "stale", now.Add(-time.Minute))
	require.NoError(t, err)

	tests := []struct {
		name      string
		tokenHash string
		wantErr   error
	}{
		{name: "valid session", tokenHash: "live"},
		{name: "expired session", tokenHash: "stale", wantErr: custom_errors.ErrSessionNotFound},
		{name: "unknown session", tokenHash: "missing", wantErr: custom_errors.ErrSessionNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.GetValid(ctx, tt.tokenHash, now)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, user.ID, got.User.ID)
			assert.Equal(t, user.Email, got.User.Email)
			assert.Equal(t, tt.tokenHash, got.Session.TokenHash)
		})
	}
}

func TestSessionRepository_CreateUnknownUser(t *testing.T) {
	repo, _ := setupSessionTest(t)

	_, err := repo.Create(context.Background(), uuid.New(), "hash", time.Now().Add(time.Hour))
	assert.ErrorIs(t, err, custom_errors.ErrUserNotFound)
}

func TestSessionRepository_ExpiryBoundary(t *testing.T) {
	repo, user := setupSessionTest(t)
	ctx := context.Background()
	expiresAt := time.Now().Add(time.Minute)

	_, err := repo.Create(ctx, user.ID, "edge", expiresAt)
	require.NoError(t, err)

	_, err = repo.GetValid(ctx, "edge", expiresAt.Add(-time.Nanosecond))
	assert.NoError(t, err)

	_, err = repo.GetValid(ctx, "edge", expiresAt)
	assert.ErrorIs(t, err, custom_errors.ErrSessionNotFound)
}

func TestSessionRepository_Delete(t *testing.T) {
	repo, user := setupSessionTest(t)
	ctx := context.Background()
	now := time.Now()

	_, err := repo.Create(ctx, user.ID, "a", now.Add(time.Hour))
	require.NoError(t, err)
	_, err = repo.Create(ctx, user.ID, "b", now.Add(-time.Hour))
	require.NoError(t, err)
	_, err = repo.Create(ctx, user.ID, "c", now.Add(-2*time.Hour))
	require.NoError(t, err)

	require.NoError(t, repo.DeleteByTokenHash(ctx, "a"))
	_, err = repo.GetValid(ctx, "a", now)
	assert.ErrorIs(t, err, custom_errors.ErrSessionNotFound)

	require.NoError(t, repo.DeleteByTokenHash(ctx, "never-existed"))

	deleted, err := repo.DeleteExpiredForUser(ctx, uuid.New(), now)
	require.NoError(t, err)
	assert.Zero(t, deleted)

	deleted, err = repo.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)
}
