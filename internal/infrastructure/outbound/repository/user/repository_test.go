package user_repository_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"landing/internal/custom_errors"
	model "landing/internal/domain/models"
	user_repository "landing/internal/domain/ports/output/user"
	"landing/internal/infrastructure/logger"
	"landing/internal/infrastructure/outbound/repository/user/memory"
)

func setupUserTest(t *testing.T) user_repository.Repository {
	t.Helper()
	return memory.NewUserRepository(logger.New("test"))
}

func TestUserRepository_Create(t *testing.T) {
	repo := setupUserTest(t)
	ctx := context.Background()

	t.Run("persists email", func(t *testing.T) {
		user, err := repo.Create(ctx, "alice@example.com", "$2a$10$hash")
		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", user.Email)
		assert.NotEqual(t, uuid.Nil, user.ID)
		assert.NotEmpty(t, user.PasswordHash)

		fetched, err := repo.GetByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, user.ID, fetched.ID)
	})

	t.Run("duplicate email fails", func(t *testing.T) {
		_, err := repo.Create(ctx, "dup@example.com", "hash")
		require.NoError(t, err)

		got, err := repo.Create(ctx, "dup@example.com", "hash")
		assert.ErrorIs(t, err, custom_errors.ErrUserExists)
		assert.Nil(t, got)
	})
}

func TestUserRepository_Get(t *testing.T) {
	repo := setupUserTest(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, "bob@example.com", "hash")
	require.NoError(t, err)

	tests := []struct {
		name    string
		get     func() (*model.User, error)
		wantErr error
	}{
		{
			name: "by id",
			get:  func() (*model.User, error) { return repo.GetByID(ctx, created.ID) },
		},
		{
			name:    "unknown id",
			get:     func() (*model.User, error) { return repo.GetByID(ctx, uuid.New()) },
			wantErr: custom_errors.ErrUserNotFound,
		},
		{
			name: "by email",
			get:  func() (*model.User, error) { return repo.GetByEmail(ctx, "bob@example.com") },
		},
		{
			name:    "unknown email",
			get:     func() (*model.User, error) { return repo.GetByEmail(ctx, "nobody@example.com") },
			wantErr: custom_errors.ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.get()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, created.ID, got.ID)
			assert.Equal(t, created.Email, got.Email)
		})
	}
}

func TestUserRepository_ExistsByEmail(t *testing.T) {
	repo := setupUserTest(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, "carol@example.com", "hash")
	require.NoError(t, err)

	exists, err := repo.ExistsByEmail(ctx, "carol@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByEmail(ctx, "dave@example.com")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestUserRepository_List(t *testing.T) {
	repo := setupUserTest(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := repo.Create(ctx, fmt.Sprintf("user%d@example.com", i), "hash")
		require.NoError(t, err)
	}

	limit, offset, bigOffset := 2, 1, 10

	tests := []struct {
		name    string
		filters model.UserFilters
		wantLen int
	}{
		{name: "no pagination", filters: model.UserFilters{}, wantLen: 5},
		{name: "limit", filters: model.UserFilters{Limit: &limit}, wantLen: 2},
		{name: "limit and offset", filters: model.UserFilters{Limit: &limit, Offset: &offset}, wantLen: 2},
		{name: "offset past end", filters: model.UserFilters{Offset: &bigOffset}, wantLen: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users, total, err := repo.List(ctx, tt.filters)
			require.NoError(t, err)
			assert.Len(t, users, tt.wantLen)
			assert.Equal(t, 5, total)
		})
	}
}
