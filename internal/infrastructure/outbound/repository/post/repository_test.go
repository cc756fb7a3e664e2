package post_repository_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"landing/internal/custom_errors"
	model "landing/internal/domain/models"
	post_repository "landing/internal/domain/ports/output/post"
	"landing/internal/infrastructure/logger"
	"landing/internal/infrastructure/outbound/repository/post/memory"
)

func setupPostTest(t *testing.T) post_repository.Repository {
	t.Helper()
	return memory.NewPostRepository(logger.New("test"))
}

func TestPostRepository_CreateAndGet(t *testing.T) {
	repo := setupPostTest(t)
	ctx := context.Background()
	authorID := uuid.New()

	created, err := repo.Create(ctx, &model.Post{AuthorID: &authorID, Title: "Hello", Body: "World"})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hello", got.Title)
	assert.Equal(t, "World", got.Body)
	require.NotNil(t, got.AuthorID)
	assert.Equal(t, authorID, *got.AuthorID)

	_, err = repo.GetByID(ctx, created.ID+100)
	assert.ErrorIs(t, err, custom_errors.ErrPostNotFound)
}

func TestPostRepository_List(t *testing.T) {
	repo := setupPostTest(t)
	ctx := context.Background()
	alice, bob := uuid.New(), uuid.New()

	for i := 0; i < 3; i++ {
		_, err := repo.Create(ctx, &model.Post{AuthorID: &alice, Title: fmt.Sprintf("a%d", i), Body: "b"})
		require.NoError(t, err)
	}
	_, err := repo.Create(ctx, &model.Post{AuthorID: &bob, Title: "b0", Body: "b"})
	require.NoError(t, err)

	limit, offset := 2, 3

	tests := []struct {
		name      string
		filters   model.PostFilters
		wantLen   int
		wantTotal int
	}{
		{name: "all", filters: model.PostFilters{}, wantLen: 4, wantTotal: 4},
		{name: "by author", filters: model.PostFilters{AuthorID: &alice}, wantLen: 3, wantTotal: 3},
		{name: "limit", filters: model.PostFilters{Limit: &limit}, wantLen: 2, wantTotal: 4},
		{name: "offset", filters: model.PostFilters{Offset: &offset}, wantLen: 1, wantTotal: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			posts, total, err := repo.List(ctx, tt.filters)
			require.NoError(t, err)
			assert.Len(t, posts, tt.wantLen)
			assert.Equal(t, tt.wantTotal, total)
		})
	}

	t.Run("newest first", func(t *testing.T) {
		posts, _, err := repo.List(ctx, model.PostFilters{})
		require.NoError(t, err)
		for i := 1; i < len(posts); i++ {
			assert.Greater(t, posts[i-1].ID, posts[i].ID)
		}
	})
}
