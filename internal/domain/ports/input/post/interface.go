package post_service

import (
	"context"

	model "landing/internal/domain/models"
)

//go:generate mockery --name Service --dir . --output ../../../../../mocks/post_service --outpkg mocks --filename Service.go
type Service interface {
	CreatePost(ctx context.Context, post *model.CreatePostDTO) (*model.Post, error)
	GetPostByID(ctx context.Context, id int64) (*model.Post, error)
	ListPosts(ctx context.Context, filters *model.PostFilters) ([]*model.Post, int, error)
}
