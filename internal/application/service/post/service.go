package post_service

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	"landing/internal/custom_errors"
	model "landing/internal/domain/models"
	ports "landing/internal/domain/ports/output"
	post_repository "landing/internal/domain/ports/output/post"

	"github.com/google/uuid"
)

type PostService struct {
	postRepo post_repository.Repository
	log      ports.Logger
	metrics  ports.MetricsProvider
}

func NewPostService(postRepo post_repository.Repository, log ports.Logger, metrics ports.MetricsProvider) *PostService {
	return &PostService{
		postRepo: postRepo,
		log:      log,
		metrics:  metrics,
	}
}

func (s *PostService) CreatePost(ctx context.Context, post *model.CreatePostDTO) (result *model.Post, err error) {
	defer func() { s.metrics.IncrementPostOperations("create", err == nil) }()

	title := strings.TrimSpace(post.Title)
	body := strings.TrimSpace(post.Body)
	if title == "" || utf8.RuneCountInString(title) > model.MaxTitleLength {
		s.log.Debug("Rejected post with invalid title", slog.Int("title_length", utf8.RuneCountInString(title)))
		return nil, custom_errors.ErrPostValidation
	}
	if body == "" {
		s.log.Debug("Rejected post with empty body")
		return nil, custom_errors.ErrPostValidation
	}

	authorID := post.AuthorID
	created, err := s.postRepo.Create(ctx, &model.Post{
		AuthorID: &authorID,
		Title:    title,
		Body:     body,
	})
	if err != nil {
		s.log.Error("Failed to create post", slog.String("error", err.Error()))
		return nil, err
	}

	s.log.Info("Post created",
		slog.Int64("post_id", created.ID),
		slog.String("author_id", authorID.String()))
	return created, nil
}

func (s *PostService) GetPostByID(ctx context.Context, id int64) (*model.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		s.metrics.IncrementPostOperations("get", false)
		return nil, err
	}
	s.metrics.IncrementPostOperations("get", true)
	return post, nil
}

// ListPosts clamps the page size into [1, MaxPostsLimit] and treats a
// negative offset as zero.
func (s *PostService) ListPosts(ctx context.Context, filters *model.PostFilters) ([]*model.Post, int, error) {
	limit, offset := model.DefaultPostsLimit, 0
	var authorID *uuid.UUID
	if filters != nil {
		if filters.Limit != nil && *filters.Limit > 0 {
			limit = min(*filters.Limit, model.MaxPostsLimit)
		}
		if filters.Offset != nil && *filters.Offset > 0 {
			offset = *filters.Offset
		}
		authorID = filters.AuthorID
	}

	posts, total, err := s.postRepo.List(ctx, model.PostFilters{
		AuthorID: authorID,
		Limit:    &limit,
		Offset:   &offset,
	})
	if err != nil {
		s.metrics.IncrementPostOperations("list", false)
		return nil, 0, err
	}

	s.metrics.IncrementPostOperations("list", true)
	return posts, total, nil
}
