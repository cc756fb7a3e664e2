package api

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	model "landing/internal/domain/models"
	ports "landing/internal/domain/ports/output"

	"github.com/go-playground/validator/v10"
)

type PostLister interface {
	ListPosts(ctx context.Context, filters *model.PostFilters) ([]*model.Post, int, error)
}

type ListPostsHandler struct {
	postService PostLister
	validate    *validator.Validate
	log         ports.Logger
}

func NewListPostsHandler(postService PostLister, validate *validator.Validate, log ports.Logger) *ListPostsHandler {
	return &ListPostsHandler{
		postService: postService,
		validate:    validate,
		log:         log,
	}
}

type ListPostsRequestInternal struct {
	Limit  *int `validate:"omitempty,gte=1,lte=100"`
	Offset *int `validate:"omitempty,gte=0"`
}

type ListPostsResponse struct {
	Posts []*model.Post `json:"posts"`
	Total int           `json:"total"`
}

func parseOptionalInt(raw string) (*int, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (h *ListPostsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit, err := parseOptionalInt(query.Get("limit"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid limit")
		return
	}
	offset, err := parseOptionalInt(query.Get("offset"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid offset")
		return
	}

	req := &ListPostsRequestInternal{Limit: limit, Offset: offset}
	if err := h.validate.Struct(req); err != nil {
		h.log.Debug("ListPosts validation failed", slog.String("error", err.Error()))
		writeError(w, http.StatusBadRequest, "limit must be 1..100 and offset must be non-negative")
		return
	}

	posts, total, err := h.postService.ListPosts(r.Context(), &model.PostFilters{Limit: limit, Offset: offset})
	if err != nil {
		h.log.Error("Failed to list posts", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to list posts")
		return
	}
	if posts == nil {
		posts = []*model.Post{}
	}

	writeJSON(w, http.StatusOK, ListPostsResponse{Posts: posts, Total: total})
}
