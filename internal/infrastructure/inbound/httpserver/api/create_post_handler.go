package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"landing/internal/custom_errors"
	model "landing/internal/domain/models"
	ports "landing/internal/domain/ports/output"
	"landing/internal/infrastructure/inbound/httpserver/middleware"

	"github.com/go-playground/validator/v10"
)

type PostCreator interface {
	CreatePost(ctx context.Context, post *model.CreatePostDTO) (*model.Post, error)
}

type CreatePostHandler struct {
	postService PostCreator
	validate    *validator.Validate
	log         ports.Logger
}

func NewCreatePostHandler(postService PostCreator, validate *validator.Validate, log ports.Logger) *CreatePostHandler {
	return &CreatePostHandler{
		postService: postService,
		validate:    validate,
		log:         log,
	}
}

type CreatePostRequestInternal struct {
	Title string `json:"title" validate:"required,max=255"`
	Body  string `json:"body" validate:"required"`
}

func (h *CreatePostHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req CreatePostRequestInternal
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		h.log.Debug("CreatePost validation failed", slog.String("error", err.Error()))
		writeError(w, http.StatusBadRequest, "title and body are required; title must be at most 255 characters")
		return
	}

	post, err := h.postService.CreatePost(r.Context(), &model.CreatePostDTO{
		AuthorID: user.User.ID,
		Title:    req.Title,
		Body:     req.Body,
	})
	if err != nil {
		if errors.Is(err, custom_errors.ErrPostValidation) {
			writeError(w, http.StatusBadRequest, "post validation failed")
			return
		}
		h.log.Error("Failed to create post", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to create post")
		return
	}

	writeJSON(w, http.StatusCreated, post)
}
