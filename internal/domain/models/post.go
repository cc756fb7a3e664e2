package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	DefaultPostsLimit = 20
	MaxPostsLimit     = 100
	MaxTitleLength    = 255
)

type Post struct {
	ID        int64      `json:"id"`
	AuthorID  *uuid.UUID `json:"author_id,omitempty"`
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	CreatedAt time.Time  `json:"created_at"`
}

type CreatePostDTO struct {
	AuthorID uuid.UUID `json:"author_id"`
	Title    string    `json:"title"`
	Body     string    `json:"body"`
}

type PostFilters struct {
	AuthorID *uuid.UUID
	Limit    *int
	Offset   *int
}
