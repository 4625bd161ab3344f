package article

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("article not found")

type Article struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	SourceURL   string    `json:"sourceUrl"`
	UserID      int64     `json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type CreateArticleRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
	SourceURL   string `json:"sourceUrl" binding:"required,url"`
}

type UpdateArticleRequest struct {
	Title       *string `json:"title" binding:"omitempty"`
	Description *string `json:"description" binding:"omitempty"`
	SourceURL   *string `json:"sourceUrl" binding:"omitempty,url"`
}
