package types

import (
	"time"

	"github.com/pageza/recipebox/backend/internal/models"
)

// ArticleRequest is the full write model used by POST and PUT
type ArticleRequest struct {
	Title  string     `json:"title" binding:"required,max=255"`
	Author string     `json:"author" binding:"required,max=255"`
	Body   string     `json:"body"`
	Date   *time.Time `json:"date" binding:"required"`
}

// ArticlePatchRequest is the partial write model used by PATCH
type ArticlePatchRequest struct {
	Title  *string    `json:"title" binding:"omitempty,max=255"`
	Author *string    `json:"author" binding:"omitempty,max=255"`
	Body   *string    `json:"body"`
	Date   *time.Time `json:"date"`
}

type ArticleResponse struct {
	ID     uint      `json:"id"`
	Title  string    `json:"title"`
	Author string    `json:"author"`
	Body   string    `json:"body"`
	Date   time.Time `json:"date"`
	Image  *string   `json:"image"`
}

func NewArticleResponse(a *models.Article, image *string) ArticleResponse {
	return ArticleResponse{
		ID:     a.ID,
		Title:  a.Title,
		Author: a.Author,
		Body:   a.Body,
		Date:   a.Date.UTC(),
		Image:  image,
	}
}

// ErrorResponse is the body of every error reply. Fields is set for validation failures.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}
