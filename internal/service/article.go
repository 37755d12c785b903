package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/pageza/recipebox/backend/internal/models"
	"github.com/pageza/recipebox/backend/internal/repository"
	"github.com/pageza/recipebox/backend/internal/storage"
	"github.com/pageza/recipebox/backend/internal/types"
)

type ArticleService struct {
	articles repository.ArticleRepository
	images   storage.ImageStore
	policy   OwnershipPolicy
	log      *zap.Logger
}

func NewArticleService(repo *repository.Repository, images storage.ImageStore, policy OwnershipPolicy, log *zap.Logger) *ArticleService {
	return &ArticleService{
		articles: repo.Articles,
		images:   images,
		policy:   policy,
		log:      log,
	}
}

func (s *ArticleService) List(ctx context.Context) ([]models.Article, error) {
	articles, err := s.articles.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}
	return articles, nil
}

func (s *ArticleService) Get(ctx context.Context, id uint) (*models.Article, error) {
	article, err := s.articles.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return article, nil
}

func (s *ArticleService) Create(ctx context.Context, owner *models.User, req *types.ArticleRequest) (*models.Article, error) {
	if owner == nil {
		return nil, ErrInvalidToken
	}
	article := &models.Article{UserID: owner.ID}
	if err := applyArticle(article, req); err != nil {
		return nil, err
	}
	if err := s.articles.Create(ctx, article); err != nil {
		return nil, fmt.Errorf("failed to create article: %w", err)
	}
	return article, nil
}

func (s *ArticleService) Replace(ctx context.Context, requester *models.User, id uint, req *types.ArticleRequest) (*models.Article, error) {
	article, err := s.writable(ctx, requester, id)
	if err != nil {
		return nil, err
	}
	if err := applyArticle(article, req); err != nil {
		return nil, err
	}
	if err := s.articles.Update(ctx, article); err != nil {
		return nil, fmt.Errorf("failed to update article: %w", err)
	}
	return article, nil
}

func (s *ArticleService) Patch(ctx context.Context, requester *models.User, id uint, req *types.ArticlePatchRequest) (*models.Article, error) {
	article, err := s.writable(ctx, requester, id)
	if err != nil {
		return nil, err
	}

	fields := fieldErrors{}
	if req.Title != nil {
		article.Title = requireText(fields, "title", *req.Title)
	}
	if req.Author != nil {
		article.Author = requireText(fields, "author", *req.Author)
	}
	if req.Body != nil {
		article.Body = *req.Body
	}
	if req.Date != nil {
		article.Date = req.Date.UTC()
	}
	if err := fields.err(); err != nil {
		return nil, err
	}

	if err := s.articles.Update(ctx, article); err != nil {
		return nil, fmt.Errorf("failed to update article: %w", err)
	}
	return article, nil
}

func (s *ArticleService) Delete(ctx context.Context, requester *models.User, id uint) error {
	if _, err := s.writable(ctx, requester, id); err != nil {
		return err
	}
	deleted, err := s.articles.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete article: %w", err)
	}
	removeImages(ctx, s.images, s.log, deleted.Image)
	return nil
}

func (s *ArticleService) writable(ctx context.Context, requester *models.User, id uint) (*models.Article, error) {
	article, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.policy.CanWrite(requester, article.UserID); err != nil {
		return nil, err
	}
	return article, nil
}

func applyArticle(article *models.Article, req *types.ArticleRequest) error {
	fields := fieldErrors{}
	article.Title = requireText(fields, "title", req.Title)
	article.Author = requireText(fields, "author", req.Author)
	article.Body = req.Body
	if req.Date == nil {
		fields.add("date", "This field is required.")
	} else {
		article.Date = req.Date.UTC()
	}
	return fields.err()
}

func requireText(fields fieldErrors, field, value string) string {
	value = strings.TrimSpace(value)
	switch {
	case value == "":
		fields.add(field, "This field may not be blank.")
	case len([]rune(value)) > 255:
		fields.add(field, "Ensure this field has no more than 255 characters.")
	}
	return value
}
