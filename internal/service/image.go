package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	"github.com/pageza/recipebox/backend/internal/models"
	"github.com/pageza/recipebox/backend/internal/repository"
	"github.com/pageza/recipebox/backend/internal/storage"
)

// ImageService attaches uploaded images to recipes and articles
type ImageService struct {
	store    storage.ImageStore
	recipes  repository.RecipeRepository
	articles repository.ArticleRepository
	policy   OwnershipPolicy
	maxBytes int64
	log      *zap.Logger
}

func NewImageService(repo *repository.Repository, store storage.ImageStore, policy OwnershipPolicy, maxBytes int64, log *zap.Logger) *ImageService {
	if maxBytes <= 0 {
		maxBytes = 10 << 20
	}
	return &ImageService{
		store:    store,
		recipes:  repo.Recipes,
		articles: repo.Articles,
		policy:   policy,
		maxBytes: maxBytes,
		log:      log,
	}
}

// URL returns the public address of a stored image, or nil when there is none
func (s *ImageService) URL(key string) *string {
	if key == "" || s.store == nil {
		return nil
	}
	u := s.store.URL(key)
	return &u
}

// upload describes the entity an image is being attached to
type upload struct {
	kind     storage.Kind
	ownerID  uint
	previous string
	setImage func(ctx context.Context, key string) error
}

// UploadRecipeImage replaces the image of a recipe and returns the new key
func (s *ImageService) UploadRecipeImage(ctx context.Context, requester *models.User, id uint, filename string, r io.Reader) (string, error) {
	recipe, err := s.recipes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	return s.attach(ctx, requester, upload{
		kind:     storage.KindRecipe,
		ownerID:  recipe.UserID,
		previous: recipe.Image,
		setImage: func(ctx context.Context, key string) error { return s.recipes.SetImage(ctx, id, key) },
	}, filename, r)
}

// UploadArticleImage replaces the image of an article and returns the new key
func (s *ImageService) UploadArticleImage(ctx context.Context, requester *models.User, id uint, filename string, r io.Reader) (string, error) {
	article, err := s.articles.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	return s.attach(ctx, requester, upload{
		kind:     storage.KindArticle,
		ownerID:  article.UserID,
		previous: article.Image,
		setImage: func(ctx context.Context, key string) error { return s.articles.SetImage(ctx, id, key) },
	}, filename, r)
}

// attach stores the new object, points the row at it and only then drops the
// previous object. A failed row update removes the new object again.
func (s *ImageService) attach(ctx context.Context, requester *models.User, u upload, filename string, r io.Reader) (string, error) {
	if err := s.policy.CanWrite(requester, u.ownerID); err != nil {
		return "", err
	}

	data, contentType, ext, err := s.validate(r)
	if err != nil {
		return "", err
	}

	key := storage.NewImagePath(u.kind, filename, ext)
	if err := s.store.Save(ctx, key, data, contentType); err != nil {
		return "", fmt.Errorf("failed to store image: %w", err)
	}

	if err := u.setImage(ctx, key); err != nil {
		removeImages(ctx, s.store, s.log, key)
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to attach image: %w", err)
	}

	if u.previous != "" && u.previous != key {
		removeImages(ctx, s.store, s.log, u.previous)
	}
	s.log.Info("image attached", zap.String("kind", string(u.kind)), zap.String("key", key), zap.Int("bytes", len(data)))
	return key, nil
}

// validate reads the payload and checks it is a decodable image within the size limit
func (s *ImageService) validate(r io.Reader) ([]byte, string, string, error) {
	if r == nil {
		return nil, "", "", invalidImage("No file was submitted.")
	}
	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return nil, "", "", invalidImage("The submitted file could not be read.")
	}
	if len(data) == 0 {
		return nil, "", "", invalidImage("The submitted file is empty.")
	}
	if int64(len(data)) > s.maxBytes {
		return nil, "", "", invalidImage(fmt.Sprintf("The submitted file exceeds %d bytes.", s.maxBytes))
	}

	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return nil, "", "", invalidImage("Upload a valid image. The file you uploaded was either not an image or a corrupted image.")
	}
	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		return nil, "", "", invalidImage("Upload a valid image. The file you uploaded was either not an image or a corrupted image.")
	}

	contentType := mtype.String()
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	return data, contentType, mtype.Extension(), nil
}
