package service_test

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pageza/recipebox/backend/internal/service"
	"github.com/pageza/recipebox/backend/internal/testhelpers"
	"github.com/pageza/recipebox/backend/internal/types"
)

func TestUploadRecipeImage(t *testing.T) {
	env := setupServices(t, service.Options{})
	ctx := context.Background()
	u := env.user(t, "user@example.com")
	recipe, err := env.svc.Recipes.Create(ctx, u, sampleRecipe(t, "Pictured"))
	require.NoError(t, err)

	first, err := env.svc.Images.UploadRecipeImage(ctx, u, recipe.ID, "Photo.JPG", jpegReader(t))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(first, "uploads/recipe/"))
	assert.True(t, strings.HasSuffix(first, ".jpg"))
	assert.FileExists(t, env.path(t, first))

	url := env.svc.Images.URL(first)
	require.NotNil(t, url)
	assert.Equal(t, "/media/"+first, *url)

	t.Run("replacement removes previous object", func(t *testing.T) {
		second, err := env.svc.Images.UploadRecipeImage(ctx, u, recipe.ID, "other.png", jpegReader(t))
		require.NoError(t, err)
		assert.NotEqual(t, first, second)
		assert.FileExists(t, env.path(t, second))
		assert.NoFileExists(t, env.path(t, first))
		first = second
	})

	t.Run("invalid payload keeps current image", func(t *testing.T) {
		_, err := env.svc.Images.UploadRecipeImage(ctx, u, recipe.ID, "notimage.txt", strings.NewReader("notimage"))
		assert.ErrorIs(t, err, service.ErrInvalidImage)

		reloaded, err := env.svc.Recipes.Get(ctx, recipe.ID)
		require.NoError(t, err)
		assert.Equal(t, first, reloaded.Image)
		assert.FileExists(t, env.path(t, first))
	})

	t.Run("missing recipe", func(t *testing.T) {
		_, err := env.svc.Images.UploadRecipeImage(ctx, u, 9999, "a.jpg", jpegReader(t))
		assert.ErrorIs(t, err, service.ErrNotFound)
	})

	t.Run("anonymous", func(t *testing.T) {
		_, err := env.svc.Images.UploadRecipeImage(ctx, nil, recipe.ID, "a.jpg", jpegReader(t))
		assert.ErrorIs(t, err, service.ErrInvalidToken)
	})
}

func TestUploadImageSizeLimit(t *testing.T) {
	env := setupServices(t, service.Options{})
	ctx := context.Background()
	u := env.user(t, "user@example.com")
	recipe, err := env.svc.Recipes.Create(ctx, u, sampleRecipe(t, "Big"))
	require.NoError(t, err)

	images := service.NewImageService(env.repo, env.store, service.OwnershipPolicy{}, 16, zap.NewNop())
	_, err = images.UploadRecipeImage(ctx, u, recipe.ID, "big.jpg", jpegReader(t))
	var verr *service.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields["image"], "exceeds")
}

func TestUploadArticleImage(t *testing.T) {
	env := setupServices(t, service.Options{})
	ctx := context.Background()
	u := env.user(t, "user@example.com")
	date := time.Now().UTC()
	article, err := env.svc.Articles.Create(ctx, u, &types.ArticleRequest{Title: "Pictured", Author: "A", Date: &date})
	require.NoError(t, err)

	key, err := env.svc.Images.UploadArticleImage(ctx, u, article.ID, "cover.jpeg", jpegReader(t))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "uploads/article/"))

	data, err := os.ReadFile(env.path(t, key))
	require.NoError(t, err)
	assert.Equal(t, []byte{0xFF, 0xD8}, data[:2])
}

func TestUploadImageStoreFailure(t *testing.T) {
	env := setupServices(t, service.Options{})
	ctx := context.Background()
	u := env.user(t, "user@example.com")
	recipe, err := env.svc.Recipes.Create(ctx, u, sampleRecipe(t, "Unlucky"))
	require.NoError(t, err)

	store := new(testhelpers.MockImageStore)
	store.On("Save", mock.Anything, mock.AnythingOfType("string"), mock.Anything, "image/jpeg").
		Return(errors.New("bucket unavailable")).Once()
	images := service.NewImageService(env.repo, store, service.OwnershipPolicy{}, 1<<20, zap.NewNop())

	_, err = images.UploadRecipeImage(ctx, u, recipe.ID, "a.jpg", jpegReader(t))
	require.Error(t, err)
	store.AssertExpectations(t)
	store.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)

	reloaded, err := env.svc.Recipes.Get(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Empty(t, reloaded.Image)
}
