package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipebox/backend/internal/models"
	"github.com/pageza/recipebox/backend/internal/service"
	"github.com/pageza/recipebox/backend/internal/types"
)

func tagNames(tags []models.Tag) []string {
	names := make([]string, 0, len(tags))
	for _, t := range tags {
		names = append(names, t.Name)
	}
	return names
}

func TestTagList(t *testing.T) {
	env := setupServices(t, service.Options{})
	ctx := context.Background()
	u := env.user(t, "user@example.com")
	other := env.user(t, "other@example.com")

	vegan, err := env.svc.Tags.Create(ctx, u, "Vegan")
	require.NoError(t, err)
	_, err = env.svc.Tags.Create(ctx, u, "Dessert")
	require.NoError(t, err)
	foreign, err := env.svc.Tags.Create(ctx, other, "Fruity")
	require.NoError(t, err)

	_, err = env.svc.Recipes.Create(ctx, other, &types.RecipeRequest{
		Title:       "Salad",
		TimeMinutes: ptr(10),
		Price:       ptr(mustDecimal(t, "2.50")),
		Tags:        []uint{vegan.ID, foreign.ID},
	})
	require.NoError(t, err)

	t.Run("all tags newest name first", func(t *testing.T) {
		tags, err := env.svc.Tags.List(ctx, u, false)
		require.NoError(t, err)
		assert.Equal(t, []string{"Vegan", "Fruity", "Dessert"}, tagNames(tags))
	})

	t.Run("assigned only keeps owned tags used by any recipe", func(t *testing.T) {
		tags, err := env.svc.Tags.List(ctx, u, true)
		require.NoError(t, err)
		assert.Equal(t, []string{"Vegan"}, tagNames(tags))
	})

	t.Run("anonymous assigned only is empty", func(t *testing.T) {
		tags, err := env.svc.Tags.List(ctx, nil, true)
		require.NoError(t, err)
		assert.Empty(t, tags)
	})
}

func TestTagCreateValidation(t *testing.T) {
	env := setupServices(t, service.Options{})
	ctx := context.Background()
	u := env.user(t, "user@example.com")

	_, err := env.svc.Tags.Create(ctx, u, "   ")
	var verr *service.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "name")

	_, err = env.svc.Tags.Create(ctx, nil, "Vegan")
	assert.ErrorIs(t, err, service.ErrInvalidToken)
}

func TestIngredientUpdateAndDelete(t *testing.T) {
	env := setupServices(t, service.Options{})
	ctx := context.Background()
	u := env.user(t, "user@example.com")

	salt, err := env.svc.Ingredients.Create(ctx, u, "Salt")
	require.NoError(t, err)

	updated, err := env.svc.Ingredients.Update(ctx, u, salt.ID, ptr("Sea salt"))
	require.NoError(t, err)
	assert.Equal(t, "Sea salt", updated.Name)

	same, err := env.svc.Ingredients.Update(ctx, u, salt.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, "Sea salt", same.Name)

	recipe, err := env.svc.Recipes.Create(ctx, u, &types.RecipeRequest{
		Title:       "Soup",
		TimeMinutes: ptr(30),
		Price:       ptr(mustDecimal(t, "4.00")),
		Ingredients: []uint{salt.ID},
	})
	require.NoError(t, err)

	require.NoError(t, env.svc.Ingredients.Delete(ctx, u, salt.ID))
	_, err = env.svc.Ingredients.Get(ctx, salt.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)

	reloaded, err := env.svc.Recipes.Get(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Empty(t, reloaded.Ingredients)

	assert.ErrorIs(t, env.svc.Ingredients.Delete(ctx, u, salt.ID), service.ErrNotFound)
}

func TestAttributeOwnership(t *testing.T) {
	ctx := context.Background()

	t.Run("permissive by default", func(t *testing.T) {
		env := setupServices(t, service.Options{})
		owner := env.user(t, "owner@example.com")
		other := env.user(t, "other@example.com")
		tag, err := env.svc.Tags.Create(ctx, owner, "Vegan")
		require.NoError(t, err)

		_, err = env.svc.Tags.Update(ctx, other, tag.ID, ptr("Plant"))
		assert.NoError(t, err)
		_, err = env.svc.Tags.Update(ctx, nil, tag.ID, ptr("Plant"))
		assert.ErrorIs(t, err, service.ErrInvalidToken)
	})

	t.Run("enforced", func(t *testing.T) {
		env := setupServices(t, service.Options{EnforceOwnership: true})
		owner := env.user(t, "owner@example.com")
		other := env.user(t, "other@example.com")
		tag, err := env.svc.Tags.Create(ctx, owner, "Vegan")
		require.NoError(t, err)

		_, err = env.svc.Tags.Update(ctx, other, tag.ID, ptr("Plant"))
		assert.ErrorIs(t, err, service.ErrForbidden)
		assert.ErrorIs(t, env.svc.Tags.Delete(ctx, other, tag.ID), service.ErrForbidden)

		admin := env.user(t, "admin@example.com")
		admin.IsSuperuser = true
		assert.NoError(t, env.svc.Tags.Delete(ctx, admin, tag.ID))
	})
}
