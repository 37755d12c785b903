package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipebox/backend/internal/models"
	"github.com/pageza/recipebox/backend/internal/repository"
	"github.com/pageza/recipebox/backend/internal/service"
	"github.com/pageza/recipebox/backend/internal/types"
)

func recipeTitles(recipes []models.Recipe) []string {
	titles := make([]string, 0, len(recipes))
	for _, r := range recipes {
		titles = append(titles, r.Title)
	}
	return titles
}

func sampleRecipe(t *testing.T, title string) *types.RecipeRequest {
	return &types.RecipeRequest{
		Title:       title,
		TimeMinutes: ptr(22),
		Price:       ptr(mustDecimal(t, "5.25")),
		Description: "Sample description",
		Link:        "http://example.com/recipe.pdf",
	}
}

func TestRecipeCreate(t *testing.T) {
	env := setupServices(t, service.Options{})
	ctx := context.Background()
	u := env.user(t, "user@example.com")

	t.Run("with existing tags", func(t *testing.T) {
		thai, err := env.svc.Tags.Create(ctx, u, "Thai")
		require.NoError(t, err)
		dinner, err := env.svc.Tags.Create(ctx, u, "Dinner")
		require.NoError(t, err)

		req := sampleRecipe(t, "Thai Prawn Curry")
		req.Tags = []uint{thai.ID, dinner.ID, thai.ID}
		recipe, err := env.svc.Recipes.Create(ctx, u, req)
		require.NoError(t, err)
		assert.Equal(t, u.ID, recipe.UserID)
		assert.ElementsMatch(t, []uint{thai.ID, dinner.ID}, recipe.TagIDs())
		assert.Equal(t, "5.25", recipe.Price.StringFixed(2))
	})

	t.Run("unknown tag rejected", func(t *testing.T) {
		req := sampleRecipe(t, "Ghost")
		req.Tags = []uint{9999}
		_, err := env.svc.Recipes.Create(ctx, u, req)
		var verr *service.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, `Invalid pk "9999" - object does not exist.`, verr.Fields["tags"])
	})

	t.Run("missing required fields", func(t *testing.T) {
		_, err := env.svc.Recipes.Create(ctx, u, &types.RecipeRequest{Title: " "})
		var verr *service.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "title")
		assert.Contains(t, verr.Fields, "time_minutes")
		assert.Contains(t, verr.Fields, "price")
	})

	t.Run("price bounds", func(t *testing.T) {
		for _, p := range []string{"-1.00", "1000.00", "1.234"} {
			req := sampleRecipe(t, "Pricey")
			req.Price = ptr(mustDecimal(t, p))
			_, err := env.svc.Recipes.Create(ctx, u, req)
			var verr *service.ValidationError
			require.ErrorAs(t, err, &verr, p)
			assert.Contains(t, verr.Fields, "price", p)
		}
	})
}

func TestRecipeListFilters(t *testing.T) {
	env := setupServices(t, service.Options{})
	ctx := context.Background()
	u := env.user(t, "user@example.com")

	vegan, _ := env.svc.Tags.Create(ctx, u, "Vegan")
	veggie, _ := env.svc.Tags.Create(ctx, u, "Vegetarian")
	feta, _ := env.svc.Ingredients.Create(ctx, u, "Feta cheese")
	chicken, _ := env.svc.Ingredients.Create(ctx, u, "Chicken")

	r1 := sampleRecipe(t, "Thai vegetable curry")
	r1.Tags = []uint{vegan.ID}
	r2 := sampleRecipe(t, "Aubergine with tahini")
	r2.Tags = []uint{veggie.ID}
	r2.Ingredients = []uint{feta.ID}
	r3 := sampleRecipe(t, "Fish and chips")
	r4 := sampleRecipe(t, "Chicken cacciatore")
	r4.Ingredients = []uint{chicken.ID}
	for _, req := range []*types.RecipeRequest{r1, r2, r3, r4} {
		_, err := env.svc.Recipes.Create(ctx, u, req)
		require.NoError(t, err)
	}

	all, err := env.svc.Recipes.List(ctx, repository.RecipeFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Chicken cacciatore", "Fish and chips", "Aubergine with tahini", "Thai vegetable curry"}, recipeTitles(all))

	byTag, err := env.svc.Recipes.List(ctx, repository.RecipeFilter{TagIDs: []uint{vegan.ID, veggie.ID}})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Thai vegetable curry", "Aubergine with tahini"}, recipeTitles(byTag))

	byIngredient, err := env.svc.Recipes.List(ctx, repository.RecipeFilter{IngredientIDs: []uint{feta.ID, chicken.ID}})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Aubergine with tahini", "Chicken cacciatore"}, recipeTitles(byIngredient))

	both, err := env.svc.Recipes.List(ctx, repository.RecipeFilter{TagIDs: []uint{veggie.ID}, IngredientIDs: []uint{feta.ID, chicken.ID}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Aubergine with tahini"}, recipeTitles(both))
}

func TestRecipeReplaceAndPatch(t *testing.T) {
	env := setupServices(t, service.Options{})
	ctx := context.Background()
	u := env.user(t, "user@example.com")

	breakfast, _ := env.svc.Tags.Create(ctx, u, "Breakfast")
	lunch, _ := env.svc.Tags.Create(ctx, u, "Lunch")

	req := sampleRecipe(t, "Sample recipe title")
	req.Tags = []uint{breakfast.ID}
	recipe, err := env.svc.Recipes.Create(ctx, u, req)
	require.NoError(t, err)

	t.Run("patch keeps untouched fields", func(t *testing.T) {
		patched, err := env.svc.Recipes.Patch(ctx, u, recipe.ID, &types.RecipePatchRequest{
			Title: ptr("New recipe title"),
			Tags:  &[]uint{lunch.ID},
		})
		require.NoError(t, err)
		assert.Equal(t, "New recipe title", patched.Title)
		assert.Equal(t, "http://example.com/recipe.pdf", patched.Link)
		assert.Equal(t, []uint{lunch.ID}, patched.TagIDs())

		var breakfastCount int64
		require.NoError(t, env.db.Model(&models.Tag{}).Where("id = ?", breakfast.ID).Count(&breakfastCount).Error)
		assert.EqualValues(t, 1, breakfastCount)
	})

	t.Run("patch with empty tags clears them", func(t *testing.T) {
		patched, err := env.svc.Recipes.Patch(ctx, u, recipe.ID, &types.RecipePatchRequest{Tags: &[]uint{}})
		require.NoError(t, err)
		assert.Empty(t, patched.Tags)
	})

	t.Run("replace resets omitted fields", func(t *testing.T) {
		replaced, err := env.svc.Recipes.Replace(ctx, u, recipe.ID, &types.RecipeRequest{
			Title:       "Sample recipe title",
			TimeMinutes: ptr(5),
			Price:       ptr(mustDecimal(t, "2.50")),
		})
		require.NoError(t, err)
		assert.Equal(t, 5, replaced.TimeMinutes)
		assert.Equal(t, "2.50", replaced.Price.StringFixed(2))
		assert.Empty(t, replaced.Link)
		assert.Empty(t, replaced.Description)
		assert.Empty(t, replaced.Tags)
		assert.Equal(t, u.ID, replaced.UserID)
	})

	t.Run("missing recipe", func(t *testing.T) {
		_, err := env.svc.Recipes.Patch(ctx, u, 9999, &types.RecipePatchRequest{})
		assert.ErrorIs(t, err, service.ErrNotFound)
	})
}

func TestRecipeDelete(t *testing.T) {
	env := setupServices(t, service.Options{EnforceOwnership: true})
	ctx := context.Background()
	u := env.user(t, "user@example.com")
	other := env.user(t, "other@example.com")

	recipe, err := env.svc.Recipes.Create(ctx, u, sampleRecipe(t, "Mine"))
	require.NoError(t, err)
	key, err := env.svc.Images.UploadRecipeImage(ctx, u, recipe.ID, "pic.jpg", jpegReader(t))
	require.NoError(t, err)

	assert.ErrorIs(t, env.svc.Recipes.Delete(ctx, other, recipe.ID), service.ErrForbidden)
	require.NoError(t, env.svc.Recipes.Delete(ctx, u, recipe.ID))
	_, err = env.svc.Recipes.Get(ctx, recipe.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)
	assert.NoFileExists(t, env.path(t, key))
}
