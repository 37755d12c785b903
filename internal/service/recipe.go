package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/pageza/recipebox/backend/internal/models"
	"github.com/pageza/recipebox/backend/internal/repository"
	"github.com/pageza/recipebox/backend/internal/storage"
	"github.com/pageza/recipebox/backend/internal/types"
)

// price is numeric(5,2)
var maxPrice = decimal.NewFromInt(1000)

type RecipeService struct {
	recipes     repository.RecipeRepository
	tags        repository.AttributeRepository[models.Tag]
	ingredients repository.AttributeRepository[models.Ingredient]
	images      storage.ImageStore
	policy      OwnershipPolicy
	log         *zap.Logger
}

func NewRecipeService(repo *repository.Repository, images storage.ImageStore, policy OwnershipPolicy, log *zap.Logger) *RecipeService {
	return &RecipeService{
		recipes:     repo.Recipes,
		tags:        repo.Tags,
		ingredients: repo.Ingredients,
		images:      images,
		policy:      policy,
		log:         log,
	}
}

func (s *RecipeService) List(ctx context.Context, filter repository.RecipeFilter) ([]models.Recipe, error) {
	recipes, err := s.recipes.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	return recipes, nil
}

func (s *RecipeService) Get(ctx context.Context, id uint) (*models.Recipe, error) {
	recipe, err := s.recipes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return recipe, nil
}

// Create stores a recipe owned by the requester. Any owner in the payload is ignored.
func (s *RecipeService) Create(ctx context.Context, owner *models.User, req *types.RecipeRequest) (*models.Recipe, error) {
	if owner == nil {
		return nil, ErrInvalidToken
	}
	recipe := &models.Recipe{UserID: owner.ID}
	if err := s.applyFull(ctx, recipe, req); err != nil {
		return nil, err
	}
	if err := s.recipes.Create(ctx, recipe); err != nil {
		return nil, fmt.Errorf("failed to create recipe: %w", err)
	}
	return s.Get(ctx, recipe.ID)
}

// Replace is a full update: omitted optional fields reset and omitted
// tags or ingredients clear the relation.
func (s *RecipeService) Replace(ctx context.Context, requester *models.User, id uint, req *types.RecipeRequest) (*models.Recipe, error) {
	recipe, err := s.writable(ctx, requester, id)
	if err != nil {
		return nil, err
	}
	if err := s.applyFull(ctx, recipe, req); err != nil {
		return nil, err
	}
	if err := s.recipes.Update(ctx, recipe, true, true); err != nil {
		return nil, fmt.Errorf("failed to update recipe: %w", err)
	}
	return s.Get(ctx, id)
}

// Patch merges the fields present in req and leaves the rest unchanged
func (s *RecipeService) Patch(ctx context.Context, requester *models.User, id uint, req *types.RecipePatchRequest) (*models.Recipe, error) {
	recipe, err := s.writable(ctx, requester, id)
	if err != nil {
		return nil, err
	}

	fields := fieldErrors{}
	if req.Title != nil {
		recipe.Title = requireText(fields, "title", *req.Title)
	}
	if req.TimeMinutes != nil {
		recipe.TimeMinutes = *req.TimeMinutes
	}
	if req.Price != nil {
		validatePrice(fields, *req.Price)
		recipe.Price = *req.Price
	}
	if req.Link != nil {
		recipe.Link = strings.TrimSpace(*req.Link)
	}
	if req.Description != nil {
		recipe.Description = *req.Description
	}
	if req.Instruction != nil {
		recipe.Instruction = *req.Instruction
	}
	if req.Tags != nil {
		recipe.Tags = s.resolveTags(ctx, fields, *req.Tags)
	}
	if req.Ingredients != nil {
		recipe.Ingredients = s.resolveIngredients(ctx, fields, *req.Ingredients)
	}
	if err := fields.err(); err != nil {
		return nil, err
	}

	if err := s.recipes.Update(ctx, recipe, req.Tags != nil, req.Ingredients != nil); err != nil {
		return nil, fmt.Errorf("failed to update recipe: %w", err)
	}
	return s.Get(ctx, id)
}

// Delete removes the recipe, its relation links and then its stored image
func (s *RecipeService) Delete(ctx context.Context, requester *models.User, id uint) error {
	if _, err := s.writable(ctx, requester, id); err != nil {
		return err
	}
	deleted, err := s.recipes.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete recipe: %w", err)
	}
	removeImages(ctx, s.images, s.log, deleted.Image)
	return nil
}

func (s *RecipeService) writable(ctx context.Context, requester *models.User, id uint) (*models.Recipe, error) {
	recipe, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.policy.CanWrite(requester, recipe.UserID); err != nil {
		return nil, err
	}
	return recipe, nil
}

func (s *RecipeService) applyFull(ctx context.Context, recipe *models.Recipe, req *types.RecipeRequest) error {
	fields := fieldErrors{}
	recipe.Title = requireText(fields, "title", req.Title)
	if req.TimeMinutes == nil {
		fields.add("time_minutes", "This field is required.")
	} else {
		recipe.TimeMinutes = *req.TimeMinutes
	}
	if req.Price == nil {
		fields.add("price", "This field is required.")
	} else {
		validatePrice(fields, *req.Price)
		recipe.Price = *req.Price
	}
	recipe.Link = strings.TrimSpace(req.Link)
	recipe.Description = req.Description
	recipe.Instruction = req.Instruction
	recipe.Tags = s.resolveTags(ctx, fields, req.Tags)
	recipe.Ingredients = s.resolveIngredients(ctx, fields, req.Ingredients)
	return fields.err()
}

func (s *RecipeService) resolveTags(ctx context.Context, fields fieldErrors, ids []uint) []models.Tag {
	found, err := s.tags.FindByIDs(ctx, dedupeIDs(ids))
	if err != nil {
		fields.add("tags", "could not be resolved")
		s.log.Error("failed to resolve tags", zap.Error(err))
		return nil
	}
	have := make(map[uint]bool, len(found))
	for _, t := range found {
		have[t.ID] = true
	}
	checkMissing(fields, "tags", ids, have)
	return found
}

func (s *RecipeService) resolveIngredients(ctx context.Context, fields fieldErrors, ids []uint) []models.Ingredient {
	found, err := s.ingredients.FindByIDs(ctx, dedupeIDs(ids))
	if err != nil {
		fields.add("ingredients", "could not be resolved")
		s.log.Error("failed to resolve ingredients", zap.Error(err))
		return nil
	}
	have := make(map[uint]bool, len(found))
	for _, i := range found {
		have[i.ID] = true
	}
	checkMissing(fields, "ingredients", ids, have)
	return found
}

func checkMissing(fields fieldErrors, field string, ids []uint, have map[uint]bool) {
	for _, id := range ids {
		if !have[id] {
			fields.add(field, fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", id))
			return
		}
	}
}

func dedupeIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func validatePrice(fields fieldErrors, price decimal.Decimal) {
	switch {
	case price.IsNegative():
		fields.add("price", "Ensure this value is greater than or equal to 0.")
	case price.GreaterThanOrEqual(maxPrice):
		fields.add("price", "Ensure that there are no more than 5 digits in total.")
	case !price.Equal(price.Round(2)):
		fields.add("price", "Ensure that there are no more than 2 decimal places.")
	}
}
