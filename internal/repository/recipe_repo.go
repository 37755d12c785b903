package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/recipebox/backend/internal/models"
)

// RecipeFilter restricts a recipe listing. Ids within one field are ORed,
// the two fields are ANDed. Empty fields do not filter.
type RecipeFilter struct {
	TagIDs        []uint
	IngredientIDs []uint
}

// RecipeRepository is the data-access interface for recipes
type RecipeRepository interface {
	Create(ctx context.Context, recipe *models.Recipe) error
	GetByID(ctx context.Context, id uint) (*models.Recipe, error)
	List(ctx context.Context, filter RecipeFilter) ([]models.Recipe, error)
	// Update saves scalar fields and, when asked, replaces the relation sets
	// with recipe.Tags and recipe.Ingredients.
	Update(ctx context.Context, recipe *models.Recipe, replaceTags, replaceIngredients bool) error
	SetImage(ctx context.Context, id uint, key string) error
	// Delete removes the recipe and its links and returns the deleted row
	Delete(ctx context.Context, id uint) (*models.Recipe, error)
}

type recipeRepo struct {
	db *gorm.DB
}

func NewRecipeRepo(db *gorm.DB) RecipeRepository {
	return &recipeRepo{db: db}
}

func preloadRelations(db *gorm.DB) *gorm.DB {
	byID := func(db *gorm.DB) *gorm.DB { return db.Order("id") }
	return db.Preload("Tags", byID).Preload("Ingredients", byID)
}

func (r *recipeRepo) Create(ctx context.Context, recipe *models.Recipe) error {
	// Tags.* and Ingredients.* skip upserting the referenced rows but keep the join rows
	return translate(r.db.WithContext(ctx).
		Omit("User", "Tags.*", "Ingredients.*").
		Create(recipe).Error)
}

func (r *recipeRepo) GetByID(ctx context.Context, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := preloadRelations(r.db.WithContext(ctx)).First(&recipe, id).Error; err != nil {
		return nil, translate(err)
	}
	return &recipe, nil
}

func (r *recipeRepo) List(ctx context.Context, filter RecipeFilter) ([]models.Recipe, error) {
	recipes := make([]models.Recipe, 0)
	q := r.db.WithContext(ctx).Model(&models.Recipe{})

	if len(filter.TagIDs) > 0 {
		q = q.Where("id IN (?)", r.db.Table("recipe_tags").
			Select("recipe_id").
			Where("tag_id IN ?", filter.TagIDs))
	}
	if len(filter.IngredientIDs) > 0 {
		q = q.Where("id IN (?)", r.db.Table("recipe_ingredients").
			Select("recipe_id").
			Where("ingredient_id IN ?", filter.IngredientIDs))
	}

	if err := preloadRelations(q).Order("id DESC").Find(&recipes).Error; err != nil {
		return nil, translate(err)
	}
	return recipes, nil
}

func (r *recipeRepo) Update(ctx context.Context, recipe *models.Recipe, replaceTags, replaceIngredients bool) error {
	return translate(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(recipe).Error; err != nil {
			return err
		}
		if replaceTags {
			if err := replaceAssociation(tx, recipe, "Tags", recipe.Tags); err != nil {
				return err
			}
		}
		if replaceIngredients {
			if err := replaceAssociation(tx, recipe, "Ingredients", recipe.Ingredients); err != nil {
				return err
			}
		}
		return nil
	}))
}

func replaceAssociation[T any](tx *gorm.DB, recipe *models.Recipe, name string, items []T) error {
	assoc := tx.Model(recipe).Omit(name + ".*").Association(name)
	if len(items) == 0 {
		return assoc.Clear()
	}
	return assoc.Replace(items)
}

func (r *recipeRepo) SetImage(ctx context.Context, id uint, key string) error {
	res := r.db.WithContext(ctx).Model(&models.Recipe{}).Where("id = ?", id).Update("image", key)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *recipeRepo) Delete(ctx context.Context, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&recipe, id).Error; err != nil {
			return err
		}
		// Select removes the many2many join rows along with the recipe
		return tx.Select("Tags", "Ingredients").Delete(&recipe).Error
	})
	if err != nil {
		return nil, translate(err)
	}
	return &recipe, nil
}
