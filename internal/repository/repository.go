package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/pageza/recipebox/backend/internal/models"
)

var (
	// ErrNotFound is returned when no row matches the lookup
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique constraint rejects a write
	ErrDuplicate = errors.New("duplicate record")
)

// Repository aggregates every data-access interface
type Repository struct {
	Users       UserRepository
	Tokens      TokenRepository
	Tags        AttributeRepository[models.Tag]
	Ingredients AttributeRepository[models.Ingredient]
	Recipes     RecipeRepository
	Articles    ArticleRepository
}

// NewRepository builds the aggregate over one gorm handle
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Users:       NewUserRepo(db),
		Tokens:      NewTokenRepo(db),
		Tags:        NewTagRepo(db),
		Ingredients: NewIngredientRepo(db),
		Recipes:     NewRecipeRepo(db),
		Articles:    NewArticleRepo(db),
	}
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), isUniqueViolation(err):
		return ErrDuplicate
	default:
		return err
	}
}
