package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/recipebox/backend/internal/models"
)

// UserRepository is the data-access interface for users
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	// Delete removes the user and everything it owns in one transaction and
	// returns the image keys that were referenced by the deleted rows.
	Delete(ctx context.Context, id uint) ([]string, error)
}

type userRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	return translate(r.db.WithContext(ctx).Create(user).Error)
}

func (r *userRepo) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&user).Error
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *userRepo) Update(ctx context.Context, user *models.User) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Save(user).Error)
}

func (r *userRepo) Delete(ctx context.Context, id uint) ([]string, error) {
	var images []string

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, id).Error; err != nil {
			return err
		}

		var recipeImages, articleImages []string
		if err := tx.Model(&models.Recipe{}).
			Where("user_id = ? AND image <> ''", id).
			Pluck("image", &recipeImages).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Article{}).
			Where("user_id = ? AND image <> ''", id).
			Pluck("image", &articleImages).Error; err != nil {
			return err
		}

		ownedRecipes := tx.Model(&models.Recipe{}).Select("id").Where("user_id = ?", id)
		ownedTags := tx.Model(&models.Tag{}).Select("id").Where("user_id = ?", id)
		ownedIngredients := tx.Model(&models.Ingredient{}).Select("id").Where("user_id = ?", id)

		steps := []struct {
			sql  string
			args []interface{}
		}{
			{"DELETE FROM recipe_tags WHERE recipe_id IN (?) OR tag_id IN (?)", []interface{}{ownedRecipes, ownedTags}},
			{"DELETE FROM recipe_ingredients WHERE recipe_id IN (?) OR ingredient_id IN (?)", []interface{}{ownedRecipes, ownedIngredients}},
		}
		for _, step := range steps {
			if err := tx.Exec(step.sql, step.args...).Error; err != nil {
				return err
			}
		}

		for _, owned := range []interface{}{
			&models.Recipe{}, &models.Article{}, &models.Tag{}, &models.Ingredient{}, &models.AuthToken{},
		} {
			if err := tx.Where("user_id = ?", id).Delete(owned).Error; err != nil {
				return err
			}
		}

		images = append(recipeImages, articleImages...)
		return tx.Delete(&user).Error
	})
	if err != nil {
		return nil, translate(err)
	}
	return images, nil
}

// isUniqueViolation covers drivers that do not translate constraint errors
func isUniqueViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique failed")
}
