package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/recipebox/backend/internal/models"
)

// AttributeListOptions narrows a tag or ingredient listing
type AttributeListOptions struct {
	// AssignedOnly keeps items referenced by at least one recipe and owned by OwnerID
	AssignedOnly bool
	OwnerID      uint
}

// AttributeRepository is shared by tags and ingredients
type AttributeRepository[T any] interface {
	Create(ctx context.Context, item *T) error
	GetByID(ctx context.Context, id uint) (*T, error)
	// FindByIDs returns the rows that exist among ids
	FindByIDs(ctx context.Context, ids []uint) ([]T, error)
	List(ctx context.Context, opts AttributeListOptions) ([]T, error)
	Update(ctx context.Context, item *T) error
	Delete(ctx context.Context, id uint) error
}

type attributeRepo[T any] struct {
	db         *gorm.DB
	joinTable  string
	joinColumn string
}

func NewTagRepo(db *gorm.DB) AttributeRepository[models.Tag] {
	return &attributeRepo[models.Tag]{db: db, joinTable: "recipe_tags", joinColumn: "tag_id"}
}

func NewIngredientRepo(db *gorm.DB) AttributeRepository[models.Ingredient] {
	return &attributeRepo[models.Ingredient]{db: db, joinTable: "recipe_ingredients", joinColumn: "ingredient_id"}
}

func (r *attributeRepo[T]) Create(ctx context.Context, item *T) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(item).Error)
}

func (r *attributeRepo[T]) GetByID(ctx context.Context, id uint) (*T, error) {
	var item T
	if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

func (r *attributeRepo[T]) FindByIDs(ctx context.Context, ids []uint) ([]T, error) {
	items := make([]T, 0, len(ids))
	if len(ids) == 0 {
		return items, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id").Find(&items).Error; err != nil {
		return nil, translate(err)
	}
	return items, nil
}

func (r *attributeRepo[T]) List(ctx context.Context, opts AttributeListOptions) ([]T, error) {
	items := make([]T, 0)
	q := r.db.WithContext(ctx).Model(new(T))

	if opts.AssignedOnly {
		// IN over the join table yields each item once however many recipes use it
		assigned := r.db.Table(r.joinTable).Select(r.joinColumn)
		q = q.Where("user_id = ?", opts.OwnerID).Where("id IN (?)", assigned)
	}

	if err := q.Order("name DESC").Order("id DESC").Find(&items).Error; err != nil {
		return nil, translate(err)
	}
	return items, nil
}

func (r *attributeRepo[T]) Update(ctx context.Context, item *T) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Save(item).Error)
}

// Delete drops the row and its recipe links
func (r *attributeRepo[T]) Delete(ctx context.Context, id uint) error {
	return translate(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM "+r.joinTable+" WHERE "+r.joinColumn+" = ?", id).Error; err != nil {
			return err
		}
		res := tx.Delete(new(T), id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	}))
}
