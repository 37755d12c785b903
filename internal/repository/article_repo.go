package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/recipebox/backend/internal/models"
)

// ArticleRepository is the data-access interface for articles
type ArticleRepository interface {
	Create(ctx context.Context, article *models.Article) error
	GetByID(ctx context.Context, id uint) (*models.Article, error)
	List(ctx context.Context) ([]models.Article, error)
	Update(ctx context.Context, article *models.Article) error
	SetImage(ctx context.Context, id uint, key string) error
	Delete(ctx context.Context, id uint) (*models.Article, error)
}

type articleRepo struct {
	db *gorm.DB
}

func NewArticleRepo(db *gorm.DB) ArticleRepository {
	return &articleRepo{db: db}
}

func (r *articleRepo) Create(ctx context.Context, article *models.Article) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(article).Error)
}

func (r *articleRepo) GetByID(ctx context.Context, id uint) (*models.Article, error) {
	var article models.Article
	if err := r.db.WithContext(ctx).First(&article, id).Error; err != nil {
		return nil, translate(err)
	}
	return &article, nil
}

func (r *articleRepo) List(ctx context.Context) ([]models.Article, error) {
	articles := make([]models.Article, 0)
	if err := r.db.WithContext(ctx).Order("id DESC").Find(&articles).Error; err != nil {
		return nil, translate(err)
	}
	return articles, nil
}

func (r *articleRepo) Update(ctx context.Context, article *models.Article) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Save(article).Error)
}

func (r *articleRepo) SetImage(ctx context.Context, id uint, key string) error {
	res := r.db.WithContext(ctx).Model(&models.Article{}).Where("id = ?", id).Update("image", key)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *articleRepo) Delete(ctx context.Context, id uint) (*models.Article, error) {
	var article models.Article
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&article, id).Error; err != nil {
			return err
		}
		return tx.Delete(&article).Error
	})
	if err != nil {
		return nil, translate(err)
	}
	return &article, nil
}
