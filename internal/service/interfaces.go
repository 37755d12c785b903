package service

import (
	"context"
	"io"

	"go.uber.org/zap"

	"github.com/pageza/recipebox/backend/internal/cache"
	"github.com/pageza/recipebox/backend/internal/models"
	"github.com/pageza/recipebox/backend/internal/repository"
	"github.com/pageza/recipebox/backend/internal/storage"
	"github.com/pageza/recipebox/backend/internal/types"
)

// IAuthService defines the user directory and token operations
type IAuthService interface {
	Register(ctx context.Context, req *types.CreateUserRequest) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, error)
	ValidateToken(ctx context.Context, key string) (*models.User, error)
	UpdateProfile(ctx context.Context, user *models.User, req *types.UpdateUserRequest, partial bool) (*models.User, error)
	DeleteAccount(ctx context.Context, user *models.User) error
}

// IAttributeService defines tag and ingredient operations
type IAttributeService[T any] interface {
	List(ctx context.Context, requester *models.User, assignedOnly bool) ([]T, error)
	Get(ctx context.Context, id uint) (*T, error)
	Create(ctx context.Context, owner *models.User, name string) (*T, error)
	Update(ctx context.Context, requester *models.User, id uint, name *string) (*T, error)
	Delete(ctx context.Context, requester *models.User, id uint) error
}

// IRecipeService defines recipe operations
type IRecipeService interface {
	List(ctx context.Context, filter repository.RecipeFilter) ([]models.Recipe, error)
	Get(ctx context.Context, id uint) (*models.Recipe, error)
	Create(ctx context.Context, owner *models.User, req *types.RecipeRequest) (*models.Recipe, error)
	Replace(ctx context.Context, requester *models.User, id uint, req *types.RecipeRequest) (*models.Recipe, error)
	Patch(ctx context.Context, requester *models.User, id uint, req *types.RecipePatchRequest) (*models.Recipe, error)
	Delete(ctx context.Context, requester *models.User, id uint) error
}

// IArticleService defines article operations
type IArticleService interface {
	List(ctx context.Context) ([]models.Article, error)
	Get(ctx context.Context, id uint) (*models.Article, error)
	Create(ctx context.Context, owner *models.User, req *types.ArticleRequest) (*models.Article, error)
	Replace(ctx context.Context, requester *models.User, id uint, req *types.ArticleRequest) (*models.Article, error)
	Patch(ctx context.Context, requester *models.User, id uint, req *types.ArticlePatchRequest) (*models.Article, error)
	Delete(ctx context.Context, requester *models.User, id uint) error
}

// IImageService defines image attachment operations
type IImageService interface {
	URL(key string) *string
	UploadRecipeImage(ctx context.Context, requester *models.User, id uint, filename string, r io.Reader) (string, error)
	UploadArticleImage(ctx context.Context, requester *models.User, id uint, filename string, r io.Reader) (string, error)
}

// Services aggregates every service the HTTP layer uses
type Services struct {
	Auth        IAuthService
	Tags        IAttributeService[models.Tag]
	Ingredients IAttributeService[models.Ingredient]
	Recipes     IRecipeService
	Articles    IArticleService
	Images      IImageService
}

// Options carries the settings services need from configuration
type Options struct {
	EnforceOwnership bool
	MaxUploadBytes   int64
}

func NewServices(repo *repository.Repository, tokenCache cache.TokenCache, store storage.ImageStore, opts Options, log *zap.Logger) *Services {
	policy := OwnershipPolicy{Enforce: opts.EnforceOwnership}
	return &Services{
		Auth:        NewAuthService(repo, tokenCache, store, log.Named("auth")),
		Tags:        NewTagService(repo.Tags, policy, log.Named("tags")),
		Ingredients: NewIngredientService(repo.Ingredients, policy, log.Named("ingredients")),
		Recipes:     NewRecipeService(repo, store, policy, log.Named("recipes")),
		Articles:    NewArticleService(repo, store, policy, log.Named("articles")),
		Images:      NewImageService(repo, store, policy, opts.MaxUploadBytes, log.Named("images")),
	}
}
