package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/recipebox/backend/internal/service"
)

// RegisterRoutes mounts every resource under /api/v1
func RegisterRoutes(router *gin.Engine, services *service.Services, log *zap.Logger) {
	v1 := router.Group("/api/v1")

	NewUserHandler(services.Auth, log.Named("users")).RegisterRoutes(v1)
	NewTagHandler(services.Tags, log.Named("tags")).RegisterRoutes(v1, "/recipes/tags")
	NewIngredientHandler(services.Ingredients, log.Named("ingredients")).RegisterRoutes(v1, "/recipes/ingredients")
	NewRecipeHandler(services.Recipes, services.Images, log.Named("recipes")).RegisterRoutes(v1)
	NewArticleHandler(services.Articles, services.Images, log.Named("articles")).RegisterRoutes(v1)
}
