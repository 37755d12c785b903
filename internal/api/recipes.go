package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/recipebox/backend/internal/middleware"
	"github.com/pageza/recipebox/backend/internal/models"
	"github.com/pageza/recipebox/backend/internal/repository"
	"github.com/pageza/recipebox/backend/internal/service"
	"github.com/pageza/recipebox/backend/internal/types"
)

type RecipeHandler struct {
	recipes service.IRecipeService
	images  service.IImageService
	log     *zap.Logger
}

func NewRecipeHandler(recipes service.IRecipeService, images service.IImageService, log *zap.Logger) *RecipeHandler {
	return &RecipeHandler{recipes: recipes, images: images, log: log}
}

func (h *RecipeHandler) RegisterRoutes(rg *gin.RouterGroup) {
	recipes := rg.Group("/recipes")
	auth := middleware.RequireAuth()
	{
		recipes.GET("", h.List)
		recipes.GET("/:id", h.Get)
		recipes.POST("", auth, h.Create)
		recipes.PUT("/:id", auth, h.Replace)
		recipes.PATCH("/:id", auth, h.Patch)
		recipes.DELETE("/:id", auth, h.Delete)
		recipes.POST("/:id/upload-image", auth, h.UploadImage)
	}
}

func (h *RecipeHandler) detail(r *models.Recipe) types.RecipeDetail {
	return types.NewRecipeDetail(r, h.images.URL(r.Image))
}

// List returns the flat representation, filtered by the tags and ingredients
// query parameters.
func (h *RecipeHandler) List(c *gin.Context) {
	var filter repository.RecipeFilter
	var err error
	if filter.TagIDs, err = parseIDList(c.Query("tags")); err != nil {
		badQuery(c, "tags", err.Error())
		return
	}
	if filter.IngredientIDs, err = parseIDList(c.Query("ingredients")); err != nil {
		badQuery(c, "ingredients", err.Error())
		return
	}

	recipes, err := h.recipes.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	resp := make([]types.RecipeListItem, 0, len(recipes))
	for i := range recipes {
		resp = append(resp, types.NewRecipeListItem(&recipes[i]))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RecipeHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	recipe, err := h.recipes.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, h.detail(recipe))
}

func (h *RecipeHandler) Create(c *gin.Context) {
	var req types.RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	recipe, err := h.recipes.Create(c.Request.Context(), middleware.CurrentUser(c), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, h.detail(recipe))
}

func (h *RecipeHandler) Replace(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req types.RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	recipe, err := h.recipes.Replace(c.Request.Context(), middleware.CurrentUser(c), id, &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, h.detail(recipe))
}

func (h *RecipeHandler) Patch(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req types.RecipePatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	recipe, err := h.recipes.Patch(c.Request.Context(), middleware.CurrentUser(c), id, &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, h.detail(recipe))
}

func (h *RecipeHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.recipes.Delete(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) UploadImage(c *gin.Context) {
	uploadImage(c, h.images, h.log, h.images.UploadRecipeImage)
}

// parseIDList parses "1, 2,3". Empty elements are skipped.
func parseIDList(raw string) ([]uint, error) {
	if raw == "" {
		return nil, nil
	}
	var ids []uint
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseUint(part, 10, 64)
		if err != nil {
			return nil, &idListError{value: part}
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}

type idListError struct {
	value string
}

func (e *idListError) Error() string {
	return strconv.Quote(e.value) + " is not a valid id."
}
