package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/recipebox/backend/internal/middleware"
	"github.com/pageza/recipebox/backend/internal/models"
	"github.com/pageza/recipebox/backend/internal/service"
	"github.com/pageza/recipebox/backend/internal/types"
)

type attributeRecord[T any] interface {
	*T
	Base() *models.Attribute
}

// AttributeHandler serves the tag and ingredient collections
type AttributeHandler[T any, PT attributeRecord[T]] struct {
	svc service.IAttributeService[T]
	log *zap.Logger
}

func NewTagHandler(svc service.IAttributeService[models.Tag], log *zap.Logger) *AttributeHandler[models.Tag, *models.Tag] {
	return &AttributeHandler[models.Tag, *models.Tag]{svc: svc, log: log}
}

func NewIngredientHandler(svc service.IAttributeService[models.Ingredient], log *zap.Logger) *AttributeHandler[models.Ingredient, *models.Ingredient] {
	return &AttributeHandler[models.Ingredient, *models.Ingredient]{svc: svc, log: log}
}

// RegisterRoutes mounts the collection at path. Reads are public.
func (h *AttributeHandler[T, PT]) RegisterRoutes(rg *gin.RouterGroup, path string) {
	g := rg.Group(path)
	auth := middleware.RequireAuth()
	{
		g.GET("", h.List)
		g.GET("/:id", h.Get)
		g.POST("", auth, h.Create)
		g.PUT("/:id", auth, h.Replace)
		g.PATCH("/:id", auth, h.Patch)
		g.DELETE("/:id", auth, h.Delete)
	}
}

func (h *AttributeHandler[T, PT]) render(item *T) types.AttributeResponse {
	return types.NewAttributeResponse(PT(item).Base())
}

// List honours assigned_only: any non-zero integer restricts the result to
// the requester's items that are used by a recipe.
func (h *AttributeHandler[T, PT]) List(c *gin.Context) {
	assignedOnly := false
	if raw := c.Query("assigned_only"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			badQuery(c, "assigned_only", "A valid integer is required.")
			return
		}
		assignedOnly = n != 0
	}

	items, err := h.svc.List(c.Request.Context(), middleware.CurrentUser(c), assignedOnly)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	resp := make([]types.AttributeResponse, 0, len(items))
	for i := range items {
		resp = append(resp, h.render(&items[i]))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AttributeHandler[T, PT]) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	item, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, h.render(item))
}

func (h *AttributeHandler[T, PT]) Create(c *gin.Context) {
	var req types.AttributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	item, err := h.svc.Create(c.Request.Context(), middleware.CurrentUser(c), req.Name)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, h.render(item))
}

func (h *AttributeHandler[T, PT]) Replace(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req types.AttributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	h.update(c, id, &req.Name)
}

func (h *AttributeHandler[T, PT]) Patch(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req types.AttributePatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	h.update(c, id, req.Name)
}

func (h *AttributeHandler[T, PT]) update(c *gin.Context, id uint, name *string) {
	item, err := h.svc.Update(c.Request.Context(), middleware.CurrentUser(c), id, name)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, h.render(item))
}

func (h *AttributeHandler[T, PT]) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
