package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/recipebox/backend/internal/middleware"
	"github.com/pageza/recipebox/backend/internal/models"
	"github.com/pageza/recipebox/backend/internal/service"
	"github.com/pageza/recipebox/backend/internal/types"
)

type ArticleHandler struct {
	articles service.IArticleService
	images   service.IImageService
	log      *zap.Logger
}

func NewArticleHandler(articles service.IArticleService, images service.IImageService, log *zap.Logger) *ArticleHandler {
	return &ArticleHandler{articles: articles, images: images, log: log}
}

func (h *ArticleHandler) RegisterRoutes(rg *gin.RouterGroup) {
	articles := rg.Group("/articles")
	auth := middleware.RequireAuth()
	{
		articles.GET("", h.List)
		articles.GET("/:id", h.Get)
		articles.POST("", auth, h.Create)
		articles.PUT("/:id", auth, h.Replace)
		articles.PATCH("/:id", auth, h.Patch)
		articles.DELETE("/:id", auth, h.Delete)
		articles.POST("/:id/upload-image", auth, h.UploadImage)
	}
}

func (h *ArticleHandler) render(a *models.Article) types.ArticleResponse {
	return types.NewArticleResponse(a, h.images.URL(a.Image))
}

func (h *ArticleHandler) List(c *gin.Context) {
	articles, err := h.articles.List(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	resp := make([]types.ArticleResponse, 0, len(articles))
	for i := range articles {
		resp = append(resp, h.render(&articles[i]))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ArticleHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	article, err := h.articles.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, h.render(article))
}

func (h *ArticleHandler) Create(c *gin.Context) {
	var req types.ArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	article, err := h.articles.Create(c.Request.Context(), middleware.CurrentUser(c), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, h.render(article))
}

func (h *ArticleHandler) Replace(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req types.ArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	article, err := h.articles.Replace(c.Request.Context(), middleware.CurrentUser(c), id, &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, h.render(article))
}

func (h *ArticleHandler) Patch(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req types.ArticlePatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	article, err := h.articles.Patch(c.Request.Context(), middleware.CurrentUser(c), id, &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, h.render(article))
}

func (h *ArticleHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.articles.Delete(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ArticleHandler) UploadImage(c *gin.Context) {
	uploadImage(c, h.images, h.log, h.images.UploadArticleImage)
}
