package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/recipebox/backend/internal/middleware"
	"github.com/pageza/recipebox/backend/internal/service"
	"github.com/pageza/recipebox/backend/internal/types"
)

// UserHandler serves account creation, login and the "me" profile
type UserHandler struct {
	auth service.IAuthService
	log  *zap.Logger
}

func NewUserHandler(auth service.IAuthService, log *zap.Logger) *UserHandler {
	return &UserHandler{auth: auth, log: log}
}

func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	{
		users.POST("/create", h.Create)
		users.POST("/token", h.Token)

		me := users.Group("/me", middleware.RequireAuth())
		me.GET("", h.Me)
		me.PUT("", h.Replace)
		me.PATCH("", h.Patch)
		me.DELETE("", h.Delete)
	}
}

func (h *UserHandler) Create(c *gin.Context) {
	var req types.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.auth.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, types.NewUserResponse(user))
}

// Token exchanges credentials for the user's token. Missing fields and bad
// credentials are both 400.
func (h *UserHandler) Token(c *gin.Context) {
	var req types.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	key, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, types.TokenResponse{Token: key})
}

func (h *UserHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, types.NewUserResponse(middleware.CurrentUser(c)))
}

func (h *UserHandler) Replace(c *gin.Context) { h.update(c, false) }

func (h *UserHandler) Patch(c *gin.Context) { h.update(c, true) }

func (h *UserHandler) update(c *gin.Context, partial bool) {
	var req types.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.auth.UpdateProfile(c.Request.Context(), middleware.CurrentUser(c), &req, partial)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, types.NewUserResponse(user))
}

func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.auth.DeleteAccount(c.Request.Context(), middleware.CurrentUser(c)); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
