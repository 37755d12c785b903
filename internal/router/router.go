package router

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pageza/recipebox/backend/config"
	"github.com/pageza/recipebox/backend/internal/api"
	"github.com/pageza/recipebox/backend/internal/middleware"
	"github.com/pageza/recipebox/backend/internal/service"
	"github.com/pageza/recipebox/backend/internal/types"
)

// multipart framing on top of the image itself
const uploadOverhead = 1 << 20

// Deps are the collaborators the HTTP surface is built from
type Deps struct {
	Config   *config.Config
	Services *service.Services
	// Ping checks the database for /health
	Ping api.Pinger
	// Redis enables write rate limiting when non-nil
	Redis   *redis.Client
	Metrics *middleware.Metrics
	Log     *zap.Logger
}

// SetupRouter configures the middleware chain and every route
func SetupRouter(d Deps) *gin.Engine {
	if d.Metrics == nil {
		d.Metrics = middleware.NewMetrics()
	}

	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, types.ErrorResponse{Error: "Not found."})
	})
	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, types.ErrorResponse{Error: "Method \"" + c.Request.Method + "\" not allowed."})
	})

	router.Use(
		middleware.RequestID(),
		middleware.Logger(d.Log.Named("http")),
		middleware.Recovery(d.Log),
		middleware.SecurityHeaders(),
		middleware.CORS(d.Config.Server.CORSOrigins),
		d.Metrics.Middleware(),
		middleware.BodyLimit(d.Config.Storage.MaxUploadBytes+uploadOverhead),
		middleware.TokenAuth(d.Services.Auth, d.Log.Named("auth")),
	)

	if d.Redis != nil && d.Config.Auth.WriteRateLimit > 0 {
		limiter := middleware.NewWriteRateLimiter(d.Redis, d.Config.Auth.WriteRateLimit, d.Config.Auth.WriteRateWindow, d.Log.Named("ratelimit"))
		router.Use(limiter.WriteLimit())
	}

	router.GET("/health", api.HealthCheck(d.Ping, d.Log))
	router.GET("/metrics", gin.WrapH(d.Metrics.Handler()))

	if d.Config.Storage.Backend == "local" && strings.HasPrefix(d.Config.Storage.MediaURL, "/") {
		router.Static(d.Config.Storage.MediaURL, d.Config.Storage.Root)
	}

	api.RegisterRoutes(router, d.Services, d.Log)
	return router
}

