package router

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sunrinpass/server/config"
	"github.com/sunrinpass/server/internal/handler"
	"github.com/sunrinpass/server/internal/middleware"
)

type Router struct {
	authHandler   *handler.AuthHandler
	passHandler   *handler.PassHandler
	userHandler   *handler.UserHandler
	healthHandler *handler.HealthHandler

	sessionMw *middleware.SessionMiddleware
	Config    *config.Config
}

func NewRouter(
	auth *handler.AuthHandler,
	pass *handler.PassHandler,
	user *handler.UserHandler,
	health *handler.HealthHandler,
	sessionMw *middleware.SessionMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authHandler:   auth,
		passHandler:   pass,
		userHandler:   user,
		healthHandler: health,
		sessionMw:     sessionMw,
		Config:        cfg,
	}
}

func (r *Router) SetupRoutes() *gin.Engine {
	if r.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.CORS(r.Config.App.FrontendURL))

	api := router.Group("/api")
	{
		api.GET("/health", r.healthHandler.HealthCheck)

		api.Use(middleware.RateLimit(
			r.Config.RateLimit.Request,
			time.Duration(r.Config.RateLimit.Duration)*time.Second,
		))

		r.authRoutes(api)
		r.passRoutes(api)
		r.userRoutes(api)
	}

	return router
}
