package router

import (
	"github.com/gin-gonic/gin"

	"github.com/sunrinpass/server/internal/middleware"
)

func (r *Router) authRoutes(api *gin.RouterGroup) {
	auth := api.Group("/auth")
	{
		// Public routes
		auth.GET("/google", r.sessionMw.Require(middleware.PermissionPublic), r.authHandler.GoogleLogin)
		auth.POST("/google/callback", r.sessionMw.Require(middleware.PermissionPublic), r.authHandler.GoogleCallback)
		auth.POST("/refresh", r.sessionMw.Require(middleware.PermissionPublic), r.authHandler.Refresh)

		// Requires a live session
		auth.GET("/status", r.sessionMw.Require(middleware.PermissionAuthenticated), r.authHandler.Status)
		auth.POST("/logout", r.sessionMw.Require(middleware.PermissionAuthenticated), r.authHandler.Logout)
	}
}
