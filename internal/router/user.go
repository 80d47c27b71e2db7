package router

import (
	"github.com/gin-gonic/gin"

	"github.com/sunrinpass/server/internal/middleware"
)

func (r *Router) userRoutes(api *gin.RouterGroup) {
	users := api.Group("/users")
	{
		// Students pick a teacher when filing a pass
		users.GET("/teachers", r.sessionMw.Require(middleware.PermissionStudent), r.userHandler.Teachers)

		users.GET("/:id", r.sessionMw.Require(middleware.PermissionAuthenticated), r.userHandler.GetByID)
	}
}
