package router

import (
	"github.com/gin-gonic/gin"

	"github.com/sunrinpass/server/internal/middleware"
)

func (r *Router) passRoutes(api *gin.RouterGroup) {
	passes := api.Group("/passes")
	{
		// Students file and track their own passes
		passes.POST("", r.sessionMw.Require(middleware.PermissionStudent), r.passHandler.Create)
		passes.GET("/my-passes", r.sessionMw.Require(middleware.PermissionStudent), r.passHandler.MyPasses)

		// Teachers decide, review and check passes at the gate
		passes.GET("/pending", r.sessionMw.Require(middleware.PermissionTeacher), r.passHandler.Pending)
		passes.POST("/:id/approve", r.sessionMw.Require(middleware.PermissionTeacher), r.passHandler.Approve)
		passes.POST("/verify", r.sessionMw.Require(middleware.PermissionTeacher), r.passHandler.Verify)

		// Either party of the pass
		passes.GET("/:id", r.sessionMw.Require(middleware.PermissionAuthenticated), r.passHandler.Get)
	}
}
