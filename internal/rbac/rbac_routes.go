package rbac

import (
	"verticx/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, handler *Handler, service Service) {
	group := r.Group("/rbac")
	{
		group.POST("/enforce", handler.Enforce)
	}

	manage := r.Group("/rbac")
	manage.Use(middleware.AuthMiddleware())
	{
		manage.GET("/roles", middleware.RBACAuthorize(service, "roles", "read"), handler.ListRoles)
		manage.GET("/roles/:id", middleware.RBACAuthorize(service, "roles", "read"), handler.GetRole)
		manage.POST("/roles", middleware.RBACAuthorize(service, "roles", "manage"), handler.CreateRole)
		manage.PUT("/roles/:id", middleware.RBACAuthorize(service, "roles", "manage"), handler.UpdateRole)
		manage.DELETE("/roles/:id", middleware.RBACAuthorize(service, "roles", "manage"), handler.DeleteRole)

		manage.GET("/permissions", middleware.RBACAuthorize(service, "roles", "manage"), handler.ListPermissions)
	}
}
