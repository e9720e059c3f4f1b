package class

import (
	"verticx/internal/middleware"
	"verticx/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
) {
	classes := r.Group("/classes")
	classes.Use(middleware.AuthMiddleware())
	{
		classes.POST("", middleware.RBACAuthorize(rbacService, "classes", "manage"), handler.Create)
		classes.GET("", middleware.RBACAuthorize(rbacService, "classes", "read"), handler.GetAll)
		classes.GET("/:id", middleware.RBACAuthorize(rbacService, "classes", "read"), handler.GetByID)
		classes.PUT("/:id", middleware.RBACAuthorize(rbacService, "classes", "manage"), handler.Update)
		classes.DELETE("/:id", middleware.RBACAuthorize(rbacService, "classes", "manage"), handler.Delete)
	}
}
