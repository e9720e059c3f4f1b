package student

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
	students := r.Group("/students")
	students.Use(middleware.AuthMiddleware())
	{
		students.POST("", middleware.RBACAuthorize(rbacService, "students", "manage"), handler.Create)
		students.GET("", middleware.RBACAuthorize(rbacService, "students", "read"), handler.GetAll)
		students.GET("/:id", middleware.RBACAuthorize(rbacService, "students", "read"), handler.GetByID)
		students.PUT("/:id", middleware.RBACAuthorize(rbacService, "students", "manage"), handler.Update)
		students.DELETE("/:id", middleware.RBACAuthorize(rbacService, "students", "manage"), handler.Delete)
	}
}
