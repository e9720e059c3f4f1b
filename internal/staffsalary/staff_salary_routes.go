package staffsalary

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
	salaries := r.Group("/staff-salaries")
	salaries.Use(middleware.AuthMiddleware())
	{
		salaries.POST("", middleware.RBACAuthorize(rbacService, "salary", "manage"), handler.Create)
		salaries.GET("", middleware.RBACAuthorize(rbacService, "salary", "read"), handler.GetAll)
		salaries.GET("/:id", middleware.RBACAuthorize(rbacService, "salary", "read"), handler.GetByID)
		salaries.PUT("/:id", middleware.RBACAuthorize(rbacService, "salary", "manage"), handler.Update)
		salaries.DELETE("/:id", middleware.RBACAuthorize(rbacService, "salary", "manage"), handler.Delete)
	}
}
