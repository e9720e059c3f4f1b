package staff

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
	members := r.Group("/staff")
	members.Use(middleware.AuthMiddleware())
	{
		members.POST("", middleware.RBACAuthorize(rbacService, "staff", "manage"), handler.Create)
		members.GET("", middleware.RBACAuthorize(rbacService, "staff", "read"), handler.GetAll)
		members.GET("/options", middleware.RBACAuthorize(rbacService, "staff", "read"), handler.GetOptions)
		members.GET("/:id", middleware.RBACAuthorize(rbacService, "staff", "read"), handler.GetByID)
		members.PUT("/:id", middleware.RBACAuthorize(rbacService, "staff", "manage"), handler.Update)
		members.DELETE("/:id", middleware.RBACAuthorize(rbacService, "staff", "manage"), handler.Delete)
	}
}
