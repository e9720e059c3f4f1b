package leave

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
	leaves := r.Group("/leaves")
	leaves.Use(middleware.AuthMiddleware())
	{
		leaves.POST("", middleware.RBACAuthorize(rbacService, "leave", "apply"), handler.Apply)
		leaves.GET("", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.GetAll)
		leaves.GET("/:id", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.GetByID)
		leaves.POST("/:id/approve", middleware.RBACAuthorize(rbacService, "leave", "review"), handler.Approve)
		leaves.POST("/:id/reject", middleware.RBACAuthorize(rbacService, "leave", "review"), handler.Reject)
		leaves.DELETE("/:id", middleware.RBACAuthorize(rbacService, "leave", "apply"), handler.Cancel)
	}
}
