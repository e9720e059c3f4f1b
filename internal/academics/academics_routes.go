package academics

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
	sessions := r.Group("/sessions")
	sessions.Use(middleware.AuthMiddleware())
	{
		sessions.GET("/active", middleware.RBACAuthorize(rbacService, "session", "read"), handler.GetActiveSession)
		sessions.GET("/calendar", middleware.RBACAuthorize(rbacService, "session", "read"), handler.GetCalendar)
		sessions.POST("/start", middleware.RBACAuthorize(rbacService, "session", "manage"), handler.StartNewSession)
		sessions.POST("/grades", middleware.RBACAuthorize(rbacService, "grades", "manage"), handler.RecordGrades)
	}
}
