package attendance

import (
	"verticx/internal/middleware"
	"verticx/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service) {
	attendances := r.Group("/attendance")
	attendances.Use(middleware.AuthMiddleware())
	{
		attendances.POST("/mark", middleware.RBACAuthorize(rbacService, "attendance", "mark"), h.MarkClass)
		attendances.GET("/classes/:classId", middleware.RBACAuthorize(rbacService, "attendance", "read"), h.GetClassAttendance)
		attendances.GET("/students/:studentId/summary", middleware.RBACAuthorize(rbacService, "attendance", "read"), h.GetStudentSummary)
	}
}
