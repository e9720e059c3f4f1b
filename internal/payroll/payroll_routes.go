package payroll

import (
	"verticx/internal/middleware"
	"verticx/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	rdb *redis.Client,
) {
	payrolls := r.Group("/payroll")
	payrolls.Use(middleware.AuthMiddleware())
	{
		payrolls.POST("/generate", middleware.RBACAuthorize(rbacService, "payroll", "manage"), handler.Generate)
		payrolls.POST("/process",
			middleware.RBACAuthorize(rbacService, "payroll", "manage"),
			middleware.Idempotency(rdb),
			handler.Process,
		)
		payrolls.POST("/adjustments", middleware.RBACAuthorize(rbacService, "payroll", "manage"), handler.AddAdjustment)
		payrolls.GET("", middleware.RBACAuthorize(rbacService, "payroll", "read"), handler.GetByMonth)
		payrolls.GET("/:id/payslip", middleware.RBACAuthorize(rbacService, "payroll", "read"), handler.DownloadPayslip)
	}
}
