package fees

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
	fees := r.Group("/fees")
	fees.Use(middleware.AuthMiddleware())
	{
		fees.POST("/templates", middleware.RBACAuthorize(rbacService, "fees", "manage"), handler.CreateTemplate)
		fees.GET("/templates", middleware.RBACAuthorize(rbacService, "fees", "read"), handler.GetTemplates)

		fees.GET("/students/:studentId", middleware.RBACAuthorize(rbacService, "fees", "read"), handler.GetStudentFees)
		fees.GET("/students/:studentId/ledger", middleware.RBACAuthorize(rbacService, "fees", "read"), handler.GetLedger)

		fees.POST("/payments",
			middleware.RBACAuthorize(rbacService, "fees", "collect"),
			middleware.Idempotency(rdb),
			handler.RecordPayment,
		)
		fees.POST("/adjustments", middleware.RBACAuthorize(rbacService, "fees", "manage"), handler.ApplyAdjustment)

		fees.GET("/overview", middleware.RBACAuthorize(rbacService, "fees", "read"), handler.FinancialOverview)
	}
}
