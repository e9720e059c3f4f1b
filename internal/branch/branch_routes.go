package branch

import (
	"verticx/internal/middleware"
	"verticx/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service) {
	branches := r.Group("/branches")
	{
		// Public onboarding endpoint, heavily throttled.
		branches.POST("/register", middleware.RateLimitByIP(0.05, 1), handler.Register)

		branches.GET("/me",
			middleware.AuthMiddleware(),
			middleware.RateLimitByUser(2, 10),
			handler.GetMe,
		)

		branches.PUT("/me",
			middleware.AuthMiddleware(),
			middleware.RateLimitByUser(0.1, 1),
			middleware.RBACAuthorize(rbacService, "branch", "manage"),
			handler.UpdateMe,
		)
	}
}
