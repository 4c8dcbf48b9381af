package employee

import (
	"go-hrms/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	enforcer middleware.PolicyEnforcer,
	logger *zap.Logger,
) {
	employees := r.Group("/employees")
	employees.Use(middleware.AuthMiddleware())
	employees.Use(middleware.ContextLogger(logger))
	{
		employees.GET("",
			middleware.RateLimitByUser(3, 10),
			middleware.Authorize(enforcer, "employee", "read"),
			handler.GetAll,
		)

		employees.GET("/me",
			middleware.RateLimitByUser(5, 20),
			handler.GetMe,
		)

		employees.GET("/:id",
			middleware.RateLimitByUser(3, 10),
			middleware.Authorize(enforcer, "employee", "read"),
			handler.GetById,
		)

		employees.POST("",
			middleware.RateLimitByUser(0.5, 2),
			middleware.Authorize(enforcer, "employee", "write"),
			handler.Create,
		)

		employees.POST("/import",
			middleware.RateLimitByUser(0.1, 1),
			middleware.Authorize(enforcer, "employee", "write"),
			handler.BulkImport,
		)

		employees.PUT("/:id",
			middleware.RateLimitByUser(0.5, 2),
			middleware.Authorize(enforcer, "employee", "write"),
			handler.Update,
		)

		employees.DELETE("/:id",
			middleware.RateLimitByUser(0.05, 1),
			middleware.Authorize(enforcer, "employee", "delete"),
			handler.Delete,
		)
	}
}
