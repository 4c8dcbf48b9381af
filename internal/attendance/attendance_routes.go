package attendance

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
	attendances := r.Group("/attendances")
	attendances.Use(middleware.AuthMiddleware())
	attendances.Use(middleware.ContextLogger(logger))
	{
		attendances.POST("/check-in",
			middleware.RateLimitByUser(0.5, 2),
			middleware.Authorize(enforcer, "attendance", "mark"),
			handler.CheckIn,
		)

		attendances.POST("/check-out",
			middleware.RateLimitByUser(0.5, 2),
			middleware.Authorize(enforcer, "attendance", "mark"),
			handler.CheckOut,
		)

		attendances.GET("/mine",
			middleware.RateLimitByUser(3, 10),
			middleware.Authorize(enforcer, "attendance", "read_own"),
			handler.GetMine,
		)

		attendances.GET("/today",
			middleware.RateLimitByUser(3, 10),
			middleware.Authorize(enforcer, "attendance", "read"),
			handler.GetToday,
		)

		attendances.GET("/date/:date",
			middleware.RateLimitByUser(3, 10),
			middleware.Authorize(enforcer, "attendance", "read"),
			handler.GetByDate,
		)

		attendances.GET("/employee/:id",
			middleware.RateLimitByUser(3, 10),
			middleware.Authorize(enforcer, "attendance", "read"),
			handler.GetByEmployee,
		)

		attendances.DELETE("/:id",
			middleware.RateLimitByUser(0.05, 1),
			middleware.Authorize(enforcer, "attendance", "delete"),
			handler.Delete,
		)
	}
}
