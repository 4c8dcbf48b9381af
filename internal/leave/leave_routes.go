package leave

import (
	"go-hrms/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	enforcer middleware.PolicyEnforcer,
	rdb *redis.Client,
	logger *zap.Logger,
) {
	leaves := r.Group("/leaves")
	leaves.Use(middleware.AuthMiddleware())
	leaves.Use(middleware.ContextLogger(logger))
	{
		leaves.POST("",
			middleware.RateLimitByUser(0.5, 2),
			middleware.Authorize(enforcer, "leave", "request"),
			middleware.Idempotency(rdb),
			handler.Request,
		)

		leaves.GET("",
			middleware.RateLimitByUser(3, 10),
			middleware.Authorize(enforcer, "leave", "read"),
			handler.GetAll,
		)

		leaves.GET("/mine",
			middleware.RateLimitByUser(3, 10),
			middleware.Authorize(enforcer, "leave", "read_own"),
			handler.GetMine,
		)

		leaves.GET("/:id",
			middleware.RateLimitByUser(3, 10),
			middleware.Authorize(enforcer, "leave", "read"),
			handler.GetById,
		)

		leaves.GET("/:id/status",
			middleware.RateLimitByUser(3, 10),
			middleware.Authorize(enforcer, "leave", "read_own"),
			handler.GetStatusByID,
		)

		leaves.PUT("/:id/status",
			middleware.RateLimitByUser(0.5, 2),
			middleware.Authorize(enforcer, "leave", "review"),
			handler.UpdateStatus,
		)

		leaves.DELETE("/:id",
			middleware.RateLimitByUser(0.05, 1),
			middleware.Authorize(enforcer, "leave", "delete"),
			handler.Delete,
		)
	}
}
