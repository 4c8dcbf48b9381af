package ticket

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
	tickets := r.Group("/tickets")
	tickets.Use(middleware.AuthMiddleware())
	tickets.Use(middleware.ContextLogger(logger))
	{
		tickets.POST("",
			middleware.RateLimitByUser(0.5, 2),
			middleware.Authorize(enforcer, "ticket", "raise"),
			middleware.Idempotency(rdb),
			handler.Raise,
		)

		tickets.GET("",
			middleware.RateLimitByUser(3, 10),
			middleware.Authorize(enforcer, "ticket", "read"),
			handler.GetAll,
		)

		tickets.GET("/mine",
			middleware.RateLimitByUser(3, 10),
			middleware.Authorize(enforcer, "ticket", "read"),
			handler.GetMine,
		)

		tickets.GET("/assigned",
			middleware.RateLimitByUser(3, 10),
			middleware.Authorize(enforcer, "ticket", "read"),
			handler.GetAssignedToMe,
		)

		tickets.GET("/:id",
			middleware.RateLimitByUser(3, 10),
			middleware.Authorize(enforcer, "ticket", "read"),
			handler.GetById,
		)

		tickets.PUT("/:id/status",
			middleware.RateLimitByUser(0.5, 2),
			middleware.Authorize(enforcer, "ticket", "resolve"),
			handler.UpdateStatus,
		)

		tickets.DELETE("/:id",
			middleware.RateLimitByUser(0.05, 1),
			middleware.Authorize(enforcer, "ticket", "delete"),
			handler.Delete,
		)
	}
}
