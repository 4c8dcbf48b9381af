package settings

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
	settings := r.Group("/settings")
	settings.Use(middleware.AuthMiddleware())
	settings.Use(middleware.ContextLogger(logger))
	{
		settings.GET("",
			middleware.RateLimitByUser(5, 20),
			middleware.Authorize(enforcer, "settings", "read"),
			handler.Get,
		)

		write := settings.Group("")
		write.Use(
			middleware.RateLimitByUser(0.5, 2),
			middleware.Authorize(enforcer, "settings", "write"),
		)
		{
			write.PUT("/week-offs", handler.UpdateWeekOffs)
			write.POST("/announcements", handler.AddAnnouncement)
			write.DELETE("/announcements/:id", handler.RemoveAnnouncement)
			write.POST("/holidays", handler.AddHoliday)
			write.DELETE("/holidays/:date", handler.RemoveHoliday)
			write.PUT("/work-hours", handler.UpdateWorkHours)
			write.PUT("/leave-policy", handler.UpdateLeavePolicy)
			write.PUT("/geofence", handler.UpdateGeofence)
		}
	}
}
