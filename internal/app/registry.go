package app

import (
	"database/sql"

	"go-hrms/internal/attendance"
	"go-hrms/internal/auth"
	"go-hrms/internal/employee"
	"go-hrms/internal/leave"
	"go-hrms/internal/messaging/kafka"
	"go-hrms/internal/rbac"
	"go-hrms/internal/settings"
	"go-hrms/internal/shared/counter"
	"go-hrms/internal/ticket"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	logger *zap.Logger,
) error {
	// --- Repositories ---
	attendanceRepo := attendance.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)
	settingsRepo := settings.NewRepository(gormDB)
	ticketRepo := ticket.NewRepository(gormDB)

	// --- RBAC Core ---
	enforcer, err := rbac.NewEnforcer()
	if err != nil {
		return err
	}

	// --- Services ---
	authService := auth.NewService(db, employeeRepo, counterRepo, logger)
	employeeService := employee.NewServiceWithOutbox(db, employeeRepo, counterRepo, outboxRepo, logger)
	leaveService := leave.NewServiceWithOutbox(db, leaveRepo, employeeRepo, outboxRepo, logger)
	settingsService := settings.NewService(settingsRepo, rdb, logger)
	attendanceService := attendance.NewService(db, attendanceRepo, settingsService, logger)
	ticketService := ticket.NewService(db, ticketRepo, employeeRepo, outboxRepo, logger)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService, logger)
	attendanceHandler := attendance.NewHandler(attendanceService, logger)
	employeeHandler := employee.NewHandler(employeeService, logger)
	leaveHandler := leave.NewHandler(leaveService, logger)
	settingsHandler := settings.NewHandler(settingsService, logger)
	ticketHandler := ticket.NewHandler(ticketService, logger)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler)
		attendance.RegisterRoutes(api, attendanceHandler, enforcer, logger)
		employee.RegisterRoutes(api, employeeHandler, enforcer, logger)
		leave.RegisterRoutes(api, leaveHandler, enforcer, rdb, logger)
		settings.RegisterRoutes(api, settingsHandler, enforcer, logger)
		ticket.RegisterRoutes(api, ticketHandler, enforcer, rdb, logger)
	}

	return nil
}
