package app

import (
	"database/sql"

	"verticx/internal/academics"
	"verticx/internal/attendance"
	"verticx/internal/auth"
	"verticx/internal/branch"
	"verticx/internal/class"
	"verticx/internal/fees"
	"verticx/internal/leave"
	"verticx/internal/messaging/kafka"
	"verticx/internal/middleware"
	"verticx/internal/payroll"
	"verticx/internal/rbac"
	"verticx/internal/rbac/infra"
	"verticx/internal/shared/counter"
	"verticx/internal/staff"
	"verticx/internal/staffsalary"
	"verticx/internal/student"

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
) error {
	// --- Repositories ---
	rbacRepo := rbac.NewRepository(gormDB)
	academicsRepo := academics.NewRepository(gormDB)
	attendanceRepo := attendance.NewRepository(gormDB)
	authRepo := auth.NewRepository(gormDB)
	branchRepo := branch.NewRepository(gormDB)
	classRepo := class.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	feesRepo := fees.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)
	payrollRepo := payroll.NewRepository(gormDB)
	staffRepo := staff.NewRepository(gormDB)
	staffSalaryRepo := staffsalary.NewRepository(gormDB)
	studentRepo := student.NewRepository(gormDB)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer()
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer)

	// --- Services ---
	academicsService := academics.NewService(db, academicsRepo, outboxRepo)
	attendanceService := attendance.NewService(db, attendanceRepo)
	authService := auth.NewService(authRepo, rbacService)
	branchService := branch.NewService(db, branchRepo, rbacService)
	classService := class.NewService(db, classRepo)
	feesService := fees.NewService(db, feesRepo, counterRepo, outboxRepo)
	leaveService := leave.NewService(db, leaveRepo)
	payrollService := payroll.NewService(db, payrollRepo)
	staffService := staff.NewServiceWithOutbox(db, staffRepo, counterRepo, outboxRepo, rdb)
	staffSalaryService := staffsalary.NewService(db, staffSalaryRepo)
	studentService := student.NewService(db, studentRepo, counterRepo)

	// --- Handlers ---
	academicsHandler := academics.NewHandler(academicsService)
	attendanceHandler := attendance.NewHandler(attendanceService)
	authHandler := auth.NewHandler(authService)
	branchHandler := branch.NewHandler(branchService)
	classHandler := class.NewHandler(classService)
	feesHandler := fees.NewHandler(feesService)
	leaveHandler := leave.NewHandler(leaveService)
	payrollHandler := payroll.NewHandlerWithRedis(payrollService, rdb)
	rbacHandler := rbac.NewHandler(rbacService, rbacRepo)
	staffHandler := staff.NewHandler(staffService)
	staffSalaryHandler := staffsalary.NewHandler(staffSalaryService)
	studentHandler := student.NewHandler(studentService)

	// --- Middleware chain ---
	router.Use(middleware.RequestID())
	router.Use(middleware.ContextLogger(zap.L()))
	router.Use(middleware.ExtractUserID())

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		academics.RegisterRoutes(api, academicsHandler, rbacService)
		attendance.RegisterRoutes(api, attendanceHandler, rbacService)
		auth.RegisterRoutes(api, authHandler)
		branch.RegisterRoutes(api, branchHandler, rbacService)
		class.RegisterRoutes(api, classHandler, rbacService)
		fees.RegisterRoutes(api, feesHandler, rbacService, rdb)
		leave.RegisterRoutes(api, leaveHandler, rbacService)
		payroll.RegisterRoutes(api, payrollHandler, rbacService, rdb)
		staff.RegisterRoutes(api, staffHandler, rbacService)
		staffsalary.RegisterRoutes(api, staffSalaryHandler, rbacService)
		student.RegisterRoutes(api, studentHandler, rbacService)
	}

	rbac.RegisterRoutes(router, rbacHandler, rbacService)

	return nil
}
