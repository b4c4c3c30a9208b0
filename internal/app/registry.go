package app

import (
	"database/sql"
	"os"

	"adaptix-hrms/internal/allocation"
	"adaptix-hrms/internal/employee"
	"adaptix-hrms/internal/entitlement"
	"adaptix-hrms/internal/leave"
	"adaptix-hrms/internal/leavepolicy"
	"adaptix-hrms/internal/leavetype"
	"adaptix-hrms/internal/messaging/kafka"
	"adaptix-hrms/internal/rbac"
	"adaptix-hrms/internal/rbac/infra"
	"adaptix-hrms/internal/shared/counter"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const APIPrefix = "/api/v1/hrms"

// services is the part of the graph shared by the HTTP server and the consumer.
type services struct {
	employee    employee.Service
	leaveType   leavetype.Service
	leavePolicy leavepolicy.Service
	allocation  allocation.Service
	entitlement entitlement.Service
	leave       leave.Service
}

func buildServices(db *sql.DB, gormDB *gorm.DB, rdb *redis.Client, logger *zap.Logger) services {
	// --- Repositories ---
	employeeRepo := employee.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	leaveTypeRepo := leavetype.NewRepository(gormDB)
	leavePolicyRepo := leavepolicy.NewRepository(gormDB)
	allocationRepo := allocation.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- Services ---
	employeeService := employee.NewServiceWithOutbox(db, employeeRepo, counterRepo, outboxRepo, rdb, logger)
	leavePolicyService := leavepolicy.NewService(db, leavePolicyRepo, logger)

	return services{
		employee:    employeeService,
		leaveType:   leavetype.NewService(db, leaveTypeRepo, rdb, logger),
		leavePolicy: leavePolicyService,
		allocation:  allocation.NewService(db, allocationRepo, outboxRepo, logger),
		entitlement: entitlement.NewService(db, leavePolicyService, employeeService, allocationRepo, outboxRepo, rdb, logger),
		leave:       leave.NewService(db, leaveRepo, leaveTypeRepo, allocationRepo, logger),
	}
}

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	logger *zap.Logger,
) error {
	svc := buildServices(db, gormDB, rdb, logger)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer(os.Getenv("RBAC_MODEL_PATH"))
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbac.NewRepository(gormDB), enforcer, logger)

	// --- Handlers ---
	employeeHandler := employee.NewHandler(svc.employee, logger)
	leaveTypeHandler := leavetype.NewHandler(svc.leaveType, logger)
	leavePolicyHandler := leavepolicy.NewHandler(svc.leavePolicy, logger)
	allocationHandler := allocation.NewHandler(svc.allocation, rdb, logger)
	entitlementHandler := entitlement.NewHandler(svc.entitlement, logger)
	leaveHandler := leave.NewHandler(svc.leave, logger)
	rbacHandler := rbac.NewHandler(rbacService, logger)

	// --- Routes Registration ---
	api := router.Group(APIPrefix)
	{
		employee.RegisterRoutes(api, employeeHandler, rbacService, logger)
		leavetype.RegisterRoutes(api, leaveTypeHandler, rbacService, logger)
		leavepolicy.RegisterRoutes(api, leavePolicyHandler, rbacService, logger)
		allocation.RegisterRoutes(api, allocationHandler, rbacService, rdb, logger)
		entitlement.RegisterRoutes(api, entitlementHandler, rbacService, logger)
		leave.RegisterRoutes(api, leaveHandler, rbacService, logger)
		rbac.RegisterRoutes(api, rbacHandler)
	}

	return nil
}
