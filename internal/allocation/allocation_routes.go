package allocation

import (
	"adaptix-hrms/internal/middleware"
	"adaptix-hrms/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	rdb *redis.Client,
	logger *zap.Logger,
) {
	allocations := r.Group("/leave/allocations")
	allocations.Use(middleware.AuthMiddleware())
	allocations.Use(middleware.ContextLogger(logger))
	{
		allocations.GET("",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, rbac.ResourceLeaveAllocation, rbac.ActionRead),
			handler.GetAll,
		)
		allocations.GET("/balance",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, rbac.ResourceLeaveAllocation, rbac.ActionRead),
			handler.Balance,
		)
		allocations.GET("/:id",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, rbac.ResourceLeaveAllocation, rbac.ActionRead),
			handler.GetByID,
		)
		allocations.POST("/bulk-approve",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, rbac.ResourceLeaveAllocation, rbac.ActionApprove),
			middleware.Idempotency(rdb),
			handler.BulkApprove,
		)
	}
}
