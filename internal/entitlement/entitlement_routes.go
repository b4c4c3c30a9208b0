package entitlement

import (
	"adaptix-hrms/internal/middleware"
	"adaptix-hrms/internal/rbac"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service, logger *zap.Logger) {
	run := r.Group("/leave/entitlement-run")
	run.Use(middleware.AuthMiddleware())
	run.Use(middleware.ContextLogger(logger))
	{
		run.POST("",
			middleware.RateLimitByUser(0.2, 1),
			middleware.RBACAuthorize(rbacService, rbac.ResourceLeaveEntitlement, rbac.ActionRun),
			handler.Run,
		)
	}
}
