package leavepolicy

import (
	"adaptix-hrms/internal/middleware"
	"adaptix-hrms/internal/rbac"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service, logger *zap.Logger) {
	policies := r.Group("/leave/policies")
	policies.Use(middleware.AuthMiddleware())
	policies.Use(middleware.ContextLogger(logger))
	{
		policies.GET("",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, rbac.ResourceLeavePolicy, rbac.ActionRead),
			handler.GetAll,
		)
		policies.GET("/:id",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, rbac.ResourceLeavePolicy, rbac.ActionRead),
			handler.GetByID,
		)
		policies.POST("",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, rbac.ResourceLeavePolicy, rbac.ActionCreate),
			handler.Create,
		)
		policies.POST("/:id/deactivate",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, rbac.ResourceLeavePolicy, rbac.ActionUpdate),
			handler.Deactivate,
		)
	}
}
