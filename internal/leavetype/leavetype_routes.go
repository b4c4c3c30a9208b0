package leavetype

import (
	"adaptix-hrms/internal/middleware"
	"adaptix-hrms/internal/rbac"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service, logger *zap.Logger) {
	types := r.Group("/leave-types")
	types.Use(middleware.AuthMiddleware())
	types.Use(middleware.ContextLogger(logger))
	{
		types.GET("",
			middleware.RateLimitByUser(5, 20),
			middleware.RBACAuthorize(rbacService, rbac.ResourceLeaveType, rbac.ActionRead),
			handler.GetAll,
		)
		types.GET("/:id",
			middleware.RateLimitByUser(5, 20),
			middleware.RBACAuthorize(rbacService, rbac.ResourceLeaveType, rbac.ActionRead),
			handler.GetByID,
		)
		types.POST("",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, rbac.ResourceLeaveType, rbac.ActionCreate),
			handler.Create,
		)
	}
}
