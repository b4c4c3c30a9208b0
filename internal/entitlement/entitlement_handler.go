package entitlement

import (
	"errors"
	"io"
	"net/http"

	"adaptix-hrms/internal/shared/apperror"
	"adaptix-hrms/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("entitlement.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("entitlement.handler")
	}
	return &Handler{service: service, logger: l}
}

// Run ignores any company in the body; the tenant is always the session's.
func (h *Handler) Run(c *gin.Context) {
	var req RunRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("http entitlement run validation failed", zap.Error(err))
		response.Error(c, http.StatusBadRequest, apperror.CodeValidationError, "Invalid input", apperror.ValidationDetails(err))
		return
	}

	year := 0
	if req.PeriodYear != nil {
		year = *req.PeriodYear
	}

	resp, err := h.service.Run(c.Request.Context(), c.GetString("company_id"), c.GetString("employee_id"), year)
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		h.logger.Warn("entitlement run failed",
			zap.Int("status", httpErr.Status),
			zap.String("code", httpErr.Code),
		)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}
