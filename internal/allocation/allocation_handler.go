package allocation

import (
	"net/http"
	"strconv"

	allocationerrors "adaptix-hrms/internal/allocation/errors"
	"adaptix-hrms/internal/middleware"
	"adaptix-hrms/internal/shared/apperror"
	"adaptix-hrms/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	rdb     *redis.Client
	logger  *zap.Logger
}

func NewHandler(service Service, rdb *redis.Client, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("allocation.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("allocation.handler")
	}
	return &Handler{service: service, rdb: rdb, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("allocation request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// GetAll returns the whole list unless page or page_size is given; the review
// screen selects across every visible draft.
func (h *Handler) GetAll(c *gin.Context) {
	resp, err := h.service.GetAll(c.Request.Context(), c.GetString("company_id"), c.Query("status"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	if c.Query("page") == "" && c.Query("page_size") == "" {
		meta := response.NewPaginationMeta(int64(len(resp)), 1, len(resp))
		response.Success(c, http.StatusOK, resp, &meta)
		return
	}

	page, meta := response.Paginate(c, resp)
	response.Success(c, http.StatusOK, page, &meta)
}

func (h *Handler) GetByID(c *gin.Context) {
	resp, err := h.service.GetByID(c.Request.Context(), c.GetString("company_id"), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) BulkApprove(c *gin.Context) {
	var req BulkApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http bulk approve validation failed", zap.Error(err))
		response.Error(c, http.StatusBadRequest, apperror.CodeValidationError, "Invalid input", apperror.ValidationDetails(err))
		return
	}

	resp, err := h.service.BulkApprove(c.Request.Context(), c.GetString("company_id"), c.GetString("employee_id"), req.IDs)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	middleware.RememberIdempotentResult(c, h.rdb, resp)
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Balance(c *gin.Context) {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		h.writeServiceError(c, allocationerrors.ErrInvalidYear)
		return
	}

	employeeID, err := uuid.Parse(c.Query("employee_id"))
	if err != nil {
		h.writeServiceError(c, allocationerrors.ErrInvalidEmployeeID)
		return
	}
	leaveTypeID, err := uuid.Parse(c.Query("leave_type_id"))
	if err != nil {
		h.writeServiceError(c, allocationerrors.ErrInvalidLeaveTypeID)
		return
	}

	resp, err := h.service.Balance(c.Request.Context(), c.GetString("company_id"), employeeID.String(), leaveTypeID.String(), year)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}
