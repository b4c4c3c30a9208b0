package leave

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	leaveerrors "adaptix-hrms/internal/leave/errors"
	"adaptix-hrms/internal/leavetype"
	"adaptix-hrms/internal/shared/apperror"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

type LeaveTypeLookup interface {
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*leavetype.LeaveType, error)
}

// BalanceReader returns the approved allocation total for one leave type and year.
type BalanceReader interface {
	SumApproved(ctx context.Context, companyID, employeeID, leaveTypeID string, year int) (int, error)
}

type Service interface {
	Create(ctx context.Context, companyID, actorID string, req CreateLeaveRequest) (LeaveResponse, error)
	GetAll(ctx context.Context, companyID, status string) ([]LeaveResponse, error)
	GetByID(ctx context.Context, companyID, id string) (LeaveResponse, error)
	Approve(ctx context.Context, companyID, actorID, id string) (LeaveResponse, error)
	Reject(ctx context.Context, companyID, actorID, id, rejectionReason string) (LeaveResponse, error)
	Cancel(ctx context.Context, companyID, actorID, id string) (LeaveResponse, error)
}

type service struct {
	db         *sql.DB
	repo       Repository
	leaveTypes LeaveTypeLookup
	balances   BalanceReader
	now        func() time.Time
	logger     *zap.Logger
}

func NewService(db *sql.DB, repo Repository, leaveTypes LeaveTypeLookup, balances BalanceReader, logger ...*zap.Logger) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{
		db:         db,
		repo:       repo,
		leaveTypes: leaveTypes,
		balances:   balances,
		now:        func() time.Time { return time.Now().UTC() },
		logger:     l,
	}
}

func (s *service) Create(ctx context.Context, companyID, actorID string, req CreateLeaveRequest) (LeaveResponse, error) {
	s.logger.Debug("create leave requested",
		zap.String("company_id", companyID),
		zap.String("actor_id", actorID),
		zap.String("employee_id", req.Employee),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	l, err := buildLeave(companyID, actorID, req)
	if err != nil {
		s.logger.Warn("create leave validation failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	lt, err := s.leaveTypes.FindByIDAndCompany(ctx, companyID, req.LeaveType)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveTypeNotInCompany
		}
		return LeaveResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	belongs, err := qtx.LockEmployeeInCompany(ctx, companyID, req.Employee)
	if err != nil {
		s.logger.Error("create leave employee company check failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if !belongs {
		return LeaveResponse{}, leaveerrors.ErrEmployeeNotInCompany
	}

	overlap, err := qtx.HasOverlappingPeriod(ctx, companyID, req.Employee, l.StartDate, l.EndDate)
	if err != nil {
		s.logger.Error("create leave overlap check failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if overlap {
		s.logger.Warn("create leave overlap detected",
			zap.String("company_id", companyID),
			zap.String("employee_id", req.Employee),
		)
		return LeaveResponse{}, leaveerrors.ErrLeaveOverlap
	}

	if lt.TracksBalance {
		if err := s.checkBalance(ctx, qtx, l); err != nil {
			return LeaveResponse{}, err
		}
	}

	if err := qtx.Create(ctx, l); err != nil {
		s.logger.Error("create leave persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create leave commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	s.logger.Info("create leave success",
		zap.String("leave_id", l.ID.String()),
		zap.String("company_id", companyID),
		zap.String("employee_id", req.Employee),
	)

	return mapToResponse(LeaveView{Leave: *l, LeaveTypeName: lt.Name}), nil
}

// checkBalance charges the whole request to the start date's year.
func (s *service) checkBalance(ctx context.Context, qtx Repository, l *Leave) error {
	companyID := l.CompanyID.String()
	employeeID := l.EmployeeID.String()
	leaveTypeID := l.LeaveTypeID.String()
	year := l.StartDate.Year()

	allocated, err := s.balances.SumApproved(ctx, companyID, employeeID, leaveTypeID, year)
	if err != nil {
		s.logger.Error("create leave balance lookup failed", zap.Error(err))
		return err
	}
	inUse, err := qtx.SumDaysInUse(ctx, companyID, employeeID, leaveTypeID, year)
	if err != nil {
		s.logger.Error("create leave usage lookup failed", zap.Error(err))
		return err
	}

	if l.TotalDays > allocated-inUse {
		s.logger.Warn("create leave insufficient balance",
			zap.String("employee_id", employeeID),
			zap.Int("requested", l.TotalDays),
			zap.Int("allocated", allocated),
			zap.Int("in_use", inUse),
		)
		return leaveerrors.ErrInsufficientBalance
	}
	return nil
}

func (s *service) GetAll(ctx context.Context, companyID, status string) ([]LeaveResponse, error) {
	rows, err := s.repo.FindAllByCompany(ctx, companyID, strings.ToUpper(strings.TrimSpace(status)))
	if err != nil {
		return nil, err
	}
	resp := make([]LeaveResponse, len(rows))
	for i, row := range rows {
		resp[i] = mapToResponse(row)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (LeaveResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}
	row, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}
	return mapToResponse(*row), nil
}

func (s *service) Approve(ctx context.Context, companyID, actorID, id string) (LeaveResponse, error) {
	return s.transition(ctx, companyID, actorID, id, StatusApproved, "")
}

func (s *service) Reject(ctx context.Context, companyID, actorID, id, rejectionReason string) (LeaveResponse, error) {
	if strings.TrimSpace(rejectionReason) == "" {
		return LeaveResponse{}, leaveerrors.ErrRejectionReasonRequired
	}
	return s.transition(ctx, companyID, actorID, id, StatusRejected, strings.TrimSpace(rejectionReason))
}

func (s *service) Cancel(ctx context.Context, companyID, actorID, id string) (LeaveResponse, error) {
	return s.transition(ctx, companyID, actorID, id, StatusCancelled, "")
}

func (s *service) transition(ctx context.Context, companyID, actorID, id, target, rejectionReason string) (LeaveResponse, error) {
	s.logger.Debug("transition leave status requested",
		zap.String("leave_id", id),
		zap.String("company_id", companyID),
		zap.String("actor_id", actorID),
		zap.String("target_status", target),
	)

	if _, err := uuid.Parse(companyID); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidCompanyID
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}
	if _, err := uuid.Parse(id); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("transition leave status begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	row, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}
	if !CanTransition(row.Status, target) {
		s.logger.Warn("transition leave status invalid",
			zap.String("leave_id", id),
			zap.String("from_status", row.Status),
			zap.String("to_status", target),
		)
		return LeaveResponse{}, leaveerrors.ErrInvalidStatusTransition
	}

	row.Status = target
	switch target {
	case StatusApproved:
		now := s.now()
		row.ApprovedBy = &actorUUID
		row.ApprovedAt = &now
	case StatusRejected:
		row.RejectionReason = &rejectionReason
	}

	ok, err := qtx.TransitionFromPending(ctx, &row.Leave)
	if err != nil {
		s.logger.Error("transition leave status persist failed",
			zap.String("leave_id", id),
			zap.String("target_status", target),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}
	if !ok {
		// someone else decided it between the read and the update
		return LeaveResponse{}, leaveerrors.ErrInvalidStatusTransition
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("transition leave status commit failed",
			zap.String("leave_id", id),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}
	s.logger.Info("transition leave status success",
		zap.String("leave_id", id),
		zap.String("status", target),
	)
	return mapToResponse(*row), nil
}

func buildLeave(companyID, actorID string, req CreateLeaveRequest) (*Leave, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return nil, leaveerrors.ErrInvalidCompanyID
	}
	createdBy, err := uuid.Parse(actorID)
	if err != nil {
		return nil, leaveerrors.ErrInvalidActorID
	}
	employeeUUID, err := uuid.Parse(req.Employee)
	if err != nil {
		return nil, leaveerrors.ErrInvalidEmployeeID
	}
	leaveTypeUUID, err := uuid.Parse(req.LeaveType)
	if err != nil {
		return nil, leaveerrors.ErrInvalidLeaveTypeID
	}
	startDate, err := parseDate(req.StartDate, "start_date")
	if err != nil {
		return nil, err
	}
	endDate, err := parseDate(req.EndDate, "end_date")
	if err != nil {
		return nil, err
	}
	if endDate.Before(startDate) {
		return nil, leaveerrors.ErrInvalidDateRange
	}

	return &Leave{
		ID:          uuid.New(),
		CompanyID:   companyUUID,
		EmployeeID:  employeeUUID,
		LeaveTypeID: leaveTypeUUID,
		StartDate:   startDate,
		EndDate:     endDate,
		TotalDays:   CountDays(startDate, endDate),
		Reason:      strings.TrimSpace(req.Reason),
		Status:      StatusPending,
		CreatedBy:   createdBy,
	}, nil
}

func parseDate(v, field string) (time.Time, error) {
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat.WithDetails(
			[]apperror.FieldError{{Field: field, Message: "Expected YYYY-MM-DD"}},
		)
	}
	return t, nil
}

func mapToResponse(v LeaveView) LeaveResponse {
	resp := LeaveResponse{
		ID:              v.ID.String(),
		CompanyID:       v.CompanyID.String(),
		EmployeeID:      v.EmployeeID.String(),
		EmployeeName:    v.EmployeeName(),
		LeaveTypeID:     v.LeaveTypeID.String(),
		LeaveTypeName:   v.LeaveTypeName,
		StartDate:       v.StartDate.Format(dateLayout),
		EndDate:         v.EndDate.Format(dateLayout),
		TotalDays:       v.TotalDays,
		Reason:          v.Reason,
		Status:          v.Status,
		CreatedBy:       v.CreatedBy.String(),
		RejectionReason: v.RejectionReason,
	}
	if v.ApprovedBy != nil {
		by := v.ApprovedBy.String()
		resp.ApprovedBy = &by
	}
	if v.ApprovedAt != nil {
		at := v.ApprovedAt.UTC().Format(time.RFC3339)
		resp.ApprovedAt = &at
	}
	return resp
}
