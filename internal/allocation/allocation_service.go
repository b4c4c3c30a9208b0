package allocation

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	allocationerrors "adaptix-hrms/internal/allocation/errors"
	"adaptix-hrms/internal/events"
	"adaptix-hrms/internal/messaging/kafka"
	"adaptix-hrms/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service interface {
	GetAll(ctx context.Context, companyID, status string) ([]AllocationResponse, error)
	GetByID(ctx context.Context, companyID, id string) (AllocationResponse, error)
	BulkApprove(ctx context.Context, companyID, actorID string, ids []string) (BulkApproveResponse, error)
	Balance(ctx context.Context, companyID, employeeID, leaveTypeID string, year int) (BalanceResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	outbox kafka.OutboxRepository
	now    func() time.Time
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, outboxRepo kafka.OutboxRepository, logger ...*zap.Logger) Service {
	l := zap.L().Named("allocation.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("allocation.service")
	}
	return &service{
		db:     db,
		repo:   repo,
		outbox: outboxRepo,
		now:    func() time.Time { return time.Now().UTC() },
		logger: l,
	}
}

func (s *service) GetAll(ctx context.Context, companyID, status string) ([]AllocationResponse, error) {
	status = strings.ToUpper(strings.TrimSpace(status))
	if status != "" && !IsKnownStatus(status) {
		return nil, allocationerrors.ErrInvalidStatusFilter
	}

	rows, err := s.repo.FindAllByCompany(ctx, companyID, status)
	if err != nil {
		s.logger.Error("list allocations failed", zap.String("company_id", companyID), zap.Error(err))
		return nil, err
	}

	resp := make([]AllocationResponse, len(rows))
	for i, row := range rows {
		resp[i] = mapToResponse(row)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (AllocationResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return AllocationResponse{}, allocationerrors.ErrInvalidAllocationID
	}
	row, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AllocationResponse{}, allocationerrors.ErrAllocationNotFound
		}
		return AllocationResponse{}, err
	}
	return mapToResponse(*row), nil
}

// BulkApprove moves each DRAFT id to APPROVED independently and reports a result per id.
// Rows approved concurrently by someone else come back as already_processed.
// The id cap applies after duplicates are collapsed.
func (s *service) BulkApprove(ctx context.Context, companyID, actorID string, ids []string) (BulkApproveResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	if len(ids) == 0 {
		return BulkApproveResponse{}, allocationerrors.ErrEmptySelection
	}

	unique := dedupeIDs(ids)
	if len(unique) > MaxBulkApproveIDs {
		return BulkApproveResponse{}, allocationerrors.ErrTooManyIDs
	}

	approver, err := uuid.Parse(actorID)
	if err != nil {
		return BulkApproveResponse{}, allocationerrors.ErrInvalidActorID
	}

	s.logger.Debug("bulk approve requested",
		zap.String("request_id", rid),
		zap.String("company_id", companyID),
		zap.Int("requested", len(unique)),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("bulk approve begin tx failed", zap.Error(err))
		return BulkApproveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	now := s.now()

	resp := BulkApproveResponse{
		Requested: len(unique),
		Results:   make([]BulkApproveItem, 0, len(unique)),
	}
	approvedIDs := make([]string, 0, len(unique))

	for _, id := range unique {
		if _, err := uuid.Parse(id); err != nil {
			resp.Invalid++
			resp.Results = append(resp.Results, BulkApproveItem{ID: id, Result: ResultInvalidID})
			continue
		}

		ok, err := qtx.ApproveIfDraft(ctx, companyID, id, approver, now)
		if err != nil {
			s.logger.Error("bulk approve update failed", zap.String("allocation_id", id), zap.Error(err))
			return BulkApproveResponse{}, err
		}
		if ok {
			resp.Approved++
			approvedIDs = append(approvedIDs, id)
			resp.Results = append(resp.Results, BulkApproveItem{ID: id, Result: ResultApproved})
			continue
		}

		exists, err := qtx.ExistsInCompany(ctx, companyID, id)
		if err != nil {
			return BulkApproveResponse{}, err
		}
		if exists {
			resp.AlreadyProcessed++
			resp.Results = append(resp.Results, BulkApproveItem{ID: id, Result: ResultAlreadyProcessed})
		} else {
			resp.NotFound++
			resp.Results = append(resp.Results, BulkApproveItem{ID: id, Result: ResultNotFound})
		}
	}

	if len(approvedIDs) > 0 && s.outbox != nil {
		event := events.AllocationsApprovedEvent{
			EventType:     events.EventAllocationsApproved,
			RequestID:     rid,
			CompanyID:     companyID,
			ApprovedBy:    actorID,
			AllocationIDs: approvedIDs,
			OccurredAt:    now,
		}
		payload, err := json.Marshal(event)
		if err != nil {
			return BulkApproveResponse{}, err
		}
		if err := s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
			ID:            uuid.NewString(),
			RequestID:     rid,
			AggregateType: "leave_allocation",
			AggregateID:   companyID,
			EventType:     event.EventType,
			Topic:         events.LeaveEntitlementTopic,
			Payload:       payload,
			Status:        kafka.OutboxStatusPending,
		}); err != nil {
			s.logger.Error("bulk approve outbox persist failed", zap.Error(err))
			return BulkApproveResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("bulk approve commit failed", zap.Error(err))
		return BulkApproveResponse{}, err
	}

	s.logger.Info("bulk approve finished",
		zap.String("request_id", rid),
		zap.String("company_id", companyID),
		zap.Int("requested", resp.Requested),
		zap.Int("approved", resp.Approved),
		zap.Int("already_processed", resp.AlreadyProcessed),
		zap.Int("not_found", resp.NotFound),
		zap.Int("invalid", resp.Invalid),
	)
	return resp, nil
}

// Balance is the approved entitlement for the year. Drafts never count.
func (s *service) Balance(ctx context.Context, companyID, employeeID, leaveTypeID string, year int) (BalanceResponse, error) {
	if year < 1 {
		return BalanceResponse{}, allocationerrors.ErrInvalidYear
	}
	total, err := s.repo.SumApproved(ctx, companyID, employeeID, leaveTypeID, year)
	if err != nil {
		return BalanceResponse{}, err
	}
	return BalanceResponse{
		EmployeeID:  employeeID,
		LeaveTypeID: leaveTypeID,
		PeriodYear:  year,
		Allocated:   total,
	}, nil
}

// dedupeIDs collapses ids that name the same allocation. Parseable ids are
// kept in canonical form, so braced and urn:uuid: spellings count once.
func dedupeIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if parsed, err := uuid.Parse(id); err == nil {
			id = parsed.String()
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func mapToResponse(v AllocationView) AllocationResponse {
	resp := AllocationResponse{
		ID:             v.ID.String(),
		CompanyID:      v.CompanyID.String(),
		EmployeeID:     v.EmployeeID.String(),
		EmployeeName:   v.EmployeeName(),
		PolicyID:       v.PolicyID.String(),
		LeaveTypeID:    v.LeaveTypeID.String(),
		LeaveTypeName:  v.LeaveTypeName,
		PeriodYear:     v.PeriodYear,
		TotalAllocated: v.TotalAllocated,
		Status:         v.Status,
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
