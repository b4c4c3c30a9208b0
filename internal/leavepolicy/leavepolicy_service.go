package leavepolicy

import (
	"context"
	"database/sql"
	"errors"
	"time"

	leavepolicyerrors "adaptix-hrms/internal/leavepolicy/errors"
	"adaptix-hrms/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=leavepolicy_service.go -destination=mock/leavepolicy_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID, actorID string, cmd CreatePolicyCommand) (PolicyResponse, error)
	GetAll(ctx context.Context, companyID string) ([]PolicyResponse, error)
	GetByID(ctx context.Context, companyID, id string) (PolicyResponse, error)
	Deactivate(ctx context.Context, companyID, id string) (PolicyResponse, error)
	ListActive(ctx context.Context, companyID string) ([]LeavePolicy, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("leavepolicy.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leavepolicy.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

func (s *service) Create(ctx context.Context, companyID, actorID string, cmd CreatePolicyCommand) (PolicyResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return PolicyResponse{}, leavepolicyerrors.ErrInvalidCompanyID
	}
	leaveTypeUUID, err := uuid.Parse(cmd.LeaveTypeID)
	if err != nil {
		return PolicyResponse{}, leavepolicyerrors.ErrLeaveTypeNotInCompany
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PolicyResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	ok, err := qtx.LeaveTypeBelongsToCompany(ctx, companyID, cmd.LeaveTypeID)
	if err != nil {
		return PolicyResponse{}, err
	}
	if !ok {
		return PolicyResponse{}, leavepolicyerrors.ErrLeaveTypeNotInCompany
	}

	policy := &LeavePolicy{
		ID:                   uuid.New(),
		CompanyID:            companyUUID,
		Name:                 cmd.Name,
		LeaveTypeID:          leaveTypeUUID,
		AllocationDays:       cmd.AllocationDays,
		TenureMonthsRequired: cmd.TenureMonthsRequired,
		GenderRequirement:    cmd.GenderRequirement,
		IsActive:             true,
		CreatedBy:            uuidPtr(actorID),
	}

	if err := qtx.Create(ctx, policy); err != nil {
		s.logger.Error("create leave policy persist failed", zap.Error(err))
		return PolicyResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return PolicyResponse{}, err
	}

	s.logger.Info("leave policy created",
		zap.String("request_id", contextutil.GetRequestID(ctx)),
		zap.String("policy_id", policy.ID.String()),
		zap.Int("allocation_days", policy.AllocationDays),
		zap.String("gender_requirement", policy.GenderRequirement),
	)
	return mapToResponse(PolicyView{LeavePolicy: *policy}), nil
}

func (s *service) GetAll(ctx context.Context, companyID string) ([]PolicyResponse, error) {
	rows, err := s.repo.FindAllByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	resp := make([]PolicyResponse, len(rows))
	for i, row := range rows {
		resp[i] = mapToResponse(row)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (PolicyResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return PolicyResponse{}, leavepolicyerrors.ErrInvalidPolicyID
	}
	row, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return PolicyResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*row), nil
}

func (s *service) Deactivate(ctx context.Context, companyID, id string) (PolicyResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return PolicyResponse{}, leavepolicyerrors.ErrInvalidPolicyID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PolicyResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	affected, err := qtx.Deactivate(ctx, companyID, id)
	if err != nil {
		return PolicyResponse{}, err
	}
	if affected == 0 {
		// Either missing or already inactive; tell them apart for the caller.
		if _, err := qtx.FindByIDAndCompany(ctx, companyID, id); err != nil {
			return PolicyResponse{}, mapRepositoryError(err)
		}
		return PolicyResponse{}, leavepolicyerrors.ErrPolicyAlreadyInactive
	}

	row, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return PolicyResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return PolicyResponse{}, err
	}

	s.logger.Info("leave policy deactivated", zap.String("policy_id", id))
	return mapToResponse(*row), nil
}

func (s *service) ListActive(ctx context.Context, companyID string) ([]LeavePolicy, error) {
	return s.repo.FindActiveByCompany(ctx, companyID)
}

func mapRepositoryError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return leavepolicyerrors.ErrPolicyNotFound
	}
	return err
}

func mapToResponse(v PolicyView) PolicyResponse {
	resp := PolicyResponse{
		ID:                   v.ID.String(),
		CompanyID:            v.CompanyID.String(),
		Name:                 v.Name,
		LeaveType:            v.LeaveTypeID.String(),
		LeaveTypeName:        v.LeaveTypeName,
		AllocationDays:       v.AllocationDays,
		TenureMonthsRequired: v.TenureMonthsRequired,
		GenderRequirement:    v.GenderRequirement,
		IsActive:             v.IsActive,
	}
	if !v.CreatedAt.IsZero() {
		resp.CreatedAt = v.CreatedAt.UTC().Format(time.RFC3339)
	}
	return resp
}

func uuidPtr(v string) *uuid.UUID {
	id, err := uuid.Parse(v)
	if err != nil {
		return nil
	}
	return &id
}
