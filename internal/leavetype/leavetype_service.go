package leavetype

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	leavetypeerrors "adaptix-hrms/internal/leavetype/errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	leaveTypesKeyPrefix = "leave_types:all:"
	leaveTypesTTL       = 1 * time.Hour
)

func GetLeaveTypesKey(companyID string) string {
	return leaveTypesKeyPrefix + companyID
}

//go:generate mockgen -source=leavetype_service.go -destination=mock/leavetype_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID string, req CreateLeaveTypeRequest) (LeaveTypeResponse, error)
	GetAll(ctx context.Context, companyID string) ([]LeaveTypeResponse, error)
	GetByID(ctx context.Context, companyID, id string) (LeaveTypeResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	rdb    *redis.Client
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("leavetype.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leavetype.service")
	}
	return &service{db: db, repo: repo, rdb: rdb, logger: l}
}

func (s *service) Create(ctx context.Context, companyID string, req CreateLeaveTypeRequest) (LeaveTypeResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return LeaveTypeResponse{}, leavetypeerrors.ErrInvalidCompanyID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return LeaveTypeResponse{}, err
	}
	defer tx.Rollback()

	tracks := true
	if req.TracksBalance != nil {
		tracks = *req.TracksBalance
	}

	lt := &LeaveType{
		ID:            uuid.New(),
		CompanyID:     companyUUID,
		Name:          strings.TrimSpace(req.Name),
		Code:          strings.ToUpper(strings.TrimSpace(req.Code)),
		TracksBalance: tracks,
	}

	if err := s.repo.WithTx(tx).Create(ctx, lt); err != nil {
		s.logger.Warn("create leave type failed", zap.String("code", lt.Code), zap.Error(err))
		return LeaveTypeResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return LeaveTypeResponse{}, err
	}

	if s.rdb != nil {
		if err := s.rdb.Del(ctx, GetLeaveTypesKey(companyID)).Err(); err != nil {
			s.logger.Error("failed to invalidate leave types cache", zap.Error(err))
		}
	}

	s.logger.Info("leave type created", zap.String("leave_type_id", lt.ID.String()), zap.String("code", lt.Code))
	return mapToResponse(*lt), nil
}

func (s *service) GetAll(ctx context.Context, companyID string) ([]LeaveTypeResponse, error) {
	cacheKey := GetLeaveTypesKey(companyID)
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var resp []LeaveTypeResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	types, err := s.repo.FindAllByCompany(ctx, companyID)
	if err != nil {
		s.logger.Error("get leave types failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}

	resp := make([]LeaveTypeResponse, len(types))
	for i, lt := range types {
		resp[i] = mapToResponse(lt)
	}

	if s.rdb != nil {
		if data, err := json.Marshal(resp); err == nil {
			s.rdb.Set(ctx, cacheKey, data, leaveTypesTTL)
		}
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (LeaveTypeResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return LeaveTypeResponse{}, leavetypeerrors.ErrInvalidLeaveTypeID
	}
	lt, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return LeaveTypeResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*lt), nil
}

func mapToResponse(lt LeaveType) LeaveTypeResponse {
	return LeaveTypeResponse{
		ID:            lt.ID.String(),
		CompanyID:     lt.CompanyID.String(),
		Name:          lt.Name,
		Code:          lt.Code,
		TracksBalance: lt.TracksBalance,
	}
}
