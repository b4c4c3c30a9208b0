package entitlement

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"adaptix-hrms/internal/allocation"
	"adaptix-hrms/internal/employee"
	entitlementerrors "adaptix-hrms/internal/entitlement/errors"
	"adaptix-hrms/internal/events"
	"adaptix-hrms/internal/leavepolicy"
	"adaptix-hrms/internal/messaging/kafka"
	"adaptix-hrms/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	RunLockKeyPrefix = "entitlement:run:"
	runLockTTL       = 5 * time.Minute

	// SystemActor marks runs started by the lifecycle consumer rather than a person.
	SystemActor = "system"
)

// releaseLockScript deletes the lock only while it still holds this run's id,
// so a run that outlived the TTL cannot drop a newer run's lock.
const releaseLockScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`

func GetRunLockKey(companyID string) string {
	return RunLockKeyPrefix + companyID
}

type PolicyLister interface {
	ListActive(ctx context.Context, companyID string) ([]leavepolicy.LeavePolicy, error)
}

type EmployeeLister interface {
	ListEntitlementCandidates(ctx context.Context, companyID string) ([]employee.Employee, error)
}

type Service interface {
	// Run creates one DRAFT allocation per eligible (employee, active policy) pair
	// for periodYear. A zero periodYear means the current year.
	Run(ctx context.Context, companyID, actorID string, periodYear int) (RunResponse, error)
}

type service struct {
	db          *sql.DB
	policies    PolicyLister
	employees   EmployeeLister
	allocations allocation.Repository
	outbox      kafka.OutboxRepository
	rdb         *redis.Client
	now         func() time.Time
	logger      *zap.Logger
}

func NewService(
	db *sql.DB,
	policies PolicyLister,
	employees EmployeeLister,
	allocations allocation.Repository,
	outboxRepo kafka.OutboxRepository,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("entitlement.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("entitlement.service")
	}
	return &service{
		db:          db,
		policies:    policies,
		employees:   employees,
		allocations: allocations,
		outbox:      outboxRepo,
		rdb:         rdb,
		now:         func() time.Time { return time.Now().UTC() },
		logger:      l,
	}
}

func (s *service) Run(ctx context.Context, companyID, actorID string, periodYear int) (RunResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return RunResponse{}, entitlementerrors.ErrInvalidCompanyID
	}

	now := s.now()
	if periodYear == 0 {
		periodYear = now.Year()
	}
	if periodYear < now.Year()-1 || periodYear > now.Year()+1 {
		return RunResponse{}, entitlementerrors.ErrInvalidPeriodYear
	}
	asOf := eligibilityDate(now, periodYear)

	runID := uuid.NewString()
	release, err := s.acquireLock(ctx, companyID, runID)
	if err != nil {
		return RunResponse{}, err
	}
	defer release()

	log := s.logger.With(
		zap.String("request_id", rid),
		zap.String("run_id", runID),
		zap.String("company_id", companyID),
		zap.Int("period_year", periodYear),
	)
	log.Info("entitlement run started", zap.String("triggered_by", actorID))

	policies, err := s.policies.ListActive(ctx, companyID)
	if err != nil {
		log.Error("load active policies failed", zap.Error(err))
		return RunResponse{}, err
	}
	candidates, err := s.employees.ListEntitlementCandidates(ctx, companyID)
	if err != nil {
		log.Error("load candidates failed", zap.Error(err))
		return RunResponse{}, err
	}

	resp := RunResponse{
		RunID:              runID,
		PoliciesEvaluated:  len(policies),
		EmployeesEvaluated: len(candidates),
		PeriodYear:         periodYear,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("begin tx failed", zap.Error(err))
		return RunResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.allocations.WithTx(tx)

	for _, p := range policies {
		for _, e := range candidates {
			if !p.IsEligible(e, asOf) {
				continue
			}

			created, err := qtx.CreateDraftIfAbsent(ctx, &allocation.LeaveAllocation{
				ID:             uuid.New(),
				CompanyID:      companyUUID,
				EmployeeID:     e.ID,
				PolicyID:       p.ID,
				LeaveTypeID:    p.LeaveTypeID,
				PeriodYear:     periodYear,
				TotalAllocated: p.AllocationDays,
				Status:         allocation.StatusDraft,
			})
			if err != nil {
				log.Error("create draft failed",
					zap.String("policy_id", p.ID.String()),
					zap.String("employee_id", e.ID.String()),
					zap.Error(err),
				)
				return RunResponse{}, err
			}
			if created {
				resp.AllocationsCreated++
			}
		}
	}

	if s.outbox != nil {
		event := events.EntitlementRunCompletedEvent{
			EventType:          events.EventEntitlementRunCompleted,
			RequestID:          rid,
			RunID:              runID,
			CompanyID:          companyID,
			TriggeredBy:        actorID,
			PeriodYear:         periodYear,
			AllocationsCreated: resp.AllocationsCreated,
			OccurredAt:         now,
		}
		payload, err := json.Marshal(event)
		if err != nil {
			return RunResponse{}, err
		}
		if err := s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
			ID:            uuid.NewString(),
			RequestID:     rid,
			AggregateType: "entitlement_run",
			AggregateID:   runID,
			EventType:     event.EventType,
			Topic:         events.LeaveEntitlementTopic,
			Payload:       payload,
			Status:        kafka.OutboxStatusPending,
		}); err != nil {
			log.Error("persist outbox event failed", zap.Error(err))
			return RunResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		log.Error("commit failed", zap.Error(err))
		return RunResponse{}, err
	}

	log.Info("entitlement run finished",
		zap.Int("allocations_created", resp.AllocationsCreated),
		zap.Int("policies_evaluated", resp.PoliciesEvaluated),
		zap.Int("employees_evaluated", resp.EmployeesEvaluated),
	)
	return resp, nil
}

func (s *service) acquireLock(ctx context.Context, companyID, runID string) (func(), error) {
	if s.rdb == nil {
		return func() {}, nil
	}

	key := GetRunLockKey(companyID)
	ok, err := s.rdb.SetNX(ctx, key, runID, runLockTTL).Result()
	if err != nil {
		s.logger.Error("acquire run lock failed", zap.String("company_id", companyID), zap.Error(err))
		return nil, err
	}
	if !ok {
		return nil, entitlementerrors.ErrRunInProgress
	}

	return func() {
		released, err := s.rdb.Eval(context.WithoutCancel(ctx), releaseLockScript, []string{key}, runID).Int()
		if err != nil {
			s.logger.Warn("release run lock failed", zap.String("company_id", companyID), zap.Error(err))
			return
		}
		if released == 0 {
			s.logger.Warn("run lock expired before release",
				zap.String("company_id", companyID),
				zap.String("run_id", runID),
			)
		}
	}, nil
}

// eligibilityDate is the day tenure is measured against: today for the current
// year, the last day of a past year, the first day of next year.
func eligibilityDate(now time.Time, periodYear int) time.Time {
	switch {
	case periodYear < now.Year():
		return time.Date(periodYear, time.December, 31, 0, 0, 0, 0, time.UTC)
	case periodYear > now.Year():
		return time.Date(periodYear, time.January, 1, 0, 0, 0, 0, time.UTC)
	default:
		return now
	}
}
