package entitlement_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"adaptix-hrms/internal/allocation"
	allocationMock "adaptix-hrms/internal/allocation/mock"
	"adaptix-hrms/internal/employee"
	"adaptix-hrms/internal/entitlement"
	entitlementerrors "adaptix-hrms/internal/entitlement/errors"
	"adaptix-hrms/internal/events"
	"adaptix-hrms/internal/leavepolicy"
	"adaptix-hrms/internal/messaging/kafka"
	kafkaMock "adaptix-hrms/internal/messaging/kafka/mock"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

type fakePolicies struct {
	policies []leavepolicy.LeavePolicy
	err      error
}

func (f *fakePolicies) ListActive(ctx context.Context, companyID string) ([]leavepolicy.LeavePolicy, error) {
	return f.policies, f.err
}

type fakeEmployees struct {
	employees []employee.Employee
	err       error
}

func (f *fakeEmployees) ListEntitlementCandidates(ctx context.Context, companyID string) ([]employee.Employee, error) {
	return f.employees, f.err
}

type serviceDeps struct {
	db        *sql.DB
	sqlMock   sqlmock.Sqlmock
	redismock redismock.ClientMock
	repo      *allocationMock.MockRepository
	outbox    *kafkaMock.MockOutboxRepository
	policies  *fakePolicies
	employees *fakeEmployees
	service   entitlement.Service
}

func setupServiceTest(t *testing.T) *serviceDeps {
	ctrl := gomock.NewController(t)
	db, sqlMock, _ := sqlmock.New()
	rdb, redisMock := redismock.NewClientMock()

	deps := &serviceDeps{
		db:        db,
		sqlMock:   sqlMock,
		redismock: redisMock,
		repo:      allocationMock.NewMockRepository(ctrl),
		outbox:    kafkaMock.NewMockOutboxRepository(ctrl),
		policies:  &fakePolicies{},
		employees: &fakeEmployees{},
	}
	deps.service = entitlement.NewService(db, deps.policies, deps.employees, deps.repo, deps.outbox, rdb)
	return deps
}

// expectLock matches SETNX on the run lock key whatever run id is stored and
// returns that id once the command has run.
func expectLock(mock redismock.ClientMock, companyID string, acquired bool) *string {
	key := entitlement.GetRunLockKey(companyID)
	runID := new(string)
	mock.CustomMatch(func(expected, actual []interface{}) error {
		if actual[1] != key {
			return fmt.Errorf("unexpected lock key %v", actual[1])
		}
		*runID = fmt.Sprint(actual[2])
		return nil
	}).ExpectSetNX(key, "", 5*time.Minute).SetVal(acquired)
	return runID
}

// expectRelease matches the compare-and-delete of the lock owned by runID.
func expectRelease(mock redismock.ClientMock, companyID string, runID *string, released int64) {
	key := entitlement.GetRunLockKey(companyID)
	mock.CustomMatch(func(expected, actual []interface{}) error {
		if len(actual) != 5 {
			return fmt.Errorf("unexpected eval args %v", actual)
		}
		if actual[3] != key {
			return fmt.Errorf("unexpected lock key %v", actual[3])
		}
		if *runID == "" || actual[4] != *runID {
			return fmt.Errorf("release for run %v, lock held by %v", actual[4], *runID)
		}
		return nil
	}).ExpectEval("", []string{key}, "").SetVal(released)
}

func newEmployee(gender string, hired time.Time) employee.Employee {
	return employee.Employee{
		ID:        uuid.New(),
		FirstName: "E",
		Gender:    gender,
		HireDate:  hired,
		IsActive:  true,
	}
}

func newPolicy(gender string, days, tenure int) leavepolicy.LeavePolicy {
	return leavepolicy.LeavePolicy{
		ID:                   uuid.New(),
		LeaveTypeID:          uuid.New(),
		AllocationDays:       days,
		TenureMonthsRequired: tenure,
		GenderRequirement:    gender,
		IsActive:             true,
	}
}

func TestEntitlementService_Run(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.NewString()
	actorID := uuid.NewString()
	year := time.Now().UTC().Year()
	veteran := time.Date(2015, 1, 10, 0, 0, 0, 0, time.UTC)
	newHire := time.Now().UTC().AddDate(0, -1, 0)

	t.Run("creates drafts for eligible pairs only", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		annual := newPolicy(leavepolicy.GenderAll, 12, 12)
		maternity := newPolicy(leavepolicy.GenderFemale, 90, 0)
		deps.policies.policies = []leavepolicy.LeavePolicy{annual, maternity}

		ani := newEmployee(employee.GenderFemale, veteran)
		budi := newEmployee(employee.GenderMale, veteran)
		citra := newEmployee(employee.GenderFemale, newHire)
		deps.employees.employees = []employee.Employee{ani, budi, citra}

		runID := expectLock(deps.redismock, companyID, true)
		deps.sqlMock.ExpectBegin()
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)

		var created []*allocation.LeaveAllocation
		deps.repo.EXPECT().
			CreateDraftIfAbsent(ctx, gomock.Any()).
			DoAndReturn(func(ctx context.Context, a *allocation.LeaveAllocation) (bool, error) {
				created = append(created, a)
				return true, nil
			}).
			Times(4)

		deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox)
		deps.outbox.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, ev kafka.OutboxEvent) error {
				assert.Equal(t, events.LeaveEntitlementTopic, ev.Topic)
				var payload events.EntitlementRunCompletedEvent
				assert.NoError(t, json.Unmarshal(ev.Payload, &payload))
				assert.Equal(t, 4, payload.AllocationsCreated)
				assert.Equal(t, actorID, payload.TriggeredBy)
				return nil
			})
		deps.sqlMock.ExpectCommit()
		expectRelease(deps.redismock, companyID, runID, 1)

		resp, err := deps.service.Run(ctx, companyID, actorID, 0)

		assert.NoError(t, err)
		assert.Equal(t, 4, resp.AllocationsCreated)
		assert.Equal(t, 2, resp.PoliciesEvaluated)
		assert.Equal(t, 3, resp.EmployeesEvaluated)
		assert.Equal(t, year, resp.PeriodYear)

		for _, a := range created {
			assert.Equal(t, allocation.StatusDraft, a.Status)
			assert.Equal(t, companyID, a.CompanyID.String())
			assert.Equal(t, year, a.PeriodYear)
			assert.NotEqual(t, budi.ID, a.EmployeeID, "male employee must not get a female-only policy")
			if a.PolicyID == annual.ID {
				assert.NotEqual(t, citra.ID, a.EmployeeID)
				assert.Equal(t, 12, a.TotalAllocated)
			}
		}
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
		assert.NoError(t, deps.redismock.ExpectationsWereMet())
	})

	t.Run("repeated run creates nothing new", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deps.policies.policies = []leavepolicy.LeavePolicy{newPolicy(leavepolicy.GenderAll, 12, 0)}
		deps.employees.employees = []employee.Employee{newEmployee(employee.GenderMale, veteran)}

		runID := expectLock(deps.redismock, companyID, true)
		deps.sqlMock.ExpectBegin()
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().CreateDraftIfAbsent(ctx, gomock.Any()).Return(false, nil)
		deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox)
		deps.outbox.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
		deps.sqlMock.ExpectCommit()
		expectRelease(deps.redismock, companyID, runID, 1)

		resp, err := deps.service.Run(ctx, companyID, actorID, year)

		assert.NoError(t, err)
		assert.Equal(t, 0, resp.AllocationsCreated)
	})

	t.Run("concurrent run is rejected", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectLock(deps.redismock, companyID, false)

		_, err := deps.service.Run(ctx, companyID, actorID, 0)

		assert.ErrorIs(t, err, entitlementerrors.ErrRunInProgress)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("insert error aborts the whole run", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deps.policies.policies = []leavepolicy.LeavePolicy{newPolicy(leavepolicy.GenderAll, 12, 0)}
		deps.employees.employees = []employee.Employee{
			newEmployee(employee.GenderMale, veteran),
			newEmployee(employee.GenderFemale, veteran),
		}
		dbErr := errors.New("deadlock detected")

		runID := expectLock(deps.redismock, companyID, true)
		deps.sqlMock.ExpectBegin()
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		gomock.InOrder(
			deps.repo.EXPECT().CreateDraftIfAbsent(ctx, gomock.Any()).Return(true, nil),
			deps.repo.EXPECT().CreateDraftIfAbsent(ctx, gomock.Any()).Return(false, dbErr),
		)
		deps.sqlMock.ExpectRollback()
		expectRelease(deps.redismock, companyID, runID, 1)

		resp, err := deps.service.Run(ctx, companyID, actorID, 0)

		assert.ErrorIs(t, err, dbErr)
		assert.Equal(t, entitlement.RunResponse{}, resp)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
		assert.NoError(t, deps.redismock.ExpectationsWereMet())
	})

	t.Run("policy load error releases the lock", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deps.policies.err = errors.New("db down")
		runID := expectLock(deps.redismock, companyID, true)
		expectRelease(deps.redismock, companyID, runID, 1)

		_, err := deps.service.Run(ctx, companyID, actorID, 0)

		assert.Error(t, err)
		assert.NoError(t, deps.redismock.ExpectationsWereMet())
	})

	t.Run("expired lock held by another run is not deleted", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deps.policies.err = errors.New("db down")
		runID := expectLock(deps.redismock, companyID, true)
		expectRelease(deps.redismock, companyID, runID, 0)

		_, err := deps.service.Run(ctx, companyID, actorID, 0)

		assert.Error(t, err)
		assert.NoError(t, deps.redismock.ExpectationsWereMet())
	})

	t.Run("invalid company", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Run(ctx, "", actorID, 0)

		assert.ErrorIs(t, err, entitlementerrors.ErrInvalidCompanyID)
	})

	t.Run("year out of range", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Run(ctx, companyID, actorID, year+5)

		assert.ErrorIs(t, err, entitlementerrors.ErrInvalidPeriodYear)
	})
}
