package leavepolicy_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"adaptix-hrms/internal/leavepolicy"
	leavepolicyerrors "adaptix-hrms/internal/leavepolicy/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakePolicyRepo struct {
	createFn      func(ctx context.Context, p *leavepolicy.LeavePolicy) error
	findAllFn     func(ctx context.Context, companyID string) ([]leavepolicy.PolicyView, error)
	findByIDFn    func(ctx context.Context, companyID, id string) (*leavepolicy.PolicyView, error)
	findActiveFn  func(ctx context.Context, companyID string) ([]leavepolicy.LeavePolicy, error)
	deactivateFn  func(ctx context.Context, companyID, id string) (int64, error)
	leaveTypeInFn func(ctx context.Context, companyID, leaveTypeID string) (bool, error)
}

func (f *fakePolicyRepo) WithTx(tx *sql.Tx) leavepolicy.Repository { return f }
func (f *fakePolicyRepo) Create(ctx context.Context, p *leavepolicy.LeavePolicy) error {
	return f.createFn(ctx, p)
}
func (f *fakePolicyRepo) FindAllByCompany(ctx context.Context, companyID string) ([]leavepolicy.PolicyView, error) {
	return f.findAllFn(ctx, companyID)
}
func (f *fakePolicyRepo) FindByIDAndCompany(ctx context.Context, companyID, id string) (*leavepolicy.PolicyView, error) {
	return f.findByIDFn(ctx, companyID, id)
}
func (f *fakePolicyRepo) FindActiveByCompany(ctx context.Context, companyID string) ([]leavepolicy.LeavePolicy, error) {
	return f.findActiveFn(ctx, companyID)
}
func (f *fakePolicyRepo) Deactivate(ctx context.Context, companyID, id string) (int64, error) {
	return f.deactivateFn(ctx, companyID, id)
}
func (f *fakePolicyRepo) LeaveTypeBelongsToCompany(ctx context.Context, companyID, leaveTypeID string) (bool, error) {
	return f.leaveTypeInFn(ctx, companyID, leaveTypeID)
}

func setupPolicyService(t *testing.T, repo *fakePolicyRepo) (leavepolicy.Service, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	return leavepolicy.NewService(db, repo), mock, func() { db.Close() }
}

func TestLeavePolicyService_Create(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.NewString()
	actorID := uuid.NewString()
	cmd := leavepolicy.CreatePolicyCommand{
		Name:                 "Annual",
		LeaveTypeID:          uuid.NewString(),
		AllocationDays:       12,
		TenureMonthsRequired: 3,
		GenderRequirement:    leavepolicy.GenderAll,
	}

	t.Run("success", func(t *testing.T) {
		repo := &fakePolicyRepo{
			leaveTypeInFn: func(ctx context.Context, cid, ltID string) (bool, error) {
				assert.Equal(t, companyID, cid)
				assert.Equal(t, cmd.LeaveTypeID, ltID)
				return true, nil
			},
			createFn: func(ctx context.Context, p *leavepolicy.LeavePolicy) error {
				assert.True(t, p.IsActive)
				assert.Equal(t, 12, p.AllocationDays)
				assert.Equal(t, actorID, p.CreatedBy.String())
				return nil
			},
		}
		svc, mock, done := setupPolicyService(t, repo)
		defer done()
		mock.ExpectBegin()
		mock.ExpectCommit()

		resp, err := svc.Create(ctx, companyID, actorID, cmd)

		assert.NoError(t, err)
		assert.Equal(t, cmd.LeaveTypeID, resp.LeaveType)
		assert.Equal(t, companyID, resp.CompanyID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("leave type from another tenant", func(t *testing.T) {
		repo := &fakePolicyRepo{
			leaveTypeInFn: func(ctx context.Context, cid, ltID string) (bool, error) { return false, nil },
		}
		svc, mock, done := setupPolicyService(t, repo)
		defer done()
		mock.ExpectBegin()
		mock.ExpectRollback()

		_, err := svc.Create(ctx, companyID, actorID, cmd)

		assert.ErrorIs(t, err, leavepolicyerrors.ErrLeaveTypeNotInCompany)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("invalid company", func(t *testing.T) {
		svc, _, done := setupPolicyService(t, &fakePolicyRepo{})
		defer done()

		_, err := svc.Create(ctx, "", actorID, cmd)

		assert.ErrorIs(t, err, leavepolicyerrors.ErrInvalidCompanyID)
	})
}

func TestLeavePolicyService_Deactivate(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.NewString()
	id := uuid.New()

	t.Run("success", func(t *testing.T) {
		repo := &fakePolicyRepo{
			deactivateFn: func(ctx context.Context, cid, pid string) (int64, error) { return 1, nil },
			findByIDFn: func(ctx context.Context, cid, pid string) (*leavepolicy.PolicyView, error) {
				return &leavepolicy.PolicyView{LeavePolicy: leavepolicy.LeavePolicy{ID: id, IsActive: false}}, nil
			},
		}
		svc, mock, done := setupPolicyService(t, repo)
		defer done()
		mock.ExpectBegin()
		mock.ExpectCommit()

		resp, err := svc.Deactivate(ctx, companyID, id.String())

		assert.NoError(t, err)
		assert.False(t, resp.IsActive)
	})

	t.Run("already inactive", func(t *testing.T) {
		repo := &fakePolicyRepo{
			deactivateFn: func(ctx context.Context, cid, pid string) (int64, error) { return 0, nil },
			findByIDFn: func(ctx context.Context, cid, pid string) (*leavepolicy.PolicyView, error) {
				return &leavepolicy.PolicyView{LeavePolicy: leavepolicy.LeavePolicy{ID: id}}, nil
			},
		}
		svc, mock, done := setupPolicyService(t, repo)
		defer done()
		mock.ExpectBegin()
		mock.ExpectRollback()

		_, err := svc.Deactivate(ctx, companyID, id.String())

		assert.ErrorIs(t, err, leavepolicyerrors.ErrPolicyAlreadyInactive)
	})

	t.Run("not found", func(t *testing.T) {
		repo := &fakePolicyRepo{
			deactivateFn: func(ctx context.Context, cid, pid string) (int64, error) { return 0, nil },
			findByIDFn: func(ctx context.Context, cid, pid string) (*leavepolicy.PolicyView, error) {
				return nil, gorm.ErrRecordNotFound
			},
		}
		svc, mock, done := setupPolicyService(t, repo)
		defer done()
		mock.ExpectBegin()
		mock.ExpectRollback()

		_, err := svc.Deactivate(ctx, companyID, id.String())

		assert.ErrorIs(t, err, leavepolicyerrors.ErrPolicyNotFound)
	})

	t.Run("invalid id", func(t *testing.T) {
		svc, _, done := setupPolicyService(t, &fakePolicyRepo{})
		defer done()

		_, err := svc.Deactivate(ctx, companyID, "nope")

		assert.ErrorIs(t, err, leavepolicyerrors.ErrInvalidPolicyID)
	})
}

func TestLeavePolicyService_GetAll(t *testing.T) {
	repo := &fakePolicyRepo{
		findAllFn: func(ctx context.Context, cid string) ([]leavepolicy.PolicyView, error) {
			return []leavepolicy.PolicyView{{
				LeavePolicy:   leavepolicy.LeavePolicy{ID: uuid.New(), Name: "Annual", IsActive: true},
				LeaveTypeName: "Annual Leave",
			}}, nil
		},
	}
	svc, _, done := setupPolicyService(t, repo)
	defer done()

	resp, err := svc.GetAll(context.Background(), uuid.NewString())

	assert.NoError(t, err)
	assert.Equal(t, "Annual Leave", resp[0].LeaveTypeName)

	repo.findAllFn = func(ctx context.Context, cid string) ([]leavepolicy.PolicyView, error) {
		return nil, errors.New("db down")
	}
	_, err = svc.GetAll(context.Background(), uuid.NewString())
	assert.Error(t, err)
}
