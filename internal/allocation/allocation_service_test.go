package allocation_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"adaptix-hrms/internal/allocation"
	allocationerrors "adaptix-hrms/internal/allocation/errors"
	allocationMock "adaptix-hrms/internal/allocation/mock"
	"adaptix-hrms/internal/events"
	"adaptix-hrms/internal/messaging/kafka"
	kafkaMock "adaptix-hrms/internal/messaging/kafka/mock"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

type serviceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	service allocation.Service
	repo    *allocationMock.MockRepository
	outbox  *kafkaMock.MockOutboxRepository
}

func setupServiceTest(t *testing.T) *serviceDeps {
	ctrl := gomock.NewController(t)
	db, sqlMock, _ := sqlmock.New()
	repo := allocationMock.NewMockRepository(ctrl)
	outboxRepo := kafkaMock.NewMockOutboxRepository(ctrl)

	return &serviceDeps{
		db:      db,
		sqlMock: sqlMock,
		service: allocation.NewService(db, repo, outboxRepo),
		repo:    repo,
		outbox:  outboxRepo,
	}
}

func TestAllocationService_BulkApprove(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	actorID := uuid.New().String()

	t.Run("approves drafts and reports per id results", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		draft := uuid.New().String()
		approved := uuid.New().String()
		foreign := uuid.New().String()

		deps.sqlMock.ExpectBegin()
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)

		deps.repo.EXPECT().ApproveIfDraft(ctx, companyID, draft, uuid.MustParse(actorID), gomock.Any()).Return(true, nil)
		deps.repo.EXPECT().ApproveIfDraft(ctx, companyID, approved, uuid.MustParse(actorID), gomock.Any()).Return(false, nil)
		deps.repo.EXPECT().ExistsInCompany(ctx, companyID, approved).Return(true, nil)
		deps.repo.EXPECT().ApproveIfDraft(ctx, companyID, foreign, uuid.MustParse(actorID), gomock.Any()).Return(false, nil)
		deps.repo.EXPECT().ExistsInCompany(ctx, companyID, foreign).Return(false, nil)

		deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox)
		deps.outbox.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, ev kafka.OutboxEvent) error {
				assert.Equal(t, events.LeaveEntitlementTopic, ev.Topic)
				assert.Equal(t, events.EventAllocationsApproved, ev.EventType)

				var payload events.AllocationsApprovedEvent
				assert.NoError(t, json.Unmarshal(ev.Payload, &payload))
				assert.Equal(t, []string{draft}, payload.AllocationIDs)
				assert.Equal(t, actorID, payload.ApprovedBy)
				return nil
			})
		deps.sqlMock.ExpectCommit()

		resp, err := deps.service.BulkApprove(ctx, companyID, actorID, []string{draft, approved, "not-a-uuid", foreign, draft})

		assert.NoError(t, err)
		assert.Equal(t, 4, resp.Requested)
		assert.Equal(t, 1, resp.Approved)
		assert.Equal(t, 1, resp.AlreadyProcessed)
		assert.Equal(t, 1, resp.NotFound)
		assert.Equal(t, 1, resp.Invalid)
		assert.Equal(t, []allocation.BulkApproveItem{
			{ID: draft, Result: allocation.ResultApproved},
			{ID: approved, Result: allocation.ResultAlreadyProcessed},
			{ID: "not-a-uuid", Result: allocation.ResultInvalidID},
			{ID: foreign, Result: allocation.ResultNotFound},
		}, resp.Results)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("nothing approved writes no event", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		id := uuid.New().String()

		deps.sqlMock.ExpectBegin()
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().ApproveIfDraft(ctx, companyID, id, gomock.Any(), gomock.Any()).Return(false, nil)
		deps.repo.EXPECT().ExistsInCompany(ctx, companyID, id).Return(true, nil)
		deps.sqlMock.ExpectCommit()

		resp, err := deps.service.BulkApprove(ctx, companyID, actorID, []string{id})

		assert.NoError(t, err)
		assert.Equal(t, 0, resp.Approved)
		assert.Equal(t, 1, resp.AlreadyProcessed)
	})

	t.Run("empty selection never opens a transaction", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.BulkApprove(ctx, companyID, actorID, nil)

		assert.ErrorIs(t, err, allocationerrors.ErrEmptySelection)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("too many ids", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		ids := make([]string, allocation.MaxBulkApproveIDs+1)
		for i := range ids {
			ids[i] = fmt.Sprintf("id-%d", i)
		}

		_, err := deps.service.BulkApprove(ctx, companyID, actorID, ids)

		assert.ErrorIs(t, err, allocationerrors.ErrTooManyIDs)
	})

	t.Run("cap counts ids after duplicates collapse", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		ids := make([]string, 0, allocation.MaxBulkApproveIDs+1)
		for i := 0; i < allocation.MaxBulkApproveIDs-1; i++ {
			ids = append(ids, fmt.Sprintf("id-%d", i))
		}
		id := uuid.New().String()
		ids = append(ids, id, id)
		assert.Greater(t, len(ids), allocation.MaxBulkApproveIDs)

		deps.sqlMock.ExpectBegin()
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().ApproveIfDraft(ctx, companyID, id, gomock.Any(), gomock.Any()).Return(false, nil)
		deps.repo.EXPECT().ExistsInCompany(ctx, companyID, id).Return(true, nil)
		deps.sqlMock.ExpectCommit()

		resp, err := deps.service.BulkApprove(ctx, companyID, actorID, ids)

		assert.NoError(t, err)
		assert.Equal(t, allocation.MaxBulkApproveIDs, resp.Requested)
		assert.Equal(t, allocation.MaxBulkApproveIDs-1, resp.Invalid)
		assert.Equal(t, 1, resp.AlreadyProcessed)
	})

	t.Run("alternate uuid spellings are canonicalised", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		id := uuid.New()
		canonical := id.String()

		deps.sqlMock.ExpectBegin()
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().ApproveIfDraft(ctx, companyID, canonical, gomock.Any(), gomock.Any()).Return(true, nil)
		deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox)
		deps.outbox.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, ev kafka.OutboxEvent) error {
				var payload events.AllocationsApprovedEvent
				assert.NoError(t, json.Unmarshal(ev.Payload, &payload))
				assert.Equal(t, []string{canonical}, payload.AllocationIDs)
				return nil
			})
		deps.sqlMock.ExpectCommit()

		resp, err := deps.service.BulkApprove(ctx, companyID, actorID, []string{
			"urn:uuid:" + canonical,
			"{" + canonical + "}",
			strings.ToUpper(canonical),
		})

		assert.NoError(t, err)
		assert.Equal(t, 1, resp.Requested)
		assert.Equal(t, 1, resp.Approved)
		assert.Equal(t, []allocation.BulkApproveItem{
			{ID: canonical, Result: allocation.ResultApproved},
		}, resp.Results)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("invalid actor", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.BulkApprove(ctx, companyID, "", []string{uuid.New().String()})

		assert.ErrorIs(t, err, allocationerrors.ErrInvalidActorID)
	})

	t.Run("update error rolls back", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		id := uuid.New().String()
		dbErr := errors.New("connection reset")

		deps.sqlMock.ExpectBegin()
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().ApproveIfDraft(ctx, companyID, id, gomock.Any(), gomock.Any()).Return(false, dbErr)
		deps.sqlMock.ExpectRollback()

		_, err := deps.service.BulkApprove(ctx, companyID, actorID, []string{id})

		assert.ErrorIs(t, err, dbErr)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("outbox error rolls back", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		id := uuid.New().String()

		deps.sqlMock.ExpectBegin()
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().ApproveIfDraft(ctx, companyID, id, gomock.Any(), gomock.Any()).Return(true, nil)
		deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox)
		deps.outbox.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("outbox down"))
		deps.sqlMock.ExpectRollback()

		_, err := deps.service.BulkApprove(ctx, companyID, actorID, []string{id})

		assert.Error(t, err)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestAllocationService_GetAll(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()

	t.Run("status filter is normalised", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		approver := uuid.New()
		at := time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)
		rows := []allocation.AllocationView{
			{
				LeaveAllocation: allocation.LeaveAllocation{
					ID:             uuid.New(),
					PeriodYear:     2026,
					TotalAllocated: 12,
					Status:         allocation.StatusApproved,
					ApprovedBy:     &approver,
					ApprovedAt:     &at,
				},
				EmployeeFirstName: "Ayu",
				EmployeeLastName:  "Lestari",
				LeaveTypeName:     "Annual",
			},
		}
		deps.repo.EXPECT().FindAllByCompany(ctx, companyID, allocation.StatusApproved).Return(rows, nil)

		resp, err := deps.service.GetAll(ctx, companyID, " approved ")

		assert.NoError(t, err)
		assert.Len(t, resp, 1)
		assert.Equal(t, "Ayu Lestari", resp[0].EmployeeName)
		assert.Equal(t, "Annual", resp[0].LeaveTypeName)
		assert.Equal(t, approver.String(), *resp[0].ApprovedBy)
		assert.Equal(t, "2026-01-05T08:00:00Z", *resp[0].ApprovedAt)
	})

	t.Run("unknown status", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.GetAll(ctx, companyID, "REJECTED")

		assert.ErrorIs(t, err, allocationerrors.ErrInvalidStatusFilter)
	})
}

func TestAllocationService_GetByID(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()

	t.Run("not found", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		id := uuid.New().String()
		deps.repo.EXPECT().FindByIDAndCompany(ctx, companyID, id).Return(nil, gorm.ErrRecordNotFound)

		_, err := deps.service.GetByID(ctx, companyID, id)

		assert.ErrorIs(t, err, allocationerrors.ErrAllocationNotFound)
	})

	t.Run("invalid id", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.GetByID(ctx, companyID, "123")

		assert.ErrorIs(t, err, allocationerrors.ErrInvalidAllocationID)
	})
}

func TestAllocationService_Balance(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	employeeID := uuid.New().String()
	leaveTypeID := uuid.New().String()

	deps := setupServiceTest(t)
	defer deps.db.Close()

	deps.repo.EXPECT().SumApproved(ctx, companyID, employeeID, leaveTypeID, 2026).Return(14, nil)

	resp, err := deps.service.Balance(ctx, companyID, employeeID, leaveTypeID, 2026)

	assert.NoError(t, err)
	assert.Equal(t, 14, resp.Allocated)

	_, err = deps.service.Balance(ctx, companyID, employeeID, leaveTypeID, 0)
	assert.ErrorIs(t, err, allocationerrors.ErrInvalidYear)
}

func TestCanTransition(t *testing.T) {
	assert.True(t, allocation.CanTransition(allocation.StatusDraft, allocation.StatusApproved))
	assert.False(t, allocation.CanTransition(allocation.StatusApproved, allocation.StatusDraft))
	assert.False(t, allocation.CanTransition(allocation.StatusApproved, allocation.StatusApproved))
	assert.False(t, allocation.CanTransition("UNKNOWN", allocation.StatusApproved))
}
