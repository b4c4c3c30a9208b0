package allocation

import (
	"context"
	"database/sql"
	"time"

	"adaptix-hrms/internal/shared/dbtx"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=allocation_repo.go -destination=mock/allocation_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	CreateDraftIfAbsent(ctx context.Context, alloc *LeaveAllocation) (bool, error)
	FindAllByCompany(ctx context.Context, companyID, status string) ([]AllocationView, error)
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*AllocationView, error)
	ApproveIfDraft(ctx context.Context, companyID, id string, approverID uuid.UUID, at time.Time) (bool, error)
	ExistsInCompany(ctx context.Context, companyID, id string) (bool, error)
	SumApproved(ctx context.Context, companyID, employeeID, leaveTypeID string, year int) (int, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

// CreateDraftIfAbsent inserts the draft unless one already exists for the same
// employee, policy and period. It reports whether a row was written.
func (r *repository) CreateDraftIfAbsent(ctx context.Context, alloc *LeaveAllocation) (bool, error) {
	res := dbtx.Conn(ctx, r.db, r.tx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "employee_id"},
				{Name: "policy_id"},
				{Name: "period_year"},
			},
			DoNothing: true,
		}).
		Create(alloc)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) viewQuery(ctx context.Context, companyID string) *gorm.DB {
	return dbtx.Conn(ctx, r.db, r.tx).
		Table("leave_allocations").
		Select(`leave_allocations.*,
			employees.first_name AS employee_first_name,
			employees.last_name AS employee_last_name,
			leave_types.name AS leave_type_name`).
		Joins("LEFT JOIN employees ON employees.id = leave_allocations.employee_id").
		Joins("LEFT JOIN leave_types ON leave_types.id = leave_allocations.leave_type_id").
		Where("leave_allocations.company_id = ?", companyID)
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID, status string) ([]AllocationView, error) {
	q := r.viewQuery(ctx, companyID)
	if status != "" {
		q = q.Where("leave_allocations.status = ?", status)
	}
	var rows []AllocationView
	err := q.Order("leave_allocations.period_year DESC, employees.first_name ASC, leave_allocations.id ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*AllocationView, error) {
	var rows []AllocationView
	err := r.viewQuery(ctx, companyID).
		Where("leave_allocations.id = ?", id).
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &rows[0], nil
}

// ApproveIfDraft is the optimistic transition: it only touches a row that is still DRAFT.
func (r *repository) ApproveIfDraft(ctx context.Context, companyID, id string, approverID uuid.UUID, at time.Time) (bool, error) {
	res := dbtx.Conn(ctx, r.db, r.tx).
		Model(&LeaveAllocation{}).
		Where("id = ? AND company_id = ? AND status = ?", id, companyID, StatusDraft).
		Updates(map[string]any{
			"status":      StatusApproved,
			"approved_by": approverID,
			"approved_at": at,
			"updated_at":  at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) ExistsInCompany(ctx context.Context, companyID, id string) (bool, error) {
	var count int64
	err := dbtx.Conn(ctx, r.db, r.tx).
		Model(&LeaveAllocation{}).
		Where("id = ? AND company_id = ?", id, companyID).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) SumApproved(ctx context.Context, companyID, employeeID, leaveTypeID string, year int) (int, error) {
	var total int
	err := dbtx.Conn(ctx, r.db, r.tx).
		Model(&LeaveAllocation{}).
		Select("COALESCE(SUM(total_allocated), 0)").
		Where("company_id = ? AND employee_id = ? AND leave_type_id = ? AND period_year = ? AND status = ?",
			companyID, employeeID, leaveTypeID, year, StatusApproved).
		Scan(&total).Error
	return total, err
}
