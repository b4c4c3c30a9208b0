package leave

import (
	"context"
	"database/sql"
	"time"

	"adaptix-hrms/internal/shared/dbtx"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *Leave) error
	FindAllByCompany(ctx context.Context, companyID, status string) ([]LeaveView, error)
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*LeaveView, error)
	// TransitionFromPending applies the status change only while the row is still PENDING.
	TransitionFromPending(ctx context.Context, l *Leave) (bool, error)
	// LockEmployeeInCompany row-locks the employee for the rest of the tx so the
	// overlap and balance checks of concurrent requests run one after another.
	LockEmployeeInCompany(ctx context.Context, companyID, employeeID string) (bool, error)
	HasOverlappingPeriod(ctx context.Context, companyID, employeeID string, startDate, endDate time.Time) (bool, error)
	SumDaysInUse(ctx context.Context, companyID, employeeID, leaveTypeID string, year int) (int, error)
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

func (r *repository) conn(ctx context.Context) *gorm.DB {
	return dbtx.Conn(ctx, r.db, r.tx)
}

func (r *repository) Create(ctx context.Context, l *Leave) error {
	return r.conn(ctx).Create(l).Error
}

func (r *repository) viewQuery(ctx context.Context, companyID string) *gorm.DB {
	return r.conn(ctx).
		Table("leaves").
		Select(`leaves.*,
			employees.first_name AS employee_first_name,
			employees.last_name AS employee_last_name,
			leave_types.name AS leave_type_name`).
		Joins("LEFT JOIN employees ON employees.id = leaves.employee_id").
		Joins("LEFT JOIN leave_types ON leave_types.id = leaves.leave_type_id").
		Where("leaves.company_id = ?", companyID).
		Where("leaves.deleted_at IS NULL")
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID, status string) ([]LeaveView, error) {
	q := r.viewQuery(ctx, companyID)
	if status != "" {
		q = q.Where("leaves.status = ?", status)
	}
	var rows []LeaveView
	err := q.Order("leaves.start_date DESC, leaves.id ASC").Scan(&rows).Error
	return rows, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*LeaveView, error) {
	var rows []LeaveView
	err := r.viewQuery(ctx, companyID).
		Where("leaves.id = ?", id).
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

func (r *repository) TransitionFromPending(ctx context.Context, l *Leave) (bool, error) {
	res := r.conn(ctx).
		Model(&Leave{}).
		Where("id = ?", l.ID).
		Where("company_id = ?", l.CompanyID).
		Where("status = ?", StatusPending).
		Updates(map[string]any{
			"status":           l.Status,
			"approved_by":      l.ApprovedBy,
			"approved_at":      l.ApprovedAt,
			"rejection_reason": l.RejectionReason,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) LockEmployeeInCompany(ctx context.Context, companyID, employeeID string) (bool, error) {
	var ids []string
	err := r.conn(ctx).
		Table("employees").
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", employeeID).
		Where("company_id = ?", companyID).
		Where("deleted_at IS NULL").
		Pluck("id", &ids).Error
	return len(ids) > 0, err
}

func (r *repository) HasOverlappingPeriod(ctx context.Context, companyID, employeeID string, startDate, endDate time.Time) (bool, error) {
	var count int64
	err := r.conn(ctx).
		Model(&Leave{}).
		Where("company_id = ?", companyID).
		Where("employee_id = ?", employeeID).
		Where("status NOT IN ?", []string{StatusCancelled, StatusRejected}).
		Where("NOT (end_date < ? OR start_date > ?)", startDate, endDate).
		Count(&count).Error
	return count > 0, err
}

// SumDaysInUse totals PENDING and APPROVED days charged to year (by start date).
func (r *repository) SumDaysInUse(ctx context.Context, companyID, employeeID, leaveTypeID string, year int) (int, error) {
	var total int
	err := r.conn(ctx).
		Model(&Leave{}).
		Select("COALESCE(SUM(total_days), 0)").
		Where("company_id = ?", companyID).
		Where("employee_id = ?", employeeID).
		Where("leave_type_id = ?", leaveTypeID).
		Where("status IN ?", []string{StatusPending, StatusApproved}).
		Where("EXTRACT(YEAR FROM start_date) = ?", year).
		Scan(&total).Error
	return total, err
}
