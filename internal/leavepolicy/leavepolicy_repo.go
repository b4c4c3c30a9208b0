package leavepolicy

import (
	"context"
	"database/sql"

	"adaptix-hrms/internal/shared/dbtx"

	"gorm.io/gorm"
)

//go:generate mockgen -source=leavepolicy_repo.go -destination=mock/leavepolicy_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, policy *LeavePolicy) error
	FindAllByCompany(ctx context.Context, companyID string) ([]PolicyView, error)
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*PolicyView, error)
	FindActiveByCompany(ctx context.Context, companyID string) ([]LeavePolicy, error)
	Deactivate(ctx context.Context, companyID, id string) (int64, error)
	LeaveTypeBelongsToCompany(ctx context.Context, companyID, leaveTypeID string) (bool, error)
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

func (r *repository) Create(ctx context.Context, policy *LeavePolicy) error {
	return dbtx.Conn(ctx, r.db, r.tx).Create(policy).Error
}

func (r *repository) viewQuery(ctx context.Context, companyID string) *gorm.DB {
	return dbtx.Conn(ctx, r.db, r.tx).
		Table("leave_policies").
		Select("leave_policies.*, leave_types.name AS leave_type_name").
		Joins("LEFT JOIN leave_types ON leave_types.id = leave_policies.leave_type_id").
		Where("leave_policies.company_id = ?", companyID)
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string) ([]PolicyView, error) {
	var rows []PolicyView
	err := r.viewQuery(ctx, companyID).
		Order("leave_policies.created_at DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*PolicyView, error) {
	var rows []PolicyView
	err := r.viewQuery(ctx, companyID).
		Where("leave_policies.id = ?", id).
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

func (r *repository) FindActiveByCompany(ctx context.Context, companyID string) ([]LeavePolicy, error) {
	var policies []LeavePolicy
	err := dbtx.Conn(ctx, r.db, r.tx).
		Where("company_id = ? AND is_active = ?", companyID, true).
		Order("created_at ASC").
		Find(&policies).Error
	return policies, err
}

func (r *repository) Deactivate(ctx context.Context, companyID, id string) (int64, error) {
	res := dbtx.Conn(ctx, r.db, r.tx).
		Model(&LeavePolicy{}).
		Where("id = ? AND company_id = ? AND is_active = ?", id, companyID, true).
		Update("is_active", false)
	return res.RowsAffected, res.Error
}

func (r *repository) LeaveTypeBelongsToCompany(ctx context.Context, companyID, leaveTypeID string) (bool, error) {
	var count int64
	err := dbtx.Conn(ctx, r.db, r.tx).
		Table("leave_types").
		Where("id = ?", leaveTypeID).
		Where("company_id = ?", companyID).
		Where("deleted_at IS NULL").
		Count(&count).Error
	return count > 0, err
}
