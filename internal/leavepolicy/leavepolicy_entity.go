package leavepolicy

import (
	"time"

	"adaptix-hrms/internal/employee"

	"github.com/google/uuid"
)

const (
	GenderAll    = "ALL"
	GenderMale   = "MALE"
	GenderFemale = "FEMALE"
)

// LeavePolicy is never deleted once created; allocations keep pointing at it.
type LeavePolicy struct {
	ID                   uuid.UUID  `gorm:"type:uuid;primaryKey"`
	CompanyID            uuid.UUID  `gorm:"type:uuid;not null;index:idx_leave_policies_company_active"`
	Name                 string     `gorm:"type:varchar(150);not null"`
	LeaveTypeID          uuid.UUID  `gorm:"type:uuid;not null"`
	AllocationDays       int        `gorm:"not null;check:allocation_days >= 0"`
	TenureMonthsRequired int        `gorm:"not null;check:tenure_months_required >= 0"`
	GenderRequirement    string     `gorm:"type:varchar(10);not null"`
	IsActive             bool       `gorm:"not null;index:idx_leave_policies_company_active"`
	CreatedBy            *uuid.UUID `gorm:"type:uuid"`
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// PolicyView is a policy joined with its leave type name.
type PolicyView struct {
	LeavePolicy
	LeaveTypeName string
}

// IsEligible reports whether the employee qualifies for this policy on asOf.
func (p LeavePolicy) IsEligible(e employee.Employee, asOf time.Time) bool {
	if !e.IsActive {
		return false
	}
	// not hired yet on asOf
	if e.HireDate.After(asOf) {
		return false
	}
	if p.GenderRequirement != GenderAll && p.GenderRequirement != e.Gender {
		return false
	}
	return CompletedMonths(e.HireDate, asOf) >= p.TenureMonthsRequired
}

// CompletedMonths counts whole months between from and to. A month ending on the
// last day of a shorter month counts as complete (Jan 31 -> Feb 28 is one month).
func CompletedMonths(from, to time.Time) int {
	if from.IsZero() || to.Before(from) {
		return 0
	}
	months := (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
	if to.Day() < from.Day() && !isLastDayOfMonth(to) {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}

func isLastDayOfMonth(t time.Time) bool {
	return t.AddDate(0, 0, 1).Day() == 1
}
