package allocation

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	StatusDraft    = "DRAFT"
	StatusApproved = "APPROVED"
)

// allowedTransitions is the whole allocation lifecycle. Nothing leaves APPROVED.
var allowedTransitions = map[string][]string{
	StatusDraft: {StatusApproved},
}

func CanTransition(from, to string) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func IsKnownStatus(status string) bool {
	return status == StatusDraft || status == StatusApproved
}

type LeaveAllocation struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	CompanyID      uuid.UUID  `gorm:"type:uuid;not null;index:idx_leave_allocations_company_status"`
	EmployeeID     uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uq_allocation_employee_policy_period,priority:1"`
	PolicyID       uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uq_allocation_employee_policy_period,priority:2"`
	LeaveTypeID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	PeriodYear     int        `gorm:"not null;uniqueIndex:uq_allocation_employee_policy_period,priority:3"`
	TotalAllocated int        `gorm:"not null;check:total_allocated >= 0"`
	Status         string     `gorm:"type:varchar(20);not null;default:'DRAFT';index:idx_leave_allocations_company_status"`
	ApprovedBy     *uuid.UUID `gorm:"type:uuid"`
	ApprovedAt     *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// AllocationView carries the display names the review screen needs.
type AllocationView struct {
	LeaveAllocation
	EmployeeFirstName string
	EmployeeLastName  string
	LeaveTypeName     string
}

func (v AllocationView) EmployeeName() string {
	return strings.TrimSpace(v.EmployeeFirstName + " " + v.EmployeeLastName)
}
