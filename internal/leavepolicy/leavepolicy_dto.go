package leavepolicy

// CreatePolicyRequest is the raw body. Numeric fields accept numbers or numeric
// strings; BuildCreatePolicy turns it into a CreatePolicyCommand.
type CreatePolicyRequest struct {
	Name                 string `json:"name"`
	LeaveType            string `json:"leave_type"`
	AllocationDays       any    `json:"allocation_days"`
	TenureMonthsRequired any    `json:"tenure_months_required"`
	GenderRequirement    string `json:"gender_requirement"`
}

type CreatePolicyCommand struct {
	Name                 string
	LeaveTypeID          string
	AllocationDays       int
	TenureMonthsRequired int
	GenderRequirement    string
}

type PolicyResponse struct {
	ID                   string `json:"id"`
	CompanyID            string `json:"company_id"`
	Name                 string `json:"name"`
	LeaveType            string `json:"leave_type"`
	LeaveTypeName        string `json:"leave_type_name,omitempty"`
	AllocationDays       int    `json:"allocation_days"`
	TenureMonthsRequired int    `json:"tenure_months_required"`
	GenderRequirement    string `json:"gender_requirement"`
	IsActive             bool   `json:"is_active"`
	CreatedAt            string `json:"created_at"`
}
