package hrclient

type Allocation struct {
	ID             string  `json:"id"`
	CompanyID      string  `json:"company_id"`
	EmployeeID     string  `json:"employee_id"`
	EmployeeName   string  `json:"employee_name"`
	PolicyID       string  `json:"policy_id"`
	LeaveTypeID    string  `json:"leave_type_id"`
	LeaveTypeName  string  `json:"leave_type_name"`
	PeriodYear     int     `json:"period_year"`
	TotalAllocated int     `json:"total_allocated"`
	Status         string  `json:"status"`
	ApprovedBy     *string `json:"approved_by,omitempty"`
	ApprovedAt     *string `json:"approved_at,omitempty"`
}

type BulkApproveItem struct {
	ID     string `json:"id"`
	Result string `json:"result"`
}

type BulkApproveResult struct {
	Requested        int               `json:"requested"`
	Approved         int               `json:"approved"`
	AlreadyProcessed int               `json:"already_processed"`
	NotFound         int               `json:"not_found"`
	Invalid          int               `json:"invalid"`
	Results          []BulkApproveItem `json:"results"`
}

type EntitlementRunResult struct {
	RunID              string `json:"run_id"`
	AllocationsCreated int    `json:"allocations_created"`
	PoliciesEvaluated  int    `json:"policies_evaluated"`
	EmployeesEvaluated int    `json:"employees_evaluated"`
	PeriodYear         int    `json:"period_year"`
}

// PolicyPayload is the typed create body. Numbers are sent as numbers.
type PolicyPayload struct {
	Name                 string `json:"name"`
	LeaveType            string `json:"leave_type"`
	AllocationDays       int    `json:"allocation_days"`
	TenureMonthsRequired int    `json:"tenure_months_required"`
	GenderRequirement    string `json:"gender_requirement"`
}

type Policy struct {
	ID                   string `json:"id"`
	CompanyID            string `json:"company_id"`
	Name                 string `json:"name"`
	LeaveType            string `json:"leave_type"`
	LeaveTypeName        string `json:"leave_type_name"`
	AllocationDays       int    `json:"allocation_days"`
	TenureMonthsRequired int    `json:"tenure_months_required"`
	GenderRequirement    string `json:"gender_requirement"`
	IsActive             bool   `json:"is_active"`
}

type LeavePayload struct {
	Employee  string `json:"employee"`
	LeaveType string `json:"leave_type"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Reason    string `json:"reason,omitempty"`
}

type Leave struct {
	ID              string  `json:"id"`
	EmployeeID      string  `json:"employee"`
	EmployeeName    string  `json:"employee_name"`
	LeaveTypeID     string  `json:"leave_type"`
	LeaveTypeName   string  `json:"leave_type_name"`
	StartDate       string  `json:"start_date"`
	EndDate         string  `json:"end_date"`
	TotalDays       int     `json:"total_days"`
	Reason          string  `json:"reason"`
	Status          string  `json:"status"`
	RejectionReason *string `json:"rejection_reason,omitempty"`
}

type LeaveType struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Code          string `json:"code"`
	TracksBalance bool   `json:"tracks_balance"`
}

type Employee struct {
	ID           string `json:"id"`
	EmployeeCode string `json:"employee_code"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	FullName     string `json:"full_name"`
	CompanyID    string `json:"company_id"`
}
