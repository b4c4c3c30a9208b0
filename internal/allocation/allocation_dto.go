package allocation

const MaxBulkApproveIDs = 500

// Per-id outcomes of a bulk approval.
const (
	ResultApproved         = "approved"
	ResultAlreadyProcessed = "already_processed"
	ResultNotFound         = "not_found"
	ResultInvalidID        = "invalid_id"
)

type AllocationResponse struct {
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

type BulkApproveRequest struct {
	IDs []string `json:"ids" binding:"required,min=1"`
}

type BulkApproveItem struct {
	ID     string `json:"id"`
	Result string `json:"result"`
}

type BulkApproveResponse struct {
	Requested        int               `json:"requested"`
	Approved         int               `json:"approved"`
	AlreadyProcessed int               `json:"already_processed"`
	NotFound         int               `json:"not_found"`
	Invalid          int               `json:"invalid"`
	Results          []BulkApproveItem `json:"results"`
}

type BalanceResponse struct {
	EmployeeID  string `json:"employee_id"`
	LeaveTypeID string `json:"leave_type_id"`
	PeriodYear  int    `json:"period_year"`
	Allocated   int    `json:"allocated"`
}
