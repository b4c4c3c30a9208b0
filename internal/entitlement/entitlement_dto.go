package entitlement

type RunRequest struct {
	PeriodYear *int `json:"period_year"`
}

type RunResponse struct {
	RunID              string `json:"run_id"`
	AllocationsCreated int    `json:"allocations_created"`
	PoliciesEvaluated  int    `json:"policies_evaluated"`
	EmployeesEvaluated int    `json:"employees_evaluated"`
	PeriodYear         int    `json:"period_year"`
}
