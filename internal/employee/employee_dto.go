package employee

type CreateEmployeeRequest struct {
	FirstName    string `json:"first_name" binding:"required"`
	LastName     string `json:"last_name"`
	EmployeeCode string `json:"employee_code"`
	Gender       string `json:"gender" binding:"required,oneof=MALE FEMALE OTHER"`
	HireDate     string `json:"hire_date" binding:"required"`
	IsActive     *bool  `json:"is_active"`
}

type EmployeeResponse struct {
	ID           string `json:"id"`
	EmployeeCode string `json:"employee_code"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	FullName     string `json:"full_name"`
	Gender       string `json:"gender,omitempty"`
	HireDate     string `json:"hire_date,omitempty"`
	IsActive     bool   `json:"is_active"`
	CompanyID    string `json:"company_id"`
}
