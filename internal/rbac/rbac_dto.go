package rbac

import "adaptix-hrms/internal/domain"

type EnforceRequest = domain.EnforceRequest

type EnforceResponse = domain.EnforceResponse

// CheckPermissionRequest is the body of /rbac/enforce. The company always comes from the token.
type CheckPermissionRequest struct {
	EmployeeID string `json:"employee_id"`
	Resource   string `json:"resource" binding:"required"`
	Action     string `json:"action" binding:"required"`
}
