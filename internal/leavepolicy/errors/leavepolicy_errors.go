package leavepolicyerrors

import (
	"net/http"

	"adaptix-hrms/internal/shared/apperror"
)

var (
	ErrPolicyNotFound = apperror.New(
		apperror.CodeNotFound,
		"Leave policy not found",
		http.StatusNotFound,
	)
	ErrInvalidPolicyID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid leave policy ID",
		http.StatusBadRequest,
	)
	ErrInvalidCompanyID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid company ID",
		http.StatusBadRequest,
	)
	ErrLeaveTypeNotInCompany = apperror.New(
		apperror.CodeValidationError,
		"Leave type does not exist in this company",
		http.StatusBadRequest,
	).WithDetails([]apperror.FieldError{{Field: "leave_type", Message: "Leave type does not exist"}})
	ErrPolicyAlreadyInactive = apperror.New(
		apperror.CodeInvalidState,
		"Leave policy is already inactive",
		http.StatusConflict,
	)
)
