package leaveerrors

import (
	"net/http"

	"adaptix-hrms/internal/shared/apperror"
)

var (
	ErrInvalidCompanyID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid company ID",
		http.StatusBadRequest,
	)
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid actor ID",
		http.StatusBadRequest,
	)
	ErrInvalidLeaveID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid leave ID",
		http.StatusBadRequest,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeValidationError,
		"Invalid employee",
		http.StatusBadRequest,
	).WithDetails([]apperror.FieldError{{Field: "employee", Message: "Must be a valid ID"}})
	ErrInvalidLeaveTypeID = apperror.New(
		apperror.CodeValidationError,
		"Invalid leave type",
		http.StatusBadRequest,
	).WithDetails([]apperror.FieldError{{Field: "leave_type", Message: "Must be a valid ID"}})
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeValidationError,
		"Invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeValidationError,
		"End date must not be before start date",
		http.StatusBadRequest,
	).WithDetails([]apperror.FieldError{{Field: "end_date", Message: "Must be on or after start_date"}})
	ErrEmployeeNotInCompany = apperror.New(
		apperror.CodeValidationError,
		"Employee does not belong to this company",
		http.StatusBadRequest,
	).WithDetails([]apperror.FieldError{{Field: "employee", Message: "Unknown employee"}})
	ErrLeaveTypeNotInCompany = apperror.New(
		apperror.CodeValidationError,
		"Leave type does not belong to this company",
		http.StatusBadRequest,
	).WithDetails([]apperror.FieldError{{Field: "leave_type", Message: "Unknown leave type"}})
	ErrLeaveOverlap = apperror.New(
		apperror.CodeConflict,
		"Leave already exists in an overlapping period",
		http.StatusConflict,
	)
	ErrInsufficientBalance = apperror.New(
		apperror.CodeInvalidState,
		"Requested days exceed the approved leave balance",
		http.StatusUnprocessableEntity,
	)
	ErrLeaveNotFound = apperror.New(
		apperror.CodeNotFound,
		"Leave not found",
		http.StatusNotFound,
	)
	ErrInvalidStatusTransition = apperror.New(
		apperror.CodeInvalidState,
		"Leave is no longer pending",
		http.StatusConflict,
	)
	ErrRejectionReasonRequired = apperror.New(
		apperror.CodeValidationError,
		"Rejection reason is required",
		http.StatusBadRequest,
	).WithDetails([]apperror.FieldError{{Field: "rejection_reason", Message: "Value is required"}})
)
