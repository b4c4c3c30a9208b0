package allocationerrors

import (
	"net/http"

	"adaptix-hrms/internal/shared/apperror"
)

var (
	ErrAllocationNotFound = apperror.New(
		apperror.CodeNotFound,
		"Leave allocation not found",
		http.StatusNotFound,
	)
	ErrInvalidAllocationID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid leave allocation ID",
		http.StatusBadRequest,
	)
	ErrInvalidStatusFilter = apperror.New(
		apperror.CodeInvalidInput,
		"Status filter must be DRAFT or APPROVED",
		http.StatusBadRequest,
	)
	ErrEmptySelection = apperror.New(
		apperror.CodeValidationError,
		"Select at least one allocation",
		http.StatusBadRequest,
	)
	ErrTooManyIDs = apperror.New(
		apperror.CodeValidationError,
		"Too many allocations in one request",
		http.StatusBadRequest,
	)
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid actor ID",
		http.StatusBadRequest,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid employee ID",
		http.StatusBadRequest,
	)
	ErrInvalidLeaveTypeID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid leave type ID",
		http.StatusBadRequest,
	)
	ErrInvalidYear = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid period year",
		http.StatusBadRequest,
	)
)
