package entitlementerrors

import (
	"net/http"

	"adaptix-hrms/internal/shared/apperror"
)

const CodeRunInProgress = "RUN_IN_PROGRESS"

var (
	ErrRunInProgress = apperror.New(
		CodeRunInProgress,
		"An entitlement run is already in progress for this company",
		http.StatusConflict,
	)
	ErrInvalidCompanyID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid company ID",
		http.StatusBadRequest,
	)
	ErrInvalidPeriodYear = apperror.New(
		apperror.CodeValidationError,
		"Period year must be last year, this year or next year",
		http.StatusBadRequest,
	).WithDetails([]apperror.FieldError{{Field: "period_year", Message: "Out of range"}})
)
