package apperror

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

func formatFieldName(s string) string {
	// leave_type -> leave type
	s = strings.ReplaceAll(s, "_", " ")

	// leave type -> Leave Type
	caser := cases.Title(language.English)
	return caser.String(s)
}

func MapValidationError(err error) error {
	var errs validator.ValidationErrors
	if errors.As(err, &errs) && len(errs) > 0 {
		// first error only
		e := errs[0]
		humanReadableField := formatFieldName(e.Field())

		var appErr *AppError
		switch e.Tag() {
		case "required":
			appErr = RequiredField(humanReadableField)
		default:
			appErr = InvalidField(humanReadableField)
		}
		return appErr.WithDetails(ValidationDetails(err))
	}

	return New(
		CodeInvalidInput,
		"Invalid input",
		http.StatusBadRequest,
	)
}

// ValidationDetails flattens binding errors into field errors keyed by json name.
// Non-validator errors (malformed JSON, wrong types) come back as a single entry without field.
func ValidationDetails(err error) []FieldError {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return []FieldError{{Message: err.Error()}}
	}

	out := make([]FieldError, 0, len(errs))
	for _, e := range errs {
		field := formatFieldName(e.Field())
		msg := field + " is invalid"
		switch e.Tag() {
		case "required":
			msg = field + " is required"
		case "oneof":
			msg = field + " must be one of: " + e.Param()
		case "min":
			msg = field + " must be at least " + e.Param()
		case "max":
			msg = field + " must be at most " + e.Param()
		}
		out = append(out, FieldError{Field: e.Field(), Message: msg})
	}
	return out
}
