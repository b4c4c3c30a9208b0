package apperror_test

import (
	"errors"
	"net/http"
	"reflect"
	"strings"
	"testing"

	"adaptix-hrms/internal/shared/apperror"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

func TestToHTTP(t *testing.T) {
	t.Run("app error keeps code and status", func(t *testing.T) {
		err := apperror.New(apperror.CodeConflict, "already exists", http.StatusConflict)

		got := apperror.ToHTTP(err)

		assert.Equal(t, http.StatusConflict, got.Status)
		assert.Equal(t, apperror.CodeConflict, got.Code)
		assert.Equal(t, "already exists", got.Message)
	})

	t.Run("unknown error collapses to internal", func(t *testing.T) {
		got := apperror.ToHTTP(errors.New("pq: connection refused"))

		assert.Equal(t, http.StatusInternalServerError, got.Status)
		assert.Equal(t, "INTERNAL_ERROR", got.Code)
		assert.Equal(t, "Internal server error", got.Message)
	})
}

func TestWithDetails(t *testing.T) {
	sentinel := apperror.New(apperror.CodeConflict, "leave type code already exists", http.StatusConflict)

	withDetails := sentinel.WithDetails([]apperror.FieldError{{Field: "code", Message: "already exists"}})

	assert.True(t, errors.Is(withDetails, sentinel))
	assert.Nil(t, sentinel.Details)
	got := apperror.ToHTTP(withDetails)
	assert.Equal(t, []apperror.FieldError{{Field: "code", Message: "already exists"}}, got.Details)
}

type policyPayload struct {
	LeaveType string `json:"leave_type" validate:"required"`
	Gender    string `json:"gender_requirement" validate:"oneof=ALL MALE FEMALE"`
}

func TestValidationDetails(t *testing.T) {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	})

	err := v.Struct(policyPayload{Gender: "ANY"})
	assert.Error(t, err)

	details := apperror.ValidationDetails(err)

	assert.Len(t, details, 2)
	assert.Equal(t, "leave_type", details[0].Field)
	assert.Equal(t, "Leave Type is required", details[0].Message)
	assert.Equal(t, "gender_requirement", details[1].Field)
	assert.Equal(t, "Gender Requirement must be one of: ALL MALE FEMALE", details[1].Message)

	mapped := apperror.MapValidationError(err)
	assert.Equal(t, "Leave Type is required", mapped.Error())
}
