package leavepolicy

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

const MsgSelectLeaveCategory = "Please select a leave category"

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// BuildCreatePolicy validates and coerces a raw request in one place.
func BuildCreatePolicy(req CreatePolicyRequest) (CreatePolicyCommand, *ValidationError) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return CreatePolicyCommand{}, &ValidationError{Field: "name", Message: "Name is required"}
	}

	leaveType := strings.TrimSpace(req.LeaveType)
	if leaveType == "" {
		return CreatePolicyCommand{}, &ValidationError{Field: "leave_type", Message: MsgSelectLeaveCategory}
	}
	if _, err := uuid.Parse(leaveType); err != nil {
		return CreatePolicyCommand{}, &ValidationError{Field: "leave_type", Message: "Leave type is invalid"}
	}

	days, verr := coerceNonNegativeInt("allocation_days", req.AllocationDays)
	if verr != nil {
		return CreatePolicyCommand{}, verr
	}
	tenure, verr := coerceNonNegativeInt("tenure_months_required", req.TenureMonthsRequired)
	if verr != nil {
		return CreatePolicyCommand{}, verr
	}

	gender := strings.ToUpper(strings.TrimSpace(req.GenderRequirement))
	if gender == "" {
		gender = GenderAll
	}
	switch gender {
	case GenderAll, GenderMale, GenderFemale:
	default:
		return CreatePolicyCommand{}, &ValidationError{
			Field:   "gender_requirement",
			Message: "Gender requirement must be one of: ALL MALE FEMALE",
		}
	}

	return CreatePolicyCommand{
		Name:                 name,
		LeaveTypeID:          leaveType,
		AllocationDays:       days,
		TenureMonthsRequired: tenure,
		GenderRequirement:    gender,
	}, nil
}

func coerceNonNegativeInt(field string, v any) (int, *ValidationError) {
	var (
		f   float64
		err error
	)
	switch n := v.(type) {
	case nil:
		return 0, &ValidationError{Field: field, Message: "Value is required"}
	case float64:
		f = n
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		f, err = n.Float64()
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, &ValidationError{Field: field, Message: "Value is required"}
		}
		f, err = strconv.ParseFloat(s, 64)
	default:
		return 0, &ValidationError{Field: field, Message: "Must be a number"}
	}
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, &ValidationError{Field: field, Message: "Must be a number"}
	}
	if f != math.Trunc(f) {
		return 0, &ValidationError{Field: field, Message: "Must be a whole number"}
	}
	if f < 0 {
		return 0, &ValidationError{Field: field, Message: "Must not be negative"}
	}
	if f > math.MaxInt32 {
		return 0, &ValidationError{Field: field, Message: "Value is too large"}
	}
	return int(f), nil
}
