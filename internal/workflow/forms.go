package workflow

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"adaptix-hrms/internal/hrclient"
)

const (
	msgSelectLeaveCategory = "Please select a leave category"
	msgPolicyCreated       = "Leave policy created."
	msgPolicyFailed        = "Failed to create leave policy."

	msgLeaveMissingFields = "Employee, leave type, start date and end date are required."
	msgLeaveSubmitted     = "Leave application submitted."
	msgLeaveFailed        = "Failed to submit leave application."
)

// FieldError is a client-side form problem on one field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// PolicyForm holds raw form input; numbers arrive as text.
type PolicyForm struct {
	Name                 string
	LeaveType            string
	AllocationDays       string
	TenureMonthsRequired string
	GenderRequirement    string
}

// Build turns the raw input into the typed create payload. Ranges are left to
// the server.
func (f PolicyForm) Build() (hrclient.PolicyPayload, error) {
	if strings.TrimSpace(f.LeaveType) == "" {
		return hrclient.PolicyPayload{}, &FieldError{Field: "leave_type", Message: msgSelectLeaveCategory}
	}

	days, err := parseWhole(f.AllocationDays)
	if err != nil {
		return hrclient.PolicyPayload{}, &FieldError{Field: "allocation_days", Message: "must be a whole number"}
	}
	tenure, err := parseWhole(f.TenureMonthsRequired)
	if err != nil {
		return hrclient.PolicyPayload{}, &FieldError{Field: "tenure_months_required", Message: "must be a whole number"}
	}

	gender := strings.ToUpper(strings.TrimSpace(f.GenderRequirement))
	if gender == "" {
		gender = "ALL"
	}

	return hrclient.PolicyPayload{
		Name:                 strings.TrimSpace(f.Name),
		LeaveType:            strings.TrimSpace(f.LeaveType),
		AllocationDays:       days,
		TenureMonthsRequired: tenure,
		GenderRequirement:    gender,
	}, nil
}

func parseWhole(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

// Submit builds the payload and creates the policy. A missing leave category
// is reported without a request.
func (f PolicyForm) Submit(ctx context.Context, api PolicyAPI, notifier Notifier) (hrclient.Policy, error) {
	payload, err := f.Build()
	if err != nil {
		var fe *FieldError
		if errors.As(err, &fe) && fe.Field == "leave_type" {
			notifier.Error(msgSelectLeaveCategory)
		} else {
			notifier.Error(err.Error())
		}
		return hrclient.Policy{}, err
	}

	policy, err := api.Create(ctx, payload)
	if err != nil {
		notifier.Error(msgPolicyFailed)
		return hrclient.Policy{}, err
	}

	notifier.Success(msgPolicyCreated)
	return policy, nil
}

// LeaveForm is the leave application form. Submit resets it on success.
type LeaveForm struct {
	Employee  string
	LeaveType string
	StartDate string
	EndDate   string
	Reason    string
}

func (f *LeaveForm) missing() []string {
	var out []string
	if strings.TrimSpace(f.Employee) == "" {
		out = append(out, "employee")
	}
	if strings.TrimSpace(f.LeaveType) == "" {
		out = append(out, "leave_type")
	}
	if strings.TrimSpace(f.StartDate) == "" {
		out = append(out, "start_date")
	}
	if strings.TrimSpace(f.EndDate) == "" {
		out = append(out, "end_date")
	}
	return out
}

// Submit checks presence of the required fields only; date order and balance
// are checked by the server.
func (f *LeaveForm) Submit(ctx context.Context, api LeaveAPI, notifier Notifier) (hrclient.Leave, error) {
	if len(f.missing()) > 0 {
		notifier.Error(msgLeaveMissingFields)
		return hrclient.Leave{}, ErrMissingFields
	}

	leave, err := api.Create(ctx, hrclient.LeavePayload{
		Employee:  strings.TrimSpace(f.Employee),
		LeaveType: strings.TrimSpace(f.LeaveType),
		StartDate: strings.TrimSpace(f.StartDate),
		EndDate:   strings.TrimSpace(f.EndDate),
		Reason:    f.Reason,
	})
	if err != nil {
		notifier.Error(msgLeaveFailed)
		return hrclient.Leave{}, err
	}

	*f = LeaveForm{}
	notifier.Success(msgLeaveSubmitted)
	return leave, nil
}
