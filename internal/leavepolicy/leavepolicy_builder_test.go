package leavepolicy_test

import (
	"encoding/json"
	"testing"

	"adaptix-hrms/internal/leavepolicy"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestBuildCreatePolicy(t *testing.T) {
	leaveTypeID := uuid.NewString()

	tests := []struct {
		name      string
		req       leavepolicy.CreatePolicyRequest
		wantField string
		wantMsg   string
		want      leavepolicy.CreatePolicyCommand
	}{
		{
			name: "numbers and numeric strings are coerced",
			req: leavepolicy.CreatePolicyRequest{
				Name: " Annual ", LeaveType: leaveTypeID,
				AllocationDays: "12", TenureMonthsRequired: float64(3), GenderRequirement: "female",
			},
			want: leavepolicy.CreatePolicyCommand{
				Name: "Annual", LeaveTypeID: leaveTypeID,
				AllocationDays: 12, TenureMonthsRequired: 3, GenderRequirement: leavepolicy.GenderFemale,
			},
		},
		{
			name: "empty gender defaults to ALL",
			req: leavepolicy.CreatePolicyRequest{
				Name: "Sick", LeaveType: leaveTypeID, AllocationDays: json.Number("0"), TenureMonthsRequired: 0,
			},
			want: leavepolicy.CreatePolicyCommand{
				Name: "Sick", LeaveTypeID: leaveTypeID, GenderRequirement: leavepolicy.GenderAll,
			},
		},
		{
			name:      "missing leave type",
			req:       leavepolicy.CreatePolicyRequest{Name: "X", AllocationDays: 1, TenureMonthsRequired: 0},
			wantField: "leave_type",
			wantMsg:   leavepolicy.MsgSelectLeaveCategory,
		},
		{
			name:      "missing name",
			req:       leavepolicy.CreatePolicyRequest{LeaveType: leaveTypeID},
			wantField: "name",
		},
		{
			name:      "negative days",
			req:       leavepolicy.CreatePolicyRequest{Name: "X", LeaveType: leaveTypeID, AllocationDays: -1, TenureMonthsRequired: 0},
			wantField: "allocation_days",
			wantMsg:   "Must not be negative",
		},
		{
			name:      "fractional tenure",
			req:       leavepolicy.CreatePolicyRequest{Name: "X", LeaveType: leaveTypeID, AllocationDays: 1, TenureMonthsRequired: "1.5"},
			wantField: "tenure_months_required",
			wantMsg:   "Must be a whole number",
		},
		{
			name:      "non numeric days",
			req:       leavepolicy.CreatePolicyRequest{Name: "X", LeaveType: leaveTypeID, AllocationDays: "ten", TenureMonthsRequired: 0},
			wantField: "allocation_days",
			wantMsg:   "Must be a number",
		},
		{
			name:      "missing tenure",
			req:       leavepolicy.CreatePolicyRequest{Name: "X", LeaveType: leaveTypeID, AllocationDays: 1},
			wantField: "tenure_months_required",
			wantMsg:   "Value is required",
		},
		{
			name:      "unknown gender",
			req:       leavepolicy.CreatePolicyRequest{Name: "X", LeaveType: leaveTypeID, AllocationDays: 1, TenureMonthsRequired: 0, GenderRequirement: "OTHER"},
			wantField: "gender_requirement",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, verr := leavepolicy.BuildCreatePolicy(tt.req)
			if tt.wantField == "" {
				assert.Nil(t, verr)
				assert.Equal(t, tt.want, cmd)
				return
			}
			if assert.NotNil(t, verr) {
				assert.Equal(t, tt.wantField, verr.Field)
				if tt.wantMsg != "" {
					assert.Equal(t, tt.wantMsg, verr.Message)
				}
			}
		})
	}
}
