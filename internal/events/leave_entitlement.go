package events

import "time"

const (
	LeaveEntitlementTopic = "hr.leave.entitlement.v1"

	EventEntitlementRunCompleted = "entitlement_run_completed"
	EventAllocationsApproved     = "allocations_approved"
)

type EntitlementRunCompletedEvent struct {
	EventType          string    `json:"event_type"`
	RequestID          string    `json:"request_id,omitempty"`
	RunID              string    `json:"run_id"`
	CompanyID          string    `json:"company_id"`
	TriggeredBy        string    `json:"triggered_by"`
	PeriodYear         int       `json:"period_year"`
	AllocationsCreated int       `json:"allocations_created"`
	OccurredAt         time.Time `json:"occurred_at"`
}

type AllocationsApprovedEvent struct {
	EventType     string    `json:"event_type"`
	RequestID     string    `json:"request_id,omitempty"`
	CompanyID     string    `json:"company_id"`
	ApprovedBy    string    `json:"approved_by"`
	AllocationIDs []string  `json:"allocation_ids"`
	OccurredAt    time.Time `json:"occurred_at"`
}
