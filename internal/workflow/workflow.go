// Package workflow holds the operator-side leave flows: triggering an
// entitlement run, reviewing and approving draft allocations, and the policy
// and leave forms. It talks to the API through small interfaces that
// hrclient's resource accessors satisfy, and reports outcomes to a Notifier.
package workflow

import (
	"context"
	"errors"

	"adaptix-hrms/internal/hrclient"
)

var (
	ErrInFlight       = errors.New("workflow: request already in flight")
	ErrEmptySelection = errors.New("workflow: no allocations selected")
	ErrMissingFields  = errors.New("workflow: required fields missing")
)

// Notifier receives the user-facing outcome of each action.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

type EntitlementAPI interface {
	Run(ctx context.Context) (hrclient.EntitlementRunResult, error)
}

type AllocationAPI interface {
	List(ctx context.Context, status string) ([]hrclient.Allocation, error)
	BulkApprove(ctx context.Context, ids []string, idempotencyKey string) (hrclient.BulkApproveResult, error)
}

type PolicyAPI interface {
	Create(ctx context.Context, payload hrclient.PolicyPayload) (hrclient.Policy, error)
}

type LeaveAPI interface {
	Create(ctx context.Context, payload hrclient.LeavePayload) (hrclient.Leave, error)
}
