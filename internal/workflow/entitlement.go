package workflow

import (
	"context"
	"fmt"
	"sync/atomic"

	"adaptix-hrms/internal/hrclient"

	"go.uber.org/zap"
)

const msgEntitlementFailed = "Failed to run entitlement engine."

type EntitlementTrigger struct {
	api      EntitlementAPI
	notifier Notifier
	logger   *zap.Logger
	running  atomic.Bool
}

func NewEntitlementTrigger(api EntitlementAPI, notifier Notifier, logger ...*zap.Logger) *EntitlementTrigger {
	l := zap.L().Named("workflow.entitlement")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("workflow.entitlement")
	}
	return &EntitlementTrigger{api: api, notifier: notifier, logger: l}
}

// Running reports whether a run is in flight; callers disable the trigger while it is.
func (t *EntitlementTrigger) Running() bool {
	return t.running.Load()
}

// Run asks the server for a run. A second call while one is in flight returns
// ErrInFlight without a request. The draft list is not refreshed here.
func (t *EntitlementTrigger) Run(ctx context.Context) (hrclient.EntitlementRunResult, error) {
	if !t.running.CompareAndSwap(false, true) {
		return hrclient.EntitlementRunResult{}, ErrInFlight
	}
	defer t.running.Store(false)

	res, err := t.api.Run(ctx)
	if err != nil {
		t.logger.Warn("entitlement run failed", zap.Error(err))
		t.notifier.Error(msgEntitlementFailed)
		return hrclient.EntitlementRunResult{}, err
	}

	t.notifier.Success(fmt.Sprintf("Entitlement run complete: %d draft allocations created.", res.AllocationsCreated))
	return res, nil
}
