package workflow

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"adaptix-hrms/internal/hrclient"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	statusDraft = "DRAFT"

	msgEmptySelection  = "Select at least one draft allocation to approve."
	msgLoadFailed      = "Failed to load allocations."
	msgBulkApproveFail = "Bulk approval failed."
)

// AllocationReview is the draft review table: the loaded rows plus the set of
// selected ids. Only DRAFT rows can be selected.
type AllocationReview struct {
	api      AllocationAPI
	notifier Notifier
	logger   *zap.Logger

	approving atomic.Bool

	mu       sync.Mutex
	rows     []hrclient.Allocation
	selected map[string]struct{}
}

func NewAllocationReview(api AllocationAPI, notifier Notifier, logger ...*zap.Logger) *AllocationReview {
	l := zap.L().Named("workflow.allocation_review")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("workflow.allocation_review")
	}
	return &AllocationReview{
		api:      api,
		notifier: notifier,
		logger:   l,
		selected: make(map[string]struct{}),
	}
}

// Load replaces the rows with the server's current list. Selected ids that are
// no longer drafts are dropped.
func (r *AllocationReview) Load(ctx context.Context) error {
	rows, err := r.api.List(ctx, "")
	if err != nil {
		r.logger.Warn("load allocations failed", zap.Error(err))
		r.notifier.Error(msgLoadFailed)
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = rows
	drafts := r.draftIDsLocked()
	for id := range r.selected {
		if _, ok := drafts[id]; !ok {
			delete(r.selected, id)
		}
	}
	return nil
}

func (r *AllocationReview) Rows() []hrclient.Allocation {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]hrclient.Allocation(nil), r.rows...)
}

func (r *AllocationReview) Drafts() []hrclient.Allocation {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []hrclient.Allocation
	for _, a := range r.rows {
		if isDraft(a) {
			out = append(out, a)
		}
	}
	return out
}

// SelectAll selects exactly the loaded DRAFT rows.
func (r *AllocationReview) SelectAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.selected = r.draftIDsLocked()
}

func (r *AllocationReview) ClearSelection() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.selected = make(map[string]struct{})
}

// Toggle flips a single row. It returns false when id is not a loaded draft.
func (r *AllocationReview) Toggle(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.draftIDsLocked()[id]; !ok {
		return false
	}
	if _, ok := r.selected[id]; ok {
		delete(r.selected, id)
	} else {
		r.selected[id] = struct{}{}
	}
	return true
}

// Selected returns the selected ids in row order.
func (r *AllocationReview) Selected() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.selectedLocked()
}

// Approve submits the selection. An empty selection is reported without a
// request and a second call while one is in flight returns ErrInFlight. On
// success only the submitted ids are deselected, so rows toggled while the
// request was out keep their state. Rows stay as loaded until the caller calls
// Load again.
func (r *AllocationReview) Approve(ctx context.Context) (hrclient.BulkApproveResult, error) {
	if !r.approving.CompareAndSwap(false, true) {
		return hrclient.BulkApproveResult{}, ErrInFlight
	}
	defer r.approving.Store(false)

	ids := r.Selected()
	if len(ids) == 0 {
		r.notifier.Error(msgEmptySelection)
		return hrclient.BulkApproveResult{}, ErrEmptySelection
	}

	res, err := r.api.BulkApprove(ctx, ids, uuid.NewString())
	if err != nil {
		r.logger.Warn("bulk approve failed", zap.Int("count", len(ids)), zap.Error(err))
		r.notifier.Error(msgBulkApproveFail)
		return hrclient.BulkApproveResult{}, err
	}

	r.deselect(ids)
	r.notifier.Success(approvalMessage(len(ids), res))
	return res, nil
}

// Approving reports whether a bulk approval is in flight.
func (r *AllocationReview) Approving() bool {
	return r.approving.Load()
}

func (r *AllocationReview) deselect(ids []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		delete(r.selected, id)
	}
}

func approvalMessage(requested int, res hrclient.BulkApproveResult) string {
	if res.Approved == requested {
		return fmt.Sprintf("%d allocations approved.", res.Approved)
	}

	parts := []string{fmt.Sprintf("%d of %d approved", res.Approved, requested)}
	if res.AlreadyProcessed > 0 {
		parts = append(parts, fmt.Sprintf("%d already processed", res.AlreadyProcessed))
	}
	if res.NotFound > 0 {
		parts = append(parts, fmt.Sprintf("%d not found", res.NotFound))
	}
	if res.Invalid > 0 {
		parts = append(parts, fmt.Sprintf("%d invalid", res.Invalid))
	}
	return strings.Join(parts, "; ")
}

func isDraft(a hrclient.Allocation) bool {
	return strings.EqualFold(a.Status, statusDraft)
}

func (r *AllocationReview) draftIDsLocked() map[string]struct{} {
	ids := make(map[string]struct{})
	for _, a := range r.rows {
		if isDraft(a) {
			ids[a.ID] = struct{}{}
		}
	}
	return ids
}

func (r *AllocationReview) selectedLocked() []string {
	out := make([]string, 0, len(r.selected))
	for _, a := range r.rows {
		if _, ok := r.selected[a.ID]; ok {
			out = append(out, a.ID)
		}
	}
	return out
}
