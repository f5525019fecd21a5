package notify

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/karthikrayaprolu/medimind/internal/domain"
)

// DefaultDebounce is the coalescing delay applied to Apply: rapid changes
// (toggling several schedules in a row) reconcile once, on the final state.
const DefaultDebounce = 500 * time.Millisecond

// Reconciler keeps the device's pending-notification set consistent with the
// current (schedules, enabled) input. Each pass is a full reset: cancel
// everything pending, then reinstall the freshly computed plan. No diffing is
// attempted; a sub-second gap with nothing pending is acceptable at daily
// reminder granularity, and the reset makes every pass safe to repeat.
//
// Two passes overlapping (a slow device call outstanding when the next trigger
// fires) are not guarded against; the full reset makes the next pass
// self-healing.
type Reconciler struct {
	svc      Service
	log      *zap.Logger
	defaults map[domain.TimingSlot]domain.Clock
	debounce *Debouncer
}

// NewReconciler creates a Reconciler. A nil defaults map selects the canonical
// slot times; a non-positive delay selects DefaultDebounce.
func NewReconciler(svc Service, log *zap.Logger, defaults map[domain.TimingSlot]domain.Clock, delay time.Duration) *Reconciler {
	if defaults == nil {
		defaults = domain.DefaultSlotTimes()
	}
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Reconciler{
		svc:      svc,
		log:      log,
		defaults: defaults,
		debounce: NewDebouncer(delay),
	}
}

// Apply is the trigger input: the caller invokes it whenever the schedule list
// or the enabled flag changes. Calls in rapid succession coalesce; only the
// final state is reconciled. Failures are logged and swallowed — the next
// trigger retries from scratch.
func (r *Reconciler) Apply(ctx context.Context, schedules []domain.MedicationSchedule, enabled bool) {
	r.debounce.Trigger(func() {
		if err := r.Reconcile(ctx, schedules, enabled); err != nil {
			r.log.Error("reconcile failed", zap.Error(err))
		}
	})
}

// Reconcile performs one pass immediately: query pending, cancel all, then (if
// the kill switch is on and the plan is non-empty) install the new set in one
// batch. Any failing step aborts the pass; there is no retry and no
// partial-success bookkeeping.
func (r *Reconciler) Reconcile(ctx context.Context, schedules []domain.MedicationSchedule, enabled bool) error {
	pending, err := r.svc.Pending(ctx)
	if err != nil {
		return fmt.Errorf("query pending: %w", err)
	}
	if len(pending) > 0 {
		ids := make([]int32, len(pending))
		for i, p := range pending {
			ids[i] = p.ID
		}
		if err := r.svc.Cancel(ctx, ids); err != nil {
			return fmt.Errorf("cancel pending: %w", err)
		}
		r.log.Info("cancelled pending notifications", zap.Int("count", len(ids)))
	}

	if !enabled {
		r.log.Info("notifications disabled, skipping scheduling")
		return nil
	}

	plan := domain.Plan(schedules, r.defaults)
	if len(plan) == 0 {
		r.log.Info("no enabled schedules, nothing to install")
		return nil
	}

	if err := r.svc.ScheduleBatch(ctx, plan); err != nil {
		return fmt.Errorf("schedule batch: %w", err)
	}
	r.log.Info("scheduled notifications", zap.Int("count", len(plan)))
	return nil
}

// Close cancels any reconciliation still waiting in the debounce window.
func (r *Reconciler) Close() {
	r.debounce.Stop()
}
