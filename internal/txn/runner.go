// Package txn runs a sequence of compensable steps as a single logical
// write. If a step fails, every previously completed step is compensated
// in reverse order, so a half-applied write never survives as committed
// state. Each transition is recorded in a durable journal for
// observability and post-mortem recovery.
package txn

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopfleet/order-api/internal/txn/journal"
)

// Step is a single unit of work with an undo action.
type Step interface {
	Name() string
	Execute(ctx context.Context) error
	Compensate(ctx context.Context) error
}

// Runner executes a collection of Steps sequentially.
type Runner struct {
	id      string
	steps   []Step
	journal journal.Repository // nil disables journalling
	payload string
}

// NewRunner builds a runner for one logical write. The id ties journal
// rows to business data (here, the order id). payload is the
// JSON-serialised input, stored once on the STARTED row so the write
// can be replayed from the journal.
func NewRunner(id string, steps []Step, jr journal.Repository, payload string) *Runner {
	return &Runner{
		id:      id,
		steps:   steps,
		journal: jr,
		payload: payload,
	}
}

// Run executes the steps in order. On failure it compensates all
// previously successful steps (LIFO) and returns the step's error.
func (r *Runner) Run(ctx context.Context) error {
	r.record(ctx, journal.StatusStarted, "", r.payload, nil)

	var done []Step
	for _, step := range r.steps {
		slog.InfoContext(ctx, "executing step", "txn_id", r.id, "step", step.Name())
		if err := step.Execute(ctx); err != nil {
			slog.ErrorContext(ctx, "step failed, rolling back", "txn_id", r.id, "step", step.Name(), "error", err)
			errs := []string{fmt.Sprintf("step %s failed: %v", step.Name(), err)}
			r.record(ctx, journal.StatusCompensating, step.Name(), "", errs)
			errs = append(errs, r.rollback(ctx, done)...)
			r.record(ctx, journal.StatusFailed, step.Name(), "", errs)
			return err
		}
		done = append(done, step)
		r.record(ctx, journal.StatusStepDone, step.Name(), "", nil)
	}

	r.record(ctx, journal.StatusCompleted, "", "", nil)
	return nil
}

// rollback compensates the given steps in reverse order. A failed
// compensation is logged and collected but does not stop the remaining
// compensations from running.
func (r *Runner) rollback(ctx context.Context, steps []Step) []string {
	var errs []string
	for i := len(steps) - 1; i >= 0; i-- {
		step := steps[i]
		slog.InfoContext(ctx, "compensating step", "txn_id", r.id, "step", step.Name())
		if err := step.Compensate(ctx); err != nil {
			slog.ErrorContext(ctx, "CRITICAL: compensation failed", "txn_id", r.id, "step", step.Name(), "error", err)
			errs = append(errs, fmt.Sprintf("compensation of %s failed: %v", step.Name(), err))
		}
	}
	return errs
}

func (r *Runner) record(ctx context.Context, status journal.Status, step, payload string, errs []string) {
	if r.journal == nil {
		return
	}
	entry := journal.NewEntry(ctx, r.id, status, step, payload, errs)
	if err := r.journal.Save(ctx, entry); err != nil {
		slog.ErrorContext(ctx, "failed to write journal entry", "txn_id", r.id, "status", status, "error", err)
	}
}
