package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"procurement-dashboard/internal/model"
	"time"
)

// RunTracker moves a run through its statuses, mirrors each change into the
// ledger and times every step.
type RunTracker struct {
	runID  string
	ledger Ledger
	logger *slog.Logger
	now    func() time.Time
	steps  []model.StepTiming
	open   bool
}

func newRunTracker(runID string, ledger Ledger, logger *slog.Logger, now func() time.Time) *RunTracker {
	return &RunTracker{runID: runID, ledger: ledger, logger: logger, now: now}
}

// StartStep closes the running step, if any, and opens status.
func (t *RunTracker) StartStep(ctx context.Context, status string) {
	t.EndStep(model.RunStatusCompleted)

	t.steps = append(t.steps, model.StepTiming{
		Step:      status,
		Status:    "running",
		StartedAt: t.now(),
	})
	t.open = true

	t.logger.Debug("step started", "step", status)
	if err := t.ledger.UpdateRunStatus(ctx, t.runID, status); err != nil && !errors.Is(err, context.Canceled) {
		t.logger.Warn("ledger update failed", "status", status, "error", err)
	}
}

// EndStep closes the running step with the given outcome.
func (t *RunTracker) EndStep(outcome string) {
	if !t.open {
		return
	}
	step := &t.steps[len(t.steps)-1]
	step.Status = outcome
	step.DurationMs = t.now().Sub(step.StartedAt).Milliseconds()
	t.open = false

	t.logger.Debug("step finished", "step", step.Step, "status", outcome, "duration_ms", step.DurationMs)
}

// Steps returns the timings recorded so far.
func (t *RunTracker) Steps() []model.StepTiming {
	return t.steps
}
