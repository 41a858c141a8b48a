// internal/wizard/navigate/navigator.go

// Package navigate tracks the wizard position and enforces forward-progress
// rules, using the conditional validator as its transition guard.
package navigate

import (
	"rental-wizard/internal/common/metrics"
	"rental-wizard/internal/models"
	"rental-wizard/internal/wizard/catalog"
	"rental-wizard/internal/wizard/validate"
)

// Navigator is the per-session step state machine. Steps run 0..StepCount-1;
// maxReached is the high-water mark bounding forward jumps.
type Navigator struct {
	current    int
	maxReached int
}

// Resume builds a navigator from persisted data. The reachable frontier is
// recomputed from validity rather than read from a stored counter, so rule
// or profile changes underneath a draft can never leave the position ahead
// of what the data still supports.
func Resume(s *models.Snapshot, ctx validate.Context) *Navigator {
	frontier := catalog.StepCount - 1
	if step, found := validate.FirstInvalidStep(s, ctx); found {
		frontier = int(step)
	}
	return &Navigator{current: frontier, maxReached: frontier}
}

// New starts a fresh wizard at step 0.
func New() *Navigator {
	return &Navigator{}
}

func (n *Navigator) Current() int    { return n.current }
func (n *Navigator) MaxReached() int { return n.maxReached }

// GoToNextStep validates the current step only. On success the position
// advances and the high-water mark rises with it; on failure the errors for
// the current step are returned and the position is unchanged.
func (n *Navigator) GoToNextStep(s *models.Snapshot, ctx validate.Context) (bool, validate.Errors) {
	step := catalog.Step(n.current)
	ok, errs := validate.Step(step, s, ctx)
	if !ok {
		metrics.StepValidations.WithLabelValues(step.String(), "blocked").Inc()
		return false, errs
	}
	metrics.StepValidations.WithLabelValues(step.String(), "ok").Inc()
	if n.current < catalog.StepCount-1 {
		n.current++
		if n.current > n.maxReached {
			n.maxReached = n.current
		}
	}
	return true, nil
}

// GoToStep jumps to a previously reached step, or exactly one beyond the
// high-water mark. Anything further is a guarded no-op: stale UI state can
// legitimately request it, so it must not crash. The high-water mark never
// moves here; it only rises through validated advances and Resume.
func (n *Navigator) GoToStep(target int) bool {
	if target < 0 || target >= catalog.StepCount {
		return false
	}
	if target > n.maxReached+1 {
		return false
	}
	n.current = target
	return true
}

// CanSubmit reports whether the applicant stands at the final step with a
// fully valid dataset. Submission itself is a separate transition owned by
// the submission orchestrator, not a step index.
func (n *Navigator) CanSubmit(s *models.Snapshot, ctx validate.Context) bool {
	if n.current != catalog.StepCount-1 {
		return false
	}
	ok, _ := validate.All(s, ctx)
	return ok
}
