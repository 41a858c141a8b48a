// internal/wizard/validate/validate.go

// Package validate is the single validation code path for the wizard. The
// per-step "continue" guard, the resume-time frontier computation and the
// final submission check all run through the same functions, so they can
// never disagree about what is valid.
package validate

import (
	"time"

	"rental-wizard/internal/models"
	"rental-wizard/internal/wizard/catalog"
)

// Errors maps a field path to its message. One message per path: the first
// failing rule wins and later ones for the same path are dropped.
type Errors map[string]string

// Context carries the inputs a validation call needs beyond the snapshot
// itself. Now must be supplied by the caller; rules that compare against
// "today" re-evaluate on every call.
type Context struct {
	Docs models.DocumentSet
	Now  time.Time
}

func (c Context) env() catalog.Env {
	now := c.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}
	return catalog.Env{Docs: c.Docs, Now: now}
}

// Step validates a single wizard step. Pure and deterministic: no I/O, no
// side effects, identical output for identical input.
func Step(step catalog.Step, s *models.Snapshot, ctx Context) (bool, Errors) {
	errs := Errors{}
	catalog.Check(step, s, ctx.env(), func(field, message string) {
		if _, seen := errs[field]; !seen {
			errs[field] = message
		}
	})
	return len(errs) == 0, errs
}

// All validates every declared step and unions the error maps. It does not
// short-circuit: submission review needs the complete set.
func All(s *models.Snapshot, ctx Context) (bool, Errors) {
	merged := Errors{}
	for _, step := range catalog.Steps() {
		_, errs := Step(step, s, ctx)
		for field, msg := range errs {
			if _, seen := merged[field]; !seen {
				merged[field] = msg
			}
		}
	}
	return len(merged) == 0, merged
}

// FirstInvalidStep walks the declared step order and returns the first step
// that fails, short-circuiting. The second return is false when every step
// passes. This single function governs both the navigation frontier and the
// redirect target after a failed submission.
func FirstInvalidStep(s *models.Snapshot, ctx Context) (catalog.Step, bool) {
	for _, step := range catalog.Steps() {
		if ok, _ := Step(step, s, ctx); !ok {
			return step, true
		}
	}
	return 0, false
}
