// internal/wizard/catalog/steps.go
package catalog

import (
	"time"

	"rental-wizard/internal/models"
)

// Step is one page of the wizard. Ordering is significant: navigation and
// first-invalid-step computation iterate steps in declaration order.
type Step int

const (
	StepTenancyDetails Step = iota
	StepPersonalDetails
	StepHousehold
	StepEmployment
	StepCoSigners
	StepResidenceHistory
	StepCreditHistory
	StepReviewConsent

	StepCount int = iota
)

var stepNames = [...]string{
	StepTenancyDetails:   "tenancy_details",
	StepPersonalDetails:  "personal_details",
	StepHousehold:        "household",
	StepEmployment:       "employment_income",
	StepCoSigners:        "co_signers_guarantors",
	StepResidenceHistory: "residence_history",
	StepCreditHistory:    "credit_history",
	StepReviewConsent:    "review_consent",
}

func (s Step) String() string {
	if s < 0 || int(s) >= StepCount {
		return "unknown"
	}
	return stepNames[s]
}

// Valid reports whether s is a declared step index.
func (s Step) Valid() bool {
	return s >= 0 && int(s) < StepCount
}

// Steps returns the ordered step list.
func Steps() []Step {
	out := make([]Step, StepCount)
	for i := range out {
		out[i] = Step(i)
	}
	return out
}

// Env carries the validation-time context: the existing-documents map and
// the clock. Rules must read time from here, never from time.Now, so the
// same snapshot validates identically across call sites.
type Env struct {
	Docs models.DocumentSet
	Now  time.Time
}

// HasDocument reports whether a logical slot is satisfied, either by a file
// freshly attached to the snapshot or by one already on record. Primary and
// guarantor slots are treated uniformly.
func (e Env) HasDocument(s *models.Snapshot, key models.DocumentKey) bool {
	return s.HasNewDocument(key) || e.Docs.Has(key)
}

// Today returns the clock truncated to a calendar date.
func (e Env) Today() time.Time {
	y, m, d := e.Now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Report receives one failing field path with its message. Callers keep the
// first message per path and drop the rest.
type Report func(field, message string)

// Check runs every rule declared for one step against the snapshot.
func Check(step Step, s *models.Snapshot, env Env, report Report) {
	for _, r := range fieldRules {
		if r.Step != step {
			continue
		}
		if r.When != nil && !r.When(s) {
			continue
		}
		if msg := r.Check(s, env); msg != "" {
			report(r.Field, msg)
		}
	}
	for _, c := range collectionRules[step] {
		c(s, env, report)
	}
}
