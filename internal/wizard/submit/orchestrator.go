// internal/wizard/submit/orchestrator.go

// Package submit owns the one-shot transition from an editable draft to an
// immutable submitted application.
package submit

import (
	"context"
	"time"

	commonErrors "rental-wizard/internal/common/errors"
	"rental-wizard/internal/common/logger"
	"rental-wizard/internal/common/metrics"
	"rental-wizard/internal/models"
	"rental-wizard/internal/wizard/catalog"
	"rental-wizard/internal/wizard/validate"
)

// Store performs the atomic status flip. The implementation must refuse a
// draft that is not in draft status so two racing submissions cannot both
// win.
type Store interface {
	MarkSubmitted(ctx context.Context, draftID string, snap models.Snapshot, profile models.TenantProfile, at time.Time) (models.SubmittedApplication, error)
}

// Hook runs after a submission has been durably recorded. Hook failures are
// reported out-of-band, never to the applicant: the submission already
// happened.
type Hook interface {
	Name() string
	AfterSubmit(ctx context.Context, app models.SubmittedApplication) error
}

// Rejection describes a blocked submission: every field error across every
// step, plus the step the applicant should be sent back to.
type Rejection struct {
	FirstInvalidStep catalog.Step    `json:"first_invalid_step"`
	Errors           validate.Errors `json:"errors"`
}

// Orchestrator validates, persists and fans out one submission.
type Orchestrator struct {
	store Store
	hooks []Hook
	log   logger.Logger
	clock func() time.Time
}

func New(store Store, hooks []Hook, log logger.Logger) *Orchestrator {
	return &Orchestrator{
		store: store,
		hooks: hooks,
		log:   log,
		clock: func() time.Time { return time.Now().UTC() },
	}
}

// Submit runs the full-application gate and, when it passes, flips the draft
// to submitted exactly once.
//
// The snapshot is re-merged with the live profile first, so the audit copy
// and the validated data agree. On validation failure nothing is persisted
// and the caller gets a Rejection; on a second submission of the same draft
// the store returns an ALREADY_SUBMITTED conflict which passes through
// unchanged.
func (o *Orchestrator) Submit(ctx context.Context, draft *models.ApplicationDraft, profile *models.TenantProfile, vctx validate.Context) (*models.SubmittedApplication, *Rejection, error) {
	start := time.Now()
	log := o.log.WithFields(map[string]interface{}{
		"draftId":     draft.ID,
		"applicantId": draft.ApplicantID,
		"propertyId":  draft.PropertyID,
	})

	if !draft.Status.Editable() {
		metrics.Submissions.WithLabelValues("conflict").Inc()
		return nil, nil, commonErrors.NewAlreadySubmittedError(draft.ID)
	}

	snap := draft.Snapshot
	profile.ApplyTo(&snap)

	if ok, errs := validate.All(&snap, vctx); !ok {
		step, _ := validate.FirstInvalidStep(&snap, vctx)
		metrics.Submissions.WithLabelValues("rejected").Inc()
		log.Info("submission rejected", map[string]interface{}{
			"firstInvalidStep": int(step),
			"errorCount":       len(errs),
		})
		return nil, &Rejection{FirstInvalidStep: step, Errors: errs}, nil
	}

	app, err := o.store.MarkSubmitted(ctx, draft.ID, snap, *profile, o.clock())
	if err != nil {
		result := "error"
		if commonErrors.CodeOf(err) == commonErrors.ErrCodeAlreadySubmitted {
			result = "conflict"
		}
		metrics.Submissions.WithLabelValues(result).Inc()
		log.WithError(err).Error("submission persist failed", nil)
		return nil, nil, err
	}

	draft.Status = models.StatusSubmitted
	draft.Snapshot = snap
	draft.SubmittedAt = &app.SubmittedAt

	for _, hook := range o.hooks {
		if hookErr := hook.AfterSubmit(ctx, app); hookErr != nil {
			metrics.HookFailures.WithLabelValues(hook.Name()).Inc()
			log.WithError(hookErr).Warn("post-submission hook failed", map[string]interface{}{
				"hook": hook.Name(),
			})
		}
	}

	metrics.Submissions.WithLabelValues("ok").Inc()
	metrics.SubmissionDuration.WithLabelValues("ok").Observe(time.Since(start).Seconds())
	log.Info("application submitted", map[string]interface{}{
		"submittedAt": app.SubmittedAt.Format(time.RFC3339),
	})
	return &app, nil, nil
}
