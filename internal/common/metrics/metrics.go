// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DraftSaves = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wizard_draft_saves_total",
			Help: "Total number of debounced draft step saves by result",
		},
		[]string{"result"},
	)

	ProfileFieldSaves = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wizard_profile_field_saves_total",
			Help: "Total number of immediate profile field saves by result",
		},
		[]string{"result"},
	)

	DocumentWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wizard_document_writes_total",
			Help: "Total number of document slot writes by slot and result",
		},
		[]string{"slot", "result"},
	)

	StepValidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wizard_step_validations_total",
			Help: "Total number of per-step validation runs by step and outcome",
		},
		[]string{"step", "outcome"},
	)

	Submissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wizard_submissions_total",
			Help: "Total number of submission attempts by result",
		},
		[]string{"result"},
	)

	SubmissionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "wizard_submission_duration_seconds",
			Help: "Duration of submission processing in seconds",
		},
		[]string{"result"},
	)

	HookFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wizard_hook_failures_total",
			Help: "Total number of post-submission hook failures by hook",
		},
		[]string{"hook"},
	)

	OpenDrafts = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "wizard_open_drafts",
			Help: "Number of drafts currently loaded into sessions",
		},
		[]string{"status"},
	)
)
