package submit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonErrors "rental-wizard/internal/common/errors"
	"rental-wizard/internal/common/logger"
	"rental-wizard/internal/models"
	"rental-wizard/internal/wizard/catalog"
	"rental-wizard/internal/wizard/validate"
)

// ==========================
// Test Helper Functions
// ==========================

var (
	testNow       = time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	testSubmitted = time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)
)

func intPtr(v int) *int { return &v }

type fakeStore struct {
	app      models.SubmittedApplication
	err      error
	calls    int
	lastSnap models.Snapshot
}

func (f *fakeStore) MarkSubmitted(ctx context.Context, draftID string, snap models.Snapshot, profile models.TenantProfile, at time.Time) (models.SubmittedApplication, error) {
	f.calls++
	f.lastSnap = snap
	if f.err != nil {
		return models.SubmittedApplication{}, f.err
	}
	f.app = models.SubmittedApplication{
		DraftID:      draftID,
		ApplicantID:  "applicant-1",
		PropertyID:   "property-1",
		Snapshot:     snap,
		ProfileAudit: profile,
		SubmittedAt:  at,
	}
	return f.app, nil
}

type fakeHook struct {
	name  string
	err   error
	calls int
	last  models.SubmittedApplication
}

func (h *fakeHook) Name() string { return h.name }

func (h *fakeHook) AfterSubmit(ctx context.Context, app models.SubmittedApplication) error {
	h.calls++
	h.last = app
	return h.err
}

func newOrchestrator(t *testing.T, store Store, hooks ...Hook) *Orchestrator {
	t.Helper()
	o := New(store, hooks, logger.NewTestLogger(t))
	o.clock = func() time.Time { return testSubmitted }
	return o
}

// completeDraft carries a dataset that passes every step given completeDocs.
// Employment data lives in the profile and is merged in at submit time.
func completeDraft() (*models.ApplicationDraft, *models.TenantProfile) {
	draft := &models.ApplicationDraft{
		ID:          "draft-1",
		ApplicantID: "applicant-1",
		PropertyID:  "property-1",
		Status:      models.StatusDraft,
		CurrentStep: int(catalog.StepReviewConsent),
		Snapshot: models.Snapshot{
			DesiredMoveInDate:   "2026-06-01",
			LeaseDurationMonths: 12,
			ReasonForMoving:     "job_relocation",

			Occupants: []models.Occupant{
				{FirstName: "Luis", LastName: "Silva", DateOfBirth: "1992-08-20",
					Relationship: "partner", WillSignLease: true},
			},
			CoSigners: []models.CoSigner{
				{FromOccupantIndex: intPtr(0), FirstName: "Luis", LastName: "Silva",
					DateOfBirth: "1992-08-20", Relationship: "partner"},
			},
			PreviousAddresses: []models.PreviousAddress{
				{AddressLine1: "12 Elm Road", City: "London", PostalCode: "N1 7AA",
					Country: "UK", MoveInDate: "2021-05-01"},
			},

			AcceptTerms:           true,
			ConsentCreditCheck:    true,
			ConsentDataProcessing: true,
			DeclarationTruthful:   true,
			DigitalSignature:      "Ana Silva",
		},
	}
	profile := &models.TenantProfile{
		ApplicantID:       "applicant-1",
		FirstName:         "Ana",
		LastName:          "Silva",
		DateOfBirth:       "1990-04-12",
		Email:             "ana.silva@example.com",
		ImmigrationStatus: models.ImmigrationCitizen,

		EmploymentStatus:    models.EmploymentEmployed,
		EmployerName:        "Acme Ltd",
		JobTitle:            "Engineer",
		EmploymentType:      "full_time",
		EmploymentStartDate: "2020-01-15",
		NetMonthlyIncome:    "3200.00",
		GrossAnnualIncome:   "45000",
	}
	return draft, profile
}

func completeDocs() models.DocumentSet {
	return models.DocumentSet{
		models.DocIDFront:            true,
		models.DocIDBack:             true,
		models.DocPayslip1:           true,
		models.DocPayslip2:           true,
		models.DocPayslip3:           true,
		models.DocEmploymentContract: true,
	}
}

func testVCtx() validate.Context {
	return validate.Context{Docs: completeDocs(), Now: testNow}
}

// ==========================
// Rejection Path
// ==========================

func TestSubmit_RejectsIncompleteApplication(t *testing.T) {
	store := &fakeStore{}
	o := newOrchestrator(t, store)

	draft, profile := completeDraft()
	draft.Snapshot.DigitalSignature = ""
	draft.Snapshot.LeaseDurationMonths = 0

	app, rejection, err := o.Submit(context.Background(), draft, profile, testVCtx())
	require.NoError(t, err)
	assert.Nil(t, app)
	require.NotNil(t, rejection)

	assert.Equal(t, catalog.StepTenancyDetails, rejection.FirstInvalidStep)
	assert.Contains(t, rejection.Errors, "lease_duration_months")
	assert.Contains(t, rejection.Errors, "digital_signature")

	assert.Equal(t, 0, store.calls, "nothing may be persisted on rejection")
	assert.Equal(t, models.StatusDraft, draft.Status)
	assert.Nil(t, draft.SubmittedAt)
}

func TestSubmit_RejectionIncludesMissingDocuments(t *testing.T) {
	o := newOrchestrator(t, &fakeStore{})

	draft, profile := completeDraft()
	vctx := testVCtx()
	delete(vctx.Docs, models.DocPayslip2)

	_, rejection, err := o.Submit(context.Background(), draft, profile, vctx)
	require.NoError(t, err)
	require.NotNil(t, rejection)
	assert.Equal(t, catalog.StepEmployment, rejection.FirstInvalidStep)
	assert.Contains(t, rejection.Errors, string(models.DocPayslip2))
}

// ==========================
// Success Path
// ==========================

func TestSubmit_Succeeds(t *testing.T) {
	store := &fakeStore{}
	hook := &fakeHook{name: "review_workflow"}
	o := newOrchestrator(t, store, hook)

	draft, profile := completeDraft()
	app, rejection, err := o.Submit(context.Background(), draft, profile, testVCtx())

	require.NoError(t, err)
	require.Nil(t, rejection)
	require.NotNil(t, app)

	assert.Equal(t, "draft-1", app.DraftID)
	assert.Equal(t, testSubmitted, app.SubmittedAt)
	assert.Equal(t, *profile, app.ProfileAudit)

	// The draft aggregate reflects the transition in memory too.
	assert.Equal(t, models.StatusSubmitted, draft.Status)
	require.NotNil(t, draft.SubmittedAt)
	assert.Equal(t, testSubmitted, *draft.SubmittedAt)

	assert.Equal(t, 1, hook.calls)
	assert.Equal(t, "draft-1", hook.last.DraftID)
}

func TestSubmit_MergesProfileBeforeValidating(t *testing.T) {
	store := &fakeStore{}
	o := newOrchestrator(t, store)

	// The draft snapshot carries stale profile fields; the live profile is
	// what must be validated and persisted.
	draft, profile := completeDraft()
	draft.Snapshot.EmployerName = "Old Employer"
	draft.Snapshot.EmploymentStatus = models.EmploymentUnemployed

	_, rejection, err := o.Submit(context.Background(), draft, profile, testVCtx())
	require.NoError(t, err)
	require.Nil(t, rejection)

	assert.Equal(t, "Acme Ltd", store.lastSnap.EmployerName)
	assert.Equal(t, models.EmploymentEmployed, store.lastSnap.EmploymentStatus)
}

// ==========================
// Conflicts and Failures
// ==========================

func TestSubmit_AlreadySubmittedStatusShortCircuits(t *testing.T) {
	store := &fakeStore{}
	o := newOrchestrator(t, store)

	draft, profile := completeDraft()
	draft.Status = models.StatusSubmitted

	_, _, err := o.Submit(context.Background(), draft, profile, testVCtx())
	require.Error(t, err)
	assert.Equal(t, commonErrors.ErrCodeAlreadySubmitted, commonErrors.CodeOf(err))
	assert.Equal(t, 0, store.calls)
}

func TestSubmit_StoreConflictPassesThrough(t *testing.T) {
	store := &fakeStore{err: commonErrors.NewAlreadySubmittedError("draft-1")}
	hook := &fakeHook{name: "review_workflow"}
	o := newOrchestrator(t, store, hook)

	draft, profile := completeDraft()
	_, _, err := o.Submit(context.Background(), draft, profile, testVCtx())

	require.Error(t, err)
	assert.Equal(t, commonErrors.ErrCodeAlreadySubmitted, commonErrors.CodeOf(err))
	assert.Equal(t, 0, hook.calls, "hooks must not run when the flip lost the race")
	assert.Equal(t, models.StatusDraft, draft.Status)
}

func TestSubmit_StoreErrorLeavesDraftUntouched(t *testing.T) {
	store := &fakeStore{err: errors.New("connection lost")}
	o := newOrchestrator(t, store)

	draft, profile := completeDraft()
	_, _, err := o.Submit(context.Background(), draft, profile, testVCtx())

	require.Error(t, err)
	assert.Equal(t, models.StatusDraft, draft.Status)
	assert.Nil(t, draft.SubmittedAt)
}

func TestSubmit_HookFailureDoesNotUnwindSubmission(t *testing.T) {
	store := &fakeStore{}
	failing := &fakeHook{name: "search_index", err: errors.New("index unavailable")}
	second := &fakeHook{name: "notify"}
	o := newOrchestrator(t, store, failing, second)

	draft, profile := completeDraft()
	app, rejection, err := o.Submit(context.Background(), draft, profile, testVCtx())

	require.NoError(t, err, "a hook failure is never the applicant's problem")
	assert.Nil(t, rejection)
	require.NotNil(t, app)
	assert.Equal(t, models.StatusSubmitted, draft.Status)

	assert.Equal(t, 1, failing.calls)
	assert.Equal(t, 1, second.calls, "later hooks still run after an earlier failure")
}
