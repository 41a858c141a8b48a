package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonErrors "rental-wizard/internal/common/errors"
	"rental-wizard/internal/common/logger"
	"rental-wizard/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

type fakeLister struct {
	docs models.DocumentSet
	err  error
}

func (f *fakeLister) ExistingDocuments(ctx context.Context, applicantID string) (models.DocumentSet, error) {
	return f.docs, f.err
}

func newDraftStore(t *testing.T, docs models.DocumentSet) (*DraftStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewDraftStore(db, &fakeLister{docs: docs}, logger.NewTestLogger(t)), mock
}

func draftRow(t *testing.T, id string, status models.DraftStatus, step int, snap models.Snapshot) *sqlmock.Rows {
	t.Helper()
	raw, err := json.Marshal(snap)
	require.NoError(t, err)
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	return sqlmock.NewRows([]string{
		"id", "applicant_id", "property_id", "status", "current_step",
		"snapshot", "created_at", "updated_at", "submitted_at",
	}).AddRow(id, "applicant-1", "property-1", string(status), step, raw, now, now, nil)
}

// ==========================
// GetOrCreate
// ==========================

func TestGetOrCreate_ReturnsExistingOpenDraft(t *testing.T) {
	store, mock := newDraftStore(t, nil)

	snap := models.Snapshot{ReasonForMoving: "job_relocation"}
	mock.ExpectQuery(`SELECT (.+) FROM application_drafts`).
		WithArgs("applicant-1", "property-1").
		WillReturnRows(draftRow(t, "draft-1", models.StatusDraft, 2, snap))

	draft, err := store.GetOrCreate(context.Background(), "applicant-1", "property-1")
	require.NoError(t, err)
	assert.Equal(t, "draft-1", draft.ID)
	assert.Equal(t, 2, draft.CurrentStep)
	assert.Equal(t, "job_relocation", draft.Snapshot.ReasonForMoving)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrCreate_CreatesEmptyDraftWhenNoneOpen(t *testing.T) {
	store, mock := newDraftStore(t, nil)

	mock.ExpectQuery(`SELECT (.+) FROM application_drafts`).
		WithArgs("applicant-1", "property-1").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec(`INSERT INTO application_drafts`).
		WithArgs(sqlmock.AnyArg(), "applicant-1", "property-1", string(models.StatusDraft), 0,
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	draft, err := store.GetOrCreate(context.Background(), "applicant-1", "property-1")
	require.NoError(t, err)
	assert.NotEmpty(t, draft.ID)
	assert.Equal(t, models.StatusDraft, draft.Status)
	assert.Equal(t, 0, draft.CurrentStep)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ==========================
// Get
// ==========================

func TestGet_NotFound(t *testing.T) {
	store, mock := newDraftStore(t, nil)

	mock.ExpectQuery(`SELECT (.+) FROM application_drafts WHERE id = \$1`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := store.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, commonErrors.ErrCodeDraftNotFound, commonErrors.CodeOf(err))
}

func TestGet_RejectsCorruptSnapshotPayload(t *testing.T) {
	store, mock := newDraftStore(t, nil)

	// A row whose payload drifted from the snapshot shape must not reach
	// the wizard core; the structural gate reports it with its own code.
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"id", "applicant_id", "property_id", "status", "current_step",
		"snapshot", "created_at", "updated_at", "submitted_at",
	}).AddRow("draft-1", "applicant-1", "property-1", "draft", 0,
		[]byte(`{"lease_duration_months":"twelve","favourite_colour":"blue"}`), now, now, nil)

	mock.ExpectQuery(`SELECT (.+) FROM application_drafts WHERE id = \$1`).
		WithArgs("draft-1").
		WillReturnRows(rows)

	_, err := store.Get(context.Background(), "draft-1")
	require.Error(t, err)
	assert.Equal(t, commonErrors.ErrCodePayloadSchemaInvalid, commonErrors.CodeOf(err))
}

// ==========================
// SaveStep
// ==========================

func TestSaveStep_CapsProposedStepAtFrontier(t *testing.T) {
	store, mock := newDraftStore(t, nil)

	mock.ExpectQuery(`SELECT applicant_id, status FROM application_drafts WHERE id = \$1`).
		WithArgs("draft-1").
		WillReturnRows(sqlmock.NewRows([]string{"applicant_id", "status"}).
			AddRow("applicant-1", "draft"))

	// An empty snapshot supports nothing past step 0; proposing step 5 must
	// persist and return 0.
	snap := &models.Snapshot{}
	raw, err := json.Marshal(snap)
	require.NoError(t, err)
	mock.ExpectExec(`UPDATE application_drafts SET snapshot = \$1, current_step = \$2`).
		WithArgs(raw, 0, sqlmock.AnyArg(), "draft-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	authoritative, err := store.SaveStep(context.Background(), "draft-1", snap, 5)
	require.NoError(t, err)
	assert.Equal(t, 0, authoritative)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveStep_KeepsProposedStepWithinFrontier(t *testing.T) {
	store, mock := newDraftStore(t, models.DocumentSet{
		models.DocIDFront: true,
		models.DocIDBack:  true,
	})

	mock.ExpectQuery(`SELECT applicant_id, status FROM application_drafts WHERE id = \$1`).
		WithArgs("draft-1").
		WillReturnRows(sqlmock.NewRows([]string{"applicant_id", "status"}).
			AddRow("applicant-1", "draft"))

	// Tenancy and personal details hold up, so the frontier sits at the
	// employment step and a proposal of 2 passes through untouched.
	snap := &models.Snapshot{
		DesiredMoveInDate:   time.Now().UTC().AddDate(0, 2, 0).Format("2006-01-02"),
		LeaseDurationMonths: 12,
		ImmigrationStatus:   models.ImmigrationCitizen,
	}
	raw, err := json.Marshal(snap)
	require.NoError(t, err)
	mock.ExpectExec(`UPDATE application_drafts SET snapshot = \$1, current_step = \$2`).
		WithArgs(raw, 2, sqlmock.AnyArg(), "draft-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	authoritative, err := store.SaveStep(context.Background(), "draft-1", snap, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, authoritative)
}

func TestSaveStep_RejectsNonDraftStatus(t *testing.T) {
	store, mock := newDraftStore(t, nil)

	mock.ExpectQuery(`SELECT applicant_id, status FROM application_drafts WHERE id = \$1`).
		WithArgs("draft-1").
		WillReturnRows(sqlmock.NewRows([]string{"applicant_id", "status"}).
			AddRow("applicant-1", "submitted"))

	_, err := store.SaveStep(context.Background(), "draft-1", &models.Snapshot{}, 0)
	require.Error(t, err)
	assert.Equal(t, commonErrors.ErrCodeDraftNotEditable, commonErrors.CodeOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveStep_NotFound(t *testing.T) {
	store, mock := newDraftStore(t, nil)

	mock.ExpectQuery(`SELECT applicant_id, status FROM application_drafts WHERE id = \$1`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := store.SaveStep(context.Background(), "missing", &models.Snapshot{}, 0)
	require.Error(t, err)
	assert.Equal(t, commonErrors.ErrCodeDraftNotFound, commonErrors.CodeOf(err))
}

// ==========================
// MarkSubmitted
// ==========================

func TestMarkSubmitted_FlipsStatusOnce(t *testing.T) {
	store, mock := newDraftStore(t, nil)

	snap := models.Snapshot{DigitalSignature: "Ana Silva"}
	rawSnap, err := json.Marshal(snap)
	require.NoError(t, err)
	profile := models.TenantProfile{ApplicantID: "applicant-1", FirstName: "Ana"}
	rawProfile, err := json.Marshal(profile)
	require.NoError(t, err)
	at := time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE application_drafts SET status = 'submitted'`).
		WithArgs(rawSnap, at, "draft-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT applicant_id, property_id FROM application_drafts WHERE id = \$1`).
		WithArgs("draft-1").
		WillReturnRows(sqlmock.NewRows([]string{"applicant_id", "property_id"}).
			AddRow("applicant-1", "property-1"))
	mock.ExpectExec(`INSERT INTO submitted_applications`).
		WithArgs("draft-1", "applicant-1", "property-1", rawSnap, rawProfile, at).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	app, err := store.MarkSubmitted(context.Background(), "draft-1", snap, profile, at)
	require.NoError(t, err)
	assert.Equal(t, "draft-1", app.DraftID)
	assert.Equal(t, "applicant-1", app.ApplicantID)
	assert.Equal(t, "property-1", app.PropertyID)
	assert.Equal(t, at, app.SubmittedAt)
	assert.Equal(t, profile, app.ProfileAudit)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkSubmitted_SecondAttemptConflicts(t *testing.T) {
	store, mock := newDraftStore(t, nil)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE application_drafts SET status = 'submitted'`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("draft-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	_, err := store.MarkSubmitted(context.Background(), "draft-1",
		models.Snapshot{}, models.TenantProfile{}, time.Now().UTC())
	require.Error(t, err)
	assert.Equal(t, commonErrors.ErrCodeAlreadySubmitted, commonErrors.CodeOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkSubmitted_MissingDraft(t *testing.T) {
	store, mock := newDraftStore(t, nil)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE application_drafts SET status = 'submitted'`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectRollback()

	_, err := store.MarkSubmitted(context.Background(), "missing",
		models.Snapshot{}, models.TenantProfile{}, time.Now().UTC())
	require.Error(t, err)
	assert.Equal(t, commonErrors.ErrCodeDraftNotFound, commonErrors.CodeOf(err))
}

// ==========================
// ListOpenDrafts
// ==========================

func TestListOpenDrafts(t *testing.T) {
	store, mock := newDraftStore(t, nil)

	rows := draftRow(t, "draft-1", models.StatusDraft, 1, models.Snapshot{})
	raw, _ := json.Marshal(models.Snapshot{})
	now := time.Date(2026, 3, 15, 11, 0, 0, 0, time.UTC)
	rows.AddRow("draft-2", "applicant-2", "property-2", "draft", 4, raw, now, now, nil)

	mock.ExpectQuery(`SELECT (.+) FROM application_drafts WHERE status = 'draft'`).
		WillReturnRows(rows)

	drafts, err := store.ListOpenDrafts(context.Background())
	require.NoError(t, err)
	require.Len(t, drafts, 2)
	assert.Equal(t, "draft-1", drafts[0].ID)
	assert.Equal(t, 4, drafts[1].CurrentStep)
}
