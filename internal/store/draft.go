// internal/store/draft.go

// Package store persists drafts, profiles and documents in PostgreSQL, with
// Redis in front of the document presence lookups.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	commonErrors "rental-wizard/internal/common/errors"
	"rental-wizard/internal/common/logger"
	"rental-wizard/internal/common/validation"
	"rental-wizard/internal/models"
	"rental-wizard/internal/wizard/catalog"
	"rental-wizard/internal/wizard/validate"
)

// DocumentLister resolves which document slots an applicant already has on
// file, independent of any draft.
type DocumentLister interface {
	ExistingDocuments(ctx context.Context, applicantID string) (models.DocumentSet, error)
}

// DraftStore owns the application_drafts and submitted_applications tables.
type DraftStore struct {
	db   *sql.DB
	docs DocumentLister
	log  logger.Logger
}

func NewDraftStore(db *sql.DB, docs DocumentLister, log logger.Logger) *DraftStore {
	return &DraftStore{db: db, docs: docs, log: log}
}

const draftColumns = `id, applicant_id, property_id, status, current_step, snapshot, created_at, updated_at, submitted_at`

// GetOrCreate returns the applicant's open draft for a property, creating an
// empty one when none exists. At most one draft-status row per
// (applicant, property) pair; the partial unique index in the schema backs
// this up, so a racing insert surfaces as a constraint error rather than a
// second open draft.
func (s *DraftStore) GetOrCreate(ctx context.Context, applicantID, propertyID string) (*models.ApplicationDraft, error) {
	draft, err := s.scanDraft(s.db.QueryRowContext(ctx,
		`SELECT `+draftColumns+` FROM application_drafts
		 WHERE applicant_id = $1 AND property_id = $2 AND status = 'draft'`,
		applicantID, propertyID))
	if err == nil {
		return draft, nil
	}
	if err != sql.ErrNoRows {
		return nil, scanFailure("draft lookup", err)
	}

	now := time.Now().UTC()
	draft = &models.ApplicationDraft{
		ID:          uuid.New().String(),
		ApplicantID: applicantID,
		PropertyID:  propertyID,
		Status:      models.StatusDraft,
		CurrentStep: 0,
		Snapshot:    models.Snapshot{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	raw, err := json.Marshal(draft.Snapshot)
	if err != nil {
		return nil, err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO application_drafts (id, applicant_id, property_id, status, current_step, snapshot, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		draft.ID, applicantID, propertyID, draft.Status, draft.CurrentStep, raw, now, now)
	if err != nil {
		return nil, commonErrors.NewQueryExecutionFailedError("draft insert", err)
	}
	s.log.Info("draft created", map[string]interface{}{
		"draftId":     draft.ID,
		"applicantId": applicantID,
		"propertyId":  propertyID,
	})
	return draft, nil
}

// Get loads one draft by id.
func (s *DraftStore) Get(ctx context.Context, draftID string) (*models.ApplicationDraft, error) {
	draft, err := s.scanDraft(s.db.QueryRowContext(ctx,
		`SELECT `+draftColumns+` FROM application_drafts WHERE id = $1`, draftID))
	if err == sql.ErrNoRows {
		return nil, commonErrors.NewDraftNotFoundError(draftID)
	}
	if err != nil {
		return nil, scanFailure("draft get", err)
	}
	return draft, nil
}

// SaveStep persists a snapshot and returns the authoritative current step.
//
// The proposed step is never trusted: the store re-runs the same validator
// the navigation layer uses and caps the stored step at the first step the
// data cannot support. A stale client proposing a step beyond what the
// snapshot justifies gets the capped value back.
func (s *DraftStore) SaveStep(ctx context.Context, draftID string, snap *models.Snapshot, proposedStep int) (int, error) {
	var applicantID string
	var status models.DraftStatus
	err := s.db.QueryRowContext(ctx,
		`SELECT applicant_id, status FROM application_drafts WHERE id = $1`, draftID).
		Scan(&applicantID, &status)
	if err == sql.ErrNoRows {
		return 0, commonErrors.NewDraftNotFoundError(draftID)
	}
	if err != nil {
		return 0, commonErrors.NewQueryExecutionFailedError("draft status check", err)
	}
	if !status.Editable() {
		return 0, commonErrors.NewDraftNotEditableError(draftID, string(status))
	}

	docs, err := s.docs.ExistingDocuments(ctx, applicantID)
	if err != nil {
		return 0, err
	}

	frontier := catalog.StepCount - 1
	if step, found := validate.FirstInvalidStep(snap, validate.Context{Docs: docs}); found {
		frontier = int(step)
	}
	authoritative := proposedStep
	if authoritative > frontier {
		authoritative = frontier
	}
	if authoritative < 0 {
		authoritative = 0
	}

	raw, err := json.Marshal(snap)
	if err != nil {
		return 0, err
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE application_drafts SET snapshot = $1, current_step = $2, updated_at = $3
		 WHERE id = $4 AND status = 'draft'`,
		raw, authoritative, time.Now().UTC(), draftID)
	if err != nil {
		return 0, commonErrors.NewQueryExecutionFailedError("draft save", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return 0, commonErrors.NewDraftNotEditableError(draftID, string(status))
	}
	return authoritative, nil
}

// MarkSubmitted flips the draft to submitted exactly once and records the
// immutable application row in the same transaction. The status guard in the
// UPDATE is the one-shot lock: of two racing submissions only one update
// matches a draft-status row.
func (s *DraftStore) MarkSubmitted(ctx context.Context, draftID string, snap models.Snapshot, profile models.TenantProfile, at time.Time) (models.SubmittedApplication, error) {
	var app models.SubmittedApplication

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return app, commonErrors.NewDatabaseConnectionFailedError(err)
	}
	defer tx.Rollback()

	rawSnap, err := json.Marshal(snap)
	if err != nil {
		return app, err
	}
	res, err := tx.ExecContext(ctx,
		`UPDATE application_drafts SET status = 'submitted', snapshot = $1, submitted_at = $2, updated_at = $2
		 WHERE id = $3 AND status = 'draft'`,
		rawSnap, at, draftID)
	if err != nil {
		return app, commonErrors.NewQueryExecutionFailedError("draft submit", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var exists bool
		if scanErr := tx.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM application_drafts WHERE id = $1)`, draftID).
			Scan(&exists); scanErr == nil && !exists {
			return app, commonErrors.NewDraftNotFoundError(draftID)
		}
		return app, commonErrors.NewAlreadySubmittedError(draftID)
	}

	var applicantID, propertyID string
	err = tx.QueryRowContext(ctx,
		`SELECT applicant_id, property_id FROM application_drafts WHERE id = $1`, draftID).
		Scan(&applicantID, &propertyID)
	if err != nil {
		return app, commonErrors.NewQueryExecutionFailedError("draft read after submit", err)
	}

	rawProfile, err := json.Marshal(profile)
	if err != nil {
		return app, err
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO submitted_applications (draft_id, applicant_id, property_id, snapshot, profile_audit, submitted_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		draftID, applicantID, propertyID, rawSnap, rawProfile, at)
	if err != nil {
		return app, commonErrors.NewQueryExecutionFailedError("submission insert", err)
	}

	if err := tx.Commit(); err != nil {
		return app, commonErrors.NewQueryExecutionFailedError("submission commit", err)
	}

	app = models.SubmittedApplication{
		DraftID:      draftID,
		ApplicantID:  applicantID,
		PropertyID:   propertyID,
		Snapshot:     snap,
		ProfileAudit: profile,
		SubmittedAt:  at,
	}
	return app, nil
}

// ListOpenDrafts streams every draft-status row, for maintenance tooling
// that recomputes step positions after rule changes.
func (s *DraftStore) ListOpenDrafts(ctx context.Context) ([]*models.ApplicationDraft, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+draftColumns+` FROM application_drafts WHERE status = 'draft' ORDER BY updated_at`)
	if err != nil {
		return nil, commonErrors.NewQueryExecutionFailedError("draft list", err)
	}
	defer rows.Close()

	var drafts []*models.ApplicationDraft
	for rows.Next() {
		draft, err := s.scanDraft(rows)
		if err != nil {
			return nil, scanFailure("draft scan", err)
		}
		drafts = append(drafts, draft)
	}
	return drafts, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanFailure wraps row decoding errors as query failures, but lets a schema
// violation keep its own code so callers can tell a corrupt payload from a
// database fault.
func scanFailure(operation string, err error) error {
	if commonErrors.CodeOf(err) == commonErrors.ErrCodePayloadSchemaInvalid {
		return err
	}
	return commonErrors.NewQueryExecutionFailedError(operation, err)
}

func (s *DraftStore) scanDraft(row rowScanner) (*models.ApplicationDraft, error) {
	var draft models.ApplicationDraft
	var raw []byte
	var submittedAt sql.NullTime
	err := row.Scan(&draft.ID, &draft.ApplicantID, &draft.PropertyID, &draft.Status,
		&draft.CurrentStep, &raw, &draft.CreatedAt, &draft.UpdatedAt, &submittedAt)
	if err != nil {
		return nil, err
	}
	// The stored payload is structurally checked before it is decoded. Rows
	// written by an older schema revision, or edited out of band, surface as
	// PAYLOAD_SCHEMA_INVALID instead of silently feeding the wizard core.
	if err := validation.ValidateSnapshotPayload(raw); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &draft.Snapshot); err != nil {
		return nil, err
	}
	if submittedAt.Valid {
		t := submittedAt.Time
		draft.SubmittedAt = &t
	}
	return &draft, nil
}
