// internal/models/draft.go
package models

import "time"

// DraftStatus is the application lifecycle state. The wizard core only ever
// moves a draft from StatusDraft to StatusSubmitted; everything after that
// belongs to the review workflow.
type DraftStatus string

const (
	StatusDraft          DraftStatus = "draft"
	StatusSubmitted      DraftStatus = "submitted"
	StatusUnderReview    DraftStatus = "under_review"
	StatusVisitScheduled DraftStatus = "visit_scheduled"
	StatusVisitCompleted DraftStatus = "visit_completed"
	StatusApproved       DraftStatus = "approved"
	StatusRejected       DraftStatus = "rejected"
	StatusWithdrawn      DraftStatus = "withdrawn"
	StatusLeased         DraftStatus = "leased"
	StatusArchived       DraftStatus = "archived"
)

// IsTerminal reports whether no further wizard interaction is possible.
func (s DraftStatus) IsTerminal() bool {
	switch s {
	case StatusRejected, StatusWithdrawn, StatusLeased, StatusArchived:
		return true
	}
	return false
}

// Editable reports whether the wizard core may still modify the draft.
func (s DraftStatus) Editable() bool {
	return s == StatusDraft
}

// ApplicationDraft is the root aggregate for one (applicant, property) pair.
// At most one draft-status row exists per pair; submission flips this same
// row to submitted rather than creating a new one.
type ApplicationDraft struct {
	ID          string      `json:"id"`
	ApplicantID string      `json:"applicant_id"`
	PropertyID  string      `json:"property_id"`
	Status      DraftStatus `json:"status"`
	CurrentStep int         `json:"current_step"`
	Snapshot    Snapshot    `json:"snapshot"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
	SubmittedAt *time.Time  `json:"submitted_at,omitempty"`
}

// SubmittedApplication is the immutable result of a successful submission:
// the wizard snapshot plus a point-in-time audit copy of the profile fields
// as they stood when the applicant signed.
type SubmittedApplication struct {
	DraftID      string        `json:"draft_id"`
	ApplicantID  string        `json:"applicant_id"`
	PropertyID   string        `json:"property_id"`
	Snapshot     Snapshot      `json:"snapshot"`
	ProfileAudit TenantProfile `json:"profile_audit"`
	SubmittedAt  time.Time     `json:"submitted_at"`
}
