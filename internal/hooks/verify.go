// internal/hooks/verify.go
package hooks

import (
	"context"

	"rental-wizard/internal/common/logger"
	"rental-wizard/internal/models"
)

// ProfileVerifier writes the computed verification flag back to the profile.
type ProfileVerifier interface {
	SetVerified(ctx context.Context, applicantID string, verified bool) error
}

// DocumentChecker resolves the applicant's stored document slots.
type DocumentChecker interface {
	ExistingDocuments(ctx context.Context, applicantID string) (models.DocumentSet, error)
}

// Verification marks the profile verified once the minimum identity set is
// on file: name, date of birth, email and both sides of the ID document. A
// profile that is already verified stays verified.
type Verification struct {
	profiles ProfileVerifier
	docs     DocumentChecker
	log      logger.Logger
}

func NewVerification(profiles ProfileVerifier, docs DocumentChecker, log logger.Logger) *Verification {
	return &Verification{profiles: profiles, docs: docs, log: log}
}

func (h *Verification) Name() string { return "profile_verification" }

func (h *Verification) AfterSubmit(ctx context.Context, app models.SubmittedApplication) error {
	if app.ProfileAudit.Verified {
		return nil
	}

	profile := app.ProfileAudit
	if profile.FirstName == "" || profile.LastName == "" || profile.DateOfBirth == "" || profile.Email == "" {
		return nil
	}

	docs, err := h.docs.ExistingDocuments(ctx, app.ApplicantID)
	if err != nil {
		return err
	}
	hasID := (docs.Has(models.DocIDFront) || app.Snapshot.HasNewDocument(models.DocIDFront)) &&
		(docs.Has(models.DocIDBack) || app.Snapshot.HasNewDocument(models.DocIDBack))
	if !hasID {
		return nil
	}

	if err := h.profiles.SetVerified(ctx, app.ApplicantID, true); err != nil {
		return err
	}
	h.log.Info("profile auto-verified", map[string]interface{}{
		"applicantId": app.ApplicantID,
	})
	return nil
}
