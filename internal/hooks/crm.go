// internal/hooks/crm.go
package hooks

import (
	"context"

	"rental-wizard/internal/common/crm"
	commonErrors "rental-wizard/internal/common/errors"
	"rental-wizard/internal/common/logger"
	"rental-wizard/internal/models"
)

const stageApplicationSubmitted = "application_submitted"

// CRMSync moves the applicant's lead to the submitted stage so the lettings
// pipeline reflects the wizard state.
type CRMSync struct {
	client *crm.Client
	log    logger.Logger
}

func NewCRMSync(client *crm.Client, log logger.Logger) *CRMSync {
	return &CRMSync{client: client, log: log}
}

func (h *CRMSync) Name() string { return "crm_sync" }

func (h *CRMSync) AfterSubmit(ctx context.Context, app models.SubmittedApplication) error {
	profile := app.ProfileAudit
	lead := &crm.Lead{
		Email:      profile.Email,
		FirstName:  profile.FirstName,
		LastName:   profile.LastName,
		Phone:      profile.Phone,
		PropertyID: app.PropertyID,
		Stage:      stageApplicationSubmitted,
		Source:     "rental_wizard",
	}

	leadID, err := h.client.UpsertLead(ctx, lead)
	if err != nil {
		return commonErrors.NewCRMSyncFailedError(err)
	}

	h.log.Debug("crm lead updated", map[string]interface{}{
		"draftId": app.DraftID,
		"leadId":  leadID,
		"stage":   stageApplicationSubmitted,
	})
	return nil
}
