// internal/hooks/review.go

// Package hooks contains the post-submission fan-out. Every hook runs after
// the submission is durable; a hook failure is logged and counted but never
// unwinds the submission.
package hooks

import (
	"context"

	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"

	"rental-wizard/internal/common/camunda"
	commonErrors "rental-wizard/internal/common/errors"
	"rental-wizard/internal/common/logger"
	"rental-wizard/internal/models"
)

// ReviewWorkflow starts the landlord review process for each submitted
// application.
type ReviewWorkflow struct {
	client    *camunda.Client
	processID string
	log       logger.Logger
}

func NewReviewWorkflow(client *camunda.Client, processID string, log logger.Logger) *ReviewWorkflow {
	return &ReviewWorkflow{client: client, processID: processID, log: log}
}

func (h *ReviewWorkflow) Name() string { return "review_workflow" }

func (h *ReviewWorkflow) AfterSubmit(ctx context.Context, app models.SubmittedApplication) error {
	variables := map[string]interface{}{
		"draftId":     app.DraftID,
		"applicantId": app.ApplicantID,
		"propertyId":  app.PropertyID,
		"submittedAt": app.SubmittedAt,
	}

	result, err := h.client.ExecuteWithRetry(ctx, func(ctx context.Context) (interface{}, error) {
		cmd, err := h.client.GetClient().NewCreateInstanceCommand().
			BPMNProcessId(h.processID).
			LatestVersion().
			VariablesFromMap(variables)
		if err != nil {
			return nil, err
		}
		return cmd.Send(ctx)
	}, "start review workflow")
	if err != nil {
		return commonErrors.NewWorkflowStartFailedError(h.processID, err)
	}

	resp := result.(*pb.CreateProcessInstanceResponse)
	h.log.Info("review workflow started", map[string]interface{}{
		"draftId":            app.DraftID,
		"processInstanceKey": resp.GetProcessInstanceKey(),
	})
	return nil
}
