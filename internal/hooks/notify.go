// internal/hooks/notify.go
package hooks

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	commonErrors "rental-wizard/internal/common/errors"
	"rental-wizard/internal/common/logger"
	"rental-wizard/internal/models"
)

// Interfaces over the AWS clients so tests can mock them.
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// Notifier confirms the submission to the applicant by email, and by SMS
// when a phone number is on the profile.
type Notifier struct {
	sesClient  SESService
	snsClient  SNSService
	fromEmail  string
	smsEnabled bool
	log        logger.Logger
}

func NewNotifier(sesClient SESService, snsClient SNSService, fromEmail string, smsEnabled bool, log logger.Logger) *Notifier {
	return &Notifier{
		sesClient:  sesClient,
		snsClient:  snsClient,
		fromEmail:  fromEmail,
		smsEnabled: smsEnabled,
		log:        log,
	}
}

func (h *Notifier) Name() string { return "notify" }

func (h *Notifier) AfterSubmit(ctx context.Context, app models.SubmittedApplication) error {
	profile := app.ProfileAudit

	subject := "Your rental application has been submitted"
	body := fmt.Sprintf(
		"Hi %s,\n\nYour application for property %s was submitted on %s. "+
			"The landlord will review it and you will hear back through this address.\n",
		profile.FirstName, app.PropertyID, app.SubmittedAt.Format("2 January 2006"))

	if profile.Email != "" {
		if err := h.sendEmail(ctx, profile.Email, subject, body); err != nil {
			return commonErrors.NewNotificationSendFailedError("email", err)
		}
	}

	if h.smsEnabled && profile.Phone != "" {
		if err := h.sendSMS(ctx, profile.Phone, "Your rental application was submitted. Check your email for details."); err != nil {
			// Email already went out; an SMS failure alone is not worth a retry loop.
			h.log.Warn("submission SMS failed", map[string]interface{}{
				"draftId": app.DraftID,
				"error":   err.Error(),
			})
		}
	}

	h.log.Info("submission notification sent", map[string]interface{}{
		"draftId": app.DraftID,
	})
	return nil
}

func (h *Notifier) sendEmail(ctx context.Context, to, subject, body string) error {
	_, err := h.sesClient.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
			},
		},
		Source: aws.String(h.fromEmail),
	})
	return err
}

func (h *Notifier) sendSMS(ctx context.Context, to, message string) error {
	_, err := h.snsClient.Publish(ctx, &sns.PublishInput{
		PhoneNumber: aws.String(to),
		Message:     aws.String(message),
	})
	return err
}
