package hooks

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rental-wizard/internal/common/logger"
	"rental-wizard/internal/models"
)

type fakeVerifier struct {
	calls    int
	verified bool
	err      error
}

func (f *fakeVerifier) SetVerified(ctx context.Context, applicantID string, verified bool) error {
	f.calls++
	f.verified = verified
	return f.err
}

type fakeChecker struct {
	docs models.DocumentSet
	err  error
}

func (f *fakeChecker) ExistingDocuments(ctx context.Context, applicantID string) (models.DocumentSet, error) {
	return f.docs, f.err
}

func submittedApp() models.SubmittedApplication {
	return models.SubmittedApplication{
		DraftID:     "draft-1",
		ApplicantID: "applicant-1",
		PropertyID:  "property-1",
		ProfileAudit: models.TenantProfile{
			ApplicantID: "applicant-1",
			FirstName:   "Ana",
			LastName:    "Silva",
			DateOfBirth: "1990-04-12",
			Email:       "ana@example.com",
		},
	}
}

func TestVerification_VerifiesCompleteProfile(t *testing.T) {
	verifier := &fakeVerifier{}
	checker := &fakeChecker{docs: models.DocumentSet{
		models.DocIDFront: true,
		models.DocIDBack:  true,
	}}
	hook := NewVerification(verifier, checker, logger.NewTestLogger(t))

	require.NoError(t, hook.AfterSubmit(context.Background(), submittedApp()))
	assert.Equal(t, 1, verifier.calls)
	assert.True(t, verifier.verified)
}

func TestVerification_SkipsAlreadyVerified(t *testing.T) {
	verifier := &fakeVerifier{}
	hook := NewVerification(verifier, &fakeChecker{}, logger.NewTestLogger(t))

	app := submittedApp()
	app.ProfileAudit.Verified = true
	require.NoError(t, hook.AfterSubmit(context.Background(), app))
	assert.Equal(t, 0, verifier.calls)
}

func TestVerification_RequiresIdentityFields(t *testing.T) {
	verifier := &fakeVerifier{}
	checker := &fakeChecker{docs: models.DocumentSet{
		models.DocIDFront: true,
		models.DocIDBack:  true,
	}}
	hook := NewVerification(verifier, checker, logger.NewTestLogger(t))

	app := submittedApp()
	app.ProfileAudit.DateOfBirth = ""
	require.NoError(t, hook.AfterSubmit(context.Background(), app))
	assert.Equal(t, 0, verifier.calls, "incomplete identity must not verify")
}

func TestVerification_RequiresBothIDSides(t *testing.T) {
	verifier := &fakeVerifier{}
	checker := &fakeChecker{docs: models.DocumentSet{models.DocIDFront: true}}
	hook := NewVerification(verifier, checker, logger.NewTestLogger(t))

	require.NoError(t, hook.AfterSubmit(context.Background(), submittedApp()))
	assert.Equal(t, 0, verifier.calls)
}

func TestVerification_CountsFreshSnapshotDocuments(t *testing.T) {
	verifier := &fakeVerifier{}
	checker := &fakeChecker{docs: models.DocumentSet{models.DocIDFront: true}}
	hook := NewVerification(verifier, checker, logger.NewTestLogger(t))

	app := submittedApp()
	app.Snapshot.NewDocuments = models.DocumentSet{models.DocIDBack: true}
	require.NoError(t, hook.AfterSubmit(context.Background(), app))
	assert.Equal(t, 1, verifier.calls)
}

func TestVerification_PropagatesLookupFailure(t *testing.T) {
	checker := &fakeChecker{err: errors.New("cache down")}
	hook := NewVerification(&fakeVerifier{}, checker, logger.NewTestLogger(t))

	assert.Error(t, hook.AfterSubmit(context.Background(), submittedApp()))
}

func TestVerification_Name(t *testing.T) {
	hook := NewVerification(&fakeVerifier{}, &fakeChecker{}, logger.NewNoOpLogger())
	assert.Equal(t, "profile_verification", hook.Name())
}
