package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodeOf(t *testing.T) {
	err := NewDraftNotFoundError("draft-1")
	assert.Equal(t, ErrCodeDraftNotFound, CodeOf(err))

	// Wrapping must not hide the code.
	wrapped := fmt.Errorf("loading draft: %w", err)
	assert.Equal(t, ErrCodeDraftNotFound, CodeOf(wrapped))

	assert.Equal(t, ErrorCode(""), CodeOf(stderrors.New("plain error")))
	assert.Equal(t, ErrorCode(""), CodeOf(nil))
}

func TestConstructorsCarryMetadata(t *testing.T) {
	t.Run("submission blocked keeps the redirect step and field errors", func(t *testing.T) {
		err := NewSubmissionBlockedError(3, map[string]string{"employer_name": "this field is required"})
		require.Equal(t, ErrCodeSubmissionBlocked, err.Code)
		assert.False(t, err.Retryable)
		assert.Equal(t, 3, err.Metadata["firstInvalidStep"])
		assert.NotNil(t, err.Metadata["fieldErrors"])
	})

	t.Run("already submitted is a conflict, not a retry candidate", func(t *testing.T) {
		err := NewAlreadySubmittedError("draft-1")
		assert.Equal(t, ErrCodeAlreadySubmitted, err.Code)
		assert.False(t, err.Retryable)
	})

	t.Run("query failures are retryable", func(t *testing.T) {
		err := NewQueryExecutionFailedError("draft save", stderrors.New("connection reset"))
		assert.Equal(t, ErrCodeQueryExecutionFailed, err.Code)
		assert.True(t, err.Retryable)
		assert.Contains(t, err.Details, "connection reset")
	})
}

func TestRetryClassification(t *testing.T) {
	assert.True(t, IsRetryableErrorCode(ErrCodeDatabaseConnectionFailed))
	assert.True(t, IsRetryableErrorCode(ErrCodeQueryTimeout))
	assert.False(t, IsRetryableErrorCode(ErrCodeDraftNotFound))
	assert.False(t, IsRetryableErrorCode(ErrCodeProfileFieldNotAllowed))

	assert.Greater(t, GetRetryCount(ErrCodeQueryTimeout), 0)
	assert.Equal(t, 0, GetRetryCount(ErrCodeAlreadySubmitted))
}

func TestErrorString(t *testing.T) {
	err := NewProfileNotFoundError("applicant-1")
	assert.Contains(t, err.Error(), string(ErrCodeProfileNotFound))
}
