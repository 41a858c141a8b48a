// internal/common/errors/errors.go

// Package errors provides standardized error handling for the wizard core
// and its integrations.
package errors

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeDraftNotFound     ErrorCode = "DRAFT_NOT_FOUND"
	ErrCodeDraftNotEditable  ErrorCode = "DRAFT_NOT_EDITABLE"
	ErrCodeDraftAlreadyOpen  ErrorCode = "DRAFT_ALREADY_OPEN"
	ErrCodeSubmissionBlocked ErrorCode = "SUBMISSION_BLOCKED"
	ErrCodeAlreadySubmitted  ErrorCode = "ALREADY_SUBMITTED"

	ErrCodeProfileNotFound        ErrorCode = "PROFILE_NOT_FOUND"
	ErrCodeProfileFieldNotAllowed ErrorCode = "PROFILE_FIELD_NOT_ALLOWED"

	ErrCodeDocumentNotFound    ErrorCode = "DOCUMENT_NOT_FOUND"
	ErrCodeDocumentStoreFailed ErrorCode = "DOCUMENT_STORE_FAILED"

	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeQueryTimeout             ErrorCode = "QUERY_TIMEOUT"

	ErrCodePayloadSchemaInvalid ErrorCode = "PAYLOAD_SCHEMA_INVALID"

	ErrCodeSearchIndexFailed      ErrorCode = "SEARCH_INDEX_FAILED"
	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeCRMSyncFailed          ErrorCode = "CRM_SYNC_FAILED"
	ErrCodeWorkflowStartFailed    ErrorCode = "WORKFLOW_START_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// CodeOf extracts the error code from any error in the chain, or "" when the
// error is not a StandardError.
func CodeOf(err error) ErrorCode {
	var std *StandardError
	if errors.As(err, &std) {
		return std.Code
	}
	return ""
}

// ==========================
// Error Constructors
// ==========================

// NewDraftNotFoundError creates a non-retryable lookup error.
func NewDraftNotFoundError(draftID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDraftNotFound,
		Message:   "Application draft not found",
		Details:   fmt.Sprintf("draftId: %s", draftID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDraftNotEditableError creates a non-retryable state error for writes
// against a draft that already left draft status.
func NewDraftNotEditableError(draftID, status string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDraftNotEditable,
		Message:   "Draft is no longer editable",
		Details:   fmt.Sprintf("draftId: %s, status: %s", draftID, status),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewAlreadySubmittedError creates a non-retryable conflict error for a
// second submission of the same draft.
func NewAlreadySubmittedError(draftID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAlreadySubmitted,
		Message:   "Draft has already been submitted",
		Details:   fmt.Sprintf("draftId: %s", draftID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSubmissionBlockedError creates a non-retryable error for a submission
// attempt against incomplete data. The field errors travel in Metadata so
// callers can redirect the applicant.
func NewSubmissionBlockedError(firstInvalidStep int, fieldErrors map[string]string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSubmissionBlocked,
		Message:   "Application data is incomplete",
		Details:   fmt.Sprintf("firstInvalidStep: %d, fields: %d", firstInvalidStep, len(fieldErrors)),
		Retryable: false,
		Metadata: map[string]interface{}{
			"firstInvalidStep": firstInvalidStep,
			"fieldErrors":      fieldErrors,
		},
		Timestamp: time.Now().UTC(),
	}
}

// NewProfileNotFoundError creates a non-retryable lookup error.
func NewProfileNotFoundError(applicantID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeProfileNotFound,
		Message:   "Tenant profile not found",
		Details:   fmt.Sprintf("applicantId: %s", applicantID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewProfileFieldNotAllowedError creates a non-retryable error for a write
// to a field outside the profile allow-list.
func NewProfileFieldNotAllowedError(field string) *StandardError {
	return &StandardError{
		Code:      ErrCodeProfileFieldNotAllowed,
		Message:   "Field is not a writable profile field",
		Details:   fmt.Sprintf("field: %s", field),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDocumentNotFoundError creates a non-retryable lookup error.
func NewDocumentNotFoundError(slot string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDocumentNotFound,
		Message:   "Document not found for slot",
		Details:   fmt.Sprintf("slot: %s", slot),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDocumentStoreFailedError creates a retryable document storage error.
func NewDocumentStoreFailedError(slot string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDocumentStoreFailed,
		Message:   "Document storage operation failed",
		Details:   fmt.Sprintf("slot: %s, error: %s", slot, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseConnectionFailedError creates a retryable database connection error.
func NewDatabaseConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseConnectionFailed,
		Message:   "Database connection error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryExecutionFailedError creates a retryable query execution error.
func NewQueryExecutionFailedError(operation string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryExecutionFailed,
		Message:   "Database query execution error",
		Details:   fmt.Sprintf("operation: %s, error: %s", operation, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryTimeoutError creates a retryable query timeout error.
func NewQueryTimeoutError(operation string) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryTimeout,
		Message:   "Database query timeout",
		Details:   fmt.Sprintf("operation: %s", operation),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewPayloadSchemaInvalidError creates a non-retryable boundary error for a
// snapshot payload that fails structural schema validation.
func NewPayloadSchemaInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodePayloadSchemaInvalid,
		Message:   "Snapshot payload failed schema validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSearchIndexFailedError creates a retryable search indexing error.
func NewSearchIndexFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchIndexFailed,
		Message:   "Search index operation failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotificationSendFailedError creates a retryable notification send error.
func NewNotificationSendFailedError(notificationType string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   "Notification delivery failed",
		Details:   fmt.Sprintf("type: %s, error: %s", notificationType, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewCRMSyncFailedError creates a retryable CRM synchronization error.
func NewCRMSyncFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCRMSyncFailed,
		Message:   "CRM lead synchronization failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewWorkflowStartFailedError creates a retryable workflow engine error.
func NewWorkflowStartFailedError(processID string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeWorkflowStartFailed,
		Message:   "Review workflow could not be started",
		Details:   fmt.Sprintf("processId: %s, error: %s", processID, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// Generic constructors

func NewExternalServiceError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "EXTERNAL_SERVICE_ERROR",
		Message:   fmt.Sprintf("External service '%s' error", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewTimeoutError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "TIMEOUT_ERROR",
		Message:   fmt.Sprintf("Service '%s' timeout", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewResourceNotFoundError(service, details string) *StandardError {
	return &StandardError{
		Code:      "RESOURCE_NOT_FOUND",
		Message:   fmt.Sprintf("Resource not found in %s", service),
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// Utility Functions
// ==========================

// GetRetryCount returns the recommended retry count for integration hooks.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeDatabaseConnectionFailed,
		ErrCodeQueryExecutionFailed,
		ErrCodeDocumentStoreFailed,
		ErrCodeSearchIndexFailed,
		ErrCodeNotificationSendFailed,
		ErrCodeCRMSyncFailed,
		ErrCodeWorkflowStartFailed:
		return 3 // Retryable technical errors

	case ErrCodeQueryTimeout:
		return 2

	default:
		return 0 // Business errors: no retry
	}
}

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "DRAFT") || strings.Contains(codeStr, "SUBMISSION") || strings.Contains(codeStr, "SUBMITTED"):
		return "DRAFT"
	case strings.Contains(codeStr, "PROFILE"):
		return "PROFILE"
	case strings.Contains(codeStr, "DOCUMENT"):
		return "DOCUMENT"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "QUERY"):
		return "DATABASE"
	case strings.Contains(codeStr, "SCHEMA"):
		return "VALIDATION"
	case strings.Contains(codeStr, "SEARCH") || strings.Contains(codeStr, "NOTIFICATION") || strings.Contains(codeStr, "CRM") || strings.Contains(codeStr, "WORKFLOW"):
		return "INTEGRATION"
	default:
		return "OTHER"
	}
}
