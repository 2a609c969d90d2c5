package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// HTTPStatus is the status the HTTP host answers with for this error.
	HTTPStatus int `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  IsRetryableCode(code),
	}
}

// InvalidSettings reports a settings field that failed validation.
func InvalidSettings(message string) *AppError {
	return New(ErrCodeInvalidSettings, message, http.StatusBadRequest)
}

// InvalidPayload reports a provider payload that could not be decoded.
func InvalidPayload(fileName string, cause error) *AppError {
	return New(ErrCodeInvalidPayload, fmt.Sprintf("transcription payload for %s is not valid", fileName), http.StatusUnprocessableEntity).
		WithDetail("file_name", fileName).
		WithCause(cause)
}

// MissingField reports a required request field that was not supplied.
func MissingField(field string) *AppError {
	return New(ErrCodeMissingField, fmt.Sprintf("missing required field: %s", field), http.StatusBadRequest).
		WithDetail("field", field)
}

// NoMasterTranscript reports that a run had nothing to attribute.
func NoMasterTranscript() *AppError {
	return New(ErrCodeNoMasterTranscript, "no master transcript to attribute", http.StatusUnprocessableEntity)
}

// ChannelLoadFailed reports a channel whose transcription data could not be read.
func ChannelLoadFailed(fileName string, cause error) *AppError {
	return New(ErrCodeChannelLoadFailed, fmt.Sprintf("reading transcription for %s failed", fileName), http.StatusUnprocessableEntity).
		WithDetail("file_name", fileName).
		WithCause(cause)
}

// NotSingleSpeaker reports a channel handed to direct attribution whose role
// does not guarantee a single speaker.
func NotSingleSpeaker(fileName, role string) *AppError {
	return New(ErrCodeNotSingleSpeaker, fmt.Sprintf("%s has role %s and cannot be attributed directly", fileName, role), http.StatusBadRequest).
		WithDetail("file_name", fileName).
		WithDetail("role", role)
}

// ToneUnavailable reports a failed tone summary.
func ToneUnavailable(cause error) *AppError {
	return New(ErrCodeToneUnavailable, "conversation tone could not be generated", http.StatusServiceUnavailable).
		WithCause(cause)
}

// Canceled wraps a context error that stopped a run.
func Canceled(stage string, cause error) *AppError {
	return New(ErrCodeCanceled, fmt.Sprintf("run canceled during %s", stage), http.StatusRequestTimeout).
		WithDetail("stage", stage).
		WithCause(cause)
}

// Internal wraps an unexpected failure.
func Internal(cause error) *AppError {
	return New(ErrCodeInternal, "an unexpected error occurred", http.StatusInternalServerError).
		WithCause(cause)
}

// IsCanceled reports whether err stems from context cancellation or deadline.
func IsCanceled(err error) bool {
	if appErr, ok := AsAppError(err); ok && appErr.Code == ErrCodeCanceled {
		return true
	}
	return stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded)
}
