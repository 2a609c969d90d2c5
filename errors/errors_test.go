package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestAppError_New_Retryable(t *testing.T) {
	err := New(ErrCodeChannelLoadFailed, "read failed", http.StatusUnprocessableEntity)
	if !err.Retryable {
		t.Error("CHANNEL_LOAD_FAILED should be retryable")
	}
	err = New(ErrCodeInvalidSettings, "bad", http.StatusBadRequest)
	if err.Retryable {
		t.Error("INVALID_SETTINGS should not be retryable")
	}
}

func TestAppError_Error_Format(t *testing.T) {
	err := NoMasterTranscript()
	if got := err.Error(); got != "NO_MASTER_TRANSCRIPT: no master transcript to attribute" {
		t.Errorf("unexpected error string %q", got)
	}

	withCause := ChannelLoadFailed("MIC1.WAV", fmt.Errorf("eof"))
	if !strings.Contains(withCause.Error(), "(cause: eof)") {
		t.Errorf("expected cause in error string, got %q", withCause.Error())
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := stderrors.New("unexpected end of JSON input")
	err := InvalidPayload("MIX.WAV", cause)
	if !stderrors.Is(err, cause) {
		t.Error("expected errors.Is to find the cause")
	}
	if err.Details["file_name"] != "MIX.WAV" {
		t.Errorf("expected file_name detail, got %v", err.Details["file_name"])
	}
}

func TestAppError_Constructors_Table(t *testing.T) {
	tests := []struct {
		name   string
		err    *AppError
		code   ErrorCode
		status int
	}{
		{"invalid settings", InvalidSettings("threshold: is invalid"), ErrCodeInvalidSettings, http.StatusBadRequest},
		{"invalid payload", InvalidPayload("a.json", nil), ErrCodeInvalidPayload, http.StatusUnprocessableEntity},
		{"missing field", MissingField("channels"), ErrCodeMissingField, http.StatusBadRequest},
		{"no master", NoMasterTranscript(), ErrCodeNoMasterTranscript, http.StatusUnprocessableEntity},
		{"not single speaker", NotSingleSpeaker("MIX.WAV", "master"), ErrCodeNotSingleSpeaker, http.StatusBadRequest},
		{"tone", ToneUnavailable(nil), ErrCodeToneUnavailable, http.StatusServiceUnavailable},
		{"canceled", Canceled("align", context.Canceled), ErrCodeCanceled, http.StatusRequestTimeout},
		{"internal", Internal(nil), ErrCodeInternal, http.StatusInternalServerError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.err.Code != tc.code {
				t.Errorf("expected code %s, got %s", tc.code, tc.err.Code)
			}
			if tc.err.HTTPStatus != tc.status {
				t.Errorf("expected status %d, got %d", tc.status, tc.err.HTTPStatus)
			}
		})
	}
}

func TestIsCanceled(t *testing.T) {
	if !IsCanceled(context.Canceled) {
		t.Error("context.Canceled should be canceled")
	}
	if !IsCanceled(fmt.Errorf("align: %w", context.DeadlineExceeded)) {
		t.Error("wrapped deadline should be canceled")
	}
	if !IsCanceled(Canceled("compose", nil)) {
		t.Error("CANCELED app error should be canceled")
	}
	if IsCanceled(stderrors.New("boom")) {
		t.Error("plain error should not be canceled")
	}
}

func TestFrom(t *testing.T) {
	if From(nil) != nil {
		t.Error("expected nil for nil error")
	}

	orig := MissingField("assignments")
	if got := From(fmt.Errorf("wrap: %w", orig)); got != orig {
		t.Error("expected wrapped AppError to pass through")
	}

	if got := From(context.Canceled); got.Code != ErrCodeCanceled {
		t.Errorf("expected CANCELED, got %s", got.Code)
	}

	if got := From(stderrors.New("boom")); got.Code != ErrCodeInternal {
		t.Errorf("expected INTERNAL_ERROR, got %s", got.Code)
	}
}

func TestAppError_ToResponse(t *testing.T) {
	resp := NotSingleSpeaker("MIX.WAV", "master").ToResponse()
	if resp.Error.Code != ErrCodeNotSingleSpeaker {
		t.Errorf("expected code in response, got %s", resp.Error.Code)
	}
	if resp.Error.Details["role"] != "master" {
		t.Errorf("expected role detail, got %v", resp.Error.Details["role"])
	}
}
