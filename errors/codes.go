package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Input errors
const (
	// ErrCodeInvalidSettings indicates alignment settings failed validation.
	ErrCodeInvalidSettings ErrorCode = "INVALID_SETTINGS"
	// ErrCodeInvalidPayload indicates a provider payload could not be decoded.
	ErrCodeInvalidPayload ErrorCode = "INVALID_PAYLOAD"
	// ErrCodeMissingField indicates a required request field is missing.
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"
)

// Attribution errors
const (
	// ErrCodeNoMasterTranscript indicates there is nothing to attribute.
	ErrCodeNoMasterTranscript ErrorCode = "NO_MASTER_TRANSCRIPT"
	// ErrCodeChannelLoadFailed indicates a channel's transcription data could not be read.
	ErrCodeChannelLoadFailed ErrorCode = "CHANNEL_LOAD_FAILED"
	// ErrCodeNotSingleSpeaker indicates a channel cannot be attributed to one owner.
	ErrCodeNotSingleSpeaker ErrorCode = "CHANNEL_NOT_SINGLE_SPEAKER"
	// ErrCodeToneUnavailable indicates the tone summarizer failed or is absent.
	ErrCodeToneUnavailable ErrorCode = "TONE_UNAVAILABLE"
)

// Execution errors
const (
	// ErrCodeCanceled indicates the caller's context ended the run.
	ErrCodeCanceled ErrorCode = "CANCELED"
	// ErrCodeInternal indicates an unexpected failure.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeChannelLoadFailed: true,
	ErrCodeToneUnavailable:   true,
	ErrCodeCanceled:          true,
}

// IsRetryableCode returns true if re-running the same request may succeed.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
