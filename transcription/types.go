package transcription

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Unit is the time unit used by a payload's timestamps.
type Unit string

const (
	// UnitMilliseconds is the default unit when a payload does not name one.
	UnitMilliseconds Unit = "ms"
	// UnitSeconds marks payloads that already carry seconds.
	UnitSeconds Unit = "s"
)

// scale returns the factor that converts the unit to seconds.
func (u Unit) scale() (float64, error) {
	switch u {
	case "", UnitMilliseconds:
		return 0.001, nil
	case UnitSeconds:
		return 1, nil
	default:
		return 0, fmt.Errorf("unsupported time unit %q", string(u))
	}
}

// TranscriptionResponse is the already-fetched output of a transcription
// provider for one audio file.
type TranscriptionResponse struct {
	// ID is the provider's job identifier, if any.
	ID string `json:"id,omitempty"`
	// Status is the provider's job status. Only "completed" or empty is accepted.
	Status string `json:"status,omitempty"`
	// Unit is the time unit of every start/end value in the payload.
	Unit Unit `json:"unit,omitempty"`
	// Language is the detected or requested language code.
	Language string `json:"language,omitempty"`
	// Utterances are the speaker turns in provider order.
	Utterances []Utterance `json:"utterances"`
}

// Utterance is one provider speaker turn.
type Utterance struct {
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	Speaker    Label   `json:"speaker"`
	Words      []Word  `json:"words,omitempty"`
}

// Word is one recognized word with its own timing.
type Word struct {
	Text       string  `json:"text"`
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Confidence float64 `json:"confidence"`
}

// Label is a provider diarization label normalized to a 0-based index.
// Providers emit letters ("A", "B", ... "AA"), prefixed ids ("SPEAKER_01")
// or plain integers, as JSON strings or numbers.
type Label int

// UnmarshalJSON implements json.Unmarshaler.
func (l *Label) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*l = 0
		return nil
	}
	if len(b) > 0 && b[0] != '"' {
		var n int
		if err := json.Unmarshal(b, &n); err != nil {
			return fmt.Errorf("speaker label %s: %w", b, err)
		}
		if n < 0 {
			return fmt.Errorf("speaker label %d is negative", n)
		}
		if _, err := checkLabel(string(b), n); err != nil {
			return err
		}
		*l = Label(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	n, err := ParseLabel(s)
	if err != nil {
		return err
	}
	*l = Label(n)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (l Label) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Itoa(int(l))), nil
}

// maxLabel bounds speaker indexes. No diarizer emits anywhere near this
// many speakers, and letter labels past it would overflow.
const maxLabel = 1 << 16

// ParseLabel converts a textual speaker label to its 0-based index. An empty
// label is speaker 0.
func ParseLabel(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 {
			return 0, fmt.Errorf("speaker label %q is negative", s)
		}
		return checkLabel(s, n)
	}
	if i := strings.LastIndexAny(s, "_- "); i >= 0 {
		n, err := strconv.Atoi(s[i+1:])
		if err != nil || n < 0 {
			return 0, fmt.Errorf("speaker label %q has no numeric suffix", s)
		}
		return checkLabel(s, n)
	}
	n := 0
	for _, r := range strings.ToUpper(s) {
		if r < 'A' || r > 'Z' {
			return 0, fmt.Errorf("speaker label %q is not recognized", s)
		}
		n = n*26 + int(r-'A'+1)
		if n > maxLabel+1 {
			return 0, fmt.Errorf("speaker label %q is out of range", s)
		}
	}
	return n - 1, nil
}

func checkLabel(s string, n int) (int, error) {
	if n > maxLabel {
		return 0, fmt.Errorf("speaker label %q is out of range", s)
	}
	return n, nil
}
