package transcript

import "strings"

// Word is a single recognized word with its own timing.
type Word struct {
	Text       string  `json:"text" yaml:"text"`
	Start      float64 `json:"start" yaml:"start"`
	End        float64 `json:"end" yaml:"end"`
	Confidence float64 `json:"confidence" yaml:"confidence"`
}

// Utterance is one contiguous unit of speech. Start and End are seconds.
// SpeakerLabel is the provider's channel-local, 0-based diarization label.
type Utterance struct {
	Start        float64 `json:"start" yaml:"start"`
	End          float64 `json:"end" yaml:"end"`
	Text         string  `json:"text" yaml:"text"`
	Confidence   float64 `json:"confidence" yaml:"confidence"`
	SpeakerLabel int     `json:"speaker_label" yaml:"speaker_label"`
	Words        []Word  `json:"words,omitempty" yaml:"words,omitempty"`
}

// Duration returns End-Start, clamped to zero for inverted ranges.
func (u Utterance) Duration() float64 {
	if u.End < u.Start {
		return 0
	}
	return u.End - u.Start
}

// IsBlank reports whether the utterance has no text beyond whitespace.
func (u Utterance) IsBlank() bool {
	return strings.TrimSpace(u.Text) == ""
}

// CountNonBlank returns how many utterances carry text.
func CountNonBlank(utterances []Utterance) int {
	n := 0
	for _, u := range utterances {
		if !u.IsBlank() {
			n++
		}
	}
	return n
}
