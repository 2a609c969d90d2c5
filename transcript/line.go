package transcript

import (
	"fmt"
	"strings"
)

// LineKind records how a line's speaker was decided.
type LineKind string

const (
	// KindMatched is a master utterance matched to an individual channel.
	KindMatched LineKind = "matched"
	// KindUnmatched is a master utterance with no acceptable match.
	KindUnmatched LineKind = "unmatched"
	// KindFallback is a master utterance labeled from its diarization label.
	KindFallback LineKind = "fallback"
	// KindDirect is an utterance from a single-speaker channel with a known owner.
	KindDirect LineKind = "direct"
	// KindPlaceholder is a single-speaker utterance whose owner is unassigned.
	KindPlaceholder LineKind = "placeholder"
)

// Line is one speaker-attributed utterance. MatchScore is zero unless Kind
// is KindMatched.
type Line struct {
	SpeakerName string   `json:"speaker_name" yaml:"speaker_name"`
	Text        string   `json:"text" yaml:"text"`
	SourceStart float64  `json:"source_start" yaml:"source_start"`
	SourceEnd   float64  `json:"source_end" yaml:"source_end"`
	MatchScore  float64  `json:"match_score" yaml:"match_score"`
	Kind        LineKind `json:"kind" yaml:"kind"`
}

// Render formats the line as "speaker: text".
func (l Line) Render() string {
	return fmt.Sprintf("%s: %s", l.SpeakerName, strings.TrimSpace(l.Text))
}

// IsMatched reports whether the line counts toward matched utterances.
// Fallback lines are attributed without search and count as matched.
func (l Line) IsMatched() bool {
	return l.Kind != KindUnmatched
}
