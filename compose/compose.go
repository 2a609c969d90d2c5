// Package compose flattens attributed lines into the final transcript.
package compose

import (
	"strings"

	"github.com/kbukum/voxalign/transcript"
)

// Transcript is the composited output: the ordered lines and the same lines
// rendered as "speaker: text" and joined by newlines.
type Transcript struct {
	Lines []transcript.Line `json:"lines" yaml:"lines"`
	Text  string            `json:"text" yaml:"text"`
}

// Compose renders lines in the order given. It never reorders or drops a line.
func Compose(lines []transcript.Line) Transcript {
	out := make([]transcript.Line, len(lines))
	copy(out, lines)

	var b strings.Builder
	for i, l := range out {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(l.Render())
	}
	return Transcript{Lines: out, Text: b.String()}
}

// Speakers lists the distinct speaker names in order of first appearance.
func (t Transcript) Speakers() []string {
	seen := make(map[string]struct{})
	var names []string
	for _, l := range t.Lines {
		if _, ok := seen[l.SpeakerName]; ok {
			continue
		}
		seen[l.SpeakerName] = struct{}{}
		names = append(names, l.SpeakerName)
	}
	return names
}

// Duration is the end of the last line in seconds.
func (t Transcript) Duration() float64 {
	var end float64
	for _, l := range t.Lines {
		end = max(end, l.SourceEnd)
	}
	return end
}
