package testutil

import (
	"context"
	"errors"
	"strings"

	"github.com/kbukum/voxalign/channel"
	"github.com/kbukum/voxalign/transcript"
)

// ErrLoad is returned by FailingSource.
var ErrLoad = errors.New("testutil: transcription unavailable")

// Utt builds an utterance with speaker label 0 and one word per token.
func Utt(start, end float64, text string) transcript.Utterance {
	return UttLabel(start, end, text, 0)
}

// UttLabel builds an utterance with an explicit diarization label.
func UttLabel(start, end float64, text string, label int) transcript.Utterance {
	u := transcript.Utterance{
		Start:        start,
		End:          end,
		Text:         text,
		Confidence:   0.9,
		SpeakerLabel: label,
	}
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return u
	}
	step := (end - start) / float64(len(fields))
	for i, f := range fields {
		u.Words = append(u.Words, transcript.Word{
			Text:       f,
			Start:      start + float64(i)*step,
			End:        start + float64(i+1)*step,
			Confidence: 0.9,
		})
	}
	return u
}

// Channel builds a classified channel.
func Channel(fileName string, utterances ...transcript.Utterance) transcript.Channel {
	return channel.Identify(fileName, utterances)
}

// Source builds an in-memory source.
func Source(fileName string, utterances ...transcript.Utterance) transcript.Source {
	return transcript.NewStaticSource(fileName, utterances)
}

// FailingSource always fails to load with ErrLoad.
type FailingSource struct{ Name string }

func (s FailingSource) FileName() string { return s.Name }

func (s FailingSource) Load(context.Context) ([]transcript.Utterance, error) {
	return nil, ErrLoad
}

// PanickingSource panics on load, standing in for a corrupt payload that
// trips a decoder bug.
type PanickingSource struct{ Name string }

func (s PanickingSource) FileName() string { return s.Name }

func (s PanickingSource) Load(context.Context) ([]transcript.Utterance, error) {
	panic("testutil: corrupt transcription for " + s.Name)
}

// Render renders every line as "speaker: text".
func Render(lines []transcript.Line) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.Render()
	}
	return out
}

// Speakers returns the speaker name of every line.
func Speakers(lines []transcript.Line) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.SpeakerName
	}
	return out
}

// Equal reports whether two string slices are identical.
func Equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
