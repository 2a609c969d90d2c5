// Package attribute assigns every utterance of a single-speaker channel to
// the channel's owner without any scoring.
package attribute

import (
	"context"
	"fmt"
	"regexp"

	"github.com/kbukum/voxalign/channel"
	"github.com/kbukum/voxalign/errors"
	"github.com/kbukum/voxalign/logger"
	"github.com/kbukum/voxalign/pipeline"
	"github.com/kbukum/voxalign/transcript"
)

// stalePrefix matches a speaker prefix left in the text by an earlier
// rendering of the same transcript, e.g. "Speaker 1: can you hear me?".
var stalePrefix = regexp.MustCompile(`(?i)^\s*(?:speaker\s+\d+|unknown\s+speaker)\s*:\s*`)

// Result is the attributed form of one channel.
type Result struct {
	FileName string            `json:"file_name" yaml:"file_name"`
	Role     transcript.Role   `json:"role" yaml:"role"`
	Owner    string            `json:"owner" yaml:"owner"`
	Resolved bool              `json:"resolved" yaml:"resolved"`
	Lines    []transcript.Line `json:"lines" yaml:"lines"`
	// Diagnostic explains a placeholder owner; empty when Resolved.
	Diagnostic string `json:"diagnostic,omitempty" yaml:"diagnostic,omitempty"`
}

// Attributor converts single-speaker channels into owner lines.
type Attributor struct {
	labels channel.Labels
	log    *logger.Logger
}

// Option configures an Attributor.
type Option func(*Attributor)

// WithLabels sets the fixed and placeholder labels.
func WithLabels(l channel.Labels) Option {
	return func(a *Attributor) { a.labels = l }
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(a *Attributor) { a.log = l }
}

// New creates an Attributor with the default labels.
func New(opts ...Option) *Attributor {
	a := &Attributor{labels: channel.DefaultLabels()}
	for _, opt := range opts {
		opt(a)
	}
	a.log = logger.OrNop(a.log).WithComponent("attribute")
	return a
}

// Attribute emits one line per non-blank utterance of ch, in order, all
// spoken by the channel's owner. Channels whose role is not single-speaker
// are rejected with CHANNEL_NOT_SINGLE_SPEAKER. An unassigned mic still
// produces lines, under its placeholder name, and a diagnostic.
func (a *Attributor) Attribute(ctx context.Context, ch transcript.Channel, assignments transcript.Assignments) (Result, error) {
	if !ch.Role.IsSingleSpeaker() {
		return Result{}, errors.NotSingleSpeaker(ch.FileName, ch.Role.String())
	}

	owner, resolved := channel.Owner(ch, assignments, a.labels)
	kind := transcript.KindDirect
	if !resolved {
		kind = transcript.KindPlaceholder
	}

	spoken := pipeline.Filter(pipeline.FromSlice(ch.Utterances), func(u transcript.Utterance) bool {
		return !u.IsBlank()
	})
	toLines := pipeline.Map(spoken, func(_ context.Context, u transcript.Utterance) (transcript.Line, error) {
		return transcript.Line{
			SpeakerName: owner,
			Text:        StripSpeakerPrefix(u.Text),
			SourceStart: u.Start,
			SourceEnd:   u.End,
			Kind:        kind,
		}, nil
	})
	lines, err := pipeline.Collect(ctx, toLines)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		FileName: ch.FileName,
		Role:     ch.Role,
		Owner:    owner,
		Resolved: resolved,
		Lines:    lines,
	}
	if !resolved {
		res.Diagnostic = fmt.Sprintf("%s: no participant assigned to mic %d, lines labeled %q", ch.FileName, ch.MicNumber(), owner)
		a.log.Warn("mic has no assignment", logger.Fields(
			logger.FieldChannel, ch.FileName,
			logger.FieldMicIndex, ch.MicIndex,
			logger.FieldSpeaker, owner,
		))
	}
	return res, nil
}

// StripSpeakerPrefix removes a leading "Speaker N:" or "Unknown Speaker:"
// label from text.
func StripSpeakerPrefix(text string) string {
	return stalePrefix.ReplaceAllString(text, "")
}
