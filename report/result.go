package report

import (
	"strings"

	"github.com/kbukum/voxalign/align"
	"github.com/kbukum/voxalign/analytics"
	"github.com/kbukum/voxalign/attribute"
	"github.com/kbukum/voxalign/compose"
	"github.com/kbukum/voxalign/errors"
	"github.com/kbukum/voxalign/transcript"
)

// DefaultUnmatchedPreview caps AttributionResult.UnmatchedTexts.
const DefaultUnmatchedPreview = 20

// Stage is the last stage a run completed.
type Stage string

const (
	StageNotRun     Stage = "not_run"
	StageDiagnosed  Stage = "diagnosed"
	StageAligned    Stage = "aligned"
	StageComposited Stage = "composited"
	StageAnalyzed   Stage = "analyzed"
	StageReported   Stage = "reported"
)

// AttributionResult is what a host persists or displays after a run.
type AttributionResult struct {
	RunID                string               `json:"run_id" yaml:"run_id"`
	Success              bool                 `json:"success" yaml:"success"`
	ErrorMessage         string               `json:"error_message,omitempty" yaml:"error_message,omitempty"`
	OutputTranscript     string               `json:"output_transcript" yaml:"output_transcript"`
	AttributedLines      []transcript.Line    `json:"attributed_lines" yaml:"attributed_lines"`
	TotalUtterances      int                  `json:"total_utterances" yaml:"total_utterances"`
	MatchedUtterances    int                  `json:"matched_utterances" yaml:"matched_utterances"`
	UnmatchedUtterances  int                  `json:"unmatched_utterances" yaml:"unmatched_utterances"`
	PerSpeakerStatistics analytics.Statistics `json:"per_speaker_statistics" yaml:"per_speaker_statistics"`
	UnmatchedTexts       []string             `json:"unmatched_texts" yaml:"unmatched_texts"`
	Mode                 align.Mode           `json:"mode" yaml:"mode"`
	ChannelTranscripts   []attribute.Result   `json:"channel_transcripts" yaml:"channel_transcripts"`
	Analysis             *AnalysisReport      `json:"analysis,omitempty" yaml:"analysis,omitempty"`
	Stage                Stage                `json:"stage" yaml:"stage"`
	EngineVersion        string               `json:"engine_version" yaml:"engine_version"`
}

// MatchRate is the share of master utterances attributed to a speaker, 0
// when there were none.
func (r *AttributionResult) MatchRate() float64 {
	if r.TotalUtterances == 0 {
		return 0
	}
	return float64(r.MatchedUtterances) / float64(r.TotalUtterances)
}

// Build carries everything BuildResult packages.
type Build struct {
	RunID              string
	EngineVersion      string
	Analysis           *AnalysisReport
	Transcript         compose.Transcript
	Mode               align.Mode
	Statistics         analytics.Statistics
	ChannelTranscripts []attribute.Result
	// UnmatchedPreview caps UnmatchedTexts; values below 1 use the default.
	UnmatchedPreview int
	// Failure is set when the run could not attribute anything.
	Failure error
}

// BuildResult assembles the AttributionResult. Counts are derived from the
// lines themselves so that matched + unmatched always equals total.
func BuildResult(b Build) *AttributionResult {
	limit := b.UnmatchedPreview
	if limit < 1 {
		limit = DefaultUnmatchedPreview
	}

	res := &AttributionResult{
		RunID:                b.RunID,
		Success:              b.Failure == nil,
		OutputTranscript:     b.Transcript.Text,
		AttributedLines:      b.Transcript.Lines,
		PerSpeakerStatistics: b.Statistics,
		UnmatchedTexts:       []string{},
		Mode:                 b.Mode,
		ChannelTranscripts:   b.ChannelTranscripts,
		Analysis:             b.Analysis,
		Stage:                StageReported,
		EngineVersion:        b.EngineVersion,
	}
	if b.Failure != nil {
		res.ErrorMessage = b.Failure.Error()
		if msg, ok := failureMessage(b.Failure); ok {
			res.ErrorMessage = msg
		}
	}
	if res.AttributedLines == nil {
		res.AttributedLines = []transcript.Line{}
	}
	if res.ChannelTranscripts == nil {
		res.ChannelTranscripts = []attribute.Result{}
	}

	for _, l := range res.AttributedLines {
		res.TotalUtterances++
		if l.IsMatched() {
			res.MatchedUtterances++
			continue
		}
		res.UnmatchedUtterances++
		if len(res.UnmatchedTexts) < limit {
			res.UnmatchedTexts = append(res.UnmatchedTexts, strings.TrimSpace(l.Text))
		}
	}
	return res
}

// failureMessage prefers the human message of an AppError over its
// code-prefixed Error string.
func failureMessage(err error) (string, bool) {
	appErr, ok := errors.AsAppError(err)
	if !ok {
		return "", false
	}
	return appErr.Message, true
}
