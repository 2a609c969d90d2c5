package report

import (
	"context"
	"fmt"

	"github.com/kbukum/voxalign/channel"
	"github.com/kbukum/voxalign/errors"
	"github.com/kbukum/voxalign/logger"
	"github.com/kbukum/voxalign/observability"
	"github.com/kbukum/voxalign/transcript"
)

// AnalysisReport is the diagnostic snapshot taken before alignment. Mic maps
// are keyed by the 0-based mic index.
type AnalysisReport struct {
	MasterMixFound           bool         `json:"master_mix_found" yaml:"master_mix_found"`
	MasterMixFile            string       `json:"master_mix_file,omitempty" yaml:"master_mix_file,omitempty"`
	MasterMixUtteranceCount  int          `json:"master_mix_utterance_count" yaml:"master_mix_utterance_count"`
	MasterMixHasSpeech       bool         `json:"master_mix_has_speech" yaml:"master_mix_has_speech"`
	MicFilesFound            map[int]bool `json:"mic_files_found" yaml:"mic_files_found"`
	MicFileUtteranceCounts   map[int]int  `json:"mic_file_utterance_counts" yaml:"mic_file_utterance_counts"`
	MicFileSpeakerAlwaysZero map[int]bool `json:"mic_file_speaker_always_zero" yaml:"mic_file_speaker_always_zero"`
	TotalMicFilesFound       int          `json:"total_mic_files_found" yaml:"total_mic_files_found"`
	PhoneFound               bool         `json:"phone_found" yaml:"phone_found"`
	SoundPadFound            bool         `json:"sound_pad_found" yaml:"sound_pad_found"`
	UnknownFiles             []string     `json:"unknown_files,omitempty" yaml:"unknown_files,omitempty"`
	Errors                   []string     `json:"errors" yaml:"errors"`
	Warnings                 []string     `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// CanAlign reports whether a master transcript with speech is available.
// Utterances that are all blank do not count as speech.
func (r AnalysisReport) CanAlign() bool {
	return r.MasterMixFound && r.MasterMixHasSpeech
}

// Channels are the channels loaded during diagnosis, grouped for the later
// stages so that no source is read twice.
type Channels struct {
	// Master is the first master channel found, nil if none.
	Master *transcript.Channel
	// Individuals are the single-speaker channels in source order.
	Individuals []transcript.Channel
	// Unknown channels are neither master nor single-speaker.
	Unknown []transcript.Channel
}

// Diagnoser scans channel sources.
type Diagnoser struct {
	log     *logger.Logger
	metrics *observability.Metrics
}

// DiagnoserOption configures a Diagnoser.
type DiagnoserOption func(*Diagnoser)

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) DiagnoserOption {
	return func(d *Diagnoser) { d.log = l }
}

// WithMetrics records per-channel load failures.
func WithMetrics(m *observability.Metrics) DiagnoserOption {
	return func(d *Diagnoser) { d.metrics = m }
}

// NewDiagnoser creates a Diagnoser.
func NewDiagnoser(opts ...DiagnoserOption) *Diagnoser {
	d := &Diagnoser{}
	for _, opt := range opts {
		opt(d)
	}
	d.log = logger.OrNop(d.log).WithComponent("diagnostics")
	return d
}

// Diagnose loads and classifies every source. A source that fails to load,
// or panics while loading, is recorded in Errors and skipped; the remaining
// sources are still diagnosed. The only error returned is the context's.
func (d *Diagnoser) Diagnose(ctx context.Context, sources []transcript.Source, assignments transcript.Assignments) (AnalysisReport, Channels, error) {
	rep := AnalysisReport{
		MicFilesFound:            make(map[int]bool),
		MicFileUtteranceCounts:   make(map[int]int),
		MicFileSpeakerAlwaysZero: make(map[int]bool),
		Errors:                   []string{},
	}
	var chans Channels

	for _, src := range sources {
		if src == nil {
			continue
		}
		if err := ctx.Err(); err != nil {
			return AnalysisReport{}, Channels{}, err
		}

		name := src.FileName()
		role, _ := channel.Classify(name)
		utts, err := load(ctx, src)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return AnalysisReport{}, Channels{}, ctxErr
			}
			rep.Errors = append(rep.Errors, errors.ChannelLoadFailed(name, err).Error())
			d.metrics.RecordChannelError(ctx, role.String())
			d.log.Warn("channel could not be loaded", logger.MergeWithError(logger.Fields(
				logger.FieldChannel, name,
				logger.FieldRole, role.String(),
			), err))
			continue
		}

		ch := channel.Identify(name, utts)
		switch ch.Role {
		case transcript.RoleMaster:
			if chans.Master != nil {
				rep.Warnings = append(rep.Warnings, fmt.Sprintf("%s: additional master channel ignored, using %s", name, chans.Master.FileName))
				continue
			}
			chans.Master = &ch
			rep.MasterMixFound = true
			rep.MasterMixFile = name
			rep.MasterMixUtteranceCount = len(utts)
			rep.MasterMixHasSpeech = ch.HasSpeech()
			if !rep.MasterMixHasSpeech {
				rep.Warnings = append(rep.Warnings, fmt.Sprintf("%s: master channel has no speech", name))
			}

		case transcript.RoleIndividualMic:
			if rep.MicFilesFound[ch.MicIndex] {
				rep.Warnings = append(rep.Warnings, fmt.Sprintf("%s: duplicate channel for mic %d ignored", name, ch.MicNumber()))
				continue
			}
			rep.MicFilesFound[ch.MicIndex] = true
			rep.MicFileUtteranceCounts[ch.MicIndex] = len(utts)
			rep.MicFileSpeakerAlwaysZero[ch.MicIndex] = speakerAlwaysZero(utts)
			rep.TotalMicFilesFound++
			if !rep.MicFileSpeakerAlwaysZero[ch.MicIndex] {
				rep.Warnings = append(rep.Warnings, fmt.Sprintf("%s: more than one diarization label on a single-speaker channel", name))
			}
			if _, ok := assignments.Lookup(ch.MicIndex); !ok {
				rep.Warnings = append(rep.Warnings, fmt.Sprintf("%s: no participant assigned to mic %d", name, ch.MicNumber()))
			}
			chans.Individuals = append(chans.Individuals, ch)

		case transcript.RolePhone, transcript.RoleSoundPad:
			if ch.Role == transcript.RolePhone {
				rep.PhoneFound = true
			} else {
				rep.SoundPadFound = true
			}
			chans.Individuals = append(chans.Individuals, ch)

		default:
			rep.UnknownFiles = append(rep.UnknownFiles, name)
			rep.Warnings = append(rep.Warnings, fmt.Sprintf("%s: file name does not identify a channel role", name))
			chans.Unknown = append(chans.Unknown, ch)
		}

		d.log.Debug("channel diagnosed", logger.Fields(
			logger.FieldChannel, name,
			logger.FieldRole, ch.Role.String(),
			"utterances", len(utts),
		))
	}

	return rep, chans, nil
}

// load reads one source, turning a panic into an error.
func load(ctx context.Context, src transcript.Source) (utts []transcript.Utterance, err error) {
	defer func() {
		if r := recover(); r != nil {
			utts = nil
			err = fmt.Errorf("panic while loading: %v", r)
		}
	}()
	return src.Load(ctx)
}

// speakerAlwaysZero is vacuously true for an empty channel.
func speakerAlwaysZero(utts []transcript.Utterance) bool {
	for _, u := range utts {
		if u.SpeakerLabel != 0 {
			return false
		}
	}
	return true
}
