package channel

import (
	"fmt"

	"github.com/kbukum/voxalign/transcript"
)

// Labels are the fixed speaker names used when no participant is known.
type Labels struct {
	Unknown       string `yaml:"unknown" mapstructure:"unknown" json:"unknown"`
	Phone         string `yaml:"phone" mapstructure:"phone" json:"phone"`
	SoundPad      string `yaml:"sound_pad" mapstructure:"sound_pad" json:"sound_pad"`
	MicFormat     string `yaml:"mic_format" mapstructure:"mic_format" json:"mic_format"`
	SpeakerFormat string `yaml:"speaker_format" mapstructure:"speaker_format" json:"speaker_format"`
}

// DefaultLabels returns the stock speaker labels.
func DefaultLabels() Labels {
	return Labels{
		Unknown:       "Unknown Speaker",
		Phone:         "Phone Input",
		SoundPad:      "Sound Pad",
		MicFormat:     "Mic %d",
		SpeakerFormat: "Speaker %d",
	}
}

// ApplyDefaults fills empty labels from DefaultLabels.
func (l *Labels) ApplyDefaults() {
	d := DefaultLabels()
	if l.Unknown == "" {
		l.Unknown = d.Unknown
	}
	if l.Phone == "" {
		l.Phone = d.Phone
	}
	if l.SoundPad == "" {
		l.SoundPad = d.SoundPad
	}
	if l.MicFormat == "" {
		l.MicFormat = d.MicFormat
	}
	if l.SpeakerFormat == "" {
		l.SpeakerFormat = d.SpeakerFormat
	}
}

// Mic renders the placeholder for an unassigned mic; n is the 1-based number.
func (l Labels) Mic(n int) string {
	return fmt.Sprintf(l.MicFormat, n)
}

// Speaker renders the last-resort label for a diarization label (0-based).
func (l Labels) Speaker(label int) string {
	return fmt.Sprintf(l.SpeakerFormat, label+1)
}

// Owner resolves the speaker name for a single-speaker channel. resolved is
// false when the name is a placeholder: an unassigned mic, or a role that
// has no single owner.
func Owner(ch transcript.Channel, assignments transcript.Assignments, labels Labels) (name string, resolved bool) {
	switch ch.Role {
	case transcript.RoleIndividualMic:
		if name, ok := assignments.Lookup(ch.MicIndex); ok {
			return name, true
		}
		return labels.Mic(ch.MicNumber()), false
	case transcript.RolePhone:
		return labels.Phone, true
	case transcript.RoleSoundPad:
		return labels.SoundPad, true
	default:
		return "", false
	}
}
