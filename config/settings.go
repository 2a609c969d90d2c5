package config

import (
	"fmt"
	"time"

	"github.com/kbukum/voxalign/channel"
	"github.com/kbukum/voxalign/logger"
	"github.com/kbukum/voxalign/observability"
	"github.com/kbukum/voxalign/report"
	"github.com/kbukum/voxalign/server"
	"github.com/kbukum/voxalign/similarity"
	"github.com/kbukum/voxalign/tone"
	"github.com/kbukum/voxalign/transcript"
	"github.com/kbukum/voxalign/validation"
)

// ServiceName is the name used for config discovery, env prefixes and telemetry.
const ServiceName = "voxalign"

// Settings is the complete voxalign configuration.
type Settings struct {
	Name          string               `yaml:"name" mapstructure:"name" validate:"required"`
	Environment   string               `yaml:"environment" mapstructure:"environment" validate:"oneof=development staging production"`
	Alignment     AlignmentSettings    `yaml:"alignment" mapstructure:"alignment"`
	Labels        channel.Labels       `yaml:"labels" mapstructure:"labels"`
	Report        ReportSettings       `yaml:"report" mapstructure:"report"`
	Tone          ToneSettings         `yaml:"tone" mapstructure:"tone"`
	Assignments   map[string]string    `yaml:"assignments" mapstructure:"assignments"`
	Logging       logger.Config        `yaml:"logging" mapstructure:"logging"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
	Server        server.Config        `yaml:"server" mapstructure:"server"`
}

// AlignmentSettings tune the similarity scorer and the aligner. A zero
// threshold, or two zero weights, mean "use the default".
type AlignmentSettings struct {
	OverlapWeight float64 `yaml:"overlap_weight" mapstructure:"overlap_weight" validate:"gte=0,lte=1"`
	LexicalWeight float64 `yaml:"lexical_weight" mapstructure:"lexical_weight" validate:"gte=0,lte=1"`
	Threshold     float64 `yaml:"threshold" mapstructure:"threshold" validate:"gte=0,lt=1"`
	// Workers bounds the parallel best-match search; 0 uses GOMAXPROCS.
	Workers int `yaml:"workers" mapstructure:"workers" validate:"gte=0"`
}

// ReportSettings shape the attribution result.
type ReportSettings struct {
	UnmatchedPreview int `yaml:"unmatched_preview" mapstructure:"unmatched_preview" validate:"gte=0"`
}

// ToneSettings configure the optional tone summary.
// Attempts counts the first call to the backend. After BreakerFailures
// failed summaries in a row the backend is skipped for BreakerCooldown.
type ToneSettings struct {
	Enabled         bool          `yaml:"enabled" mapstructure:"enabled"`
	MaxChars        int           `yaml:"max_chars" mapstructure:"max_chars" validate:"gte=0"`
	BaseURL         string        `yaml:"base_url" mapstructure:"base_url"`
	Model           string        `yaml:"model" mapstructure:"model"`
	Attempts        int           `yaml:"attempts" mapstructure:"attempts" validate:"gte=0,lte=10"`
	BreakerFailures int           `yaml:"breaker_failures" mapstructure:"breaker_failures" validate:"gte=0"`
	BreakerCooldown time.Duration `yaml:"breaker_cooldown" mapstructure:"breaker_cooldown" validate:"gte=0"`
}

// Default returns settings with every default applied.
func Default() *Settings {
	s := &Settings{}
	s.ApplyDefaults()
	return s
}

// ApplyDefaults fills unset fields.
func (s *Settings) ApplyDefaults() {
	if s.Name == "" {
		s.Name = ServiceName
	}
	if s.Environment == "" {
		s.Environment = "development"
	}
	if s.Alignment.OverlapWeight == 0 && s.Alignment.LexicalWeight == 0 {
		s.Alignment.OverlapWeight = similarity.DefaultOverlapWeight
		s.Alignment.LexicalWeight = similarity.DefaultLexicalWeight
	}
	if s.Alignment.Threshold == 0 {
		s.Alignment.Threshold = similarity.DefaultThreshold
	}
	if s.Report.UnmatchedPreview == 0 {
		s.Report.UnmatchedPreview = report.DefaultUnmatchedPreview
	}
	if s.Tone.MaxChars == 0 {
		s.Tone.MaxChars = tone.DefaultMaxChars
	}
	if s.Tone.Attempts == 0 {
		s.Tone.Attempts = 2
	}
	if s.Tone.BreakerFailures == 0 {
		s.Tone.BreakerFailures = 3
	}
	if s.Tone.BreakerCooldown == 0 {
		s.Tone.BreakerCooldown = time.Minute
	}
	s.Labels.ApplyDefaults()
	s.Logging.ApplyDefaults()
	if s.Observability.Environment == "" {
		s.Observability.Environment = s.Environment
	}
	s.Observability.ApplyDefaults()
	s.Server.ApplyDefaults()
}

// Validate checks struct tags first, then the rules that span fields.
func (s *Settings) Validate() error {
	if err := validation.Validate(s); err != nil {
		return err
	}

	v := validation.New().
		Custom(s.Alignment.OverlapWeight+s.Alignment.LexicalWeight > 0, "alignment", "overlap_weight and lexical_weight must not both be zero").
		Required("labels.unknown", s.Labels.Unknown).
		Required("labels.phone", s.Labels.Phone).
		Required("labels.sound_pad", s.Labels.SoundPad).
		Contains("labels.mic_format", s.Labels.MicFormat, "%d").
		Contains("labels.speaker_format", s.Labels.SpeakerFormat, "%d")
	for key := range s.Assignments {
		if _, err := transcript.ParseMicIndex(key); err != nil {
			v.AddError("assignments."+key, err.Error())
		}
	}
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}

	if err := s.Logging.Validate(); err != nil {
		return fmt.Errorf("config.logging: %w", err)
	}
	if err := s.Observability.Validate(); err != nil {
		return fmt.Errorf("config.observability: %w", err)
	}
	if err := s.Server.Validate(); err != nil {
		return fmt.Errorf("config.server: %w", err)
	}
	return nil
}

// MicAssignments converts the configured assignments into a lookup table.
// Validate rejects keys that are not mic indices.
func (s *Settings) MicAssignments() transcript.Assignments {
	out := make(transcript.Assignments, len(s.Assignments))
	for key, name := range s.Assignments {
		if idx, err := transcript.ParseMicIndex(key); err == nil {
			out[idx] = name
		}
	}
	return out
}

// ScorerOptions returns the similarity options for these settings.
func (s *Settings) ScorerOptions() []similarity.Option {
	return []similarity.Option{
		similarity.WithWeights(s.Alignment.OverlapWeight, s.Alignment.LexicalWeight),
		similarity.WithThreshold(s.Alignment.Threshold),
	}
}

// Load resolves and reads the config file and environment, then applies
// defaults and validates.
func Load(opts ...LoaderOption) (*Settings, error) {
	s := &Settings{}
	if err := LoadConfig(ServiceName, s, opts...); err != nil {
		return nil, err
	}
	s.ApplyDefaults()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}
