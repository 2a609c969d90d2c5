package engine

import (
	"github.com/kbukum/voxalign/logger"
	"github.com/kbukum/voxalign/observability"
	"github.com/kbukum/voxalign/tone"
)

// Option configures an Engine.
type Option func(*Engine)

// WithLogger replaces the logger built from settings.
func WithLogger(l *logger.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithMetrics records run, utterance and channel-error metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithTone sets the tone summarizer, overriding tone settings.
func WithTone(s tone.Summarizer) Option {
	return func(e *Engine) { e.tone = s }
}

// WithRunIDs replaces the run id generator.
func WithRunIDs(next func() string) Option {
	return func(e *Engine) {
		if next != nil {
			e.newRunID = next
		}
	}
}
