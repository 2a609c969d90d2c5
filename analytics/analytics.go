// Package analytics computes per-speaker lexical statistics over an
// attributed transcript: word counts, questions, laughter, curse words and
// pejoratives. Detection is a deterministic pass over lower-cased word
// tokens against fixed lexicons.
package analytics

import (
	"context"
	"strings"

	"github.com/kbukum/voxalign/compose"
	"github.com/kbukum/voxalign/logger"
	"github.com/kbukum/voxalign/pipeline"
	"github.com/kbukum/voxalign/tone"
	"github.com/kbukum/voxalign/transcript"
)

// CurseWord is a matched curse token and its severity.
type CurseWord struct {
	Word     string   `json:"word" yaml:"word"`
	Severity Severity `json:"severity" yaml:"severity"`
}

// SpeakerStatistics aggregates one speaker's lines.
type SpeakerStatistics struct {
	Speaker         string      `json:"speaker" yaml:"speaker"`
	Utterances      int         `json:"utterances" yaml:"utterances"`
	Words           int         `json:"words" yaml:"words"`
	Questions       int         `json:"questions" yaml:"questions"`
	QuestionTexts   []string    `json:"question_texts,omitempty" yaml:"question_texts,omitempty"`
	Laughter        int         `json:"laughter" yaml:"laughter"`
	LaughterTokens  []string    `json:"laughter_tokens,omitempty" yaml:"laughter_tokens,omitempty"`
	Curses          int         `json:"curses" yaml:"curses"`
	CurseWords      []CurseWord `json:"curse_words,omitempty" yaml:"curse_words,omitempty"`
	Pejoratives     int         `json:"pejoratives" yaml:"pejoratives"`
	PejorativeTerms []string    `json:"pejorative_terms,omitempty" yaml:"pejorative_terms,omitempty"`
}

// Totals sums every metric across speakers.
type Totals struct {
	Utterances   int `json:"utterances" yaml:"utterances"`
	Words        int `json:"words" yaml:"words"`
	Questions    int `json:"questions" yaml:"questions"`
	Laughter     int `json:"laughter" yaml:"laughter"`
	Curses       int `json:"curses" yaml:"curses"`
	MildCurses   int `json:"mild_curses" yaml:"mild_curses"`
	StrongCurses int `json:"strong_curses" yaml:"strong_curses"`
	Pejoratives  int `json:"pejoratives" yaml:"pejoratives"`
}

// Statistics is the analytics output for one run. Speakers are listed in
// order of first appearance.
type Statistics struct {
	Speakers []SpeakerStatistics `json:"speakers" yaml:"speakers"`
	Totals   Totals              `json:"totals" yaml:"totals"`
	Tone     string              `json:"tone,omitempty" yaml:"tone,omitempty"`
}

// Speaker returns the statistics for name.
func (s Statistics) Speaker(name string) (SpeakerStatistics, bool) {
	for _, sp := range s.Speakers {
		if sp.Speaker == name {
			return sp, true
		}
	}
	return SpeakerStatistics{}, false
}

// Analyzer computes Statistics.
type Analyzer struct {
	lexicon Lexicon
	tone    tone.Summarizer
	log     *logger.Logger
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithLexicon replaces the built-in word lists.
func WithLexicon(l Lexicon) Option {
	return func(a *Analyzer) { a.lexicon = l }
}

// WithTone enables the optional tone summary.
func WithTone(s tone.Summarizer) Option {
	return func(a *Analyzer) { a.tone = s }
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(a *Analyzer) { a.log = l }
}

// New creates an Analyzer using the default lexicon and no tone summarizer.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{lexicon: DefaultLexicon()}
	for _, opt := range opts {
		opt(a)
	}
	a.log = logger.OrNop(a.log).WithComponent("analytics")
	return a
}

// Analyze folds the transcript's lines into per-speaker statistics and
// totals. A tone failure is logged and leaves Tone empty. The only error
// returned is the context's.
func (a *Analyzer) Analyze(ctx context.Context, tr compose.Transcript) (Statistics, error) {
	folded := pipeline.Reduce(pipeline.FromSlice(tr.Lines), newTally(), func(t *tally, l transcript.Line) *tally {
		t.add(a.lexicon, l)
		return t
	})
	acc, _, err := pipeline.First(ctx, folded)
	if err != nil {
		return Statistics{}, err
	}
	stats := acc.statistics()

	if a.tone != nil && strings.TrimSpace(tr.Text) != "" {
		summary, err := a.tone.Summarize(ctx, tr.Text)
		if err != nil {
			a.log.Warn("tone summary unavailable", logger.MergeWithError(nil, err))
		} else {
			stats.Tone = summary
		}
	}
	if err := ctx.Err(); err != nil {
		return Statistics{}, err
	}
	return stats, nil
}

// tally is the fold accumulator.
type tally struct {
	order []string
	by    map[string]*SpeakerStatistics
}

func newTally() *tally {
	return &tally{by: make(map[string]*SpeakerStatistics)}
}

func (t *tally) add(lex Lexicon, l transcript.Line) {
	sp, ok := t.by[l.SpeakerName]
	if !ok {
		sp = &SpeakerStatistics{Speaker: l.SpeakerName}
		t.by[l.SpeakerName] = sp
		t.order = append(t.order, l.SpeakerName)
	}

	sp.Utterances++
	sp.Words += len(strings.Fields(l.Text))

	for _, q := range lex.Questions(l.Text) {
		sp.Questions++
		sp.QuestionTexts = append(sp.QuestionTexts, q)
	}
	for _, tok := range tokens(l.Text) {
		if lex.IsLaughter(tok) {
			sp.Laughter++
			sp.LaughterTokens = append(sp.LaughterTokens, tok)
		}
		if sev, ok := lex.Curses[tok]; ok {
			sp.Curses++
			sp.CurseWords = append(sp.CurseWords, CurseWord{Word: tok, Severity: sev})
		}
		if _, ok := lex.Pejoratives[tok]; ok {
			sp.Pejoratives++
			sp.PejorativeTerms = append(sp.PejorativeTerms, tok)
		}
	}
}

func (t *tally) statistics() Statistics {
	stats := Statistics{Speakers: make([]SpeakerStatistics, 0, len(t.order))}
	for _, name := range t.order {
		sp := *t.by[name]
		stats.Speakers = append(stats.Speakers, sp)

		stats.Totals.Utterances += sp.Utterances
		stats.Totals.Words += sp.Words
		stats.Totals.Questions += sp.Questions
		stats.Totals.Laughter += sp.Laughter
		stats.Totals.Curses += sp.Curses
		stats.Totals.Pejoratives += sp.Pejoratives
		for _, c := range sp.CurseWords {
			if c.Severity == SeverityStrong {
				stats.Totals.StrongCurses++
			} else {
				stats.Totals.MildCurses++
			}
		}
	}
	return stats
}
