package align

import (
	"context"
	"runtime"

	"github.com/kbukum/voxalign/channel"
	"github.com/kbukum/voxalign/logger"
	"github.com/kbukum/voxalign/pipeline"
	"github.com/kbukum/voxalign/similarity"
	"github.com/kbukum/voxalign/transcript"
)

// Mode describes how master lines were attributed.
type Mode string

const (
	// ModeMatched means master utterances were matched against individual channels.
	ModeMatched Mode = "matched"
	// ModeFallback means diarization labels were mapped through assignments.
	ModeFallback Mode = "fallback"
	// ModeNone means there was no master channel to attribute.
	ModeNone Mode = "none"
)

// Candidate is a single-speaker channel together with the name its lines
// inherit.
type Candidate struct {
	Owner   string
	Channel transcript.Channel
}

// NewCandidate resolves the owner of a single-speaker channel. Unassigned
// mics use the placeholder label. ok is false for roles that have no single
// owner.
func NewCandidate(ch transcript.Channel, assignments transcript.Assignments, labels channel.Labels) (Candidate, bool) {
	if !ch.Role.IsSingleSpeaker() {
		return Candidate{}, false
	}
	owner, _ := channel.Owner(ch, assignments, labels)
	return Candidate{Owner: owner, Channel: ch}, true
}

// Result is the attributed master channel.
type Result struct {
	Lines     []transcript.Line
	Mode      Mode
	Matched   int
	Unmatched int
}

// Aligner matches master utterances to single-speaker channels. It holds no
// per-run state and is safe for concurrent use.
type Aligner struct {
	scorer  *similarity.Scorer
	labels  channel.Labels
	workers int
	log     *logger.Logger
}

// Option configures an Aligner.
type Option func(*Aligner)

// WithScorer sets the similarity scorer.
func WithScorer(s *similarity.Scorer) Option {
	return func(a *Aligner) { a.scorer = s }
}

// WithLabels sets the placeholder labels.
func WithLabels(l channel.Labels) Option {
	return func(a *Aligner) { a.labels = l }
}

// WithWorkers bounds the number of concurrent searches. Values below one
// use GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(a *Aligner) { a.workers = n }
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(a *Aligner) { a.log = l }
}

// New creates an Aligner with default scorer and labels.
func New(opts ...Option) *Aligner {
	a := &Aligner{
		scorer: similarity.NewScorer(),
		labels: channel.DefaultLabels(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.workers < 1 {
		a.workers = runtime.GOMAXPROCS(0)
	}
	a.log = logger.OrNop(a.log).WithComponent("align")
	return a
}

type scoredCandidate struct {
	owner     string
	utterance transcript.Utterance
}

// Align attributes every non-blank master utterance. The only error it
// returns is the context's.
func (a *Aligner) Align(ctx context.Context, master transcript.Channel, candidates []Candidate, assignments transcript.Assignments) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	pool := flatten(candidates)
	spoken := nonBlank(master.Utterances)

	if len(pool) == 0 {
		res := a.fallback(spoken, assignments)
		a.log.Debug("master attributed from diarization labels", logger.Fields(
			logger.FieldChannel, master.FileName,
			"lines", len(res.Lines),
		))
		return res, nil
	}

	lines := make([]transcript.Line, len(spoken))
	search := pipeline.Parallel(pipeline.Enumerate(pipeline.FromSlice(spoken)), a.workers,
		func(_ context.Context, in pipeline.Indexed[transcript.Utterance]) (pipeline.Indexed[transcript.Line], error) {
			return pipeline.Indexed[transcript.Line]{Index: in.Index, Value: a.bestMatch(in.Value, pool)}, nil
		})
	err := pipeline.ForEach(ctx, search, func(_ context.Context, r pipeline.Indexed[transcript.Line]) error {
		lines[r.Index] = r.Value
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	res := Result{Lines: lines, Mode: ModeMatched}
	for _, l := range lines {
		if l.Kind == transcript.KindMatched {
			res.Matched++
		} else {
			res.Unmatched++
		}
	}
	a.log.Debug("master aligned", logger.Fields(
		logger.FieldChannel, master.FileName,
		"candidates", len(pool),
		"matched", res.Matched,
		"unmatched", res.Unmatched,
	))
	return res, nil
}

// bestMatch searches the whole pool; a later candidate only wins with a
// strictly higher score.
func (a *Aligner) bestMatch(m transcript.Utterance, pool []scoredCandidate) transcript.Line {
	best, bestOwner := -1.0, ""
	for _, c := range pool {
		if score := a.scorer.Score(m, c.utterance); score > best {
			best, bestOwner = score, c.owner
		}
	}

	line := transcript.Line{
		Text:        m.Text,
		SourceStart: m.Start,
		SourceEnd:   m.End,
	}
	if a.scorer.Accept(best) {
		line.SpeakerName = bestOwner
		line.MatchScore = best
		line.Kind = transcript.KindMatched
		return line
	}
	line.SpeakerName = a.labels.Unknown
	line.Kind = transcript.KindUnmatched
	return line
}

func (a *Aligner) fallback(spoken []transcript.Utterance, assignments transcript.Assignments) Result {
	lines := make([]transcript.Line, len(spoken))
	for i, m := range spoken {
		name, ok := assignments.Lookup(m.SpeakerLabel)
		if !ok {
			name = a.labels.Speaker(m.SpeakerLabel)
		}
		lines[i] = transcript.Line{
			SpeakerName: name,
			Text:        m.Text,
			SourceStart: m.Start,
			SourceEnd:   m.End,
			Kind:        transcript.KindFallback,
		}
	}
	return Result{Lines: lines, Mode: ModeFallback, Matched: len(lines)}
}

func flatten(candidates []Candidate) []scoredCandidate {
	var pool []scoredCandidate
	for _, c := range candidates {
		for _, u := range c.Channel.Utterances {
			if u.IsBlank() {
				continue
			}
			pool = append(pool, scoredCandidate{owner: c.Owner, utterance: u})
		}
	}
	return pool
}

func nonBlank(utterances []transcript.Utterance) []transcript.Utterance {
	out := make([]transcript.Utterance, 0, len(utterances))
	for _, u := range utterances {
		if !u.IsBlank() {
			out = append(out, u)
		}
	}
	return out
}
