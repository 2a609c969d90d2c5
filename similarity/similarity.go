// Package similarity scores how likely two utterances from different
// channels are the same piece of speech.
//
// The combined score is a weighted sum of time overlap and word overlap.
// Timing carries more weight by default because transcripts of the same
// speech differ between channels far more than their timestamps do.
package similarity

import (
	"strings"

	"github.com/kbukum/voxalign/transcript"
)

// Defaults for the combined score.
const (
	DefaultOverlapWeight = 0.7
	DefaultLexicalWeight = 0.3
	DefaultThreshold     = 0.30
)

// Scorer combines overlap and lexical similarity with fixed weights.
// A Scorer is immutable and safe for concurrent use.
type Scorer struct {
	overlapWeight float64
	lexicalWeight float64
	threshold     float64
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithWeights sets the overlap and lexical weights.
func WithWeights(overlap, lexical float64) Option {
	return func(s *Scorer) {
		s.overlapWeight = overlap
		s.lexicalWeight = lexical
	}
}

// WithThreshold sets the acceptance threshold. Scores must be strictly
// greater than it to be accepted.
func WithThreshold(threshold float64) Option {
	return func(s *Scorer) { s.threshold = threshold }
}

// NewScorer creates a Scorer with the default weights and threshold.
func NewScorer(opts ...Option) *Scorer {
	s := &Scorer{
		overlapWeight: DefaultOverlapWeight,
		lexicalWeight: DefaultLexicalWeight,
		threshold:     DefaultThreshold,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score returns the weighted combination of Overlap and Lexical.
func (s *Scorer) Score(a, b transcript.Utterance) float64 {
	return s.overlapWeight*Overlap(a, b) + s.lexicalWeight*Lexical(a.Text, b.Text)
}

// Accept reports whether score clears the threshold.
func (s *Scorer) Accept(score float64) bool {
	return score > s.threshold
}

// Threshold returns the acceptance threshold.
func (s *Scorer) Threshold() float64 { return s.threshold }

// Weights returns the overlap and lexical weights.
func (s *Scorer) Weights() (overlap, lexical float64) {
	return s.overlapWeight, s.lexicalWeight
}

// Overlap returns the shared time of a and b divided by the longer of the
// two durations, in [0,1]. Inverted ranges are treated as zero-length.
// Two identical zero-length ranges score 1; any other pairing involving
// no duration scores 0.
func Overlap(a, b transcript.Utterance) float64 {
	aStart, aEnd := a.Start, a.Start+a.Duration()
	bStart, bEnd := b.Start, b.Start+b.Duration()

	longest := max(aEnd-aStart, bEnd-bStart)
	if longest <= 0 {
		if aStart == bStart {
			return 1
		}
		return 0
	}

	shared := min(aEnd, bEnd) - max(aStart, bStart)
	if shared <= 0 {
		return 0
	}
	return min(shared/longest, 1)
}

// Lexical returns the Jaccard similarity of the lower-cased whitespace
// token sets of a and b, or 0 when either has no tokens.
func Lexical(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	shared := 0
	for tok := range setA {
		if _, ok := setB[tok]; ok {
			shared++
		}
	}
	union := len(setA) + len(setB) - shared
	return float64(shared) / float64(union)
}

func tokenSet(text string) map[string]struct{} {
	fields := strings.Fields(strings.ToLower(text))
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}
