package analytics

import (
	"regexp"
	"strings"
)

// Severity grades a curse word.
type Severity string

const (
	SeverityMild   Severity = "mild"
	SeverityStrong Severity = "strong"
)

// Lexicon holds the fixed word lists the detectors match against. All
// entries are lower-case single tokens.
type Lexicon struct {
	Interrogatives map[string]struct{}
	Laughter       map[string]struct{}
	Curses         map[string]Severity
	Pejoratives    map[string]struct{}
}

var (
	tokenPattern    = regexp.MustCompile(`[\p{L}\p{N}']+`)
	laughRunPattern = regexp.MustCompile(`^(?:ha){2,}h?$|^(?:he){2,}h?$`)
	sentencePattern = regexp.MustCompile(`[^.!?]+[.!?]*`)
)

// DefaultLexicon returns the built-in English word lists.
func DefaultLexicon() Lexicon {
	return Lexicon{
		Interrogatives: set(
			"who", "what", "when", "where", "why", "how",
			"do", "does", "did", "is", "are",
			"can", "could", "would", "should",
		),
		Laughter: set("haha", "hahaha", "hehe", "lol", "lmao", "lmfao", "rofl", "lolol"),
		Curses: map[string]Severity{
			"damn":         SeverityMild,
			"dammit":       SeverityMild,
			"darn":         SeverityMild,
			"hell":         SeverityMild,
			"crap":         SeverityMild,
			"crappy":       SeverityMild,
			"bloody":       SeverityMild,
			"bugger":       SeverityMild,
			"piss":         SeverityMild,
			"pissed":       SeverityMild,
			"shit":         SeverityStrong,
			"shitty":       SeverityStrong,
			"bullshit":     SeverityStrong,
			"fuck":         SeverityStrong,
			"fucking":      SeverityStrong,
			"fucked":       SeverityStrong,
			"motherfucker": SeverityStrong,
			"bitch":        SeverityStrong,
			"asshole":      SeverityStrong,
			"bastard":      SeverityStrong,
			"cunt":         SeverityStrong,
		},
		Pejoratives: set(
			"idiot", "idiots", "stupid", "moron", "morons", "dumb", "dumbass",
			"loser", "losers", "jerk", "imbecile", "clown", "pathetic", "useless",
		),
	}
}

func set(words ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}

// tokens splits lower-cased text into word tokens. Apostrophes stay inside
// tokens so "don't" is one word; surrounding quotes are dropped.
func tokens(text string) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(text), -1)
	out := raw[:0]
	for _, t := range raw {
		t = strings.Trim(t, "'")
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// IsLaughter reports whether a lower-cased token is laughter.
func (l Lexicon) IsLaughter(token string) bool {
	if _, ok := l.Laughter[token]; ok {
		return true
	}
	return laughRunPattern.MatchString(token)
}

// Questions returns the sentences of text that read as questions: they end
// in "?" or, after any comma-terminated openers such as "so,", start with
// an interrogative word. Imperatives such as "Do it now." count as well.
func (l Lexicon) Questions(text string) []string {
	var out []string
	for _, sentence := range sentencePattern.FindAllString(text, -1) {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}
		if strings.HasSuffix(sentence, "?") || l.opensWithInterrogative(sentence) {
			out = append(out, sentence)
		}
	}
	return out
}

func (l Lexicon) opensWithInterrogative(sentence string) bool {
	for _, field := range strings.Fields(strings.ToLower(sentence)) {
		if strings.HasSuffix(field, ",") {
			continue
		}
		toks := tokens(field)
		if len(toks) == 0 {
			return false
		}
		_, ok := l.Interrogatives[toks[0]]
		return ok
	}
	return false
}
