package transcript

import "context"

// Source lazily provides one channel's utterances. Load may fail, for
// example when a provider payload cannot be decoded; callers record the
// failure and move on to the next channel.
type Source interface {
	FileName() string
	Load(ctx context.Context) ([]Utterance, error)
}

// StaticSource is a Source over already-decoded utterances.
type StaticSource struct {
	Name       string
	Utterances []Utterance
}

// NewStaticSource creates a Source for data that is already in memory.
func NewStaticSource(fileName string, utterances []Utterance) *StaticSource {
	return &StaticSource{Name: fileName, Utterances: utterances}
}

// FileName implements Source.
func (s *StaticSource) FileName() string { return s.Name }

// Load implements Source.
func (s *StaticSource) Load(ctx context.Context) ([]Utterance, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.Utterances, nil
}
