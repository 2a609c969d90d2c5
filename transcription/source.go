package transcription

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kbukum/voxalign/transcript"
)

// PayloadExt is the suffix appended to an audio file name to name its payload,
// for example "MIC1.WAV.json".
const PayloadExt = ".json"

// JSONSource is a transcript.Source that decodes a provider payload on Load.
type JSONSource struct {
	name string
	read func() ([]byte, error)
}

var _ transcript.Source = (*JSONSource)(nil)

// NewJSONSource creates a source over payload bytes already in memory.
func NewJSONSource(fileName string, data []byte) *JSONSource {
	return &JSONSource{
		name: fileName,
		read: func() ([]byte, error) { return data, nil },
	}
}

// NewFileSource creates a source that reads path when loaded. The channel's
// file name is the base name with PayloadExt removed.
func NewFileSource(path string) *JSONSource {
	return &JSONSource{
		name: AudioFileName(path),
		read: func() ([]byte, error) { return os.ReadFile(path) },
	}
}

// FileName implements transcript.Source.
func (s *JSONSource) FileName() string { return s.name }

// Load implements transcript.Source.
func (s *JSONSource) Load(ctx context.Context) ([]transcript.Utterance, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := s.read()
	if err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}
	resp, err := Decode(s.name, data)
	if err != nil {
		return nil, err
	}
	return resp.ToUtterances(), nil
}

// AudioFileName maps a payload path to the audio file it transcribes.
func AudioFileName(path string) string {
	base := filepath.Base(path)
	if strings.EqualFold(filepath.Ext(base), PayloadExt) {
		return base[:len(base)-len(PayloadExt)]
	}
	return base
}

// DirSources returns one source per payload file directly inside dir, sorted
// by file name.
func DirSources(dir string) ([]transcript.Source, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read payload directory: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), PayloadExt) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	sources := make([]transcript.Source, 0, len(names))
	for _, name := range names {
		sources = append(sources, NewFileSource(filepath.Join(dir, name)))
	}
	return sources, nil
}
