package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kbukum/voxalign/engine"
	"github.com/kbukum/voxalign/transcript"
	"github.com/kbukum/voxalign/transcription"
)

// sessionFlags select the payloads and speaker assignments of one session.
type sessionFlags struct {
	assign          []string
	assignmentsFile string
	companions      []string
	format          string
	output          string
}

func (f *sessionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&f.assign, "assign", "a", nil, "mic assignment as index=name, repeatable (0=Ann)")
	cmd.Flags().StringVar(&f.assignmentsFile, "assignments", "", "YAML file mapping mic index to participant name")
	cmd.Flags().StringArrayVar(&f.companions, "companion", nil, "extra single-speaker payload file, repeatable")
	cmd.Flags().StringVarP(&f.format, "format", "f", formatText, "output format: json, yaml, text or markdown")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "write output to a file instead of stdout")
}

// input builds the engine input for the payloads in dir.
func (f *sessionFlags) input(dir string) (engine.Input, error) {
	sources, err := transcription.DirSources(dir)
	if err != nil {
		return engine.Input{}, err
	}
	if len(sources) == 0 {
		return engine.Input{}, fmt.Errorf("no %s payloads found in %s", transcription.PayloadExt, dir)
	}
	in := engine.Input{Sources: sources}
	for _, path := range f.companions {
		in.Companions = append(in.Companions, transcription.NewFileSource(path))
	}
	in.Assignments, err = f.assignments()
	if err != nil {
		return engine.Input{}, err
	}
	return in, nil
}

// assignments merges the assignments file with --assign flags; flags win.
func (f *sessionFlags) assignments() (transcript.Assignments, error) {
	raw := map[string]string{}
	if f.assignmentsFile != "" {
		data, err := os.ReadFile(f.assignmentsFile)
		if err != nil {
			return nil, fmt.Errorf("read assignments: %w", err)
		}
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse assignments %s: %w", f.assignmentsFile, err)
		}
	}
	for _, a := range f.assign {
		key, name, ok := strings.Cut(a, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("--assign %q: expected index=name", a)
		}
		raw[strings.TrimSpace(key)] = strings.TrimSpace(name)
	}
	return transcript.ParseAssignments(raw)
}
