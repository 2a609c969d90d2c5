package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kbukum/voxalign/compose"
	"github.com/kbukum/voxalign/report"
)

const (
	formatJSON     = "json"
	formatYAML     = "yaml"
	formatText     = "text"
	formatMarkdown = "markdown"
)

// write renders with the selected format and sends it to --output or stdout.
func (f *sessionFlags) write(cmd *cobra.Command, render func(format string) ([]byte, error)) error {
	format := strings.ToLower(strings.TrimSpace(f.format))
	out, err := render(format)
	if err != nil {
		return err
	}
	if f.output != "" {
		return os.WriteFile(f.output, out, 0o644)
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}

func marshal(format string, v any) ([]byte, bool, error) {
	switch format {
	case formatJSON:
		b, err := json.MarshalIndent(v, "", "  ")
		return append(b, '\n'), true, err
	case formatYAML:
		b, err := yaml.Marshal(v)
		return b, true, err
	}
	return nil, false, nil
}

func renderAnalysis(format string, rep report.AnalysisReport) ([]byte, error) {
	if b, ok, err := marshal(format, rep); ok {
		return b, err
	}
	if format != formatText {
		return nil, fmt.Errorf("diagnose supports json, yaml and text output (got %q)", format)
	}

	var b bytes.Buffer
	if rep.MasterMixFound {
		fmt.Fprintf(&b, "master:     %s (%d utterances)\n", rep.MasterMixFile, rep.MasterMixUtteranceCount)
	} else {
		b.WriteString("master:     not found\n")
	}
	fmt.Fprintf(&b, "mic files:  %d\n", rep.TotalMicFilesFound)
	for _, idx := range sortedKeys(rep.MicFilesFound) {
		flag := ""
		if !rep.MicFileSpeakerAlwaysZero[idx] {
			flag = "  (multiple diarization labels)"
		}
		fmt.Fprintf(&b, "  MIC%d      %d utterances%s\n", idx+1, rep.MicFileUtteranceCounts[idx], flag)
	}
	fmt.Fprintf(&b, "phone:      %t\n", rep.PhoneFound)
	fmt.Fprintf(&b, "sound pad:  %t\n", rep.SoundPadFound)
	writeList(&b, "unknown", rep.UnknownFiles)
	writeList(&b, "warnings", rep.Warnings)
	writeList(&b, "errors", rep.Errors)
	return b.Bytes(), nil
}

func renderResult(format, title string, res *report.AttributionResult) ([]byte, error) {
	if b, ok, err := marshal(format, res); ok {
		return b, err
	}
	switch format {
	case formatText:
		var b bytes.Buffer
		if res.OutputTranscript != "" {
			b.WriteString(res.OutputTranscript)
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "mode: %s, matched %d of %d (%.0f%%)\n", res.Mode, res.MatchedUtterances, res.TotalUtterances, res.MatchRate()*100)
		if res.PerSpeakerStatistics.Tone != "" {
			fmt.Fprintf(&b, "tone: %s\n", res.PerSpeakerStatistics.Tone)
		}
		for _, s := range res.PerSpeakerStatistics.Speakers {
			fmt.Fprintf(&b, "  %-20s %3d utterances %5d words %3d questions %3d laughs\n", s.Speaker, s.Utterances, s.Words, s.Questions, s.Laughter)
		}
		if !res.Success {
			fmt.Fprintf(&b, "error: %s\n", res.ErrorMessage)
		}
		return b.Bytes(), nil
	case formatMarkdown:
		meta := compose.Metadata{
			Title:     title,
			Source:    sourceName(res.Analysis),
			Mode:      string(res.Mode),
			Generated: time.Now().UTC().Format(time.RFC3339),
		}
		tr := compose.Transcript{Lines: res.AttributedLines, Text: res.OutputTranscript}
		return []byte(compose.RenderMarkdown(meta, tr)), nil
	}
	return nil, fmt.Errorf("unknown output format %q", format)
}

func sourceName(rep *report.AnalysisReport) string {
	if rep == nil {
		return ""
	}
	return rep.MasterMixFile
}

func writeList(b *bytes.Buffer, label string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "%s:\n", label)
	for _, it := range items {
		fmt.Fprintf(b, "  - %s\n", it)
	}
}

func sortedKeys(m map[int]bool) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
