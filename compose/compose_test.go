package compose

import (
	"strings"
	"testing"

	"github.com/kbukum/voxalign/transcript"
)

func line(speaker, text string, start, end float64) transcript.Line {
	return transcript.Line{SpeakerName: speaker, Text: text, SourceStart: start, SourceEnd: end, Kind: transcript.KindMatched}
}

func TestCompose(t *testing.T) {
	tests := []struct {
		name  string
		lines []transcript.Line
		want  string
	}{
		{"empty", nil, ""},
		{"single", []transcript.Line{line("Bob", "  hello there ", 0, 2)}, "Bob: hello there"},
		{
			"order preserved",
			[]transcript.Line{
				line("Bob", "hello", 0, 1),
				line("Unknown Speaker", "yeah totally", 10, 12),
				line("Ann", "hi Bob", 2, 3),
			},
			"Bob: hello\nUnknown Speaker: yeah totally\nAnn: hi Bob",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Compose(tc.lines)
			if got.Text != tc.want {
				t.Errorf("Text = %q, want %q", got.Text, tc.want)
			}
			if len(got.Lines) != len(tc.lines) {
				t.Errorf("expected %d lines, got %d", len(tc.lines), len(got.Lines))
			}
		})
	}
}

func TestCompose_DoesNotAliasInput(t *testing.T) {
	in := []transcript.Line{line("Bob", "hello", 0, 1)}
	tr := Compose(in)
	in[0].SpeakerName = "Changed"
	if tr.Lines[0].SpeakerName != "Bob" {
		t.Error("composited lines share storage with the input")
	}
}

func TestTranscript_Speakers(t *testing.T) {
	tr := Compose([]transcript.Line{
		line("Cal", "a", 0, 1),
		line("Ann", "b", 1, 2),
		line("Cal", "c", 2, 3),
	})
	got := tr.Speakers()
	if len(got) != 2 || got[0] != "Cal" || got[1] != "Ann" {
		t.Errorf("Speakers() = %v", got)
	}
}

func TestRenderMarkdown(t *testing.T) {
	tr := Compose([]transcript.Line{
		line("Bob", "hello there", 0, 2.5),
		line("Ann", "hi", 65, 3725),
	})
	md := RenderMarkdown(Metadata{Title: "Standup", Mode: "matched"}, tr)

	for _, want := range []string{
		"# Standup\n",
		"- Speakers: Bob, Ann\n",
		"- Attribution: `matched`\n",
		"- Duration: 1h2m5s\n",
		"[00:00-00:02] Bob: hello there\n",
		"[01:05-01:02:05] Ann: hi\n",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
}

func TestRenderMarkdown_DefaultTitle(t *testing.T) {
	md := RenderMarkdown(Metadata{}, Compose(nil))
	if !strings.HasPrefix(md, "# Transcript\n\n") {
		t.Errorf("unexpected header: %q", md)
	}
}

func TestSecToTS(t *testing.T) {
	tests := []struct {
		sec  float64
		want string
	}{
		{0, "00:00"},
		{-3, "00:00"},
		{59.9, "00:59"},
		{61, "01:01"},
		{3600, "01:00:00"},
	}
	for _, tc := range tests {
		if got := secToTS(tc.sec); got != tc.want {
			t.Errorf("secToTS(%v) = %q, want %q", tc.sec, got, tc.want)
		}
	}
}
