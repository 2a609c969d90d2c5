package compose

import (
	"fmt"
	"strings"
	"time"
)

// Metadata is the header of a markdown export.
type Metadata struct {
	Title     string
	Desc      string
	Attendees []string
	Source    string
	Mode      string
	Generated string
}

// RenderMarkdown renders a transcript as a markdown document with one
// timestamped entry per line.
func RenderMarkdown(meta Metadata, tr Transcript) string {
	var b strings.Builder
	if meta.Title != "" {
		fmt.Fprintf(&b, "# %s\n\n", meta.Title)
	} else {
		b.WriteString("# Transcript\n\n")
	}
	if meta.Desc != "" {
		fmt.Fprintf(&b, "> %s\n\n", meta.Desc)
	}

	attendees := meta.Attendees
	if len(attendees) == 0 {
		attendees = tr.Speakers()
	}
	if len(attendees) > 0 {
		fmt.Fprintf(&b, "- Speakers: %s\n", strings.Join(attendees, ", "))
	}
	if meta.Source != "" {
		fmt.Fprintf(&b, "- Source: `%s`\n", meta.Source)
	}
	if meta.Mode != "" {
		fmt.Fprintf(&b, "- Attribution: `%s`\n", meta.Mode)
	}
	if meta.Generated != "" {
		fmt.Fprintf(&b, "- Generated: %s\n", meta.Generated)
	}
	if d := tr.Duration(); d > 0 {
		fmt.Fprintf(&b, "- Duration: %s\n", secToDuration(d).Truncate(time.Second))
	}
	b.WriteString("\n---\n\n")

	for _, l := range tr.Lines {
		ts := ""
		if l.SourceEnd > 0 {
			ts = fmt.Sprintf("[%s-%s] ", secToTS(l.SourceStart), secToTS(l.SourceEnd))
		}
		fmt.Fprintf(&b, "%s%s: %s\n\n", ts, l.SpeakerName, strings.TrimSpace(l.Text))
	}
	return b.String()
}

func secToDuration(sec float64) time.Duration {
	return time.Duration(sec*1000) * time.Millisecond
}

func secToTS(sec float64) string {
	d := secToDuration(max(sec, 0))
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
