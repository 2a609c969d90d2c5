package engine

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kbukum/voxalign/align"
	"github.com/kbukum/voxalign/config"
	apperrors "github.com/kbukum/voxalign/errors"
	"github.com/kbukum/voxalign/logger"
	"github.com/kbukum/voxalign/observability"
	"github.com/kbukum/voxalign/report"
	"github.com/kbukum/voxalign/testutil"
	"github.com/kbukum/voxalign/tone"
	"github.com/kbukum/voxalign/transcript"
)

func newEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	return newEngineWith(t, config.Default(), opts...)
}

func newEngineWith(t *testing.T, settings *config.Settings, opts ...Option) *Engine {
	t.Helper()
	opts = append([]Option{WithLogger(logger.NewNop())}, opts...)
	e, err := New(settings, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}

func TestNew_InvalidSettings(t *testing.T) {
	s := config.Default()
	s.Alignment.Threshold = 1.5
	if _, err := New(s, WithLogger(logger.NewNop())); err == nil {
		t.Fatal("expected invalid settings to be rejected")
	}
}

func TestNew_NilSettings(t *testing.T) {
	e, err := New(nil, WithLogger(logger.NewNop()))
	if err != nil {
		t.Fatal(err)
	}
	if e.Settings().Name != config.ServiceName {
		t.Errorf("expected default settings, got %+v", e.Settings())
	}
}

func TestRun_Scenarios(t *testing.T) {
	tests := []struct {
		name        string
		sources     []transcript.Source
		assignments transcript.Assignments
		wantLines   []string
		wantMode    align.Mode
		wantMatched int
	}{
		{
			name: "A matched to individual mic",
			sources: []transcript.Source{
				testutil.Source("MIX.WAV", testutil.UttLabel(0.0, 2.0, "hello there", 3)),
				testutil.Source("MIC1.WAV", testutil.Utt(0.1, 2.1, "hello there")),
			},
			assignments: transcript.Assignments{0: "Bob"},
			wantLines:   []string{"Bob: hello there"},
			wantMode:    align.ModeMatched,
			wantMatched: 1,
		},
		{
			name: "B no overlap is unknown",
			sources: []transcript.Source{
				testutil.Source("MIX.WAV", testutil.Utt(10.0, 12.0, "yeah totally")),
				testutil.Source("MIC1.WAV", testutil.Utt(0, 3, "good morning everyone"), testutil.Utt(20, 22, "see you")),
				testutil.Source("MIC2.WAV", testutil.Utt(14, 15, "right")),
			},
			assignments: transcript.Assignments{0: "Ann", 1: "Ben"},
			wantLines:   []string{"Unknown Speaker: yeah totally"},
			wantMode:    align.ModeMatched,
			wantMatched: 0,
		},
		{
			name: "C fallback through assignments",
			sources: []transcript.Source{
				testutil.Source("MIX.WAV", testutil.UttLabel(0, 2, "yeah totally", 2)),
			},
			assignments: transcript.Assignments{0: "Ann", 1: "Ben", 2: "Cal"},
			wantLines:   []string{"Cal: yeah totally"},
			wantMode:    align.ModeFallback,
			wantMatched: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := newEngine(t).Run(context.Background(), Input{Sources: tt.sources, Assignments: tt.assignments})
			if err != nil {
				t.Fatal(err)
			}
			if !res.Success {
				t.Fatalf("expected success, got %q", res.ErrorMessage)
			}
			if got := testutil.Render(res.AttributedLines); !testutil.Equal(got, tt.wantLines) {
				t.Errorf("lines = %v, want %v", got, tt.wantLines)
			}
			if res.OutputTranscript != strings.Join(tt.wantLines, "\n") {
				t.Errorf("transcript = %q", res.OutputTranscript)
			}
			if res.Mode != tt.wantMode {
				t.Errorf("mode = %s, want %s", res.Mode, tt.wantMode)
			}
			if res.MatchedUtterances != tt.wantMatched {
				t.Errorf("matched = %d, want %d", res.MatchedUtterances, tt.wantMatched)
			}
			if res.MatchedUtterances+res.UnmatchedUtterances != res.TotalUtterances {
				t.Errorf("counts do not add up: %+v", res)
			}
			if res.Stage != report.StageReported || res.RunID == "" || res.EngineVersion == "" {
				t.Errorf("unexpected envelope: stage=%s run=%q version=%q", res.Stage, res.RunID, res.EngineVersion)
			}
		})
	}
}

func TestRun_ScenarioD_PhoneChannel(t *testing.T) {
	res, err := newEngine(t).Run(context.Background(), Input{Sources: []transcript.Source{
		testutil.Source("MIX.WAV", testutil.Utt(0, 2, "can you hear me")),
		testutil.Source("PHONE.WAV", testutil.Utt(0, 2, "Speaker 1: can you hear me?")),
	}})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.ChannelTranscripts) != 1 {
		t.Fatalf("expected one channel transcript, got %d", len(res.ChannelTranscripts))
	}
	got := testutil.Render(res.ChannelTranscripts[0].Lines)
	if want := []string{"Phone Input: can you hear me?"}; !testutil.Equal(got, want) {
		t.Errorf("phone lines = %v, want %v", got, want)
	}
	if res.AttributedLines[0].SpeakerName != "Phone Input" {
		t.Errorf("master line should inherit the phone owner, got %q", res.AttributedLines[0].SpeakerName)
	}
	if !res.Analysis.PhoneFound {
		t.Error("expected phone to be diagnosed")
	}
}

func TestRun_NoMaster(t *testing.T) {
	res, err := newEngine(t).Run(context.Background(), Input{
		Sources: []transcript.Source{
			testutil.Source("MIC1.WAV", testutil.Utt(0, 1, "one"), testutil.Utt(1, 2, "two")),
			testutil.Source("MIC2.WAV", testutil.Utt(0, 1, "hi")),
		},
		Assignments: transcript.Assignments{0: "Ann"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.Success {
		t.Fatal("expected failure without a master channel")
	}
	if res.ErrorMessage != "no master transcript to attribute" {
		t.Errorf("ErrorMessage = %q", res.ErrorMessage)
	}
	if res.Mode != align.ModeNone || len(res.AttributedLines) != 0 || res.OutputTranscript != "" {
		t.Errorf("expected empty master output, got %+v", res)
	}
	if len(res.ChannelTranscripts) != 2 {
		t.Fatalf("expected both mics attributed, got %d", len(res.ChannelTranscripts))
	}
	if got := testutil.Speakers(res.ChannelTranscripts[0].Lines); !testutil.Equal(got, []string{"Ann", "Ann"}) {
		t.Errorf("mic 1 speakers = %v", got)
	}
	mic2 := res.ChannelTranscripts[1]
	if mic2.Resolved || mic2.Owner != "Mic 2" || mic2.Diagnostic == "" {
		t.Errorf("expected unassigned mic 2 placeholder, got %+v", mic2)
	}
}

func TestRun_EmptyMaster(t *testing.T) {
	res, err := newEngine(t).Run(context.Background(), Input{Sources: []transcript.Source{
		testutil.Source("MIX.WAV"),
	}})
	if err != nil {
		t.Fatal(err)
	}
	if res.Success || !res.Analysis.MasterMixFound {
		t.Errorf("expected found-but-empty master to fail, got success=%v analysis=%+v", res.Success, res.Analysis)
	}
}

func TestRun_BlankMaster(t *testing.T) {
	res, err := newEngine(t).Run(context.Background(), Input{
		Sources: []transcript.Source{
			testutil.Source("MIX.WAV", testutil.Utt(0, 1, "   "), testutil.Utt(1, 2, "")),
			testutil.Source("MIC1.WAV", testutil.Utt(0, 1, "hi")),
		},
		Assignments: transcript.Assignments{0: "Ann"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.Success || res.Analysis.CanAlign() {
		t.Fatalf("expected blank master to fail, got success=%v analysis=%+v", res.Success, res.Analysis)
	}
	if !strings.Contains(res.ErrorMessage, "master") {
		t.Errorf("unexpected error message %q", res.ErrorMessage)
	}
	if res.Mode != align.ModeNone || res.TotalUtterances != 0 {
		t.Errorf("expected no alignment, got mode=%q total=%d", res.Mode, res.TotalUtterances)
	}
	if len(res.ChannelTranscripts) != 1 {
		t.Errorf("expected the mic channel to be attributed directly, got %d", len(res.ChannelTranscripts))
	}
}

func TestRun_BadChannelIsReported(t *testing.T) {
	res, err := newEngine(t).Run(context.Background(), Input{
		Sources: []transcript.Source{
			testutil.Source("MIX.WAV", testutil.Utt(0, 2, "hello there")),
			testutil.FailingSource{Name: "MIC2.WAV"},
			testutil.PanickingSource{Name: "MIC3.WAV"},
			testutil.Source("MIC1.WAV", testutil.Utt(0, 2, "hello there")),
		},
		Assignments: transcript.Assignments{0: "Bob"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Success {
		t.Fatalf("expected success, got %q", res.ErrorMessage)
	}
	if len(res.Analysis.Errors) != 2 {
		t.Errorf("expected two channel errors, got %v", res.Analysis.Errors)
	}
	if got := testutil.Render(res.AttributedLines); !testutil.Equal(got, []string{"Bob: hello there"}) {
		t.Errorf("lines = %v", got)
	}
}

func TestRun_AssignmentsLayerOverSettings(t *testing.T) {
	s := config.Default()
	s.Assignments = map[string]string{"0": "Ann", "1": "Ben"}
	e := newEngineWith(t, s)

	res, err := e.Run(context.Background(), Input{
		Sources: []transcript.Source{
			testutil.Source("MIX.WAV", testutil.UttLabel(0, 1, "first", 0), testutil.UttLabel(1, 2, "second", 1)),
		},
		Assignments: transcript.Assignments{1: "Bea"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if got := testutil.Speakers(res.AttributedLines); !testutil.Equal(got, []string{"Ann", "Bea"}) {
		t.Errorf("speakers = %v", got)
	}
}

func TestRun_Companions(t *testing.T) {
	res, err := newEngine(t).Run(context.Background(), Input{
		Sources:     []transcript.Source{testutil.Source("MIX.WAV", testutil.Utt(5, 7, "let us begin"))},
		Companions:  []transcript.Source{testutil.Source("MIC4.WAV", testutil.Utt(5.1, 7.1, "let us begin"))},
		Assignments: transcript.Assignments{3: "Dee"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.Mode != align.ModeMatched {
		t.Errorf("mode = %s", res.Mode)
	}
	if got := testutil.Render(res.AttributedLines); !testutil.Equal(got, []string{"Dee: let us begin"}) {
		t.Errorf("lines = %v", got)
	}
	if !res.Analysis.MicFilesFound[3] {
		t.Error("companion mic was not diagnosed")
	}
}

func TestRun_StatisticsAndTone(t *testing.T) {
	summarizer := tone.SummarizerFunc(func(_ context.Context, text string) (string, error) {
		if !strings.Contains(text, "Bob:") {
			return "", errors.New("unexpected transcript")
		}
		return "Upbeat.", nil
	})
	e := newEngine(t, WithTone(summarizer), WithRunIDs(func() string { return "run-1" }))

	res, err := e.Run(context.Background(), Input{
		Sources: []transcript.Source{
			testutil.Source("MIX.WAV", testutil.Utt(0, 2, "how are you?"), testutil.Utt(3, 4, "haha great")),
			testutil.Source("MIC1.WAV", testutil.Utt(0, 2, "how are you?"), testutil.Utt(3, 4, "haha great")),
		},
		Assignments: transcript.Assignments{0: "Bob"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.RunID != "run-1" {
		t.Errorf("RunID = %q", res.RunID)
	}
	stats := res.PerSpeakerStatistics
	if stats.Tone != "Upbeat." {
		t.Errorf("Tone = %q", stats.Tone)
	}
	bob, ok := stats.Speaker("Bob")
	if !ok || bob.Questions != 1 || bob.Laughter != 1 || bob.Utterances != 2 {
		t.Errorf("unexpected Bob statistics %+v", bob)
	}
}

func TestRun_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := newEngine(t).Run(ctx, Input{Sources: []transcript.Source{
		testutil.Source("MIX.WAV", testutil.Utt(0, 1, "hi")),
	}})
	if err == nil || res != nil {
		t.Fatalf("expected cancellation, got res=%v err=%v", res, err)
	}
	if !apperrors.IsCanceled(err) {
		t.Errorf("expected CANCELED, got %v", err)
	}
}

func TestDiagnose(t *testing.T) {
	rep, err := newEngine(t).Diagnose(context.Background(), Input{
		Sources:    []transcript.Source{testutil.Source("MIX.WAV", testutil.Utt(0, 1, "hi"), testutil.Utt(1, 2, "yo"))},
		Companions: []transcript.Source{testutil.Source("MIC2.WAV", testutil.UttLabel(0, 1, "hi", 1))},
	})
	if err != nil {
		t.Fatal(err)
	}
	if !rep.MasterMixFound || rep.MasterMixUtteranceCount != 2 {
		t.Errorf("unexpected master diagnosis %+v", rep)
	}
	if rep.TotalMicFilesFound != 1 || rep.MicFileSpeakerAlwaysZero[1] {
		t.Errorf("unexpected mic diagnosis %+v", rep)
	}
}

func TestHealthCheckers(t *testing.T) {
	if n := len(newEngine(t).HealthCheckers()); n != 0 {
		t.Errorf("expected no checkers without tone, got %d", n)
	}
	checked := healthySummarizer{}
	if n := len(newEngine(t, WithTone(checked)).HealthCheckers()); n != 1 {
		t.Errorf("expected tone checker, got %d", n)
	}
}

func TestToneFromSettings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/tags" {
			_, _ = w.Write([]byte(`{"models":[]}`))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	s := config.Default()
	s.Tone.Enabled = true
	s.Tone.BaseURL = srv.URL
	s.Tone.Model = "llama3.1"
	checkers := newEngineWith(t, s).HealthCheckers()
	if len(checkers) != 1 {
		t.Fatalf("expected tone checker, got %d", len(checkers))
	}
	h := checkers[0].CheckHealth(context.Background())
	if h.Status != observability.HealthStatusUp || h.Details["provider"] != "ollama" {
		t.Errorf("unexpected health %+v", h)
	}

	srv.Close()
	if h := checkers[0].CheckHealth(context.Background()); h.Status != observability.HealthStatusDegraded {
		t.Errorf("expected degraded once the backend is gone, got %+v", h)
	}
}

type healthySummarizer struct{}

func (healthySummarizer) Summarize(context.Context, string) (string, error) { return "Calm.", nil }

func (healthySummarizer) CheckHealth(context.Context) observability.Health {
	return observability.Health{Name: "tone", Status: observability.HealthStatusUp}
}
