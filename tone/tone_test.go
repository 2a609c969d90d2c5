package tone

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	apperrors "github.com/kbukum/voxalign/errors"
	"github.com/kbukum/voxalign/llm"
	"github.com/kbukum/voxalign/observability"
	"github.com/kbukum/voxalign/provider"
	"github.com/kbukum/voxalign/resilience"
)

func backend(fn func(req llm.CompletionRequest) (string, error)) llm.Backend {
	return provider.Func("fake", func(_ context.Context, req llm.CompletionRequest) (llm.CompletionResponse, error) {
		content, err := fn(req)
		return llm.CompletionResponse{Content: content}, err
	})
}

func isToneUnavailable(err error) bool {
	var appErr *apperrors.AppError
	return errors.As(err, &appErr) && appErr.Code == apperrors.ErrCodeToneUnavailable
}

func TestLLMSummarizer_Summarize(t *testing.T) {
	var got llm.CompletionRequest
	s := NewLLMSummarizer(backend(func(req llm.CompletionRequest) (string, error) {
		got = req
		return "```json\n{\"tone\": \"  Relaxed and friendly. \"}\n```", nil
	}), nil, WithModel("llama3.1"))

	tone, err := s.Summarize(context.Background(), "Bob: hello there\nAnn: hi Bob")
	if err != nil {
		t.Fatal(err)
	}
	if tone != "Relaxed and friendly." {
		t.Errorf("tone = %q", tone)
	}
	if !got.JSON || got.Model != "llama3.1" {
		t.Errorf("unexpected request %+v", got)
	}
	if len(got.Messages) != 1 || !strings.Contains(got.Messages[0].Content, "Ann: hi Bob") {
		t.Errorf("transcript not sent: %+v", got.Messages)
	}
}

func TestLLMSummarizer_Failures(t *testing.T) {
	tests := []struct {
		name       string
		transcript string
		reply      string
		err        error
	}{
		{"empty transcript", "   ", `{"tone":"calm"}`, nil},
		{"backend error", "Bob: hi", "", errors.New("connection refused")},
		{"not json", "Bob: hi", "calm", nil},
		{"empty tone", "Bob: hi", `{"tone":"  "}`, nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := NewLLMSummarizer(backend(func(llm.CompletionRequest) (string, error) {
				return tc.reply, tc.err
			}), nil)
			tone, err := s.Summarize(context.Background(), tc.transcript)
			if tone != "" || !isToneUnavailable(err) {
				t.Errorf("Summarize() = %q, %v; want TONE_UNAVAILABLE", tone, err)
			}
		})
	}
}

func TestLLMSummarizer_BackendErrorIsWrapped(t *testing.T) {
	s := NewLLMSummarizer(backend(func(llm.CompletionRequest) (string, error) {
		return "", context.DeadlineExceeded
	}), nil)
	_, err := s.Summarize(context.Background(), "Bob: hi")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected cause to be preserved, got %v", err)
	}
}

func TestLLMSummarizer_Truncates(t *testing.T) {
	var sent string
	s := NewLLMSummarizer(backend(func(req llm.CompletionRequest) (string, error) {
		sent = req.Messages[0].Content
		return `{"tone":"calm"}`, nil
	}), nil, WithMaxChars(20))

	if _, err := s.Summarize(context.Background(), "Bob: first line\nAnn: second line that is long"); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(sent, "second") {
		t.Errorf("expected transcript to be cut at a line boundary, sent %q", sent)
	}
	if !strings.Contains(sent, "Bob: first line") {
		t.Errorf("expected first line to be kept, sent %q", sent)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"abcdef", 3, "abc"},
		{"héllo wörld", 4, "héll"},
		{"aaaaa\nbbbbbb", 8, "aaaaa"},
		{"a\nbbbbbbbbbb", 8, "a\nbbbbbb"},
		{"anything", 0, "anything"},
	}
	for _, tc := range tests {
		if got := truncate(tc.in, tc.n); got != tc.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tc.in, tc.n, got, tc.want)
		}
	}
}

func TestSummarizerFunc(t *testing.T) {
	var s Summarizer = SummarizerFunc(func(_ context.Context, tr string) (string, error) {
		return "tone of " + tr, nil
	})
	got, err := s.Summarize(context.Background(), "x")
	if err != nil || got != "tone of x" {
		t.Errorf("Summarize() = %q, %v", got, err)
	}
}

type unavailable struct{ llm.Backend }

func (unavailable) IsAvailable(context.Context) bool { return false }

func TestLLMSummarizer_CheckHealth(t *testing.T) {
	ok := NewLLMSummarizer(backend(func(llm.CompletionRequest) (string, error) { return "", nil }), nil, WithModel("llama3.1"))
	h := ok.CheckHealth(context.Background())
	if h.Status != observability.HealthStatusUp || h.Details["model"] != "llama3.1" || h.Details["provider"] != "fake" {
		t.Errorf("unexpected health %+v", h)
	}

	down := NewLLMSummarizer(unavailable{backend(nil)}, nil)
	if h := down.CheckHealth(context.Background()); h.Status != observability.HealthStatusDegraded {
		t.Errorf("expected degraded, got %+v", h)
	}
}

func TestLLMSummarizer_Retry(t *testing.T) {
	calls := 0
	s := NewLLMSummarizer(backend(func(llm.CompletionRequest) (string, error) {
		calls++
		if calls == 1 {
			return "", errors.New("connection reset")
		}
		return `{"tone":"calm"}`, nil
	}), nil, WithRetry(resilience.RetryConfig{MaxAttempts: 2, InitialBackoff: time.Millisecond}))

	tone, err := s.Summarize(context.Background(), "Bob: hi")
	if err != nil || tone != "calm" {
		t.Fatalf("Summarize() = %q, %v", tone, err)
	}
	if calls != 2 {
		t.Errorf("expected 2 backend calls, got %d", calls)
	}
}

func TestLLMSummarizer_CircuitBreaker(t *testing.T) {
	calls := 0
	cb := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{Name: "tone", MaxFailures: 1, Cooldown: time.Hour})
	s := NewLLMSummarizer(backend(func(llm.CompletionRequest) (string, error) {
		calls++
		return "", errors.New("connection refused")
	}), nil, WithCircuitBreaker(cb))

	for range 3 {
		if _, err := s.Summarize(context.Background(), "Bob: hi"); !isToneUnavailable(err) {
			t.Fatalf("expected TONE_UNAVAILABLE, got %v", err)
		}
	}
	if calls != 1 {
		t.Errorf("expected open breaker to skip the backend, got %d calls", calls)
	}
	if h := s.CheckHealth(context.Background()); h.Status != observability.HealthStatusDegraded {
		t.Errorf("expected degraded health while open, got %+v", h)
	}
}
