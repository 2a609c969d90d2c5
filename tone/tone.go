// Package tone produces a short, best-effort description of a conversation's
// tone. Summaries are optional: callers treat every error as "no tone".
package tone

import (
	"context"
	"strings"

	"github.com/kbukum/voxalign/errors"
	"github.com/kbukum/voxalign/llm"
	"github.com/kbukum/voxalign/logger"
	"github.com/kbukum/voxalign/observability"
	"github.com/kbukum/voxalign/provider"
	"github.com/kbukum/voxalign/resilience"
)

// DefaultMaxChars bounds the transcript text sent to a backend.
const DefaultMaxChars = 12000

// Summarizer describes the tone of a rendered transcript.
type Summarizer interface {
	Summarize(ctx context.Context, transcript string) (string, error)
}

// SummarizerFunc adapts a function to Summarizer.
type SummarizerFunc func(ctx context.Context, transcript string) (string, error)

// Summarize calls f.
func (f SummarizerFunc) Summarize(ctx context.Context, transcript string) (string, error) {
	return f(ctx, transcript)
}

const systemPrompt = `You read meeting transcripts and describe the overall conversational tone.
Reply with a JSON object {"tone": "<one short sentence>"}. Mention mood and energy, not content.`

// LLMSummarizer asks a chat model for the tone.
type LLMSummarizer struct {
	backend  llm.Backend
	model    string
	maxChars int
	retry    *resilience.RetryConfig
	breaker  *resilience.CircuitBreaker
}

// Option configures an LLMSummarizer.
type Option func(*LLMSummarizer)

// WithModel overrides the backend's default model.
func WithModel(model string) Option {
	return func(s *LLMSummarizer) { s.model = model }
}

// WithMaxChars bounds the transcript prefix sent to the backend.
func WithMaxChars(n int) Option {
	return func(s *LLMSummarizer) {
		if n > 0 {
			s.maxChars = n
		}
	}
}

// WithRetry retries failed backend calls. Retries run inside the circuit
// breaker, so one exhausted retry loop counts as one breaker failure.
func WithRetry(cfg resilience.RetryConfig) Option {
	return func(s *LLMSummarizer) { s.retry = &cfg }
}

// WithCircuitBreaker stops calling the backend while cb is open. Share one
// breaker across summarizers that talk to the same backend.
func WithCircuitBreaker(cb *resilience.CircuitBreaker) Option {
	return func(s *LLMSummarizer) { s.breaker = cb }
}

// NewLLMSummarizer wraps backend with logging and tracing middleware, plus
// the circuit breaker and retry policy when configured.
func NewLLMSummarizer(backend llm.Backend, log *logger.Logger, opts ...Option) *LLMSummarizer {
	s := &LLMSummarizer{maxChars: DefaultMaxChars}
	for _, opt := range opts {
		opt(s)
	}

	log = logger.OrNop(log).WithComponent("tone")
	chain := []provider.Middleware[llm.CompletionRequest, llm.CompletionResponse]{
		provider.WithLogging[llm.CompletionRequest, llm.CompletionResponse](log),
		provider.WithTracing[llm.CompletionRequest, llm.CompletionResponse]("tone"),
	}
	if s.breaker != nil {
		chain = append(chain, provider.WithCircuitBreaker[llm.CompletionRequest, llm.CompletionResponse](s.breaker))
	}
	if s.retry != nil {
		chain = append(chain, provider.WithRetry[llm.CompletionRequest, llm.CompletionResponse](*s.retry, log))
	}
	s.backend = provider.Chain(chain...)(backend)
	return s
}

// Summarize returns a one-sentence tone description. Empty transcripts and
// backend failures yield TONE_UNAVAILABLE.
func (s *LLMSummarizer) Summarize(ctx context.Context, transcript string) (string, error) {
	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		return "", errors.ToneUnavailable(nil)
	}
	if !s.backend.IsAvailable(ctx) {
		return "", errors.ToneUnavailable(nil).WithDetail("provider", s.backend.Name())
	}

	var out struct {
		Tone string `json:"tone"`
	}
	user := "Transcript:\n" + truncate(transcript, s.maxChars)
	if err := llm.CompleteStructured(ctx, s.modelBackend(), systemPrompt, user, &out); err != nil {
		return "", errors.ToneUnavailable(err)
	}
	tone := strings.TrimSpace(out.Tone)
	if tone == "" {
		return "", errors.ToneUnavailable(nil).WithDetail("reason", "empty tone")
	}
	return tone, nil
}

// CheckHealth implements observability.HealthChecker. An unreachable backend
// reports degraded, never down.
func (s *LLMSummarizer) CheckHealth(ctx context.Context) observability.Health {
	h := observability.Health{
		Name:    "tone",
		Status:  observability.HealthStatusUp,
		Details: map[string]string{"provider": s.backend.Name()},
	}
	if s.model != "" {
		h.Details["model"] = s.model
	}
	if !s.backend.IsAvailable(ctx) {
		h.Status = observability.HealthStatusDegraded
		h.Message = "tone backend unavailable"
	}
	return h
}

// modelBackend pins the configured model on every request.
func (s *LLMSummarizer) modelBackend() llm.Backend {
	if s.model == "" {
		return s.backend
	}
	return provider.Func(s.backend.Name(), func(ctx context.Context, req llm.CompletionRequest) (llm.CompletionResponse, error) {
		req.Model = s.model
		return s.backend.Execute(ctx, req)
	})
}

// truncate cuts s to at most n runes on a line boundary when one is near.
func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	cut := string(r[:n])
	if i := strings.LastIndexByte(cut, '\n'); i > len(cut)/2 {
		return cut[:i]
	}
	return cut
}
