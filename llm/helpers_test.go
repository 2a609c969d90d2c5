package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kbukum/voxalign/provider"
)

func staticBackend(content string, seen *CompletionRequest) Backend {
	return provider.Func("static", func(_ context.Context, req CompletionRequest) (CompletionResponse, error) {
		if seen != nil {
			*seen = req
		}
		return CompletionResponse{Content: content, Model: "test"}, nil
	})
}

func TestCompleteStructuredBackendError(t *testing.T) {
	backendErr := errors.New("connection refused")
	failing := provider.Func("down", func(context.Context, CompletionRequest) (CompletionResponse, error) {
		return CompletionResponse{}, backendErr
	})
	var out struct{}
	if err := CompleteStructured(context.Background(), failing, "", "hi", &out); !errors.Is(err, backendErr) {
		t.Errorf("expected backend error, got %v", err)
	}
}

func TestCompleteStructured(t *testing.T) {
	var seen CompletionRequest
	var result struct {
		Tone string `json:"tone"`
	}
	err := CompleteStructured(context.Background(), staticBackend("```json\n{\"tone\": \"playful\"}\n```", &seen), "Describe tone.", "transcript", &result)
	if err != nil {
		t.Fatalf("CompleteStructured() error: %v", err)
	}
	if result.Tone != "playful" {
		t.Errorf("Tone = %q, want playful", result.Tone)
	}
	if !seen.JSON || !strings.HasPrefix(seen.SystemPrompt, "Describe tone.") || !strings.Contains(seen.SystemPrompt, "ONLY the JSON object") {
		t.Errorf("expected JSON instructions, got %+v", seen)
	}
}

func TestCompleteStructuredInvalid(t *testing.T) {
	var result struct{}
	err := CompleteStructured(context.Background(), staticBackend("no json here", nil), "", "", &result)
	if err == nil || !strings.Contains(err.Error(), "unmarshal structured response") {
		t.Errorf("expected unmarshal error, got %v", err)
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain json", `{"key": "value"}`, `{"key": "value"}`},
		{"with whitespace", `  {"key": "value"}  `, `{"key": "value"}`},
		{"markdown fence", "```json\n{\"key\": \"value\"}\n```", `{"key": "value"}`},
		{"with prefix text", `Here is the result: {"key": "value"}`, `{"key": "value"}`},
		{"fence with nested object", "```\n{\"a\": {\"b\": 1}}\n```", `{"a": {"b": 1}}`},
		{"no json", " just text ", "just text"},
		{"reversed braces", "} {", "} {"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractJSON(tt.input)
			if got != tt.want {
				t.Errorf("extractJSON(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
