package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kbukum/voxalign/provider"
)

// Backend is any provider that completes chat requests.
type Backend = provider.RequestResponse[CompletionRequest, CompletionResponse]

// jsonOnly is appended to the system prompt of structured requests. Small
// local models ignore the JSON flag often enough to need both.
const jsonOnly = "\n\nIMPORTANT: Respond with ONLY the JSON object. " +
	"No markdown, no code blocks, no explanations. Start with { and end with }."

// CompleteStructured sends one user turn in JSON mode and decodes the first
// JSON object of the reply into result. Backend errors are returned as is.
func CompleteStructured(ctx context.Context, p Backend, system, user string, result any) error {
	resp, err := p.Execute(ctx, CompletionRequest{
		SystemPrompt: system + jsonOnly,
		Messages:     []Message{{Role: "user", Content: user}},
		JSON:         true,
	})
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(extractJSON(resp.Content)), result); err != nil {
		return fmt.Errorf("llm: unmarshal structured response: %w", err)
	}
	return nil
}

// extractJSON cuts the outermost {...} out of a reply, which also drops
// markdown fences and any chatter around the object. Replies without an
// object come back trimmed so the decode error shows what was received.
func extractJSON(s string) string {
	s = strings.TrimSpace(s)
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end < start {
		return s
	}
	return s[start : end+1]
}
