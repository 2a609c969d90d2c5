// Package llm holds the chat-completion types shared by language-model
// backends and helpers that call any backend exposed as a
// provider.RequestResponse.
//
// voxalign only uses a language model for the optional conversation tone,
// so this package stays small: one request shape, one response shape, and
// the structured-output helper that pulls a JSON object out of free text.
package llm
