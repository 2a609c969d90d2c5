// Package provider defines the narrow request/response contract used for
// optional backends such as the conversation tone summarizer.
//
// Backends implement RequestResponse[I, O]. Cross-cutting behavior is added
// by wrapping them with Middleware:
//
//	backend := provider.Chain(
//	    provider.WithLogging[llm.CompletionRequest, llm.CompletionResponse](log),
//	    provider.WithTracing[llm.CompletionRequest, llm.CompletionResponse]("tone"),
//	    provider.WithCircuitBreaker[llm.CompletionRequest, llm.CompletionResponse](cb),
//	    provider.WithRetry[llm.CompletionRequest, llm.CompletionResponse](retry, log),
//	)(ollama.NewProvider(cfg))
//
// Func turns a plain function into a provider, which keeps tests and
// in-process backends free of adapter types.
package provider
