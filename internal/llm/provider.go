// Package llm abstracts chat-completion providers behind a single
// interface. Summaries and answers go through a Provider; the rate-limited
// wrapper keeps request volume within a configured budget.
package llm

import "context"

// Provider is a chat-completion backend.
type Provider interface {
	// Complete sends a completion request and returns the generated text.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
	// Name identifies the provider.
	Name() string
}
