// Package analyzer abstracts the external analysis capability behind a
// single Invoke call. The production implementation talks to the Anthropic
// API; tests substitute fakes.
package analyzer

import (
	"context"
)

// Request is one bounded-size analysis invocation.
type Request struct {
	Task      string // task name, for logging only
	System    string
	Prompt    string
	MaxTokens int // 0 means the implementation default
}

// Analyzer accepts a structured request and returns a decoded JSON payload.
// Implementations must be safe for concurrent use; they may return malformed
// output errors that the caller retries.
type Analyzer interface {
	Invoke(ctx context.Context, req Request) (map[string]any, error)
}

// Func adapts a function to the Analyzer interface.
type Func func(ctx context.Context, req Request) (map[string]any, error)

func (f Func) Invoke(ctx context.Context, req Request) (map[string]any, error) {
	return f(ctx, req)
}
