package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"codescope/internal/anthropic"
)

const defaultMaxTokens = 4000

// LLM is the Anthropic-backed Analyzer.
type LLM struct {
	client    *anthropic.Client
	maxTokens int
	logger    *slog.Logger
}

func NewLLM(client *anthropic.Client, maxTokens int, logger *slog.Logger) *LLM {
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	return &LLM{client: client, maxTokens: maxTokens, logger: logger}
}

// Invoke sends the prompt to the model and decodes the JSON object it
// returns. A response that is not a single JSON object is an error; the
// retry layer above decides whether to try again.
func (l *LLM) Invoke(ctx context.Context, req Request) (map[string]any, error) {
	tokens := req.MaxTokens
	if tokens <= 0 {
		tokens = l.maxTokens
	}

	l.logger.Info("invoking analyzer",
		"task", req.Task,
		"prompt_len", len(req.Prompt),
		"max_tokens", tokens,
	)

	raw, err := l.client.Complete(ctx, req.System, []anthropic.Message{
		{Role: "user", Content: req.Prompt},
	}, tokens)
	if err != nil {
		return nil, fmt.Errorf("llm call: %w", err)
	}

	payload := make(map[string]any)
	if err := json.Unmarshal(cleanJSON([]byte(raw)), &payload); err != nil {
		l.logger.Warn("analyzer returned malformed json", "task", req.Task, "error", err)
		return nil, fmt.Errorf("parse analyzer response: %w", err)
	}

	return payload, nil
}

// cleanJSON strips markdown code fences and surrounding whitespace from LLM
// responses. Models often wrap JSON in ```json ... ``` blocks.
func cleanJSON(data []byte) []byte {
	s := bytes.TrimSpace(data)
	if len(s) == 0 {
		return s
	}

	if bytes.HasPrefix(s, []byte("```")) {
		if idx := bytes.IndexByte(s, '\n'); idx >= 0 {
			s = s[idx+1:]
		}
		if bytes.HasSuffix(s, []byte("```")) {
			s = s[:len(s)-3]
		}
		s = bytes.TrimSpace(s)
	}

	return s
}
