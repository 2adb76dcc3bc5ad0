package llm

import "context"

// Request carries a single reasoning-service call: a system role framing,
// the user prompt, and generation knobs.
type Request struct {
	SystemRole  string
	Prompt      string
	Temperature float32
	MaxTokens   int32
}

type Provider interface {
	// Complete returns the full text of the model's response.
	Complete(ctx context.Context, req Request) (string, error)
	Close() error
}
