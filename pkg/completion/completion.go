// Package completion defines the contract for synchronous chat-completion
// backends.
package completion

import (
	"context"

	"github.com/azziedev/promptrelay/pkg/llm"
)

// Request is a single chat-completion call: the assembled context window plus
// the generation parameters used for this turn.
type Request struct {
	Model       string
	Messages    []llm.Message
	MaxTokens   int
	Temperature float64
}

// Client performs one blocking completion call per request. Implementations
// do not retry; a failed call surfaces as a *BackendError.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}
