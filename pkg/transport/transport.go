// Package transport defines the messaging abstraction the orchestrator sits
// behind: a normalized inbound request, a normalized outbound response, and
// the capability set every broker variant implements. Concrete variants
// differ only in connection setup and wire encoding.
package transport

import "context"

// Request is the transport-agnostic inbound shape. All fields except Text
// are optional; missing ids are generated downstream by the orchestrator.
type Request struct {
	ID           string   `json:"id,omitempty"`
	ThreadID     string   `json:"threadId,omitempty"`
	Text         string   `json:"text"`
	SystemPrompt string   `json:"systemPrompt,omitempty"`
	MaxTokens    *int     `json:"maxTokens,omitempty"`
	Temperature  *float64 `json:"temperature,omitempty"`
}

// Response is the transport-agnostic outbound shape published after a turn
// completes.
type Response struct {
	ID       string `json:"id"`
	ThreadID string `json:"threadId"`
	Response string `json:"response"`
}

// Handler consumes one normalized inbound request. Brokers deliver
// at-least-once, so handlers must tolerate duplicate ids.
type Handler func(ctx context.Context, req Request)

// Transport is the capability set shared by all broker variants. Exactly one
// variant is active per deployment, selected by configuration.
type Transport interface {
	// Name returns the variant name ("mqtt", "kafka", "nop").
	Name() string

	// Subscribe registers the handler invoked once per inbound message and
	// starts consuming. Call at most once.
	Subscribe(ctx context.Context, handler Handler) error

	// Publish sends an outbound response. Fire-and-forget from the
	// orchestrator's perspective: failures are logged by the caller, never
	// retried, and never reverse a committed turn state.
	Publish(ctx context.Context, resp Response) error

	// Close disconnects from the broker.
	Close() error
}
