// Package conversation defines the persisted conversation model: turns,
// their lifecycle states, and the store contract shared by all backends.
package conversation

import "time"

// Status is the lifecycle state of a turn. A turn is written as Pending
// before the completion backend is called and transitions exactly once to
// Completed or Failed. Transitions never reverse.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
)

// Turn is one prompt/response exchange, the atomic persisted unit of a
// conversation. Turns sharing a ThreadID form one conversation, ordered by
// Timestamp (insertion order breaks ties).
type Turn struct {
	// ID is the correlation id linking an inbound request to its outbound
	// response. Unique across the store, never reused.
	ID string `json:"id"`

	// ThreadID groups turns into one conversation.
	ThreadID string `json:"threadId"`

	// Prompt is the user-submitted text for this turn.
	Prompt string `json:"prompt"`

	// Response is the backend-generated text, or an error description when
	// Status is Failed. Empty while Pending.
	Response string `json:"response,omitempty"`

	Status Status `json:"status"`

	// Timestamp is the creation time, used for ordering within a thread.
	Timestamp time.Time `json:"timestamp"`

	// MaxTokens and Temperature record the generation parameters actually
	// used for this turn. Captured for audit, never re-derived.
	MaxTokens   int     `json:"maxTokens"`
	Temperature float64 `json:"temperature"`
}

// Terminal reports whether the turn has reached a final state.
func (t *Turn) Terminal() bool {
	return t.Status == StatusCompleted || t.Status == StatusFailed
}
