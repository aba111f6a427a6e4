// Package llm defines the role-tagged message model exchanged with
// chat-completion backends.
package llm

// Conversation roles understood by chat-completion backends.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single role-tagged message in a context window. Content is
// plain text; the chat-completions wire format is {role, content}.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// System returns a system message with the given content.
func System(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// User returns a user message with the given content.
func User(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// Assistant returns an assistant message with the given content.
func Assistant(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}
