package adapter

import "context"

// Message represents a chat message.
type Message struct {
	Role    string `json:"role"` // "user", "assistant", "system"
	Content string `json:"content"`
}

// AIServiceAdapter is the port for LLM chat. Implementations return only the
// assistant text; provider plumbing stays behind the adapter.
type AIServiceAdapter interface {
	Chat(ctx context.Context, model string, messages []Message) (string, error)
}
