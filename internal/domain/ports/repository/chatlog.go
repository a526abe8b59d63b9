package repository

import "context"

// ChatLogRepository is the durable append-only chat history, one log per
// owner, independent from the agent's in-process memory.
type ChatLogRepository interface {
	// Append writes one "<Sender>: <Message>" line. Sender is "User" or "Bot".
	Append(ctx context.Context, ownerID, sender, message string) error
}
