// File: internal/infra/adapters/image/disabled.go
package image

import (
	"context"
	"errors"

	"video-ai-tutor/internal/domain/ports/adapter"
)

var _ adapter.ImageGenAdapter = Disabled{}

// Disabled stands in when no image provider key is configured. Every request
// fails, which the agent reports inside the chat reply.
type Disabled struct{}

func (Disabled) Generate(context.Context, string) (string, error) {
	return "", errors.New("image generation is not configured")
}
