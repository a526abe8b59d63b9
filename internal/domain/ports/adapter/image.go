package adapter

import "context"

// ImageGenAdapter is the port for the external image generation service.
// On a non-success provider response the returned error carries the raw
// response body so callers can echo the provider's failure detail.
type ImageGenAdapter interface {
	Generate(ctx context.Context, prompt string) (imageURL string, err error)
}
