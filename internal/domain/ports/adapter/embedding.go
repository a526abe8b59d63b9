package adapter

import "context"

// EmbeddingAdapter is the port for the text embedding service.
type EmbeddingAdapter interface {
	// Embed returns one vector per input text, in input order.
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	// Dimension is the fixed vector size produced by this embedder.
	Dimension() int
}
