package repository

import (
	"context"

	"video-ai-tutor/internal/domain/model"
)

// VectorIndexRepository is the per-owner persistent semantic index.
// Implementations must serialize writes per owner; reads may run concurrently.
type VectorIndexRepository interface {
	// GetOrCreate loads the owner's index, creating and persisting an empty
	// one on first access. Idempotent.
	GetOrCreate(ctx context.Context, ownerID string) error

	// Append embeds the chunk texts and adds them to the owner's index.
	Append(ctx context.Context, ownerID string, chunks []model.TranscriptChunk) error

	// SimilaritySearch returns up to k chunks ordered best-match first.
	SimilaritySearch(ctx context.Context, ownerID, query string, k int) ([]model.TranscriptChunk, error)

	// SearchAll returns every indexed chunk for the owner, for tools that
	// need the full corpus rather than top-k.
	SearchAll(ctx context.Context, ownerID string) ([]model.TranscriptChunk, error)
}
