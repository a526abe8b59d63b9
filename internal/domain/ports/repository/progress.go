package repository

import (
	"context"

	"video-ai-tutor/internal/domain/model"
)

// ProgressRepository stores the latest batch progress record per owner with
// atomic replace-of-record semantics: readers always observe a whole record,
// last writer wins. Get returns domain.ErrNotFound when no record exists.
type ProgressRepository interface {
	Get(ctx context.Context, ownerID string) (*model.BatchProgress, error)
	Replace(ctx context.Context, ownerID string, progress *model.BatchProgress) error
}
