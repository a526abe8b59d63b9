package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"video-ai-tutor/internal/domain"
	"video-ai-tutor/internal/domain/model"
	"video-ai-tutor/internal/domain/ports/repository"

	"github.com/go-redis/redis/v8"
)

var _ repository.ProgressRepository = (*ProgressRepo)(nil)

// ProgressRepo keeps the latest batch progress record per owner in Redis.
// Each record is written as one JSON value with a plain SET, which gives the
// atomic replace-of-record semantics the polling contract relies on.
type ProgressRepo struct {
	client RedisClient
	ttl    time.Duration
}

func NewProgressRepo(client RedisClient, ttl time.Duration) *ProgressRepo {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &ProgressRepo{client: client, ttl: ttl}
}

func (r *ProgressRepo) progressKey(ownerID string) string {
	return fmt.Sprintf("batch_progress:%s", ownerID)
}

func (r *ProgressRepo) Replace(ctx context.Context, ownerID string, progress *model.BatchProgress) error {
	data, err := json.Marshal(progress)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.progressKey(ownerID), data, r.ttl)
}

func (r *ProgressRepo) Get(ctx context.Context, ownerID string) (*model.BatchProgress, error) {
	data, err := r.client.Get(ctx, r.progressKey(ownerID))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	var p model.BatchProgress
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, err
	}
	return &p, nil
}
