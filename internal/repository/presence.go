package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"messenger/pkg/logger"
)

// PresenceRepository is a volatile cross-instance cache of the online flag.
// The users table stays authoritative; this cache only overlays listings so
// a crashed instance cannot leave a user stuck "online" past the TTL.
type PresenceRepository interface {
	SetOnline(ctx context.Context, userID int64) error
	SetOffline(ctx context.Context, userID int64) error
	IsOnline(ctx context.Context, userID int64) (bool, error)
}

type presenceRepository struct {
	redis *redis.Client
	ttl   time.Duration
	log   logger.Logger
}

func NewPresenceRepository(redis *redis.Client, ttl time.Duration, log logger.Logger) PresenceRepository {
	return &presenceRepository{redis: redis, ttl: ttl, log: log}
}

func presenceKey(userID int64) string {
	return fmt.Sprintf("presence:%d", userID)
}

func (r *presenceRepository) SetOnline(ctx context.Context, userID int64) error {
	if err := r.redis.Set(ctx, presenceKey(userID), "1", r.ttl).Err(); err != nil {
		r.log.Error("Failed to cache online presence", "error", err, "user_id", userID)
		return err
	}
	return nil
}

func (r *presenceRepository) SetOffline(ctx context.Context, userID int64) error {
	if err := r.redis.Del(ctx, presenceKey(userID)).Err(); err != nil {
		r.log.Error("Failed to clear cached presence", "error", err, "user_id", userID)
		return err
	}
	return nil
}

func (r *presenceRepository) IsOnline(ctx context.Context, userID int64) (bool, error) {
	err := r.redis.Get(ctx, presenceKey(userID)).Err()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		r.log.Error("Failed to read cached presence", "error", err, "user_id", userID)
		return false, err
	}
	return true, nil
}
