package repository

import (
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"messenger/pkg/logger"
)

type Repositories struct {
	User      UserRepository
	Message   MessageRepository
	Presence  PresenceRepository
	RateLimit RateLimitRepository
}

func NewRepositories(db *pgxpool.Pool, redis *redis.Client, presenceTTL time.Duration, log logger.Logger) *Repositories {
	return &Repositories{
		User:      NewUserRepository(db, log),
		Message:   NewMessageRepository(db, log),
		Presence:  NewPresenceRepository(redis, presenceTTL, log),
		RateLimit: NewRateLimitRepository(redis, log),
	}
}
