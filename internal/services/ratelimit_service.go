package services

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// RateLimitService is a fixed-window counter in Redis. The first hit in a
// window sets the expiry; the count resets when the key expires.
type RateLimitService struct {
	Redis  *redis.Client
	Limit  int
	Window time.Duration
}

func NewRateLimitService(rdb *redis.Client, limit int, window time.Duration) *RateLimitService {
	return &RateLimitService{Redis: rdb, Limit: limit, Window: window}
}

// Allow reports whether the caller may take another action in the current
// window. Redis being down fails open: settlement correctness does not
// depend on the limiter.
func (s *RateLimitService) Allow(ctx context.Context, scope string, accountID int) bool {
	key := fmt.Sprintf("ratelimit:%s:%d", scope, accountID)
	count, err := s.Redis.Incr(ctx, key).Result()
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("rate limiter unavailable")
		return true
	}
	if count == 1 {
		s.Redis.Expire(ctx, key, s.Window)
	}
	return count <= int64(s.Limit)
}
