// package gradelock serializes evaluations per submission with Redis
package gradelock

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"gitlab.com/gav-2025.net/internal/config"
	"gitlab.com/gav-2025.net/internal/core/ports/primary"
)

const lockKeyPrefix = "grade:lock:"

// releaseScript deletes the lock only if this holder still owns it, so
// a lock that expired and was re-acquired elsewhere is never released
// by the old holder.
const releaseScript = `
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`

// RedisGradeLock implements the GradeLock interface with Redis SET NX.
// The TTL bounds how long a crashed evaluation can hold its lock.
type RedisGradeLock struct {
	redisClient *redis.Client
	logger      primary.Logger
	ttl         time.Duration
	retry       time.Duration
}

// NewRedisGradeLock creates a new Redis-backed per-submission lock
func NewRedisGradeLock(redisClient *redis.Client, cfg *config.RedisConfig, logger primary.Logger) *RedisGradeLock {
	return &RedisGradeLock{
		redisClient: redisClient,
		logger:      logger,
		ttl:         cfg.LockTTL,
		retry:       cfg.LockRetryInterval,
	}
}

// Acquire blocks until the submission's lock is held or ctx is done.
func (l *RedisGradeLock) Acquire(ctx context.Context, submissionID uuid.UUID) (func(), error) {
	key := lockKeyPrefix + submissionID.String()
	token := uuid.NewString()

	for {
		ok, err := l.redisClient.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to acquire grade lock: %w", err)
		}
		if ok {
			break
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("gave up waiting for grade lock on %s: %w", submissionID, ctx.Err())
		case <-time.After(l.retry):
		}
	}

	release := func() {
		// Release must not inherit a cancelled evaluation context.
		rctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := l.redisClient.Eval(rctx, releaseScript, []string{key}, token).Err(); err != nil {
			l.logger.Warn("failed to release grade lock", "submission", submissionID, "error", err)
		}
	}
	return release, nil
}
