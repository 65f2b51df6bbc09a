package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// jobLockKeyPrefix is the prefix for all scheduler lock keys
const jobLockKeyPrefix = "eventcast:joblock:"

// releaseScript deletes the lock only if it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// JobLock is a Redis SETNX lock that lets one instance run a scheduled job per tick.
type JobLock struct {
	client *redis.Client
}

func NewJobLock(client *redis.Client) *JobLock {
	return &JobLock{client: client}
}

// TryAcquire atomically acquires the named lock for ttl. It returns a
// release token when acquired and an empty token when another holder owns it.
func (l *JobLock) TryAcquire(ctx context.Context, name string, ttl time.Duration) (string, error) {
	token := uuid.NewString()
	acquired, err := l.client.SetNX(ctx, jobLockKeyPrefix+name, token, ttl).Result()
	if err != nil {
		return "", fmt.Errorf("failed to acquire job lock %s: %w", name, err)
	}
	if !acquired {
		return "", nil
	}
	return token, nil
}

// Release frees the lock if token still owns it. An expired or stolen lock is left alone.
func (l *JobLock) Release(ctx context.Context, name, token string) error {
	if token == "" {
		return nil
	}
	if err := releaseScript.Run(ctx, l.client, []string{jobLockKeyPrefix + name}, token).Err(); err != nil {
		return fmt.Errorf("failed to release job lock %s: %w", name, err)
	}
	return nil
}
