package redis

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	lockKeyPrefix      = "lock:"
	defaultLockTTL     = 10 * time.Second
	defaultRetryDelay  = 25 * time.Millisecond
	lockReleaseTimeout = 2 * time.Second
)

// releaseScript deletes the key only while it still holds our token, so an
// expired holder can never release a lock that has since been re-acquired.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Lock implements ports.Locker across processes with SET NX PX. The TTL
// caps how long a crashed holder can block a tracking code.
type Lock struct {
	client     *redis.Client
	ttl        time.Duration
	retryDelay time.Duration
	log        zerolog.Logger
}

func NewLock(client *redis.Client, ttl time.Duration, log zerolog.Logger) *Lock {
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	return &Lock{client: client, ttl: ttl, retryDelay: defaultRetryDelay, log: log}
}

// Lock polls until the key is acquired, ctx is done, or Redis fails.
func (l *Lock) Lock(ctx context.Context, key string) (func(), error) {
	k := lockKeyPrefix + key
	token := uuid.NewString()

	for {
		ok, err := l.client.SetNX(ctx, k, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("redis lock %s: %w", key, err)
		}
		if ok {
			break
		}

		timer := time.NewTimer(l.retryDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() { l.release(k, token) })
	}, nil
}

func (l *Lock) release(key, token string) {
	// The caller's ctx may already be cancelled; release on a fresh one.
	ctx, cancel := context.WithTimeout(context.Background(), lockReleaseTimeout)
	defer cancel()

	if err := releaseScript.Run(ctx, l.client, []string{key}, token).Err(); err != nil {
		l.log.Warn().Err(err).Str("key", key).Msg("redis lock release failed, waiting for ttl")
	}
}
