package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/99minutos/dispatch-coordinator/internal/core/domain"
	"github.com/99minutos/dispatch-coordinator/internal/core/ports"
)

const driverKeyPrefix = "driver:"

var _ ports.DriverRegistry = (*DriverCache)(nil)

// DriverCache is a read-through cache in front of the driver directory.
// Only hits are cached; a Redis failure falls back to the directory.
// Entries are not invalidated: a driver deactivated in the directory keeps
// resolving until its entry expires, so ttl bounds how stale a lookup can be.
type DriverCache struct {
	next   ports.DriverRegistry
	client *redis.Client
	ttl    time.Duration
	log    zerolog.Logger
}

func NewDriverCache(next ports.DriverRegistry, client *redis.Client, ttl time.Duration, log zerolog.Logger) *DriverCache {
	return &DriverCache{next: next, client: client, ttl: ttl, log: log}
}

func (c *DriverCache) Find(ctx context.Context, driverID string) (*domain.Driver, error) {
	key := driverKeyPrefix + driverID

	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var d domain.Driver
		if jerr := json.Unmarshal(raw, &d); jerr == nil {
			return &d, nil
		}
		c.log.Warn().Str("driver_id", driverID).Msg("discarding corrupt driver cache entry")
	case !errors.Is(err, redis.Nil):
		c.log.Debug().Err(err).Str("driver_id", driverID).Msg("driver cache unavailable")
	}

	d, err := c.next.Find(ctx, driverID)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(d); err == nil {
		if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
			c.log.Debug().Err(err).Str("driver_id", driverID).Msg("driver cache write failed")
		}
	}
	return d, nil
}
