// Package cache holds a read-through Redis cache for the settings snapshot,
// which is read on every tracked write. The cache is optional: with no Redis
// client configured every lookup is a miss and every write a no-op.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v9"
	"github.com/pkg/errors"

	"serium/internal/model"
)

const (
	settingsKey = "serium:site-settings"
	settingsTTL = 5 * time.Minute
)

type Cache struct {
	Redis *redis.Client
}

func NewCache(addr string) Cache {
	if addr == "" {
		return Cache{}
	}
	return Cache{Redis: redis.NewClient(&redis.Options{Addr: addr})}
}

// SettingsGet returns the cached settings snapshot and whether it was found.
func (c Cache) SettingsGet(ctx context.Context) (model.SiteSettings, bool, error) {
	var s model.SiteSettings
	if c.Redis == nil {
		return s, false, nil
	}
	data, err := c.Redis.Get(ctx, settingsKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return s, false, nil
		}
		return s, false, errors.Wrap(err, "error getting SiteSettings from cache")
	}
	if err = json.Unmarshal(data, &s); err != nil {
		return s, false, errors.Wrap(err, "error unmarshalling cached SiteSettings")
	}
	return s, true, nil
}

func (c Cache) SettingsSet(ctx context.Context, s model.SiteSettings) error {
	if c.Redis == nil {
		return nil
	}
	data, err := json.Marshal(s)
	if err != nil {
		return errors.Wrap(err, "error marshalling SiteSettings for cache")
	}
	return errors.Wrap(
		c.Redis.Set(ctx, settingsKey, data, settingsTTL).Err(),
		"error setting SiteSettings in cache",
	)
}

func (c Cache) SettingsInvalidate(ctx context.Context) error {
	if c.Redis == nil {
		return nil
	}
	return errors.Wrap(c.Redis.Del(ctx, settingsKey).Err(), "error invalidating SiteSettings cache")
}
