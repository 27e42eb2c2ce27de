package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	businessCityKeyPrefix = "user:business_cities:"
	businessCityTTL       = 10 * time.Minute
)

// BusinessCityCache caches the active business-city names per user. The
// inbox query hits this on every list call, so a short TTL plus explicit
// invalidation on add/remove keeps it honest.
type BusinessCityCache interface {
	GetCityNames(ctx context.Context, userID string) ([]string, bool, error)
	SetCityNames(ctx context.Context, userID string, names []string) error
	Invalidate(ctx context.Context, userID string) error
}

type businessCityCache struct {
	redis *redis.Client
}

func NewBusinessCityCache(redisClient *redis.Client) BusinessCityCache {
	return &businessCityCache{redis: redisClient}
}

func (c *businessCityCache) GetCityNames(ctx context.Context, userID string) ([]string, bool, error) {
	data, err := c.redis.Get(ctx, businessCityKeyPrefix+userID).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return nil, false, err
	}
	return names, true, nil
}

func (c *businessCityCache) SetCityNames(ctx context.Context, userID string, names []string) error {
	if names == nil {
		names = []string{}
	}
	data, err := json.Marshal(names)
	if err != nil {
		return err
	}
	return c.redis.Set(ctx, businessCityKeyPrefix+userID, data, businessCityTTL).Err()
}

func (c *businessCityCache) Invalidate(ctx context.Context, userID string) error {
	return c.redis.Del(ctx, businessCityKeyPrefix+userID).Err()
}
