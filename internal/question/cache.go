package question

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	categoriesKey      = "interviewbank:categories"
	defaultCategoryTTL = 5 * time.Minute
)

// RedisCategoryCache keeps the distinct-value scan result in Redis. Every
// write to the bank deletes the key, so readers see fresh values at the cost
// of one extra scan after each mutation.
type RedisCategoryCache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ CategoryCache = (*RedisCategoryCache)(nil)

func NewRedisCategoryCache(client *redis.Client, ttl time.Duration) *RedisCategoryCache {
	if ttl <= 0 {
		ttl = defaultCategoryTTL
	}
	return &RedisCategoryCache{client: client, ttl: ttl}
}

func (c *RedisCategoryCache) Get(ctx context.Context) (*Categories, error) {
	data, err := c.client.Get(ctx, categoriesKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	var cats Categories
	if err := json.Unmarshal(data, &cats); err != nil {
		return nil, err
	}
	return &cats, nil
}

func (c *RedisCategoryCache) Set(ctx context.Context, cats Categories) error {
	data, err := json.Marshal(cats)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, categoriesKey, data, c.ttl).Err()
}

func (c *RedisCategoryCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, categoriesKey).Err()
}
