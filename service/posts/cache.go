package posts

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/KAsare1/Kodefx-blog/cmd/models"
	"github.com/KAsare1/Kodefx-blog/cmd/utils"
	"github.com/redis/go-redis/v9"
)

const indexKeyPrefix = "index_page:"

// IndexCache holds rendered-ready index pages keyed by the raw ?page= value.
type IndexCache interface {
	Get(ctx context.Context, rawPage string) (*utils.Page[models.Post], bool)
	Set(ctx context.Context, rawPage string, page *utils.Page[models.Post])
}

// RedisIndexCache stores index pages as JSON with a fixed TTL. Failures are
// logged and treated as a miss.
type RedisIndexCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisIndexCache(client *redis.Client, ttl time.Duration) *RedisIndexCache {
	return &RedisIndexCache{client: client, ttl: ttl}
}

func indexKey(rawPage string) string {
	return indexKeyPrefix + rawPage
}

func (c *RedisIndexCache) Get(ctx context.Context, rawPage string) (*utils.Page[models.Post], bool) {
	data, err := c.client.Get(ctx, indexKey(rawPage)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		log.Printf("Index cache read failed: %v", err)
		return nil, false
	}

	var page utils.Page[models.Post]
	if err := json.Unmarshal(data, &page); err != nil {
		log.Printf("Index cache entry %s is corrupt: %v", indexKey(rawPage), err)
		return nil, false
	}
	return &page, true
}

func (c *RedisIndexCache) Set(ctx context.Context, rawPage string, page *utils.Page[models.Post]) {
	data, err := json.Marshal(page)
	if err != nil {
		log.Printf("Index cache encode failed: %v", err)
		return
	}
	if err := c.client.Set(ctx, indexKey(rawPage), data, c.ttl).Err(); err != nil {
		log.Printf("Index cache write failed: %v", err)
	}
}
