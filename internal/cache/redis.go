package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"portfolio/api/internal/portfolio"
)

// RedisCache stores the portfolio blob in Redis and fans out change
// signals over a pub/sub channel.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects to Redis and verifies the connection.
func NewRedisCache(redisURL string) (*RedisCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &RedisCache{client: client}, nil
}

// NewRedisCacheWithClient wraps an existing Redis client.
func NewRedisCacheWithClient(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) Load(ctx context.Context) portfolio.Document {
	raw, err := c.client.Get(ctx, DataKey).Result()
	if err == redis.Nil {
		return portfolio.Default()
	}
	if err != nil {
		log.Printf("WARNING: cache read failed, using defaults: %v", err)
		return portfolio.Default()
	}

	var doc portfolio.Document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		log.Printf("WARNING: cache blob corrupt, using defaults: %v", err)
		return portfolio.Default()
	}
	return portfolio.Normalize(doc)
}

func (c *RedisCache) Save(ctx context.Context, doc portfolio.Document) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal portfolio: %w", err)
	}

	if err := c.client.Set(ctx, DataKey, raw, 0).Err(); err != nil {
		return fmt.Errorf("save portfolio: %w", err)
	}

	// The marker and the publish are best-effort: a lost signal only delays
	// other listeners until their next read.
	now := time.Now().UnixMilli()
	if err := c.client.Set(ctx, LastUpdateKey, strconv.FormatInt(now, 10), 0).Err(); err != nil {
		log.Printf("WARNING: last-update marker write failed: %v", err)
	}
	if err := c.client.Publish(ctx, UpdateChannel, strconv.FormatInt(now, 10)).Err(); err != nil {
		log.Printf("WARNING: update publish failed: %v", err)
	}
	return nil
}

func (c *RedisCache) LastUpdate(ctx context.Context) int64 {
	raw, err := c.client.Get(ctx, LastUpdateKey).Result()
	if err != nil {
		return 0
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0
	}
	return value
}

func (c *RedisCache) Subscribe(ctx context.Context) (<-chan int64, func()) {
	sub := c.client.Subscribe(ctx, UpdateChannel)
	out := make(chan int64, 1)

	go func() {
		defer close(out)
		for msg := range sub.Channel() {
			value, err := strconv.ParseInt(msg.Payload, 10, 64)
			if err != nil {
				continue
			}
			select {
			case out <- value:
			case <-ctx.Done():
				return
			default:
				// Slow consumer: drop the signal, the next one carries
				// an equivalent "something changed" meaning.
			}
		}
	}()

	return out, func() { _ = sub.Close() }
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
