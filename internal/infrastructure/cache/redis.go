package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"JournalFeed/internal/domain"
	"JournalFeed/internal/ports"
)

// RedisStore keeps enriched articles as JSON strings under prefix+link.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

var _ ports.ArticleStore = (*RedisStore)(nil)

// NewRedisStore wraps an existing client. A zero ttl stores keys without expiry.
func NewRedisStore(client *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, prefix: prefix, ttl: ttl}
}

// ConnectRedis dials addr and verifies the connection with PING.
func ConnectRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        addr,
		Password:    password,
		DB:          db,
		DialTimeout: 5 * time.Second,
	})

	pong, err := client.Ping(ctx).Result()
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}
	if pong != "PONG" {
		_ = client.Close()
		return nil, fmt.Errorf("expected PONG, got %s", pong)
	}
	return client, nil
}

// Key returns the redis key used for an article link.
func (s *RedisStore) Key(link string) string {
	return s.prefix + link
}

// Get loads and decodes the article stored for key.
func (s *RedisStore) Get(ctx context.Context, key string) (domain.Article, bool, error) {
	raw, err := s.client.Get(ctx, s.Key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Article{}, false, nil
	}
	if err != nil {
		return domain.Article{}, false, fmt.Errorf("redis get: %w", err)
	}

	var article domain.Article
	if err := json.Unmarshal(raw, &article); err != nil {
		return domain.Article{}, false, fmt.Errorf("decode cached article: %w", err)
	}
	return article, true, nil
}

// Set encodes and stores article under key.
func (s *RedisStore) Set(ctx context.Context, key string, article domain.Article) error {
	raw, err := json.Marshal(article)
	if err != nil {
		return fmt.Errorf("encode article: %w", err)
	}
	if err := s.client.Set(ctx, s.Key(key), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}
