package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "rpscrape:doc:"

// Store holds fetched documents by URL. Load returns ok false on a miss.
type Store interface {
	Load(ctx context.Context, key string) (body []byte, ok bool, err error)
	Save(ctx context.Context, key string, body []byte, ttl time.Duration) error
}

// CachedFetcher serves documents from a Store and fills it from the wrapped
// Fetcher. Only 200 responses are stored. Store failures are logged and the
// request falls through to the network.
type CachedFetcher struct {
	next  Fetcher
	store Store
	ttl   time.Duration
}

func NewCached(next Fetcher, store Store, ttl time.Duration) *CachedFetcher {
	return &CachedFetcher{next: next, store: store, ttl: ttl}
}

func (c *CachedFetcher) Get(ctx context.Context, url string) (int, []byte, error) {
	key := keyPrefix + url
	body, ok, err := c.store.Load(ctx, key)
	switch {
	case err != nil:
		zap.L().Warn("cache load failed", zap.String("url", url), zap.Error(err))
	case ok:
		return http.StatusOK, body, nil
	}

	status, body, err := c.next.Get(ctx, url)
	if err != nil || status != http.StatusOK {
		return status, body, err
	}
	if err := c.store.Save(ctx, key, body, c.ttl); err != nil {
		zap.L().Warn("cache save failed", zap.String("url", url), zap.Error(err))
	}
	return status, body, nil
}

// RedisStore is a Store on a redis server.
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisStore connects and pings the server.
func NewRedisStore(ctx context.Context, addr, password string, db int) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis: ping: %w", err)
	}
	return &RedisStore{rdb: rdb}, nil
}

func (s *RedisStore) Load(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis: get %s: %w", key, err)
	}
	return b, true, nil
}

func (s *RedisStore) Save(ctx context.Context, key string, body []byte, ttl time.Duration) error {
	if err := s.rdb.Set(ctx, key, body, ttl).Err(); err != nil {
		return fmt.Errorf("redis: set %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
