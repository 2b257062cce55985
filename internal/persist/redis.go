package persist

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// RedisMedium stores snapshots as plain Redis string values.
type RedisMedium struct {
	rdb    *goredis.Client
	prefix string
}

// NewRedisMedium connects to the Redis server at url (redis://...) and
// verifies the connection. Keys are stored under prefix.
func NewRedisMedium(ctx context.Context, url, prefix string) (*RedisMedium, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if opts.DialTimeout == 0 {
		opts.DialTimeout = 5 * time.Second
	}
	rdb := goredis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisMedium{rdb: rdb, prefix: prefix}, nil
}

func (m *RedisMedium) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := m.rdb.Get(ctx, m.prefix+key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	return v, nil
}

func (m *RedisMedium) Set(ctx context.Context, key string, value []byte) error {
	if err := m.rdb.Set(ctx, m.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (m *RedisMedium) Delete(ctx context.Context, key string) error {
	if err := m.rdb.Del(ctx, m.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (m *RedisMedium) Close() error {
	return m.rdb.Close()
}
