package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/redis/go-redis/v9"
)

// RevocationStore is the logout denylist. Entries only need to outlive the
// token they revoke; an expired token is rejected by signature checks anyway.
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
	Close() error
}

const revocationKeyPrefix = "devcamper:revoked:"

// RedisRevocationStore keeps revoked token ids in Redis so every API
// instance sees the same denylist
type RedisRevocationStore struct {
	client *redis.Client
	prefix string
}

// NewRedisRevocationStore connects to Redis and verifies the connection
func NewRedisRevocationStore(ctx context.Context, url string) (*RedisRevocationStore, error) {
	if url == "" {
		return nil, errors.New("redis URL is required")
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, opts.DialTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: %v", ErrRevocationUnavailable, err)
	}

	return &RedisRevocationStore{client: client, prefix: revocationKeyPrefix}, nil
}

// Revoke denylists tokenID until the given time
func (s *RedisRevocationStore) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, s.prefix+tokenID, "1", ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRevocationUnavailable, err)
	}
	return nil
}

// IsRevoked reports whether tokenID is denylisted
func (s *RedisRevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.client.Exists(ctx, s.prefix+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrRevocationUnavailable, err)
	}
	return n > 0, nil
}

// Close releases the Redis connection pool
func (s *RedisRevocationStore) Close() error {
	return s.client.Close()
}

// MemoryRevocationStore is the single-instance denylist. Entries are evicted
// after maxTTL, which should be the token lifetime, or earlier under size
// pressure.
type MemoryRevocationStore struct {
	cache *expirable.LRU[string, time.Time]
	now   func() time.Time
}

// NewMemoryRevocationStore creates an in-process denylist
func NewMemoryRevocationStore(size int, maxTTL time.Duration) *MemoryRevocationStore {
	if size <= 0 {
		size = 10000
	}
	return &MemoryRevocationStore{
		cache: expirable.NewLRU[string, time.Time](size, nil, maxTTL),
		now:   time.Now,
	}
}

// Revoke denylists tokenID until the given time
func (s *MemoryRevocationStore) Revoke(_ context.Context, tokenID string, until time.Time) error {
	if !until.After(s.now()) {
		return nil
	}
	s.cache.Add(tokenID, until)
	return nil
}

// IsRevoked reports whether tokenID is denylisted
func (s *MemoryRevocationStore) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	until, ok := s.cache.Get(tokenID)
	if !ok {
		return false, nil
	}
	return s.now().Before(until), nil
}

// Close is a no-op
func (s *MemoryRevocationStore) Close() error {
	return nil
}
