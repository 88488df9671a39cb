package cache

import (
	"context"
	"errors"
	"sync"
)

// ErrNotFound is returned when a key has never been written or was deleted.
var ErrNotFound = errors.New("cache: key not found")

// Fixed keys for state that survives restarts.
const (
	KeyAccessToken  = "accessToken"
	KeyRefreshToken = "refreshToken"
	KeyTheme        = "omMobileTheme"
	KeyShopProfile  = "omMobileSettings"
)

// Store is the persistent key-value storage used by the session, theme and
// profile stores.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// RedisStore keeps values in Redis under a namespace prefix, without expiry.
type RedisStore struct {
	redis  *RedisClient
	prefix string
}

// NewRedisStore creates a RedisStore. An empty prefix stores keys verbatim.
func NewRedisStore(redis *RedisClient, prefix string) *RedisStore {
	return &RedisStore{redis: redis, prefix: prefix}
}

func (s *RedisStore) key(k string) string {
	if s.prefix == "" {
		return k
	}
	return s.prefix + ":" + k
}

// Get returns the stored value or ErrNotFound.
func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	return s.redis.Get(ctx, s.key(key))
}

// Set writes the value with no TTL.
func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	return s.redis.Set(ctx, s.key(key), value, 0)
}

// Delete removes the key. Deleting a missing key is not an error.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return s.redis.Delete(ctx, s.key(key))
}

// MemoryStore is a process-local fallback used when Redis is not configured
// and in tests.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]string)}
}

func (m *MemoryStore) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *MemoryStore) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}
