package cart

import (
	"context"
	"errors"
	"sync"
	"time"

	pkgredis "github.com/brightloom/storefront-backend/pkg/redis"
)

// ErrNotFound signals that no snapshot exists for the token.
var ErrNotFound = errors.New("cart snapshot not found")

// Storage is the persistence port for cart snapshots. The store serializes
// the full line list on every mutation, so implementations only need dumb
// get/set/remove semantics.
type Storage interface {
	Get(ctx context.Context, token string) (string, error)
	Set(ctx context.Context, token, payload string) error
	Del(ctx context.Context, token string) error
}

// snapshotTTL bounds how long an abandoned cart survives.
const snapshotTTL = 30 * 24 * time.Hour

type redisStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CartKey(token string) string
}

// RedisStorage persists snapshots in redis under the cart namespace.
type RedisStorage struct {
	client redisStore
}

func NewRedisStorage(client redisStore) *RedisStorage {
	return &RedisStorage{client: client}
}

func (s *RedisStorage) Get(ctx context.Context, token string) (string, error) {
	payload, err := s.client.Get(ctx, s.client.CartKey(token))
	if err != nil {
		if errors.Is(err, pkgredis.Nil) {
			return "", ErrNotFound
		}
		return "", err
	}
	return payload, nil
}

func (s *RedisStorage) Set(ctx context.Context, token, payload string) error {
	return s.client.Set(ctx, s.client.CartKey(token), payload, snapshotTTL)
}

func (s *RedisStorage) Del(ctx context.Context, token string) error {
	return s.client.Del(ctx, s.client.CartKey(token))
}

// MemoryStorage keeps snapshots in a map. Used by tests and local tooling.
type MemoryStorage struct {
	mu   sync.Mutex
	data map[string]string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{data: make(map[string]string)}
}

func (s *MemoryStorage) Get(ctx context.Context, token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	payload, ok := s.data[token]
	if !ok {
		return "", ErrNotFound
	}
	return payload, nil
}

func (s *MemoryStorage) Set(ctx context.Context, token, payload string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[token] = payload
	return nil
}

func (s *MemoryStorage) Del(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, token)
	return nil
}
