// internal/session/store.go
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"scholarstream/internal/common/config"

	"github.com/redis/go-redis/v9"
)

// TokenStore persists the backend bearer token across the session's life.
// Load returns an empty string, not an error, when no token is stored.
type TokenStore interface {
	Save(ctx context.Context, token string) error
	Load(ctx context.Context) (string, error)
	Clear(ctx context.Context) error
}

// MemoryStore keeps the token in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	token string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Save(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *MemoryStore) Load(_ context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}

// RedisStore persists the token in Redis for the lifetime of one
// process's session. Start clears it on every startup, so a token never
// carries over between runs.
type RedisStore struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

func NewRedisStore(cfg config.RedisConfig, ttl time.Duration) *RedisStore {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	return &RedisStore{
		client: rdb,
		key:    cfg.KeyPrefix + ":access-token",
		ttl:    ttl,
	}
}

// NewRedisStoreWithClient wraps an existing client, used by tests.
func NewRedisStoreWithClient(client *redis.Client, keyPrefix string, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		key:    keyPrefix + ":access-token",
		ttl:    ttl,
	}
}

func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (s *RedisStore) Save(ctx context.Context, token string) error {
	return s.client.Set(ctx, s.key, token, s.ttl).Err()
}

func (s *RedisStore) Load(ctx context.Context) (string, error) {
	token, err := s.client.Get(ctx, s.key).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return token, nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	return s.client.Del(ctx, s.key).Err()
}

func (s *RedisStore) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}
