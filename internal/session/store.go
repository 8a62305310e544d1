package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// MemoryStore keeps the credential for the lifetime of the process.
type MemoryStore struct {
	mu    sync.Mutex
	token string
}

// NewMemoryStore builds an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load(context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, nil
}

func (m *MemoryStore) Save(_ context.Context, token string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

func (m *MemoryStore) Delete(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	return nil
}

// RedisKV is the subset of redis.Cmdable used by RedisStore.
type RedisKV interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

var _ RedisKV = (*redis.Client)(nil)

// RedisStore keeps the credential under a single redis key so it survives
// restarts of the companion process.
type RedisStore struct {
	client RedisKV
	key    string
}

// NewRedisStore builds a RedisStore. client is usually a *redis.Client.
func NewRedisStore(client RedisKV, key string) *RedisStore {
	if key == "" {
		key = "heartlink:session"
	}
	return &RedisStore{client: client, key: key}
}

func (r *RedisStore) Load(ctx context.Context) (string, error) {
	token, err := r.client.Get(ctx, r.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return token, nil
}

// Save stores token. A zero ttl keeps it until deleted; a negative ttl means
// the token has already expired, so the key is removed instead.
func (r *RedisStore) Save(ctx context.Context, token string, ttl time.Duration) error {
	if ttl < 0 {
		return r.Delete(ctx)
	}
	return r.client.Set(ctx, r.key, token, ttl).Err()
}

func (r *RedisStore) Delete(ctx context.Context) error {
	return r.client.Del(ctx, r.key).Err()
}
