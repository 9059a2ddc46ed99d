package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shubham-bhadra-10/Legalyze/config"
	"github.com/shubham-bhadra-10/Legalyze/pkg/apperr"
)

// KV is the cache backend used by the temporary blob store and the result
// cache. The two consumers share one backend with distinct key namespaces
// and TTLs. Implementations are injected so tests can run without Redis.
type KV interface {
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
	Del(ctx context.Context, key string) error
	Expire(ctx context.Context, key string, ttl time.Duration) error
}

// RedisKV is the production KV backed by Redis.
type RedisKV struct {
	client *redis.Client
}

func NewRedisKV(cfg *config.RedisConfig) (*RedisKV, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &RedisKV{client: client}, nil
}

func (kv *RedisKV) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := kv.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return apperr.Wrap(apperr.KindInfra, "cache set", err)
	}
	return nil
}

func (kv *RedisKV) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := kv.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperr.New(apperr.KindNotFound, "key not found")
		}
		return nil, apperr.Wrap(apperr.KindInfra, "cache get", err)
	}
	return data, nil
}

func (kv *RedisKV) Del(ctx context.Context, key string) error {
	if err := kv.client.Del(ctx, key).Err(); err != nil {
		return apperr.Wrap(apperr.KindInfra, "cache del", err)
	}
	return nil
}

func (kv *RedisKV) Expire(ctx context.Context, key string, ttl time.Duration) error {
	if err := kv.client.Expire(ctx, key, ttl).Err(); err != nil {
		return apperr.Wrap(apperr.KindInfra, "cache expire", err)
	}
	return nil
}

func (kv *RedisKV) Close() error {
	return kv.client.Close()
}

type memoryItem struct {
	data      []byte
	expiresAt time.Time
}

// MemoryKV is an in-memory KV used in tests and when no Redis address is
// configured. Expiry is checked lazily on read.
type MemoryKV struct {
	mu    sync.RWMutex
	items map[string]memoryItem
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{items: make(map[string]memoryItem)}
}

func (kv *MemoryKV) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()

	item := memoryItem{data: append([]byte(nil), value...)}
	if ttl > 0 {
		item.expiresAt = time.Now().Add(ttl)
	}
	kv.items[key] = item
	return nil
}

func (kv *MemoryKV) Get(ctx context.Context, key string) ([]byte, error) {
	kv.mu.RLock()
	item, ok := kv.items[key]
	kv.mu.RUnlock()

	if !ok || (!item.expiresAt.IsZero() && time.Now().After(item.expiresAt)) {
		return nil, apperr.New(apperr.KindNotFound, "key not found")
	}
	return item.data, nil
}

func (kv *MemoryKV) Del(ctx context.Context, key string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	delete(kv.items, key)
	return nil
}

func (kv *MemoryKV) Expire(ctx context.Context, key string, ttl time.Duration) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()

	if item, ok := kv.items[key]; ok {
		item.expiresAt = time.Now().Add(ttl)
		kv.items[key] = item
	}
	return nil
}
