package cache

import (
	"context"
	"fmt"

	"smart-recipe-backend/internal/infrastructure/config"
	"smart-recipe-backend/internal/pkg/common"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// RedisStore 以 Redis 為後端的緩存
type RedisStore struct {
	client *redis.Client
	cfg    *config.CacheConfig
}

// NewRedisStore 創建 Redis 緩存並測試連線
func NewRedisStore(cfg *config.CacheConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	common.LogInfo("Redis 緩存已初始化",
		zap.String("addr", cfg.RedisAddr),
		zap.Duration("存活時間", cfg.TTL),
	)

	return &RedisStore{
		client: client,
		cfg:    cfg,
	}, nil
}

// Get 獲取緩存值
func (s *RedisStore) Get(ctx context.Context, prompt, imageData string) (string, error) {
	key := cacheKey(prompt, imageData)

	value, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			common.LogCacheMiss("redis", key)
			return "", common.ErrCacheMiss
		}
		return "", fmt.Errorf("failed to get cache: %w", err)
	}

	common.LogCacheHit("redis", key)
	return value, nil
}

// Set 設置緩存值
func (s *RedisStore) Set(ctx context.Context, prompt, imageData, value string) error {
	key := cacheKey(prompt, imageData)

	if err := s.client.Set(ctx, key, value, s.cfg.TTL).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}

	return nil
}

// Close 關閉 Redis 連線
func (s *RedisStore) Close() error {
	return s.client.Close()
}
