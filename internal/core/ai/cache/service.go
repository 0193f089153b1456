package cache

import (
	"context"
	"errors"
	"fmt"

	"recipe-pantry/internal/infrastructure/config"
	"recipe-pantry/internal/pkg/common"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const redisKeyPrefix = "ai:response:"

// RedisStore 以 Redis 儲存 AI 回應，過期交由 Redis TTL 處理
type RedisStore struct {
	client *redis.Client
	config *config.CacheConfig
}

// NewRedisStore 創建 Redis 快取並測試連線
func NewRedisStore(cfg *config.CacheConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	// 測試連接
	if err := client.Ping(context.Background()).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	common.LogInfo("Redis 快取已連線",
		zap.String("addr", cfg.RedisAddr),
		zap.Int("db", cfg.RedisDB),
		zap.Duration("ttl", cfg.TTL),
	)
	return &RedisStore{client: client, config: cfg}, nil
}

// Get 獲取緩存
func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, redisKeyPrefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrCacheMiss
		}
		return "", fmt.Errorf("failed to get cache: %w", err)
	}
	return val, nil
}

// Set 設置緩存
func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, redisKeyPrefix+key, value, s.config.TTL).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}
	return nil
}

// Close 關閉 Redis 連線
func (s *RedisStore) Close() error {
	return s.client.Close()
}
