package cache

import (
	"context"
	"errors"
	"fmt"

	"recipe-pantry/internal/infrastructure/config"
	"recipe-pantry/internal/pkg/common"
)

// ErrCacheMiss 快取中沒有對應的值（或已過期）
var ErrCacheMiss = errors.New("cache miss")

// Store AI 回應快取
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Close() error
}

// NewStore 依設定建立快取後端；停用時回傳 nil
func NewStore(cfg *config.CacheConfig) (Store, error) {
	if !cfg.Enabled {
		common.LogInfo("Cache disabled")
		return nil, nil
	}

	switch cfg.Backend {
	case "memory", "":
		return NewManager(cfg), nil
	case "redis":
		store, err := NewRedisStore(cfg)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported cache backend %q", cfg.Backend)
	}
}
