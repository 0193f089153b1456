package cache

import (
	"context"
	"sync"
	"time"

	"recipe-pantry/internal/infrastructure/config"
	"recipe-pantry/internal/pkg/common"

	"go.uber.org/zap"
)

// CacheManager 記憶體快取管理器
type CacheManager struct {
	config *config.CacheConfig
	mu     sync.Mutex
	store  map[string]cacheEntry
	stats  cacheStats
	now    func() time.Time

	stop      chan struct{}
	closeOnce sync.Once
}

// cacheEntry 緩存條目
type cacheEntry struct {
	value       string
	expiresAt   time.Time
	createdAt   time.Time
	lastAccess  time.Time
	accessCount int
}

// cacheStats 緩存統計
type cacheStats struct {
	hits      int64
	misses    int64
	evictions int64
}

// NewManager 創建新的緩存管理器
func NewManager(cfg *config.CacheConfig) *CacheManager {
	m := &CacheManager{
		config: cfg,
		store:  make(map[string]cacheEntry),
		now:    time.Now,
		stop:   make(chan struct{}),
	}

	// 啟動清理過期緩存的協程
	if cfg.CleanupInterval > 0 {
		go m.startCleanup()
	}

	common.LogInfo("快取管理員已初始化",
		zap.Int("最大容量", cfg.MaxSize),
		zap.Duration("存活時間", cfg.TTL),
		zap.Duration("清理間隔", cfg.CleanupInterval),
	)

	return m
}

// Get 獲取緩存值
func (m *CacheManager) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.store[key]
	if !exists {
		m.stats.misses++
		return "", ErrCacheMiss
	}

	now := m.now()
	if now.After(entry.expiresAt) {
		delete(m.store, key)
		m.stats.evictions++
		m.stats.misses++
		common.LogDebug("快取已過期", zap.String("鍵", key))
		return "", ErrCacheMiss
	}

	entry.lastAccess = now
	entry.accessCount++
	m.store[key] = entry
	m.stats.hits++
	return entry.value, nil
}

// Set 設置緩存值
func (m *CacheManager) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// 覆寫既有的鍵不佔新容量
	if _, exists := m.store[key]; !exists && len(m.store) >= m.config.MaxSize {
		evicted := m.cleanup()
		if evicted > 0 {
			common.LogDebug("快取清理執行", zap.Int("清理數量", evicted))
		}
		// 仍然超過大小限制時淘汰最少使用的項目
		if len(m.store) >= m.config.MaxSize {
			m.evictLRU()
		}
	}

	now := m.now()
	m.store[key] = cacheEntry{
		value:      value,
		expiresAt:  now.Add(m.config.TTL),
		createdAt:  now,
		lastAccess: now,
	}
	return nil
}

// startCleanup 定期清理過期緩存，直到 Close
func (m *CacheManager) startCleanup() {
	ticker := time.NewTicker(m.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			m.mu.Lock()
			count := m.cleanup()
			size := len(m.store)
			m.mu.Unlock()
			if count > 0 {
				common.LogInfo("Cleaned up expired cache entries",
					zap.Int("count", count),
					zap.Int("remaining_size", size),
				)
			}
		}
	}
}

// cleanup 清理過期的緩存，呼叫端需持有鎖
func (m *CacheManager) cleanup() int {
	now := m.now()
	count := 0
	for key, entry := range m.store {
		if now.After(entry.expiresAt) {
			delete(m.store, key)
			count++
			m.stats.evictions++
		}
	}
	return count
}

// evictLRU 淘汰存取次數最少、其次最久未存取的項目
func (m *CacheManager) evictLRU() {
	var oldestKey string
	var oldestAccess time.Time
	var lowestAccessCount int

	for key, entry := range m.store {
		if oldestKey == "" ||
			entry.accessCount < lowestAccessCount ||
			(entry.accessCount == lowestAccessCount && entry.lastAccess.Before(oldestAccess)) {
			oldestKey = key
			oldestAccess = entry.lastAccess
			lowestAccessCount = entry.accessCount
		}
	}

	if oldestKey != "" {
		delete(m.store, oldestKey)
		m.stats.evictions++
		common.LogDebug("快取已淘汰(LRU)", zap.String("鍵", oldestKey))
	}
}

// GetStats 獲取緩存統計信息
func (m *CacheManager) GetStats() map[string]interface{} {
	m.mu.Lock()
	defer m.mu.Unlock()

	ratio := 0.0
	if total := m.stats.hits + m.stats.misses; total > 0 {
		ratio = float64(m.stats.hits) / float64(total)
	}
	return map[string]interface{}{
		"size":      len(m.store),
		"max_size":  m.config.MaxSize,
		"hits":      m.stats.hits,
		"misses":    m.stats.misses,
		"evictions": m.stats.evictions,
		"hit_ratio": ratio,
	}
}

// Close 停止清理協程並清空緩存
func (m *CacheManager) Close() error {
	m.closeOnce.Do(func() {
		close(m.stop)

		m.mu.Lock()
		defer m.mu.Unlock()
		m.store = make(map[string]cacheEntry)
		common.LogInfo("快取管理員已關閉",
			zap.Int64("命中次數", m.stats.hits),
			zap.Int64("未命中次數", m.stats.misses),
			zap.Int64("淘汰次數", m.stats.evictions),
		)
	})
	return nil
}
