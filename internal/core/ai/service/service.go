package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"recipe-pantry/internal/core/ai/cache"
	"recipe-pantry/internal/core/ai/provider"
	"recipe-pantry/internal/core/ai/queue"
	"recipe-pantry/internal/infrastructure/config"
	"recipe-pantry/internal/pkg/common"
	"recipe-pantry/internal/pkg/metrics"

	"go.uber.org/zap"
)

// Service AI 服務：快取、排隊後呼叫聊天補全提供者
type Service struct {
	config   *config.Config
	provider provider.Provider
	store    cache.Store
	queue    *queue.Manager
	metrics  *metrics.Collector
}

// NewService 創建 AI 服務；store 與 collector 可為 nil
func NewService(cfg *config.Config, p provider.Provider, store cache.Store, collector *metrics.Collector) *Service {
	return &Service{
		config:   cfg,
		provider: p,
		store:    store,
		queue:    queue.NewManager(cfg.Queue, p),
		metrics:  collector,
	}
}

// Chat 以系統提示與使用者提示取得模型回覆
func (s *Service) Chat(ctx context.Context, system, user string) (*provider.Response, error) {
	if !s.provider.Configured() {
		return nil, common.ErrAINotConfigured
	}

	model := s.provider.GetModel()
	requestID := common.RequestIDFromContext(ctx)
	key := cacheKey(model, system, user)

	if content, ok := s.lookup(ctx, key); ok {
		s.metrics.ObserveAICall(model, metrics.OutcomeCacheHit, 0)
		return &provider.Response{Content: content, Model: model, CacheHit: true}, nil
	}

	req := &provider.Request{
		Messages: []provider.Message{
			{Role: provider.RoleSystem, Content: system},
			{Role: provider.RoleUser, Content: user},
		},
		MaxTokens:   s.config.OpenRouter.MaxTokens,
		Temperature: s.config.OpenRouter.Temperature,
	}

	start := time.Now()
	resp, err := s.queue.Do(ctx, req)
	duration := time.Since(start)
	common.LogAICall(model, duration, err, requestID)
	if err != nil {
		s.metrics.ObserveAICall(model, metrics.OutcomeError, duration)
		return nil, translateError(err)
	}
	s.metrics.ObserveAICall(model, metrics.OutcomeSuccess, duration)

	if s.store != nil {
		if err := s.store.Set(ctx, key, resp.Content); err != nil {
			common.LogWarn("寫入 AI 回應快取失敗", zap.Error(err), zap.String("request_id", requestID))
		}
	}
	return resp, nil
}

// lookup 讀取快取，任何錯誤都視為未命中
func (s *Service) lookup(ctx context.Context, key string) (string, bool) {
	if s.store == nil {
		return "", false
	}

	content, err := s.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			common.LogWarn("讀取 AI 回應快取失敗", zap.Error(err))
		}
		common.LogCacheMiss(s.config.Cache.Backend)
		s.metrics.ObserveCache(false)
		return "", false
	}

	common.LogCacheHit(s.config.Cache.Backend)
	s.metrics.ObserveCache(true)
	return content, true
}

// QueueStatus 獲取隊列狀態
func (s *Service) QueueStatus() *queue.Status {
	return s.queue.GetQueueStatus()
}

// Configured 是否已設定 API Key
func (s *Service) Configured() bool {
	return s.provider.Configured()
}

// Close 停止隊列並釋放提供者連線
func (s *Service) Close() error {
	s.queue.Close()
	return s.provider.Close()
}

// translateError 將 context 與隊列錯誤轉為對外錯誤
func translateError(err error) error {
	if _, ok := common.AsCustomError(err); ok {
		return err
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return common.ErrGatewayTimeout.Wrap(err)
	case errors.Is(err, queue.ErrClosed):
		return common.ErrServiceUnavailable.Wrap(err)
	default:
		return err
	}
}

// cacheKey 以模型與正規化後的提示計算快取鍵
func cacheKey(model, system, user string) string {
	h := sha256.New()
	for _, part := range []string{model, normalizePrompt(system), normalizePrompt(user)} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// normalizePrompt 壓縮空白，讓僅空白不同的提示共用快取
func normalizePrompt(prompt string) string {
	return strings.Join(strings.Fields(prompt), " ")
}
