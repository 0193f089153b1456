package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"recipe-pantry/internal/core/ai/cache"
	"recipe-pantry/internal/core/ai/provider"
	"recipe-pantry/internal/infrastructure/config"
	"recipe-pantry/internal/pkg/common"
	"recipe-pantry/internal/pkg/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	mu         sync.Mutex
	configured bool
	content    string
	err        error
	calls      []*provider.Request
}

func (f *fakeProvider) Generate(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, req)
	if f.err != nil {
		return nil, f.err
	}
	return &provider.Response{Content: f.content, Model: "fake"}, nil
}

func (f *fakeProvider) GetModel() string          { return "fake" }
func (f *fakeProvider) GetTimeout() time.Duration { return time.Second }
func (f *fakeProvider) Configured() bool          { return f.configured }
func (f *fakeProvider) Close() error              { return nil }

func (f *fakeProvider) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func newTestConfig() *config.Config {
	return &config.Config{
		OpenRouter: config.OpenRouterConfig{MaxTokens: 500, Temperature: 0.5},
		Cache:      config.CacheConfig{Enabled: true, Backend: "memory", MaxSize: 10, TTL: time.Hour},
		Queue:      config.QueueConfig{Workers: 2, MaxSize: 4},
	}
}

func TestChat_NotConfigured(t *testing.T) {
	p := &fakeProvider{}
	svc := NewService(newTestConfig(), p, nil, nil)
	defer svc.Close()

	_, err := svc.Chat(context.Background(), "sys", "user")
	assert.ErrorIs(t, err, common.ErrAINotConfigured)
	assert.Zero(t, p.callCount())
}

func TestChat_SendsSystemAndUserMessages(t *testing.T) {
	p := &fakeProvider{configured: true, content: "Recipe 1: Soup"}
	svc := NewService(newTestConfig(), p, nil, metrics.NewCollector())
	defer svc.Close()

	resp, err := svc.Chat(context.Background(), "sys", "user")
	require.NoError(t, err)
	assert.Equal(t, "Recipe 1: Soup", resp.Content)
	assert.False(t, resp.CacheHit)

	require.Equal(t, 1, p.callCount())
	req := p.calls[0]
	assert.Equal(t, []provider.Message{
		{Role: provider.RoleSystem, Content: "sys"},
		{Role: provider.RoleUser, Content: "user"},
	}, req.Messages)
	assert.Equal(t, 500, req.MaxTokens)
	assert.Equal(t, 0.5, req.Temperature)
}

func TestChat_CachesResponses(t *testing.T) {
	cfg := newTestConfig()
	store := cache.NewManager(&cfg.Cache)
	p := &fakeProvider{configured: true, content: "cached text"}
	svc := NewService(cfg, p, store, nil)
	defer svc.Close()
	ctx := context.Background()

	_, err := svc.Chat(ctx, "sys", "eggs,  tomato")
	require.NoError(t, err)

	// 只有空白不同的提示共用快取
	resp, err := svc.Chat(ctx, "sys", "eggs, tomato\n")
	require.NoError(t, err)
	assert.True(t, resp.CacheHit)
	assert.Equal(t, "cached text", resp.Content)
	assert.Equal(t, 1, p.callCount())

	_, err = svc.Chat(ctx, "sys", "rice")
	require.NoError(t, err)
	assert.Equal(t, 2, p.callCount())
}

func TestChat_ErrorsAreNotCached(t *testing.T) {
	cfg := newTestConfig()
	store := cache.NewManager(&cfg.Cache)
	p := &fakeProvider{configured: true, err: common.ErrAIServiceError}
	svc := NewService(cfg, p, store, nil)
	defer svc.Close()

	_, err := svc.Chat(context.Background(), "sys", "user")
	assert.ErrorIs(t, err, common.ErrAIServiceError)

	p.mu.Lock()
	p.err = nil
	p.content = "ok"
	p.mu.Unlock()

	resp, err := svc.Chat(context.Background(), "sys", "user")
	require.NoError(t, err)
	assert.False(t, resp.CacheHit)
	assert.Equal(t, 2, p.callCount())
}

func TestChat_DeadlineMapsToGatewayTimeout(t *testing.T) {
	p := &fakeProvider{configured: true, err: context.DeadlineExceeded}
	svc := NewService(newTestConfig(), p, nil, nil)
	defer svc.Close()

	_, err := svc.Chat(context.Background(), "sys", "user")
	assert.ErrorIs(t, err, common.ErrGatewayTimeout)
}

func TestCacheKey(t *testing.T) {
	assert.Equal(t, cacheKey("m", "a  b", "c"), cacheKey("m", "a b", " c "))
	assert.NotEqual(t, cacheKey("m1", "a", "b"), cacheKey("m2", "a", "b"))
	assert.NotEqual(t, cacheKey("m", "ab", ""), cacheKey("m", "a", "b"))
}

func TestQueueStatus(t *testing.T) {
	svc := NewService(newTestConfig(), &fakeProvider{configured: true}, nil, nil)
	defer svc.Close()

	status := svc.QueueStatus()
	assert.Equal(t, 2, status.Workers)
	assert.Equal(t, 4, status.MaxQueueSize)
}
