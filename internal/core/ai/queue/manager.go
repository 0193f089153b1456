package queue

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"recipe-pantry/internal/core/ai/provider"
	"recipe-pantry/internal/infrastructure/config"
	"recipe-pantry/internal/pkg/common"

	"go.uber.org/zap"
)

// ErrClosed 隊列已關閉
var ErrClosed = errors.New("queue manager is closed")

// Request 隊列請求
type Request struct {
	Context context.Context
	Request *provider.Request
	Result  chan Result
}

// Result 處理結果
type Result struct {
	Response *provider.Response
	Error    error
}

// Status 隊列狀態
type Status struct {
	QueueLength    int `json:"queue_length"`
	ProcessedCount int `json:"processed_count"`
	FailedCount    int `json:"failed_count"`
	MaxQueueSize   int `json:"max_queue_size"`
	Workers        int `json:"workers"`
}

// Manager 隊列管理器，以固定數量的 worker 呼叫 AI 提供者
type Manager struct {
	config    config.QueueConfig
	provider  provider.Provider
	queue     chan *Request
	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
	// mu 讓送入隊列與關閉互斥，關閉後不會再有請求進入 queue
	mu        sync.RWMutex
	closed    bool
	processed int64
	failed    int64
}

// NewManager 創建新的隊列管理器並啟動 worker
func NewManager(cfg config.QueueConfig, p provider.Provider) *Manager {
	m := &Manager{
		config:   cfg,
		provider: p,
		queue:    make(chan *Request, cfg.MaxSize),
		done:     make(chan struct{}),
	}

	for i := 0; i < cfg.Workers; i++ {
		m.wg.Add(1)
		go m.worker(i)
	}

	common.LogInfo("AI 請求隊列已啟動",
		zap.Int("workers", cfg.Workers),
		zap.Int("max_queue_size", cfg.MaxSize),
	)
	return m
}

// Enqueue 將請求加入隊列，隊列已滿時立即回傳錯誤
func (m *Manager) Enqueue(ctx context.Context, req *provider.Request) (<-chan Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrClosed
	}

	queueReq := &Request{
		Context: ctx,
		Request: req,
		Result:  make(chan Result, 1),
	}

	select {
	case m.queue <- queueReq:
		common.LogDebug("Request enqueued",
			zap.Int("queue_length", len(m.queue)),
			zap.Int("max_queue_size", m.config.MaxSize),
		)
		return queueReq.Result, nil
	default:
		return nil, common.ErrQueueFull
	}
}

// Do 排入請求並等待結果
func (m *Manager) Do(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	resultCh, err := m.Enqueue(ctx, req)
	if err != nil {
		return nil, err
	}

	select {
	case res := <-resultCh:
		return res.Response, res.Error
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (m *Manager) worker(id int) {
	defer m.wg.Done()
	for {
		select {
		case <-m.done:
			return
		case req := <-m.queue:
			m.process(id, req)
		}
	}
}

func (m *Manager) process(id int, req *Request) {
	// 呼叫端已放棄的請求不再送出
	if err := req.Context.Err(); err != nil {
		req.Result <- Result{Error: err}
		atomic.AddInt64(&m.failed, 1)
		return
	}

	resp, err := m.provider.Generate(req.Context, req.Request)
	if err != nil {
		atomic.AddInt64(&m.failed, 1)
		common.LogDebug("Queue worker request failed", zap.Int("worker", id), zap.Error(err))
	} else {
		atomic.AddInt64(&m.processed, 1)
	}
	req.Result <- Result{Response: resp, Error: err}
}

// GetQueueStatus 獲取隊列狀態
func (m *Manager) GetQueueStatus() *Status {
	return &Status{
		QueueLength:    len(m.queue),
		ProcessedCount: int(atomic.LoadInt64(&m.processed)),
		FailedCount:    int(atomic.LoadInt64(&m.failed)),
		MaxQueueSize:   m.config.MaxSize,
		Workers:        m.config.Workers,
	}
}

// Close 停止 worker，尚未處理的請求回傳 ErrClosed
func (m *Manager) Close() {
	m.closeOnce.Do(func() {
		m.mu.Lock()
		m.closed = true
		close(m.done)
		m.mu.Unlock()

		m.wg.Wait()
		for {
			select {
			case req := <-m.queue:
				req.Result <- Result{Error: ErrClosed}
			default:
				return
			}
		}
	})
}
