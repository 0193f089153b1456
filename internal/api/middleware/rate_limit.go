package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"recipe-pantry/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RateLimiter 依用戶端 IP 分別限流的令牌桶
type RateLimiter struct {
	mu       sync.Mutex
	clients  map[string]*client
	limit    rate.Limit
	burst    int
	idleTTL  time.Duration
	lastScan time.Time
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter 創建新的限流器：每個 window 最多 requests 次，可瞬間用完
func NewRateLimiter(requests int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		clients:  make(map[string]*client),
		limit:    rate.Every(window / time.Duration(requests)),
		burst:    requests,
		idleTTL:  window * 10,
		lastScan: time.Now(),
	}
}

// Allow 檢查是否允許該用戶端的請求
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	// 順手清掉長時間未出現的用戶端
	if now.Sub(rl.lastScan) > rl.idleTTL {
		for k, cl := range rl.clients {
			if now.Sub(cl.lastSeen) > rl.idleTTL {
				delete(rl.clients, k)
			}
		}
		rl.lastScan = now
	}

	cl, ok := rl.clients[key]
	if !ok {
		cl = &client{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.clients[key] = cl
	}
	cl.lastSeen = now
	return cl.limiter.AllowN(now, 1)
}

// RateLimit 限流中間件
func RateLimit(requests int, window time.Duration) gin.HandlerFunc {
	limiter := NewRateLimiter(requests, window)

	return func(c *gin.Context) {
		if !limiter.Allow(c.ClientIP()) {
			common.LogInfo("Rate limit exceeded",
				zap.String("ip", c.ClientIP()),
				zap.String("path", c.Request.URL.Path),
			)

			c.Header("Retry-After", fmt.Sprintf("%d", int(window.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, common.ErrorResponse{
				Code:    common.ErrTooManyRequests.Code,
				Message: "Too many requests",
			})
			return
		}

		c.Next()
	}
}
