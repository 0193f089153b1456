package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recipe-pantry/internal/pkg/common"
)

// deduplicator 記錄近期請求指紋
type deduplicator struct {
	mu       sync.Mutex
	window   time.Duration
	requests map[string]time.Time
	lastScan time.Time
}

// seen 回傳指紋是否在視窗內出現過，並記錄本次時間
func (d *deduplicator) seen(fingerprint string, now time.Time) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if now.Sub(d.lastScan) > 10*d.window {
		for k, t := range d.requests {
			if now.Sub(t) > d.window {
				delete(d.requests, k)
			}
		}
		d.lastScan = now
	}

	if last, ok := d.requests[fingerprint]; ok && now.Sub(last) <= d.window {
		return true
	}
	d.requests[fingerprint] = now
	return false
}

// Deduplication 拒絕視窗內來自同一用戶端、內容相同的 POST 請求
func Deduplication(window time.Duration) gin.HandlerFunc {
	if window <= 0 {
		window = time.Second
	}
	d := &deduplicator{
		window:   window,
		requests: make(map[string]time.Time),
		lastScan: time.Now(),
	}

	return func(c *gin.Context) {
		// 只處理 POST 請求
		if c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		h := sha256.New()
		if c.Request.Body != nil {
			body, err := io.ReadAll(c.Request.Body)
			if err != nil {
				common.LogWarn("Failed to read request body", zap.Error(err))
				c.AbortWithStatusJSON(http.StatusBadRequest, common.ErrorResponse{
					Code:    common.ErrInvalidRequest.Code,
					Message: "Failed to read request body",
				})
				return
			}
			h.Write(body)
			// 恢復請求體
			c.Request.Body = io.NopCloser(bytes.NewReader(body))
		}

		// 生成請求指紋
		fingerprint := c.ClientIP() + ":" + c.Request.URL.Path + ":" + hex.EncodeToString(h.Sum(nil))
		if d.seen(fingerprint, time.Now()) {
			common.LogInfo("Duplicate request rejected",
				zap.String("ip", c.ClientIP()),
				zap.String("path", c.Request.URL.Path),
			)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, common.ErrorResponse{
				Code:    common.ErrTooManyRequests.Code,
				Message: "Request too frequent",
			})
			return
		}

		c.Next()
	}
}
