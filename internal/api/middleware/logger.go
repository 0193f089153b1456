package middleware

import (
	"context"
	"time"

	"recipe-pantry/internal/pkg/common"
	"recipe-pantry/internal/pkg/metrics"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Logger 日誌中間件
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 開始時間
		start := time.Now()
		path := c.Request.URL.Path

		// 處理請求
		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		// 構建基本日誌字段
		fields := []zap.Field{
			zap.Int("status", status),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("ip", c.ClientIP()),
			zap.String("user-agent", c.Request.UserAgent()),
			zap.Duration("latency", latency),
			zap.String("request_id", requestid.Get(c)),
		}

		// 添加錯誤信息（如果有）
		if len(c.Errors) > 0 {
			fields = append(fields, zap.Strings("errors", c.Errors.Errors()))
		}

		// 根據狀態碼記錄不同級別的日誌
		switch {
		case status >= 500:
			common.LogError("伺服器錯誤",
				append(fields, zap.String("error_type", "server_error"))...,
			)
		case status >= 400:
			common.LogWarn("用戶端錯誤",
				append(fields, zap.String("error_type", "client_error"))...,
			)
		default:
			common.LogInfo("請求完成",
				fields...,
			)
		}
	}
}

// Recovery 恢復中間件
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				common.LogError("Panic recovered",
					zap.Any("error", err),
					zap.String("path", c.Request.URL.Path),
					zap.String("method", c.Request.Method),
					zap.String("request_id", requestid.Get(c)),
				)

				c.AbortWithStatusJSON(500, common.ErrorResponse{
					Code:    common.ErrInternalError.Code,
					Message: "Internal server error",
				})
			}
		}()

		c.Next()
	}
}

// RequestContext 將請求 ID 放入 request context 並設定處理超時
func RequestContext(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := common.WithRequestID(c.Request.Context(), requestid.Get(c))
		if timeout > 0 {
			var cancel func()
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// Metrics 記錄每個路由的請求數與延遲
func Metrics(collector *metrics.Collector) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		collector.ObserveHTTP(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
