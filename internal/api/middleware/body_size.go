package middleware

import (
	"net/http"

	"recipe-pantry/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BodySizeLimit 限制食譜、食材與 AI 解析請求的請求體大小，limit <= 0 時不限制
//
// 宣告的 Content-Length 超過上限時直接回應 413；未宣告長度（chunked）的請求
// 交給 http.MaxBytesReader，由 handlers.RespondBindError 在讀取超限時回應。
func BodySizeLimit(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit <= 0 || c.Request.Body == nil || c.Request.Body == http.NoBody {
			c.Next()
			return
		}

		if c.Request.ContentLength > limit {
			common.LogWarn("請求體超過上限",
				zap.Int64("content_length", c.Request.ContentLength),
				zap.Int64("limit", limit),
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", requestid.Get(c)),
			)
			tooLarge := common.ErrRequestTooLarge
			c.AbortWithStatusJSON(tooLarge.Status, common.ErrorResponse{Code: tooLarge.Code, Message: tooLarge.Message})
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}
