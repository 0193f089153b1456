package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"recipe-pantry/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RespondError 將服務錯誤轉為 JSON 錯誤回應
func RespondError(c *gin.Context, err error) {
	status, body := errorResponse(err)

	fields := []zap.Field{
		zap.Error(err),
		zap.Int("status", status),
		zap.String("path", c.Request.URL.Path),
		zap.String("request_id", requestid.Get(c)),
	}
	if status >= http.StatusInternalServerError {
		common.LogError("請求處理失敗", fields...)
	} else {
		common.LogDebug("請求處理失敗", fields...)
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(status, body)
}

// RespondBindError 處理請求體解析失敗
func RespondBindError(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		RespondError(c, common.ErrRequestTooLarge.Wrap(err))
		return
	}
	RespondError(c, common.NewValidationError("invalid request body: "+err.Error()))
}

// ParseIDParam 解析路徑中的正整數 ID
func ParseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		RespondError(c, common.NewValidationError("invalid id "+strconv.Quote(c.Param(name))))
		return 0, false
	}
	return uint(id), true
}

func errorResponse(err error) (int, common.ErrorResponse) {
	if common.IsValidationError(err) {
		return http.StatusBadRequest, common.ErrorResponse{
			Code:    common.ErrInvalidRequest.Code,
			Message: err.Error(),
		}
	}
	if ce, ok := common.AsCustomError(err); ok {
		resp := common.ErrorResponse{Code: ce.Code, Message: ce.Message}
		if gin.IsDebugging() && ce.Err != nil {
			resp.Details = ce.Err.Error()
		}
		return ce.Status, resp
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout, common.ErrorResponse{
			Code:    common.ErrGatewayTimeout.Code,
			Message: common.ErrGatewayTimeout.Message,
		}
	}

	resp := common.ErrorResponse{
		Code:    common.ErrInternalError.Code,
		Message: common.ErrInternalError.Message,
	}
	if gin.IsDebugging() {
		resp.Details = err.Error()
	}
	return http.StatusInternalServerError, resp
}
