package common

import (
	"errors"
	"net/http"
)

// ErrorResponse 定義 API 錯誤響應結構
type ErrorResponse struct {
	Code    string `json:"code"`              // 錯誤代碼
	Message string `json:"message"`           // 錯誤信息
	Details string `json:"details,omitempty"` // 詳細信息（僅在開發模式顯示）
}

// CustomError 定義自定義錯誤類型
type CustomError struct {
	Code    string // 錯誤代碼
	Message string // 錯誤信息
	Err     error  // 原始錯誤
	Status  int    // HTTP 狀態碼
}

func (e *CustomError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *CustomError) Unwrap() error {
	return e.Err
}

// Is 以錯誤代碼比對，讓包裝後的錯誤仍可與預定義錯誤比較
func (e *CustomError) Is(target error) bool {
	t, ok := target.(*CustomError)
	return ok && t.Code == e.Code
}

// NewError 創建新的自定義錯誤
func NewError(code string, message string, status int, err error) *CustomError {
	return &CustomError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

// Wrap 以預定義錯誤為範本包裝原始錯誤
func (e *CustomError) Wrap(err error) *CustomError {
	return NewError(e.Code, e.Message, e.Status, err)
}

// AsCustomError 取出錯誤鏈中的自定義錯誤
func AsCustomError(err error) (*CustomError, bool) {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// ValidationError 表示驗證錯誤
type ValidationError struct {
	message string
}

// Error 實現 error 介面
func (e *ValidationError) Error() string {
	return e.message
}

// NewValidationError 創建新的驗證錯誤
func NewValidationError(message string) error {
	return &ValidationError{
		message: message,
	}
}

// IsValidationError 檢查是否為驗證錯誤
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// 預定義錯誤代碼
const (
	// 客戶端錯誤 (4xx)
	ErrCodeInvalidRequest  = "INVALID_REQUEST"   // 400
	ErrCodeNotFound        = "NOT_FOUND"         // 404
	ErrCodeRequestTimeout  = "REQUEST_TIMEOUT"   // 408
	ErrCodeConflict        = "CONFLICT"          // 409
	ErrCodeTooManyRequests = "TOO_MANY_REQUESTS" // 429

	// 服務器錯誤 (5xx)
	ErrCodeInternalError      = "INTERNAL_ERROR"      // 500
	ErrCodeBadGateway         = "BAD_GATEWAY"         // 502
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE" // 503
	ErrCodeGatewayTimeout     = "GATEWAY_TIMEOUT"     // 504
)

// 預定義錯誤
var (
	// 客戶端錯誤
	ErrInvalidRequest  = NewError(ErrCodeInvalidRequest, "無效的請求", http.StatusBadRequest, nil)
	ErrNotFound        = NewError(ErrCodeNotFound, "資源不存在", http.StatusNotFound, nil)
	ErrConflict        = NewError(ErrCodeConflict, "資源衝突", http.StatusConflict, nil)
	ErrTooManyRequests = NewError(ErrCodeTooManyRequests, "請求過於頻繁", http.StatusTooManyRequests, nil)
	ErrRequestTooLarge = NewError("REQUEST_TOO_LARGE", "請求體超過上限", http.StatusRequestEntityTooLarge, nil)

	// 服務器錯誤
	ErrInternalError      = NewError(ErrCodeInternalError, "服務器內部錯誤", http.StatusInternalServerError, nil)
	ErrServiceUnavailable = NewError(ErrCodeServiceUnavailable, "服務暫時不可用", http.StatusServiceUnavailable, nil)
	ErrGatewayTimeout     = NewError(ErrCodeGatewayTimeout, "網關超時", http.StatusGatewayTimeout, nil)

	// 業務錯誤
	ErrIngredientExists = NewError("INGREDIENT_EXISTS", "食材名稱已存在", http.StatusConflict, nil)
	ErrRecipeExists     = NewError("RECIPE_EXISTS", "食譜名稱已存在", http.StatusConflict, nil)
	ErrAINotConfigured  = NewError("AI_NOT_CONFIGURED", "AI 服務未設定憑證", http.StatusServiceUnavailable, nil)
	ErrAIServiceError   = NewError("AI_SERVICE_ERROR", "AI 服務錯誤", http.StatusBadGateway, nil)
	ErrQueueFull        = NewError("QUEUE_FULL", "AI 請求隊列已滿", http.StatusTooManyRequests, nil)
)
