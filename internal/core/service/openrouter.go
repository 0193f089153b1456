package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"recipe-pantry/internal/core/ai/provider"
	"recipe-pantry/internal/infrastructure/config"
	"recipe-pantry/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// OpenRouterService 相容 OpenAI 格式的聊天補全服務
type OpenRouterService struct {
	config *config.OpenRouterConfig
	client *resty.Client
}

var _ provider.Provider = (*OpenRouterService)(nil)

// chatRequest 聊天補全請求
type chatRequest struct {
	Model       string             `json:"model"`
	Messages    []provider.Message `json:"messages"`
	MaxTokens   int                `json:"max_tokens,omitempty"`
	Temperature float64            `json:"temperature,omitempty"`
	Stop        []string           `json:"stop,omitempty"`
}

// chatResponse 聊天補全回應
type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message provider.Message `json:"message"`
	} `json:"choices"`
	Usage provider.Usage `json:"usage"`
}

// apiError 上游錯誤格式
type apiError struct {
	Error struct {
		Message string      `json:"message"`
		Type    string      `json:"type"`
		Code    interface{} `json:"code"`
	} `json:"error"`
}

// NewOpenRouterService 創建聊天補全服務
func NewOpenRouterService(cfg *config.OpenRouterConfig) *OpenRouterService {
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("HTTP-Referer", cfg.Referer).
		SetHeader("X-Title", cfg.Title)
	if cfg.APIKey != "" {
		client.SetAuthToken(cfg.APIKey)
	}

	return &OpenRouterService{
		config: cfg,
		client: client,
	}
}

// Generate 呼叫 /chat/completions 並回傳第一個選項的內容
func (s *OpenRouterService) Generate(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	if !s.Configured() {
		return nil, common.ErrAINotConfigured
	}

	body := chatRequest{
		Model:       s.config.Model,
		Messages:    req.Messages,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		Stop:        req.Stop,
	}
	if body.MaxTokens == 0 {
		body.MaxTokens = s.config.MaxTokens
	}
	if body.Temperature == 0 {
		body.Temperature = s.config.Temperature
	}

	common.LogDebug("Sending request to chat endpoint",
		zap.String("model", body.Model),
		zap.Int("messages", len(body.Messages)),
		zap.Int("max_tokens", body.MaxTokens),
	)

	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(body).
		Post("/chat/completions")
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, common.ErrGatewayTimeout.Wrap(err)
		}
		return nil, common.ErrAIServiceError.Wrap(fmt.Errorf("failed to send request: %w", err))
	}

	if err := statusError(resp); err != nil {
		common.LogError("Chat endpoint returned error status",
			zap.Int("status_code", resp.StatusCode()),
			zap.String("model", body.Model),
			zap.Error(err),
		)
		return nil, err
	}

	var result chatResponse
	if err := common.ParseJSONBytes(resp.Body(), &result); err != nil {
		return nil, common.ErrAIServiceError.Wrap(fmt.Errorf("failed to parse response: %w", err))
	}
	if len(result.Choices) == 0 {
		return nil, common.ErrAIServiceError.Wrap(errors.New("no choices in response"))
	}
	content := strings.TrimSpace(result.Choices[0].Message.Content)
	if content == "" {
		return nil, common.ErrAIServiceError.Wrap(errors.New("empty content in response"))
	}

	model := result.Model
	if model == "" {
		model = body.Model
	}
	return &provider.Response{
		Content: content,
		Model:   model,
		Usage:   result.Usage,
	}, nil
}

// statusError 將上游 HTTP 狀態碼對應為業務錯誤
func statusError(resp *resty.Response) error {
	status := resp.StatusCode()
	if status >= 200 && status < 300 {
		return nil
	}

	message := strings.TrimSpace(resp.String())
	var apiErr apiError
	if err := common.ParseJSONBytes(resp.Body(), &apiErr); err == nil && apiErr.Error.Message != "" {
		message = apiErr.Error.Message
	}
	cause := fmt.Errorf("upstream status %d: %s", status, message)

	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return common.ErrAINotConfigured.Wrap(cause)
	case http.StatusTooManyRequests:
		return common.ErrTooManyRequests.Wrap(cause)
	case http.StatusGatewayTimeout, http.StatusRequestTimeout:
		return common.ErrGatewayTimeout.Wrap(cause)
	default:
		return common.ErrAIServiceError.Wrap(cause)
	}
}

// GetModel 獲取當前使用的模型名稱
func (s *OpenRouterService) GetModel() string {
	return s.config.Model
}

// GetTimeout 獲取請求超時時間
func (s *OpenRouterService) GetTimeout() time.Duration {
	return s.config.Timeout
}

// Configured 是否已設定 API Key
func (s *OpenRouterService) Configured() bool {
	return strings.TrimSpace(s.config.APIKey) != ""
}

// Close 關閉客戶端
func (s *OpenRouterService) Close() error {
	s.client.GetClient().CloseIdleConnections()
	return nil
}
