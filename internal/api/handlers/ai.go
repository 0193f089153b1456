package handlers

import (
	"net/http"

	"recipe-pantry/internal/core/ai/parser"
	"recipe-pantry/internal/core/recipe"
	"recipe-pantry/internal/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// AIHandler AI 處理器
type AIHandler struct {
	suggestions *recipe.SuggestionService
	metrics     *metrics.Collector
}

// ParseRequest 解析請求
type ParseRequest struct {
	Text string `json:"text"`
}

// ParseResponse 解析結果
type ParseResponse struct {
	Recipes []parser.ParsedRecipe `json:"recipes"`
	Text    string                `json:"text"`
}

// NewAIHandler 創建 AI 處理器
func NewAIHandler(suggestions *recipe.SuggestionService, collector *metrics.Collector) *AIHandler {
	return &AIHandler{
		suggestions: suggestions,
		metrics:     collector,
	}
}

// Suggest POST /ai/suggest
func (h *AIHandler) Suggest(c *gin.Context) {
	var req recipe.SuggestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBindError(c, err)
		return
	}

	result, err := h.suggestions.Suggest(c.Request.Context(), req)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Parse POST /ai/parse，僅解析文字不呼叫模型
func (h *AIHandler) Parse(c *gin.Context) {
	var req ParseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBindError(c, err)
		return
	}

	recipes := parser.Parse(req.Text)
	h.metrics.ObserveParsed(len(recipes))
	c.JSON(http.StatusOK, ParseResponse{
		Recipes: recipes,
		Text:    parser.Render(recipes),
	})
}
