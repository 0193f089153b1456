package recipe

import (
	"context"
	"fmt"
	"strings"

	"recipe-pantry/internal/core/ai/parser"
	"recipe-pantry/internal/core/ai/provider"
	"recipe-pantry/internal/infrastructure/config"
	"recipe-pantry/internal/pkg/common"
	"recipe-pantry/internal/pkg/metrics"

	"go.uber.org/zap"
)

// Chatter 聊天補全呼叫
type Chatter interface {
	Chat(ctx context.Context, system, user string) (*provider.Response, error)
}

// SuggestionRequest 食譜推薦請求；ID 與名稱皆未提供時使用所有擁有的食材
type SuggestionRequest struct {
	IngredientIDs []uint   `json:"ingredient_ids"`
	Ingredients   []string `json:"ingredients"`
	Count         int      `json:"count"`
}

// SuggestionResult 推薦結果：模型原文、解析後食譜與純文字呈現
type SuggestionResult struct {
	Ingredients []string              `json:"ingredients"`
	Raw         string                `json:"raw"`
	Recipes     []parser.ParsedRecipe `json:"recipes"`
	Text        string                `json:"text"`
	CacheHit    bool                  `json:"cache_hit"`
}

// SuggestionService 食譜推薦服務
type SuggestionService struct {
	ai          Chatter
	ingredients *IngredientService
	config      config.SuggestionConfig
	metrics     *metrics.Collector
}

// NewSuggestionService 創建新的食譜推薦服務
func NewSuggestionService(ai Chatter, ingredients *IngredientService, cfg config.SuggestionConfig, collector *metrics.Collector) *SuggestionService {
	return &SuggestionService{
		ai:          ai,
		ingredients: ingredients,
		config:      cfg,
		metrics:     collector,
	}
}

// Suggest 根據食材向模型索取食譜並解析回應
func (s *SuggestionService) Suggest(ctx context.Context, req SuggestionRequest) (*SuggestionResult, error) {
	count, err := s.resolveCount(req.Count)
	if err != nil {
		return nil, err
	}

	names, err := s.resolveIngredients(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, common.NewValidationError("no ingredients selected and none owned")
	}
	if s.config.MaxIngredients > 0 && len(names) > s.config.MaxIngredients {
		return nil, common.NewValidationError(fmt.Sprintf("at most %d ingredients can be used", s.config.MaxIngredients))
	}

	resp, err := s.ai.Chat(ctx, buildSystemPrompt(s.config.PantryStaples), buildUserPrompt(names, count))
	if err != nil {
		return nil, err
	}

	recipes := parser.Parse(resp.Content)
	s.metrics.ObserveParsed(len(recipes))
	common.LogInfo("食譜推薦完成",
		zap.Int("ingredients_count", len(names)),
		zap.Int("requested", count),
		zap.Int("parsed", len(recipes)),
		zap.Bool("cache_hit", resp.CacheHit),
		zap.String("request_id", common.RequestIDFromContext(ctx)),
	)

	return &SuggestionResult{
		Ingredients: names,
		Raw:         resp.Content,
		Recipes:     recipes,
		Text:        parser.Render(recipes),
		CacheHit:    resp.CacheHit,
	}, nil
}

func (s *SuggestionService) resolveCount(count int) (int, error) {
	if count == 0 {
		return s.config.DefaultCount, nil
	}
	if count < 0 || (s.config.MaxCount > 0 && count > s.config.MaxCount) {
		return 0, common.NewValidationError(fmt.Sprintf("count must be between 1 and %d", s.config.MaxCount))
	}
	return count, nil
}

// resolveIngredients 依序採用：指定 ID、指定名稱、所有擁有的食材
func (s *SuggestionService) resolveIngredients(ctx context.Context, req SuggestionRequest) ([]string, error) {
	if len(req.IngredientIDs) > 0 {
		return s.ingredients.NamesByIDs(ctx, req.IngredientIDs)
	}

	if len(req.Ingredients) > 0 {
		seen := make(map[string]bool, len(req.Ingredients))
		names := make([]string, 0, len(req.Ingredients))
		for _, raw := range req.Ingredients {
			name := normalizeName(raw)
			if name == "" || seen[name] {
				continue
			}
			seen[name] = true
			names = append(names, name)
		}
		return names, nil
	}

	owned, err := s.ingredients.List(ctx, true)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(owned))
	for _, ing := range owned {
		names = append(names, ing.Name)
	}
	return names, nil
}

func buildSystemPrompt(staples []string) string {
	var sb strings.Builder
	sb.WriteString("You are a helpful home-cooking assistant.\n")
	sb.WriteString("Answer in plain text only. Do not use markdown, code fences, bold text or tables.\n")
	sb.WriteString("Every recipe must have a name and start with a header line in the form \"Recipe N: <name>\".\n")
	sb.WriteString("After the header write a line \"Ingredients: <comma separated list>\" ")
	sb.WriteString("using only ingredients from the user's list")
	if len(staples) > 0 {
		sb.WriteString(" plus these pantry staples: ")
		sb.WriteString(strings.Join(staples, ", "))
	}
	sb.WriteString(".\n")
	sb.WriteString("Then write \"Steps:\" followed by 3 to 6 numbered steps, one per line, like \"1. Chop the onion.\".\n")
	sb.WriteString("Separate recipes with a blank line and do not add any other commentary.")
	return sb.String()
}

func buildUserPrompt(ingredients []string, count int) string {
	noun := "recipes"
	if count == 1 {
		noun = "recipe"
	}
	return fmt.Sprintf("Suggest %d %s I can cook with these ingredients: %s.",
		count, noun, strings.Join(ingredients, ", "))
}
