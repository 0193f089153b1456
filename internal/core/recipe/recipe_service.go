package recipe

import (
	"context"
	"fmt"
	"strings"

	"recipe-pantry/internal/core/ai/parser"
	"recipe-pantry/internal/pkg/common"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RecipeService 食譜管理服務
// --------------------------------------------------
type RecipeService struct {
	db          *gorm.DB
	ingredients *IngredientService
}

// CreateRecipeInput 新增或更新食譜的內容
type CreateRecipeInput struct {
	Name         string   `json:"name" binding:"required"`
	Instructions string   `json:"instructions"`
	Ingredients  []string `json:"ingredients"`
	Source       string   `json:"source"`
}

// NewRecipeService 創建新的食譜管理服務
func NewRecipeService(db *gorm.DB, ingredients *IngredientService) *RecipeService {
	return &RecipeService{
		db:          db,
		ingredients: ingredients,
	}
}

// Create 新增食譜，未知的食材會以未擁有狀態建立
func (s *RecipeService) Create(ctx context.Context, in CreateRecipeInput) (*Recipe, error) {
	name := normalizeName(in.Name)
	if name == "" {
		return nil, common.NewValidationError("recipe name is required")
	}
	source, err := resolveSource(in.Source, SourceManual)
	if err != nil {
		return nil, err
	}

	recipe := &Recipe{
		Name:         name,
		Instructions: strings.TrimSpace(in.Instructions),
		Source:       source,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ingredients, err := findOrCreate(tx, in.Ingredients)
		if err != nil {
			return err
		}
		recipe.Ingredients = ingredients
		return tx.Omit("Ingredients.*").Create(recipe).Error
	})
	if err != nil {
		return nil, translateError(err, common.ErrRecipeExists)
	}

	common.LogInfo("食譜已新增",
		zap.Uint("recipe_id", recipe.ID),
		zap.String("name", recipe.Name),
		zap.String("source", recipe.Source),
		zap.Int("ingredients_count", len(recipe.Ingredients)),
	)
	return recipe, nil
}

// List 列出所有食譜
func (s *RecipeService) List(ctx context.Context) ([]Recipe, error) {
	recipes := make([]Recipe, 0)
	err := s.db.WithContext(ctx).Preload("Ingredients", orderByName).Order("recipes.name").Find(&recipes).Error
	return recipes, err
}

// Get 取得單一食譜
func (s *RecipeService) Get(ctx context.Context, id uint) (*Recipe, error) {
	var recipe Recipe
	if err := s.db.WithContext(ctx).Preload("Ingredients", orderByName).First(&recipe, id).Error; err != nil {
		return nil, translateError(err, common.ErrRecipeExists)
	}
	return &recipe, nil
}

// Update 更新食譜並以新的食材清單取代舊的關聯
func (s *RecipeService) Update(ctx context.Context, id uint, in CreateRecipeInput) (*Recipe, error) {
	name := normalizeName(in.Name)
	if name == "" {
		return nil, common.NewValidationError("recipe name is required")
	}

	recipe, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	source, err := resolveSource(in.Source, recipe.Source)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ingredients, err := findOrCreate(tx, in.Ingredients)
		if err != nil {
			return err
		}
		updates := map[string]interface{}{
			"name":         name,
			"instructions": strings.TrimSpace(in.Instructions),
			"source":       source,
		}
		if err := tx.Model(recipe).Omit(clause.Associations).Updates(updates).Error; err != nil {
			return err
		}
		return tx.Model(recipe).Association("Ingredients").Replace(ingredients)
	})
	if err != nil {
		return nil, translateError(err, common.ErrRecipeExists)
	}
	return s.Get(ctx, id)
}

// Delete 刪除食譜及其食材關聯
func (s *RecipeService) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM recipe_ingredients WHERE recipe_id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to unlink recipe: %w", err)
		}
		res := tx.Delete(&Recipe{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return common.ErrNotFound
		}
		return nil
	})
}

// CanMake 回傳所有食材都包含在指定食材集合中的食譜
//
// ingredientIDs 為空時以所有擁有的食材作為集合；沒有食材的食譜永遠可做。
func (s *RecipeService) CanMake(ctx context.Context, ingredientIDs []uint) ([]Recipe, error) {
	if len(ingredientIDs) == 0 {
		owned, err := s.ingredients.OwnedIDs(ctx)
		if err != nil {
			return nil, err
		}
		ingredientIDs = owned
	}

	// 食譜沒有任何食材落在集合之外即可製作
	query := s.db.WithContext(ctx).Preload("Ingredients", orderByName).Order("recipes.name")
	if len(ingredientIDs) == 0 {
		query = query.Where("NOT EXISTS (SELECT 1 FROM recipe_ingredients ri WHERE ri.recipe_id = recipes.id)")
	} else {
		query = query.Where("NOT EXISTS (SELECT 1 FROM recipe_ingredients ri WHERE ri.recipe_id = recipes.id AND ri.ingredient_id NOT IN ?)", ingredientIDs)
	}

	makeable := make([]Recipe, 0)
	if err := query.Find(&makeable).Error; err != nil {
		return nil, err
	}

	common.LogDebug("可製作食譜查詢完成",
		zap.Int("available_ingredients", len(ingredientIDs)),
		zap.Int("recipes_makeable", len(makeable)),
	)
	return makeable, nil
}

// SaveParsed 將 AI 推薦的食譜存入目錄
func (s *RecipeService) SaveParsed(ctx context.Context, parsed parser.ParsedRecipe) (*Recipe, error) {
	return s.Create(ctx, CreateRecipeInput{
		Name:         parsed.Title,
		Instructions: instructionsFromParsed(parsed),
		Ingredients:  parsed.Ingredients,
		Source:       SourceAI,
	})
}

// instructionsFromParsed 有步驟時輸出編號步驟，否則保留原始文字
func instructionsFromParsed(parsed parser.ParsedRecipe) string {
	if len(parsed.Steps) == 0 {
		return strings.Join(parser.Paragraphs(parsed.FallbackText), "\n")
	}
	lines := make([]string, 0, len(parsed.Steps))
	for i, step := range parsed.Steps {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, step))
	}
	return strings.Join(lines, "\n")
}

func resolveSource(source, fallback string) (string, error) {
	switch source {
	case "":
		return fallback, nil
	case SourceManual, SourceAI:
		return source, nil
	default:
		return "", common.NewValidationError(fmt.Sprintf("unknown recipe source %q", source))
	}
}

func orderByName(db *gorm.DB) *gorm.DB {
	return db.Order("ingredients.name")
}
