package recipe

import (
	"context"
	"fmt"

	"recipe-pantry/internal/pkg/common"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// IngredientService 食材管理服務
type IngredientService struct {
	db *gorm.DB
}

// UpdateIngredientInput 食材更新內容，nil 欄位不變更
type UpdateIngredientInput struct {
	Name  *string `json:"name"`
	Owned *bool   `json:"owned"`
}

// NewIngredientService 創建新的食材管理服務
func NewIngredientService(db *gorm.DB) *IngredientService {
	return &IngredientService{db: db}
}

// Create 新增食材
func (s *IngredientService) Create(ctx context.Context, name string, owned bool) (*Ingredient, error) {
	name = normalizeName(name)
	if name == "" {
		return nil, common.NewValidationError("ingredient name is required")
	}

	ing := &Ingredient{Name: name, Owned: owned}
	if err := s.db.WithContext(ctx).Create(ing).Error; err != nil {
		return nil, translateError(err, common.ErrIngredientExists)
	}

	common.LogInfo("食材已新增",
		zap.Uint("ingredient_id", ing.ID),
		zap.String("name", ing.Name),
		zap.Bool("owned", ing.Owned),
	)
	return ing, nil
}

// List 列出食材，ownedOnly 時只回傳擁有的食材
func (s *IngredientService) List(ctx context.Context, ownedOnly bool) ([]Ingredient, error) {
	query := s.db.WithContext(ctx).Order("name")
	if ownedOnly {
		query = query.Where("owned = ?", true)
	}

	ingredients := make([]Ingredient, 0)
	if err := query.Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

// Get 取得單一食材
func (s *IngredientService) Get(ctx context.Context, id uint) (*Ingredient, error) {
	var ing Ingredient
	if err := s.db.WithContext(ctx).First(&ing, id).Error; err != nil {
		return nil, translateError(err, common.ErrIngredientExists)
	}
	return &ing, nil
}

// Update 更新食材名稱或擁有狀態
func (s *IngredientService) Update(ctx context.Context, id uint, in UpdateIngredientInput) (*Ingredient, error) {
	ing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.Name != nil {
		name := normalizeName(*in.Name)
		if name == "" {
			return nil, common.NewValidationError("ingredient name is required")
		}
		updates["name"] = name
	}
	if in.Owned != nil {
		updates["owned"] = *in.Owned
	}
	if len(updates) == 0 {
		return ing, nil
	}

	if err := s.db.WithContext(ctx).Model(ing).Updates(updates).Error; err != nil {
		return nil, translateError(err, common.ErrIngredientExists)
	}
	return s.Get(ctx, id)
}

// Delete 刪除食材並移除其與食譜的關聯
func (s *IngredientService) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM recipe_ingredients WHERE ingredient_id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to unlink ingredient: %w", err)
		}
		res := tx.Delete(&Ingredient{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return common.ErrNotFound
		}
		return nil
	})
}

// OwnedIDs 回傳所有擁有食材的 ID
func (s *IngredientService) OwnedIDs(ctx context.Context) ([]uint, error) {
	ids := make([]uint, 0)
	err := s.db.WithContext(ctx).Model(&Ingredient{}).Where("owned = ?", true).Order("id").Pluck("id", &ids).Error
	return ids, err
}

// NamesByIDs 依 ID 取得食材名稱，任一 ID 不存在時回傳 NotFound
func (s *IngredientService) NamesByIDs(ctx context.Context, ids []uint) ([]string, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return []string{}, nil
	}

	var ingredients []Ingredient
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&ingredients).Error; err != nil {
		return nil, err
	}
	if len(ingredients) != len(ids) {
		return nil, common.ErrNotFound.Wrap(fmt.Errorf("ingredients not found: requested %d, found %d", len(ids), len(ingredients)))
	}

	byID := make(map[uint]string, len(ingredients))
	for _, ing := range ingredients {
		byID[ing.ID] = ing.Name
	}
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		names = append(names, byID[id])
	}
	return names, nil
}

// findOrCreate 依名稱取得食材，不存在時以未擁有狀態建立
func findOrCreate(tx *gorm.DB, names []string) ([]Ingredient, error) {
	seen := make(map[string]bool, len(names))
	ingredients := make([]Ingredient, 0, len(names))
	for _, raw := range names {
		name := normalizeName(raw)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true

		var ing Ingredient
		if err := tx.Where(Ingredient{Name: name}).FirstOrCreate(&ing).Error; err != nil {
			return nil, fmt.Errorf("failed to resolve ingredient %q: %w", name, err)
		}
		ingredients = append(ingredients, ing)
	}
	return ingredients, nil
}
