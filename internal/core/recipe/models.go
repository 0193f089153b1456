package recipe

import (
	"time"
)

// 食譜來源
const (
	SourceManual = "manual"
	SourceAI     = "ai"
)

// Ingredient 食材；Owned 表示使用者目前擁有
type Ingredient struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null;uniqueIndex" json:"name"`
	Owned     bool      `gorm:"not null;default:false" json:"owned"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Recipe 使用者記錄的食譜
type Recipe struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	Name         string       `gorm:"size:255;not null;uniqueIndex" json:"name"`
	Instructions string       `gorm:"type:text" json:"instructions"`
	Source       string       `gorm:"size:20;not null;default:manual" json:"source"`
	Ingredients  []Ingredient `gorm:"many2many:recipe_ingredients;constraint:OnDelete:CASCADE" json:"ingredients"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// Models 需要自動遷移的模型
func Models() []interface{} {
	return []interface{}{
		&Ingredient{},
		&Recipe{},
	}
}
