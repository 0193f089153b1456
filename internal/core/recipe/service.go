package recipe

import (
	"errors"
	"strings"

	"recipe-pantry/internal/core/ai/parser"
	"recipe-pantry/internal/pkg/common"

	"gorm.io/gorm"
)

// normalizeName 食材與食譜名稱統一為每字首字大寫，讓唯一性不分大小寫
func normalizeName(name string) string {
	return parser.TitleCase(name)
}

// translateError 將資料庫錯誤轉為業務錯誤
func translateError(err error, conflict *common.CustomError) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return common.ErrNotFound.Wrap(err)
	case errors.Is(err, gorm.ErrDuplicatedKey), isUniqueViolation(err):
		return conflict.Wrap(err)
	default:
		return err
	}
}

// isUniqueViolation 兜底判斷未被驅動轉換的唯一鍵錯誤
func isUniqueViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}

// uniqueIDs 去除重複 ID 並保留順序
func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
