package common

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

type requestIDKey struct{}

// WithRequestID 將請求 ID 放入 context
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext 取得請求 ID，不存在時回傳空字串
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// GenerateUUID 生成 UUID
func GenerateUUID() string {
	return uuid.New().String()
}

// ParseIDList 解析以逗號分隔的 ID 清單，例如 "1,2,3"
func ParseIDList(raw string) ([]uint, error) {
	ids := make([]uint, 0)
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseUint(part, 10, 64)
		if err != nil || id == 0 {
			return nil, NewValidationError(fmt.Sprintf("invalid id %q", part))
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}
