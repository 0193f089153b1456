package parser

import (
	"fmt"
	"strings"
)

// Paragraphs 將 fallback 文字依行拆成段落
func Paragraphs(fallback string) []string {
	return splitLines(fallback)
}

// NeedsFallback 食材與步驟皆為空時需改以段落顯示
func (r ParsedRecipe) NeedsFallback() bool {
	return len(r.Ingredients) == 0 && len(r.Steps) == 0
}

// Render 以純文字呈現食譜：標題、食材清單、編號步驟，兩者皆無時才輸出原始段落
func Render(recipes []ParsedRecipe) string {
	blocks := make([]string, 0, len(recipes))
	for _, r := range recipes {
		var sb strings.Builder
		sb.WriteString(r.Title)
		sb.WriteString("\n")

		if len(r.Ingredients) > 0 {
			sb.WriteString("Ingredients:\n")
			for _, ing := range r.Ingredients {
				sb.WriteString(fmt.Sprintf("- %s\n", ing))
			}
		}
		if len(r.Steps) > 0 {
			sb.WriteString("Steps:\n")
			for i, step := range r.Steps {
				sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, step))
			}
		}
		if r.NeedsFallback() {
			for _, p := range Paragraphs(r.FallbackText) {
				sb.WriteString(p)
				sb.WriteString("\n")
			}
		}
		blocks = append(blocks, strings.TrimRight(sb.String(), "\n"))
	}
	return strings.Join(blocks, "\n\n")
}
