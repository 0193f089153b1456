package parser

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ParsedRecipe 從 AI 純文字回應解析出的食譜
type ParsedRecipe struct {
	Title        string   `json:"title"`
	Ingredients  []string `json:"ingredients"`
	Steps        []string `json:"steps"`
	FallbackText string   `json:"fallback_text"`
}

// section 掃描區塊內容時所在的段落
type section int

const (
	sectionNone section = iota
	sectionIngredients
	sectionSteps
)

var (
	lineBreakPattern      = regexp.MustCompile(`\r\n|\r|\n`)
	blockHeaderPattern    = regexp.MustCompile(`(?i)^recipe\b`)
	titlePattern          = regexp.MustCompile(`(?i)^(?:recipe|name)\b\s*#?\d*\s*[:.)\-–—]?\s*(.*)$`)
	inlineIngredients     = regexp.MustCompile(`(?i)^ingredients?\s*:\s*(.+)$`)
	inlineSteps           = regexp.MustCompile(`(?i)^(?:procedure|steps?|method)\s*:\s*(.+)$`)
	bareIngredients       = regexp.MustCompile(`(?i)^ingredients?\b`)
	bareSteps             = regexp.MustCompile(`(?i)^(?:procedure|steps?|method)\b`)
	numberedLinePattern   = regexp.MustCompile(`^\d+\.\s*(.+)$`)
	bulletPattern         = regexp.MustCompile(`^[-*]\s+`)
	numberedMarker        = regexp.MustCompile(`^\d+\.\s+`)
	listSeparatorPattern  = regexp.MustCompile(`[,;]`)
	trailingPeriodPattern = regexp.MustCompile(`\.+$`)
	// 句點、驚嘆號或問號後接空白，且下一個字是大寫字母（含非 ASCII）或數字
	sentenceBoundary = regexp.MustCompile(`[.!?]\s+[\p{Lu}\d]`)
)

// Parse 將模型回覆的自然語言文字轉為結構化食譜
//
// 空字串或全空白輸入回傳空切片；其餘輸入至少回傳一筆。
func Parse(text string) []ParsedRecipe {
	recipes := make([]ParsedRecipe, 0)
	if strings.TrimSpace(text) == "" {
		return recipes
	}

	lines := splitLines(text)
	for idx, block := range splitBlocks(lines) {
		recipes = append(recipes, parseBlock(block, idx))
	}
	return recipes
}

// splitLines 依換行切割並去除空行
func splitLines(text string) []string {
	raw := lineBreakPattern.Split(text, -1)
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// splitBlocks 以 "Recipe" 開頭的行切分區塊
func splitBlocks(lines []string) [][]string {
	var blocks [][]string
	var current []string
	for _, line := range lines {
		if blockHeaderPattern.MatchString(line) && len(current) > 0 {
			blocks = append(blocks, current)
			current = nil
		}
		current = append(current, line)
	}
	if len(current) > 0 {
		blocks = append(blocks, current)
	}

	if len(blocks) == 0 && len(lines) > 0 {
		blocks = [][]string{lines}
	}
	return blocks
}

func parseBlock(block []string, idx int) ParsedRecipe {
	recipe := ParsedRecipe{
		Ingredients: []string{},
		Steps:       []string{},
	}

	var body []string
	if len(block) > 0 {
		recipe.Title = parseTitle(block[0])
		body = block[1:]
	}
	if recipe.Title == "" {
		recipe.Title = fmt.Sprintf("Recipe %d", idx+1)
	}

	current := sectionNone
	// 食材是否來自 "Ingredients: a, b" 單行清單
	inlineList := false
	var rest []string
	for _, line := range body {
		if m := inlineIngredients.FindStringSubmatch(line); m != nil {
			recipe.Ingredients = splitIngredients(m[1])
			current = sectionIngredients
			inlineList = true
			continue
		}
		if m := inlineSteps.FindStringSubmatch(line); m != nil {
			recipe.Steps = SplitSentences(m[1])
			current = sectionSteps
			continue
		}
		if bareIngredients.MatchString(line) {
			current = sectionIngredients
			inlineList = false
			continue
		}
		if bareSteps.MatchString(line) {
			current = sectionSteps
			continue
		}

		// 未分區或單行食材清單之後的編號行視為步驟；標題下的編號食材清單維持原區段
		if numberedLinePattern.MatchString(line) &&
			(current == sectionNone || (current == sectionIngredients && inlineList)) {
			current = sectionSteps
		}

		switch current {
		case sectionIngredients:
			recipe.Ingredients = append(recipe.Ingredients, parseIngredientLine(line)...)
		case sectionSteps:
			if step := parseStepLine(line); step != "" {
				recipe.Steps = append(recipe.Steps, step)
			}
		default:
			rest = append(rest, line)
		}
	}

	if len(rest) > 0 {
		if len(recipe.Steps) == 0 {
			recipe.Steps = SplitSentences(strings.Join(rest, " "))
		}
		recipe.FallbackText = strings.Join(rest, "\n")
	}

	return recipe
}

func parseTitle(line string) string {
	title := line
	if m := titlePattern.FindStringSubmatch(line); m != nil {
		title = m[1]
	}
	return TitleCase(title)
}

func parseIngredientLine(line string) []string {
	bulleted := bulletPattern.MatchString(line) || numberedMarker.MatchString(line)
	cleaned := bulletPattern.ReplaceAllString(line, "")
	cleaned = strings.TrimSpace(numberedMarker.ReplaceAllString(cleaned, ""))

	if strings.Contains(cleaned, ",") && !bulleted {
		return splitIngredients(cleaned)
	}
	if name := TitleCase(cleaned); name != "" {
		return []string{name}
	}
	return nil
}

func splitIngredients(list string) []string {
	items := make([]string, 0)
	for _, part := range listSeparatorPattern.Split(list, -1) {
		if name := TitleCase(part); name != "" {
			items = append(items, name)
		}
	}
	return items
}

func parseStepLine(line string) string {
	if m := numberedLinePattern.FindStringSubmatch(line); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(bulletPattern.ReplaceAllString(line, ""))
}

// SplitSentences 在句尾標點後、且下一句以大寫字母或數字開頭處切句
func SplitSentences(text string) []string {
	sentences := make([]string, 0)
	start := 0
	for _, loc := range sentenceBoundary.FindAllStringIndex(text, -1) {
		// loc[0] 是標點位置，比對結尾的最後一個 rune 是下一句首字
		piece := strings.TrimSpace(text[start : loc[0]+1])
		if piece != "" {
			sentences = append(sentences, piece)
		}
		_, size := utf8.DecodeLastRuneInString(text[:loc[1]])
		start = loc[1] - size
	}
	if piece := strings.TrimSpace(text[start:]); piece != "" {
		sentences = append(sentences, piece)
	}
	return sentences
}

// TitleCase 將名稱正規化為每個字（含連字號子字）首字大寫
func TitleCase(s string) string {
	s = trailingPeriodPattern.ReplaceAllString(strings.TrimSpace(s), "")

	words := strings.Fields(s)
	for i, word := range words {
		parts := strings.Split(word, "-")
		for j, part := range parts {
			parts[j] = capitalize(part)
		}
		words[i] = strings.Join(parts, "-")
	}
	return strings.Join(words, " ")
}

func capitalize(word string) string {
	if word == "" {
		return word
	}
	r, size := utf8.DecodeRuneInString(word)
	return string(unicode.ToUpper(r)) + strings.ToLower(word[size:])
}
