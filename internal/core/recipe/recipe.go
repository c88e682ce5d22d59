package recipe

import (
	"fmt"

	"recipe-matcher/internal/core/catalog"
)

// Recipe 食譜庫中的一道食譜，載入後不再變動
type Recipe struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name,omitempty"`
	Ingredients []string `json:"ingredients"`
}

// Title 顯示用名稱
func (r Recipe) Title() string {
	if r.Name != "" {
		return r.Name
	}
	return fmt.Sprintf("Recipe #%d", r.ID)
}

// Tokens 正規化並去重後的食材
func (r Recipe) Tokens() []string {
	return DistinctTokens(r.Ingredients)
}

// DistinctTokens 正規化後依首次出現順序去重，空字串會被略過
func DistinctTokens(raw []string) []string {
	seen := make(map[string]bool, len(raw))
	tokens := make([]string, 0, len(raw))
	for _, s := range raw {
		key := catalog.Normalize(s)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		tokens = append(tokens, key)
	}
	return tokens
}
