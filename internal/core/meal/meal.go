package meal

import (
	"time"

	"recipe-matcher/internal/core/catalog"

	"github.com/shopspring/decimal"
)

// Meal 由多項商品組成的套餐
type Meal struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	ImageURL  string    `json:"image_url,omitempty"`
	ItemIDs   []int64   `json:"item_ids"`
	CreatedAt time.Time `json:"created_at"`
}

// Summary 套餐依目前商品目錄計算的合計
type Summary struct {
	Meal
	Items         []catalog.Item `json:"items"`
	Missing       []int64        `json:"missing,omitempty"`
	TotalCost     float64        `json:"total_cost"`
	OriginalCost  float64        `json:"original_cost"`
	TotalSavings  float64        `json:"total_savings"`
	TotalCalories int64          `json:"total_calories"`
	TotalProtein  int64          `json:"total_protein"`
}

// Summarize 以商品目錄快照計算套餐合計
// 已從目錄移除的商品列入 Missing，不計入合計
func Summarize(m Meal, items []catalog.Item) Summary {
	byID := make(map[int64]catalog.Item, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}

	summary := Summary{Meal: m, Items: make([]catalog.Item, 0, len(m.ItemIDs))}
	cost, original, calories, protein := decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero
	for _, id := range m.ItemIDs {
		item, ok := byID[id]
		if !ok {
			summary.Missing = append(summary.Missing, id)
			continue
		}
		summary.Items = append(summary.Items, item)
		cost = cost.Add(item.DiscountedCost())
		original = original.Add(item.Cost())
		calories = calories.Add(decimal.NewFromFloat(item.Calories))
		protein = protein.Add(decimal.NewFromFloat(item.Protein))
	}

	summary.TotalCost = cost.Round(2).InexactFloat64()
	summary.OriginalCost = original.Round(2).InexactFloat64()
	summary.TotalSavings = original.Sub(cost).Round(2).InexactFloat64()
	summary.TotalCalories = calories.Round(0).IntPart()
	summary.TotalProtein = protein.Round(0).IntPart()
	return summary
}

// distinctIDs 去除重複 ID，保留第一次出現的順序
func distinctIDs(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
