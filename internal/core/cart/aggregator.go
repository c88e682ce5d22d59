package cart

import (
	"recipe-matcher/internal/core/catalog"
	"recipe-matcher/internal/core/recipe"
	"recipe-matcher/internal/pkg/common"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// RecipeLookup 以 ID 取得食譜，*recipe.Corpus 即符合
type RecipeLookup interface {
	Get(id int64) (recipe.Recipe, bool)
}

// Line 單筆食譜乘上數量後的小計
type Line struct {
	RecipeID       int64   `json:"recipe_id"`
	Title          string  `json:"title"`
	Quantity       int     `json:"quantity"`
	Cost           float64 `json:"cost"`
	Calories       int64   `json:"calories"`
	Protein        int64   `json:"protein"`
	Savings        float64 `json:"savings"`
	FullyAvailable bool    `json:"fully_available"`
	Unavailable    int     `json:"unavailable"`
}

// Summary 購物車合計
type Summary struct {
	Lines         []Line  `json:"lines"`
	Missing       []int64 `json:"missing,omitempty"`
	ItemCount     int     `json:"item_count"`
	TotalCost     float64 `json:"total_cost"`
	TotalCalories int64   `json:"total_calories"`
	TotalProtein  int64   `json:"total_protein"`
	TotalSavings  float64 `json:"total_savings"`
}

// ComputeTotals 計算購物車合計
// 部分缺貨的食譜只計入有貨的商品；金額四捨五入到小數兩位，熱量與蛋白質取整數
func ComputeTotals(c Cart, recipes RecipeLookup, idx *catalog.Index, evaluator *recipe.Evaluator) Summary {
	summary := Summary{Lines: make([]Line, 0, len(c.Entries))}

	cost, calories, protein, savings := decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero
	for _, entry := range c.Entries {
		r, ok := recipes.Get(entry.RecipeID)
		if !ok {
			common.LogWarn("購物車中的食譜不存在", zap.Int64("recipe_id", entry.RecipeID))
			summary.Missing = append(summary.Missing, entry.RecipeID)
			continue
		}

		ev := evaluator.Evaluate(r, idx, nil)
		qty := decimal.NewFromInt(int64(entry.Quantity))

		lineCost := ev.Cost().Mul(qty)
		lineCalories := ev.Calories().Mul(qty)
		lineProtein := ev.Protein().Mul(qty)
		lineSavings := ev.Original().Sub(ev.Cost()).Mul(qty)

		summary.Lines = append(summary.Lines, Line{
			RecipeID:       r.ID,
			Title:          r.Title(),
			Quantity:       entry.Quantity,
			Cost:           roundMoney(lineCost),
			Calories:       lineCalories.Round(0).IntPart(),
			Protein:        lineProtein.Round(0).IntPart(),
			Savings:        roundMoney(lineSavings),
			FullyAvailable: ev.FullyAvailable,
			Unavailable:    len(ev.Unavailable),
		})
		summary.ItemCount += entry.Quantity

		cost = cost.Add(lineCost)
		calories = calories.Add(lineCalories)
		protein = protein.Add(lineProtein)
		savings = savings.Add(lineSavings)
	}

	summary.TotalCost = roundMoney(cost)
	summary.TotalCalories = calories.Round(0).IntPart()
	summary.TotalProtein = protein.Round(0).IntPart()
	summary.TotalSavings = roundMoney(savings)
	return summary
}

func roundMoney(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
