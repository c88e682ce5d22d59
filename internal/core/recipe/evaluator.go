package recipe

import (
	"recipe-matcher/internal/core/catalog"
	"recipe-matcher/internal/core/match"
	"recipe-matcher/internal/metrics"

	"github.com/shopspring/decimal"
)

// Evaluation 單一食譜在一次查詢中的評估結果
type Evaluation struct {
	RecipeID        int64              `json:"recipe_id"`
	Title           string             `json:"title"`
	Resolutions     []match.Resolution `json:"-"`
	Available       []catalog.Item     `json:"available"`
	Unavailable     []string           `json:"unavailable"`
	TotalCost       float64            `json:"cost"`
	OriginalCost    float64            `json:"original_cost"`
	Savings         float64            `json:"savings"`
	TotalCalories   float64            `json:"calories"`
	TotalProtein    float64            `json:"protein"`
	AverageDiscount float64            `json:"average_discount"`
	MatchCount      int                `json:"match_count"`
	FullyAvailable  bool               `json:"fully_available"`
	HasDiscount     bool               `json:"has_discount"`

	cost         decimal.Decimal
	originalCost decimal.Decimal
	calories     decimal.Decimal
	protein      decimal.Decimal
}

// Empty 食譜沒有任何食材，這類結果不會出現在任何結果集中
func (e Evaluation) Empty() bool {
	return len(e.Resolutions) == 0
}

// Cost 折扣後總價（精確值）
func (e Evaluation) Cost() decimal.Decimal { return e.cost }

// Original 原價總和（精確值）
func (e Evaluation) Original() decimal.Decimal { return e.originalCost }

// Calories 總熱量（精確值）
func (e Evaluation) Calories() decimal.Decimal { return e.calories }

// Protein 總蛋白質（精確值）
func (e Evaluation) Protein() decimal.Decimal { return e.protein }

// Evaluator 食譜評估器
type Evaluator struct {
	resolver *match.Resolver
	workers  int
}

// NewEvaluator 創建評估器
func NewEvaluator(resolver *match.Resolver) *Evaluator {
	return &Evaluator{resolver: resolver}
}

// Resolver 使用中的解析器
func (e *Evaluator) Resolver() *match.Resolver {
	return e.resolver
}

// Evaluate 解析食譜所有食材並計算總價與營養
// queryTokens 為 nil 時不計算 MatchCount
func (e *Evaluator) Evaluate(r Recipe, idx *catalog.Index, queryTokens []string) Evaluation {
	tokens := r.Tokens()
	ev := Evaluation{
		RecipeID:     r.ID,
		Title:        r.Title(),
		Resolutions:  make([]match.Resolution, 0, len(tokens)),
		Available:    []catalog.Item{},
		Unavailable:  []string{},
		cost:         decimal.Zero,
		originalCost: decimal.Zero,
		calories:     decimal.Zero,
		protein:      decimal.Zero,
	}
	if len(tokens) == 0 {
		return ev
	}

	seenItems := make(map[int64]bool, len(tokens))
	for _, token := range tokens {
		res := e.resolver.Resolve(token, idx)
		ev.Resolutions = append(ev.Resolutions, res)
		if !res.Resolved() {
			ev.Unavailable = append(ev.Unavailable, token)
			continue
		}
		if seenItems[res.Item.ID] {
			continue
		}
		seenItems[res.Item.ID] = true
		ev.Available = append(ev.Available, *res.Item)
	}

	discountSum := decimal.Zero
	for _, item := range ev.Available {
		ev.cost = ev.cost.Add(item.DiscountedCost())
		ev.originalCost = ev.originalCost.Add(item.Cost())
		ev.calories = ev.calories.Add(decimal.NewFromFloat(item.Calories))
		ev.protein = ev.protein.Add(decimal.NewFromFloat(item.Protein))
		discountSum = discountSum.Add(decimal.NewFromFloat(item.DiscountPercent))
		if item.HasDiscount() {
			ev.HasDiscount = true
		}
	}

	ev.TotalCost = ev.cost.InexactFloat64()
	ev.OriginalCost = ev.originalCost.InexactFloat64()
	ev.Savings = ev.originalCost.Sub(ev.cost).InexactFloat64()
	ev.TotalCalories = ev.calories.InexactFloat64()
	ev.TotalProtein = ev.protein.InexactFloat64()
	if n := len(ev.Available); n > 0 {
		ev.AverageDiscount = discountSum.Div(decimal.NewFromInt(int64(n))).Round(2).InexactFloat64()
	}
	ev.FullyAvailable = len(ev.Unavailable) == 0

	if queryTokens != nil {
		ev.MatchCount = e.matchCount(tokens, queryTokens)
	}

	strategy := e.resolver.Strategy().Name()
	metrics.RecipesEvaluated.WithLabelValues(strategy).Inc()
	if n := len(ev.Unavailable); n > 0 {
		metrics.IngredientUnresolved.WithLabelValues(strategy).Add(float64(n))
	}

	return ev
}

// matchCount 有多少個不重複的查詢詞符合食譜中的某個食材
func (e *Evaluator) matchCount(tokens, queryTokens []string) int {
	count := 0
	for _, q := range DistinctTokens(queryTokens) {
		for _, t := range tokens {
			if e.resolver.Matches(q, t) {
				count++
				break
			}
		}
	}
	return count
}
