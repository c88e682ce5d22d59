package recipe

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"recipe-matcher/internal/core/catalog"
	"recipe-matcher/internal/metrics"
	"recipe-matcher/internal/pkg/common"

	"go.uber.org/zap"
)

// DefaultLimit 查詢結果的預設上限
const DefaultLimit = 12

// Bounds 價格、熱量、蛋白質的上下限（皆為閉區間）
type Bounds struct {
	MinPrice    float64 `json:"min_price"`
	MaxPrice    float64 `json:"max_price"`
	MinCalories float64 `json:"min_calories"`
	MaxCalories float64 `json:"max_calories"`
	MinProtein  float64 `json:"min_protein"`
	MaxProtein  float64 `json:"max_protein"`
}

// RawBounds 使用者輸入的原始上下限
type RawBounds struct {
	MinPrice    string `form:"min_price"`
	MaxPrice    string `form:"max_price"`
	MinCalories string `form:"min_calories"`
	MaxCalories string `form:"max_calories"`
	MinProtein  string `form:"min_protein"`
	MaxProtein  string `form:"max_protein"`
}

// DefaultBounds 不設限的上下限
func DefaultBounds() Bounds {
	inf := math.Inf(1)
	return Bounds{MaxPrice: inf, MaxCalories: inf, MaxProtein: inf}
}

// ParseBounds 解析上下限，無法解析的值直接使用預設值而不報錯
func ParseBounds(raw RawBounds) Bounds {
	inf := math.Inf(1)
	return Bounds{
		MinPrice:    parseFloat("min_price", raw.MinPrice, 0),
		MaxPrice:    parseFloat("max_price", raw.MaxPrice, inf),
		MinCalories: parseFloat("min_calories", raw.MinCalories, 0),
		MaxCalories: parseFloat("max_calories", raw.MaxCalories, inf),
		MinProtein:  parseFloat("min_protein", raw.MinProtein, 0),
		MaxProtein:  parseFloat("max_protein", raw.MaxProtein, inf),
	}
}

func parseFloat(field, s string, def float64) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) {
		common.LogDebug("上下限格式錯誤，使用預設值",
			zap.String("field", field),
			zap.String("value", s),
		)
		return def
	}
	return v
}

// Contains 評估結果是否落在上下限內
func (b Bounds) Contains(ev Evaluation) bool {
	return within(ev.TotalCost, b.MinPrice, b.MaxPrice) &&
		within(ev.TotalCalories, b.MinCalories, b.MaxCalories) &&
		within(ev.TotalProtein, b.MinProtein, b.MaxProtein)
}

func within(v, lo, hi float64) bool {
	return v >= lo && v <= hi
}

// ParseQuery 將逗號分隔的輸入轉為查詢詞
func ParseQuery(text string) []string {
	return DistinctTokens(strings.Split(text, ","))
}

// FilterAndRank 篩選並排序食譜
// 缺少食材少者優先，其次符合查詢詞多者優先，其餘維持食譜庫順序
func FilterAndRank(recipes []Recipe, idx *catalog.Index, evaluator *Evaluator, queryTokens []string, bounds Bounds, limit int) []Evaluation {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if queryTokens == nil {
		queryTokens = []string{}
	}

	results := make([]Evaluation, 0)
	for _, ev := range evaluator.EvaluateAll(recipes, idx, queryTokens) {
		if ev.Empty() || ev.MatchCount == 0 || !bounds.Contains(ev) {
			continue
		}
		results = append(results, ev)
	}

	sort.SliceStable(results, func(i, j int) bool {
		mi, mj := len(results[i].Unavailable), len(results[j].Unavailable)
		if mi != mj {
			return mi < mj
		}
		return results[i].MatchCount > results[j].MatchCount
	})

	if len(results) > limit {
		results = results[:limit]
	}
	metrics.QueryResults.Observe(float64(len(results)))
	return results
}
