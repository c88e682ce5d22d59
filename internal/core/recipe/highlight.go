package recipe

import (
	"math/rand/v2"

	"recipe-matcher/internal/core/catalog"
	"recipe-matcher/internal/metrics"
)

// DefaultSampleSize 精選食譜的預設數量
const DefaultSampleSize = 12

// RandomSource 抽樣用的亂數來源，*rand.Rand (math/rand/v2) 即符合
type RandomSource interface {
	IntN(n int) int
}

type globalRandom struct{}

func (globalRandom) IntN(n int) int { return rand.IntN(n) }

// Qualifying 所有食材皆有貨且含折扣商品的食譜
func Qualifying(recipes []Recipe, idx *catalog.Index, evaluator *Evaluator) []Evaluation {
	var out []Evaluation
	for _, ev := range evaluator.EvaluateAll(recipes, idx, nil) {
		if ev.Empty() || !ev.FullyAvailable || !ev.HasDiscount {
			continue
		}
		out = append(out, ev)
	}
	return out
}

// SelectHighlights 從符合條件的食譜中不重複隨機抽出 sampleSize 筆
func SelectHighlights(recipes []Recipe, idx *catalog.Index, evaluator *Evaluator, sampleSize int, rng RandomSource) []Evaluation {
	return Sample(Qualifying(recipes, idx, evaluator), sampleSize, rng)
}

// Sample 均勻抽樣，不重複，不修改 pool
func Sample(pool []Evaluation, sampleSize int, rng RandomSource) []Evaluation {
	if sampleSize <= 0 {
		sampleSize = DefaultSampleSize
	}
	if rng == nil {
		rng = globalRandom{}
	}

	shuffled := append([]Evaluation{}, pool...)
	k := min(sampleSize, len(shuffled))

	// 部分 Fisher-Yates
	for i := 0; i < k; i++ {
		j := i + rng.IntN(len(shuffled)-i)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}

	sample := shuffled[:k]
	metrics.HighlightsReturned.Observe(float64(len(sample)))
	return sample
}
