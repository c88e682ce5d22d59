package catalog

import (
	"context"
	"time"

	"recipe-matcher/internal/metrics"
	"recipe-matcher/internal/pkg/common"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DiscountChoices 模擬器可選的折扣百分比
var DiscountChoices = []float64{0, 5, 10, 15, 20}

// Random 模擬器使用的亂數來源，*rand.Rand (math/rand/v2) 即符合
type Random interface {
	IntN(n int) int
	Float64() float64
}

// DriftOptions 價格浮動參數
type DriftOptions struct {
	Interval       time.Duration
	Items          int
	MaxFluctuation float64
	MinCost        float64
}

// Drifter 定期隨機調整商品價格與折扣
type Drifter struct {
	store *Store
	rng   Random
	opts  DriftOptions
}

// NewDrifter 創建價格浮動模擬器
func NewDrifter(store *Store, rng Random, opts DriftOptions) *Drifter {
	return &Drifter{
		store: store,
		rng:   rng,
		opts:  opts,
	}
}

// Run 依設定間隔執行，直到 ctx 結束
func (d *Drifter) Run(ctx context.Context) {
	ticker := time.NewTicker(d.opts.Interval)
	defer ticker.Stop()

	common.LogInfo("價格浮動模擬器啟動",
		zap.Duration("interval", d.opts.Interval),
		zap.Int("items", d.opts.Items),
	)

	for {
		select {
		case <-ctx.Done():
			common.LogInfo("價格浮動模擬器停止")
			return
		case <-ticker.C:
			d.Step()
		}
	}
}

// Step 執行一次浮動，回傳被修改的商品數
func (d *Drifter) Step() int {
	changed := d.store.Update(func(items []Item) int {
		k := d.opts.Items
		if k > len(items) {
			k = len(items)
		}

		// 部分 Fisher-Yates 選出 k 個不重複的位置
		positions := make([]int, len(items))
		for i := range positions {
			positions[i] = i
		}
		for i := 0; i < k; i++ {
			j := i + d.rng.IntN(len(positions)-i)
			positions[i], positions[j] = positions[j], positions[i]

			item := &items[positions[i]]
			fluctuation := (d.rng.Float64()*2 - 1) * d.opts.MaxFluctuation
			cost := item.UnitCost * (1 + fluctuation)
			if cost < d.opts.MinCost {
				cost = d.opts.MinCost
			}
			item.UnitCost = decimal.NewFromFloat(cost).Round(2).InexactFloat64()
			item.DiscountPercent = DiscountChoices[d.rng.IntN(len(DiscountChoices))]
		}
		return k
	})

	if changed > 0 {
		metrics.CatalogDriftUpdates.Add(float64(changed))
		common.LogInfo("商品價格已更新", zap.Int("changed", changed))
	}
	return changed
}
