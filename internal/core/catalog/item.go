package catalog

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

var hundred = decimal.NewFromInt(100)

// Item 商品目錄中的一項商品
type Item struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name" validate:"required"`
	UnitCost        float64 `json:"cost" validate:"gte=0"`
	DiscountPercent float64 `json:"discount" validate:"gte=0,lte=100"`
	Calories        float64 `json:"calories" validate:"gte=0"`
	Protein         float64 `json:"protein" validate:"gte=0"`
	ImageURL        string  `json:"image_url,omitempty"`
}

// Cost 原價
func (i Item) Cost() decimal.Decimal {
	return decimal.NewFromFloat(i.UnitCost)
}

// DiscountedCost 折扣後價格，折扣值會限制在 0–100
func (i Item) DiscountedCost() decimal.Decimal {
	pct := decimal.NewFromFloat(i.DiscountPercent)
	if pct.IsNegative() {
		pct = decimal.Zero
	}
	if pct.GreaterThan(hundred) {
		pct = hundred
	}
	cost := i.Cost().Mul(hundred.Sub(pct)).Div(hundred)
	if cost.IsNegative() {
		return decimal.Zero
	}
	return cost
}

// HasDiscount 是否有折扣
func (i Item) HasDiscount() bool {
	return i.DiscountPercent > 0
}

// Normalize 正規化名稱：NFKC、去除前後空白、合併空白、轉小寫
func Normalize(s string) string {
	s = norm.NFKC.String(s)
	s = strings.Join(strings.Fields(s), " ")
	// Caser 不可跨 goroutine 共用
	return cases.Lower(language.Und).String(s)
}
