package match

import (
	"recipe-matcher/internal/core/catalog"
)

// Resolution 單一食材的解析結果，Item 為 nil 表示無對應商品
type Resolution struct {
	Token string        `json:"token"`
	Item  *catalog.Item `json:"item,omitempty"`
	Score int           `json:"score,omitempty"`
}

// Resolved 是否找到對應商品
func (r Resolution) Resolved() bool {
	return r.Item != nil
}

// Resolver 以指定策略將食材解析為商品
type Resolver struct {
	strategy Strategy
}

// NewResolver 創建解析器
func NewResolver(strategy Strategy) *Resolver {
	if strategy == nil {
		strategy = ContainmentStrategy{}
	}
	return &Resolver{strategy: strategy}
}

// Strategy 目前使用的策略
func (r *Resolver) Strategy() Strategy {
	return r.strategy
}

// Resolve 解析單一食材
// 依索引的穩定順序走訪，取分數最高且達門檻者；同分時先出現者優先
func (r *Resolver) Resolve(token string, idx *catalog.Index) Resolution {
	key := catalog.Normalize(token)
	res := Resolution{Token: key}
	if key == "" || idx == nil {
		return res
	}

	cutoff := r.strategy.Cutoff()
	best := -1
	for _, entry := range idx.Entries() {
		score := r.strategy.Score(key, entry.Key)
		if score < cutoff || score <= best {
			continue
		}
		item := entry.Item
		res.Item = &item
		res.Score = score
		best = score
		if score >= 100 {
			break
		}
	}
	return res
}

// Lookup 實作 catalog.Resolver
func (r *Resolver) Lookup(token string, idx *catalog.Index) (*catalog.Item, bool) {
	res := r.Resolve(token, idx)
	return res.Item, res.Resolved()
}

// Matches 兩個食材字串在此策略下是否視為相同
func (r *Resolver) Matches(a, b string) bool {
	a, b = catalog.Normalize(a), catalog.Normalize(b)
	if a == "" || b == "" {
		return false
	}
	if a == b {
		return true
	}
	return r.strategy.Score(a, b) >= r.strategy.Cutoff()
}
