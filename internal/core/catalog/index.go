package catalog

import (
	"sort"

	"recipe-matcher/internal/pkg/common"

	"go.uber.org/zap"
)

// Entry 索引條目：正規化名稱與對應商品
type Entry struct {
	Key  string
	Item Item
}

// Index 以正規化名稱為鍵的商品索引
// 條目依名稱字典序排列，所有比對策略都依此順序走訪
type Index struct {
	entries []Entry
	byKey   map[string]int
}

// Resolver 由 match 套件實作，避免循環依賴
type Resolver interface {
	Lookup(token string, idx *Index) (*Item, bool)
}

// BuildIndex 建立商品索引
// 正規化後名稱重複時以最後一筆為準
func BuildIndex(items []Item) *Index {
	latest := make(map[string]Item, len(items))
	for _, item := range items {
		key := Normalize(item.Name)
		if key == "" {
			common.LogDebug("略過空白名稱商品", zap.Int64("item_id", item.ID))
			continue
		}
		if prev, exists := latest[key]; exists {
			common.LogDebug("商品名稱重複，以最後一筆為準",
				zap.String("name", key),
				zap.Int64("replaced_id", prev.ID),
				zap.Int64("item_id", item.ID),
			)
		}
		latest[key] = item
	}

	idx := &Index{
		entries: make([]Entry, 0, len(latest)),
		byKey:   make(map[string]int, len(latest)),
	}
	for key, item := range latest {
		idx.entries = append(idx.entries, Entry{Key: key, Item: item})
	}
	sort.Slice(idx.entries, func(i, j int) bool {
		return idx.entries[i].Key < idx.entries[j].Key
	})
	for i, e := range idx.entries {
		idx.byKey[e.Key] = i
	}

	return idx
}

// Len 索引中的商品數
func (idx *Index) Len() int {
	return len(idx.entries)
}

// Entries 依穩定順序回傳所有條目，呼叫者不得修改
func (idx *Index) Entries() []Entry {
	return idx.entries
}

// Items 依穩定順序回傳商品副本
func (idx *Index) Items() []Item {
	items := make([]Item, len(idx.entries))
	for i, e := range idx.entries {
		items[i] = e.Item
	}
	return items
}

// Get 以名稱精確查詢
func (idx *Index) Get(name string) (Item, bool) {
	pos, ok := idx.byKey[Normalize(name)]
	if !ok {
		return Item{}, false
	}
	return idx.entries[pos].Item, true
}

// Lookup 透過解析器查詢食材對應的商品
func (idx *Index) Lookup(token string, resolver Resolver) (*Item, bool) {
	return resolver.Lookup(token, idx)
}
