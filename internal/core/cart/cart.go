package cart

// Entry 購物車中的一筆食譜
type Entry struct {
	RecipeID int64 `json:"recipe_id"`
	Quantity int   `json:"quantity"`
}

// Cart 購物車，每個食譜最多一筆，依加入順序排列
type Cart struct {
	Entries []Entry `json:"entries"`
}

// New 空購物車
func New() Cart {
	return Cart{Entries: []Entry{}}
}

// AddOrIncrement 加入食譜；已存在時數量加一
// 回傳新的購物車，不修改原購物車
func AddOrIncrement(c Cart, recipeID int64) Cart {
	entries := make([]Entry, len(c.Entries), len(c.Entries)+1)
	copy(entries, c.Entries)

	for i := range entries {
		if entries[i].RecipeID == recipeID {
			entries[i].Quantity++
			return Cart{Entries: entries}
		}
	}
	return Cart{Entries: append(entries, Entry{RecipeID: recipeID, Quantity: 1})}
}

// Checkout 清空購物車，對空購物車呼叫亦無妨
func Checkout(_ Cart) Cart {
	return New()
}

// Quantity 指定食譜的數量
func (c Cart) Quantity(recipeID int64) int {
	for _, e := range c.Entries {
		if e.RecipeID == recipeID {
			return e.Quantity
		}
	}
	return 0
}

// IsEmpty 是否為空
func (c Cart) IsEmpty() bool {
	return len(c.Entries) == 0
}
