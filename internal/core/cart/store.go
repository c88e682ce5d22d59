package cart

import "context"

// Store 購物車儲存，以購物車 ID 為鍵
type Store interface {
	// Get 取得購物車，不存在時回傳空購物車
	Get(ctx context.Context, id string) (Cart, error)
	// Save 儲存購物車
	Save(ctx context.Context, id string, c Cart) error
	// Delete 刪除購物車
	Delete(ctx context.Context, id string) error
	// Close 關閉儲存
	Close() error
}

// StatsReporter 可回報統計資訊的儲存
type StatsReporter interface {
	Stats() map[string]interface{}
}

var (
	_ Store         = (*MemoryStore)(nil)
	_ Store         = (*RedisStore)(nil)
	_ StatsReporter = (*MemoryStore)(nil)
	_ StatsReporter = (*RedisStore)(nil)
)
