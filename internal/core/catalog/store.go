package catalog

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"recipe-matcher/internal/pkg/common"
)

// Snapshot 某一時間點的商品目錄副本
type Snapshot struct {
	Items     []Item    `json:"items"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Provider 商品目錄提供者
type Provider interface {
	// Snapshot 取得目前商品目錄的副本
	Snapshot(ctx context.Context) (Snapshot, error)
}

// Writer 可新增商品的目錄，*Store 即符合
type Writer interface {
	Add(item Item) (Item, error)
}

// Store 記憶體中的商品目錄，可被價格模擬器並行修改
type Store struct {
	mu        sync.RWMutex
	items     []Item
	updatedAt time.Time
	now       func() time.Time
}

// NewStore 創建商品目錄
func NewStore(items []Item, now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	s := &Store{now: now}
	s.Replace(items)
	return s
}

// Snapshot 實作 Provider
func (s *Store) Snapshot(_ context.Context) (Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]Item, len(s.items))
	copy(items, s.items)
	return Snapshot{Items: items, UpdatedAt: s.updatedAt}, nil
}

// Replace 以新清單取代整份目錄
func (s *Store) Replace(items []Item) {
	cp := make([]Item, len(items))
	copy(cp, items)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = cp
	s.updatedAt = s.now()
}

// Add 新增一項商品並配發 ID
// 名稱正規化後與既有商品相同時回傳 ErrItemExists
func (s *Store) Add(item Item) (Item, error) {
	item.Name = strings.TrimSpace(item.Name)
	if err := validate.Struct(item); err != nil {
		return Item{}, common.ErrInvalidRequest.Wrap(fmt.Errorf("invalid item: %w", err))
	}
	key := Normalize(item.Name)

	s.mu.Lock()
	defer s.mu.Unlock()

	var maxID int64
	for _, existing := range s.items {
		if Normalize(existing.Name) == key {
			return Item{}, common.ErrItemExists.Wrap(fmt.Errorf("item %q already exists with id %d", key, existing.ID))
		}
		if existing.ID > maxID {
			maxID = existing.ID
		}
	}

	item.ID = maxID + 1
	s.items = append(s.items, item)
	s.updatedAt = s.now()
	return item, nil
}

// Update 在鎖內修改目錄，回傳被修改的筆數
func (s *Store) Update(fn func(items []Item) int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := fn(s.items)
	if changed > 0 {
		s.updatedAt = s.now()
	}
	return changed
}

// Len 商品數
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
