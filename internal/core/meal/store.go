package meal

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"recipe-matcher/internal/pkg/common"

	"go.uber.org/zap"
)

// Store 記憶體中的套餐清單
type Store struct {
	mu     sync.RWMutex
	meals  []Meal
	nextID int64
	now    func() time.Time
}

// NewStore 創建套餐儲存
func NewStore(now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{now: now}
}

// Create 新增套餐，商品 ID 去重後依原順序保存
func (s *Store) Create(name, imageURL string, itemIDs []int64) (Meal, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Meal{}, common.ErrInvalidRequest.Wrap(fmt.Errorf("meal name is required"))
	}
	ids := distinctIDs(itemIDs)
	if len(ids) == 0 {
		return Meal{}, common.ErrInvalidRequest.Wrap(fmt.Errorf("meal %q has no items", name))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	m := Meal{
		ID:        s.nextID,
		Name:      name,
		ImageURL:  strings.TrimSpace(imageURL),
		ItemIDs:   ids,
		CreatedAt: s.now(),
	}
	s.meals = append(s.meals, m)

	common.LogInfo("套餐已建立",
		zap.Int64("meal_id", m.ID),
		zap.String("name", m.Name),
		zap.Int("items", len(ids)),
	)
	return copyMeal(m), nil
}

// List 依建立順序回傳所有套餐
func (s *Store) List() []Meal {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Meal, len(s.meals))
	for i, m := range s.meals {
		out[i] = copyMeal(m)
	}
	return out
}

// Len 套餐數
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.meals)
}

func copyMeal(m Meal) Meal {
	ids := make([]int64, len(m.ItemIDs))
	copy(ids, m.ItemIDs)
	m.ItemIDs = ids
	return m
}
