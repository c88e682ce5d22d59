package meal

import (
	"sync"
	"testing"
	"time"

	"recipe-matcher/internal/core/catalog"
	"recipe-matcher/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testItems() []catalog.Item {
	return []catalog.Item{
		{ID: 1, Name: "eggs", UnitCost: 2.00, Calories: 70, Protein: 6},
		{ID: 2, Name: "milk", UnitCost: 3.00, DiscountPercent: 10, Calories: 120, Protein: 8},
		{ID: 3, Name: "flour", UnitCost: 1.20, Calories: 400.4, Protein: 10.5},
	}
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name     string
		itemIDs  []int64
		cost     float64
		original float64
		savings  float64
		calories int64
		protein  int64
		missing  []int64
	}{
		{"eggs and milk", []int64{1, 2}, 4.70, 5.00, 0.30, 190, 14, nil},
		{"rounds nutrition", []int64{3}, 1.20, 1.20, 0, 400, 11, nil},
		{"removed item is missing", []int64{2, 99}, 2.70, 3.00, 0.30, 120, 8, []int64{99}},
		{"no items", nil, 0, 0, 0, 0, 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Summarize(Meal{ID: 1, Name: "breakfast", ItemIDs: tt.itemIDs}, testItems())
			assert.Equal(t, tt.cost, s.TotalCost)
			assert.Equal(t, tt.original, s.OriginalCost)
			assert.Equal(t, tt.savings, s.TotalSavings)
			assert.Equal(t, tt.calories, s.TotalCalories)
			assert.Equal(t, tt.protein, s.TotalProtein)
			assert.Equal(t, tt.missing, s.Missing)
			assert.NotNil(t, s.Items)
		})
	}
}

func TestStore_Create(t *testing.T) {
	created := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	store := NewStore(func() time.Time { return created })

	m, err := store.Create(" Breakfast ", "http://img/b.png", []int64{2, 1, 2})
	require.NoError(t, err)
	assert.Equal(t, int64(1), m.ID)
	assert.Equal(t, "Breakfast", m.Name)
	assert.Equal(t, []int64{2, 1}, m.ItemIDs)
	assert.Equal(t, created, m.CreatedAt)

	second, err := store.Create("Dinner", "", []int64{3})
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.ID)

	m.ItemIDs[0] = 42
	list := store.List()
	require.Len(t, list, 2)
	assert.Equal(t, []int64{2, 1}, list[0].ItemIDs, "callers cannot mutate stored meals")
	assert.Equal(t, "Dinner", list[1].Name)
}

func TestStore_CreateRejects(t *testing.T) {
	tests := []struct {
		name     string
		mealName string
		itemIDs  []int64
	}{
		{"blank name", "  ", []int64{1}},
		{"no items", "Lunch", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewStore(nil)
			_, err := store.Create(tt.mealName, "", tt.itemIDs)
			assert.ErrorIs(t, err, common.ErrInvalidRequest)
			assert.Zero(t, store.Len())
		})
	}
}

func TestStore_ConcurrentCreate(t *testing.T) {
	store := NewStore(nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Create("meal", "", []int64{1})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	seen := make(map[int64]bool)
	for _, m := range store.List() {
		seen[m.ID] = true
	}
	assert.Len(t, seen, 20)
}
