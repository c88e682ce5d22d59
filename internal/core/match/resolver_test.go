package match

import (
	"testing"

	"recipe-matcher/internal/core/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testIndex() *catalog.Index {
	return catalog.BuildIndex([]catalog.Item{
		{ID: 1, Name: "Ground Beef", UnitCost: 5.00},
		{ID: 2, Name: "Beef Broth", UnitCost: 2.00},
		{ID: 3, Name: "Tomatoes", UnitCost: 1.50},
		{ID: 4, Name: "Potatoes", UnitCost: 1.00},
		{ID: 5, Name: "Milk", UnitCost: 3.00},
		{ID: 6, Name: "Silk", UnitCost: 9.00},
		{ID: 7, Name: "Garlic", UnitCost: 0.50},
	})
}

func TestResolver_Containment(t *testing.T) {
	r := NewResolver(ContainmentStrategy{})
	idx := testIndex()

	tests := []struct {
		token    string
		expected int64
	}{
		{"tomatoes", 3},
		{"Milk", 5},
		{"beef", 2},
		{"lean ground beef", 1},
		{"saffron", 0},
		{"  ", 0},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			res := r.Resolve(tt.token, idx)
			if tt.expected == 0 {
				assert.False(t, res.Resolved())
				assert.Nil(t, res.Item)
				return
			}
			require.True(t, res.Resolved())
			assert.Equal(t, tt.expected, res.Item.ID)
			assert.Equal(t, 100, res.Score)
		})
	}
}

func TestResolver_Fuzzy(t *testing.T) {
	r := NewResolver(NewFuzzyStrategy(DefaultFuzzyCutoff))
	idx := testIndex()

	tests := []struct {
		name          string
		token         string
		expectedID    int64
		expectedScore int
	}{
		{"misspelling picks best score", "tomatos", 3, 86},
		{"close spelling above cutoff", "garlik", 7, 83},
		{"tie keeps first in name order", "bilk", 5, 75},
		{"substring scores 100", "beef", 2, 100},
		{"below cutoff", "saffron", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := r.Resolve(tt.token, idx)
			if tt.expectedID == 0 {
				assert.False(t, res.Resolved())
				return
			}
			require.True(t, res.Resolved())
			assert.Equal(t, tt.expectedID, res.Item.ID)
			assert.Equal(t, tt.expectedScore, res.Score)
		})
	}
}

func TestResolver_Deterministic(t *testing.T) {
	r := NewResolver(NewFuzzyStrategy(60))
	for i := 0; i < 20; i++ {
		res := r.Resolve("bilk", testIndex())
		require.True(t, res.Resolved())
		assert.Equal(t, int64(5), res.Item.ID)
	}
}

func TestResolver_NilIndex(t *testing.T) {
	r := NewResolver(nil)
	assert.Equal(t, StrategyContainment, r.Strategy().Name())
	assert.False(t, r.Resolve("eggs", nil).Resolved())
	assert.False(t, r.Resolve("eggs", catalog.BuildIndex(nil)).Resolved())
}

func TestResolver_Lookup(t *testing.T) {
	r := NewResolver(ContainmentStrategy{})
	idx := testIndex()

	item, ok := idx.Lookup("garlic", r)
	require.True(t, ok)
	assert.Equal(t, int64(7), item.ID)

	_, ok = idx.Lookup("vanilla", r)
	assert.False(t, ok)
}

func TestResolver_Matches(t *testing.T) {
	containment := NewResolver(ContainmentStrategy{})
	fuzzy := NewResolver(NewFuzzyStrategy(DefaultFuzzyCutoff))

	tests := []struct {
		a, b        string
		containment bool
		fuzzy       bool
	}{
		{"Eggs", "eggs", true, true},
		{"egg", "large eggs", true, true},
		{"garlik", "garlic", false, true},
		{"salt", "pepper", false, false},
		{"", "eggs", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.a+"/"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.containment, containment.Matches(tt.a, tt.b))
			assert.Equal(t, tt.fuzzy, fuzzy.Matches(tt.a, tt.b))
		})
	}
}
