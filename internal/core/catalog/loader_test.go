package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"recipe-matcher/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseItems(t *testing.T) {
	input := `[
		{"id": 1, "name": "Eggs", "cost": 2.00, "discount": 0, "calories": 70, "protein": 6},
		{"id": 2, "name": "eggs", "cost": 9.99},
		{"name": "Milk", "cost": 3.00, "discount": 10, "calories": 120, "protein": 8},
		{"id": 3, "name": "", "cost": 1.00},
		{"id": 4, "name": "Bad Discount", "cost": 1.00, "discount": 120},
		{"id": 5, "name": "Negative", "cost": -1}
	]`

	result, err := ParseItems(strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, result.Items, 2)
	assert.Equal(t, 1, result.Duplicates)
	assert.Equal(t, 3, result.Invalid)

	assert.Equal(t, "Eggs", result.Items[0].Name)
	assert.Equal(t, 2.00, result.Items[0].UnitCost)

	milk := result.Items[1]
	assert.Equal(t, "Milk", milk.Name)
	assert.Equal(t, int64(6), milk.ID, "missing id is assigned after the largest seen id")
	assert.Equal(t, 10.0, milk.DiscountPercent)
}

func TestParseItems_ReassignsDuplicateIDs(t *testing.T) {
	input := `[{"id": 1, "name": "salt"}, {"id": 1, "name": "pepper"}]`

	result, err := ParseItems(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, result.Items, 2)
	assert.NotEqual(t, result.Items[0].ID, result.Items[1].ID)
}

func TestParseItems_InvalidJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not json", "not json"},
		{"object root", `{"name": "eggs"}`},
		{"trailing data", `[] []`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseItems(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.ErrorIs(t, err, common.ErrCatalogLoad)
		})
	}
}

func TestLoadItemsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "items.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"id": 1, "name": "rice", "cost": 1.25}]`), 0o644))

	result, err := LoadItemsFile(path)
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "rice", result.Items[0].Name)

	_, err = LoadItemsFile(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, common.ErrCatalogLoad)
}
