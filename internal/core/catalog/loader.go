package catalog

import (
	"fmt"
	"io"
	"os"

	"recipe-matcher/internal/pkg/common"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

var validate = validator.New()

// LoadResult 匯入結果
type LoadResult struct {
	Items      []Item
	Duplicates int
	Invalid    int
}

// LoadItemsFile 從 JSON 檔案匯入商品
func LoadItemsFile(path string) (*LoadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, common.ErrCatalogLoad.Wrap(fmt.Errorf("failed to open catalog file %s: %w", path, err))
	}
	defer f.Close()

	return ParseItems(f)
}

// ParseItems 解析商品清單
// 同名商品只保留第一筆；不合法的商品會被略過並記錄
func ParseItems(r io.Reader) (*LoadResult, error) {
	var raw []Item
	if err := common.DecodeJSON(r, &raw); err != nil {
		return nil, common.ErrCatalogLoad.Wrap(fmt.Errorf("failed to parse catalog: %w", err))
	}
	return sanitize(raw), nil
}

// sanitize 驗證、去重並補上缺少的 ID
func sanitize(raw []Item) *LoadResult {
	result := &LoadResult{Items: make([]Item, 0, len(raw))}
	seen := make(map[string]bool, len(raw))
	usedIDs := make(map[int64]bool, len(raw))
	var nextID int64

	for _, item := range raw {
		if item.ID > nextID {
			nextID = item.ID
		}
	}

	for i, item := range raw {
		if err := validate.Struct(item); err != nil {
			result.Invalid++
			common.LogWarn("略過不合法的商品",
				zap.Int("index", i),
				zap.String("name", item.Name),
				zap.Error(err),
			)
			continue
		}

		key := Normalize(item.Name)
		if key == "" {
			result.Invalid++
			continue
		}
		if seen[key] {
			result.Duplicates++
			continue
		}
		seen[key] = true

		if item.ID == 0 || usedIDs[item.ID] {
			nextID++
			item.ID = nextID
		}
		usedIDs[item.ID] = true
		result.Items = append(result.Items, item)
	}

	common.LogInfo("商品目錄匯入完成",
		zap.Int("items", len(result.Items)),
		zap.Int("duplicates", result.Duplicates),
		zap.Int("invalid", result.Invalid),
	)

	return result
}
