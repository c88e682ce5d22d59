package recipe

import (
	"fmt"
	"os"

	"recipe-matcher/internal/metrics"
	"recipe-matcher/internal/pkg/common"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// Corpus 不可變的食譜庫，可無鎖並行讀取
type Corpus struct {
	recipes []Recipe
	byID    map[int64]int
	skipped int
}

// NewCorpus 由已解析的食譜建立食譜庫，重複 ID 只保留第一筆
func NewCorpus(recipes []Recipe) *Corpus {
	c := &Corpus{
		recipes: make([]Recipe, 0, len(recipes)),
		byID:    make(map[int64]int, len(recipes)),
	}
	for _, r := range recipes {
		if _, exists := c.byID[r.ID]; exists {
			c.skipped++
			continue
		}
		c.byID[r.ID] = len(c.recipes)
		c.recipes = append(c.recipes, r)
	}
	return c
}

// LoadCorpus 讀取食譜庫檔案
func LoadCorpus(path string) (*Corpus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, common.ErrCorpusLoad.Wrap(fmt.Errorf("failed to read corpus file %s: %w", path, err))
	}
	return ParseCorpus(data)
}

// ParseCorpus 解析食譜 JSON 陣列
// 缺少可用 ingredients 欄位的項目會被略過並記錄，不會中斷載入
func ParseCorpus(data []byte) (*Corpus, error) {
	if !gjson.ValidBytes(data) {
		return nil, common.ErrCorpusLoad.Wrap(fmt.Errorf("corpus is not valid JSON"))
	}
	root := gjson.ParseBytes(data)
	if !root.IsArray() {
		return nil, common.ErrCorpusLoad.Wrap(fmt.Errorf("corpus must be a JSON array"))
	}

	var recipes []Recipe
	skipped := 0
	index := 0
	root.ForEach(func(_, value gjson.Result) bool {
		r, err := parseRecipe(value)
		if err != nil {
			skipped++
			metrics.CorpusSkipped.Inc()
			common.LogWarn("略過格式錯誤的食譜",
				zap.Int("index", index),
				zap.Error(err),
			)
		} else {
			recipes = append(recipes, r)
		}
		index++
		return true
	})

	c := NewCorpus(recipes)
	if dup := c.skipped; dup > 0 {
		metrics.CorpusSkipped.Add(float64(dup))
		common.LogWarn("略過重複 ID 的食譜", zap.Int("count", dup))
	}
	c.skipped += skipped

	common.LogInfo("食譜庫載入完成",
		zap.Int("recipes", len(c.recipes)),
		zap.Int("skipped", c.skipped),
	)
	return c, nil
}

// parseRecipe 解析單一食譜
func parseRecipe(value gjson.Result) (Recipe, error) {
	if !value.IsObject() {
		return Recipe{}, fmt.Errorf("%w: entry is not an object", common.ErrMalformedRecipe)
	}

	id := value.Get("id")
	if id.Type != gjson.Number || float64(id.Int()) != id.Float() {
		return Recipe{}, fmt.Errorf("%w: missing or non-integer id", common.ErrMalformedRecipe)
	}

	ingredients := value.Get("ingredients")
	if !ingredients.IsArray() {
		return Recipe{}, fmt.Errorf("%w: recipe %d has no ingredient list", common.ErrMalformedRecipe, id.Int())
	}

	r := Recipe{
		ID:   id.Int(),
		Name: value.Get("name").String(),
	}
	for _, ing := range ingredients.Array() {
		if ing.Type != gjson.String {
			return Recipe{}, fmt.Errorf("%w: recipe %d has a non-text ingredient", common.ErrMalformedRecipe, id.Int())
		}
		r.Ingredients = append(r.Ingredients, ing.String())
	}
	return r, nil
}

// All 依載入順序回傳所有食譜，呼叫者不得修改
func (c *Corpus) All() []Recipe {
	return c.recipes
}

// Get 以 ID 查詢食譜
func (c *Corpus) Get(id int64) (Recipe, bool) {
	pos, ok := c.byID[id]
	if !ok {
		return Recipe{}, false
	}
	return c.recipes[pos], true
}

// Len 食譜數
func (c *Corpus) Len() int {
	return len(c.recipes)
}

// Skipped 載入時略過的項目數
func (c *Corpus) Skipped() int {
	return c.skipped
}
