package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"recipe-matcher/internal/core/cart"
	"recipe-matcher/internal/core/catalog"
	"recipe-matcher/internal/core/meal"
	"recipe-matcher/internal/core/recipe"
	"recipe-matcher/internal/pkg/common"

	"go.uber.org/zap"
)

// Options 引擎參數
type Options struct {
	// Limit 查詢結果上限，預設 12
	Limit int
	// SampleSize 精選食譜數量，預設 12
	SampleSize int
	// Random 抽樣亂數來源，nil 時使用全域亂數
	Random recipe.RandomSource
	// Now 時鐘，nil 時使用 time.Now
	Now func() time.Time
	// Meals 套餐儲存，nil 時建立新的記憶體儲存
	Meals *meal.Store
}

// Engine 對外提供查詢、精選與購物車計算
// 每次呼叫都重新取得商品目錄快照，不跨呼叫保留解析結果
type Engine struct {
	corpus    *recipe.Corpus
	provider  catalog.Provider
	evaluator *recipe.Evaluator
	opts      Options
}

// QueryResult 查詢結果
type QueryResult struct {
	Query    []string            `json:"query"`
	Strategy string              `json:"strategy"`
	Results  []recipe.Evaluation `json:"results"`
}

// HighlightResult 精選食譜結果
type HighlightResult struct {
	Highlights       []recipe.Evaluation `json:"highlights"`
	Qualifying       int                 `json:"qualifying"`
	CatalogUpdatedAt time.Time           `json:"catalog_updated_at"`
	ElapsedSeconds   int64               `json:"elapsed_seconds"`
}

// New 創建引擎
func New(corpus *recipe.Corpus, provider catalog.Provider, evaluator *recipe.Evaluator, opts Options) *Engine {
	if opts.Limit <= 0 {
		opts.Limit = recipe.DefaultLimit
	}
	if opts.SampleSize <= 0 {
		opts.SampleSize = recipe.DefaultSampleSize
	}
	if opts.Random != nil {
		opts.Random = &lockedRandom{src: opts.Random}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Meals == nil {
		opts.Meals = meal.NewStore(opts.Now)
	}

	return &Engine{
		corpus:    corpus,
		provider:  provider,
		evaluator: evaluator,
		opts:      opts,
	}
}

// Strategy 使用中的比對策略名稱
func (e *Engine) Strategy() string {
	return e.evaluator.Resolver().Strategy().Name()
}

// Corpus 食譜庫
func (e *Engine) Corpus() *recipe.Corpus {
	return e.corpus
}

// snapshot 取得商品目錄快照並建立索引
func (e *Engine) snapshot(ctx context.Context) (*catalog.Index, catalog.Snapshot, error) {
	snap, err := e.provider.Snapshot(ctx)
	if err != nil {
		common.LogError("取得商品目錄失敗", zap.Error(err))
		return nil, catalog.Snapshot{}, fmt.Errorf("failed to get catalog snapshot: %w", err)
	}
	return catalog.BuildIndex(snap.Items), snap, nil
}

// Catalog 目前商品目錄，依名稱排序
func (e *Engine) Catalog(ctx context.Context) ([]catalog.Item, time.Time, error) {
	idx, snap, err := e.snapshot(ctx)
	if err != nil {
		return nil, time.Time{}, err
	}
	return idx.Items(), snap.UpdatedAt, nil
}

// EvaluateQuery 以使用者輸入的食材與上下限查詢食譜
func (e *Engine) EvaluateQuery(ctx context.Context, rawText string, raw recipe.RawBounds) (*QueryResult, error) {
	idx, _, err := e.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	query := recipe.ParseQuery(rawText)
	bounds := recipe.ParseBounds(raw)
	results := recipe.FilterAndRank(e.corpus.All(), idx, e.evaluator, query, bounds, e.opts.Limit)

	common.LogDebug("食譜查詢完成",
		zap.Strings("query", query),
		zap.Int("results", len(results)),
		zap.String("strategy", e.Strategy()),
	)

	return &QueryResult{
		Query:    query,
		Strategy: e.Strategy(),
		Results:  results,
	}, nil
}

// GetHighlights 抽出有折扣且食材齊全的精選食譜
func (e *Engine) GetHighlights(ctx context.Context, sampleSize int) (*HighlightResult, error) {
	idx, snap, err := e.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if sampleSize <= 0 {
		sampleSize = e.opts.SampleSize
	}

	qualifying := recipe.Qualifying(e.corpus.All(), idx, e.evaluator)
	highlights := recipe.Sample(qualifying, sampleSize, e.opts.Random)

	result := &HighlightResult{
		Highlights:       highlights,
		Qualifying:       len(qualifying),
		CatalogUpdatedAt: snap.UpdatedAt,
	}
	if !snap.UpdatedAt.IsZero() {
		if elapsed := e.opts.Now().Sub(snap.UpdatedAt); elapsed > 0 {
			result.ElapsedSeconds = int64(elapsed / time.Second)
		}
	}
	return result, nil
}

// CartAdd 加入食譜到購物車
func (e *Engine) CartAdd(c cart.Cart, recipeID int64) (cart.Cart, error) {
	if _, ok := e.corpus.Get(recipeID); !ok {
		return c, common.ErrRecipeNotFound.Wrap(fmt.Errorf("recipe %d not found", recipeID))
	}
	return cart.AddOrIncrement(c, recipeID), nil
}

// CartTotals 計算購物車合計
func (e *Engine) CartTotals(ctx context.Context, c cart.Cart) (*cart.Summary, error) {
	idx, _, err := e.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	summary := cart.ComputeTotals(c, e.corpus, idx, e.evaluator)
	return &summary, nil
}

// CartCheckout 結帳，清空購物車
func (e *Engine) CartCheckout(c cart.Cart) cart.Cart {
	return cart.Checkout(c)
}

// AddItem 新增商品，目錄來源不可寫入時回傳 ErrCatalogReadOnly
func (e *Engine) AddItem(item catalog.Item) (catalog.Item, error) {
	writer, ok := e.provider.(catalog.Writer)
	if !ok {
		return catalog.Item{}, common.ErrCatalogReadOnly.Wrap(fmt.Errorf("catalog provider %T does not accept new items", e.provider))
	}
	added, err := writer.Add(item)
	if err != nil {
		return catalog.Item{}, err
	}
	common.LogInfo("商品已新增",
		zap.Int64("item_id", added.ID),
		zap.String("name", added.Name),
	)
	return added, nil
}

// CreateMeal 以目前目錄中的商品建立套餐
func (e *Engine) CreateMeal(ctx context.Context, name, imageURL string, itemIDs []int64) (*meal.Summary, error) {
	snap, err := e.provider.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get catalog snapshot: %w", err)
	}

	known := make(map[int64]bool, len(snap.Items))
	for _, item := range snap.Items {
		known[item.ID] = true
	}
	for _, id := range itemIDs {
		if !known[id] {
			return nil, common.ErrUnknownItem.Wrap(fmt.Errorf("item %d not found", id))
		}
	}

	m, err := e.opts.Meals.Create(name, imageURL, itemIDs)
	if err != nil {
		return nil, err
	}
	summary := meal.Summarize(m, snap.Items)
	return &summary, nil
}

// ListMeals 列出所有套餐及其依目前目錄計算的合計
func (e *Engine) ListMeals(ctx context.Context) ([]meal.Summary, error) {
	snap, err := e.provider.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get catalog snapshot: %w", err)
	}

	meals := e.opts.Meals.List()
	summaries := make([]meal.Summary, 0, len(meals))
	for _, m := range meals {
		summaries = append(summaries, meal.Summarize(m, snap.Items))
	}
	return summaries, nil
}

// lockedRandom 讓非並行安全的亂數來源可被多個請求共用
type lockedRandom struct {
	mu  sync.Mutex
	src recipe.RandomSource
}

func (r *lockedRandom) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.src.IntN(n)
}
