package api

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	cartHandler "recipe-matcher/internal/api/handlers/cart"
	mealHandler "recipe-matcher/internal/api/handlers/meal"
	"recipe-matcher/internal/api/middleware"
	"recipe-matcher/internal/core/cart"
	"recipe-matcher/internal/core/catalog"
	"recipe-matcher/internal/core/engine"
	"recipe-matcher/internal/core/match"
	"recipe-matcher/internal/core/meal"
	"recipe-matcher/internal/core/recipe"
	"recipe-matcher/internal/infrastructure/config"
	"recipe-matcher/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingProvider struct{}

func (failingProvider) Snapshot(context.Context) (catalog.Snapshot, error) {
	return catalog.Snapshot{}, common.ErrCatalogLoad.Wrap(errors.New("offline"))
}

func setupTestRouter(t *testing.T, provider catalog.Provider) *gin.Engine {
	t.Helper()
	cfg := config.Default()
	cfg.RateLimit.Enabled = false
	return newTestRouter(t, provider, cfg)
}

func newTestRouter(t *testing.T, provider catalog.Provider, cfg *config.Config) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	if provider == nil {
		provider = catalog.NewStore([]catalog.Item{
			{ID: 1, Name: "eggs", UnitCost: 2.00, Calories: 70, Protein: 6},
			{ID: 2, Name: "milk", UnitCost: 3.00, DiscountPercent: 10, Calories: 120, Protein: 8},
			{ID: 3, Name: "flour", UnitCost: 1.20, Calories: 400, Protein: 10},
		}, nil)
	}
	corpus := recipe.NewCorpus([]recipe.Recipe{
		{ID: 1, Ingredients: []string{"eggs", "milk"}},
		{ID: 2, Name: "Flatbread", Ingredients: []string{"flour", "salt"}},
		{ID: 3, Name: "Crepes", Ingredients: []string{"flour", "eggs", "milk"}},
	})
	eng := engine.New(corpus, provider, recipe.NewEvaluator(match.NewResolver(match.ContainmentStrategy{})), engine.Options{})

	store := cart.NewMemoryStore(cart.MemoryOptions{TTL: cfg.Cart.TTL, MaxSize: 100})
	t.Cleanup(func() { _ = store.Close() })

	router, err := SetupRouter(cfg, Dependencies{Engine: eng, CartStore: store})
	require.NoError(t, err)
	return router
}

func doRequest(router http.Handler, method, path, cartID string, body []byte) *httptest.ResponseRecorder {
	return doRequestWithHeaders(router, method, path, cartID, body, nil)
}

func doRequestWithHeaders(router http.Handler, method, path, cartID string, body []byte, headers map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if cartID != "" {
		req.Header.Set(cartHandler.HeaderCartID, cartID)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, common.ParseJSONBytes(rec.Body.Bytes(), v))
}

func TestSetupRouter_RequiresDependencies(t *testing.T) {
	_, err := SetupRouter(config.Default(), Dependencies{})
	assert.Error(t, err)
}

func TestRouter_Health(t *testing.T) {
	router := setupTestRouter(t, nil)

	for _, path := range []string{"/health", "/ready", "/live", "/metrics"} {
		t.Run(path, func(t *testing.T) {
			rec := doRequest(router, http.MethodGet, path, "", nil)
			assert.Equal(t, http.StatusOK, rec.Code)
		})
	}

	rec := doRequest(router, http.MethodGet, "/health", "", nil)
	var health struct {
		Status   string `json:"status"`
		Strategy string `json:"strategy"`
		Recipes  int    `json:"recipes"`
		Carts    struct {
			Size    int `json:"size"`
			MaxSize int `json:"max_size"`
		} `json:"cart_store"`
	}
	decode(t, rec, &health)
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, 100, health.Carts.MaxSize)
	assert.Equal(t, match.StrategyContainment, health.Strategy)
	assert.Equal(t, 3, health.Recipes)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRouter_ReadyWithoutCatalog(t *testing.T) {
	router := setupTestRouter(t, failingProvider{})

	rec := doRequest(router, http.MethodGet, "/ready", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = doRequest(router, http.MethodGet, "/api/v1/recipes?ingredients=eggs", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var resp common.ErrorResponse
	decode(t, rec, &resp)
	assert.Equal(t, common.ErrCodeCatalogLoad, resp.Code)
}

func TestRouter_SearchRecipes(t *testing.T) {
	router := setupTestRouter(t, nil)

	tests := []struct {
		name     string
		query    string
		expected []int64
	}{
		{"matches and ranks", "?ingredients=eggs,milk", []int64{1, 3}},
		{"partial availability ranks last", "?ingredients=flour", []int64{3, 2}},
		{"min price filter", "?ingredients=eggs&min_price=5", []int64{3}},
		{"malformed bound is ignored", "?ingredients=eggs&max_price=cheap", []int64{1, 3}},
		{"empty query", "", []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(router, http.MethodGet, "/api/v1/recipes"+tt.query, "", nil)
			require.Equal(t, http.StatusOK, rec.Code)

			var result engine.QueryResult
			decode(t, rec, &result)
			ids := make([]int64, 0, len(result.Results))
			for _, r := range result.Results {
				ids = append(ids, r.RecipeID)
			}
			assert.Equal(t, tt.expected, ids)
		})
	}
}

func TestRouter_Highlights(t *testing.T) {
	router := setupTestRouter(t, nil)

	rec := doRequest(router, http.MethodGet, "/api/v1/recipes/highlights?size=1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var result engine.HighlightResult
	decode(t, rec, &result)
	assert.Len(t, result.Highlights, 1)
	assert.Equal(t, 2, result.Qualifying)

	for _, size := range []string{"abc", "0", "-3", "1000"} {
		rec = doRequest(router, http.MethodGet, "/api/v1/recipes/highlights?size="+size, "", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, size)
	}
}

func TestRouter_Catalog(t *testing.T) {
	router := setupTestRouter(t, nil)

	rec := doRequest(router, http.MethodGet, "/api/v1/catalog", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Items []catalog.Item `json:"items"`
		Count int            `json:"count"`
	}
	decode(t, rec, &resp)
	assert.Equal(t, 3, resp.Count)
	assert.Equal(t, "eggs", resp.Items[0].Name)
}

func TestRouter_CartFlow(t *testing.T) {
	router := setupTestRouter(t, nil)

	rec := doRequest(router, http.MethodPost, "/api/v1/cart/items", "", []byte(`{"recipe_id": 1}`))
	require.Equal(t, http.StatusOK, rec.Code)
	cartID := rec.Header().Get(cartHandler.HeaderCartID)
	require.True(t, common.IsValidUUID(cartID))

	rec = doRequest(router, http.MethodPost, "/api/v1/cart/items", cartID, []byte(`{"recipe_id": 1}`))
	require.Equal(t, http.StatusOK, rec.Code)
	var added cartHandler.Response
	decode(t, rec, &added)
	assert.Equal(t, cartID, added.CartID)
	assert.Equal(t, 2, added.Cart.Quantity(1))
	assert.Equal(t, 9.40, added.Summary.TotalCost)

	rec = doRequest(router, http.MethodGet, "/api/v1/cart", cartID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var current cartHandler.Response
	decode(t, rec, &current)
	assert.Equal(t, int64(380), current.Summary.TotalCalories)
	assert.Equal(t, int64(28), current.Summary.TotalProtein)
	assert.Equal(t, 0.60, current.Summary.TotalSavings)

	rec = doRequest(router, http.MethodPost, "/api/v1/cart/checkout", cartID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var checkout cartHandler.CheckoutResponse
	decode(t, rec, &checkout)
	assert.Equal(t, 9.40, checkout.Receipt.TotalCost)
	assert.True(t, checkout.Cart.IsEmpty())

	rec = doRequest(router, http.MethodPost, "/api/v1/cart/checkout", cartID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &checkout)
	assert.Zero(t, checkout.Receipt.TotalCost)
	assert.True(t, checkout.Cart.IsEmpty())
}

func TestRouter_CartErrors(t *testing.T) {
	router := setupTestRouter(t, nil)

	tests := []struct {
		name         string
		method       string
		path         string
		cartID       string
		body         []byte
		expectedCode int
		errorCode    string
	}{
		{"unknown recipe", http.MethodPost, "/api/v1/cart/items", "", []byte(`{"recipe_id": 404}`), http.StatusNotFound, common.ErrCodeRecipeNotFound},
		{"missing recipe id", http.MethodPost, "/api/v1/cart/items", "", []byte(`{}`), http.StatusBadRequest, common.ErrCodeInvalidRequest},
		{"negative recipe id", http.MethodPost, "/api/v1/cart/items", "", []byte(`{"recipe_id": -1}`), http.StatusBadRequest, common.ErrCodeInvalidRequest},
		{"malformed body", http.MethodPost, "/api/v1/cart/items", "", []byte(`{`), http.StatusBadRequest, common.ErrCodeInvalidRequest},
		{"invalid cart id", http.MethodGet, "/api/v1/cart", "not-a-uuid", nil, http.StatusBadRequest, common.ErrCodeInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(router, tt.method, tt.path, tt.cartID, tt.body)
			assert.Equal(t, tt.expectedCode, rec.Code)
			var resp common.ErrorResponse
			decode(t, rec, &resp)
			assert.Equal(t, tt.errorCode, resp.Code)
		})
	}
}

func TestRouter_CartAddTwiceWithDefaultConfig(t *testing.T) {
	router := newTestRouter(t, nil, config.Default())

	rec := doRequest(router, http.MethodPost, "/api/v1/cart/items", "", []byte(`{"recipe_id": 1}`))
	require.Equal(t, http.StatusOK, rec.Code)
	cartID := rec.Header().Get(cartHandler.HeaderCartID)

	rec = doRequest(router, http.MethodPost, "/api/v1/cart/items", cartID, []byte(`{"recipe_id": 1}`))
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doRequest(router, http.MethodPost, "/api/v1/cart/items", cartID, []byte(`{"recipe_id": 1}`))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(router, http.MethodGet, "/api/v1/cart", cartID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var current cartHandler.Response
	decode(t, rec, &current)
	assert.Equal(t, 3, current.Cart.Quantity(1))
}

func TestRouter_CartAddIdempotencyKey(t *testing.T) {
	router := newTestRouter(t, nil, config.Default())
	cartID := common.GenerateUUID()
	headers := map[string]string{middleware.HeaderIdempotencyKey: "add-crepes-1"}

	rec := doRequestWithHeaders(router, http.MethodPost, "/api/v1/cart/items", cartID, []byte(`{"recipe_id": 3}`), headers)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequestWithHeaders(router, http.MethodPost, "/api/v1/cart/items", cartID, []byte(`{"recipe_id": 3}`), headers)
	assert.Equal(t, http.StatusConflict, rec.Code)
	var resp common.ErrorResponse
	decode(t, rec, &resp)
	assert.Equal(t, common.ErrCodeConflict, resp.Code)

	rec = doRequest(router, http.MethodGet, "/api/v1/cart", cartID, nil)
	var current cartHandler.Response
	decode(t, rec, &current)
	assert.Equal(t, 1, current.Cart.Quantity(3))
}

func TestRouter_AddCatalogItem(t *testing.T) {
	router := setupTestRouter(t, nil)

	rec := doRequest(router, http.MethodPost, "/api/v1/catalog/items", "", []byte(`{"name": "Salt", "cost": 0.45}`))
	require.Equal(t, http.StatusCreated, rec.Code)
	var item catalog.Item
	decode(t, rec, &item)
	assert.Equal(t, int64(4), item.ID)
	assert.Zero(t, item.Calories)
	assert.Zero(t, item.Protein)
	assert.Zero(t, item.DiscountPercent)

	rec = doRequest(router, http.MethodGet, "/api/v1/recipes?ingredients=flour", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var result engine.QueryResult
	decode(t, rec, &result)
	require.Len(t, result.Results, 2)
	assert.Equal(t, int64(2), result.Results[0].RecipeID)
	assert.True(t, result.Results[0].FullyAvailable)

	tests := []struct {
		name         string
		body         string
		expectedCode int
		errorCode    string
	}{
		{"duplicate name", `{"name": "EGGS", "cost": 1}`, http.StatusConflict, common.ErrCodeItemExists},
		{"missing cost", `{"name": "pepper"}`, http.StatusBadRequest, common.ErrCodeInvalidRequest},
		{"negative cost", `{"name": "pepper", "cost": -1}`, http.StatusBadRequest, common.ErrCodeInvalidRequest},
		{"discount above 100", `{"name": "pepper", "cost": 1, "discount": 150}`, http.StatusBadRequest, common.ErrCodeInvalidRequest},
		{"missing name", `{"cost": 1}`, http.StatusBadRequest, common.ErrCodeInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(router, http.MethodPost, "/api/v1/catalog/items", "", []byte(tt.body))
			assert.Equal(t, tt.expectedCode, rec.Code)
			var resp common.ErrorResponse
			decode(t, rec, &resp)
			assert.Equal(t, tt.errorCode, resp.Code)
		})
	}
}

func TestRouter_AddCatalogItemReadOnly(t *testing.T) {
	router := setupTestRouter(t, failingProvider{})

	rec := doRequest(router, http.MethodPost, "/api/v1/catalog/items", "", []byte(`{"name": "salt", "cost": 1}`))
	assert.Equal(t, http.StatusConflict, rec.Code)
	var resp common.ErrorResponse
	decode(t, rec, &resp)
	assert.Equal(t, common.ErrCodeCatalogReadOnly, resp.Code)
}

func TestRouter_Meals(t *testing.T) {
	router := setupTestRouter(t, nil)

	rec := doRequest(router, http.MethodGet, "/api/v1/meals", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var empty mealHandler.ListResponse
	decode(t, rec, &empty)
	assert.Zero(t, empty.Count)
	assert.NotNil(t, empty.Meals)

	rec = doRequest(router, http.MethodPost, "/api/v1/meals", "", []byte(`{"name": "Breakfast", "item_ids": [1, 2]}`))
	require.Equal(t, http.StatusCreated, rec.Code)
	var created meal.Summary
	decode(t, rec, &created)
	assert.Equal(t, "Breakfast", created.Name)
	assert.Equal(t, 4.70, created.TotalCost)
	assert.Equal(t, int64(190), created.TotalCalories)
	assert.Equal(t, int64(14), created.TotalProtein)

	rec = doRequest(router, http.MethodGet, "/api/v1/meals", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list mealHandler.ListResponse
	decode(t, rec, &list)
	require.Equal(t, 1, list.Count)
	assert.Equal(t, []int64{1, 2}, list.Meals[0].ItemIDs)

	tests := []struct {
		name         string
		body         string
		expectedCode int
		errorCode    string
	}{
		{"unknown item", `{"name": "Mystery", "item_ids": [1, 99]}`, http.StatusBadRequest, common.ErrCodeUnknownItem},
		{"no items", `{"name": "Nothing", "item_ids": []}`, http.StatusBadRequest, common.ErrCodeInvalidRequest},
		{"missing name", `{"item_ids": [1]}`, http.StatusBadRequest, common.ErrCodeInvalidRequest},
		{"non-positive id", `{"name": "Zero", "item_ids": [0]}`, http.StatusBadRequest, common.ErrCodeInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(router, http.MethodPost, "/api/v1/meals", "", []byte(tt.body))
			assert.Equal(t, tt.expectedCode, rec.Code)
			var resp common.ErrorResponse
			decode(t, rec, &resp)
			assert.Equal(t, tt.errorCode, resp.Code)
		})
	}
}
