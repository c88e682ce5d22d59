package cart

import (
	"net/http"

	"recipe-matcher/internal/api/handlers"
	cartCore "recipe-matcher/internal/core/cart"
	"recipe-matcher/internal/core/engine"
	"recipe-matcher/internal/metrics"
	"recipe-matcher/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HeaderCartID 購物車識別標頭
const HeaderCartID = "X-Cart-ID"

// AddRequest 加入購物車請求
type AddRequest struct {
	RecipeID int64 `json:"recipe_id" binding:"required,gt=0"`
}

// Response 購物車響應
type Response struct {
	CartID  string           `json:"cart_id"`
	Cart    cartCore.Cart    `json:"cart"`
	Summary cartCore.Summary `json:"summary"`
}

// CheckoutResponse 結帳響應，Receipt 為結帳前的合計
type CheckoutResponse struct {
	CartID  string           `json:"cart_id"`
	Receipt cartCore.Summary `json:"receipt"`
	Cart    cartCore.Cart    `json:"cart"`
}

// Handler 購物車處理程序
type Handler struct {
	engine *engine.Engine
	store  cartCore.Store
	locks  *keyedMutex
	debug  bool
}

// NewHandler 創建購物車處理程序
func NewHandler(e *engine.Engine, store cartCore.Store, debug bool) *Handler {
	return &Handler{
		engine: e,
		store:  store,
		locks:  newKeyedMutex(),
		debug:  debug,
	}
}

// cartID 取得或產生購物車 ID，並回寫到響應標頭
func (h *Handler) cartID(c *gin.Context) (string, bool) {
	id := c.GetHeader(HeaderCartID)
	if id == "" {
		id = common.GenerateUUID()
	} else if !common.IsValidUUID(id) {
		handlers.RespondError(c, common.ErrInvalidRequest, h.debug)
		return "", false
	}
	c.Header(HeaderCartID, id)
	return id, true
}

// HandleAdd 加入食譜；已在購物車中則數量加一
func (h *Handler) HandleAdd(c *gin.Context) {
	var req AddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlers.RespondError(c, common.ErrInvalidRequest.Wrap(err), h.debug)
		return
	}
	id, ok := h.cartID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	unlock := h.locks.Lock(id)
	current, err := h.store.Get(ctx, id)
	if err != nil {
		unlock()
		handlers.RespondError(c, err, h.debug)
		return
	}
	updated, err := h.engine.CartAdd(current, req.RecipeID)
	if err != nil {
		unlock()
		handlers.RespondError(c, err, h.debug)
		return
	}
	err = h.store.Save(ctx, id, updated)
	unlock()
	if err != nil {
		handlers.RespondError(c, err, h.debug)
		return
	}
	metrics.CartOperations.WithLabelValues("add").Inc()

	summary, err := h.engine.CartTotals(ctx, updated)
	if err != nil {
		handlers.RespondError(c, err, h.debug)
		return
	}

	common.LogInfo("加入購物車",
		zap.String("cart_id", id),
		zap.Int64("recipe_id", req.RecipeID),
		zap.Int("quantity", updated.Quantity(req.RecipeID)),
	)
	c.JSON(http.StatusOK, Response{CartID: id, Cart: updated, Summary: *summary})
}

// HandleGet 取得購物車與合計
func (h *Handler) HandleGet(c *gin.Context) {
	id, ok := h.cartID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	current, err := h.store.Get(ctx, id)
	if err != nil {
		handlers.RespondError(c, err, h.debug)
		return
	}
	summary, err := h.engine.CartTotals(ctx, current)
	if err != nil {
		handlers.RespondError(c, err, h.debug)
		return
	}
	metrics.CartOperations.WithLabelValues("get").Inc()
	c.JSON(http.StatusOK, Response{CartID: id, Cart: current, Summary: *summary})
}

// HandleCheckout 結帳並清空購物車，重複結帳回傳空收據
func (h *Handler) HandleCheckout(c *gin.Context) {
	id, ok := h.cartID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	unlock := h.locks.Lock(id)
	defer unlock()

	current, err := h.store.Get(ctx, id)
	if err != nil {
		handlers.RespondError(c, err, h.debug)
		return
	}
	receipt, err := h.engine.CartTotals(ctx, current)
	if err != nil {
		handlers.RespondError(c, err, h.debug)
		return
	}
	if err := h.store.Delete(ctx, id); err != nil {
		handlers.RespondError(c, err, h.debug)
		return
	}
	metrics.CartOperations.WithLabelValues("checkout").Inc()

	common.LogInfo("購物車結帳",
		zap.String("cart_id", id),
		zap.Int("items", receipt.ItemCount),
		zap.Float64("total_cost", receipt.TotalCost),
	)
	c.JSON(http.StatusOK, CheckoutResponse{
		CartID:  id,
		Receipt: *receipt,
		Cart:    h.engine.CartCheckout(current),
	})
}
