package catalog

import (
	"net/http"
	"time"

	"recipe-matcher/internal/api/handlers"
	catalogCore "recipe-matcher/internal/core/catalog"
	"recipe-matcher/internal/core/engine"
	"recipe-matcher/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// ListResponse 商品目錄響應
type ListResponse struct {
	Items     []catalogCore.Item `json:"items"`
	Count     int                `json:"count"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// AddItemRequest 新增商品請求，熱量、蛋白質與折扣未提供時為 0
type AddItemRequest struct {
	Name     string   `json:"name" binding:"required"`
	Cost     *float64 `json:"cost" binding:"required,gte=0"`
	ImageURL string   `json:"image_url"`
	Calories float64  `json:"calories" binding:"gte=0"`
	Protein  float64  `json:"protein" binding:"gte=0"`
	Discount float64  `json:"discount" binding:"gte=0,lte=100"`
}

// Handler 商品目錄處理程序
type Handler struct {
	engine *engine.Engine
	debug  bool
}

// NewHandler 創建商品目錄處理程序
func NewHandler(e *engine.Engine, debug bool) *Handler {
	return &Handler{
		engine: e,
		debug:  debug,
	}
}

// HandleList 列出目前的商品目錄
func (h *Handler) HandleList(c *gin.Context) {
	items, updatedAt, err := h.engine.Catalog(c.Request.Context())
	if err != nil {
		handlers.RespondError(c, err, h.debug)
		return
	}
	c.JSON(http.StatusOK, ListResponse{
		Items:     items,
		Count:     len(items),
		UpdatedAt: updatedAt,
	})
}

// HandleAddItem 新增商品
func (h *Handler) HandleAddItem(c *gin.Context) {
	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlers.RespondError(c, common.ErrInvalidRequest.Wrap(err), h.debug)
		return
	}

	item, err := h.engine.AddItem(catalogCore.Item{
		Name:            req.Name,
		UnitCost:        *req.Cost,
		ImageURL:        req.ImageURL,
		Calories:        req.Calories,
		Protein:         req.Protein,
		DiscountPercent: req.Discount,
	})
	if err != nil {
		handlers.RespondError(c, err, h.debug)
		return
	}
	c.JSON(http.StatusCreated, item)
}
