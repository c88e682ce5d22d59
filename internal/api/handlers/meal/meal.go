package meal

import (
	"net/http"

	"recipe-matcher/internal/api/handlers"
	"recipe-matcher/internal/core/engine"
	mealCore "recipe-matcher/internal/core/meal"
	"recipe-matcher/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// CreateRequest 建立套餐請求
type CreateRequest struct {
	Name     string  `json:"name" binding:"required"`
	ImageURL string  `json:"image_url"`
	ItemIDs  []int64 `json:"item_ids" binding:"required,min=1,dive,gt=0"`
}

// ListResponse 套餐清單響應
type ListResponse struct {
	Meals []mealCore.Summary `json:"meals"`
	Count int                `json:"count"`
}

// Handler 套餐處理程序
type Handler struct {
	engine *engine.Engine
	debug  bool
}

// NewHandler 創建套餐處理程序
func NewHandler(e *engine.Engine, debug bool) *Handler {
	return &Handler{
		engine: e,
		debug:  debug,
	}
}

// HandleList 列出套餐
func (h *Handler) HandleList(c *gin.Context) {
	meals, err := h.engine.ListMeals(c.Request.Context())
	if err != nil {
		handlers.RespondError(c, err, h.debug)
		return
	}
	c.JSON(http.StatusOK, ListResponse{
		Meals: meals,
		Count: len(meals),
	})
}

// HandleCreate 建立套餐
func (h *Handler) HandleCreate(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlers.RespondError(c, common.ErrInvalidRequest.Wrap(err), h.debug)
		return
	}

	summary, err := h.engine.CreateMeal(c.Request.Context(), req.Name, req.ImageURL, req.ItemIDs)
	if err != nil {
		handlers.RespondError(c, err, h.debug)
		return
	}
	c.JSON(http.StatusCreated, summary)
}
