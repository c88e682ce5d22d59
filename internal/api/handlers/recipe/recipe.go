package recipe

import (
	"net/http"
	"strconv"

	"recipe-matcher/internal/api/handlers"
	"recipe-matcher/internal/core/engine"
	recipeCore "recipe-matcher/internal/core/recipe"
	"recipe-matcher/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// maxHighlightSize 精選數量上限
const maxHighlightSize = 100

// SearchRequest 食譜查詢參數
type SearchRequest struct {
	Ingredients string `form:"ingredients"`
	recipeCore.RawBounds
}

// Handler 食譜處理程序
type Handler struct {
	engine *engine.Engine
	debug  bool
}

// NewHandler 創建食譜處理程序
func NewHandler(e *engine.Engine, debug bool) *Handler {
	return &Handler{
		engine: e,
		debug:  debug,
	}
}

// HandleSearch 依食材與價格、營養上下限查詢食譜
func (h *Handler) HandleSearch(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		handlers.RespondError(c, common.ErrInvalidRequest.Wrap(err), h.debug)
		return
	}

	result, err := h.engine.EvaluateQuery(c.Request.Context(), req.Ingredients, req.RawBounds)
	if err != nil {
		handlers.RespondError(c, err, h.debug)
		return
	}

	common.LogInfo("食譜查詢",
		zap.Strings("query", result.Query),
		zap.Int("results", len(result.Results)),
	)
	c.JSON(http.StatusOK, result)
}

// HandleHighlights 隨機抽出有折扣且食材齊全的食譜
func (h *Handler) HandleHighlights(c *gin.Context) {
	size := 0
	if raw := c.Query("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxHighlightSize {
			handlers.RespondError(c, common.ErrInvalidRequest.Wrap(strconv.ErrRange), h.debug)
			return
		}
		size = n
	}

	result, err := h.engine.GetHighlights(c.Request.Context(), size)
	if err != nil {
		handlers.RespondError(c, err, h.debug)
		return
	}
	c.JSON(http.StatusOK, result)
}
