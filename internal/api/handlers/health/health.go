package health

import (
	"net/http"
	"runtime"
	"time"

	"recipe-matcher/internal/core/cart"
	"recipe-matcher/internal/core/engine"
	"recipe-matcher/internal/infrastructure/config"
	"recipe-matcher/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Strategy  string                 `json:"strategy"`
	Recipes   int                    `json:"recipes"`
	Skipped   int                    `json:"skipped"`
	CartStore map[string]interface{} `json:"cart_store,omitempty"`
	Runtime   map[string]interface{} `json:"runtime"`
}

// Handler 健康檢查處理程序
type Handler struct {
	cfg    *config.Config
	engine *engine.Engine
	carts  cart.Store
}

// NewHandler 創建健康檢查處理程序
func NewHandler(cfg *config.Config, e *engine.Engine, carts cart.Store) *Handler {
	return &Handler{cfg: cfg, engine: e, carts: carts}
}

// HealthCheck 健康檢查
func (h *Handler) HealthCheck(c *gin.Context) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	corpus := h.engine.Corpus()
	resp := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   h.cfg.App.Version,
		Strategy:  h.engine.Strategy(),
		Recipes:   corpus.Len(),
		Skipped:   corpus.Skipped(),
		Runtime: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc":  m.Alloc,
				"sys":    m.Sys,
				"num_gc": m.NumGC,
			},
		},
	}
	if reporter, ok := h.carts.(cart.StatsReporter); ok {
		resp.CartStore = reporter.Stats()
	}
	c.JSON(http.StatusOK, resp)
}

// ReadinessCheck 就緒檢查，商品目錄無法取得時回傳 503
func (h *Handler) ReadinessCheck(c *gin.Context) {
	items, _, err := h.engine.Catalog(c.Request.Context())
	if err != nil {
		common.LogWarn("就緒檢查失敗", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not_ready",
			"code":   common.ErrCodeServiceUnavailable,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "ready",
		"items":   len(items),
		"recipes": h.engine.Corpus().Len(),
	})
}

// LivenessCheck 存活檢查
func (h *Handler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}
