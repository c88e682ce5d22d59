package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"sync"
	"time"

	"recipe-matcher/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HeaderIdempotencyKey 用戶端提供的冪等鍵
const HeaderIdempotencyKey = "Idempotency-Key"

// Deduplicator 在時間窗內擋下冪等鍵相同的 POST 請求
type Deduplicator struct {
	mu       sync.Mutex
	window   time.Duration
	requests map[string]time.Time
	now      func() time.Time
}

// NewDeduplicator 創建去重器
func NewDeduplicator(window time.Duration) *Deduplicator {
	return &Deduplicator{
		window:   window,
		requests: make(map[string]time.Time),
		now:      time.Now,
	}
}

// Run 定期清除過期指紋，直到 ctx 結束
func (d *Deduplicator) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.cleanup()
		}
	}
}

func (d *Deduplicator) cleanup() {
	now := d.now()
	d.mu.Lock()
	defer d.mu.Unlock()
	for k, t := range d.requests {
		if now.Sub(t) > d.window {
			delete(d.requests, k)
		}
	}
}

// seen 記錄指紋並回傳是否在時間窗內出現過
func (d *Deduplicator) seen(fingerprint string) bool {
	now := d.now()
	d.mu.Lock()
	defer d.mu.Unlock()
	if last, ok := d.requests[fingerprint]; ok && now.Sub(last) <= d.window {
		return true
	}
	d.requests[fingerprint] = now
	return false
}

// Middleware 去重中間件，window 為 0 時不啟用
// 只處理帶有 Idempotency-Key 的請求，scopeHeader 的值（如購物車 ID）一併納入指紋
func (d *Deduplicator) Middleware(scopeHeader string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(HeaderIdempotencyKey)
		if d.window <= 0 || c.Request.Method != http.MethodPost || key == "" {
			c.Next()
			return
		}

		hash := sha256.Sum256([]byte(c.Request.Method + ":" + c.Request.URL.Path + ":" + c.GetHeader(scopeHeader) + ":" + key))
		if d.seen(hex.EncodeToString(hash[:])) {
			common.LogWarn("重複的請求",
				zap.String("path", c.Request.URL.Path),
				zap.String("idempotency_key", key),
			)
			status, resp := common.ToResponse(common.ErrDuplicateRequest, false)
			c.AbortWithStatusJSON(status, resp)
			return
		}

		c.Next()
	}
}
