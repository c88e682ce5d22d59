package catalog

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"recipe-matcher/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// HTTPProvider 從外部商品目錄服務取得商品
type HTTPProvider struct {
	client *resty.Client
	now    func() time.Time
}

// NewHTTPProvider 創建 HTTP 商品目錄提供者
func NewHTTPProvider(baseURL string, timeout time.Duration) *HTTPProvider {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "recipe-matcher")

	return &HTTPProvider{
		client: client,
		now:    time.Now,
	}
}

// Snapshot 實作 Provider
func (p *HTTPProvider) Snapshot(ctx context.Context) (Snapshot, error) {
	var raw []Item
	resp, err := p.client.R().
		SetContext(ctx).
		SetResult(&raw).
		Get("/items")
	if err != nil {
		return Snapshot{}, common.ErrCatalogLoad.Wrap(fmt.Errorf("failed to fetch catalog: %w", err))
	}

	if resp.StatusCode() != http.StatusOK {
		common.LogError("商品目錄服務回應錯誤",
			zap.Int("status", resp.StatusCode()),
			zap.String("url", resp.Request.URL),
		)
		return Snapshot{}, common.ErrCatalogLoad.Wrap(fmt.Errorf("catalog service returned status %d", resp.StatusCode()))
	}

	result := sanitize(raw)
	updatedAt := p.now()
	if lm := resp.Header().Get("Last-Modified"); lm != "" {
		if t, err := http.ParseTime(lm); err == nil {
			updatedAt = t
		}
	}

	return Snapshot{Items: result.Items, UpdatedAt: updatedAt}, nil
}
