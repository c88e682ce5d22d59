package cart

import (
	"context"
	"sync"
	"time"

	"recipe-matcher/internal/pkg/common"

	"go.uber.org/zap"
)

// MemoryOptions 記憶體購物車儲存設定
type MemoryOptions struct {
	TTL             time.Duration
	MaxSize         int
	CleanupInterval time.Duration
}

// MemoryStore 記憶體購物車儲存，閒置超過 TTL 的購物車會被清除
type MemoryStore struct {
	opts  MemoryOptions
	mu    sync.RWMutex
	store map[string]cartEntry
	stats storeStats
	now   func() time.Time
	done  chan struct{}
	once  sync.Once
}

// cartEntry 儲存條目
type cartEntry struct {
	cart        Cart
	expiresAt   time.Time
	createdAt   time.Time
	lastAccess  time.Time
	accessCount int
}

// storeStats 儲存統計
type storeStats struct {
	hits      int64
	misses    int64
	evictions int64
	errors    int64
}

// NewMemoryStore 創建記憶體購物車儲存
func NewMemoryStore(opts MemoryOptions) *MemoryStore {
	m := newMemoryStore(opts, time.Now)

	// 啟動清理過期購物車的協程
	if opts.CleanupInterval > 0 {
		go m.startCleanup()
	}

	common.LogInfo("購物車儲存已初始化",
		zap.Int("max_size", opts.MaxSize),
		zap.Duration("ttl", opts.TTL),
		zap.Duration("cleanup_interval", opts.CleanupInterval),
	)
	return m
}

func newMemoryStore(opts MemoryOptions, now func() time.Time) *MemoryStore {
	return &MemoryStore{
		opts:  opts,
		store: make(map[string]cartEntry),
		now:   now,
		done:  make(chan struct{}),
	}
}

// Get 取得購物車
func (m *MemoryStore) Get(_ context.Context, id string) (Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.store[id]
	if !exists {
		m.stats.misses++
		return New(), nil
	}

	now := m.now()
	if now.After(entry.expiresAt) {
		delete(m.store, id)
		m.stats.evictions++
		m.stats.misses++
		common.LogDebug("購物車已過期", zap.String("cart_id", id))
		return New(), nil
	}

	entry.lastAccess = now
	entry.accessCount++
	m.store[id] = entry
	m.stats.hits++

	return copyCart(entry.cart), nil
}

// Save 儲存購物車並重設存活時間
func (m *MemoryStore) Save(_ context.Context, id string, c Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	existing, exists := m.store[id]
	if !exists && len(m.store) >= m.opts.MaxSize {
		evicted := m.cleanup()
		common.LogDebug("購物車清理執行", zap.Int("evicted", evicted))

		if len(m.store) >= m.opts.MaxSize {
			m.evictLRU()
		}

		if len(m.store) >= m.opts.MaxSize {
			m.stats.errors++
			common.LogWarn("購物車儲存已滿", zap.Int("size", len(m.store)))
			return common.ErrCartFull
		}
	}

	createdAt := now
	if exists {
		createdAt = existing.createdAt
	}
	m.store[id] = cartEntry{
		cart:        copyCart(c),
		expiresAt:   now.Add(m.opts.TTL),
		createdAt:   createdAt,
		lastAccess:  now,
		accessCount: existing.accessCount,
	}
	return nil
}

// Delete 刪除購物車
func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.store, id)
	return nil
}

// startCleanup 定期清理過期購物車
func (m *MemoryStore) startCleanup() {
	ticker := time.NewTicker(m.opts.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			m.mu.Lock()
			m.cleanup()
			m.mu.Unlock()
		}
	}
}

// cleanup 清理過期的購物車，呼叫者需持有寫鎖
func (m *MemoryStore) cleanup() int {
	now := m.now()
	count := 0

	for key, entry := range m.store {
		if now.After(entry.expiresAt) {
			delete(m.store, key)
			count++
			m.stats.evictions++
		}
	}

	if count > 0 {
		common.LogInfo("Cleaned up expired carts",
			zap.Int("count", count),
			zap.Int64("total_evictions", m.stats.evictions),
			zap.Int("remaining_size", len(m.store)),
		)
	}

	return count
}

// evictLRU 淘汰最少使用的購物車，呼叫者需持有寫鎖
func (m *MemoryStore) evictLRU() {
	var oldestKey string
	var oldestAccess time.Time
	var lowestAccessCount int

	for key, entry := range m.store {
		if oldestKey == "" ||
			entry.accessCount < lowestAccessCount ||
			(entry.accessCount == lowestAccessCount && entry.lastAccess.Before(oldestAccess)) {
			oldestKey = key
			oldestAccess = entry.lastAccess
			lowestAccessCount = entry.accessCount
		}
	}

	if oldestKey != "" {
		delete(m.store, oldestKey)
		m.stats.evictions++
		common.LogDebug("購物車已淘汰(LRU)", zap.String("cart_id", oldestKey))
	}
}

// Stats 取得統計資訊
func (m *MemoryStore) Stats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ratio := 0.0
	if total := m.stats.hits + m.stats.misses; total > 0 {
		ratio = float64(m.stats.hits) / float64(total)
	}

	return map[string]interface{}{
		"size":      len(m.store),
		"max_size":  m.opts.MaxSize,
		"hits":      m.stats.hits,
		"misses":    m.stats.misses,
		"evictions": m.stats.evictions,
		"errors":    m.stats.errors,
		"hit_ratio": ratio,
	}
}

// Close 停止清理並清空儲存
func (m *MemoryStore) Close() error {
	m.once.Do(func() { close(m.done) })

	m.mu.Lock()
	defer m.mu.Unlock()
	m.store = make(map[string]cartEntry)
	common.LogInfo("購物車儲存已關閉",
		zap.Int64("hits", m.stats.hits),
		zap.Int64("misses", m.stats.misses),
		zap.Int64("evictions", m.stats.evictions),
	)
	return nil
}

func copyCart(c Cart) Cart {
	entries := make([]Entry, len(c.Entries))
	copy(entries, c.Entries)
	return Cart{Entries: entries}
}
