package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"recipe-matcher/internal/pkg/common"

	"github.com/go-redis/redis/v8"
)

const redisKeyPrefix = "recipe-matcher:cart:"

// RedisOptions redis 購物車儲存設定
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// RedisStore 以 redis 儲存購物車
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore 創建 redis 購物車儲存並測試連線
func NewRedisStore(ctx context.Context, opts RedisOptions) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	// 測試連接
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, common.ErrCartStore.Wrap(fmt.Errorf("failed to connect to Redis: %w", err))
	}

	return &RedisStore{
		client: client,
		ttl:    opts.TTL,
	}, nil
}

// Get 取得購物車
func (s *RedisStore) Get(ctx context.Context, id string) (Cart, error) {
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return New(), nil
		}
		return Cart{}, common.ErrCartStore.Wrap(fmt.Errorf("failed to get cart: %w", err))
	}

	var c Cart
	if err := common.ParseJSONBytes(data, &c); err != nil {
		return Cart{}, common.ErrCartStore.Wrap(fmt.Errorf("failed to unmarshal cart: %w", err))
	}
	if c.Entries == nil {
		c.Entries = []Entry{}
	}
	return c, nil
}

// Save 儲存購物車並重設存活時間
func (s *RedisStore) Save(ctx context.Context, id string, c Cart) error {
	data, err := common.ToJSON(c)
	if err != nil {
		return common.ErrCartStore.Wrap(fmt.Errorf("failed to marshal cart: %w", err))
	}

	if err := s.client.Set(ctx, s.key(id), data, s.ttl).Err(); err != nil {
		return common.ErrCartStore.Wrap(fmt.Errorf("failed to set cart: %w", err))
	}
	return nil
}

// Delete 刪除購物車
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return common.ErrCartStore.Wrap(fmt.Errorf("failed to delete cart: %w", err))
	}
	return nil
}

// Stats 連線池統計
func (s *RedisStore) Stats() map[string]interface{} {
	pool := s.client.PoolStats()
	return map[string]interface{}{
		"hits":        pool.Hits,
		"misses":      pool.Misses,
		"timeouts":    pool.Timeouts,
		"total_conns": pool.TotalConns,
		"idle_conns":  pool.IdleConns,
		"stale_conns": pool.StaleConns,
	}
}

// Close 關閉連線
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) key(id string) string {
	return redisKeyPrefix + id
}
