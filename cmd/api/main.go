package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"recipe-matcher/internal/api"
	"recipe-matcher/internal/api/middleware"
	"recipe-matcher/internal/core/cart"
	"recipe-matcher/internal/core/catalog"
	"recipe-matcher/internal/core/engine"
	"recipe-matcher/internal/core/match"
	"recipe-matcher/internal/core/recipe"
	"recipe-matcher/internal/infrastructure/config"
	"recipe-matcher/internal/pkg/common"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// 載入 .env
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found")
	}

	// 載入設定
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(cfg.LogLevel, cfg.LogFile); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	common.LogInfo("載入設定",
		zap.String("catalog_path", cfg.Catalog.Path),
		zap.String("catalog_remote_url", cfg.Catalog.RemoteURL),
		zap.String("corpus_path", cfg.Corpus.Path),
		zap.String("strategy", cfg.Engine.Strategy),
		zap.String("cart_store", cfg.Cart.Store),
	)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// 商品目錄
	provider, store, err := setupCatalog(cfg)
	if err != nil {
		common.LogFatal("Failed to load catalog", zap.Error(err))
	}

	// 食譜庫
	corpus, err := recipe.LoadCorpus(cfg.Corpus.Path)
	if err != nil {
		common.LogFatal("Failed to load recipe corpus", zap.Error(err))
	}

	// 比對引擎
	strategy, err := match.NewStrategy(cfg.Engine.Strategy, cfg.Engine.FuzzyCutoff)
	if err != nil {
		common.LogFatal("Invalid match strategy", zap.Error(err))
	}
	seed := uint64(time.Now().UnixNano())
	eng := engine.New(corpus, provider, recipe.NewEvaluator(match.NewResolver(strategy)).WithWorkers(cfg.Engine.Workers), engine.Options{
		Limit:      cfg.Engine.ResultLimit,
		SampleSize: cfg.Engine.HighlightSize,
		Random:     rand.New(rand.NewPCG(seed, seed>>1)),
	})

	// 購物車儲存
	cartStore, err := setupCartStore(ctx, cfg)
	if err != nil {
		common.LogFatal("Failed to initialize cart store", zap.Error(err))
	}
	defer cartStore.Close()

	// 價格浮動模擬，只適用於本地目錄
	if cfg.Drift.Enabled {
		if store == nil {
			common.LogWarn("價格浮動模擬僅支援本地商品目錄，已略過")
		} else {
			drifter := catalog.NewDrifter(store, rand.New(rand.NewPCG(seed>>1, seed)), catalog.DriftOptions{
				Interval:       cfg.Drift.Interval,
				Items:          cfg.Drift.Items,
				MaxFluctuation: cfg.Drift.MaxFluctuation,
				MinCost:        cfg.Drift.MinCost,
			})
			go drifter.Run(ctx)
		}
	}

	dedup := middleware.NewDeduplicator(cfg.DedupWindow)
	if cfg.DedupWindow > 0 {
		go dedup.Run(ctx, time.Minute)
	}

	// 設置路由
	router, err := api.SetupRouter(cfg, api.Dependencies{
		Engine:    eng,
		CartStore: cartStore,
		Dedup:     dedup,
	})
	if err != nil {
		common.LogError("Failed to setup router", zap.Error(err))
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		common.LogInfo("啟動應用",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Int("port", cfg.Server.Port),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			common.LogError("Failed to start server", zap.Error(err))
			os.Exit(1)
		}
	}()

	// 等待中斷信號
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo("Shutting down server...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		common.LogError("Server forced to shutdown", zap.Error(err))
		os.Exit(1)
	}

	common.LogInfo("Server exited")
}

// setupCatalog 依設定選擇商品目錄來源
// 使用本地檔案時一併回傳 *catalog.Store 供價格浮動模擬使用
func setupCatalog(cfg *config.Config) (catalog.Provider, *catalog.Store, error) {
	if cfg.Catalog.RemoteURL != "" {
		provider := catalog.NewHTTPProvider(cfg.Catalog.RemoteURL, cfg.Catalog.Timeout)
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Catalog.Timeout)
		defer cancel()
		snap, err := provider.Snapshot(ctx)
		if err != nil {
			return nil, nil, err
		}
		common.LogInfo("遠端商品目錄可用", zap.Int("items", len(snap.Items)))
		return provider, nil, nil
	}

	result, err := catalog.LoadItemsFile(cfg.Catalog.Path)
	if err != nil {
		return nil, nil, err
	}
	store := catalog.NewStore(result.Items, time.Now)
	return store, store, nil
}

// setupCartStore 依設定建立購物車儲存
func setupCartStore(ctx context.Context, cfg *config.Config) (cart.Store, error) {
	if cfg.Cart.Store == "redis" {
		return cart.NewRedisStore(ctx, cart.RedisOptions{
			Addr:     cfg.Cart.RedisAddr,
			Password: cfg.Cart.RedisPassword,
			DB:       cfg.Cart.RedisDB,
			TTL:      cfg.Cart.TTL,
		})
	}
	return cart.NewMemoryStore(cart.MemoryOptions{
		TTL:             cfg.Cart.TTL,
		MaxSize:         cfg.Cart.MaxSize,
		CleanupInterval: cfg.Cart.CleanupInterval,
	}), nil
}
