package api

import (
	"context"
	"errors"
	"time"

	cartHandler "recipe-matcher/internal/api/handlers/cart"
	catalogHandler "recipe-matcher/internal/api/handlers/catalog"
	"recipe-matcher/internal/api/handlers/health"
	mealHandler "recipe-matcher/internal/api/handlers/meal"
	recipeHandler "recipe-matcher/internal/api/handlers/recipe"
	"recipe-matcher/internal/api/middleware"
	"recipe-matcher/internal/core/cart"
	"recipe-matcher/internal/core/engine"
	"recipe-matcher/internal/infrastructure/config"
	"recipe-matcher/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const (
	// 單一請求處理時間上限
	timeoutDuration = 30 * time.Second
	// 請求體大小限制 (1MB)
	maxBodySize = 1 << 20
)

// Dependencies 路由所需的服務
type Dependencies struct {
	Engine    *engine.Engine
	CartStore cart.Store
	Dedup     *middleware.Deduplicator
}

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, deps Dependencies) (*gin.Engine, error) {
	if cfg == nil || deps.Engine == nil || deps.CartStore == nil {
		return nil, errors.New("router requires config, engine and cart store")
	}

	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
		zap.String("strategy", deps.Engine.Strategy()),
	)

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.Recovery())
	router.Use(requestid.New())
	router.Use(middleware.Logger())

	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "X-Request-ID", cartHandler.HeaderCartID, middleware.HeaderIdempotencyKey},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID", cartHandler.HeaderCartID},
		MaxAge:        12 * time.Hour,
	}))

	router.Use(middleware.BodySizeLimit(maxBodySize))
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}

	// 請求超時
	router.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		if errors.Is(ctx.Err(), context.DeadlineExceeded) && !c.Writer.Written() {
			common.LogError("Request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", requestid.Get(c)),
				zap.Duration("timeout", timeoutDuration),
			)
			status, resp := common.ToResponse(common.ErrGatewayTimeout, false)
			c.AbortWithStatusJSON(status, resp)
		}
	})

	healthHandler := health.NewHandler(cfg, deps.Engine, deps.CartStore)
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", healthHandler.ReadinessCheck)
	router.GET("/live", healthHandler.LivenessCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	dedup := deps.Dedup
	if dedup == nil {
		dedup = middleware.NewDeduplicator(cfg.DedupWindow)
	}

	api := router.Group("/api/v1")
	{
		recipes := recipeHandler.NewHandler(deps.Engine, cfg.App.Debug)
		recipeGroup := api.Group("/recipes")
		{
			recipeGroup.GET("", recipes.HandleSearch)
			recipeGroup.GET("/highlights", recipes.HandleHighlights)
		}

		items := catalogHandler.NewHandler(deps.Engine, cfg.App.Debug)
		catalogGroup := api.Group("/catalog")
		{
			catalogGroup.GET("", items.HandleList)
			catalogGroup.POST("/items", items.HandleAddItem)
		}

		meals := mealHandler.NewHandler(deps.Engine, cfg.App.Debug)
		mealGroup := api.Group("/meals")
		{
			mealGroup.GET("", meals.HandleList)
			mealGroup.POST("", meals.HandleCreate)
		}

		carts := cartHandler.NewHandler(deps.Engine, deps.CartStore, cfg.App.Debug)
		cartGroup := api.Group("/cart")
		{
			cartGroup.GET("", carts.HandleGet)
			cartGroup.POST("/items", dedup.Middleware(cartHandler.HeaderCartID), carts.HandleAdd)
			cartGroup.POST("/checkout", carts.HandleCheckout)
		}
	}

	common.LogInfo("Router setup completed",
		zap.Duration("timeout", timeoutDuration),
		zap.Int64("max_body_size", maxBodySize),
		zap.Bool("rate_limit", cfg.RateLimit.Enabled),
		zap.Duration("dedup_window", cfg.DedupWindow),
	)

	return router, nil
}
