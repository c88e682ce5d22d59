package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 應用配置
type Config struct {
	App         AppConfig       `mapstructure:"app"`
	Server      ServerConfig    `mapstructure:"server"`
	Catalog     CatalogConfig   `mapstructure:"catalog"`
	Corpus      CorpusConfig    `mapstructure:"corpus"`
	Engine      EngineConfig    `mapstructure:"engine"`
	Cart        CartConfig      `mapstructure:"cart"`
	Drift       DriftConfig     `mapstructure:"drift"`
	RateLimit   RateLimitConfig `mapstructure:"rate_limit"`
	DedupWindow time.Duration   `mapstructure:"dedup_window"`
	LogLevel    string          `mapstructure:"log_level"`
	LogFile     string          `mapstructure:"log_file"`
}

// AppConfig 應用程式設定
type AppConfig struct {
	Env     string `mapstructure:"env"`
	Debug   bool   `mapstructure:"debug"`
	Version string `mapstructure:"version"`
	Name    string `mapstructure:"name"`
}

// ServerConfig 服務器配置
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// CatalogConfig 商品目錄來源設定
// RemoteURL 有值時改由外部目錄服務取得商品
type CatalogConfig struct {
	Path      string        `mapstructure:"path"`
	RemoteURL string        `mapstructure:"remote_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// CorpusConfig 食譜庫設定
type CorpusConfig struct {
	Path string `mapstructure:"path"`
}

// EngineConfig 比對引擎設定
type EngineConfig struct {
	Strategy      string `mapstructure:"strategy"`
	FuzzyCutoff   int    `mapstructure:"fuzzy_cutoff"`
	ResultLimit   int    `mapstructure:"result_limit"`
	HighlightSize int    `mapstructure:"highlight_size"`
	Workers       int    `mapstructure:"workers"`
}

// CartConfig 購物車儲存設定
type CartConfig struct {
	Store           string        `mapstructure:"store"`
	TTL             time.Duration `mapstructure:"ttl"`
	MaxSize         int           `mapstructure:"max_size"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
	RedisAddr       string        `mapstructure:"redis_addr"`
	RedisPassword   string        `mapstructure:"redis_password"`
	RedisDB         int           `mapstructure:"redis_db"`
}

// DriftConfig 價格浮動模擬設定
type DriftConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	Interval       time.Duration `mapstructure:"interval"`
	Items          int           `mapstructure:"items"`
	MaxFluctuation float64       `mapstructure:"max_fluctuation"`
	MinCost        float64       `mapstructure:"min_cost"`
}

// RateLimitConfig 速率限制配置
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// LoadConfig 載入設定
func LoadConfig() (*Config, error) {
	// 加載 .env 文件（可選）
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()

	// 設定預設值
	setDefaults(v)

	// 設定環境變數前綴
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 綁定環境變量
	_ = v.BindEnv("catalog.path", "CATALOG_PATH")
	_ = v.BindEnv("catalog.remote_url", "CATALOG_REMOTE_URL")
	_ = v.BindEnv("corpus.path", "CORPUS_PATH")
	_ = v.BindEnv("engine.strategy", "MATCH_STRATEGY")
	_ = v.BindEnv("engine.fuzzy_cutoff", "FUZZY_CUTOFF")
	_ = v.BindEnv("engine.workers", "ENGINE_WORKERS")
	_ = v.BindEnv("cart.store", "CART_STORE")
	_ = v.BindEnv("cart.redis_addr", "REDIS_ADDR")
	_ = v.BindEnv("cart.redis_password", "REDIS_PASSWORD")
	_ = v.BindEnv("drift.enabled", "DRIFT_ENABLED")
	_ = v.BindEnv("rate_limit.enabled", "RATE_LIMIT_ENABLED")
	_ = v.BindEnv("rate_limit.requests", "RATE_LIMIT_REQUESTS")
	_ = v.BindEnv("rate_limit.window", "RATE_LIMIT_WINDOW")
	_ = v.BindEnv("dedup_window", "DEDUP_WINDOW")
	_ = v.BindEnv("log_level", "LOG_LEVEL")
	_ = v.BindEnv("log_file", "LOG_FILE")

	// 設定設定檔名稱和路徑
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")

	// 讀取設定檔
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return unmarshal(v)
}

// unmarshal 解析並驗證設定
func unmarshal(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// Default 回傳僅含預設值的設定
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	cfg, err := unmarshal(v)
	if err != nil {
		panic(err)
	}
	return cfg
}

// setDefaults 設定預設值
func setDefaults(v *viper.Viper) {
	// 應用程式設定
	v.SetDefault("app.env", "development")
	v.SetDefault("app.debug", true)
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.name", "recipe-matcher")

	// 伺服器設定
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")

	// 資料來源
	v.SetDefault("catalog.path", "data/walmart_items.json")
	v.SetDefault("catalog.remote_url", "")
	v.SetDefault("catalog.timeout", "10s")
	v.SetDefault("corpus.path", "data/RAW_recipes.json")

	// 比對引擎
	v.SetDefault("engine.strategy", "containment")
	v.SetDefault("engine.fuzzy_cutoff", 75)
	v.SetDefault("engine.result_limit", 12)
	v.SetDefault("engine.highlight_size", 12)
	v.SetDefault("engine.workers", 4)

	// 購物車
	v.SetDefault("cart.store", "memory")
	v.SetDefault("cart.ttl", "24h")
	v.SetDefault("cart.max_size", 10000)
	v.SetDefault("cart.cleanup_interval", "10m")
	v.SetDefault("cart.redis_addr", "localhost:6379")
	v.SetDefault("cart.redis_password", "")
	v.SetDefault("cart.redis_db", 0)

	// 價格浮動模擬
	v.SetDefault("drift.enabled", false)
	v.SetDefault("drift.interval", "30s")
	v.SetDefault("drift.items", 5)
	v.SetDefault("drift.max_fluctuation", 0.1)
	v.SetDefault("drift.min_cost", 0.5)

	// 限流設定
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests", 100)
	v.SetDefault("rate_limit.window", "1m")

	v.SetDefault("dedup_window", "1s")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "logs/app.log")
}

// validateConfig 驗證設定
func validateConfig(config *Config) error {
	if config.Server.Port == 0 {
		return fmt.Errorf("server port is required")
	}

	if config.Catalog.Path == "" && config.Catalog.RemoteURL == "" {
		return fmt.Errorf("catalog path or remote url is required")
	}
	if config.Corpus.Path == "" {
		return fmt.Errorf("corpus path is required")
	}

	switch config.Engine.Strategy {
	case "containment", "fuzzy":
	default:
		return fmt.Errorf("unknown match strategy %q", config.Engine.Strategy)
	}
	if config.Engine.FuzzyCutoff < 0 || config.Engine.FuzzyCutoff > 100 {
		return fmt.Errorf("invalid fuzzy cutoff")
	}
	if config.Engine.ResultLimit <= 0 {
		return fmt.Errorf("invalid result limit")
	}
	if config.Engine.HighlightSize <= 0 {
		return fmt.Errorf("invalid highlight size")
	}
	if config.Engine.Workers <= 0 {
		return fmt.Errorf("invalid engine workers")
	}

	// 驗證購物車設定
	switch config.Cart.Store {
	case "memory":
		if config.Cart.MaxSize <= 0 {
			return fmt.Errorf("invalid cart max size")
		}
		if config.Cart.CleanupInterval <= 0 {
			return fmt.Errorf("invalid cart cleanup interval")
		}
	case "redis":
		if config.Cart.RedisAddr == "" {
			return fmt.Errorf("redis address is required")
		}
	default:
		return fmt.Errorf("unknown cart store %q", config.Cart.Store)
	}
	if config.Cart.TTL <= 0 {
		return fmt.Errorf("invalid cart ttl")
	}

	if config.Drift.Enabled {
		if config.Drift.Interval <= 0 {
			return fmt.Errorf("invalid drift interval")
		}
		if config.Drift.Items <= 0 {
			return fmt.Errorf("invalid drift items")
		}
	}

	return nil
}
