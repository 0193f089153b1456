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
	App         AppConfig        `mapstructure:"app"`
	Server      ServerConfig     `mapstructure:"server"`
	OpenRouter  OpenRouterConfig `mapstructure:"openrouter"`
	Database    DatabaseConfig   `mapstructure:"database"`
	Cache       CacheConfig      `mapstructure:"cache"`
	Queue       QueueConfig      `mapstructure:"queue"`
	RateLimit   RateLimitConfig  `mapstructure:"rate_limit"`
	Suggestion  SuggestionConfig `mapstructure:"suggestion"`
	DedupWindow time.Duration    `mapstructure:"dedup_window"`
	LogLevel    string           `mapstructure:"log_level"`
	LogDir      string           `mapstructure:"log_dir"`
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
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	MaxBodyBytes   int64         `mapstructure:"max_body_bytes"`
}

// OpenRouterConfig 聊天補全端點設定（相容 OpenAI 格式）
type OpenRouterConfig struct {
	APIKey      string        `mapstructure:"api_key"`
	BaseURL     string        `mapstructure:"base_url"`
	Model       string        `mapstructure:"model"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Temperature float64       `mapstructure:"temperature"`
	Timeout     time.Duration `mapstructure:"timeout"`
	Referer     string        `mapstructure:"referer"`
	Title       string        `mapstructure:"title"`
}

// DatabaseConfig 資料庫設定
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"` // sqlite | postgres
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	LogLevel        string        `mapstructure:"log_level"`
}

// CacheConfig 緩存配置
type CacheConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Backend         string        `mapstructure:"backend"` // memory | redis
	MaxSize         int           `mapstructure:"max_size"`
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
	RedisAddr       string        `mapstructure:"redis_addr"`
	RedisPassword   string        `mapstructure:"redis_password"`
	RedisDB         int           `mapstructure:"redis_db"`
}

// QueueConfig 請求隊列設定
type QueueConfig struct {
	Workers int `mapstructure:"workers"`
	MaxSize int `mapstructure:"max_size"`
}

// RateLimitConfig 速率限制配置
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// SuggestionConfig 食譜推薦設定
type SuggestionConfig struct {
	DefaultCount   int      `mapstructure:"default_count"`
	MaxCount       int      `mapstructure:"max_count"`
	MaxIngredients int      `mapstructure:"max_ingredients"`
	PantryStaples  []string `mapstructure:"pantry_staples"`
}

// LoadConfig 載入設定
func LoadConfig() (*Config, error) {
	// .env 不存在時僅使用環境變數與預設值
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	// 設定環境變數前綴
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 綁定環境變量
	bindings := map[string]string{
		"openrouter.api_key":    "OPENROUTER_API_KEY",
		"openrouter.model":      "OPENROUTER_MODEL",
		"openrouter.base_url":   "OPENROUTER_BASE_URL",
		"openrouter.max_tokens": "MODEL_MAX_TOKENS",
		"database.driver":       "DATABASE_DRIVER",
		"database.dsn":          "DATABASE_DSN",
		"cache.enabled":         "CACHE_ENABLED",
		"cache.backend":         "CACHE_BACKEND",
		"cache.redis_addr":      "REDIS_ADDR",
		"cache.redis_password":  "REDIS_PASSWORD",
		"rate_limit.enabled":    "RATE_LIMIT_ENABLED",
		"rate_limit.requests":   "RATE_LIMIT_REQUESTS",
		"rate_limit.window":     "RATE_LIMIT_WINDOW",
		"server.port":           "PORT",
		"dedup_window":          "DEDUP_WINDOW",
		"log_level":             "LOG_LEVEL",
		"log_dir":               "LOG_DIR",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, "APP_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env); err != nil {
			return nil, fmt.Errorf("failed to bind env %s: %w", env, err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// MaskAPIKey 遮罩 API Key，只顯示前後各 4 個字符
func MaskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

// HasAPIKey 是否已設定聊天端點憑證
func (c *Config) HasAPIKey() bool {
	return strings.TrimSpace(c.OpenRouter.APIKey) != ""
}

// setDefaults 設定預設值
func setDefaults(v *viper.Viper) {
	// 應用程式設定
	v.SetDefault("app.env", "development")
	v.SetDefault("app.debug", true)
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.name", "recipe-pantry")

	// 伺服器設定
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "90s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.request_timeout", "75s")
	v.SetDefault("server.max_body_bytes", 1<<20) // 1MB

	// 聊天端點設定
	v.SetDefault("openrouter.base_url", "https://openrouter.ai/api/v1")
	v.SetDefault("openrouter.model", "openai/gpt-4o-mini")
	v.SetDefault("openrouter.max_tokens", 1000)
	v.SetDefault("openrouter.temperature", 0.7)
	v.SetDefault("openrouter.timeout", "60s")
	v.SetDefault("openrouter.referer", "https://recipe-pantry.local")
	v.SetDefault("openrouter.title", "Recipe Pantry")

	// 資料庫設定
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "recipes.db")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "5m")
	v.SetDefault("database.log_level", "warn")

	// 快取設定
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.backend", "memory")
	v.SetDefault("cache.max_size", 500)
	v.SetDefault("cache.ttl", "1h")
	v.SetDefault("cache.cleanup_interval", "10m")
	v.SetDefault("cache.redis_addr", "localhost:6379")
	v.SetDefault("cache.redis_db", 0)

	// 隊列設定
	v.SetDefault("queue.workers", 4)
	v.SetDefault("queue.max_size", 50)

	// 限流設定
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests", 30)
	v.SetDefault("rate_limit.window", "1m")

	// 推薦設定
	v.SetDefault("suggestion.default_count", 3)
	v.SetDefault("suggestion.max_count", 5)
	v.SetDefault("suggestion.max_ingredients", 30)
	v.SetDefault("suggestion.pantry_staples", []string{"salt", "pepper", "oil", "water"})

	v.SetDefault("dedup_window", "1s")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_dir", "logs")
}

// validateConfig 驗證設定
func validateConfig(config *Config) error {
	if config.Server.Port <= 0 {
		return fmt.Errorf("server port is required")
	}

	switch config.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported database driver %q", config.Database.Driver)
	}
	if config.Database.DSN == "" {
		return fmt.Errorf("database dsn is required")
	}

	if config.Cache.Enabled {
		switch config.Cache.Backend {
		case "memory":
			if config.Cache.MaxSize <= 0 {
				return fmt.Errorf("invalid cache max size")
			}
			if config.Cache.CleanupInterval <= 0 {
				return fmt.Errorf("invalid cache cleanup interval")
			}
		case "redis":
			if config.Cache.RedisAddr == "" {
				return fmt.Errorf("redis address is required")
			}
		default:
			return fmt.Errorf("unsupported cache backend %q", config.Cache.Backend)
		}
		if config.Cache.TTL <= 0 {
			return fmt.Errorf("invalid cache ttl")
		}
	}

	if config.Queue.Workers <= 0 {
		return fmt.Errorf("invalid queue workers")
	}
	if config.Queue.MaxSize <= 0 {
		return fmt.Errorf("invalid queue max size")
	}

	if config.RateLimit.Enabled && (config.RateLimit.Requests <= 0 || config.RateLimit.Window <= 0) {
		return fmt.Errorf("invalid rate limit")
	}

	if config.Suggestion.DefaultCount <= 0 || config.Suggestion.MaxCount < config.Suggestion.DefaultCount {
		return fmt.Errorf("invalid suggestion count")
	}

	return nil
}
