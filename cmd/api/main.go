package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"recipe-pantry/internal/api"
	"recipe-pantry/internal/core/ai/cache"
	aiservice "recipe-pantry/internal/core/ai/service"
	"recipe-pantry/internal/core/recipe"
	openrouter "recipe-pantry/internal/core/service"
	"recipe-pantry/internal/infrastructure/config"
	"recipe-pantry/internal/infrastructure/database"
	"recipe-pantry/internal/pkg/common"
	"recipe-pantry/internal/pkg/metrics"

	"go.uber.org/zap"
)

func main() {
	// 載入設定（含 .env）
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(cfg.LogLevel, cfg.LogDir); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	common.LogInfo("載入設定",
		zap.String("openrouter_key", config.MaskAPIKey(cfg.OpenRouter.APIKey)),
		zap.String("openrouter_model", cfg.OpenRouter.Model),
		zap.String("database_driver", cfg.Database.Driver),
		zap.String("cache_backend", cfg.Cache.Backend),
	)
	if !cfg.HasAPIKey() {
		common.LogWarn("未設定 OPENROUTER_API_KEY，AI 推薦將回傳 503")
	}

	// 初始化資料庫
	db, err := database.Open(&cfg.Database, recipe.Models()...)
	if err != nil {
		common.LogFatal("Failed to open database", zap.Error(err))
	}
	defer database.Close(db)

	// 初始化快取
	store, err := cache.NewStore(&cfg.Cache)
	if err != nil {
		common.LogFatal("Failed to initialize cache", zap.Error(err))
	}
	if store != nil {
		defer store.Close()
	}

	collector := metrics.NewCollector()
	aiService := aiservice.NewService(cfg, openrouter.NewOpenRouterService(&cfg.OpenRouter), store, collector)
	defer aiService.Close()

	router := api.SetupRouter(cfg, db, aiService, collector)

	// 設置 HTTP 服務器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		common.LogInfo("啟動應用",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Int("port", cfg.Server.Port),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// 等待中斷信號
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serverErr:
		common.LogError("Failed to start server", zap.Error(err))
		return
	}

	common.LogInfo("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		common.LogError("Server forced to shutdown", zap.Error(err))
		return
	}

	common.LogInfo("Server exited")
}
