package api

import (
	"time"

	"recipe-pantry/internal/api/handlers"
	"recipe-pantry/internal/api/handlers/health"
	recipeHandler "recipe-pantry/internal/api/handlers/recipe"
	"recipe-pantry/internal/api/middleware"
	aiservice "recipe-pantry/internal/core/ai/service"
	recipeService "recipe-pantry/internal/core/recipe"
	"recipe-pantry/internal/infrastructure/config"
	"recipe-pantry/internal/pkg/common"
	"recipe-pantry/internal/pkg/metrics"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, db *gorm.DB, aiService *aiservice.Service, collector *metrics.Collector) *gin.Engine {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	// 設置 gin 模式
	if !cfg.App.Debug && gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(common.GenerateUUID)))
	router.Use(middleware.Logger())
	router.Use(middleware.Metrics(collector))

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}))

	// 請求體大小限制
	router.Use(middleware.BodySizeLimit(cfg.Server.MaxBodyBytes))
	router.Use(middleware.RequestContext(cfg.Server.RequestTimeout))

	// 初始化服務
	ingredientSvc := recipeService.NewIngredientService(db)
	recipeSvc := recipeService.NewRecipeService(db, ingredientSvc)
	suggestionSvc := recipeService.NewSuggestionService(aiService, ingredientSvc, cfg.Suggestion, collector)

	// 健康檢查使用的依賴
	router.Use(func(c *gin.Context) {
		c.Set("config", cfg)
		c.Set("db", db)
		c.Set("ai_service", aiService)
		c.Next()
	})

	// 健康檢查路由
	router.GET("/health", health.HealthCheck)
	router.GET("/ready", health.ReadinessCheck)
	router.GET("/live", health.LivenessCheck)
	router.GET("/metrics", gin.WrapH(collector.Handler()))

	catalog := recipeHandler.NewHandler(ingredientSvc, recipeSvc)
	aiHandler := handlers.NewAIHandler(suggestionSvc, collector)

	// API 路由組
	api := router.Group("/api/v1")
	{
		ingredientGroup := api.Group("/ingredients")
		{
			ingredientGroup.GET("", catalog.ListIngredients)
			ingredientGroup.POST("", catalog.CreateIngredient)
			ingredientGroup.GET("/:id", catalog.GetIngredient)
			ingredientGroup.PATCH("/:id", catalog.UpdateIngredient)
			ingredientGroup.DELETE("/:id", catalog.DeleteIngredient)
		}

		recipeGroup := api.Group("/recipes")
		{
			recipeGroup.GET("", catalog.ListRecipes)
			recipeGroup.POST("", catalog.CreateRecipe)
			recipeGroup.GET("/can-make", catalog.CanMake)
			recipeGroup.POST("/from-suggestion", catalog.SaveSuggestion)
			recipeGroup.GET("/:id", catalog.GetRecipe)
			recipeGroup.PUT("/:id", catalog.UpdateRecipe)
			recipeGroup.DELETE("/:id", catalog.DeleteRecipe)
		}

		// 呼叫上游模型的路由額外限流與去重
		aiGroup := api.Group("/ai")
		if cfg.RateLimit.Enabled {
			aiGroup.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
		}
		aiGroup.Use(middleware.Deduplication(cfg.DedupWindow))
		{
			aiGroup.POST("/suggest", aiHandler.Suggest)
			aiGroup.POST("/parse", aiHandler.Parse)
		}
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("ai_configured", aiService.Configured()),
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
		zap.Bool("rate_limit_enabled", cfg.RateLimit.Enabled),
		zap.Duration("request_timeout", cfg.Server.RequestTimeout),
		zap.Int64("max_body_size", cfg.Server.MaxBodyBytes),
	)

	return router
}
