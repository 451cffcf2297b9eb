package api

import (
	"context"
	"net/http"
	"time"

	expirationHandler "smart-recipe-backend/internal/api/handlers/expiration"
	"smart-recipe-backend/internal/api/handlers/health"
	ingredientHandler "smart-recipe-backend/internal/api/handlers/ingredient"
	recipeHandler "smart-recipe-backend/internal/api/handlers/recipe"
	userHandler "smart-recipe-backend/internal/api/handlers/user"
	"smart-recipe-backend/internal/api/middleware"
	"smart-recipe-backend/internal/core/ai/cache"
	"smart-recipe-backend/internal/core/ai/recipegen"
	"smart-recipe-backend/internal/core/ai/vision"
	"smart-recipe-backend/internal/core/expiration"
	"smart-recipe-backend/internal/core/image"
	"smart-recipe-backend/internal/core/inventory"
	"smart-recipe-backend/internal/core/recipe"
	"smart-recipe-backend/internal/core/user"
	"smart-recipe-backend/internal/infrastructure/config"
	"smart-recipe-backend/internal/infrastructure/objectstore"
	"smart-recipe-backend/internal/infrastructure/store"
	"smart-recipe-backend/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// 超時設置
	timeoutDuration = 120 * time.Second
	// 請求體大小限制 (15MB，圖片以 base64 傳輸會膨脹約 1/3)
	maxBodySize = 15 << 20
)

// Dependencies 路由所需的外部依賴
// Cache 與 Uploader 允許為 nil，對應功能會被停用
type Dependencies struct {
	Store      store.DocumentStore
	Cache      cache.Store
	Uploader   objectstore.Uploader
	Recognizer vision.Recognizer
	Generator  recipegen.Generator
}

// SetupRouter 設置路由並組裝所有服務
func SetupRouter(cfg *config.Config, deps Dependencies) (*gin.Engine, error) {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	// 創建路由引擎
	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(requestid.New()) // 自動生成請求 ID

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// 請求體大小限制
	router.Use(middleware.BodySizeLimit(maxBodySize))

	// 重複請求去重
	router.Use(middleware.Deduplication(cfg))

	// 限流
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}

	// 請求超時
	router.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		if ctx.Err() == context.DeadlineExceeded {
			common.LogError("Request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", c.GetHeader("X-Request-ID")),
				zap.Duration("timeout", timeoutDuration),
			)
			c.JSON(http.StatusGatewayTimeout, gin.H{
				"error": "Request timeout",
				"code":  "REQUEST_TIMEOUT",
			})
			c.Abort()
		}
	})

	common.LogInfo("Initializing services",
		zap.Bool("cache_enabled", deps.Cache != nil),
		zap.Bool("uploader_enabled", deps.Uploader != nil),
		zap.String("vision_model", cfg.Groq.Model),
		zap.String("recipe_model", cfg.Gemini.Model),
	)

	// 組裝核心服務
	inventorySvc := inventory.NewService(deps.Store)
	reconciler := inventory.NewReconciler(inventorySvc)
	imageSvc := image.NewService(cfg.Image.MaxSizeBytes, cfg.Image.MinWidth, cfg.Image.MinHeight)
	recipeSvc := recipe.NewService(deps.Store, inventorySvc, deps.Generator)
	expirationSvc := expiration.NewService(deps.Store, inventorySvc, cfg.Expiration.WarningDays)
	userSvc := user.NewService(deps.Store)

	// 組裝處理器
	healthH := health.NewHandler(cfg, deps.Store)
	ingredientH := ingredientHandler.NewHandler(
		inventorySvc, reconciler, deps.Recognizer, imageSvc, deps.Cache, deps.Uploader)
	recipeH := recipeHandler.NewHandler(recipeSvc)
	expirationH := expirationHandler.NewHandler(expirationSvc)
	userH := userHandler.NewHandler(userSvc)

	// 健康檢查路由
	router.GET("/health", healthH.HealthCheck)
	router.GET("/ready", healthH.ReadinessCheck)
	router.GET("/live", healthH.LivenessCheck)

	// API 路由組
	api := router.Group("/api/v1")
	{
		ingredients := api.Group("/ingredients")
		{
			ingredients.GET("", ingredientH.List)
			ingredients.POST("", ingredientH.Create)
			ingredients.POST("/scan", ingredientH.Scan)
			ingredients.POST("/update", ingredientH.BatchUpdate)
			ingredients.GET("/expiring/soon", ingredientH.ExpiringSoon)
			ingredients.GET("/:id", ingredientH.Get)
			ingredients.PUT("/:id", ingredientH.Update)
			ingredients.DELETE("/:id", ingredientH.Delete)
			ingredients.POST("/:id/image", ingredientH.UploadImage)
		}

		recipes := api.Group("/recipes")
		{
			recipes.GET("", recipeH.List)
			recipes.POST("/generate", recipeH.Generate)
			recipes.POST("/cooked", recipeH.MarkCooked)
			recipes.POST("/image", recipeH.GenerateImage)
		}

		expirationGroup := api.Group("/expiration")
		{
			expirationGroup.GET("/summary", expirationH.Summary)
			expirationGroup.GET("/alerts", expirationH.Alerts)
			expirationGroup.GET("/settings", expirationH.GetSettings)
			expirationGroup.PUT("/settings", expirationH.UpdateSettings)
			expirationGroup.POST("/waste-log", expirationH.LogWaste)
			expirationGroup.GET("/waste-logs", expirationH.ListWasteLogs)
			expirationGroup.DELETE("/waste-log/:id", expirationH.DeleteWasteLog)
			expirationGroup.GET("/waste-stats", expirationH.WasteStats)
			expirationGroup.GET("/recipe-recommendations", expirationH.RecipeRecommendations)
		}

		users := api.Group("/users")
		{
			users.GET("/preferences", userH.GetPreferences)
			users.PUT("/preferences", userH.UpdatePreferences)
			users.GET("/stats", userH.Stats)
		}
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
		zap.Duration("timeout", timeoutDuration),
		zap.Int64("max_body_size", maxBodySize),
	)

	return router, nil
}
