package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"smart-recipe-backend/internal/api"
	"smart-recipe-backend/internal/core/ai/cache"
	"smart-recipe-backend/internal/core/ai/recipegen"
	"smart-recipe-backend/internal/core/ai/vision"
	"smart-recipe-backend/internal/infrastructure/config"
	"smart-recipe-backend/internal/infrastructure/objectstore"
	"smart-recipe-backend/internal/infrastructure/store"
	"smart-recipe-backend/internal/pkg/common"

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
	if err := common.InitLogger(cfg.LogLevel); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	common.LogInfo("載入設定",
		zap.String("vision_model", cfg.Groq.Model),
		zap.String("recipe_model", cfg.Gemini.Model),
		zap.String("firestore_project", cfg.Firestore.ProjectID),
	)

	ctx := context.Background()

	// 選擇文件存儲：有 Firestore 專案就用 Firestore，否則退回記憶體存儲
	var db store.DocumentStore
	if cfg.Firestore.ProjectID != "" {
		firestoreStore, err := store.NewFirestoreStore(ctx, cfg.Firestore.ProjectID, cfg.Firestore.CredentialsFile)
		if err != nil {
			common.LogFatal("Failed to connect to Firestore", zap.Error(err))
		}
		db = firestoreStore
	} else {
		common.LogWarn("Firestore 未設定，使用記憶體存儲（資料不會保存）")
		db = store.NewMemoryStore()
	}
	defer db.Close()

	// 初始化快取
	cacheStore, err := cache.New(&cfg.Cache)
	if err != nil {
		common.LogFatal("Failed to initialize cache", zap.Error(err))
	}
	if cacheStore != nil {
		defer cacheStore.Close()
	}

	// 物件儲存，未設定 bucket 時停用圖片上傳
	var uploader objectstore.Uploader
	if cfg.Storage.Bucket != "" {
		s3Uploader, err := objectstore.NewS3Uploader(ctx, cfg.Storage.Bucket, cfg.Storage.Region, cfg.Storage.PublicURL)
		if err != nil {
			common.LogFatal("Failed to initialize object storage", zap.Error(err))
		}
		uploader = s3Uploader
	} else {
		common.LogWarn("物件儲存未設定，圖片上傳端點停用")
	}

	// AI 客戶端
	recognizer := vision.NewGroqClient(&cfg.Groq)
	generator := recipegen.NewGeminiClient(&cfg.Gemini)

	// 設置路由
	router, err := api.SetupRouter(cfg, api.Dependencies{
		Store:      db,
		Cache:      cacheStore,
		Uploader:   uploader,
		Recognizer: recognizer,
		Generator:  generator,
	})
	if err != nil {
		common.LogError("Failed to setup router", zap.Error(err))
		os.Exit(1)
	}

	// 設置 HTTP 服務器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// 啟動服務器
	go func() {
		common.LogInfo("啟動應用",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Bool("debug", cfg.App.Debug),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			common.LogError("Failed to start server",
				zap.Error(err),
			)
			os.Exit(1)
		}
	}()

	// 等待中斷信號
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo("Shutting down server...")

	// 設置關閉超時
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		common.LogError("Server forced to shutdown",
			zap.Error(err),
		)
		os.Exit(1)
	}

	common.LogInfo("Server exited")
}
