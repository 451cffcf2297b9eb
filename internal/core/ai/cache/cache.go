package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"smart-recipe-backend/internal/infrastructure/config"
	"smart-recipe-backend/internal/pkg/common"
)

// Store AI 響應緩存介面，prompt 與圖片資料共同組成緩存鍵
type Store interface {
	Get(ctx context.Context, prompt, imageData string) (string, error)
	Set(ctx context.Context, prompt, imageData, value string) error
	Close() error
}

// New 依設定選擇緩存後端，停用時回傳 nil
func New(cfg *config.CacheConfig) (Store, error) {
	if !cfg.Enabled {
		common.LogInfo("緩存已停用")
		return nil, nil
	}

	switch cfg.Backend {
	case "redis":
		return NewRedisStore(cfg)
	case "memory":
		return NewMemoryStore(cfg), nil
	default:
		return nil, fmt.Errorf("unknown cache backend: %s", cfg.Backend)
	}
}

// cacheKey 生成緩存鍵，圖片請求帶上圖片哈希
func cacheKey(prompt, imageData string) string {
	if imageData == "" {
		return fmt.Sprintf("text:%s", hashString(prompt))
	}
	return fmt.Sprintf("multimodal:%s:%s", hashString(prompt), hashString(imageData))
}

// hashString 計算字符串的 SHA-256 哈希值
func hashString(s string) string {
	hash := sha256.Sum256([]byte(s))
	return hex.EncodeToString(hash[:])
}
