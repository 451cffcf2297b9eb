package cache

import (
	"context"
	"sync"
	"time"

	"smart-recipe-backend/internal/infrastructure/config"
	"smart-recipe-backend/internal/pkg/common"

	"go.uber.org/zap"
)

// MemoryStore 行程內緩存，帶 TTL 與 LRU 淘汰
type MemoryStore struct {
	cfg     *config.CacheConfig
	mu      sync.Mutex
	entries map[string]memoryEntry
	stats   cacheStats
	done    chan struct{}
}

// memoryEntry 緩存條目
type memoryEntry struct {
	value       string
	expiresAt   time.Time
	lastAccess  time.Time
	accessCount int
}

// cacheStats 緩存統計
type cacheStats struct {
	hits      int64
	misses    int64
	evictions int64
}

// NewMemoryStore 創建記憶體緩存
func NewMemoryStore(cfg *config.CacheConfig) *MemoryStore {
	s := &MemoryStore{
		cfg:     cfg,
		entries: make(map[string]memoryEntry),
		done:    make(chan struct{}),
	}

	// 啟動清理過期緩存的協程
	go s.startCleanup()

	common.LogInfo("記憶體緩存已初始化",
		zap.Int("最大容量", cfg.MaxSize),
		zap.Duration("存活時間", cfg.TTL),
		zap.Duration("清理間隔", cfg.CleanupInterval),
	)

	return s
}

// Get 獲取緩存值
func (s *MemoryStore) Get(ctx context.Context, prompt, imageData string) (string, error) {
	key := cacheKey(prompt, imageData)

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, exists := s.entries[key]
	if !exists {
		s.stats.misses++
		common.LogCacheMiss("memory", key)
		return "", common.ErrCacheMiss
	}

	if time.Now().After(entry.expiresAt) {
		delete(s.entries, key)
		s.stats.evictions++
		s.stats.misses++
		common.LogCacheMiss("memory", key)
		return "", common.ErrCacheMiss
	}

	entry.lastAccess = time.Now()
	entry.accessCount++
	s.entries[key] = entry
	s.stats.hits++

	common.LogCacheHit("memory", key)
	return entry.value, nil
}

// Set 設置緩存值
func (s *MemoryStore) Set(ctx context.Context, prompt, imageData, value string) error {
	key := cacheKey(prompt, imageData)

	s.mu.Lock()
	defer s.mu.Unlock()

	// 容量已滿時先清過期項目，仍滿則執行 LRU 淘汰
	if len(s.entries) >= s.cfg.MaxSize {
		s.cleanupLocked()
		for len(s.entries) >= s.cfg.MaxSize {
			if !s.evictLRULocked() {
				return common.ErrCacheFull
			}
		}
	}

	now := time.Now()
	s.entries[key] = memoryEntry{
		value:      value,
		expiresAt:  now.Add(s.cfg.TTL),
		lastAccess: now,
	}

	return nil
}

// startCleanup 週期性清理過期緩存
func (s *MemoryStore) startCleanup() {
	ticker := time.NewTicker(s.cfg.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.mu.Lock()
			s.cleanupLocked()
			s.mu.Unlock()
		case <-s.done:
			return
		}
	}
}

// cleanupLocked 清理過期條目，呼叫方需持有鎖
func (s *MemoryStore) cleanupLocked() int {
	now := time.Now()
	count := 0

	for key, entry := range s.entries {
		if now.After(entry.expiresAt) {
			delete(s.entries, key)
			count++
			s.stats.evictions++
		}
	}

	if count > 0 {
		common.LogDebug("清理過期緩存",
			zap.Int("count", count),
			zap.Int("remaining_size", len(s.entries)),
		)
	}

	return count
}

// evictLRULocked 淘汰最少使用的條目，呼叫方需持有鎖
func (s *MemoryStore) evictLRULocked() bool {
	var oldestKey string
	var oldestAccess time.Time
	var lowestCount int

	for key, entry := range s.entries {
		if oldestKey == "" ||
			entry.accessCount < lowestCount ||
			(entry.accessCount == lowestCount && entry.lastAccess.Before(oldestAccess)) {
			oldestKey = key
			oldestAccess = entry.lastAccess
			lowestCount = entry.accessCount
		}
	}

	if oldestKey == "" {
		return false
	}

	delete(s.entries, oldestKey)
	s.stats.evictions++
	common.LogDebug("快取已淘汰(LRU)", zap.String("鍵", oldestKey))
	return true
}

// Stats 獲取緩存統計信息
func (s *MemoryStore) Stats() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := s.stats.hits + s.stats.misses
	hitRatio := 0.0
	if total > 0 {
		hitRatio = float64(s.stats.hits) / float64(total)
	}

	return map[string]interface{}{
		"size":      len(s.entries),
		"max_size":  s.cfg.MaxSize,
		"hits":      s.stats.hits,
		"misses":    s.stats.misses,
		"evictions": s.stats.evictions,
		"hit_ratio": hitRatio,
	}
}

// Close 關閉緩存並清空內容
func (s *MemoryStore) Close() error {
	close(s.done)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[string]memoryEntry)
	common.LogInfo("記憶體緩存已關閉",
		zap.Int64("命中次數", s.stats.hits),
		zap.Int64("未命中次數", s.stats.misses),
		zap.Int64("淘汰次數", s.stats.evictions),
	)
	return nil
}
