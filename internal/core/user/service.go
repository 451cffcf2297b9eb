package user

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"smart-recipe-backend/internal/infrastructure/store"
	"smart-recipe-backend/internal/pkg/common"
)

// 單人系統使用固定的偏好文件
const (
	preferencesCollection = "user_preferences"
	preferencesDocID      = "default"
	cookingLogsCollection = "cooking_logs"
)

// Preferences 使用者偏好
type Preferences struct {
	DietaryRestrictions []string `json:"dietaryRestrictions"`
	Allergens           []string `json:"allergens"`
	CuisinePreferences  []string `json:"cuisinePreferences"`
	CookingTime         string   `json:"cookingTime"`
	SkillLevel          string   `json:"skillLevel"`
}

// DefaultPreferences 預設偏好
func DefaultPreferences() Preferences {
	return Preferences{
		DietaryRestrictions: []string{},
		Allergens:           []string{},
		CuisinePreferences:  []string{"italian", "american", "mexican"},
		CookingTime:         "any",
		SkillLevel:          "beginner",
	}
}

// PreferencesUpdate 部分更新，nil 欄位表示不變
type PreferencesUpdate struct {
	DietaryRestrictions *[]string `json:"dietaryRestrictions,omitempty"`
	Allergens           *[]string `json:"allergens,omitempty"`
	CuisinePreferences  *[]string `json:"cuisinePreferences,omitempty"`
	CookingTime         *string   `json:"cookingTime,omitempty"`
	SkillLevel          *string   `json:"skillLevel,omitempty"`
}

// CookingStats 烹飪統計
type CookingStats struct {
	TotalCooked     int      `json:"totalCooked"`
	AverageRating   float64  `json:"averageRating"`
	FavoriteRecipes []string `json:"favoriteRecipes"` // 最常烹飪的食譜名稱
	LastCooked      string   `json:"lastCooked,omitempty"`
}

// Service 使用者偏好服務
type Service struct {
	store store.DocumentStore
}

// NewService 創建使用者偏好服務
func NewService(db store.DocumentStore) *Service {
	return &Service{store: db}
}

// GetPreferences 讀取偏好，文件不存在時寫入預設值後回傳
func (s *Service) GetPreferences(ctx context.Context) (*Preferences, error) {
	doc, err := s.store.Get(ctx, preferencesCollection, preferencesDocID)
	if err != nil {
		if !common.IsNotFoundError(err) {
			return nil, err
		}

		prefs := DefaultPreferences()
		encoded, err := store.Encode(prefs)
		if err != nil {
			return nil, err
		}
		if _, err := s.store.Create(ctx, preferencesCollection, preferencesDocID, encoded); err != nil {
			return nil, err
		}
		common.LogInfo("建立預設使用者偏好")
		return &prefs, nil
	}

	// 舊文件缺漏的欄位補上預設值
	prefs := DefaultPreferences()
	if err := store.Decode(doc, &prefs); err != nil {
		return nil, err
	}
	return &prefs, nil
}

// UpdatePreferences 合併更新偏好，回傳更新後的完整偏好
func (s *Service) UpdatePreferences(ctx context.Context, update PreferencesUpdate) (*Preferences, error) {
	prefs, err := s.GetPreferences(ctx)
	if err != nil {
		return nil, err
	}

	if update.DietaryRestrictions != nil {
		prefs.DietaryRestrictions = *update.DietaryRestrictions
	}
	if update.Allergens != nil {
		prefs.Allergens = *update.Allergens
	}
	if update.CuisinePreferences != nil {
		prefs.CuisinePreferences = *update.CuisinePreferences
	}
	if update.CookingTime != nil {
		prefs.CookingTime = *update.CookingTime
	}
	if update.SkillLevel != nil {
		prefs.SkillLevel = *update.SkillLevel
	}

	encoded, err := store.Encode(prefs)
	if err != nil {
		return nil, err
	}
	if err := s.store.Update(ctx, preferencesCollection, preferencesDocID, encoded); err != nil {
		return nil, err
	}

	common.LogInfo("使用者偏好已更新",
		zap.Strings("cuisines", prefs.CuisinePreferences),
	)
	return prefs, nil
}

// cookingLogView 統計所需的烹飪記錄欄位
type cookingLogView struct {
	RecipeName string  `json:"recipeName"`
	CookedAt   string  `json:"cookedAt"`
	Rating     float64 `json:"rating"`
}

// GetCookingStats 從烹飪記錄彙整統計
func (s *Service) GetCookingStats(ctx context.Context) (*CookingStats, error) {
	docs, err := s.store.List(ctx, cookingLogsCollection)
	if err != nil {
		return nil, err
	}

	stats := &CookingStats{FavoriteRecipes: []string{}}
	counts := make(map[string]int)
	ratingSum := 0.0
	rated := 0
	lastCooked := time.Time{}

	for _, doc := range docs {
		var log cookingLogView
		if err := store.Decode(doc, &log); err != nil {
			common.LogWarn("略過無法解析的烹飪記錄", zap.Error(err))
			continue
		}

		stats.TotalCooked++
		if log.RecipeName != "" {
			counts[log.RecipeName]++
		}
		if log.Rating > 0 {
			ratingSum += log.Rating
			rated++
		}
		if t := common.ParseTimePtr(log.CookedAt); t != nil && t.After(lastCooked) {
			lastCooked = *t
			stats.LastCooked = log.CookedAt
		}
	}

	if rated > 0 {
		stats.AverageRating = ratingSum / float64(rated)
	}

	// 依烹飪次數排序，取前五名，次數相同時按名稱排序
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return names[i] < names[j]
	})
	if len(names) > 5 {
		names = names[:5]
	}
	stats.FavoriteRecipes = names

	return stats, nil
}
