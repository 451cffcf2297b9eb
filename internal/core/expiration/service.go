package expiration

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"smart-recipe-backend/internal/core/inventory"
	"smart-recipe-backend/internal/infrastructure/store"
	"smart-recipe-backend/internal/pkg/common"
)

const (
	settingsCollection  = "expiration_settings"
	settingsDocID       = "default"
	wasteLogsCollection = "waste_logs"
	recipesCollection   = "recipes"

	// alertWindowDays /alerts 端點的觀察窗
	alertWindowDays = 7
	// maxRecommendedRecipes 每項食材最多附帶的推薦食譜數
	maxRecommendedRecipes = 5
	// maxRecommendations 推薦端點最多回傳的食譜數
	maxRecommendations = 10
)

// Service 過期追蹤服務
type Service struct {
	store       store.DocumentStore
	inventory   *inventory.Service
	warningDays int
	now         func() time.Time
}

// NewService 創建過期追蹤服務
func NewService(db store.DocumentStore, inv *inventory.Service, warningDays int) *Service {
	if warningDays <= 0 {
		warningDays = DefaultSettings().WarningDays
	}
	return &Service{
		store:       db,
		inventory:   inv,
		warningDays: warningDays,
		now:         time.Now,
	}
}

// ClassifyStatus 依到期日與警戒天數分類狀態
// 回傳狀態與帶號的剩餘天數（已過期為負）；無到期日回傳 Unknown
func ClassifyStatus(expiration *time.Time, today time.Time, warningDays int) (Status, int) {
	if expiration == nil {
		return StatusUnknown, 0
	}

	days := daysBetween(today, *expiration)
	switch {
	case days < 0:
		return StatusExpired, days
	case days <= warningDays:
		return StatusExpiringSoon, days
	default:
		return StatusFresh, days
	}
}

// daysBetween 以日曆日計算 from 到 to 的天數差
func daysBetween(from, to time.Time) int {
	fy, fm, fd := from.UTC().Date()
	ty, tm, td := to.UTC().Date()
	fromDay := time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC)
	toDay := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return int(toDay.Sub(fromDay).Hours() / 24)
}

// SortAlerts 依急迫程度排序：已過期優先，組內依剩餘天數遞增
func SortAlerts(alerts []Alert) {
	sort.SliceStable(alerts, func(i, j int) bool {
		iExpired := alerts[i].Status == StatusExpired
		jExpired := alerts[j].Status == StatusExpired
		if iExpired != jExpired {
			return iExpired
		}
		return alerts[i].DaysUntilExpiration < alerts[j].DaysUntilExpiration
	})
}

// GetSummary 計算庫存過期狀態總覽
func (s *Service) GetSummary(ctx context.Context) (*Summary, error) {
	items, err := s.inventory.List(ctx)
	if err != nil {
		return nil, err
	}

	warningDays := s.effectiveWarningDays(ctx)
	today := s.now().UTC()
	summary := &Summary{
		TotalIngredients: len(items),
		Alerts:           make([]Alert, 0),
	}

	for _, item := range items {
		status, days := ClassifyStatus(item.ExpirationDate, today, warningDays)
		switch status {
		case StatusUnknown:
			summary.UnknownCount++
			continue
		case StatusFresh:
			summary.FreshCount++
			continue
		case StatusExpired:
			summary.ExpiredCount++
		case StatusExpiringSoon:
			summary.ExpiringSoonCount++
		}

		summary.Alerts = append(summary.Alerts, Alert{
			IngredientID:        item.ID,
			IngredientName:      item.Name,
			ExpirationDate:      common.FormatTimePtr(item.ExpirationDate),
			DaysUntilExpiration: days,
			Status:              status,
			Quantity:            item.Quantity,
			Unit:                item.Unit,
			Location:            item.Location,
		})
	}

	SortAlerts(summary.Alerts)
	return summary, nil
}

// recipeView 推薦比對所需的最小食譜視圖
type recipeView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Ingredients []struct {
		Name string `json:"name"`
	} `json:"ingredients"`
	PrepTimeMinutes int `json:"prep_time_minutes"`
}

// GetAlerts 列出七天內到期的食材，各附最多五個用得上的食譜
// 讀取食譜失敗時退回空推薦，不中斷警示本身
func (s *Service) GetAlerts(ctx context.Context) ([]ExpiringIngredient, error) {
	items, err := s.inventory.List(ctx)
	if err != nil {
		return nil, err
	}

	recipes := s.loadRecipes(ctx)
	today := s.now().UTC()
	alerts := make([]ExpiringIngredient, 0)

	for _, item := range items {
		if item.ExpirationDate == nil {
			continue
		}
		days := daysBetween(today, *item.ExpirationDate)
		if days > alertWindowDays {
			continue
		}

		recommended := recommendRecipesFor(item.Name, recipes)
		if len(recommended) > maxRecommendedRecipes {
			recommended = recommended[:maxRecommendedRecipes]
		}

		alerts = append(alerts, ExpiringIngredient{
			ID:                  item.ID,
			Name:                item.Name,
			ExpirationDate:      common.FormatTimePtr(item.ExpirationDate),
			DaysUntilExpiration: days,
			RecommendedRecipes:  recommended,
		})
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].DaysUntilExpiration < alerts[j].DaysUntilExpiration
	})
	return alerts, nil
}

// recommendRecipesFor 找出用到指定食材的食譜 ID
// 比對規則：雙向子字串，或食材名稱中長度超過兩字的單字出現在食譜食材中
func recommendRecipesFor(ingredientName string, recipes []recipeView) []string {
	lower := strings.ToLower(ingredientName)
	words := strings.Fields(lower)

	var ids []string
	for _, recipe := range recipes {
		found := false
		for _, ri := range recipe.Ingredients {
			riLower := strings.ToLower(ri.Name)
			if strings.Contains(riLower, lower) || strings.Contains(lower, riLower) {
				found = true
				break
			}
			for _, w := range words {
				if len(w) > 2 && strings.Contains(riLower, w) {
					found = true
					break
				}
			}
			if found {
				break
			}
		}
		if found {
			ids = append(ids, recipe.ID)
		}
	}
	return ids
}

// GetSettings 讀取設定，第一次讀取時建立預設值
func (s *Service) GetSettings(ctx context.Context) (*Settings, error) {
	doc, err := s.store.Get(ctx, settingsCollection, settingsDocID)
	if err != nil {
		if !common.IsNotFoundError(err) {
			return nil, err
		}
		settings := DefaultSettings()
		encoded, encErr := store.Encode(settings)
		if encErr != nil {
			return nil, encErr
		}
		if _, createErr := s.store.Create(ctx, settingsCollection, settingsDocID, encoded); createErr != nil {
			return nil, createErr
		}
		return &settings, nil
	}

	var settings Settings
	if err := store.Decode(doc, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

// UpdateSettings 更新設定
func (s *Service) UpdateSettings(ctx context.Context, settings Settings) (*Settings, error) {
	if settings.WarningDays < 0 {
		return nil, common.NewValidationError("warning_days must not be negative")
	}

	encoded, err := store.Encode(settings)
	if err != nil {
		return nil, err
	}

	if err := s.store.Update(ctx, settingsCollection, settingsDocID, encoded); err != nil {
		if !common.IsNotFoundError(err) {
			return nil, err
		}
		if _, err := s.store.Create(ctx, settingsCollection, settingsDocID, encoded); err != nil {
			return nil, err
		}
	}
	return &settings, nil
}

// effectiveWarningDays 優先用存儲中的設定，讀不到時退回建構時的預設
func (s *Service) effectiveWarningDays(ctx context.Context) int {
	settings, err := s.GetSettings(ctx)
	if err != nil {
		common.LogWarn("讀取過期設定失敗，使用預設警戒天數", zap.Error(err))
		return s.warningDays
	}
	if settings.WarningDays <= 0 {
		return s.warningDays
	}
	return settings.WarningDays
}

// LogWaste 新增一筆廢棄記錄
func (s *Service) LogWaste(ctx context.Context, input WasteLogInput) (*WasteLog, error) {
	if strings.TrimSpace(input.IngredientName) == "" {
		return nil, common.NewValidationError("ingredient_name is required")
	}

	entry := WasteLog{
		ID:             common.GenerateUUID(),
		IngredientName: input.IngredientName,
		Quantity:       input.Quantity,
		Unit:           input.Unit,
		ExpirationDate: input.ExpirationDate,
		WasteDate:      s.now().UTC(),
		Reason:         input.Reason,
		EstimatedCost:  input.EstimatedCost,
	}

	encoded, err := store.Encode(entry)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.Create(ctx, wasteLogsCollection, entry.ID, encoded); err != nil {
		return nil, err
	}
	return &entry, nil
}

// ListWasteLogs 列出廢棄記錄，最新的在前
func (s *Service) ListWasteLogs(ctx context.Context, limit int) ([]WasteLog, error) {
	docs, err := s.store.List(ctx, wasteLogsCollection)
	if err != nil {
		return nil, err
	}

	var logs []WasteLog
	if err := store.DecodeAll(docs, &logs); err != nil {
		return nil, err
	}

	sort.SliceStable(logs, func(i, j int) bool {
		return logs[i].WasteDate.After(logs[j].WasteDate)
	})
	if limit > 0 && len(logs) > limit {
		logs = logs[:limit]
	}
	return logs, nil
}

// DeleteWasteLog 刪除廢棄記錄
func (s *Service) DeleteWasteLog(ctx context.Context, id string) error {
	return s.store.Delete(ctx, wasteLogsCollection, id)
}

// GetWasteStats 計算廢棄統計：總量、最常廢棄、分類分布、近六個月趨勢
func (s *Service) GetWasteStats(ctx context.Context) (*WasteStats, error) {
	logs, err := s.ListWasteLogs(ctx, 0)
	if err != nil {
		return nil, err
	}

	stats := &WasteStats{
		WasteByCategory:   make(map[string]int),
		MonthlyWasteTrend: make([]MonthlyWaste, 0, 6),
	}
	if len(logs) == 0 {
		return stats, nil
	}

	stats.TotalItemsWasted = len(logs)

	counts := make(map[string]int)
	for _, log := range logs {
		stats.TotalEstimatedCost += log.EstimatedCost
		counts[log.IngredientName]++
		category := inventory.ClassifyCategory(log.IngredientName)
		stats.WasteByCategory[string(category)]++
	}

	best := 0
	for name, n := range counts {
		if n > best || (n == best && name < stats.MostWastedIngredient) {
			best = n
			stats.MostWastedIngredient = name
		}
	}

	// 近六個月趨勢，本月在前
	now := s.now().UTC()
	for i := 0; i < 6; i++ {
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -i, 0)
		monthEnd := monthStart.AddDate(0, 1, 0)

		entry := MonthlyWaste{Month: monthStart.Format("2006-01")}
		for _, log := range logs {
			if !log.WasteDate.Before(monthStart) && log.WasteDate.Before(monthEnd) {
				entry.ItemsWasted++
				entry.EstimatedCost += log.EstimatedCost
			}
		}
		stats.MonthlyWasteTrend = append(stats.MonthlyWasteTrend, entry)
	}

	return stats, nil
}

// GetRecommendations 依即將過期的食材推薦食譜，急迫分數高者在前
func (s *Service) GetRecommendations(ctx context.Context) ([]Recommendation, error) {
	summary, err := s.GetSummary(ctx)
	if err != nil {
		return nil, err
	}

	var expiring []string
	for _, alert := range summary.Alerts {
		if alert.Status == StatusExpiringSoon {
			expiring = append(expiring, strings.ToLower(alert.IngredientName))
		}
	}
	if len(expiring) == 0 {
		return []Recommendation{}, nil
	}

	recipes := s.loadRecipes(ctx)
	recommendations := make([]Recommendation, 0)

	for _, recipe := range recipes {
		var used []string
		for _, ing := range expiring {
			for _, ri := range recipe.Ingredients {
				if strings.Contains(strings.ToLower(ri.Name), ing) {
					used = append(used, ing)
					break
				}
			}
		}
		if len(used) == 0 {
			continue
		}

		recommendations = append(recommendations, Recommendation{
			RecipeID:                recipe.ID,
			RecipeName:              recipe.Name,
			ExpiringIngredientsUsed: used,
			UrgencyScore:            float64(len(used)) / float64(len(expiring)),
			PrepTimeMinutes:         recipe.PrepTimeMinutes,
		})
	}

	sort.SliceStable(recommendations, func(i, j int) bool {
		return recommendations[i].UrgencyScore > recommendations[j].UrgencyScore
	})
	if len(recommendations) > maxRecommendations {
		recommendations = recommendations[:maxRecommendations]
	}
	return recommendations, nil
}

// loadRecipes 讀取食譜集合，失敗時回傳空集合
func (s *Service) loadRecipes(ctx context.Context) []recipeView {
	docs, err := s.store.List(ctx, recipesCollection)
	if err != nil {
		common.LogWarn("讀取食譜集合失敗，推薦清單退回空集合", zap.Error(err))
		return nil
	}

	var recipes []recipeView
	if err := store.DecodeAll(docs, &recipes); err != nil {
		common.LogWarn("解析食譜集合失敗", zap.Error(err))
		return nil
	}
	return recipes
}
