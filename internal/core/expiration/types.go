package expiration

import "time"

// Status 食材過期狀態
type Status string

const (
	StatusFresh        Status = "fresh"
	StatusExpiringSoon Status = "expiring_soon"
	StatusExpired      Status = "expired"
	StatusUnknown      Status = "unknown"
)

// Alert 到期警示，從庫存即時推導，不落地
type Alert struct {
	IngredientID        string  `json:"ingredient_id"`
	IngredientName      string  `json:"ingredient_name"`
	ExpirationDate      string  `json:"expiration_date"` // RFC3339 UTC
	DaysUntilExpiration int     `json:"days_until_expiration"`
	Status              Status  `json:"status"`
	Quantity            float64 `json:"quantity"`
	Unit                string  `json:"unit"`
	Location            string  `json:"location,omitempty"`
}

// Summary 庫存過期狀態總覽
type Summary struct {
	TotalIngredients  int     `json:"total_ingredients"`
	FreshCount        int     `json:"fresh_count"`
	ExpiringSoonCount int     `json:"expiring_soon_count"`
	ExpiredCount      int     `json:"expired_count"`
	UnknownCount      int     `json:"unknown_count"`
	Alerts            []Alert `json:"alerts"`
}

// Settings 過期管理設定，存成單一文件
type Settings struct {
	WarningDays         int  `json:"warning_days"`
	EnableNotifications bool `json:"enable_notifications"`
	AutoSuggestRecipes  bool `json:"auto_suggest_recipes"`
}

// DefaultSettings 預設設定
func DefaultSettings() Settings {
	return Settings{
		WarningDays:         3,
		EnableNotifications: true,
		AutoSuggestRecipes:  true,
	}
}

// WasteLog 一筆廢棄記錄
type WasteLog struct {
	ID             string     `json:"id"`
	IngredientName string     `json:"ingredient_name"`
	Quantity       float64    `json:"quantity"`
	Unit           string     `json:"unit"`
	ExpirationDate *time.Time `json:"expiration_date,omitempty"`
	WasteDate      time.Time  `json:"waste_date"`
	Reason         string     `json:"reason,omitempty"`
	EstimatedCost  float64    `json:"estimated_cost,omitempty"`
}

// WasteLogInput 新增廢棄記錄的輸入
type WasteLogInput struct {
	IngredientName string     `json:"ingredient_name" binding:"required"`
	Quantity       float64    `json:"quantity"`
	Unit           string     `json:"unit"`
	ExpirationDate *time.Time `json:"expiration_date,omitempty"`
	Reason         string     `json:"reason,omitempty"`
	EstimatedCost  float64    `json:"estimated_cost,omitempty"`
}

// MonthlyWaste 單月廢棄統計
type MonthlyWaste struct {
	Month         string  `json:"month"` // YYYY-MM
	ItemsWasted   int     `json:"items_wasted"`
	EstimatedCost float64 `json:"estimated_cost"`
}

// WasteStats 廢棄統計總覽
type WasteStats struct {
	TotalItemsWasted     int            `json:"total_items_wasted"`
	TotalEstimatedCost   float64        `json:"total_estimated_cost"`
	MostWastedIngredient string         `json:"most_wasted_ingredient,omitempty"`
	WasteByCategory      map[string]int `json:"waste_by_category"`
	MonthlyWasteTrend    []MonthlyWaste `json:"monthly_waste_trend"`
}

// ExpiringIngredient /alerts 端點的單項結果，附食譜推薦
type ExpiringIngredient struct {
	ID                  string   `json:"id"`
	Name                string   `json:"name"`
	ExpirationDate      string   `json:"expirationDate"` // RFC3339 UTC
	DaysUntilExpiration int      `json:"daysUntilExpiration"`
	RecommendedRecipes  []string `json:"recommendedRecipes"`
}

// Recommendation 針對即將過期食材的食譜推薦
type Recommendation struct {
	RecipeID                string   `json:"recipe_id"`
	RecipeName              string   `json:"recipe_name"`
	ExpiringIngredientsUsed []string `json:"expiring_ingredients_used"`
	UrgencyScore            float64  `json:"urgency_score"`
	PrepTimeMinutes         int      `json:"prep_time_minutes,omitempty"`
}
