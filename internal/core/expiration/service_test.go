package expiration

import (
	"context"
	"testing"
	"time"

	"smart-recipe-backend/internal/core/inventory"
	"smart-recipe-backend/internal/infrastructure/store"
)

func TestClassifyStatusBoundaries(t *testing.T) {
	today := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	day := func(offset int) *time.Time {
		d := today.AddDate(0, 0, offset)
		return &d
	}

	tests := []struct {
		name       string
		expiration *time.Time
		wantStatus Status
		wantDays   int
	}{
		{"one day past is expired", day(-1), StatusExpired, -1},
		{"today is expiring soon", day(0), StatusExpiringSoon, 0},
		{"at threshold is expiring soon", day(3), StatusExpiringSoon, 3},
		{"past threshold is fresh", day(4), StatusFresh, 4},
		{"no date is unknown", nil, StatusUnknown, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, days := ClassifyStatus(tt.expiration, today, 3)
			if status != tt.wantStatus {
				t.Errorf("status = %v, want %v", status, tt.wantStatus)
			}
			if days != tt.wantDays {
				t.Errorf("days = %v, want %v", days, tt.wantDays)
			}
		})
	}
}

func TestSortAlerts(t *testing.T) {
	alerts := []Alert{
		{IngredientName: "a", Status: StatusExpired, DaysUntilExpiration: -5},
		{IngredientName: "b", Status: StatusExpiringSoon, DaysUntilExpiration: 2},
		{IngredientName: "c", Status: StatusExpired, DaysUntilExpiration: -1},
		{IngredientName: "d", Status: StatusExpiringSoon, DaysUntilExpiration: 0},
	}

	SortAlerts(alerts)

	wantOrder := []string{"a", "c", "d", "b"}
	for i, want := range wantOrder {
		if alerts[i].IngredientName != want {
			t.Errorf("position %d = %s, want %s", i, alerts[i].IngredientName, want)
		}
	}
}

func newTestService(t *testing.T) (*Service, *inventory.Service, *store.MemoryStore) {
	t.Helper()
	db := store.NewMemoryStore()
	inv := inventory.NewService(db)
	return NewService(db, inv, 3), inv, db
}

func TestGetSummary(t *testing.T) {
	ctx := context.Background()
	svc, inv, _ := newTestService(t)

	day := func(offset int) *time.Time {
		d := time.Now().UTC().AddDate(0, 0, offset).Add(12 * time.Hour)
		return &d
	}
	inv.Create(ctx, inventory.ItemInput{Name: "Old Milk", Quantity: 1, Unit: "cartons", ExpirationDate: day(-2)})
	inv.Create(ctx, inventory.ItemInput{Name: "Spinach", Quantity: 1, Unit: "containers", ExpirationDate: day(1)})
	inv.Create(ctx, inventory.ItemInput{Name: "Frozen Peas", Quantity: 1, Unit: "containers", ExpirationDate: day(20)})
	inv.Create(ctx, inventory.ItemInput{Name: "Salt", Quantity: 1, Unit: "containers"})

	summary, err := svc.GetSummary(ctx)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}

	if summary.TotalIngredients != 4 {
		t.Errorf("total = %d, want 4", summary.TotalIngredients)
	}
	if summary.ExpiredCount != 1 || summary.ExpiringSoonCount != 1 || summary.FreshCount != 1 || summary.UnknownCount != 1 {
		t.Errorf("counts = expired %d soon %d fresh %d unknown %d, want 1 each",
			summary.ExpiredCount, summary.ExpiringSoonCount, summary.FreshCount, summary.UnknownCount)
	}
	if len(summary.Alerts) != 2 {
		t.Fatalf("alerts = %d, want 2 (expired + expiring soon only)", len(summary.Alerts))
	}
	if summary.Alerts[0].IngredientName != "Old Milk" {
		t.Errorf("first alert = %s, expired should sort first", summary.Alerts[0].IngredientName)
	}
}

func TestGetAlertsRecommendsRecipes(t *testing.T) {
	ctx := context.Background()
	svc, inv, db := newTestService(t)

	soon := time.Now().UTC().AddDate(0, 0, 2)
	inv.Create(ctx, inventory.ItemInput{Name: "Chicken Breast", Quantity: 2, Unit: "lbs", ExpirationDate: &soon})

	db.Create(ctx, "recipes", "r1", store.Document{
		"name": "Roast Chicken",
		"ingredients": []interface{}{
			map[string]interface{}{"name": "chicken"},
		},
	})
	db.Create(ctx, "recipes", "r2", store.Document{
		"name": "Fruit Salad",
		"ingredients": []interface{}{
			map[string]interface{}{"name": "apple"},
		},
	})

	alerts, err := svc.GetAlerts(ctx)
	if err != nil {
		t.Fatalf("alerts: %v", err)
	}
	if len(alerts) != 1 {
		t.Fatalf("got %d alerts, want 1", len(alerts))
	}
	if len(alerts[0].RecommendedRecipes) != 1 || alerts[0].RecommendedRecipes[0] != "r1" {
		t.Errorf("recommended = %v, want [r1]", alerts[0].RecommendedRecipes)
	}
	if alerts[0].ExpirationDate == "" {
		t.Error("expected RFC3339 expiration string")
	}
}

func TestSettingsCreatedOnFirstRead(t *testing.T) {
	ctx := context.Background()
	svc, _, db := newTestService(t)

	settings, err := svc.GetSettings(ctx)
	if err != nil {
		t.Fatalf("get settings: %v", err)
	}
	if settings.WarningDays != 3 || !settings.EnableNotifications {
		t.Errorf("settings = %+v, want defaults", settings)
	}

	if _, err := db.Get(ctx, "expiration_settings", "default"); err != nil {
		t.Errorf("default settings not persisted: %v", err)
	}

	updated, err := svc.UpdateSettings(ctx, Settings{WarningDays: 5, EnableNotifications: false})
	if err != nil {
		t.Fatalf("update settings: %v", err)
	}
	if updated.WarningDays != 5 {
		t.Errorf("warning days = %d, want 5", updated.WarningDays)
	}

	again, _ := svc.GetSettings(ctx)
	if again.WarningDays != 5 {
		t.Errorf("persisted warning days = %d, want 5", again.WarningDays)
	}
}

func TestWasteLogsAndStats(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	if _, err := svc.LogWaste(ctx, WasteLogInput{IngredientName: "Milk", Quantity: 1, Unit: "cartons", EstimatedCost: 3.5}); err != nil {
		t.Fatalf("log waste: %v", err)
	}
	svc.LogWaste(ctx, WasteLogInput{IngredientName: "Milk", Quantity: 1, Unit: "cartons", EstimatedCost: 3.5})
	svc.LogWaste(ctx, WasteLogInput{IngredientName: "Spinach", Quantity: 1, Unit: "containers", EstimatedCost: 2.0})

	if _, err := svc.LogWaste(ctx, WasteLogInput{IngredientName: " "}); err == nil {
		t.Error("expected validation error for blank name")
	}

	logs, err := svc.ListWasteLogs(ctx, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(logs) != 2 {
		t.Errorf("got %d logs with limit 2, want 2", len(logs))
	}

	stats, err := svc.GetWasteStats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalItemsWasted != 3 {
		t.Errorf("total wasted = %d, want 3", stats.TotalItemsWasted)
	}
	if stats.TotalEstimatedCost != 9.0 {
		t.Errorf("total cost = %v, want 9.0", stats.TotalEstimatedCost)
	}
	if stats.MostWastedIngredient != "Milk" {
		t.Errorf("most wasted = %s, want Milk", stats.MostWastedIngredient)
	}
	if stats.WasteByCategory["Dairy"] != 2 || stats.WasteByCategory["Produce"] != 1 {
		t.Errorf("by category = %v, want Dairy:2 Produce:1", stats.WasteByCategory)
	}
	if len(stats.MonthlyWasteTrend) != 6 {
		t.Errorf("trend months = %d, want 6", len(stats.MonthlyWasteTrend))
	}
	if stats.MonthlyWasteTrend[0].ItemsWasted != 3 {
		t.Errorf("current month wasted = %d, want 3", stats.MonthlyWasteTrend[0].ItemsWasted)
	}
}

func TestGetRecommendations(t *testing.T) {
	ctx := context.Background()
	svc, inv, db := newTestService(t)

	soon := time.Now().UTC().AddDate(0, 0, 1).Add(12 * time.Hour)
	inv.Create(ctx, inventory.ItemInput{Name: "tomato", Quantity: 3, Unit: "pieces", ExpirationDate: &soon})
	inv.Create(ctx, inventory.ItemInput{Name: "basil", Quantity: 1, Unit: "pieces", ExpirationDate: &soon})

	db.Create(ctx, "recipes", "r1", store.Document{
		"name": "Tomato Basil Pasta",
		"ingredients": []interface{}{
			map[string]interface{}{"name": "Tomato"},
			map[string]interface{}{"name": "Basil"},
		},
	})
	db.Create(ctx, "recipes", "r2", store.Document{
		"name": "Tomato Soup",
		"ingredients": []interface{}{
			map[string]interface{}{"name": "Tomato"},
		},
	})

	recs, err := svc.GetRecommendations(ctx)
	if err != nil {
		t.Fatalf("recommendations: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d recommendations, want 2", len(recs))
	}
	if recs[0].RecipeID != "r1" {
		t.Errorf("first = %s, recipe using both expiring ingredients should rank first", recs[0].RecipeID)
	}
	if recs[0].UrgencyScore != 1.0 {
		t.Errorf("urgency = %v, want 1.0", recs[0].UrgencyScore)
	}
}
