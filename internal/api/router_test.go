package api

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"smart-recipe-backend/internal/core/ai/recipegen"
	"smart-recipe-backend/internal/core/inventory"
	"smart-recipe-backend/internal/infrastructure/config"
	"smart-recipe-backend/internal/infrastructure/store"

	"github.com/gin-gonic/gin"
)

// stubRecognizer 回傳固定的辨識結果
type stubRecognizer struct {
	ingredients []inventory.RecognizedIngredient
	err         error
}

func (s *stubRecognizer) RecognizeIngredients(ctx context.Context, imageDataURL string) ([]inventory.RecognizedIngredient, error) {
	return s.ingredients, s.err
}

// stubGenerator 回傳固定的食譜草稿
type stubGenerator struct{}

func (s *stubGenerator) GenerateRecipe(ctx context.Context, req recipegen.GenerateRequest) (*recipegen.RecipeDraft, error) {
	return &recipegen.RecipeDraft{
		Name:         fmt.Sprintf("%s Dish", req.Cuisine),
		Ingredients:  []recipegen.DraftIngredient{{Name: "Tomato", Amount: "1", Unit: "pieces"}},
		Instructions: []string{"cook"},
		PrepTime:     "10 minutes",
		CookTime:     "20 minutes",
		Servings:     2,
		Difficulty:   "Easy",
		Cuisine:      req.Cuisine,
	}, nil
}

func (s *stubGenerator) GenerateRecipeImage(ctx context.Context, recipeName string) string {
	return ""
}

func testRouterConfig() *config.Config {
	return &config.Config{
		App:        config.AppConfig{Env: "test", Version: "test"},
		Expiration: config.ExpirationConfig{WarningDays: 3},
		Image:      config.ImageConfig{MaxSizeBytes: 10 << 20, MinWidth: 100, MinHeight: 100},
	}
}

func newTestRouter(t *testing.T, recognizer *stubRecognizer) (*gin.Engine, store.DocumentStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := store.NewMemoryStore()
	router, err := SetupRouter(testRouterConfig(), Dependencies{
		Store:      db,
		Recognizer: recognizer,
		Generator:  &stubGenerator{},
	})
	if err != nil {
		t.Fatalf("SetupRouter returned error: %v", err)
	}
	return router, db
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Buffer
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewBuffer(encoded)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoints(t *testing.T) {
	router, _ := newTestRouter(t, &stubRecognizer{})

	for _, path := range []string{"/health", "/ready", "/live"} {
		w := doJSON(t, router, http.MethodGet, path, nil)
		if w.Code != http.StatusOK {
			t.Errorf("%s returned %d", path, w.Code)
		}
	}
}

func TestIngredientCRUD(t *testing.T) {
	router, _ := newTestRouter(t, &stubRecognizer{})

	w := doJSON(t, router, http.MethodPost, "/api/v1/ingredients", map[string]interface{}{
		"name":     "Tomato",
		"quantity": 3,
		"unit":     "pieces",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create returned %d: %s", w.Code, w.Body.String())
	}

	var created inventory.ItemView
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to parse create response: %v", err)
	}
	if created.Category != inventory.CategoryProduce {
		t.Errorf("expected auto-classified Produce, got %q", created.Category)
	}
	if created.Quantity.Amount != 3 || created.Quantity.Unit != "pieces" {
		t.Errorf("unexpected structured quantity: %+v", created.Quantity)
	}

	w = doJSON(t, router, http.MethodGet, "/api/v1/ingredients/"+created.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get returned %d", w.Code)
	}

	w = doJSON(t, router, http.MethodGet, "/api/v1/ingredients/missing-id", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown id, got %d", w.Code)
	}

	w = doJSON(t, router, http.MethodPut, "/api/v1/ingredients/"+created.ID, map[string]interface{}{
		"quantity": 5,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("update returned %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodDelete, "/api/v1/ingredients/"+created.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete returned %d", w.Code)
	}
}

// testImageBase64 生成一張符合尺寸下限的 PNG
func testImageBase64(t *testing.T, width, height int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 60, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestScanEndpoint(t *testing.T) {
	recognizer := &stubRecognizer{
		ingredients: []inventory.RecognizedIngredient{
			{Name: "Tomato", Quantity: "3 pieces", EstimatedExpiration: "5 days", Confidence: 0.9},
		},
	}
	router, _ := newTestRouter(t, recognizer)

	w := doJSON(t, router, http.MethodPost, "/api/v1/ingredients/scan", map[string]interface{}{
		"image": testImageBase64(t, 120, 120),
	})
	if w.Code != http.StatusOK {
		t.Fatalf("scan returned %d: %s", w.Code, w.Body.String())
	}

	var result inventory.ScanResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse scan response: %v", err)
	}
	if len(result.Ingredients) != 1 || result.Ingredients[0].Name != "Tomato" {
		t.Errorf("unexpected scan ingredients: %+v", result.Ingredients)
	}
	if len(result.Outcomes) != 1 || result.Outcomes[0].Action != inventory.ScanActionCreated {
		t.Errorf("unexpected scan outcomes: %+v", result.Outcomes)
	}

	t.Run("undersized image is rejected", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/v1/ingredients/scan", map[string]interface{}{
			"image": testImageBase64(t, 50, 50),
		})
		if w.Code != http.StatusBadRequest {
			t.Errorf("expected 400 for small image, got %d", w.Code)
		}
	})
}

func TestRecipeGenerateAndList(t *testing.T) {
	router, _ := newTestRouter(t, &stubRecognizer{})

	w := doJSON(t, router, http.MethodPost, "/api/v1/ingredients", map[string]interface{}{
		"name":     "Tomato",
		"quantity": 3,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("seed ingredient returned %d", w.Code)
	}

	w = doJSON(t, router, http.MethodPost, "/api/v1/recipes/generate", map[string]interface{}{
		"preferenceOverrides": map[string]interface{}{
			"cuisinePreferences": []string{"Thai"},
			"cookingTime":        "under30",
		},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("generate returned %d: %s", w.Code, w.Body.String())
	}

	var generated struct {
		Recipes []map[string]interface{} `json:"recipes"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &generated); err != nil {
		t.Fatalf("failed to parse generate response: %v", err)
	}
	if len(generated.Recipes) != 1 {
		t.Fatalf("expected 1 recipe, got %d", len(generated.Recipes))
	}
	if generated.Recipes[0]["cuisine"] != "Thai" {
		t.Errorf("unexpected cuisine: %v", generated.Recipes[0]["cuisine"])
	}

	w = doJSON(t, router, http.MethodGet, "/api/v1/recipes?status=all&sort=recent", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list returned %d", w.Code)
	}
}

func TestExpirationEndpoints(t *testing.T) {
	router, _ := newTestRouter(t, &stubRecognizer{})

	expiring := time.Now().UTC().Add(24 * time.Hour).Format(time.RFC3339)
	w := doJSON(t, router, http.MethodPost, "/api/v1/ingredients", map[string]interface{}{
		"name":            "Milk",
		"quantity":        1,
		"unit":            "liters",
		"expiration_date": expiring,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("seed ingredient returned %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodGet, "/api/v1/expiration/summary", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("summary returned %d", w.Code)
	}
	var summary struct {
		ExpiringSoonCount int `json:"expiring_soon_count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &summary); err != nil {
		t.Fatalf("failed to parse summary: %v", err)
	}
	if summary.ExpiringSoonCount != 1 {
		t.Errorf("expected 1 expiring soon, got %d", summary.ExpiringSoonCount)
	}

	w = doJSON(t, router, http.MethodGet, "/api/v1/expiration/settings", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("settings returned %d", w.Code)
	}

	w = doJSON(t, router, http.MethodGet, "/api/v1/ingredients/expiring/soon?days=2", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expiring soon returned %d", w.Code)
	}
}

func TestUserPreferenceEndpoints(t *testing.T) {
	router, _ := newTestRouter(t, &stubRecognizer{})

	w := doJSON(t, router, http.MethodGet, "/api/v1/users/preferences", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get preferences returned %d", w.Code)
	}

	w = doJSON(t, router, http.MethodPut, "/api/v1/users/preferences", map[string]interface{}{
		"skillLevel": "advanced",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("update preferences returned %d: %s", w.Code, w.Body.String())
	}

	var updated struct {
		Preferences struct {
			SkillLevel string `json:"skillLevel"`
		} `json:"preferences"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &updated); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if updated.Preferences.SkillLevel != "advanced" {
		t.Errorf("skill level not updated: %q", updated.Preferences.SkillLevel)
	}

	w = doJSON(t, router, http.MethodGet, "/api/v1/users/stats", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("stats returned %d", w.Code)
	}
}
