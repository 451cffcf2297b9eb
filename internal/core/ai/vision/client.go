package vision

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"smart-recipe-backend/internal/core/inventory"
	"smart-recipe-backend/internal/infrastructure/config"
	"smart-recipe-backend/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// groqBaseURL Groq OpenAI 相容 API 端點
const groqBaseURL = "https://api.groq.com/openai/v1"

// ingredientPrompt 食材辨識提示詞
const ingredientPrompt = `Analyze this image and identify all food ingredients visible. For each ingredient, estimate the quantity and how long it will stay fresh.

Return ONLY a JSON array in this exact format, with no other text:
[
  {
    "name": "ingredient name",
    "quantity": "estimated quantity with unit (e.g. 3 pieces, 500 grams)",
    "estimatedExpiration": "estimated shelf life (e.g. 5 days, 2 weeks, 1 month)",
    "confidence": 0.95
  }
]

Rules:
- name: common English name of the ingredient
- quantity: a number followed by a unit
- estimatedExpiration: a duration, or "never" for non-perishable items
- confidence: your confidence from 0.0 to 1.0
- If no food is visible, return an empty array []`

// Recognizer 食材辨識介面
type Recognizer interface {
	RecognizeIngredients(ctx context.Context, imageDataURL string) ([]inventory.RecognizedIngredient, error)
}

// GroqClient Groq 視覺模型客戶端
type GroqClient struct {
	client    *resty.Client
	model     string
	maxTokens int
}

// NewGroqClient 創建 Groq 視覺客戶端
func NewGroqClient(cfg *config.GroqConfig) *GroqClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	client := resty.New().
		SetBaseURL(groqBaseURL).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.APIKey)).
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)

	return &GroqClient{
		client:    client,
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
	}
}

// RecognizeIngredients 辨識圖片中的食材
func (c *GroqClient) RecognizeIngredients(ctx context.Context, imageDataURL string) ([]inventory.RecognizedIngredient, error) {
	if imageDataURL == "" {
		return nil, common.NewValidationError("image data is required")
	}

	// 構建多模態消息
	messages := []common.Message{
		{
			Role: "user",
			Content: []common.Content{
				{Type: "text", Text: ingredientPrompt},
				{Type: "image_url", ImageURL: &common.ImageURL{URL: imageDataURL}},
			},
		},
	}

	req := map[string]interface{}{
		"model":       c.model,
		"messages":    messages,
		"max_tokens":  c.maxTokens,
		"temperature": 0.1,
	}

	common.LogDebug("發送食材辨識請求",
		zap.String("model", c.model),
	)

	start := time.Now()
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(req).
		Post("/chat/completions")
	common.LogAICall(ingredientPrompt, time.Since(start), err, "")
	if err != nil {
		return nil, fmt.Errorf("vision request failed: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		common.LogError("食材辨識 API 錯誤",
			zap.Int("status", resp.StatusCode()),
			zap.String("body", string(resp.Body())),
		)
		return nil, fmt.Errorf("vision API returned status %d", resp.StatusCode())
	}

	var result common.AIResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("failed to parse vision response: %w", err)
	}

	if len(result.Choices) == 0 {
		return nil, fmt.Errorf("no choices in vision response")
	}

	return ParseIngredients(result.Choices[0].Message.Content)
}

// ParseIngredients 從模型輸出中提取並驗證食材列表
func ParseIngredients(content string) ([]inventory.RecognizedIngredient, error) {
	raw, err := common.ExtractJSONArray(content)
	if err != nil {
		return nil, fmt.Errorf("failed to extract ingredients: %w", err)
	}

	var items []map[string]interface{}
	if err := common.ParseJSON(raw, &items); err != nil {
		return nil, fmt.Errorf("failed to parse ingredients: %w", err)
	}

	ingredients := make([]inventory.RecognizedIngredient, 0, len(items))
	for _, item := range items {
		ing, ok := validateIngredient(item)
		if !ok {
			common.LogWarn("忽略欄位不完整的辨識結果",
				zap.Any("item", item),
			)
			continue
		}
		ingredients = append(ingredients, ing)
	}

	return ingredients, nil
}

// validateIngredient 檢查單筆辨識結果的必要欄位
func validateIngredient(item map[string]interface{}) (inventory.RecognizedIngredient, bool) {
	var ing inventory.RecognizedIngredient

	name, ok := item["name"].(string)
	if !ok || name == "" {
		return ing, false
	}
	quantity, ok := item["quantity"].(string)
	if !ok {
		return ing, false
	}
	expiration, ok := item["estimatedExpiration"].(string)
	if !ok {
		return ing, false
	}
	confidence, ok := toFloat(item["confidence"])
	if !ok {
		return ing, false
	}

	ing = inventory.RecognizedIngredient{
		Name:                name,
		Quantity:            quantity,
		EstimatedExpiration: expiration,
		Confidence:          confidence,
	}
	return ing, true
}

// toFloat 將 JSON 數值轉為 float64
func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
