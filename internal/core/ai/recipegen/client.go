package recipegen

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"smart-recipe-backend/internal/infrastructure/config"
	"smart-recipe-backend/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// geminiBaseURL Gemini REST API 端點
const geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// 食譜欄位預設值
const (
	DefaultRecipeName = "Generated Recipe"
	DefaultDifficulty = "Medium"
	DefaultServings   = 4
)

// GenerateRequest 食譜生成請求
type GenerateRequest struct {
	Ingredients []string // 可用食材名稱
	MustUse     []string // 必須使用的食材
	Cuisine     string   // 菜系
	Difficulty  string   // 難度
	CookingTime string   // 期望烹飪時間描述
}

// DraftIngredient 食譜草稿中的單項食材
type DraftIngredient struct {
	Name   string `json:"name"`
	Amount string `json:"amount"`
	Unit   string `json:"unit"`
}

// RecipeDraft 模型生成的食譜草稿，缺漏欄位已補上預設值
type RecipeDraft struct {
	Name         string            `json:"name"`
	Description  string            `json:"description"`
	Ingredients  []DraftIngredient `json:"ingredients"`
	Instructions []string          `json:"instructions"`
	PrepTime     string            `json:"prepTime"`
	CookTime     string            `json:"cookTime"`
	Servings     int               `json:"servings"`
	Difficulty   string            `json:"difficulty"`
	Cuisine      string            `json:"cuisine"`
	Nutrition    map[string]string `json:"nutritionalInfo"`
	Tags         []string          `json:"tags"`
	Tips         []string          `json:"tips"`
}

// Generator 食譜生成介面
type Generator interface {
	GenerateRecipe(ctx context.Context, req GenerateRequest) (*RecipeDraft, error)
	GenerateRecipeImage(ctx context.Context, recipeName string) string
}

// GeminiClient Gemini 文字模型客戶端
type GeminiClient struct {
	client *resty.Client
	apiKey string
	model  string
}

// NewGeminiClient 創建 Gemini 客戶端
func NewGeminiClient(cfg *config.GeminiConfig) *GeminiClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	client := resty.New().
		SetBaseURL(geminiBaseURL).
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)

	return &GeminiClient{
		client: client,
		apiKey: cfg.APIKey,
		model:  cfg.Model,
	}
}

// geminiResponse Gemini generateContent 響應結構
type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// GenerateRecipe 根據可用食材生成一道食譜
func (c *GeminiClient) GenerateRecipe(ctx context.Context, req GenerateRequest) (*RecipeDraft, error) {
	if len(req.Ingredients) == 0 {
		return nil, common.NewValidationError("at least one ingredient is required")
	}

	prompt := buildRecipePrompt(req)

	text, err := c.generateText(ctx, c.model, prompt)
	if err != nil {
		common.LogError("食譜生成請求失敗",
			zap.String("cuisine", req.Cuisine),
			zap.Error(err),
		)
		return nil, err
	}

	return ParseRecipeDraft(text, req.Cuisine)
}

// GenerateRecipeImage 生成食譜示意圖 URL，名稱為空時回傳空字串
// Gemini 影像生成 API 尚未開放，先回傳帶食譜名稱的佔位圖
func (c *GeminiClient) GenerateRecipeImage(ctx context.Context, recipeName string) string {
	if recipeName == "" {
		return ""
	}
	return PlaceholderImageURL(recipeName)
}

// PlaceholderImageURL 以食譜名稱組出佔位圖 URL
func PlaceholderImageURL(recipeName string) string {
	return fmt.Sprintf("https://via.placeholder.com/400x300/FF6B6B/FFFFFF?text=%s", url.QueryEscape(recipeName))
}

// generateText 呼叫 generateContent 並取出第一段文字
func (c *GeminiClient) generateText(ctx context.Context, model, prompt string) (string, error) {
	req := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]interface{}{
					{"text": prompt},
				},
			},
		},
	}

	start := time.Now()
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("key", c.apiKey).
		SetBody(req).
		Post(fmt.Sprintf("/models/%s:generateContent", model))
	common.LogAICall(prompt, time.Since(start), err, "")
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("gemini API returned status %d", resp.StatusCode())
	}

	var result geminiResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return "", fmt.Errorf("failed to parse gemini response: %w", err)
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no candidates in gemini response")
	}

	return result.Candidates[0].Content.Parts[0].Text, nil
}

// buildRecipePrompt 構建食譜生成提示詞
func buildRecipePrompt(req GenerateRequest) string {
	var b strings.Builder

	b.WriteString("Create a recipe using some of these available ingredients: ")
	b.WriteString(common.StringSliceToString(req.Ingredients))
	b.WriteString(".\n")

	if len(req.MustUse) > 0 {
		b.WriteString("The recipe MUST use: ")
		b.WriteString(common.StringSliceToString(req.MustUse))
		b.WriteString(".\n")
	}
	if req.Cuisine != "" {
		fmt.Fprintf(&b, "Cuisine style: %s.\n", req.Cuisine)
	}
	if req.Difficulty != "" {
		fmt.Fprintf(&b, "Difficulty: %s.\n", req.Difficulty)
	}
	if req.CookingTime != "" {
		fmt.Fprintf(&b, "Total cooking time should be %s.\n", req.CookingTime)
	}

	b.WriteString(`
Return ONLY a JSON object in this exact format, with no other text:
{
  "name": "recipe name",
  "description": "short description",
  "ingredients": [{"name": "ingredient", "amount": "2", "unit": "pieces"}],
  "instructions": ["step 1", "step 2"],
  "prepTime": "15 minutes",
  "cookTime": "30 minutes",
  "servings": 4,
  "difficulty": "Easy|Medium|Hard",
  "cuisine": "cuisine name",
  "nutritionalInfo": {"calories": "350", "protein": "20g", "carbs": "40g", "fat": "10g"},
  "tags": ["tag1"],
  "tips": ["tip1"]
}`)

	return b.String()
}

// ParseRecipeDraft 解析模型輸出並補齊缺漏欄位
func ParseRecipeDraft(content, fallbackCuisine string) (*RecipeDraft, error) {
	raw, err := common.ExtractJSONObject(content)
	if err != nil {
		return nil, fmt.Errorf("failed to extract recipe: %w", err)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		// 模型偶爾輸出未加引號的鍵，補上引號後重試
		raw = common.QuoteJSONKeys(raw)
		if err := json.Unmarshal([]byte(raw), &fields); err != nil {
			return nil, fmt.Errorf("failed to parse recipe: %w", err)
		}
	}

	var draft RecipeDraft
	if err := json.Unmarshal([]byte(raw), &draft); err != nil {
		// 個別欄位型別不符時逐欄解析，保留可用的部分
		draft = decodeLenient(fields)
	}

	applyDefaults(&draft, fallbackCuisine)
	return &draft, nil
}

// decodeLenient 逐欄解析，忽略型別不符的欄位
func decodeLenient(fields map[string]json.RawMessage) RecipeDraft {
	var draft RecipeDraft

	unmarshalField(fields, "name", &draft.Name)
	unmarshalField(fields, "description", &draft.Description)
	unmarshalField(fields, "ingredients", &draft.Ingredients)
	unmarshalField(fields, "instructions", &draft.Instructions)
	unmarshalField(fields, "prepTime", &draft.PrepTime)
	unmarshalField(fields, "cookTime", &draft.CookTime)
	unmarshalField(fields, "difficulty", &draft.Difficulty)
	unmarshalField(fields, "cuisine", &draft.Cuisine)
	unmarshalField(fields, "tags", &draft.Tags)
	unmarshalField(fields, "tips", &draft.Tips)

	// servings 可能是數字或字串
	var servings float64
	if unmarshalField(fields, "servings", &servings) {
		draft.Servings = int(servings)
	}

	// 營養資訊可能是數字值，統一轉為字串
	var nutrition map[string]interface{}
	if unmarshalField(fields, "nutritionalInfo", &nutrition) {
		draft.Nutrition = stringifyValues(nutrition)
	}

	return draft
}

// unmarshalField 解析單一欄位，失敗時回傳 false
func unmarshalField(fields map[string]json.RawMessage, key string, dst interface{}) bool {
	raw, ok := fields[key]
	if !ok {
		return false
	}
	return json.Unmarshal(raw, dst) == nil
}

// stringifyValues 將任意值的 map 轉為字串值的 map
func stringifyValues(in map[string]interface{}) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		switch val := v.(type) {
		case string:
			out[k] = val
		case float64:
			out[k] = formatNumber(val)
		default:
			out[k] = fmt.Sprintf("%v", val)
		}
	}
	return out
}

// formatNumber 去除浮點數多餘的小數位
func formatNumber(f float64) string {
	if f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%g", f)
}

// applyDefaults 補上缺漏欄位的預設值
func applyDefaults(draft *RecipeDraft, fallbackCuisine string) {
	if strings.TrimSpace(draft.Name) == "" {
		draft.Name = DefaultRecipeName
	}
	if draft.Difficulty == "" {
		draft.Difficulty = DefaultDifficulty
	}
	if draft.Servings <= 0 {
		draft.Servings = DefaultServings
	}
	if draft.Cuisine == "" {
		draft.Cuisine = fallbackCuisine
	}
	if draft.Ingredients == nil {
		draft.Ingredients = []DraftIngredient{}
	}
	if draft.Instructions == nil {
		draft.Instructions = []string{}
	}
	if draft.Nutrition == nil {
		draft.Nutrition = map[string]string{}
	}
	if draft.Tags == nil {
		draft.Tags = []string{}
	}
	if draft.Tips == nil {
		draft.Tips = []string{}
	}
}
