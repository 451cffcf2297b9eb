package recipe

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"smart-recipe-backend/internal/api/handlers"
	recipeService "smart-recipe-backend/internal/core/recipe"
)

// Handler 食譜處理器
type Handler struct {
	recipes *recipeService.Service
}

// NewHandler 創建食譜處理器
func NewHandler(recipes *recipeService.Service) *Handler {
	return &Handler{recipes: recipes}
}

// generateRequest 食譜生成請求
type generateRequest struct {
	MustUseIngredients  []string               `json:"mustUseIngredients"`
	PreferenceOverrides map[string]interface{} `json:"preferenceOverrides"`
}

// Generate 依庫存與偏好生成食譜
func (h *Handler) Generate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlers.BadRequest(c, "invalid generate payload")
		return
	}

	opts := recipeService.GenerateOptions{
		MustUse: req.MustUseIngredients,
	}
	if prefs := req.PreferenceOverrides; prefs != nil {
		if cuisines, ok := prefs["cuisinePreferences"].([]interface{}); ok {
			for _, cuisine := range cuisines {
				if name, ok := cuisine.(string); ok {
					opts.CuisinePreferences = append(opts.CuisinePreferences, name)
				}
			}
		}
		if cookingTime, ok := prefs["cookingTime"].(string); ok {
			opts.CookingTime = cookingTime
		}
	}

	recipes, err := h.recipes.Generate(c.Request.Context(), opts)
	if err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

// List 列出食譜，支援狀態過濾與排序
func (h *Handler) List(c *gin.Context) {
	status := c.DefaultQuery("status", "all")
	sortBy := c.DefaultQuery("sort", "recent")

	recipes, err := h.recipes.List(c.Request.Context(), status, sortBy)
	if err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

// cookRequest 標記烹飪完成的請求
type cookRequest struct {
	RecipeID string  `json:"recipeId" binding:"required"`
	Rating   float64 `json:"rating"`
	Notes    string  `json:"notes"`
}

// MarkCooked 標記食譜已烹飪並扣減庫存
func (h *Handler) MarkCooked(c *gin.Context) {
	var req cookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlers.BadRequest(c, "recipeId is required")
		return
	}

	result, err := h.recipes.MarkCooked(c.Request.Context(), req.RecipeID, req.Rating, req.Notes)
	if err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":            true,
		"message":            "Recipe marked as cooked successfully",
		"updatedIngredients": result.UpdatedIngredients,
		"cookedCount":        result.CookedCount,
	})
}

// imageRequest 食譜圖片生成請求
type imageRequest struct {
	RecipeID   string `json:"recipeId" binding:"required"`
	RecipeName string `json:"recipeName"`
}

// GenerateImage 為既有食譜生成示意圖
func (h *Handler) GenerateImage(c *gin.Context) {
	var req imageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlers.BadRequest(c, "recipeId is required")
		return
	}

	imageName, err := h.recipes.AttachImage(c.Request.Context(), req.RecipeID, req.RecipeName)
	if err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"imageName": imageName,
		"message":   "Recipe image generated successfully",
	})
}
