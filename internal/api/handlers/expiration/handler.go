package expiration

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"smart-recipe-backend/internal/api/handlers"
	expirationService "smart-recipe-backend/internal/core/expiration"
)

// Handler 過期追蹤處理器
type Handler struct {
	expiration *expirationService.Service
}

// NewHandler 創建過期追蹤處理器
func NewHandler(exp *expirationService.Service) *Handler {
	return &Handler{expiration: exp}
}

// Summary 各狀態數量與警示清單
func (h *Handler) Summary(c *gin.Context) {
	summary, err := h.expiration.GetSummary(c.Request.Context())
	if err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// Alerts 七天內到期的食材與推薦食譜
func (h *Handler) Alerts(c *gin.Context) {
	alerts, err := h.expiration.GetAlerts(c.Request.Context())
	if err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"expiringIngredients": alerts})
}

// GetSettings 讀取過期提醒設定
func (h *Handler) GetSettings(c *gin.Context) {
	settings, err := h.expiration.GetSettings(c.Request.Context())
	if err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// UpdateSettings 更新過期提醒設定
func (h *Handler) UpdateSettings(c *gin.Context) {
	var settings expirationService.Settings
	if err := c.ShouldBindJSON(&settings); err != nil {
		handlers.BadRequest(c, "invalid settings payload")
		return
	}

	updated, err := h.expiration.UpdateSettings(c.Request.Context(), settings)
	if err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"settings": updated,
	})
}

// LogWaste 記錄一筆浪費
func (h *Handler) LogWaste(c *gin.Context) {
	var input expirationService.WasteLogInput
	if err := c.ShouldBindJSON(&input); err != nil {
		handlers.BadRequest(c, "invalid waste log payload")
		return
	}

	log, err := h.expiration.LogWaste(c.Request.Context(), input)
	if err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, log)
}

// ListWasteLogs 列出浪費記錄，limit 預設 50
func (h *Handler) ListWasteLogs(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			handlers.BadRequest(c, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	logs, err := h.expiration.ListWasteLogs(c.Request.Context(), limit)
	if err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"wasteLogs": logs})
}

// DeleteWasteLog 刪除一筆浪費記錄
func (h *Handler) DeleteWasteLog(c *gin.Context) {
	if err := h.expiration.DeleteWasteLog(c.Request.Context(), c.Param("id")); err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// WasteStats 浪費統計
func (h *Handler) WasteStats(c *gin.Context) {
	stats, err := h.expiration.GetWasteStats(c.Request.Context())
	if err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// RecipeRecommendations 優先使用即期食材的食譜推薦
func (h *Handler) RecipeRecommendations(c *gin.Context) {
	recommendations, err := h.expiration.GetRecommendations(c.Request.Context())
	if err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recommendations": recommendations})
}
