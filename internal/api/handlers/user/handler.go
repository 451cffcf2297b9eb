package user

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"smart-recipe-backend/internal/api/handlers"
	userService "smart-recipe-backend/internal/core/user"
)

// Handler 使用者偏好處理器
type Handler struct {
	users *userService.Service
}

// NewHandler 創建使用者偏好處理器
func NewHandler(users *userService.Service) *Handler {
	return &Handler{users: users}
}

// GetPreferences 讀取偏好，首次讀取會建立預設值
func (h *Handler) GetPreferences(c *gin.Context) {
	prefs, err := h.users.GetPreferences(c.Request.Context())
	if err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, prefs)
}

// UpdatePreferences 合併更新偏好
func (h *Handler) UpdatePreferences(c *gin.Context) {
	var update userService.PreferencesUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		handlers.BadRequest(c, "invalid preferences payload")
		return
	}

	prefs, err := h.users.UpdatePreferences(c.Request.Context(), update)
	if err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"preferences": prefs,
	})
}

// Stats 烹飪統計
func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.users.GetCookingStats(c.Request.Context())
	if err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
