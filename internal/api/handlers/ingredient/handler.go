package ingredient

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"smart-recipe-backend/internal/api/handlers"
	"smart-recipe-backend/internal/core/ai/cache"
	"smart-recipe-backend/internal/core/ai/vision"
	"smart-recipe-backend/internal/core/image"
	"smart-recipe-backend/internal/core/inventory"
	"smart-recipe-backend/internal/infrastructure/objectstore"
	"smart-recipe-backend/internal/pkg/common"
)

// scanCachePrompt 掃描結果緩存的鍵前綴
const scanCachePrompt = "ingredient-scan"

// Handler 食材庫存處理器
type Handler struct {
	inventory  *inventory.Service
	reconciler *inventory.Reconciler
	recognizer vision.Recognizer
	images     *image.Service
	cache      cache.Store
	uploader   objectstore.Uploader
}

// NewHandler 創建食材處理器
// uploader 與 cache 允許為 nil，對應功能會被停用
func NewHandler(
	inv *inventory.Service,
	rec *inventory.Reconciler,
	recognizer vision.Recognizer,
	images *image.Service,
	cacheStore cache.Store,
	uploader objectstore.Uploader,
) *Handler {
	return &Handler{
		inventory:  inv,
		reconciler: rec,
		recognizer: recognizer,
		images:     images,
		cache:      cacheStore,
		uploader:   uploader,
	}
}

// List 列出所有食材
func (h *Handler) List(c *gin.Context) {
	items, err := h.inventory.List(c.Request.Context())
	if err != nil {
		handlers.Error(c, err)
		return
	}

	views := make([]inventory.ItemView, 0, len(items))
	for i := range items {
		views = append(views, items[i].View())
	}
	c.JSON(http.StatusOK, gin.H{"ingredients": views})
}

// Create 新增食材
func (h *Handler) Create(c *gin.Context) {
	var input inventory.ItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		handlers.BadRequest(c, "invalid ingredient payload")
		return
	}

	item, err := h.inventory.Create(c.Request.Context(), input)
	if err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, item.View())
}

// Get 讀取單項食材
func (h *Handler) Get(c *gin.Context) {
	item, err := h.inventory.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, item.View())
}

// Update 更新食材
func (h *Handler) Update(c *gin.Context) {
	var update inventory.ItemUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		handlers.BadRequest(c, "invalid update payload")
		return
	}

	item, err := h.inventory.Update(c.Request.Context(), c.Param("id"), update)
	if err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, item.View())
}

// Delete 刪除食材
func (h *Handler) Delete(c *gin.Context) {
	if err := h.inventory.Delete(c.Request.Context(), c.Param("id")); err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// scanRequest 掃描請求
type scanRequest struct {
	Image string `json:"image" binding:"required"`
}

// Scan 辨識圖片中的食材並合併進庫存
func (h *Handler) Scan(c *gin.Context) {
	var req scanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlers.BadRequest(c, "image is required")
		return
	}

	ctx := c.Request.Context()

	data, err := h.images.DecodeInput(req.Image)
	if err != nil {
		handlers.Error(c, err)
		return
	}
	if err := h.images.Validate(data); err != nil {
		handlers.Error(c, err)
		return
	}

	dataURL, err := h.images.ToJPEGDataURL(data)
	if err != nil {
		handlers.Error(c, err)
		return
	}

	recognized, err := h.recognizeCached(c, dataURL)
	if err != nil {
		handlers.Error(c, err)
		return
	}

	result := h.reconciler.Reconcile(ctx, recognized)
	c.JSON(http.StatusOK, result)
}

// recognizeCached 先查緩存，未命中時呼叫視覺模型並回填
func (h *Handler) recognizeCached(c *gin.Context, dataURL string) ([]inventory.RecognizedIngredient, error) {
	ctx := c.Request.Context()

	if h.cache != nil {
		if cached, err := h.cache.Get(ctx, scanCachePrompt, dataURL); err == nil {
			var recognized []inventory.RecognizedIngredient
			if err := json.Unmarshal([]byte(cached), &recognized); err == nil {
				common.LogInfo("掃描結果命中緩存",
					zap.Int("ingredients", len(recognized)),
				)
				return recognized, nil
			}
		}
	}

	recognized, err := h.recognizer.RecognizeIngredients(ctx, dataURL)
	if err != nil {
		return nil, err
	}

	if h.cache != nil {
		if encoded, err := json.Marshal(recognized); err == nil {
			if err := h.cache.Set(ctx, scanCachePrompt, dataURL, string(encoded)); err != nil {
				common.LogWarn("掃描結果寫入緩存失敗", zap.Error(err))
			}
		}
	}

	return recognized, nil
}

// batchUpdateRequest 批次更新請求
type batchUpdateRequest struct {
	Ingredients []inventory.ItemInput `json:"ingredients" binding:"required"`
}

// BatchUpdate 手動批次新增或合併食材
func (h *Handler) BatchUpdate(c *gin.Context) {
	var req batchUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlers.BadRequest(c, "ingredients list is required")
		return
	}

	result, err := h.inventory.ApplyUpdates(c.Request.Context(), req.Ingredients)
	if err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// uploadImageRequest 食材圖片上傳請求
type uploadImageRequest struct {
	Image string `json:"image" binding:"required"`
}

// UploadImage 上傳食材照片到物件儲存並更新 image_url
func (h *Handler) UploadImage(c *gin.Context) {
	if h.uploader == nil {
		handlers.Error(c, common.ErrUploadUnavailable)
		return
	}

	var req uploadImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlers.BadRequest(c, "image is required")
		return
	}

	ctx := c.Request.Context()
	id := c.Param("id")

	// 先確認食材存在
	if _, err := h.inventory.Get(ctx, id); err != nil {
		handlers.Error(c, err)
		return
	}

	data, err := h.images.DecodeInput(req.Image)
	if err != nil {
		handlers.Error(c, err)
		return
	}
	if err := h.images.Validate(data); err != nil {
		handlers.Error(c, err)
		return
	}

	key := fmt.Sprintf("ingredients/%s/%s.jpg", id, common.GenerateUUID())
	url, err := h.uploader.Upload(ctx, key, data, "image/jpeg")
	if err != nil {
		common.LogError("食材圖片上傳失敗",
			zap.String("ingredient_id", id),
			zap.Error(err),
		)
		handlers.Error(c, common.ErrUploadUnavailable)
		return
	}

	item, err := h.inventory.Update(ctx, id, inventory.ItemUpdate{ImageURL: &url})
	if err != nil {
		handlers.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"image_url": url,
		"item":      item.View(),
	})
}

// ExpiringSoon 列出即將到期的食材，days 預設 3
func (h *Handler) ExpiringSoon(c *gin.Context) {
	days := 3
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			handlers.BadRequest(c, "days must be a non-negative integer")
			return
		}
		days = parsed
	}

	items, err := h.inventory.ListExpiringWithin(c.Request.Context(), days)
	if err != nil {
		handlers.Error(c, err)
		return
	}

	views := make([]inventory.ItemView, 0, len(items))
	for i := range items {
		views = append(views, items[i].View())
	}
	c.JSON(http.StatusOK, gin.H{
		"ingredients": views,
		"days":        days,
	})
}
