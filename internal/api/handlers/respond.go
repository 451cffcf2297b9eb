package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"smart-recipe-backend/internal/pkg/common"
)

// Error 將服務層錯誤轉為對應的 HTTP 響應
func Error(c *gin.Context, err error) {
	switch e := err.(type) {
	case *common.CustomError:
		c.JSON(e.Status, common.ErrorResponse{
			Code:    e.Code,
			Message: e.Message,
		})
	case *common.ValidationError:
		c.JSON(http.StatusBadRequest, common.ErrorResponse{
			Code:    common.ErrCodeInvalidRequest,
			Message: e.Error(),
		})
	case *common.NotFoundError:
		c.JSON(http.StatusNotFound, common.ErrorResponse{
			Code:    common.ErrCodeNotFound,
			Message: e.Error(),
		})
	case *common.StoreError:
		common.LogError("資料存取失敗",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		c.JSON(http.StatusServiceUnavailable, common.ErrorResponse{
			Code:    common.ErrStoreUnavailable.Code,
			Message: common.ErrStoreUnavailable.Message,
		})
	default:
		common.LogError("未分類的處理錯誤",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, common.ErrorResponse{
			Code:    common.ErrCodeInternalError,
			Message: common.ErrInternalError.Message,
		})
	}
}

// BadRequest 請求解析失敗時的統一響應
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, common.ErrorResponse{
		Code:    common.ErrCodeInvalidRequest,
		Message: message,
	})
}
