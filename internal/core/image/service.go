package image

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"strings"

	_ "image/gif" // 支援 GIF
	_ "image/png" // 支援 PNG

	_ "golang.org/x/image/webp" // 支援 WebP

	"go.uber.org/zap"

	"smart-recipe-backend/internal/pkg/common"
)

// Service 圖片處理服務
// 掃描前的驗證：尺寸下限、大小上限、格式檢查
type Service struct {
	maxSizeBytes int64
	minWidth     int
	minHeight    int
}

// NewService 創建新的圖片處理服務
func NewService(maxSizeBytes int64, minWidth, minHeight int) *Service {
	return &Service{
		maxSizeBytes: maxSizeBytes,
		minWidth:     minWidth,
		minHeight:    minHeight,
	}
}

// DecodeInput 解析客戶端傳來的圖片字串
// 接受 data URL（data:image/...;base64,xxx）或純 base64
func (s *Service) DecodeInput(imageData string) ([]byte, error) {
	if strings.TrimSpace(imageData) == "" {
		return nil, common.NewValidationError("no image provided")
	}

	raw := imageData
	if strings.HasPrefix(imageData, "data:image") {
		parts := strings.SplitN(imageData, ",", 2)
		if len(parts) != 2 {
			return nil, common.NewValidationError("invalid data URL format")
		}
		raw = parts[1]
	}

	decoded, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, common.NewValidationError("invalid base64 image data")
	}
	return decoded, nil
}

// Validate 驗證圖片是否適合做食材辨識
// 規則：大小不超過上限、可解碼、格式支援、尺寸不低於下限
func (s *Service) Validate(data []byte) error {
	if int64(len(data)) > s.maxSizeBytes {
		return common.ErrInvalidImageSize
	}

	img, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		common.LogImageProcessing("warn", "無法解析圖片", zap.Error(err))
		return common.ErrInvalidImageFormat
	}
	if !isSupportedFormat(format) {
		common.LogImageProcessing("warn", "不支援的圖片格式", zap.String("format", format))
		return common.ErrInvalidImageFormat
	}
	if img.Width < s.minWidth || img.Height < s.minHeight {
		common.LogImageProcessing("warn", "圖片尺寸過小",
			zap.Int("width", img.Width),
			zap.Int("height", img.Height),
		)
		return common.ErrImageTooSmall
	}
	return nil
}

// ToJPEGDataURL 將圖片統一轉成 JPEG data URL，供視覺模型使用
func (s *Service) ToJPEGDataURL(data []byte) (string, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
		return "", fmt.Errorf("failed to encode image as JPEG: %w", err)
	}

	encoded := base64.StdEncoding.EncodeToString(buf.Bytes())
	return fmt.Sprintf("data:image/jpeg;base64,%s", encoded), nil
}

// isSupportedFormat 檢查圖片格式是否支援
func isSupportedFormat(format string) bool {
	supportedFormats := map[string]bool{
		"jpeg": true,
		"jpg":  true,
		"png":  true,
		"gif":  true,
		"webp": true,
	}
	return supportedFormats[format]
}
