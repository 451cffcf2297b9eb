package common

import (
	"time"

	"github.com/google/uuid"
)

// GenerateUUID 生成 UUID
func GenerateUUID() string {
	return uuid.New().String()
}

// FormatTime 將時間格式化為 RFC3339 UTC（以 Z 結尾）
func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// FormatTimePtr 將時間指標格式化為 RFC3339 UTC，nil 回傳空字串
func FormatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return FormatTime(*t)
}

// ParseTime 解析 RFC3339 時間字串
func ParseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

// ParseTimePtr 解析 RFC3339 時間字串，空字串或格式錯誤回傳 nil
func ParseTimePtr(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := ParseTime(s)
	if err != nil {
		return nil
	}
	t = t.UTC()
	return &t
}
