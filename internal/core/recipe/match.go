package recipe

import (
	"regexp"
	"strings"
)

// MatchScore 計算食譜食材與現有庫存的吻合度，範圍 0.0 到 1.0
// 名稱雙向包含即視為吻合；食譜沒有食材時回傳 0.0
func MatchScore(required []Ingredient, available []string) float64 {
	if len(required) == 0 {
		return 0.0
	}

	availableLower := make([]string, 0, len(available))
	for _, name := range available {
		availableLower = append(availableLower, strings.ToLower(name))
	}

	matches := 0
	for _, ing := range required {
		name := strings.ToLower(ing.Name)
		if name == "" {
			continue
		}
		for _, avail := range availableLower {
			if strings.Contains(avail, name) || strings.Contains(name, avail) {
				matches++
				break
			}
		}
	}

	return float64(matches) / float64(len(required))
}

var timeNumberPattern = regexp.MustCompile(`\d+`)

// parseTimeToMinutes 將 "15 minutes"、"1 hour" 等描述轉為分鐘數
// 無法解析時預設 30 分鐘，未標單位時視為分鐘
func parseTimeToMinutes(s string) int {
	match := timeNumberPattern.FindString(s)
	if match == "" {
		return 30
	}

	value := 0
	for _, c := range match {
		value = value*10 + int(c-'0')
	}

	if strings.Contains(strings.ToLower(s), "hour") {
		return value * 60
	}
	return value
}
