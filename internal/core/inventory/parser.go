package inventory

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	numberPattern  = regexp.MustCompile(`\d+\.?\d*`)
	integerPattern = regexp.MustCompile(`\d+`)
)

// unitKeywords 單位關鍵字對照表，依序比對，先中先贏
var unitKeywords = []struct {
	keywords []string
	unit     string
}{
	{[]string{"piece", "item"}, "pieces"},
	{[]string{"bottle"}, "bottles"},
	{[]string{"container", "box"}, "containers"},
	{[]string{"cup"}, "cups"},
	{[]string{"lb", "pound"}, "lbs"},
	{[]string{"kg"}, "kg"},
	{[]string{"carton"}, "cartons"},
	{[]string{"loaf", "loaves"}, "loaves"},
	{[]string{"block"}, "blocks"},
}

// ParseQuantity 解析數量字串，例如 "3 pieces"、"2.5 cups"
// 找不到數字時數量預設 1.0，找不到單位時預設 pieces，永不失敗
func ParseQuantity(s string) (float64, string) {
	amount := 1.0
	if m := numberPattern.FindString(s); m != "" {
		if v, err := strconv.ParseFloat(m, 64); err == nil {
			amount = v
		}
	}
	if amount < 0 {
		amount = 0
	}

	lower := strings.ToLower(s)
	unit := "pieces"
	for _, entry := range unitKeywords {
		matched := false
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				matched = true
				break
			}
		}
		if matched {
			unit = entry.unit
			break
		}
	}
	return amount, unit
}

// 不會過期的關鍵字
var nonPerishableTokens = []string{"never", "indefinite", "permanent"}

// durationUnits 時間單位對照表，依優先序比對
// factor 為換算天數，fallback 為字串中沒有數字時的預設值
var durationUnits = []struct {
	keyword  string
	factor   int
	fallback int
}{
	{"day", 1, 7},
	{"week", 7, 7},
	{"month", 30, 30},
}

// ParseExpiration 解析相對過期字串，例如 "3 days"、"2 weeks"、"never"
// 回傳天數；nonPerishable 為 true 表示不會過期
// 無法辨識時預設 7 天，永不失敗
func ParseExpiration(s string) (days int, nonPerishable bool) {
	lower := strings.ToLower(s)

	for _, token := range nonPerishableTokens {
		if strings.Contains(lower, token) {
			return 0, true
		}
	}

	for _, u := range durationUnits {
		if !strings.Contains(lower, u.keyword) {
			continue
		}
		if m := integerPattern.FindString(s); m != "" {
			if n, err := strconv.Atoi(m); err == nil {
				return n * u.factor, false
			}
		}
		return u.fallback, false
	}

	return 7, false
}
