package inventory

import "strings"

// 各分類的關鍵字表
// 香料關鍵字刻意用具體詞彙（black pepper 而非 pepper），
// 避免把 bell pepper 這類蔬菜誤判為香料
var (
	spiceKeywords = []string{
		"black pepper", "white pepper", "peppercorn", "salt", "cinnamon",
		"cumin", "paprika", "oregano", "basil", "thyme", "rosemary",
		"turmeric", "nutmeg", "clove", "chili powder", "garlic powder",
		"onion powder", "vanilla", "bay leaf", "allspice",
	}

	produceKeywords = []string{
		"apple", "banana", "orange", "berry", "grape", "lemon", "lime",
		"tomato", "onion", "carrot", "lettuce", "spinach", "potato",
		"pepper", "broccoli", "cucumber", "avocado", "mushroom", "celery",
		"mango", "peach", "garlic", "ginger", "eggplant", "zucchini",
		"cabbage", "kale", "corn",
	}

	proteinKeywords = []string{
		"chicken", "beef", "pork", "fish", "turkey", "lamb", "egg",
		"tofu", "shrimp", "salmon", "tuna", "bacon", "sausage", "ham",
		"bean", "lentil",
	}

	dairyKeywords = []string{
		"milk", "cheese", "yogurt", "butter", "cream",
	}

	grainKeywords = []string{
		"rice", "bread", "pasta", "flour", "oat", "quinoa", "cereal",
		"noodle", "tortilla", "barley",
	}
)

// categoryOrder 比對順序，香料優先
// 裸字 "pepper" 這類調味詞視為香料，帶修飾詞的（bell pepper）落到蔬果
var categoryOrder = []struct {
	category Category
	keywords []string
}{
	{CategorySpices, spiceKeywords},
	{CategoryProduce, produceKeywords},
	{CategoryProtein, proteinKeywords},
	{CategoryDairy, dairyKeywords},
	{CategoryGrains, grainKeywords},
}

// ClassifyCategory 依名稱猜測食材分類，比不到任何關鍵字回傳 Other
func ClassifyCategory(name string) Category {
	lower := strings.ToLower(strings.TrimSpace(name))
	if lower == "" {
		return CategoryOther
	}

	// 單獨的 "pepper" 指調味用胡椒
	if lower == "pepper" {
		return CategorySpices
	}

	for _, entry := range categoryOrder {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				return entry.category
			}
		}
	}
	return CategoryOther
}
