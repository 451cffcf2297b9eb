package recipe

// 食譜狀態
const (
	StatusGenerated = "generated"
)

// Ingredient 食譜所需的單項食材
type Ingredient struct {
	Name   string `json:"name"`
	Amount string `json:"amount"`
	Unit   string `json:"unit"`
}

// Recipe 食譜文件，時間欄位以 RFC3339 字串存儲
type Recipe struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Description  string            `json:"description"`
	Ingredients  []Ingredient      `json:"ingredients"`
	Instructions []string          `json:"instructions"`
	PrepTime     string            `json:"prepTime"`
	CookTime     string            `json:"cookTime"`
	CookingTime  int               `json:"cookingTime"` // 總時間（分鐘）
	Servings     int               `json:"servings"`
	Difficulty   string            `json:"difficulty"`
	Cuisine      string            `json:"cuisine"`
	Nutrition    map[string]string `json:"nutritionalInfo"`
	Tags         []string          `json:"tags"`
	Tips         []string          `json:"tips"`
	ImageName    string            `json:"imageName,omitempty"`
	MatchScore   float64           `json:"matchScore"`
	CreatedAt    string            `json:"createdAt"`
	UpdatedAt    string            `json:"updatedAt"`
	CookedCount  int               `json:"cookedCount"`
	LastCooked   string            `json:"lastCooked,omitempty"`
	Rating       float64           `json:"rating,omitempty"`
	Status       string            `json:"status"`
}

// GenerateOptions 食譜生成選項
type GenerateOptions struct {
	MustUse            []string `json:"mustUseIngredients"`
	CuisinePreferences []string `json:"cuisinePreferences"`
	CookingTime        string   `json:"cookingTime"` // under30、30to60、over60
}

// UsedIngredient 烹飪後的庫存扣減記錄
type UsedIngredient struct {
	Name             string  `json:"name"`
	PreviousQuantity float64 `json:"previousQuantity"`
	NewQuantity      float64 `json:"newQuantity"`
	Used             float64 `json:"used"`
}

// CookResult 標記烹飪完成的結果
type CookResult struct {
	UpdatedIngredients []UsedIngredient `json:"updatedIngredients"`
	CookedCount        int              `json:"cookedCount"`
}

// CookingLog 烹飪記錄文件
type CookingLog struct {
	RecipeID        string           `json:"recipeId"`
	RecipeName      string           `json:"recipeName"`
	CookedAt        string           `json:"cookedAt"`
	Rating          float64          `json:"rating,omitempty"`
	Notes           string           `json:"notes,omitempty"`
	IngredientsUsed []UsedIngredient `json:"ingredientsUsed"`
}
