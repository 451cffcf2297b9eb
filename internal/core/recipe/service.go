package recipe

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"smart-recipe-backend/internal/core/ai/recipegen"
	"smart-recipe-backend/internal/core/inventory"
	"smart-recipe-backend/internal/infrastructure/store"
	"smart-recipe-backend/internal/pkg/common"
)

// 集合名稱
const (
	recipesCollection     = "recipes"
	cookingLogsCollection = "cooking_logs"
)

// maxGeneratedRecipes 單次生成的食譜數量上限
const maxGeneratedRecipes = 3

// defaultCuisines 未指定偏好時嘗試的菜系
var defaultCuisines = []string{"International", "Italian", "American"}

// cookingTimeDifficulty 期望烹飪時間對應的難度
var cookingTimeDifficulty = map[string]string{
	"under30": "easy",
	"30to60":  "medium",
	"over60":  "hard",
}

// Service 食譜服務
type Service struct {
	store     store.DocumentStore
	inventory *inventory.Service
	generator recipegen.Generator
	now       func() time.Time
}

// NewService 創建食譜服務
func NewService(db store.DocumentStore, inv *inventory.Service, gen recipegen.Generator) *Service {
	return &Service{
		store:     db,
		inventory: inv,
		generator: gen,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Generate 依庫存與偏好生成食譜並存入存儲
// 每個菜系各生成一道，單一菜系失敗不影響其他菜系
func (s *Service) Generate(ctx context.Context, opts GenerateOptions) ([]Recipe, error) {
	items, err := s.inventory.List(ctx)
	if err != nil {
		return nil, err
	}

	// 只用還有庫存的食材
	available := make([]string, 0, len(items))
	for _, item := range items {
		if item.Quantity > 0 {
			available = append(available, item.Name)
		}
	}

	// 必用食材不在庫存時也要納入
	for _, mustUse := range opts.MustUse {
		if !containsName(available, mustUse) {
			available = append(available, mustUse)
		}
	}

	common.LogInfo("開始生成食譜",
		zap.Int("available_ingredients", len(available)),
		zap.Strings("must_use", opts.MustUse),
	)

	difficulty := cookingTimeDifficulty[opts.CookingTime]
	if difficulty == "" {
		difficulty = "medium"
	}

	cuisines := opts.CuisinePreferences
	if len(cuisines) == 0 {
		cuisines = defaultCuisines
	}
	if len(cuisines) > maxGeneratedRecipes {
		cuisines = cuisines[:maxGeneratedRecipes]
	}

	recipes := make([]Recipe, 0, len(cuisines))
	for _, cuisine := range cuisines {
		draft, err := s.generator.GenerateRecipe(ctx, recipegen.GenerateRequest{
			Ingredients: available,
			MustUse:     opts.MustUse,
			Cuisine:     cuisine,
			Difficulty:  difficulty,
			CookingTime: opts.CookingTime,
		})
		if err != nil {
			common.LogError("生成食譜失敗，略過此菜系",
				zap.String("cuisine", cuisine),
				zap.Error(err),
			)
			continue
		}

		rec := s.buildRecipe(ctx, draft, available)

		doc, err := store.Encode(rec)
		if err != nil {
			common.LogError("食譜序列化失敗", zap.String("name", rec.Name), zap.Error(err))
			continue
		}
		if _, err := s.store.Create(ctx, recipesCollection, rec.ID, doc); err != nil {
			common.LogError("食譜存儲失敗", zap.String("name", rec.Name), zap.Error(err))
			continue
		}

		common.LogInfo("食譜已生成",
			zap.String("name", rec.Name),
			zap.String("cuisine", rec.Cuisine),
			zap.Float64("match_score", rec.MatchScore),
		)
		recipes = append(recipes, rec)
	}

	return recipes, nil
}

// buildRecipe 將草稿轉為完整食譜文件
func (s *Service) buildRecipe(ctx context.Context, draft *recipegen.RecipeDraft, available []string) Recipe {
	ingredients := make([]Ingredient, 0, len(draft.Ingredients))
	for _, ing := range draft.Ingredients {
		ingredients = append(ingredients, Ingredient{
			Name:   ing.Name,
			Amount: ing.Amount,
			Unit:   ing.Unit,
		})
	}

	prepTime := draft.PrepTime
	if prepTime == "" {
		prepTime = "15 minutes"
	}
	cookTime := draft.CookTime
	if cookTime == "" {
		cookTime = "30 minutes"
	}

	// 圖片生成失敗不阻斷食譜建立
	imageName := s.generator.GenerateRecipeImage(ctx, draft.Name)

	now := common.FormatTime(s.now())
	return Recipe{
		ID:           common.GenerateUUID(),
		Name:         draft.Name,
		Description:  draft.Description,
		Ingredients:  ingredients,
		Instructions: draft.Instructions,
		PrepTime:     prepTime,
		CookTime:     cookTime,
		CookingTime:  parseTimeToMinutes(prepTime) + parseTimeToMinutes(cookTime),
		Servings:     draft.Servings,
		Difficulty:   draft.Difficulty,
		Cuisine:      draft.Cuisine,
		Nutrition:    draft.Nutrition,
		Tags:         draft.Tags,
		Tips:         draft.Tips,
		ImageName:    imageName,
		MatchScore:   MatchScore(ingredients, available),
		CreatedAt:    now,
		UpdatedAt:    now,
		Status:       StatusGenerated,
	}
}

// Get 讀取單筆食譜
func (s *Service) Get(ctx context.Context, id string) (*Recipe, error) {
	doc, err := s.store.Get(ctx, recipesCollection, id)
	if err != nil {
		return nil, err
	}

	var rec Recipe
	if err := store.Decode(doc, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// List 列出食譜，可依狀態過濾並排序
// status：all、cooked、saved；sort：recent、rating、expiring
func (s *Service) List(ctx context.Context, status, sortBy string) ([]Recipe, error) {
	docs, err := s.store.List(ctx, recipesCollection)
	if err != nil {
		return nil, err
	}

	recipes := make([]Recipe, 0, len(docs))
	for _, doc := range docs {
		var rec Recipe
		if err := store.Decode(doc, &rec); err != nil {
			common.LogWarn("略過無法解析的食譜文件", zap.Error(err))
			continue
		}

		switch status {
		case "cooked":
			if rec.CookedCount == 0 {
				continue
			}
		case "saved":
			if rec.CookedCount > 0 {
				continue
			}
		}

		// 早期文件沒有存 cookingTime，讀取時補算
		if rec.CookingTime == 0 {
			rec.CookingTime = parseTimeToMinutes(rec.PrepTime) + parseTimeToMinutes(rec.CookTime)
		}
		recipes = append(recipes, rec)
	}

	switch sortBy {
	case "rating":
		sort.SliceStable(recipes, func(i, j int) bool {
			return recipes[i].Rating > recipes[j].Rating
		})
	default:
		// recent 與 expiring 都以建立時間新到舊排序
		sort.SliceStable(recipes, func(i, j int) bool {
			return recipes[i].CreatedAt > recipes[j].CreatedAt
		})
	}

	return recipes, nil
}

// MarkCooked 標記食譜已烹飪：更新統計、扣減庫存並寫入烹飪記錄
func (s *Service) MarkCooked(ctx context.Context, recipeID string, rating float64, notes string) (*CookResult, error) {
	rec, err := s.Get(ctx, recipeID)
	if err != nil {
		return nil, err
	}

	now := common.FormatTime(s.now())
	rec.CookedCount++
	rec.LastCooked = now
	rec.UpdatedAt = now
	if rating > 0 {
		rec.Rating = rating
	}

	doc, err := store.Encode(rec)
	if err != nil {
		return nil, err
	}
	if err := s.store.Update(ctx, recipesCollection, recipeID, doc); err != nil {
		return nil, err
	}

	used := s.deductIngredients(ctx, rec.Ingredients)

	// 寫入烹飪記錄，供使用統計查詢
	log := CookingLog{
		RecipeID:        recipeID,
		RecipeName:      rec.Name,
		CookedAt:        now,
		Rating:          rating,
		Notes:           notes,
		IngredientsUsed: used,
	}
	logDoc, err := store.Encode(log)
	if err == nil {
		if _, err := s.store.Create(ctx, cookingLogsCollection, common.GenerateUUID(), logDoc); err != nil {
			common.LogError("烹飪記錄寫入失敗", zap.String("recipe_id", recipeID), zap.Error(err))
		}
	}

	common.LogInfo("食譜標記為已烹飪",
		zap.String("recipe_id", recipeID),
		zap.Int("cooked_count", rec.CookedCount),
		zap.Int("ingredients_used", len(used)),
	)

	return &CookResult{
		UpdatedIngredients: used,
		CookedCount:        rec.CookedCount,
	}, nil
}

// deductIngredients 依食譜用量扣減庫存，數量不會低於 0
// 找不到的食材直接略過
func (s *Service) deductIngredients(ctx context.Context, ingredients []Ingredient) []UsedIngredient {
	used := make([]UsedIngredient, 0, len(ingredients))

	for _, ing := range ingredients {
		if ing.Name == "" {
			continue
		}
		required, _ := inventory.ParseQuantity(ing.Amount)

		item, err := s.inventory.FindByName(ctx, ing.Name)
		if err != nil {
			common.LogError("扣減庫存時查詢失敗",
				zap.String("name", ing.Name), zap.Error(err))
			continue
		}
		if item == nil {
			continue
		}

		newQuantity := item.Quantity - required
		if newQuantity < 0 {
			newQuantity = 0
		}

		if _, err := s.inventory.Update(ctx, item.ID, inventory.ItemUpdate{
			Quantity: &newQuantity,
		}); err != nil {
			common.LogError("扣減庫存失敗",
				zap.String("name", ing.Name), zap.Error(err))
			continue
		}

		used = append(used, UsedIngredient{
			Name:             item.Name,
			PreviousQuantity: item.Quantity,
			NewQuantity:      newQuantity,
			Used:             required,
		})
	}

	return used
}

// AttachImage 為既有食譜生成圖片並更新 imageName
func (s *Service) AttachImage(ctx context.Context, recipeID, recipeName string) (string, error) {
	rec, err := s.Get(ctx, recipeID)
	if err != nil {
		return "", err
	}

	name := recipeName
	if name == "" {
		name = rec.Name
	}

	imageName := s.generator.GenerateRecipeImage(ctx, name)
	if imageName == "" {
		return "", common.ErrAIServiceError
	}

	rec.ImageName = imageName
	rec.UpdatedAt = common.FormatTime(s.now())

	doc, err := store.Encode(rec)
	if err != nil {
		return "", err
	}
	if err := s.store.Update(ctx, recipesCollection, recipeID, doc); err != nil {
		return "", err
	}

	return imageName, nil
}

// containsName 不分大小寫檢查名稱是否已存在
func containsName(names []string, target string) bool {
	for _, name := range names {
		if strings.EqualFold(name, target) {
			return true
		}
	}
	return false
}
