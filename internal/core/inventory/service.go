package inventory

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"smart-recipe-backend/internal/infrastructure/store"
	"smart-recipe-backend/internal/pkg/common"
)

// ingredientsCollection 食材集合名稱
const ingredientsCollection = "ingredients"

// Service 庫存服務
type Service struct {
	store store.DocumentStore
}

// NewService 創建庫存服務
func NewService(db store.DocumentStore) *Service {
	return &Service{store: db}
}

// Create 新增一項食材
func (s *Service) Create(ctx context.Context, input ItemInput) (*Item, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, common.NewValidationError("ingredient name is required")
	}

	now := time.Now().UTC()
	item := Item{
		ID:             common.GenerateUUID(),
		Name:           input.Name,
		Category:       input.Category,
		Quantity:       input.Quantity,
		Unit:           input.Unit,
		ExpirationDate: normalizeTime(input.ExpirationDate),
		PurchaseDate:   normalizeTime(input.PurchaseDate),
		Location:       input.Location,
		Notes:          input.Notes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if item.Quantity < 0 {
		item.Quantity = 0
	}
	if item.Unit == "" {
		item.Unit = "pieces"
	}
	if item.Category == "" {
		item.Category = ClassifyCategory(item.Name)
	}

	if err := s.save(ctx, &item); err != nil {
		return nil, err
	}

	common.LogInfo("新增食材",
		zap.String("name", item.Name),
		zap.String("category", string(item.Category)),
	)
	return &item, nil
}

// Get 讀取單項食材
func (s *Service) Get(ctx context.Context, id string) (*Item, error) {
	doc, err := s.store.Get(ctx, ingredientsCollection, id)
	if err != nil {
		return nil, err
	}

	var item Item
	if err := store.Decode(doc, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// List 列出所有食材
func (s *Service) List(ctx context.Context) ([]Item, error) {
	docs, err := s.store.List(ctx, ingredientsCollection)
	if err != nil {
		return nil, err
	}

	// 單筆解析失敗時略過，避免一筆壞資料拖垮整個清單
	items := make([]Item, 0, len(docs))
	for _, doc := range docs {
		var item Item
		if err := store.Decode(doc, &item); err != nil {
			common.LogWarn("略過無法解析的食材文件", zap.Error(err))
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

// ItemUpdate 部分更新，nil 欄位表示不變
type ItemUpdate struct {
	Name           *string    `json:"name,omitempty"`
	Category       *Category  `json:"category,omitempty"`
	Quantity       *float64   `json:"quantity,omitempty"`
	Unit           *string    `json:"unit,omitempty"`
	ExpirationDate *time.Time `json:"expiration_date,omitempty"`
	PurchaseDate   *time.Time `json:"purchase_date,omitempty"`
	Location       *string    `json:"location,omitempty"`
	Notes          *string    `json:"notes,omitempty"`
	ImageURL       *string    `json:"image_url,omitempty"`
}

// Update 更新食材，只套用有提供的欄位
func (s *Service) Update(ctx context.Context, id string, update ItemUpdate) (*Item, error) {
	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		item.Name = *update.Name
	}
	if update.Category != nil {
		item.Category = *update.Category
	}
	if update.Quantity != nil {
		item.Quantity = *update.Quantity
		if item.Quantity < 0 {
			item.Quantity = 0
		}
	}
	if update.Unit != nil {
		item.Unit = *update.Unit
	}
	if update.ExpirationDate != nil {
		item.ExpirationDate = normalizeTime(update.ExpirationDate)
	}
	if update.PurchaseDate != nil {
		item.PurchaseDate = normalizeTime(update.PurchaseDate)
	}
	if update.Location != nil {
		item.Location = *update.Location
	}
	if update.Notes != nil {
		item.Notes = *update.Notes
	}
	if update.ImageURL != nil {
		item.ImageURL = *update.ImageURL
	}
	item.UpdatedAt = time.Now().UTC()

	if err := s.save(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Delete 刪除食材
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, ingredientsCollection, id)
}

// FindByName 尋找同名食材：先精確比對，再不分大小寫線性掃描
// 找不到時回傳 (nil, nil)
func (s *Service) FindByName(ctx context.Context, name string) (*Item, error) {
	docs, err := s.store.Query(ctx, ingredientsCollection,
		store.Filter{Field: "name", Op: "==", Value: name})
	if err != nil {
		return nil, err
	}
	if len(docs) > 0 {
		var item Item
		if err := store.Decode(docs[0], &item); err != nil {
			return nil, err
		}
		return &item, nil
	}

	items, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	lower := strings.ToLower(name)
	for i := range items {
		if strings.ToLower(items[i].Name) == lower {
			return &items[i], nil
		}
	}
	return nil, nil
}

// ListExpiringWithin 列出指定天數內到期（含已過期）的食材
func (s *Service) ListExpiringWithin(ctx context.Context, days int) ([]Item, error) {
	items, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	cutoff := time.Now().UTC().AddDate(0, 0, days)
	expiring := make([]Item, 0)
	for _, item := range items {
		if item.ExpirationDate == nil {
			continue
		}
		if !item.ExpirationDate.After(cutoff) {
			expiring = append(expiring, item)
		}
	}
	return expiring, nil
}

// BatchResult 批次更新結果
type BatchResult struct {
	UpdatedIDs []string `json:"updated_ingredient_ids"`
	Failed     []string `json:"failed,omitempty"`
}

// ApplyUpdates 批次新增或合併食材（手動編輯端點）
// 同名食材把數量相加，其餘欄位覆寫；單項失敗不影響其他項
func (s *Service) ApplyUpdates(ctx context.Context, inputs []ItemInput) (*BatchResult, error) {
	result := &BatchResult{UpdatedIDs: make([]string, 0, len(inputs))}
	now := time.Now().UTC()

	for _, input := range inputs {
		existing, err := s.FindByName(ctx, input.Name)
		if err != nil {
			common.LogError("批次更新時查詢失敗",
				zap.String("name", input.Name), zap.Error(err))
			result.Failed = append(result.Failed, input.Name)
			continue
		}

		if existing != nil {
			existing.Quantity += input.Quantity
			if existing.Quantity < 0 {
				existing.Quantity = 0
			}
			if input.Unit != "" {
				existing.Unit = input.Unit
			}
			if input.Category != "" {
				existing.Category = input.Category
			}
			if input.ExpirationDate != nil {
				existing.ExpirationDate = normalizeTime(input.ExpirationDate)
			}
			if input.Location != "" {
				existing.Location = input.Location
			}
			if input.Notes != "" {
				existing.Notes = input.Notes
			}
			existing.UpdatedAt = now

			if err := s.save(ctx, existing); err != nil {
				common.LogError("批次更新時寫入失敗",
					zap.String("name", input.Name), zap.Error(err))
				result.Failed = append(result.Failed, input.Name)
				continue
			}
			result.UpdatedIDs = append(result.UpdatedIDs, existing.ID)
			continue
		}

		created, err := s.Create(ctx, input)
		if err != nil {
			common.LogError("批次更新時新增失敗",
				zap.String("name", input.Name), zap.Error(err))
			result.Failed = append(result.Failed, input.Name)
			continue
		}
		result.UpdatedIDs = append(result.UpdatedIDs, created.ID)
	}

	return result, nil
}

// save 將食材寫入存儲，已存在則覆寫全部欄位
func (s *Service) save(ctx context.Context, item *Item) error {
	doc, err := store.Encode(item)
	if err != nil {
		return err
	}

	if err := s.store.Update(ctx, ingredientsCollection, item.ID, doc); err != nil {
		if common.IsNotFoundError(err) {
			_, err = s.store.Create(ctx, ingredientsCollection, item.ID, doc)
		}
		return err
	}
	return nil
}

func normalizeTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
