package inventory

import "time"

// Category 食材分類
type Category string

const (
	CategoryProduce Category = "Produce"
	CategoryProtein Category = "Protein"
	CategoryDairy   Category = "Dairy"
	CategoryGrains  Category = "Grains"
	CategorySpices  Category = "Spices"
	CategoryOther   Category = "Other"
)

// Item 庫存中的一項食材
type Item struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Category       Category   `json:"category"`
	Quantity       float64    `json:"quantity"`
	Unit           string     `json:"unit"`
	ExpirationDate *time.Time `json:"expiration_date,omitempty"`
	PurchaseDate   *time.Time `json:"purchase_date,omitempty"`
	Location       string     `json:"location,omitempty"`
	Notes          string     `json:"notes,omitempty"`
	ImageURL       string     `json:"image_url,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// ItemInput 建立或更新食材的輸入
type ItemInput struct {
	Name           string     `json:"name" binding:"required"`
	Category       Category   `json:"category"`
	Quantity       float64    `json:"quantity"`
	Unit           string     `json:"unit"`
	ExpirationDate *time.Time `json:"expiration_date,omitempty"`
	PurchaseDate   *time.Time `json:"purchase_date,omitempty"`
	Location       string     `json:"location,omitempty"`
	Notes          string     `json:"notes,omitempty"`
}

// Quantity 結構化數量，回傳給客戶端時一律用這個形式
type Quantity struct {
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
}

// ItemView 回傳給客戶端的食材表示，數量以結構化形式呈現
type ItemView struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Category       Category   `json:"category"`
	Quantity       Quantity   `json:"quantity"`
	ExpirationDate *time.Time `json:"expiration_date,omitempty"`
	PurchaseDate   *time.Time `json:"purchase_date,omitempty"`
	Location       string     `json:"location,omitempty"`
	Notes          string     `json:"notes,omitempty"`
	ImageURL       string     `json:"image_url,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// View 轉為客戶端表示
func (i *Item) View() ItemView {
	return ItemView{
		ID:             i.ID,
		Name:           i.Name,
		Category:       i.Category,
		Quantity:       Quantity{Amount: i.Quantity, Unit: i.Unit},
		ExpirationDate: i.ExpirationDate,
		PurchaseDate:   i.PurchaseDate,
		Location:       i.Location,
		Notes:          i.Notes,
		ImageURL:       i.ImageURL,
		CreatedAt:      i.CreatedAt,
		UpdatedAt:      i.UpdatedAt,
	}
}

// RecognizedIngredient 視覺辨識回傳的一項食材
type RecognizedIngredient struct {
	Name                string  `json:"name"`
	Quantity            string  `json:"quantity"`
	EstimatedExpiration string  `json:"estimatedExpiration"`
	Confidence          float64 `json:"confidence"`
}

// ScannedRecord 掃描後回傳給客戶端的單項結果
// 數量為合併後的值，過期時間為 RFC3339 UTC 字串
type ScannedRecord struct {
	Name                string   `json:"name"`
	Quantity            Quantity `json:"quantity"`
	EstimatedExpiration string   `json:"estimatedExpiration,omitempty"`
	Category            Category `json:"category"`
	Confidence          float64  `json:"confidence"`
}

// ScanAction 掃描處理結果的種類
type ScanAction string

const (
	ScanActionCreated ScanAction = "created"
	ScanActionMerged  ScanAction = "merged"
	ScanActionFailed  ScanAction = "failed"
)

// ScanOutcome 掃描批次中單項的處理結果
type ScanOutcome struct {
	Name   string     `json:"name"`
	Action ScanAction `json:"action"`
	Error  string     `json:"error,omitempty"`
}
