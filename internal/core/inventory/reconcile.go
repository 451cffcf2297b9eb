package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"smart-recipe-backend/internal/pkg/common"
)

// Reconciler 掃描結果合併引擎
// 將視覺辨識的結果逐項合併進現有庫存
type Reconciler struct {
	inventory *Service
	now       func() time.Time
}

// NewReconciler 創建合併引擎
func NewReconciler(inv *Service) *Reconciler {
	return &Reconciler{
		inventory: inv,
		now:       time.Now,
	}
}

// ScanResult 一次掃描批次的完整結果
// Ingredients 只含成功項；Outcomes 逐項記錄建立、合併或失敗
type ScanResult struct {
	Ingredients []ScannedRecord `json:"ingredients"`
	Outcomes    []ScanOutcome   `json:"results"`
}

// Reconcile 逐項處理辨識結果
// 單項失敗記錄後跳過，不中斷批次中的其他項
func (r *Reconciler) Reconcile(ctx context.Context, recognized []RecognizedIngredient) *ScanResult {
	result := &ScanResult{
		Ingredients: make([]ScannedRecord, 0, len(recognized)),
		Outcomes:    make([]ScanOutcome, 0, len(recognized)),
	}

	for _, rec := range recognized {
		record, action, err := r.reconcileOne(ctx, rec)
		if err != nil {
			common.LogError("掃描項目處理失敗",
				zap.String("name", rec.Name),
				zap.Error(err),
			)
			result.Outcomes = append(result.Outcomes, ScanOutcome{
				Name:   rec.Name,
				Action: ScanActionFailed,
				Error:  err.Error(),
			})
			continue
		}

		result.Ingredients = append(result.Ingredients, *record)
		result.Outcomes = append(result.Outcomes, ScanOutcome{
			Name:   rec.Name,
			Action: action,
		})
	}

	return result
}

func (r *Reconciler) reconcileOne(ctx context.Context, rec RecognizedIngredient) (*ScannedRecord, ScanAction, error) {
	if strings.TrimSpace(rec.Name) == "" {
		return nil, "", common.NewValidationError("recognized ingredient has no name")
	}

	now := r.now().UTC()
	amount, unit := ParseQuantity(rec.Quantity)
	category := ClassifyCategory(rec.Name)

	var expiration *time.Time
	if days, nonPerishable := ParseExpiration(rec.EstimatedExpiration); !nonPerishable {
		t := now.AddDate(0, 0, days)
		expiration = &t
	}

	existing, err := r.inventory.FindByName(ctx, rec.Name)
	if err != nil {
		return nil, "", err
	}

	if existing == nil {
		item := Item{
			ID:             common.GenerateUUID(),
			Name:           rec.Name,
			Category:       category,
			Quantity:       amount,
			Unit:           unit,
			ExpirationDate: expiration,
			PurchaseDate:   &now,
			Location:       "fridge",
			Notes:          fmt.Sprintf("Scanned from image, confidence: %.2f", rec.Confidence),
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := r.inventory.save(ctx, &item); err != nil {
			return nil, "", err
		}

		return &ScannedRecord{
			Name:                item.Name,
			Quantity:            Quantity{Amount: item.Quantity, Unit: item.Unit},
			EstimatedExpiration: common.FormatTimePtr(item.ExpirationDate),
			Category:            item.Category,
			Confidence:          rec.Confidence,
		}, ScanActionCreated, nil
	}

	prevQuantity := existing.Quantity
	prevUnit := existing.Unit

	// 單位相同時數量相加；不同時不做換算，直接採用新值
	if strings.EqualFold(existing.Unit, unit) {
		existing.Quantity += amount
	} else {
		existing.Quantity = amount
		existing.Unit = unit
	}
	if existing.Quantity < 0 {
		existing.Quantity = 0
	}

	// 過期時間取較早者，寧可提早提醒
	if expiration != nil {
		if existing.ExpirationDate == nil || expiration.Before(*existing.ExpirationDate) {
			existing.ExpirationDate = expiration
		}
	}

	existing.Notes = fmt.Sprintf("Updated from scan, confidence: %.2f. Previous quantity: %g %s",
		rec.Confidence, prevQuantity, prevUnit)
	existing.UpdatedAt = now

	if err := r.inventory.save(ctx, existing); err != nil {
		return nil, "", err
	}

	return &ScannedRecord{
		Name:                existing.Name,
		Quantity:            Quantity{Amount: existing.Quantity, Unit: existing.Unit},
		EstimatedExpiration: common.FormatTimePtr(existing.ExpirationDate),
		Category:            category,
		Confidence:          rec.Confidence,
	}, ScanActionMerged, nil
}
