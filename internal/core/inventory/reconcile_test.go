package inventory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"smart-recipe-backend/internal/infrastructure/store"
)

// failingStore 包裝記憶體存儲，對指定名稱的文件寫入時回傳錯誤
type failingStore struct {
	*store.MemoryStore
	failName string
}

func (f *failingStore) Create(ctx context.Context, collection, id string, data store.Document) (string, error) {
	if name, _ := data["name"].(string); name == f.failName {
		return "", fmt.Errorf("simulated write failure")
	}
	return f.MemoryStore.Create(ctx, collection, id, data)
}

func newTestReconciler() (*Reconciler, *Service) {
	svc := NewService(store.NewMemoryStore())
	return NewReconciler(svc), svc
}

func TestReconcileCreatesNewItem(t *testing.T) {
	ctx := context.Background()
	rec, svc := newTestReconciler()

	result := rec.Reconcile(ctx, []RecognizedIngredient{
		{Name: "Avocado", Quantity: "3 pieces", EstimatedExpiration: "5 days", Confidence: 0.9},
	})

	if len(result.Ingredients) != 1 {
		t.Fatalf("got %d records, want 1", len(result.Ingredients))
	}
	record := result.Ingredients[0]
	if record.Quantity.Amount != 3.0 || record.Quantity.Unit != "pieces" {
		t.Errorf("quantity = %+v, want {3 pieces}", record.Quantity)
	}
	if record.Category != CategoryProduce {
		t.Errorf("category = %v, want Produce", record.Category)
	}
	if record.EstimatedExpiration == "" {
		t.Error("expected an expiration timestamp")
	}
	if len(result.Outcomes) != 1 || result.Outcomes[0].Action != ScanActionCreated {
		t.Errorf("outcomes = %+v, want one created", result.Outcomes)
	}

	items, _ := svc.List(ctx)
	if len(items) != 1 {
		t.Fatalf("inventory has %d items, want 1", len(items))
	}
	if items[0].Location != "fridge" {
		t.Errorf("location = %q, want fridge", items[0].Location)
	}
}

func TestReconcileMergeSameUnitSumsQuantity(t *testing.T) {
	ctx := context.Background()
	rec, svc := newTestReconciler()

	svc.Create(ctx, ItemInput{Name: "Eggs", Quantity: 2.0, Unit: "pieces"})

	result := rec.Reconcile(ctx, []RecognizedIngredient{
		{Name: "Eggs", Quantity: "3 pieces", EstimatedExpiration: "2 weeks", Confidence: 0.8},
	})

	if len(result.Ingredients) != 1 {
		t.Fatalf("got %d records, want 1", len(result.Ingredients))
	}
	if got := result.Ingredients[0].Quantity; got.Amount != 5.0 || got.Unit != "pieces" {
		t.Errorf("merged quantity = %+v, want {5 pieces}", got)
	}
	if result.Outcomes[0].Action != ScanActionMerged {
		t.Errorf("action = %v, want merged", result.Outcomes[0].Action)
	}

	items, _ := svc.List(ctx)
	if len(items) != 1 {
		t.Fatalf("inventory has %d items, want 1 after merge", len(items))
	}
	if items[0].Quantity != 5.0 {
		t.Errorf("stored quantity = %v, want 5", items[0].Quantity)
	}
}

func TestReconcileMergeUnitMismatchReplaces(t *testing.T) {
	ctx := context.Background()
	rec, svc := newTestReconciler()

	svc.Create(ctx, ItemInput{Name: "Flour", Quantity: 2.0, Unit: "pieces"})

	result := rec.Reconcile(ctx, []RecognizedIngredient{
		{Name: "Flour", Quantity: "1 kg", EstimatedExpiration: "1 month", Confidence: 0.7},
	})

	if got := result.Ingredients[0].Quantity; got.Amount != 1.0 || got.Unit != "kg" {
		t.Errorf("quantity = %+v, want {1 kg} (no conversion)", got)
	}
}

func TestReconcileMergeKeepsEarliestExpiration(t *testing.T) {
	ctx := context.Background()
	rec, svc := newTestReconciler()

	t.Run("sooner incoming date wins", func(t *testing.T) {
		later := time.Now().UTC().AddDate(0, 0, 5)
		svc.Create(ctx, ItemInput{Name: "Milk", Quantity: 1.0, Unit: "cartons", ExpirationDate: &later})

		rec.Reconcile(ctx, []RecognizedIngredient{
			{Name: "Milk", Quantity: "1 carton", EstimatedExpiration: "2 days", Confidence: 0.9},
		})

		item, _ := svc.FindByName(ctx, "Milk")
		if item.ExpirationDate == nil {
			t.Fatal("expiration lost on merge")
		}
		if !item.ExpirationDate.Before(later) {
			t.Errorf("expiration = %v, want earlier than %v", item.ExpirationDate, later)
		}
	})

	t.Run("missing existing date adopts incoming", func(t *testing.T) {
		svc.Create(ctx, ItemInput{Name: "Butter", Quantity: 1.0, Unit: "blocks"})

		rec.Reconcile(ctx, []RecognizedIngredient{
			{Name: "Butter", Quantity: "1 block", EstimatedExpiration: "3 days", Confidence: 0.9},
		})

		item, _ := svc.FindByName(ctx, "Butter")
		if item.ExpirationDate == nil {
			t.Error("expected expiration adopted from scan")
		}
	})

	t.Run("non-perishable scan keeps existing date", func(t *testing.T) {
		soon := time.Now().UTC().AddDate(0, 0, 2)
		svc.Create(ctx, ItemInput{Name: "Honey", Quantity: 1.0, Unit: "bottles", ExpirationDate: &soon})

		rec.Reconcile(ctx, []RecognizedIngredient{
			{Name: "Honey", Quantity: "1 bottle", EstimatedExpiration: "never", Confidence: 0.9},
		})

		item, _ := svc.FindByName(ctx, "Honey")
		if item.ExpirationDate == nil {
			t.Error("existing expiration should survive a non-perishable scan")
		}
	})
}

func TestReconcileMatchesCaseInsensitively(t *testing.T) {
	ctx := context.Background()
	rec, svc := newTestReconciler()

	svc.Create(ctx, ItemInput{Name: "avocado", Quantity: 1.0, Unit: "pieces"})

	rec.Reconcile(ctx, []RecognizedIngredient{
		{Name: "Avocado", Quantity: "2 pieces", EstimatedExpiration: "4 days", Confidence: 0.85},
	})

	items, _ := svc.List(ctx)
	if len(items) != 1 {
		t.Fatalf("inventory has %d items, want 1 (no duplicate)", len(items))
	}
	if items[0].Name != "avocado" {
		t.Errorf("stored name = %q, original casing should be preserved", items[0].Name)
	}
	if items[0].Quantity != 3.0 {
		t.Errorf("quantity = %v, want 3", items[0].Quantity)
	}
}

func TestReconcileMergeWritesAuditNote(t *testing.T) {
	ctx := context.Background()
	rec, svc := newTestReconciler()

	svc.Create(ctx, ItemInput{Name: "Cheese", Quantity: 2.0, Unit: "blocks"})

	rec.Reconcile(ctx, []RecognizedIngredient{
		{Name: "Cheese", Quantity: "1 block", EstimatedExpiration: "1 week", Confidence: 0.87},
	})

	item, _ := svc.FindByName(ctx, "Cheese")
	want := "Updated from scan, confidence: 0.87. Previous quantity: 2 blocks"
	if item.Notes != want {
		t.Errorf("notes = %q, want %q", item.Notes, want)
	}
}

func TestReconcileBatchPartialFailureIsolation(t *testing.T) {
	ctx := context.Background()
	db := &failingStore{MemoryStore: store.NewMemoryStore(), failName: "Bad Item"}
	svc := NewService(db)
	rec := NewReconciler(svc)

	result := rec.Reconcile(ctx, []RecognizedIngredient{
		{Name: "Apples", Quantity: "3 pieces", EstimatedExpiration: "1 week", Confidence: 0.9},
		{Name: "Bad Item", Quantity: "1 piece", EstimatedExpiration: "1 week", Confidence: 0.9},
		{Name: "Oranges", Quantity: "2 pieces", EstimatedExpiration: "1 week", Confidence: 0.9},
	})

	if len(result.Ingredients) != 2 {
		t.Fatalf("got %d successful records, want 2", len(result.Ingredients))
	}
	if result.Ingredients[0].Name != "Apples" || result.Ingredients[1].Name != "Oranges" {
		t.Errorf("successful items = %v, want Apples then Oranges", result.Ingredients)
	}

	if len(result.Outcomes) != 3 {
		t.Fatalf("got %d outcomes, want 3", len(result.Outcomes))
	}
	if result.Outcomes[1].Action != ScanActionFailed || result.Outcomes[1].Error == "" {
		t.Errorf("middle outcome = %+v, want failed with reason", result.Outcomes[1])
	}
}

func TestReconcileEmptyNameIsSkipped(t *testing.T) {
	ctx := context.Background()
	rec, _ := newTestReconciler()

	result := rec.Reconcile(ctx, []RecognizedIngredient{
		{Name: "  ", Quantity: "1 piece", EstimatedExpiration: "1 week", Confidence: 0.5},
	})

	if len(result.Ingredients) != 0 {
		t.Errorf("got %d records, want 0", len(result.Ingredients))
	}
	if len(result.Outcomes) != 1 || result.Outcomes[0].Action != ScanActionFailed {
		t.Errorf("outcomes = %+v, want one failed", result.Outcomes)
	}
}
