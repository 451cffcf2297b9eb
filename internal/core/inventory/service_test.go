package inventory

import (
	"context"
	"testing"
	"time"

	"smart-recipe-backend/internal/infrastructure/store"
)

func TestServiceCreateDefaults(t *testing.T) {
	ctx := context.Background()
	svc := NewService(store.NewMemoryStore())

	item, err := svc.Create(ctx, ItemInput{Name: "Tomato", Quantity: -2})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if item.Quantity != 0 {
		t.Errorf("negative quantity should clamp to 0, got %v", item.Quantity)
	}
	if item.Unit != "pieces" {
		t.Errorf("unit = %q, want pieces default", item.Unit)
	}
	if item.Category != CategoryProduce {
		t.Errorf("category = %v, want auto-classified Produce", item.Category)
	}

	if _, err := svc.Create(ctx, ItemInput{Name: "  "}); err == nil {
		t.Error("expected validation error for blank name")
	}
}

func TestServiceFindByName(t *testing.T) {
	ctx := context.Background()
	svc := NewService(store.NewMemoryStore())

	svc.Create(ctx, ItemInput{Name: "Spinach", Quantity: 1, Unit: "containers"})

	t.Run("exact match", func(t *testing.T) {
		item, err := svc.FindByName(ctx, "Spinach")
		if err != nil || item == nil {
			t.Fatalf("item = %v, err = %v", item, err)
		}
	})

	t.Run("case-insensitive fallback", func(t *testing.T) {
		item, err := svc.FindByName(ctx, "SPINACH")
		if err != nil || item == nil {
			t.Fatalf("item = %v, err = %v", item, err)
		}
		if item.Name != "Spinach" {
			t.Errorf("name = %q, original casing expected", item.Name)
		}
	})

	t.Run("no match returns nil without error", func(t *testing.T) {
		item, err := svc.FindByName(ctx, "Unknown")
		if err != nil {
			t.Fatalf("err = %v", err)
		}
		if item != nil {
			t.Errorf("item = %v, want nil", item)
		}
	})
}

func TestServiceApplyUpdates(t *testing.T) {
	ctx := context.Background()
	svc := NewService(store.NewMemoryStore())

	svc.Create(ctx, ItemInput{Name: "Rice", Quantity: 1, Unit: "kg"})

	result, err := svc.ApplyUpdates(ctx, []ItemInput{
		{Name: "Rice", Quantity: 2, Unit: "kg"},
		{Name: "Pasta", Quantity: 3, Unit: "containers"},
	})
	if err != nil {
		t.Fatalf("apply updates: %v", err)
	}
	if len(result.UpdatedIDs) != 2 {
		t.Fatalf("got %d updated ids, want 2", len(result.UpdatedIDs))
	}

	rice, _ := svc.FindByName(ctx, "Rice")
	if rice.Quantity != 3 {
		t.Errorf("rice quantity = %v, want 3 (summed)", rice.Quantity)
	}

	pasta, _ := svc.FindByName(ctx, "Pasta")
	if pasta == nil || pasta.Quantity != 3 {
		t.Errorf("pasta = %v, want created with quantity 3", pasta)
	}
}

func TestServiceListExpiringWithin(t *testing.T) {
	ctx := context.Background()
	svc := NewService(store.NewMemoryStore())

	in2 := time.Now().UTC().AddDate(0, 0, 2)
	in10 := time.Now().UTC().AddDate(0, 0, 10)
	svc.Create(ctx, ItemInput{Name: "Milk", Quantity: 1, Unit: "cartons", ExpirationDate: &in2})
	svc.Create(ctx, ItemInput{Name: "Frozen Peas", Quantity: 1, Unit: "containers", ExpirationDate: &in10})
	svc.Create(ctx, ItemInput{Name: "Salt", Quantity: 1, Unit: "containers"})

	expiring, err := svc.ListExpiringWithin(ctx, 3)
	if err != nil {
		t.Fatalf("list expiring: %v", err)
	}
	if len(expiring) != 1 || expiring[0].Name != "Milk" {
		t.Errorf("expiring = %v, want only Milk", expiring)
	}
}
