package cart

import (
	"context"
	"errors"
	"testing"
)

func addLine(t *testing.T, svc *Service, accountID, productID string, price int64, qty int) Item {
	t.Helper()
	item, err := svc.Add(context.Background(), AddInput{
		AccountID:   accountID,
		ProductID:   productID,
		ProductName: "Trail Runner",
		UnitPrice:   price,
		Quantity:    qty,
		Size:        "42",
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	return item
}

func TestAddValidation(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	if _, err := svc.Add(ctx, AddInput{AccountID: "u1", Quantity: 1}); err == nil {
		t.Fatal("expected missing product_id to be rejected")
	}
	if _, err := svc.Add(ctx, AddInput{AccountID: "u1", ProductID: "p1", Quantity: 0}); err == nil {
		t.Fatal("expected zero quantity to be rejected")
	}
	if _, err := svc.Add(ctx, AddInput{AccountID: "u1", ProductID: "p1", Quantity: 1, UnitPrice: -1}); err == nil {
		t.Fatal("expected negative price to be rejected")
	}
}

func TestCartIsAccountScoped(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	addLine(t, svc, "u1", "p1", 4999, 2)
	addLine(t, svc, "u2", "p2", 1500, 1)

	items, err := svc.List(ctx, "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 || items[0].ProductID != "p1" {
		t.Fatalf("expected only u1's line, got %+v", items)
	}
	if items[0].Subtotal() != 9998 {
		t.Fatalf("expected subtotal 9998, got %d", items[0].Subtotal())
	}
}

func TestUpdateQuantity(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()
	item := addLine(t, svc, "u1", "p1", 4999, 2)

	if err := svc.UpdateQuantity(ctx, "u1", item.ID, 0); err == nil {
		t.Fatal("expected zero quantity to be rejected")
	}
	if err := svc.UpdateQuantity(ctx, "u1", item.ID, 5); err != nil {
		t.Fatalf("update: %v", err)
	}

	// Ownership is part of the key; another account cannot touch the line.
	if err := svc.UpdateQuantity(ctx, "u2", item.ID, 1); !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound for foreign account, got %v", err)
	}

	items, _ := svc.List(ctx, "u1")
	if items[0].Quantity != 5 {
		t.Fatalf("expected quantity 5, got %d", items[0].Quantity)
	}
}

func TestRemoveAndClear(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()
	item := addLine(t, svc, "u1", "p1", 4999, 1)
	addLine(t, svc, "u1", "p2", 1500, 1)

	if err := svc.Remove(ctx, "u2", item.ID); !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound for foreign account, got %v", err)
	}
	if err := svc.Remove(ctx, "u1", item.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}

	items, _ := svc.List(ctx, "u1")
	if len(items) != 1 {
		t.Fatalf("expected one remaining line, got %d", len(items))
	}

	if err := svc.Clear(ctx, "u1"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	items, _ = svc.List(ctx, "u1")
	if len(items) != 0 {
		t.Fatalf("expected empty cart, got %d lines", len(items))
	}
}
