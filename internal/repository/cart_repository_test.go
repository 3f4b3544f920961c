package repository

import (
	"context"
	"errors"
	"testing"

	"gearshop/internal/domain"

	"github.com/google/uuid"
)

func TestCartEntryLifecycle(t *testing.T) {
	resetTables(t)
	repo := NewCartRepository(testDB)
	ctx := context.Background()

	userID := uuid.New()
	productID := uuid.New()
	variantID := uuid.New()

	if _, err := repo.FindEntry(ctx, userID, productID, variantID, "8"); !errors.Is(err, ErrCartItemNotFound) {
		t.Fatalf("expected ErrCartItemNotFound before create, got %v", err)
	}

	item := &domain.CartItem{
		UserID:    userID,
		ProductID: productID,
		VariantID: variantID,
		Size:      "8",
		Quantity:  2,
	}
	if err := repo.Create(ctx, item); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	found, err := repo.FindEntry(ctx, userID, productID, variantID, "8")
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if found.ID != item.ID || found.Quantity != 2 {
		t.Errorf("unexpected entry: %+v", found)
	}

	bumped, err := repo.IncrementQuantity(ctx, item.ID, 3)
	if err != nil {
		t.Fatalf("increment failed: %v", err)
	}
	if bumped.Quantity != 5 {
		t.Errorf("expected quantity 5, got %d", bumped.Quantity)
	}

	updated, err := repo.UpdateSize(ctx, item.ID, userID, "9")
	if err != nil {
		t.Fatalf("update size failed: %v", err)
	}
	if updated.Size != "9" {
		t.Errorf("expected size 9, got %s", updated.Size)
	}

	// Ownership predicate: a different user cannot touch the row
	if _, err := repo.UpdateQuantity(ctx, item.ID, uuid.New(), 1); !errors.Is(err, ErrCartItemNotFound) {
		t.Errorf("expected ErrCartItemNotFound for foreign update, got %v", err)
	}
	if _, err := repo.Delete(ctx, item.ID, uuid.New()); !errors.Is(err, ErrCartItemNotFound) {
		t.Errorf("expected ErrCartItemNotFound for foreign delete, got %v", err)
	}

	deleted, err := repo.Delete(ctx, item.ID, userID)
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if deleted.ID != item.ID {
		t.Error("delete should return the removed row")
	}
}

func TestCartUniqueTupleConstraint(t *testing.T) {
	resetTables(t)
	repo := NewCartRepository(testDB)
	ctx := context.Background()

	item := &domain.CartItem{
		UserID:    uuid.New(),
		ProductID: uuid.New(),
		VariantID: uuid.New(),
		Size:      "8",
		Quantity:  1,
	}
	if err := repo.Create(ctx, item); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// The same tuple cannot be inserted twice; callers go through
	// IncrementQuantity instead
	dup := &domain.CartItem{
		UserID:    item.UserID,
		ProductID: item.ProductID,
		VariantID: item.VariantID,
		Size:      "8",
		Quantity:  1,
	}
	if err := repo.Create(ctx, dup); err == nil {
		t.Error("duplicate tuple insert should be rejected by the unique constraint")
	}

	// A different size is a different tuple
	other := &domain.CartItem{
		UserID:    item.UserID,
		ProductID: item.ProductID,
		VariantID: item.VariantID,
		Size:      "9",
		Quantity:  1,
	}
	if err := repo.Create(ctx, other); err != nil {
		t.Errorf("different size should insert cleanly: %v", err)
	}
}

func TestDeleteEntryIsIdempotent(t *testing.T) {
	resetTables(t)
	repo := NewCartRepository(testDB)
	ctx := context.Background()

	userID := uuid.New()
	productID := uuid.New()
	variantID := uuid.New()

	item := &domain.CartItem{
		UserID: userID, ProductID: productID, VariantID: variantID, Size: "8", Quantity: 1,
	}
	if err := repo.Create(ctx, item); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := repo.DeleteEntry(ctx, userID, productID, variantID, "8"); err != nil {
		t.Fatalf("first delete failed: %v", err)
	}
	// Repeating the delete, or deleting a tuple never carted, is a no-op
	if err := repo.DeleteEntry(ctx, userID, productID, variantID, "8"); err != nil {
		t.Errorf("repeat delete should be a no-op, got %v", err)
	}
	if err := repo.DeleteEntry(ctx, userID, uuid.New(), uuid.New(), "12"); err != nil {
		t.Errorf("deleting an absent tuple should be a no-op, got %v", err)
	}
}

func TestFindByUserOldestFirst(t *testing.T) {
	resetTables(t)
	repo := NewCartRepository(testDB)
	ctx := context.Background()

	userID := uuid.New()
	first := &domain.CartItem{UserID: userID, ProductID: uuid.New(), VariantID: uuid.New(), Size: "8", Quantity: 1}
	second := &domain.CartItem{UserID: userID, ProductID: uuid.New(), VariantID: uuid.New(), Size: "9", Quantity: 2}
	if err := repo.Create(ctx, first); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := repo.Create(ctx, second); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	// Another user's rows must not leak in
	if err := repo.Create(ctx, &domain.CartItem{UserID: uuid.New(), ProductID: uuid.New(), VariantID: uuid.New(), Size: "8", Quantity: 1}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	items, err := repo.FindByUser(ctx, userID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].ID != first.ID || items[1].ID != second.ID {
		t.Error("items should be ordered oldest first")
	}
}
