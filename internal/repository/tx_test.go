package repository

import (
	"context"
	"errors"
	"testing"

	"gearshop/internal/domain"
)

func TestWithinTxRollsBackOnError(t *testing.T) {
	resetTables(t)
	manager := NewTxManager(testDB)
	ctx := context.Background()

	product := seedProduct(t, 5)
	variantID := product.Variants[0].ID
	boom := errors.New("downstream failure")

	err := manager.WithinTx(ctx, func(tx Tx) error {
		if err := tx.Products().DecrementStock(ctx, variantID, "8", 3); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected the callback error to surface, got %v", err)
	}

	found, err := NewProductRepository(testDB).FindByID(ctx, product.ID)
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if got := found.Variants[0].Sizes[0].Stock; got != 5 {
		t.Errorf("decrement should be rolled back, got stock %d", got)
	}
}

func TestWithinTxCommitsOnSuccess(t *testing.T) {
	resetTables(t)
	manager := NewTxManager(testDB)
	ctx := context.Background()

	product := seedProduct(t, 5)
	variantID := product.Variants[0].ID
	user := seedUser(t, "a@example.com")

	err := manager.WithinTx(ctx, func(tx Tx) error {
		if err := tx.Products().DecrementStock(ctx, variantID, "8", 2); err != nil {
			return err
		}
		return tx.Orders().Create(ctx, &domain.Order{
			OrderID: 1_234_567,
			UserID:  user.ID,
			Address: "12 Hill Road",
			Status:  domain.OrderStatusPaid,
		})
	})
	if err != nil {
		t.Fatalf("transaction failed: %v", err)
	}

	found, err := NewProductRepository(testDB).FindByID(ctx, product.ID)
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if got := found.Variants[0].Sizes[0].Stock; got != 3 {
		t.Errorf("expected committed stock 3, got %d", got)
	}

	exists, err := NewOrderRepository(testDB).ExistsByOrderID(ctx, 1_234_567)
	if err != nil {
		t.Fatalf("exists check failed: %v", err)
	}
	if !exists {
		t.Error("order should be committed with the stock decrement")
	}
}

func TestWithinTxIsolatesUncommittedWrites(t *testing.T) {
	resetTables(t)
	manager := NewTxManager(testDB)
	ctx := context.Background()

	product := seedProduct(t, 5)
	variantID := product.Variants[0].ID

	err := manager.WithinTx(ctx, func(tx Tx) error {
		if err := tx.Products().DecrementStock(ctx, variantID, "8", 5); err != nil {
			return err
		}
		// A reader outside the transaction still sees the old stock
		outside, err := NewProductRepository(testDB).FindByID(ctx, product.ID)
		if err != nil {
			return err
		}
		if got := outside.Variants[0].Sizes[0].Stock; got != 5 {
			t.Errorf("uncommitted decrement visible outside the transaction: %d", got)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("transaction failed: %v", err)
	}
}
