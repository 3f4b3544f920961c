package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// Tx exposes transaction-scoped repositories. Every call made through it
// shares one storage transaction and commits or aborts as a whole.
type Tx interface {
	Products() ProductRepository
	Carts() CartRepository
	Orders() OrderRepository
	Wishlists() WishlistRepository
}

// TxManager runs a function inside a transaction scope, rolling back on
// any error before surfacing it. Leaving a transaction open on error is
// not an option with this shape.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(tx Tx) error) error
}

type sqlTx struct {
	q DBTX
}

func (t sqlTx) Products() ProductRepository   { return NewProductRepository(t.q) }
func (t sqlTx) Carts() CartRepository         { return NewCartRepository(t.q) }
func (t sqlTx) Orders() OrderRepository       { return NewOrderRepository(t.q) }
func (t sqlTx) Wishlists() WishlistRepository { return NewWishlistRepository(t.q) }

type sqlTxManager struct {
	db *sql.DB
}

// NewTxManager creates a TxManager backed by database/sql transactions
func NewTxManager(db *sql.DB) TxManager {
	return &sqlTxManager{db: db}
}

func (m *sqlTxManager) WithinTx(ctx context.Context, fn func(tx Tx) error) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(sqlTx{q: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("tx error: %w; rollback error: %v", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
