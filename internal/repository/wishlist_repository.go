package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gearshop/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrWishlistItemNotFound = errors.New("wishlist item not found")
)

// WishlistRepository defines the interface for wishlist data access
type WishlistRepository interface {
	Find(ctx context.Context, userID, productID, variantID uuid.UUID) (*domain.WishlistItem, error)
	Create(ctx context.Context, item *domain.WishlistItem) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*domain.WishlistItem, error)
}

type wishlistRepository struct {
	q DBTX
}

// NewWishlistRepository creates a new instance of WishlistRepository
func NewWishlistRepository(q DBTX) WishlistRepository {
	return &wishlistRepository{q: q}
}

// Find retrieves the wishlist row for a (user, product, variant) tuple
func (r *wishlistRepository) Find(ctx context.Context, userID, productID, variantID uuid.UUID) (*domain.WishlistItem, error) {
	item := &domain.WishlistItem{}
	err := r.q.QueryRowContext(ctx, `
		SELECT id, user_id, product_id, variant_id, created_at
		FROM wishlist_items
		WHERE user_id = $1 AND product_id = $2 AND variant_id = $3
	`, userID, productID, variantID).Scan(&item.ID, &item.UserID, &item.ProductID, &item.VariantID, &item.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrWishlistItemNotFound
		}
		return nil, fmt.Errorf("failed to find wishlist item: %w", err)
	}
	return item, nil
}

// Create inserts a new wishlist item
func (r *wishlistRepository) Create(ctx context.Context, item *domain.WishlistItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	item.CreatedAt = time.Now()

	_, err := r.q.ExecContext(ctx, `
		INSERT INTO wishlist_items (id, user_id, product_id, variant_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, item.ID, item.UserID, item.ProductID, item.VariantID, item.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create wishlist item: %w", err)
	}
	return nil
}

// Delete removes a wishlist item by ID
func (r *wishlistRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.q.ExecContext(ctx, `DELETE FROM wishlist_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete wishlist item: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrWishlistItemNotFound
	}
	return nil
}

// FindByUser retrieves all wishlist items for a user, newest first
func (r *wishlistRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*domain.WishlistItem, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT id, user_id, product_id, variant_id, created_at
		FROM wishlist_items
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list wishlist items: %w", err)
	}
	defer rows.Close()

	items := []*domain.WishlistItem{}
	for rows.Next() {
		item := &domain.WishlistItem{}
		if err := rows.Scan(&item.ID, &item.UserID, &item.ProductID, &item.VariantID, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan wishlist item: %w", err)
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating wishlist items: %w", err)
	}
	return items, nil
}
