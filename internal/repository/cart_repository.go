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
	ErrCartItemNotFound = errors.New("cart item not found")
)

// CartRepository defines the interface for cart data access
type CartRepository interface {
	FindEntry(ctx context.Context, userID, productID, variantID uuid.UUID, size string) (*domain.CartItem, error)
	Create(ctx context.Context, item *domain.CartItem) error
	IncrementQuantity(ctx context.Context, id uuid.UUID, delta int) (*domain.CartItem, error)
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*domain.CartItem, error)
	UpdateSize(ctx context.Context, id, userID uuid.UUID, size string) (*domain.CartItem, error)
	UpdateQuantity(ctx context.Context, id, userID uuid.UUID, quantity int) (*domain.CartItem, error)
	Delete(ctx context.Context, id, userID uuid.UUID) (*domain.CartItem, error)
	DeleteEntry(ctx context.Context, userID, productID, variantID uuid.UUID, size string) error
}

type cartRepository struct {
	q DBTX
}

// NewCartRepository creates a new instance of CartRepository
func NewCartRepository(q DBTX) CartRepository {
	return &cartRepository{q: q}
}

const cartColumns = `id, user_id, product_id, variant_id, size, quantity, created_at, updated_at`

func scanCartItem(row interface{ Scan(...any) error }) (*domain.CartItem, error) {
	item := &domain.CartItem{}
	err := row.Scan(
		&item.ID,
		&item.UserID,
		&item.ProductID,
		&item.VariantID,
		&item.Size,
		&item.Quantity,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return item, nil
}

// FindEntry retrieves the cart row for a (user, product, variant, size) tuple
func (r *cartRepository) FindEntry(ctx context.Context, userID, productID, variantID uuid.UUID, size string) (*domain.CartItem, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT `+cartColumns+`
		FROM cart_items
		WHERE user_id = $1 AND product_id = $2 AND variant_id = $3 AND size = $4
	`, userID, productID, variantID, size)

	item, err := scanCartItem(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCartItemNotFound
		}
		return nil, fmt.Errorf("failed to find cart entry: %w", err)
	}
	return item, nil
}

// Create inserts a new cart item
func (r *cartRepository) Create(ctx context.Context, item *domain.CartItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	now := time.Now()
	item.CreatedAt = now
	item.UpdatedAt = now

	_, err := r.q.ExecContext(ctx, `
		INSERT INTO cart_items (id, user_id, product_id, variant_id, size, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, item.ID, item.UserID, item.ProductID, item.VariantID, item.Size, item.Quantity, item.CreatedAt, item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create cart item: %w", err)
	}
	return nil
}

// IncrementQuantity adds delta to a cart item's quantity and returns the
// updated row
func (r *cartRepository) IncrementQuantity(ctx context.Context, id uuid.UUID, delta int) (*domain.CartItem, error) {
	row := r.q.QueryRowContext(ctx, `
		UPDATE cart_items
		SET quantity = quantity + $2, updated_at = $3
		WHERE id = $1
		RETURNING `+cartColumns+`
	`, id, delta, time.Now())

	item, err := scanCartItem(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCartItemNotFound
		}
		return nil, fmt.Errorf("failed to increment cart quantity: %w", err)
	}
	return item, nil
}

// FindByUser retrieves all cart items for a user, oldest first
func (r *cartRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*domain.CartItem, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT `+cartColumns+`
		FROM cart_items
		WHERE user_id = $1
		ORDER BY created_at ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cart items: %w", err)
	}
	defer rows.Close()

	items := []*domain.CartItem{}
	for rows.Next() {
		item, err := scanCartItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cart items: %w", err)
	}
	return items, nil
}

// UpdateSize changes the size of a cart item owned by the user
func (r *cartRepository) UpdateSize(ctx context.Context, id, userID uuid.UUID, size string) (*domain.CartItem, error) {
	row := r.q.QueryRowContext(ctx, `
		UPDATE cart_items
		SET size = $3, updated_at = $4
		WHERE id = $1 AND user_id = $2
		RETURNING `+cartColumns+`
	`, id, userID, size, time.Now())

	item, err := scanCartItem(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCartItemNotFound
		}
		return nil, fmt.Errorf("failed to update cart item size: %w", err)
	}
	return item, nil
}

// UpdateQuantity sets the quantity of a cart item owned by the user
func (r *cartRepository) UpdateQuantity(ctx context.Context, id, userID uuid.UUID, quantity int) (*domain.CartItem, error) {
	row := r.q.QueryRowContext(ctx, `
		UPDATE cart_items
		SET quantity = $3, updated_at = $4
		WHERE id = $1 AND user_id = $2
		RETURNING `+cartColumns+`
	`, id, userID, quantity, time.Now())

	item, err := scanCartItem(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCartItemNotFound
		}
		return nil, fmt.Errorf("failed to update cart item quantity: %w", err)
	}
	return item, nil
}

// Delete removes a cart item owned by the user and returns the deleted row
func (r *cartRepository) Delete(ctx context.Context, id, userID uuid.UUID) (*domain.CartItem, error) {
	row := r.q.QueryRowContext(ctx, `
		DELETE FROM cart_items
		WHERE id = $1 AND user_id = $2
		RETURNING `+cartColumns+`
	`, id, userID)

	item, err := scanCartItem(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCartItemNotFound
		}
		return nil, fmt.Errorf("failed to delete cart item: %w", err)
	}
	return item, nil
}

// DeleteEntry removes the cart row for a (user, product, variant, size)
// tuple. Absence is not an error; checkout cleanup is idempotent.
func (r *cartRepository) DeleteEntry(ctx context.Context, userID, productID, variantID uuid.UUID, size string) error {
	_, err := r.q.ExecContext(ctx, `
		DELETE FROM cart_items
		WHERE user_id = $1 AND product_id = $2 AND variant_id = $3 AND size = $4
	`, userID, productID, variantID, size)
	if err != nil {
		return fmt.Errorf("failed to delete cart entry: %w", err)
	}
	return nil
}
