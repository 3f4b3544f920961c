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
	ErrProductNotFound   = errors.New("product not found")
	ErrVariantNotFound   = errors.New("variant not found")
	ErrSizeNotFound      = errors.New("size not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// ProductRepository defines the interface for catalog data access
type ProductRepository interface {
	ReplaceAll(ctx context.Context, products []*domain.Product) (int, error)
	List(ctx context.Context, search string) ([]*domain.Product, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	DecrementStock(ctx context.Context, variantID uuid.UUID, size string, quantity int) error
}

type productRepository struct {
	q DBTX
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(q DBTX) ProductRepository {
	return &productRepository{q: q}
}

// ReplaceAll deletes every product and inserts the given batch, returning
// the number of products inserted. Callers run this inside a transaction.
func (r *productRepository) ReplaceAll(ctx context.Context, products []*domain.Product) (int, error) {
	// size_stocks and variants cascade from products
	if _, err := r.q.ExecContext(ctx, `DELETE FROM products`); err != nil {
		return 0, fmt.Errorf("failed to clear products: %w", err)
	}

	now := time.Now()
	for _, product := range products {
		if product.ID == uuid.Nil {
			product.ID = uuid.New()
		}
		_, err := r.q.ExecContext(ctx, `
			INSERT INTO products (id, name, brand, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5)
		`, product.ID, product.Name, product.Brand, now, now)
		if err != nil {
			return 0, fmt.Errorf("failed to insert product: %w", err)
		}

		for pos := range product.Variants {
			variant := &product.Variants[pos]
			if variant.ID == uuid.Nil {
				variant.ID = uuid.New()
			}
			images, err := encodeStrings(variant.Images)
			if err != nil {
				return 0, err
			}
			_, err = r.q.ExecContext(ctx, `
				INSERT INTO variants (id, product_id, color, price, description, images, position, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			`, variant.ID, product.ID, variant.Color, variant.Price, variant.Description, images, pos, now)
			if err != nil {
				return 0, fmt.Errorf("failed to insert variant: %w", err)
			}

			for spos, size := range variant.Sizes {
				_, err = r.q.ExecContext(ctx, `
					INSERT INTO size_stocks (variant_id, size, stock, position)
					VALUES ($1, $2, $3, $4)
				`, variant.ID, size.Size, size.Stock, spos)
				if err != nil {
					return 0, fmt.Errorf("failed to insert size stock: %w", err)
				}
			}
		}
	}

	return len(products), nil
}

// List retrieves products with their variants and size stocks, newest
// first, optionally filtered by a case-insensitive search over name,
// brand, and variant description
func (r *productRepository) List(ctx context.Context, search string) ([]*domain.Product, error) {
	query := `
		SELECT id, name, brand, created_at, updated_at
		FROM products
	`
	args := []any{}
	if search != "" {
		query += `
		WHERE name ILIKE $1 OR brand ILIKE $1
		   OR EXISTS (SELECT 1 FROM variants v WHERE v.product_id = products.id AND v.description ILIKE $1)
		`
		args = append(args, "%"+search+"%")
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []*domain.Product{}
	ids := []uuid.UUID{}
	for rows.Next() {
		product := &domain.Product{}
		if err := rows.Scan(&product.ID, &product.Name, &product.Brand, &product.CreatedAt, &product.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
		ids = append(ids, product.ID)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	if len(products) == 0 {
		return products, nil
	}

	variantsByProduct, err := r.loadVariants(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, product := range products {
		product.Variants = variantsByProduct[product.ID]
	}

	return products, nil
}

// FindByID retrieves a product with its variants and size stocks
func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	product := &domain.Product{}
	err := r.q.QueryRowContext(ctx, `
		SELECT id, name, brand, created_at, updated_at
		FROM products
		WHERE id = $1
	`, id).Scan(&product.ID, &product.Name, &product.Brand, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	variantsByProduct, err := r.loadVariants(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	product.Variants = variantsByProduct[id]

	return product, nil
}

// DecrementStock reduces the stock for one (variant, size) entry by the
// requested quantity. The predicate guards the zero floor: if current
// stock is below the quantity nothing changes and ErrInsufficientStock
// is returned.
func (r *productRepository) DecrementStock(ctx context.Context, variantID uuid.UUID, size string, quantity int) error {
	result, err := r.q.ExecContext(ctx, `
		UPDATE size_stocks
		SET stock = stock - $3
		WHERE variant_id = $1 AND size = $2 AND stock >= $3
	`, variantID, size, quantity)
	if err != nil {
		return fmt.Errorf("failed to decrement stock: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrInsufficientStock
	}

	return nil
}

// loadVariants fetches variants and size stocks for the given products,
// preserving the stored ordering
func (r *productRepository) loadVariants(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID][]domain.Variant, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT id, product_id, color, price, description, images, created_at
		FROM variants
		WHERE product_id = ANY($1)
		ORDER BY product_id, position
	`, uuidArray(productIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to load variants: %w", err)
	}
	defer rows.Close()

	byProduct := map[uuid.UUID][]domain.Variant{}
	variantIDs := []uuid.UUID{}
	for rows.Next() {
		var variant domain.Variant
		var images []byte
		if err := rows.Scan(&variant.ID, &variant.ProductID, &variant.Color, &variant.Price,
			&variant.Description, &images, &variant.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan variant: %w", err)
		}
		if variant.Images, err = decodeStrings(images); err != nil {
			return nil, err
		}
		byProduct[variant.ProductID] = append(byProduct[variant.ProductID], variant)
		variantIDs = append(variantIDs, variant.ID)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating variants: %w", err)
	}

	variantIndex := map[uuid.UUID]*domain.Variant{}
	for productID := range byProduct {
		for i := range byProduct[productID] {
			variantIndex[byProduct[productID][i].ID] = &byProduct[productID][i]
		}
	}

	if len(variantIDs) == 0 {
		return byProduct, nil
	}

	sizeRows, err := r.q.QueryContext(ctx, `
		SELECT variant_id, size, stock
		FROM size_stocks
		WHERE variant_id = ANY($1)
		ORDER BY variant_id, position
	`, uuidArray(variantIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to load size stocks: %w", err)
	}
	defer sizeRows.Close()

	for sizeRows.Next() {
		var variantID uuid.UUID
		var size domain.SizeStock
		if err := sizeRows.Scan(&variantID, &size.Size, &size.Stock); err != nil {
			return nil, fmt.Errorf("failed to scan size stock: %w", err)
		}
		if variant, ok := variantIndex[variantID]; ok {
			variant.Sizes = append(variant.Sizes, size)
		}
	}
	if err = sizeRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating size stocks: %w", err)
	}

	return byProduct, nil
}
