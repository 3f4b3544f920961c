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
	ErrOrderNotFound = errors.New("order not found")
)

// OrderRepository defines the interface for order data access
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	ExistsByOrderID(ctx context.Context, orderID int64) (bool, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID, filter ListFilter) ([]*domain.OrderSummary, int, error)
	ListAll(ctx context.Context, filter ListFilter) ([]*domain.OrderSummary, int, error)
	ListByRider(ctx context.Context, riderID uuid.UUID, filter ListFilter) ([]*domain.OrderSummary, int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) (*domain.Order, error)
	AssignRider(ctx context.Context, id, riderID uuid.UUID) (*domain.Order, error)
}

type orderRepository struct {
	q DBTX
}

// NewOrderRepository creates a new instance of OrderRepository
func NewOrderRepository(q DBTX) OrderRepository {
	return &orderRepository{q: q}
}

// Create inserts an order and its line-item snapshot
func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now

	_, err := r.q.ExecContext(ctx, `
		INSERT INTO orders (id, order_id, user_id, address, status, rider_id, payment_method, total_amount, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, order.ID, order.OrderID, order.UserID, order.Address, order.Status,
		order.RiderID, order.PaymentMethod, order.TotalAmount, order.CreatedAt, order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	for pos, item := range order.Items {
		images, err := encodeStrings(item.Images)
		if err != nil {
			return err
		}
		_, err = r.q.ExecContext(ctx, `
			INSERT INTO order_items (order_id, position, product_id, variant_id, name, brand, color, size, quantity, price, images)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		`, order.ID, pos, item.ProductID, item.VariantID, item.Name, item.Brand,
			item.Color, item.Size, item.Quantity, item.Price, images)
		if err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	return nil
}

// ExistsByOrderID reports whether an order already carries the given
// human-facing identifier
func (r *orderRepository) ExistsByOrderID(ctx context.Context, orderID int64) (bool, error) {
	var exists bool
	err := r.q.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM orders WHERE order_id = $1)
	`, orderID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check order ID: %w", err)
	}
	return exists, nil
}

// FindByID retrieves an order with its line items
func (r *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	order := &domain.Order{}
	var riderID uuid.NullUUID
	err := r.q.QueryRowContext(ctx, `
		SELECT id, order_id, user_id, address, status, rider_id, payment_method, total_amount, created_at, updated_at
		FROM orders
		WHERE id = $1
	`, id).Scan(&order.ID, &order.OrderID, &order.UserID, &order.Address, &order.Status,
		&riderID, &order.PaymentMethod, &order.TotalAmount, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to find order by ID: %w", err)
	}
	if riderID.Valid {
		order.RiderID = &riderID.UUID
	}

	items, err := r.loadItems(ctx, id)
	if err != nil {
		return nil, err
	}
	order.Items = items

	return order, nil
}

func (r *orderRepository) loadItems(ctx context.Context, orderID uuid.UUID) ([]domain.OrderItem, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT product_id, variant_id, name, brand, color, size, quantity, price, images
		FROM order_items
		WHERE order_id = $1
		ORDER BY position
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order items: %w", err)
	}
	defer rows.Close()

	items := []domain.OrderItem{}
	for rows.Next() {
		var item domain.OrderItem
		var images []byte
		if err := rows.Scan(&item.ProductID, &item.VariantID, &item.Name, &item.Brand,
			&item.Color, &item.Size, &item.Quantity, &item.Price, &images); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		if item.Images, err = decodeStrings(images); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order items: %w", err)
	}
	return items, nil
}

const orderSummarySelect = `
	SELECT o.id, o.order_id, o.user_id, u.name, o.address, o.status, o.payment_method, o.total_amount,
	       (SELECT COUNT(*) FROM order_items oi WHERE oi.order_id = o.id) AS item_count,
	       o.rider_id, COALESCE(ru.name, ''), COALESCE(rd.phone_number, ''), o.created_at
	FROM orders o
	JOIN users u ON u.id = o.user_id
	LEFT JOIN riders rd ON rd.id = o.rider_id
	LEFT JOIN users ru ON ru.id = rd.user_id
`

// listSummaries runs a filtered summary query. The where clause operates
// on the aliased orders table o; args are its parameters.
func (r *orderRepository) listSummaries(ctx context.Context, where string, args []any, filter ListFilter) ([]*domain.OrderSummary, int, error) {
	filter = filter.normalize()

	from, to := dateBounds(filter.Period, time.Now())
	if from != nil {
		args = append(args, *from)
		where += fmt.Sprintf(" AND o.created_at >= $%d", len(args))
	}
	if to != nil {
		args = append(args, *to)
		where += fmt.Sprintf(" AND o.created_at <= $%d", len(args))
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM orders o WHERE ` + where
	if err := r.q.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	offset := (filter.Page - 1) * filter.PageSize
	args = append(args, filter.PageSize, offset)
	query := fmt.Sprintf(`%s WHERE %s ORDER BY o.created_at DESC LIMIT $%d OFFSET $%d`,
		orderSummarySelect, where, len(args)-1, len(args))

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	summaries := []*domain.OrderSummary{}
	for rows.Next() {
		s := &domain.OrderSummary{}
		var riderID uuid.NullUUID
		if err := rows.Scan(&s.ID, &s.OrderID, &s.UserID, &s.UserName, &s.Address, &s.Status,
			&s.PaymentMethod, &s.TotalAmount, &s.ItemCount, &riderID, &s.RiderName,
			&s.RiderPhoneNumber, &s.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan order summary: %w", err)
		}
		if riderID.Valid {
			s.RiderID = &riderID.UUID
		}
		summaries = append(summaries, s)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating order summaries: %w", err)
	}

	return summaries, total, nil
}

// ListByUser retrieves a user's order history, newest first
func (r *orderRepository) ListByUser(ctx context.Context, userID uuid.UUID, filter ListFilter) ([]*domain.OrderSummary, int, error) {
	return r.listSummaries(ctx, "o.user_id = $1", []any{userID}, filter)
}

// ListAll retrieves every order with rider details, newest first
func (r *orderRepository) ListAll(ctx context.Context, filter ListFilter) ([]*domain.OrderSummary, int, error) {
	return r.listSummaries(ctx, "TRUE", nil, filter)
}

// ListByRider retrieves orders assigned to a rider, newest first
func (r *orderRepository) ListByRider(ctx context.Context, riderID uuid.UUID, filter ListFilter) ([]*domain.OrderSummary, int, error) {
	return r.listSummaries(ctx, "o.rider_id = $1", []any{riderID}, filter)
}

// UpdateStatus sets an order's status and returns the updated order
func (r *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) (*domain.Order, error) {
	result, err := r.q.ExecContext(ctx, `
		UPDATE orders
		SET status = $2, updated_at = $3
		WHERE id = $1
	`, id, status, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, ErrOrderNotFound
	}
	return r.FindByID(ctx, id)
}

// AssignRider attaches a rider to an order and returns the updated order
func (r *orderRepository) AssignRider(ctx context.Context, id, riderID uuid.UUID) (*domain.Order, error) {
	result, err := r.q.ExecContext(ctx, `
		UPDATE orders
		SET rider_id = $2, updated_at = $3
		WHERE id = $1
	`, id, riderID, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to assign rider: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, ErrOrderNotFound
	}
	return r.FindByID(ctx, id)
}
