package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"gearshop/internal/domain"
	"gearshop/internal/repository"

	"github.com/google/uuid"
)

const (
	// Human-facing order identifiers are 7-digit numbers
	orderIDMin = 1_000_000
	orderIDMax = 9_999_999

	// Collisions are retried with a fresh draw; the attempt cap keeps the
	// loop from spinning forever on a pathologically full identifier space
	orderIDMaxAttempts = 100
)

var (
	ErrMissingUser      = errors.New("user is required")
	ErrEmptyOrder       = errors.New("order must contain at least one item")
	ErrMissingAddress   = errors.New("delivery address is required")
	ErrInvalidQuantity  = errors.New("quantity must be a positive integer")
	ErrOrderIDExhausted = errors.New("could not allocate a unique order identifier")
)

// InsufficientStockError reports a line item whose requested quantity
// exceeds the stock available for its size
type InsufficientStockError struct {
	ProductName string
	Color       string
	Size        string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s (%s) in size %s", e.ProductName, e.Color, e.Size)
}

// CheckoutItem is one purchase line in a checkout request. The descriptive
// fields are persisted as supplied; orders are an immutable receipt and do
// not re-join to the live catalog.
type CheckoutItem struct {
	ProductID uuid.UUID
	VariantID uuid.UUID
	Name      string
	Brand     string
	Color     string
	Size      string
	Quantity  int
	Price     float64
	Images    []string
}

// CheckoutRequest carries everything needed to place an order
type CheckoutRequest struct {
	Items         []CheckoutItem
	Address       string
	PaymentMethod string
	TotalAmount   float64
}

// CheckoutService defines the interface for order placement
type CheckoutService interface {
	PlaceOrder(ctx context.Context, userID uuid.UUID, req CheckoutRequest) (*domain.Order, error)
}

type checkoutService struct {
	txManager   repository.TxManager
	randOrderID func() int64
}

// NewCheckoutService creates a new instance of CheckoutService
func NewCheckoutService(txManager repository.TxManager) CheckoutService {
	return &checkoutService{
		txManager: txManager,
		randOrderID: func() int64 {
			return orderIDMin + rand.Int63n(orderIDMax-orderIDMin+1)
		},
	}
}

// PlaceOrder converts a checkout request into a persisted order. Stock
// decrements, the order insert, and cart cleanup happen inside one
// transaction; any failure rolls everything back.
func (s *checkoutService) PlaceOrder(ctx context.Context, userID uuid.UUID, req CheckoutRequest) (*domain.Order, error) {
	if userID == uuid.Nil {
		return nil, ErrMissingUser
	}
	if len(req.Items) == 0 {
		return nil, ErrEmptyOrder
	}
	if strings.TrimSpace(req.Address) == "" {
		return nil, ErrMissingAddress
	}
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
	}

	var order *domain.Order
	err := s.txManager.WithinTx(ctx, func(tx repository.Tx) error {
		// Reserve stock line by line, in the order the caller supplied
		for _, item := range req.Items {
			if err := s.reserveStock(ctx, tx, item); err != nil {
				return err
			}
		}

		orderID, err := s.allocateOrderID(ctx, tx)
		if err != nil {
			return err
		}

		order = &domain.Order{
			OrderID:       orderID,
			UserID:        userID,
			Items:         snapshotItems(req.Items),
			Address:       req.Address,
			Status:        domain.OrderStatusPaid,
			PaymentMethod: req.PaymentMethod,
			TotalAmount:   req.TotalAmount,
		}
		if err := tx.Orders().Create(ctx, order); err != nil {
			return err
		}

		// Clear the purchased tuples from the cart. A missing entry is
		// fine; the caller may have checked out items never carted.
		for _, item := range req.Items {
			if err := tx.Carts().DeleteEntry(ctx, userID, item.ProductID, item.VariantID, item.Size); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return order, nil
}

// reserveStock validates a line item against the live catalog and
// decrements its per-size stock counter
func (s *checkoutService) reserveStock(ctx context.Context, tx repository.Tx, item CheckoutItem) error {
	product, err := tx.Products().FindByID(ctx, item.ProductID)
	if err != nil {
		return err
	}

	variant := product.FindVariant(item.VariantID)
	if variant == nil {
		return repository.ErrVariantNotFound
	}

	entry := variant.FindSize(item.Size)
	if entry == nil {
		return repository.ErrSizeNotFound
	}

	if entry.Stock < item.Quantity {
		return &InsufficientStockError{
			ProductName: product.Name,
			Color:       variant.Color,
			Size:        item.Size,
		}
	}

	// The decrement is guarded in SQL as well, so a concurrent checkout
	// that drained the stock between the read and the write still fails
	// cleanly instead of going negative
	if err := tx.Products().DecrementStock(ctx, item.VariantID, item.Size, item.Quantity); err != nil {
		if errors.Is(err, repository.ErrInsufficientStock) {
			return &InsufficientStockError{
				ProductName: product.Name,
				Color:       variant.Color,
				Size:        item.Size,
			}
		}
		return err
	}

	return nil
}

// allocateOrderID draws random 7-digit identifiers until it finds a free one
func (s *checkoutService) allocateOrderID(ctx context.Context, tx repository.Tx) (int64, error) {
	for attempt := 0; attempt < orderIDMaxAttempts; attempt++ {
		candidate := s.randOrderID()
		exists, err := tx.Orders().ExistsByOrderID(ctx, candidate)
		if err != nil {
			return 0, fmt.Errorf("failed to check order identifier: %w", err)
		}
		if !exists {
			return candidate, nil
		}
	}
	return 0, ErrOrderIDExhausted
}

func snapshotItems(items []CheckoutItem) []domain.OrderItem {
	snapshot := make([]domain.OrderItem, len(items))
	for i, item := range items {
		snapshot[i] = domain.OrderItem{
			ProductID: item.ProductID,
			VariantID: item.VariantID,
			Name:      item.Name,
			Brand:     item.Brand,
			Color:     item.Color,
			Size:      item.Size,
			Quantity:  item.Quantity,
			Price:     item.Price,
			Images:    item.Images,
		}
	}
	return snapshot
}
