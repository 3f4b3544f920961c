package service

import (
	"context"
	"errors"

	"gearshop/internal/domain"
	"gearshop/internal/media"
	"gearshop/internal/repository"

	"github.com/google/uuid"
)

var ErrInvalidOrderStatus = errors.New("invalid order status")

// OrderService defines the interface for order listing and fulfilment
type OrderService interface {
	GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	GetUserOrders(ctx context.Context, userID uuid.UUID, filter repository.ListFilter) ([]*domain.OrderSummary, int, error)
	GetAllOrders(ctx context.Context, filter repository.ListFilter) ([]*domain.OrderSummary, int, error)
	GetRiderOrders(ctx context.Context, riderUserID uuid.UUID, filter repository.ListFilter) ([]*domain.OrderSummary, int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*domain.Order, error)
	AssignRider(ctx context.Context, id, riderID uuid.UUID) (*domain.Order, error)
	ListRiders(ctx context.Context) ([]*domain.RiderAccount, error)
}

type orderService struct {
	orderRepo repository.OrderRepository
	riderRepo repository.RiderRepository
	resolver  *media.Resolver
}

// NewOrderService creates a new instance of OrderService
func NewOrderService(
	orderRepo repository.OrderRepository,
	riderRepo repository.RiderRepository,
	resolver *media.Resolver,
) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		riderRepo: riderRepo,
		resolver:  resolver,
	}
}

// GetOrder retrieves an order with its snapshot items, image references
// resolved to URLs
func (s *orderService) GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.resolveItemImages(order)
	return order, nil
}

// GetUserOrders returns a user's order history, newest first
func (s *orderService) GetUserOrders(ctx context.Context, userID uuid.UUID, filter repository.ListFilter) ([]*domain.OrderSummary, int, error) {
	return s.orderRepo.ListByUser(ctx, userID, filter)
}

// GetAllOrders returns every order with rider details, newest first
func (s *orderService) GetAllOrders(ctx context.Context, filter repository.ListFilter) ([]*domain.OrderSummary, int, error) {
	return s.orderRepo.ListAll(ctx, filter)
}

// GetRiderOrders resolves the rider backing the given user account and
// returns the orders assigned to it
func (s *orderService) GetRiderOrders(ctx context.Context, riderUserID uuid.UUID, filter repository.ListFilter) ([]*domain.OrderSummary, int, error) {
	rider, err := s.riderRepo.FindByUserID(ctx, riderUserID)
	if err != nil {
		return nil, 0, err
	}
	return s.orderRepo.ListByRider(ctx, rider.ID, filter)
}

// UpdateStatus moves an order to a new status from the closed enumeration
func (s *orderService) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*domain.Order, error) {
	next := domain.OrderStatus(status)
	if !next.IsValid() {
		return nil, ErrInvalidOrderStatus
	}
	order, err := s.orderRepo.UpdateStatus(ctx, id, next)
	if err != nil {
		return nil, err
	}
	s.resolveItemImages(order)
	return order, nil
}

// AssignRider attaches an existing rider to an order
func (s *orderService) AssignRider(ctx context.Context, id, riderID uuid.UUID) (*domain.Order, error) {
	if _, err := s.riderRepo.FindByID(ctx, riderID); err != nil {
		return nil, err
	}
	order, err := s.orderRepo.AssignRider(ctx, id, riderID)
	if err != nil {
		return nil, err
	}
	s.resolveItemImages(order)
	return order, nil
}

// ListRiders returns every rider joined with its user account
func (s *orderService) ListRiders(ctx context.Context) ([]*domain.RiderAccount, error) {
	return s.riderRepo.List(ctx)
}

func (s *orderService) resolveItemImages(order *domain.Order) {
	for i := range order.Items {
		order.Items[i].Images = s.resolver.URLs(order.Items[i].Images)
	}
}
