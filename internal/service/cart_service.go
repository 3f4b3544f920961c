package service

import (
	"context"
	"errors"
	"fmt"

	"gearshop/internal/domain"
	"gearshop/internal/media"
	"gearshop/internal/repository"

	"github.com/google/uuid"
)

// AddToCartRequest carries one add-to-cart action. RemoveFromWishlist is
// set when the item is being moved over from the wishlist.
type AddToCartRequest struct {
	ProductID          uuid.UUID
	VariantID          uuid.UUID
	Size               string
	Quantity           int
	RemoveFromWishlist bool
}

// CartEntry is a cart item enriched with live catalog data. Price, stock
// and images are always fetched fresh; carts show current availability,
// not a snapshot.
type CartEntry struct {
	ID             uuid.UUID `json:"id"`
	ProductID      uuid.UUID `json:"product_id"`
	VariantID      uuid.UUID `json:"variant_id"`
	Name           string    `json:"name"`
	Brand          string    `json:"brand"`
	Color          string    `json:"color"`
	Size           string    `json:"size"`
	Quantity       int       `json:"quantity"`
	Price          float64   `json:"price"`
	Images         []string  `json:"images"`
	Stock          int       `json:"stock"`
	AvailableSizes []string  `json:"available_sizes"`
}

// CartService defines the interface for cart business logic
type CartService interface {
	AddToCart(ctx context.Context, userID uuid.UUID, req AddToCartRequest) (*domain.CartItem, error)
	GetCart(ctx context.Context, userID uuid.UUID) ([]*CartEntry, error)
	GetCartSize(ctx context.Context, userID uuid.UUID) (int, error)
	UpdateSize(ctx context.Context, userID, itemID uuid.UUID, size string) (*domain.CartItem, error)
	UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*domain.CartItem, error)
	RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*domain.CartItem, error)
}

type cartService struct {
	txManager   repository.TxManager
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	resolver    *media.Resolver
}

// NewCartService creates a new instance of CartService
func NewCartService(
	txManager repository.TxManager,
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	resolver *media.Resolver,
) CartService {
	return &cartService{
		txManager:   txManager,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		resolver:    resolver,
	}
}

// AddToCart upserts a cart entry: a repeated (product, variant, size)
// tuple increments quantity instead of duplicating. The optional wishlist
// removal rides in the same transaction.
func (s *cartService) AddToCart(ctx context.Context, userID uuid.UUID, req AddToCartRequest) (*domain.CartItem, error) {
	if req.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	var result *domain.CartItem
	err := s.txManager.WithinTx(ctx, func(tx repository.Tx) error {
		// Make sure the tuple points at a real size before storing it
		product, err := tx.Products().FindByID(ctx, req.ProductID)
		if err != nil {
			return err
		}
		variant := product.FindVariant(req.VariantID)
		if variant == nil {
			return repository.ErrVariantNotFound
		}
		if variant.FindSize(req.Size) == nil {
			return repository.ErrSizeNotFound
		}

		existing, err := tx.Carts().FindEntry(ctx, userID, req.ProductID, req.VariantID, req.Size)
		switch {
		case err == nil:
			result, err = tx.Carts().IncrementQuantity(ctx, existing.ID, req.Quantity)
			if err != nil {
				return err
			}
		case errors.Is(err, repository.ErrCartItemNotFound):
			item := &domain.CartItem{
				UserID:    userID,
				ProductID: req.ProductID,
				VariantID: req.VariantID,
				Size:      req.Size,
				Quantity:  req.Quantity,
			}
			if err := tx.Carts().Create(ctx, item); err != nil {
				return err
			}
			result = item
		default:
			return err
		}

		if req.RemoveFromWishlist {
			wishlistItem, err := tx.Wishlists().Find(ctx, userID, req.ProductID, req.VariantID)
			if err != nil {
				return err
			}
			if err := tx.Wishlists().Delete(ctx, wishlistItem.ID); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// GetCart returns the user's cart enriched with live catalog data. Entries
// whose product, variant or size no longer exists are skipped rather than
// failing the whole view.
func (s *cartService) GetCart(ctx context.Context, userID uuid.UUID) ([]*CartEntry, error) {
	items, err := s.cartRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	products := map[uuid.UUID]*domain.Product{}
	entries := []*CartEntry{}
	for _, item := range items {
		product, ok := products[item.ProductID]
		if !ok {
			product, err = s.productRepo.FindByID(ctx, item.ProductID)
			if err != nil {
				if errors.Is(err, repository.ErrProductNotFound) {
					continue
				}
				return nil, fmt.Errorf("failed to enrich cart item: %w", err)
			}
			products[item.ProductID] = product
		}

		variant := product.FindVariant(item.VariantID)
		if variant == nil {
			continue
		}
		entry := variant.FindSize(item.Size)
		if entry == nil {
			continue
		}

		entries = append(entries, &CartEntry{
			ID:             item.ID,
			ProductID:      item.ProductID,
			VariantID:      item.VariantID,
			Name:           product.Name,
			Brand:          product.Brand,
			Color:          variant.Color,
			Size:           item.Size,
			Quantity:       item.Quantity,
			Price:          variant.Price,
			Images:         s.resolver.URLs(variant.Images),
			Stock:          entry.Stock,
			AvailableSizes: variant.AvailableSizes(),
		})
	}

	return entries, nil
}

// GetCartSize returns the total quantity across resolvable cart entries
func (s *cartService) GetCartSize(ctx context.Context, userID uuid.UUID) (int, error) {
	entries, err := s.GetCart(ctx, userID)
	if err != nil {
		return 0, err
	}
	size := 0
	for _, entry := range entries {
		size += entry.Quantity
	}
	return size, nil
}

// UpdateSize changes the size of an owned cart entry
func (s *cartService) UpdateSize(ctx context.Context, userID, itemID uuid.UUID, size string) (*domain.CartItem, error) {
	if size == "" {
		return nil, repository.ErrSizeNotFound
	}
	return s.cartRepo.UpdateSize(ctx, itemID, userID, size)
}

// UpdateQuantity sets the quantity of an owned cart entry
func (s *cartService) UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*domain.CartItem, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	return s.cartRepo.UpdateQuantity(ctx, itemID, userID, quantity)
}

// RemoveItem deletes an owned cart entry and returns the removed row
func (s *cartService) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*domain.CartItem, error) {
	return s.cartRepo.Delete(ctx, itemID, userID)
}
