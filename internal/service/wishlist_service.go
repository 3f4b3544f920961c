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

// WishlistEntry is a wishlist item enriched with live catalog data
type WishlistEntry struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"product_id"`
	VariantID uuid.UUID `json:"variant_id"`
	Name      string    `json:"name"`
	Brand     string    `json:"brand"`
	Color     string    `json:"color"`
	Price     float64   `json:"price"`
	Images    []string  `json:"images"`
}

// WishlistService defines the interface for wishlist business logic
type WishlistService interface {
	Toggle(ctx context.Context, userID, productID, variantID uuid.UUID) (added bool, err error)
	GetWishlist(ctx context.Context, userID uuid.UUID) ([]*WishlistEntry, error)
}

type wishlistService struct {
	wishlistRepo repository.WishlistRepository
	productRepo  repository.ProductRepository
	resolver     *media.Resolver
}

// NewWishlistService creates a new instance of WishlistService
func NewWishlistService(
	wishlistRepo repository.WishlistRepository,
	productRepo repository.ProductRepository,
	resolver *media.Resolver,
) WishlistService {
	return &wishlistService{
		wishlistRepo: wishlistRepo,
		productRepo:  productRepo,
		resolver:     resolver,
	}
}

// Toggle adds the variant to the wishlist, or removes it when it is
// already there. Returns whether the variant ended up wishlisted.
func (s *wishlistService) Toggle(ctx context.Context, userID, productID, variantID uuid.UUID) (bool, error) {
	existing, err := s.wishlistRepo.Find(ctx, userID, productID, variantID)
	switch {
	case err == nil:
		if err := s.wishlistRepo.Delete(ctx, existing.ID); err != nil {
			return false, err
		}
		return false, nil
	case errors.Is(err, repository.ErrWishlistItemNotFound):
		product, err := s.productRepo.FindByID(ctx, productID)
		if err != nil {
			return false, err
		}
		if product.FindVariant(variantID) == nil {
			return false, repository.ErrVariantNotFound
		}
		item := &domain.WishlistItem{
			UserID:    userID,
			ProductID: productID,
			VariantID: variantID,
		}
		if err := s.wishlistRepo.Create(ctx, item); err != nil {
			return false, err
		}
		return true, nil
	default:
		return false, err
	}
}

// GetWishlist returns the user's wishlist enriched with live catalog
// data, newest first. Entries pointing at removed products or variants
// are skipped.
func (s *wishlistService) GetWishlist(ctx context.Context, userID uuid.UUID) ([]*WishlistEntry, error) {
	items, err := s.wishlistRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	products := map[uuid.UUID]*domain.Product{}
	entries := []*WishlistEntry{}
	for _, item := range items {
		product, ok := products[item.ProductID]
		if !ok {
			product, err = s.productRepo.FindByID(ctx, item.ProductID)
			if err != nil {
				if errors.Is(err, repository.ErrProductNotFound) {
					continue
				}
				return nil, fmt.Errorf("failed to enrich wishlist item: %w", err)
			}
			products[item.ProductID] = product
		}

		variant := product.FindVariant(item.VariantID)
		if variant == nil {
			continue
		}

		entries = append(entries, &WishlistEntry{
			ID:        item.ID,
			ProductID: item.ProductID,
			VariantID: item.VariantID,
			Name:      product.Name,
			Brand:     product.Brand,
			Color:     variant.Color,
			Price:     variant.Price,
			Images:    s.resolver.URLs(variant.Images),
		})
	}

	return entries, nil
}
