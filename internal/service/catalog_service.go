package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"gearshop/internal/domain"
	"gearshop/internal/media"
	"gearshop/internal/repository"

	"github.com/google/uuid"
)

// Sort orders accepted by the catalog listing
const (
	SortPriceAsc         = "priceAsc"
	SortPriceDesc        = "priceDesc"
	SortCreationDateDesc = "creationDateDesc"
)

var ErrInvalidSort = errors.New("invalid sort order")

// CatalogQuery carries the filters for a catalog listing
type CatalogQuery struct {
	Search   string
	Colors   []string
	Sizes    []string
	Sort     string
	Page     int
	PageSize int
}

// CatalogEntry is one product variant flattened for listing. Catalog
// views are per-variant; a product with three colors lists three times.
type CatalogEntry struct {
	ProductID  uuid.UUID `json:"product_id"`
	VariantID  uuid.UUID `json:"variant_id"`
	Name       string    `json:"name"`
	Brand      string    `json:"brand"`
	Color      string    `json:"color"`
	Price      float64   `json:"price"`
	Images     []string  `json:"images"`
	Wishlisted bool      `json:"wishlisted"`
	CreatedAt  time.Time `json:"created_at"`
}

// ColorOption is a sibling variant offered on the details view
type ColorOption struct {
	VariantID uuid.UUID `json:"variant_id"`
	Color     string    `json:"color"`
	Image     string    `json:"image"`
}

// VariantDetails is the full details view for one variant
type VariantDetails struct {
	ProductID      uuid.UUID     `json:"product_id"`
	VariantID      uuid.UUID     `json:"variant_id"`
	Name           string        `json:"name"`
	Brand          string        `json:"brand"`
	Color          string        `json:"color"`
	Price          float64       `json:"price"`
	Description    string        `json:"description"`
	Images         []string      `json:"images"`
	AvailableSizes []string      `json:"available_sizes"`
	Colors         []ColorOption `json:"colors"`
	Wishlisted     bool          `json:"wishlisted"`
}

// FilterOptions feeds the catalog filter dropdowns
type FilterOptions struct {
	Colors []string `json:"colors"`
	Sizes  []string `json:"sizes"`
}

// CatalogService defines the interface for catalog business logic
type CatalogService interface {
	ReplaceProducts(ctx context.Context, products []*domain.Product) (int, error)
	ListProducts(ctx context.Context, userID *uuid.UUID, query CatalogQuery) ([]*CatalogEntry, int, error)
	GetFilterOptions(ctx context.Context) (*FilterOptions, error)
	GetVariantDetails(ctx context.Context, productID, variantID uuid.UUID, userID *uuid.UUID) (*VariantDetails, error)
}

type catalogService struct {
	txManager    repository.TxManager
	productRepo  repository.ProductRepository
	wishlistRepo repository.WishlistRepository
	resolver     *media.Resolver
}

// NewCatalogService creates a new instance of CatalogService
func NewCatalogService(
	txManager repository.TxManager,
	productRepo repository.ProductRepository,
	wishlistRepo repository.WishlistRepository,
	resolver *media.Resolver,
) CatalogService {
	return &catalogService{
		txManager:    txManager,
		productRepo:  productRepo,
		wishlistRepo: wishlistRepo,
		resolver:     resolver,
	}
}

// ReplaceProducts swaps the whole catalog for the supplied batch inside
// one transaction, so readers never see a half-loaded catalog
func (s *catalogService) ReplaceProducts(ctx context.Context, products []*domain.Product) (int, error) {
	var count int
	err := s.txManager.WithinTx(ctx, func(tx repository.Tx) error {
		var err error
		count, err = tx.Products().ReplaceAll(ctx, products)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("failed to replace catalog: %w", err)
	}
	return count, nil
}

// ListProducts returns a filtered, sorted, paginated page of variant
// entries plus the total match count
func (s *catalogService) ListProducts(ctx context.Context, userID *uuid.UUID, query CatalogQuery) ([]*CatalogEntry, int, error) {
	switch query.Sort {
	case "", SortPriceAsc, SortPriceDesc, SortCreationDateDesc:
	default:
		return nil, 0, ErrInvalidSort
	}

	products, err := s.productRepo.List(ctx, query.Search)
	if err != nil {
		return nil, 0, err
	}

	wishlisted, err := s.wishlistedVariants(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	entries := []*CatalogEntry{}
	for _, product := range products {
		for i := range product.Variants {
			variant := &product.Variants[i]
			if !matchesColors(variant, query.Colors) || !matchesSizes(variant, query.Sizes) {
				continue
			}
			entries = append(entries, &CatalogEntry{
				ProductID:  product.ID,
				VariantID:  variant.ID,
				Name:       product.Name,
				Brand:      product.Brand,
				Color:      variant.Color,
				Price:      variant.Price,
				Images:     s.resolver.URLs(variant.Images),
				Wishlisted: wishlisted[variant.ID],
				CreatedAt:  variant.CreatedAt,
			})
		}
	}

	sortEntries(entries, query.Sort)

	total := len(entries)
	page, pageSize := query.Page, query.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 12
	}
	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	return entries[start:end], total, nil
}

// GetFilterOptions returns the distinct colors across the catalog and the
// distinct sizes that still have stock
func (s *catalogService) GetFilterOptions(ctx context.Context) (*FilterOptions, error) {
	products, err := s.productRepo.List(ctx, "")
	if err != nil {
		return nil, err
	}

	colors := []string{}
	sizes := []string{}
	seenColor := map[string]bool{}
	seenSize := map[string]bool{}
	for _, product := range products {
		for i := range product.Variants {
			variant := &product.Variants[i]
			if !seenColor[variant.Color] {
				seenColor[variant.Color] = true
				colors = append(colors, variant.Color)
			}
			for _, entry := range variant.Sizes {
				if entry.Stock > 0 && !seenSize[entry.Size] {
					seenSize[entry.Size] = true
					sizes = append(sizes, entry.Size)
				}
			}
		}
	}

	return &FilterOptions{Colors: colors, Sizes: sizes}, nil
}

// GetVariantDetails returns the details view for one variant, including
// its in-stock sizes and sibling colors
func (s *catalogService) GetVariantDetails(ctx context.Context, productID, variantID uuid.UUID, userID *uuid.UUID) (*VariantDetails, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	variant := product.FindVariant(variantID)
	if variant == nil {
		return nil, repository.ErrVariantNotFound
	}

	wishlisted, err := s.wishlistedVariants(ctx, userID)
	if err != nil {
		return nil, err
	}

	colors := []ColorOption{}
	for i := range product.Variants {
		sibling := &product.Variants[i]
		option := ColorOption{VariantID: sibling.ID, Color: sibling.Color}
		if len(sibling.Images) > 0 {
			option.Image = s.resolver.URL(sibling.Images[0])
		}
		colors = append(colors, option)
	}

	return &VariantDetails{
		ProductID:      product.ID,
		VariantID:      variant.ID,
		Name:           product.Name,
		Brand:          product.Brand,
		Color:          variant.Color,
		Price:          variant.Price,
		Description:    variant.Description,
		Images:         s.resolver.URLs(variant.Images),
		AvailableSizes: variant.AvailableSizes(),
		Colors:         colors,
		Wishlisted:     wishlisted[variant.ID],
	}, nil
}

// wishlistedVariants returns the set of variant IDs on the user's
// wishlist; an absent user yields an empty set
func (s *catalogService) wishlistedVariants(ctx context.Context, userID *uuid.UUID) (map[uuid.UUID]bool, error) {
	set := map[uuid.UUID]bool{}
	if userID == nil {
		return set, nil
	}
	items, err := s.wishlistRepo.FindByUser(ctx, *userID)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		set[item.VariantID] = true
	}
	return set, nil
}

func matchesColors(variant *domain.Variant, colors []string) bool {
	if len(colors) == 0 {
		return true
	}
	for _, color := range colors {
		if strings.EqualFold(variant.Color, color) {
			return true
		}
	}
	return false
}

// matchesSizes requires at least one requested size to be in stock
func matchesSizes(variant *domain.Variant, sizes []string) bool {
	if len(sizes) == 0 {
		return true
	}
	for _, size := range sizes {
		if entry := variant.FindSize(size); entry != nil && entry.Stock > 0 {
			return true
		}
	}
	return false
}

func sortEntries(entries []*CatalogEntry, order string) {
	switch order {
	case SortPriceAsc:
		sort.SliceStable(entries, func(i, j int) bool { return entries[i].Price < entries[j].Price })
	case SortPriceDesc:
		sort.SliceStable(entries, func(i, j int) bool { return entries[i].Price > entries[j].Price })
	default:
		// Newest first
		sort.SliceStable(entries, func(i, j int) bool { return entries[i].CreatedAt.After(entries[j].CreatedAt) })
	}
}
