package service

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"gearshop/internal/domain"
	"gearshop/internal/media"
	"gearshop/internal/repository"

	"github.com/google/uuid"
)

func newTestCatalogService(store *mockStore) CatalogService {
	return NewCatalogService(
		&mockTxManager{store: store},
		&mockProductRepository{store},
		&mockWishlistRepository{store},
		media.NewResolver("https://cdn.example.com"),
	)
}

func seedCatalog(store *mockStore) (jacket, boots *domain.Product) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	jacket = store.addProduct(&domain.Product{
		Name:  "Alpine Jacket",
		Brand: "Summit",
		Variants: []domain.Variant{
			{
				Color:     "Red",
				Price:     199.00,
				Images:    []string{"jackets/alpine-red.jpg"},
				Sizes:     []domain.SizeStock{{Size: "M", Stock: 4}, {Size: "L", Stock: 0}},
				CreatedAt: base,
			},
			{
				Color:     "Blue",
				Price:     189.00,
				Images:    []string{"jackets/alpine-blue.jpg"},
				Sizes:     []domain.SizeStock{{Size: "M", Stock: 0}, {Size: "L", Stock: 2}},
				CreatedAt: base.Add(24 * time.Hour),
			},
		},
	})
	boots = store.addProduct(&domain.Product{
		Name:  "Trek Boots",
		Brand: "Ridgeline",
		Variants: []domain.Variant{
			{
				Color:     "Brown",
				Price:     149.50,
				Images:    []string{"boots/trek-brown.jpg"},
				Sizes:     []domain.SizeStock{{Size: "9", Stock: 7}},
				CreatedAt: base.Add(48 * time.Hour),
			},
		},
	})
	return jacket, boots
}

func TestListProductsFlattensVariants(t *testing.T) {
	store := newMockStore()
	seedCatalog(store)
	svc := newTestCatalogService(store)

	entries, total, err := svc.ListProducts(context.Background(), nil, CatalogQuery{})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 3 {
		t.Errorf("expected 3 variant entries, got %d", total)
	}
	if len(entries) != 3 {
		t.Errorf("expected all entries on one page, got %d", len(entries))
	}
	for _, entry := range entries {
		if len(entry.Images) == 0 || entry.Images[0][:24] != "https://cdn.example.com/" {
			t.Errorf("images should resolve against the CDN base, got %v", entry.Images)
		}
	}
}

func TestListProductsFiltersByColor(t *testing.T) {
	store := newMockStore()
	seedCatalog(store)
	svc := newTestCatalogService(store)

	// Matching is case-insensitive
	entries, total, err := svc.ListProducts(context.Background(), nil, CatalogQuery{Colors: []string{"red", "BROWN"}})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 2 {
		t.Fatalf("expected 2 entries, got %d", total)
	}
	for _, entry := range entries {
		if entry.Color != "Red" && entry.Color != "Brown" {
			t.Errorf("unexpected color %s in filtered listing", entry.Color)
		}
	}
}

func TestListProductsFiltersBySizeInStock(t *testing.T) {
	store := newMockStore()
	seedCatalog(store)
	svc := newTestCatalogService(store)

	// Size L: only the blue jacket has stock; red carries L at zero
	entries, total, err := svc.ListProducts(context.Background(), nil, CatalogQuery{Sizes: []string{"L"}})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 1 {
		t.Fatalf("expected 1 entry, got %d", total)
	}
	if entries[0].Color != "Blue" {
		t.Errorf("expected the blue jacket, got %s %s", entries[0].Name, entries[0].Color)
	}
}

func TestListProductsSearch(t *testing.T) {
	store := newMockStore()
	seedCatalog(store)
	svc := newTestCatalogService(store)

	_, total, err := svc.ListProducts(context.Background(), nil, CatalogQuery{Search: "ridgeline"})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 1 {
		t.Errorf("brand search should match the boots only, got %d entries", total)
	}
}

func TestListProductsSorting(t *testing.T) {
	store := newMockStore()
	seedCatalog(store)
	svc := newTestCatalogService(store)

	tests := []struct {
		name       string
		sort       string
		wantPrices []float64
	}{
		{"price ascending", SortPriceAsc, []float64{149.50, 189.00, 199.00}},
		{"price descending", SortPriceDesc, []float64{199.00, 189.00, 149.50}},
		{"newest first", SortCreationDateDesc, []float64{149.50, 189.00, 199.00}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, _, err := svc.ListProducts(context.Background(), nil, CatalogQuery{Sort: tt.sort})
			if err != nil {
				t.Fatalf("list failed: %v", err)
			}
			prices := make([]float64, len(entries))
			for i, entry := range entries {
				prices[i] = entry.Price
			}
			if !reflect.DeepEqual(prices, tt.wantPrices) {
				t.Errorf("expected order %v, got %v", tt.wantPrices, prices)
			}
		})
	}
}

func TestListProductsRejectsUnknownSort(t *testing.T) {
	store := newMockStore()
	seedCatalog(store)
	svc := newTestCatalogService(store)

	_, _, err := svc.ListProducts(context.Background(), nil, CatalogQuery{Sort: "alphabetical"})
	if !errors.Is(err, ErrInvalidSort) {
		t.Errorf("expected ErrInvalidSort, got %v", err)
	}
}

func TestListProductsPagination(t *testing.T) {
	store := newMockStore()
	seedCatalog(store)
	svc := newTestCatalogService(store)

	entries, total, err := svc.ListProducts(context.Background(), nil, CatalogQuery{Sort: SortPriceAsc, Page: 2, PageSize: 2})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 3 {
		t.Errorf("total must count all matches, got %d", total)
	}
	if len(entries) != 1 {
		t.Fatalf("expected the last entry on page 2, got %d entries", len(entries))
	}
	if entries[0].Price != 199.00 {
		t.Errorf("unexpected entry on page 2: %+v", entries[0])
	}

	// Pages past the end are empty, not an error
	entries, _, err = svc.ListProducts(context.Background(), nil, CatalogQuery{Page: 9, PageSize: 2})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected an empty page, got %d entries", len(entries))
	}
}

func TestListProductsMarksWishlistedVariants(t *testing.T) {
	store := newMockStore()
	jacket, _ := seedCatalog(store)
	svc := newTestCatalogService(store)

	userID := uuid.New()
	_ = (&mockWishlistRepository{store}).Create(context.Background(), &domain.WishlistItem{
		UserID:    userID,
		ProductID: jacket.ID,
		VariantID: jacket.Variants[0].ID,
	})

	entries, _, err := svc.ListProducts(context.Background(), &userID, CatalogQuery{})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	for _, entry := range entries {
		want := entry.VariantID == jacket.Variants[0].ID
		if entry.Wishlisted != want {
			t.Errorf("variant %s: wishlisted = %v, want %v", entry.VariantID, entry.Wishlisted, want)
		}
	}

	// Anonymous listings never carry wishlist flags
	entries, _, err = svc.ListProducts(context.Background(), nil, CatalogQuery{})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	for _, entry := range entries {
		if entry.Wishlisted {
			t.Error("anonymous listing must not mark wishlisted entries")
		}
	}
}

func TestGetFilterOptions(t *testing.T) {
	store := newMockStore()
	seedCatalog(store)
	svc := newTestCatalogService(store)

	options, err := svc.GetFilterOptions(context.Background())
	if err != nil {
		t.Fatalf("filter options failed: %v", err)
	}

	wantColors := map[string]bool{"Red": true, "Blue": true, "Brown": true}
	if len(options.Colors) != len(wantColors) {
		t.Errorf("expected %d colors, got %v", len(wantColors), options.Colors)
	}
	for _, color := range options.Colors {
		if !wantColors[color] {
			t.Errorf("unexpected color option %s", color)
		}
	}

	// L appears in stock only on the blue jacket; zero-stock sizes offered
	// nowhere must not show up
	wantSizes := map[string]bool{"M": true, "L": true, "9": true}
	for _, size := range options.Sizes {
		if !wantSizes[size] {
			t.Errorf("unexpected size option %s", size)
		}
	}
	if len(options.Sizes) != len(wantSizes) {
		t.Errorf("expected sizes %v, got %v", wantSizes, options.Sizes)
	}
}

func TestGetVariantDetails(t *testing.T) {
	store := newMockStore()
	jacket, _ := seedCatalog(store)
	svc := newTestCatalogService(store)

	red := jacket.Variants[0]
	details, err := svc.GetVariantDetails(context.Background(), jacket.ID, red.ID, nil)
	if err != nil {
		t.Fatalf("details failed: %v", err)
	}

	if details.Name != "Alpine Jacket" || details.Color != "Red" {
		t.Errorf("unexpected details: %+v", details)
	}
	// L is out of stock on the red variant
	if !reflect.DeepEqual(details.AvailableSizes, []string{"M"}) {
		t.Errorf("expected available sizes [M], got %v", details.AvailableSizes)
	}
	if len(details.Colors) != 2 {
		t.Fatalf("expected both sibling colors, got %v", details.Colors)
	}
	for _, option := range details.Colors {
		if option.Image == "" {
			t.Errorf("color option %s missing swatch image", option.Color)
		}
	}
}

func TestGetVariantDetailsUnknownVariant(t *testing.T) {
	store := newMockStore()
	jacket, _ := seedCatalog(store)
	svc := newTestCatalogService(store)

	_, err := svc.GetVariantDetails(context.Background(), jacket.ID, uuid.New(), nil)
	if !errors.Is(err, repository.ErrVariantNotFound) {
		t.Errorf("expected ErrVariantNotFound, got %v", err)
	}
}

func TestReplaceProductsSwapsCatalog(t *testing.T) {
	store := newMockStore()
	seedCatalog(store)
	svc := newTestCatalogService(store)

	count, err := svc.ReplaceProducts(context.Background(), []*domain.Product{
		{
			Name:  "City Sneaker",
			Brand: "Metro",
			Variants: []domain.Variant{
				{Color: "White", Price: 89.00, Sizes: []domain.SizeStock{{Size: "8", Stock: 10}}},
			},
		},
	})
	if err != nil {
		t.Fatalf("replace failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 product inserted, got %d", count)
	}

	_, total, err := svc.ListProducts(context.Background(), nil, CatalogQuery{})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 1 {
		t.Errorf("old catalog should be gone, got %d entries", total)
	}
}
