package transport

import (
	"net/http"
	"strings"

	"gearshop/internal/domain"
	"gearshop/internal/middleware"
	"gearshop/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SizeStockRequest is one size entry in a catalog upload
type SizeStockRequest struct {
	Size  string `json:"size" validate:"required"`
	Stock int    `json:"stock" validate:"gte=0"`
}

// VariantRequest is one color variant in a catalog upload
type VariantRequest struct {
	Color       string             `json:"color" validate:"required"`
	Price       float64            `json:"price" validate:"gte=0"`
	Description string             `json:"description"`
	Images      []string           `json:"images"`
	Sizes       []SizeStockRequest `json:"sizes" validate:"required,min=1,dive"`
}

// ProductRequest is one product in a catalog upload
type ProductRequest struct {
	Name     string           `json:"name" validate:"required"`
	Brand    string           `json:"brand" validate:"required"`
	Variants []VariantRequest `json:"variants" validate:"required,min=1,dive"`
}

// ReplaceCatalogRequest represents the bulk catalog upload payload
type ReplaceCatalogRequest struct {
	Products []ProductRequest `json:"products" validate:"required,min=1,dive"`
}

// CatalogListResponse is a paginated page of catalog entries
type CatalogListResponse struct {
	Products []*service.CatalogEntry `json:"products"`
	Total    int                     `json:"total"`
}

// ProductHandler handles HTTP requests for the catalog
type ProductHandler struct {
	catalogService service.CatalogService
	logger         *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(catalogService service.CatalogService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

// RegisterRoutes registers all catalog routes. Listing endpoints are
// public; the optionalAuth middleware attaches identity when a token is
// present so wishlist flags can be filled in.
func (h *ProductHandler) RegisterRoutes(r chi.Router, optionalAuth, auth, requireAdmin func(http.Handler) http.Handler) {
	r.Route("/api/products", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(optionalAuth)
			r.Get("/", h.List)
			r.Get("/{productID}/variants/{variantID}", h.GetVariant)
		})
		r.Get("/filters", h.GetFilters)

		r.Group(func(r chi.Router) {
			r.Use(auth)
			r.Use(requireAdmin)
			r.Put("/", h.Replace)
		})
	})
}

// List returns a filtered, sorted, paginated catalog page
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	query := service.CatalogQuery{
		Search: r.URL.Query().Get("search"),
		Sort:   r.URL.Query().Get("sort"),
	}
	if colors := r.URL.Query().Get("colors"); colors != "" {
		query.Colors = strings.Split(colors, ",")
	}
	if sizes := r.URL.Query().Get("sizes"); sizes != "" {
		query.Sizes = strings.Split(sizes, ",")
	}
	filter := parseListFilter(r)
	query.Page = filter.Page
	query.PageSize = filter.PageSize

	entries, total, err := h.catalogService.ListProducts(r.Context(), optionalUserID(r), query)
	if err != nil {
		respondServiceError(h.logger, w, err, "failed to list products")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, CatalogListResponse{Products: entries, Total: total})
}

// GetFilters returns the catalog filter dropdown options
func (h *ProductHandler) GetFilters(w http.ResponseWriter, r *http.Request) {
	options, err := h.catalogService.GetFilterOptions(r.Context())
	if err != nil {
		respondServiceError(h.logger, w, err, "failed to load filter options")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, options)
}

// GetVariant returns the details view for one variant
func (h *ProductHandler) GetVariant(w http.ResponseWriter, r *http.Request) {
	productID, ok1 := pathUUID(chi.URLParam(r, "productID"))
	variantID, ok2 := pathUUID(chi.URLParam(r, "variantID"))
	if !ok1 || !ok2 {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product or variant identifier")
		return
	}

	details, err := h.catalogService.GetVariantDetails(r.Context(), productID, variantID, optionalUserID(r))
	if err != nil {
		respondServiceError(h.logger, w, err, "failed to get variant details")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, details)
}

// Replace swaps the whole catalog for the uploaded batch
func (h *ProductHandler) Replace(w http.ResponseWriter, r *http.Request) {
	var req ReplaceCatalogRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Catalog upload validation failed", zap.Error(err))
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	products := make([]*domain.Product, len(req.Products))
	for i, p := range req.Products {
		product := &domain.Product{
			Name:  p.Name,
			Brand: p.Brand,
		}
		for _, v := range p.Variants {
			variant := domain.Variant{
				Color:       v.Color,
				Price:       v.Price,
				Description: v.Description,
				Images:      v.Images,
			}
			for _, s := range v.Sizes {
				variant.Sizes = append(variant.Sizes, domain.SizeStock{Size: s.Size, Stock: s.Stock})
			}
			product.Variants = append(product.Variants, variant)
		}
		products[i] = product
	}

	count, err := h.catalogService.ReplaceProducts(r.Context(), products)
	if err != nil {
		respondServiceError(h.logger, w, err, "failed to replace catalog")
		return
	}

	h.logger.Info("Catalog replaced", zap.Int("products", count))
	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message":  "Catalog updated successfully",
		"products": count,
	})
}

// optionalUserID returns the authenticated user's ID when one is present
func optionalUserID(r *http.Request) *uuid.UUID {
	userID, err := currentUserID(r)
	if err != nil {
		return nil
	}
	return &userID
}
