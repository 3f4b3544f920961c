package transport

import (
	"net/http"

	"gearshop/internal/middleware"
	"gearshop/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ToggleWishlistRequest represents the wishlist toggle payload
type ToggleWishlistRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	VariantID string `json:"variant_id" validate:"required,uuid"`
}

// WishlistHandler handles HTTP requests for wishlist operations
type WishlistHandler struct {
	wishlistService service.WishlistService
	logger          *zap.Logger
}

// NewWishlistHandler creates a new WishlistHandler
func NewWishlistHandler(wishlistService service.WishlistService, logger *zap.Logger) *WishlistHandler {
	return &WishlistHandler{
		wishlistService: wishlistService,
		logger:          logger,
	}
}

// RegisterRoutes registers all wishlist routes
func (h *WishlistHandler) RegisterRoutes(r chi.Router, auth func(http.Handler) http.Handler) {
	r.Route("/api/wishlist", func(r chi.Router) {
		r.Use(auth)
		r.Post("/", h.Toggle)
		r.Get("/", h.Get)
	})
}

// Toggle adds the variant to the wishlist or removes it if present
func (h *WishlistHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req ToggleWishlistRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	productID, ok1 := pathUUID(req.ProductID)
	variantID, ok2 := pathUUID(req.VariantID)
	if !ok1 || !ok2 {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product or variant identifier")
		return
	}

	added, err := h.wishlistService.Toggle(r.Context(), userID, productID, variantID)
	if err != nil {
		respondServiceError(h.logger, w, err, "failed to update wishlist")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"wishlisted": added})
}

// Get returns the wishlist enriched with live catalog data
func (h *WishlistHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	entries, err := h.wishlistService.GetWishlist(r.Context(), userID)
	if err != nil {
		respondServiceError(h.logger, w, err, "failed to get wishlist")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"items": entries})
}
