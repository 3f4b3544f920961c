package transport

import (
	"net/http"

	"gearshop/internal/middleware"
	"gearshop/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// AddToCartRequest represents the add-to-cart payload
type AddToCartRequest struct {
	ProductID          string `json:"product_id" validate:"required,uuid"`
	VariantID          string `json:"variant_id" validate:"required,uuid"`
	Size               string `json:"size" validate:"required"`
	Quantity           int    `json:"quantity" validate:"required,gt=0"`
	RemoveFromWishlist bool   `json:"remove_from_wishlist"`
}

// UpdateCartSizeRequest represents a cart size-change payload
type UpdateCartSizeRequest struct {
	Size string `json:"size" validate:"required"`
}

// UpdateCartQuantityRequest represents a cart quantity-change payload
type UpdateCartQuantityRequest struct {
	Quantity int `json:"quantity" validate:"required,gt=0"`
}

// CartHandler handles HTTP requests for cart operations
type CartHandler struct {
	cartService service.CartService
	logger      *zap.Logger
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(cartService service.CartService, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		logger:      logger,
	}
}

// RegisterRoutes registers all cart routes
func (h *CartHandler) RegisterRoutes(r chi.Router, auth func(http.Handler) http.Handler) {
	r.Route("/api/cart", func(r chi.Router) {
		r.Use(auth)
		r.Post("/", h.Add)
		r.Get("/", h.Get)
		r.Get("/size", h.GetSize)
		r.Patch("/{id}/size", h.UpdateSize)
		r.Patch("/{id}/quantity", h.UpdateQuantity)
		r.Delete("/{id}", h.Remove)
	})
}

// Add upserts a cart entry
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req AddToCartRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Add to cart validation failed", zap.Error(err))
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

	item, err := h.cartService.AddToCart(r.Context(), userID, service.AddToCartRequest{
		ProductID:          productID,
		VariantID:          variantID,
		Size:               req.Size,
		Quantity:           req.Quantity,
		RemoveFromWishlist: req.RemoveFromWishlist,
	})
	if err != nil {
		respondServiceError(h.logger, w, err, "failed to add to cart")
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, item)
}

// Get returns the cart enriched with live catalog data
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	entries, err := h.cartService.GetCart(r.Context(), userID)
	if err != nil {
		respondServiceError(h.logger, w, err, "failed to get cart")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"items": entries})
}

// GetSize returns the total quantity in the cart
func (h *CartHandler) GetSize(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	size, err := h.cartService.GetCartSize(r.Context(), userID)
	if err != nil {
		respondServiceError(h.logger, w, err, "failed to get cart size")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]int{"size": size})
}

// UpdateSize changes the size of a cart entry
func (h *CartHandler) UpdateSize(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	itemID, ok := pathUUID(chi.URLParam(r, "id"))
	if !ok {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid cart item identifier")
		return
	}

	var req UpdateCartSizeRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.cartService.UpdateSize(r.Context(), userID, itemID, req.Size)
	if err != nil {
		respondServiceError(h.logger, w, err, "failed to update cart item")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, item)
}

// UpdateQuantity sets the quantity of a cart entry
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	itemID, ok := pathUUID(chi.URLParam(r, "id"))
	if !ok {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid cart item identifier")
		return
	}

	var req UpdateCartQuantityRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.cartService.UpdateQuantity(r.Context(), userID, itemID, req.Quantity)
	if err != nil {
		respondServiceError(h.logger, w, err, "failed to update cart item")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, item)
}

// Remove deletes a cart entry
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	itemID, ok := pathUUID(chi.URLParam(r, "id"))
	if !ok {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid cart item identifier")
		return
	}

	item, err := h.cartService.RemoveItem(r.Context(), userID, itemID)
	if err != nil {
		respondServiceError(h.logger, w, err, "failed to remove cart item")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Item removed from cart",
		"item":    item,
	})
}
