package transport

import (
	"net/http"

	"gearshop/internal/domain"
	"gearshop/internal/middleware"
	"gearshop/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// OrderItemRequest is one purchase line in a checkout payload
type OrderItemRequest struct {
	ProductID string   `json:"product_id" validate:"required,uuid"`
	VariantID string   `json:"variant_id" validate:"required,uuid"`
	Name      string   `json:"name" validate:"required"`
	Brand     string   `json:"brand"`
	Color     string   `json:"color"`
	Size      string   `json:"size" validate:"required"`
	Quantity  int      `json:"quantity" validate:"required,gt=0"`
	Price     float64  `json:"price" validate:"gte=0"`
	Images    []string `json:"images"`
}

// PlaceOrderRequest represents the checkout request payload
type PlaceOrderRequest struct {
	Items         []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
	Address       string             `json:"address" validate:"required"`
	PaymentMethod string             `json:"payment_method"`
	TotalAmount   float64            `json:"total_amount" validate:"gte=0"`
}

// UpdateStatusRequest represents a status transition payload
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// AssignRiderRequest represents a rider assignment payload
type AssignRiderRequest struct {
	RiderID string `json:"rider_id" validate:"required,uuid"`
}

// OrderListResponse is a paginated page of order summaries
type OrderListResponse struct {
	Orders []*domain.OrderSummary `json:"orders"`
	Total  int                    `json:"total"`
}

// OrderHandler handles HTTP requests for checkout and order management
type OrderHandler struct {
	checkoutService service.CheckoutService
	orderService    service.OrderService
	logger          *zap.Logger
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(checkoutService service.CheckoutService, orderService service.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		checkoutService: checkoutService,
		orderService:    orderService,
		logger:          logger,
	}
}

// RegisterRoutes registers all order routes
func (h *OrderHandler) RegisterRoutes(r chi.Router, auth, requireAdmin, requireRider func(http.Handler) http.Handler) {
	r.Route("/api/orders", func(r chi.Router) {
		r.Use(auth)
		r.Post("/", h.PlaceOrder)
		r.Get("/", h.ListMine)
		r.Get("/{id}", h.GetOrder)
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(auth)
		r.Use(requireAdmin)
		r.Get("/orders", h.ListAll)
		r.Patch("/orders/{id}/status", h.UpdateStatus)
		r.Patch("/orders/{id}/rider", h.AssignRider)
		r.Get("/riders", h.ListRiders)
	})

	r.Route("/api/rider/orders", func(r chi.Router) {
		r.Use(auth)
		r.Use(requireRider)
		r.Get("/", h.ListAssigned)
		r.Patch("/{id}/status", h.UpdateStatus)
	})
}

// PlaceOrder handles checkout
func (h *OrderHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req PlaceOrderRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Checkout validation failed", zap.Error(err))
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	items := make([]service.CheckoutItem, len(req.Items))
	for i, item := range req.Items {
		productID, ok1 := pathUUID(item.ProductID)
		variantID, ok2 := pathUUID(item.VariantID)
		if !ok1 || !ok2 {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid product or variant identifier")
			return
		}
		items[i] = service.CheckoutItem{
			ProductID: productID,
			VariantID: variantID,
			Name:      item.Name,
			Brand:     item.Brand,
			Color:     item.Color,
			Size:      item.Size,
			Quantity:  item.Quantity,
			Price:     item.Price,
			Images:    item.Images,
		}
	}

	order, err := h.checkoutService.PlaceOrder(r.Context(), userID, service.CheckoutRequest{
		Items:         items,
		Address:       req.Address,
		PaymentMethod: req.PaymentMethod,
		TotalAmount:   req.TotalAmount,
	})
	if err != nil {
		respondServiceError(h.logger, w, err, "failed to place order")
		return
	}

	h.logger.Info("Order placed",
		zap.String("user_id", userID.String()),
		zap.Int64("order_id", order.OrderID),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Order created successfully",
		"order":   order,
	})
}

// ListMine returns the authenticated user's order history
func (h *OrderHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	orders, total, err := h.orderService.GetUserOrders(r.Context(), userID, parseListFilter(r))
	if err != nil {
		respondServiceError(h.logger, w, err, "failed to list orders")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, OrderListResponse{Orders: orders, Total: total})
}

// GetOrder returns one order with its snapshot items. Non-admins can only
// see their own orders.
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, ok := pathUUID(chi.URLParam(r, "id"))
	if !ok {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid order identifier")
		return
	}

	order, err := h.orderService.GetOrder(r.Context(), id)
	if err != nil {
		respondServiceError(h.logger, w, err, "failed to get order")
		return
	}

	if order.UserID != userID && !h.callerIsStaff(r) {
		middleware.RespondWithError(w, http.StatusNotFound, "order not found")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, order)
}

// ListAll returns every order for the back office
func (h *OrderHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	orders, total, err := h.orderService.GetAllOrders(r.Context(), parseListFilter(r))
	if err != nil {
		respondServiceError(h.logger, w, err, "failed to list orders")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, OrderListResponse{Orders: orders, Total: total})
}

// ListAssigned returns the orders assigned to the calling rider
func (h *OrderHandler) ListAssigned(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	orders, total, err := h.orderService.GetRiderOrders(r.Context(), userID, parseListFilter(r))
	if err != nil {
		respondServiceError(h.logger, w, err, "failed to list rider orders")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, OrderListResponse{Orders: orders, Total: total})
}

// UpdateStatus moves an order to a new status
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(chi.URLParam(r, "id"))
	if !ok {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid order identifier")
		return
	}

	var req UpdateStatusRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := h.orderService.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		respondServiceError(h.logger, w, err, "failed to update order status")
		return
	}

	h.logger.Info("Order status updated",
		zap.Int64("order_id", order.OrderID),
		zap.String("status", string(order.Status)),
	)
	middleware.RespondWithJSON(w, http.StatusOK, order)
}

// AssignRider attaches a rider to an order
func (h *OrderHandler) AssignRider(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(chi.URLParam(r, "id"))
	if !ok {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid order identifier")
		return
	}

	var req AssignRiderRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	riderID, ok := pathUUID(req.RiderID)
	if !ok {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid rider identifier")
		return
	}

	order, err := h.orderService.AssignRider(r.Context(), id, riderID)
	if err != nil {
		respondServiceError(h.logger, w, err, "failed to assign rider")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, order)
}

// ListRiders returns every rider for the back office
func (h *OrderHandler) ListRiders(w http.ResponseWriter, r *http.Request) {
	riders, err := h.orderService.ListRiders(r.Context())
	if err != nil {
		respondServiceError(h.logger, w, err, "failed to list riders")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"riders": riders})
}

func (h *OrderHandler) callerIsStaff(r *http.Request) bool {
	roles, ok := middleware.GetUserRoles(r.Context())
	if !ok {
		return false
	}
	for _, role := range roles {
		if role == domain.RoleAdmin || role == domain.RoleRider {
			return true
		}
	}
	return false
}
