package transport

import (
	"net/http"

	"gearshop/internal/domain"
	"gearshop/internal/middleware"
	"gearshop/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// LoginRequest represents the Google login payload
type LoginRequest struct {
	Code string `json:"code" validate:"required"`
}

// LoginResponse represents the login response
type LoginResponse struct {
	Token string      `json:"token"`
	User  UserProfile `json:"user"`
}

// UserProfile represents user profile data
type UserProfile struct {
	ID    string   `json:"id"`
	Email string   `json:"email"`
	Name  string   `json:"name"`
	Image string   `json:"image"`
	Roles []string `json:"roles"`
}

// AddAddressRequest represents a new address book entry
type AddAddressRequest struct {
	Name         string `json:"name" validate:"required"`
	MobileNumber string `json:"mobile_number" validate:"required"`
	PinCode      string `json:"pin_code" validate:"required"`
	Address      string `json:"address" validate:"required"`
	Locality     string `json:"locality"`
	District     string `json:"district"`
	State        string `json:"state"`
	AddressTag   string `json:"address_tag"`
}

// UserHandler handles HTTP requests for login, profile and addresses
type UserHandler struct {
	userService service.UserService
	logger      *zap.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService service.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger,
	}
}

// RegisterRoutes registers all user routes
func (h *UserHandler) RegisterRoutes(r chi.Router, auth func(http.Handler) http.Handler) {
	r.Route("/api/users", func(r chi.Router) {
		// Public routes
		r.Post("/login", h.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(auth)
			r.Get("/profile", h.GetProfile)
			r.Post("/addresses", h.AddAddress)
			r.Get("/addresses", h.ListAddresses)
			r.Delete("/addresses/{id}", h.DeleteAddress)
		})
	})
}

// Login exchanges a Google authorization code for a session token
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Login validation failed", zap.Error(err))
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, user, err := h.userService.LoginWithGoogle(r.Context(), req.Code)
	if err != nil {
		h.logger.Warn("Login failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusUnauthorized, "login failed")
		return
	}

	h.logger.Info("User logged in", zap.String("user_id", user.ID.String()))
	middleware.RespondWithJSON(w, http.StatusOK, LoginResponse{
		Token: token,
		User:  toProfile(user),
	})
}

// GetProfile returns the authenticated user's profile
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	user, err := h.userService.GetUserByID(r.Context(), userID)
	if err != nil {
		respondServiceError(h.logger, w, err, "failed to get user profile")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, toProfile(user))
}

// AddAddress stores a new address book entry
func (h *UserHandler) AddAddress(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req AddAddressRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Address validation failed", zap.Error(err))
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	address, err := h.userService.AddAddress(r.Context(), userID, &domain.Address{
		Name:         req.Name,
		MobileNumber: req.MobileNumber,
		PinCode:      req.PinCode,
		Address:      req.Address,
		Locality:     req.Locality,
		District:     req.District,
		State:        req.State,
		AddressTag:   req.AddressTag,
	})
	if err != nil {
		respondServiceError(h.logger, w, err, "failed to add address")
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, address)
}

// ListAddresses returns the user's active addresses
func (h *UserHandler) ListAddresses(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	addresses, err := h.userService.ListAddresses(r.Context(), userID)
	if err != nil {
		respondServiceError(h.logger, w, err, "failed to list addresses")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"addresses": addresses})
}

// DeleteAddress soft-deletes an address the user owns
func (h *UserHandler) DeleteAddress(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	addressID, ok := pathUUID(chi.URLParam(r, "id"))
	if !ok {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid address identifier")
		return
	}

	if err := h.userService.DeleteAddress(r.Context(), userID, addressID); err != nil {
		respondServiceError(h.logger, w, err, "failed to delete address")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Address removed"})
}

func toProfile(user *domain.User) UserProfile {
	return UserProfile{
		ID:    user.ID.String(),
		Email: user.Email,
		Name:  user.Name,
		Image: user.ImageRef,
		Roles: user.Roles,
	}
}
