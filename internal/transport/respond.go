package transport

import (
	"errors"
	"net/http"
	"strconv"

	"gearshop/internal/middleware"
	"gearshop/internal/repository"
	"gearshop/internal/service"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var errNoUser = errors.New("no authenticated user in context")

// currentUserID pulls the authenticated user's ID out of the request
// context populated by the auth middleware
func currentUserID(r *http.Request) (uuid.UUID, error) {
	userIDStr, ok := middleware.GetUserID(r.Context())
	if !ok {
		return uuid.Nil, errNoUser
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil, err
	}
	return userID, nil
}

// parseListFilter reads pagination and date period query parameters
func parseListFilter(r *http.Request) repository.ListFilter {
	filter := repository.ListFilter{
		Period: repository.DatePeriod(r.URL.Query().Get("period")),
	}
	if page, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil {
		filter.Page = page
	}
	if pageSize, err := strconv.Atoi(r.URL.Query().Get("pageSize")); err == nil {
		filter.PageSize = pageSize
	}
	return filter
}

// respondServiceError maps service and repository errors onto HTTP
// statuses. Unknown errors are logged and masked as 500s.
func respondServiceError(logger *zap.Logger, w http.ResponseWriter, err error, fallback string) {
	var stockErr *service.InsufficientStockError
	switch {
	case errors.As(err, &stockErr):
		middleware.RespondWithError(w, http.StatusBadRequest, stockErr.Error())
	case errors.Is(err, repository.ErrProductNotFound),
		errors.Is(err, repository.ErrVariantNotFound),
		errors.Is(err, repository.ErrSizeNotFound),
		errors.Is(err, repository.ErrCartItemNotFound),
		errors.Is(err, repository.ErrWishlistItemNotFound),
		errors.Is(err, repository.ErrOrderNotFound),
		errors.Is(err, repository.ErrRiderNotFound),
		errors.Is(err, repository.ErrUserNotFound),
		errors.Is(err, repository.ErrAddressNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, repository.ErrInsufficientStock):
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrMissingUser),
		errors.Is(err, service.ErrEmptyOrder),
		errors.Is(err, service.ErrMissingAddress),
		errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrInvalidOrderStatus),
		errors.Is(err, service.ErrInvalidSort):
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
	default:
		logger.Error(fallback, zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, fallback)
	}
}

// pathUUID parses a UUID path parameter already extracted by chi
func pathUUID(raw string) (uuid.UUID, bool) {
	id, err := uuid.Parse(raw)
	return id, err == nil
}
