package transport

import (
	"context"
	"net/http"
	"net/http/httptest"

	"gearshop/internal/domain"
	"gearshop/internal/middleware"
	"gearshop/internal/repository"
	"gearshop/internal/service"

	"github.com/google/uuid"
)

// Function-backed service fakes. Tests fill in only the calls they
// expect; anything else panics on a nil function.

type fakeUserService struct {
	loginFn         func(ctx context.Context, code string) (string, *domain.User, error)
	getUserFn       func(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	addAddressFn    func(ctx context.Context, userID uuid.UUID, address *domain.Address) (*domain.Address, error)
	listAddressesFn func(ctx context.Context, userID uuid.UUID) ([]*domain.Address, error)
	deleteAddressFn func(ctx context.Context, userID, addressID uuid.UUID) error
}

func (f *fakeUserService) LoginWithGoogle(ctx context.Context, code string) (string, *domain.User, error) {
	return f.loginFn(ctx, code)
}

func (f *fakeUserService) ValidateToken(tokenString string) (*service.Claims, error) {
	return nil, service.ErrInvalidToken
}

func (f *fakeUserService) GetUserByID(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return f.getUserFn(ctx, userID)
}

func (f *fakeUserService) AddAddress(ctx context.Context, userID uuid.UUID, address *domain.Address) (*domain.Address, error) {
	return f.addAddressFn(ctx, userID, address)
}

func (f *fakeUserService) ListAddresses(ctx context.Context, userID uuid.UUID) ([]*domain.Address, error) {
	return f.listAddressesFn(ctx, userID)
}

func (f *fakeUserService) DeleteAddress(ctx context.Context, userID, addressID uuid.UUID) error {
	return f.deleteAddressFn(ctx, userID, addressID)
}

type fakeCheckoutService struct {
	placeOrderFn func(ctx context.Context, userID uuid.UUID, req service.CheckoutRequest) (*domain.Order, error)
}

func (f *fakeCheckoutService) PlaceOrder(ctx context.Context, userID uuid.UUID, req service.CheckoutRequest) (*domain.Order, error) {
	return f.placeOrderFn(ctx, userID, req)
}

type fakeOrderService struct {
	getOrderFn       func(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	getUserOrdersFn  func(ctx context.Context, userID uuid.UUID, filter repository.ListFilter) ([]*domain.OrderSummary, int, error)
	getAllOrdersFn   func(ctx context.Context, filter repository.ListFilter) ([]*domain.OrderSummary, int, error)
	getRiderOrdersFn func(ctx context.Context, riderUserID uuid.UUID, filter repository.ListFilter) ([]*domain.OrderSummary, int, error)
	updateStatusFn   func(ctx context.Context, id uuid.UUID, status string) (*domain.Order, error)
	assignRiderFn    func(ctx context.Context, id, riderID uuid.UUID) (*domain.Order, error)
	listRidersFn     func(ctx context.Context) ([]*domain.RiderAccount, error)
}

func (f *fakeOrderService) GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return f.getOrderFn(ctx, id)
}

func (f *fakeOrderService) GetUserOrders(ctx context.Context, userID uuid.UUID, filter repository.ListFilter) ([]*domain.OrderSummary, int, error) {
	return f.getUserOrdersFn(ctx, userID, filter)
}

func (f *fakeOrderService) GetAllOrders(ctx context.Context, filter repository.ListFilter) ([]*domain.OrderSummary, int, error) {
	return f.getAllOrdersFn(ctx, filter)
}

func (f *fakeOrderService) GetRiderOrders(ctx context.Context, riderUserID uuid.UUID, filter repository.ListFilter) ([]*domain.OrderSummary, int, error) {
	return f.getRiderOrdersFn(ctx, riderUserID, filter)
}

func (f *fakeOrderService) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*domain.Order, error) {
	return f.updateStatusFn(ctx, id, status)
}

func (f *fakeOrderService) AssignRider(ctx context.Context, id, riderID uuid.UUID) (*domain.Order, error) {
	return f.assignRiderFn(ctx, id, riderID)
}

func (f *fakeOrderService) ListRiders(ctx context.Context) ([]*domain.RiderAccount, error) {
	return f.listRidersFn(ctx)
}

// authenticatedRequest stamps the context the auth middleware would have
// populated for the given identity
func authenticatedRequest(r *http.Request, userID uuid.UUID, roles ...string) *http.Request {
	if len(roles) == 0 {
		roles = []string{domain.RoleUser}
	}
	ctx := context.WithValue(r.Context(), middleware.UserIDKey, userID.String())
	ctx = context.WithValue(ctx, middleware.UserRolesKey, roles)
	return r.WithContext(ctx)
}

func recordJSON(handler http.HandlerFunc, r *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	handler(w, r)
	return w
}
