package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"gearshop/internal/domain"
	"gearshop/internal/repository"

	"github.com/google/uuid"
)

// Map-backed repositories over a shared in-memory store. The fake
// transaction manager snapshots the store before running the callback
// and restores it on error, mirroring rollback semantics.

type mockStore struct {
	products  map[uuid.UUID]*domain.Product
	carts     map[uuid.UUID]*domain.CartItem
	orders    map[uuid.UUID]*domain.Order
	wishlists map[uuid.UUID]*domain.WishlistItem
	seq       int
}

func newMockStore() *mockStore {
	return &mockStore{
		products:  make(map[uuid.UUID]*domain.Product),
		carts:     make(map[uuid.UUID]*domain.CartItem),
		orders:    make(map[uuid.UUID]*domain.Order),
		wishlists: make(map[uuid.UUID]*domain.WishlistItem),
	}
}

func (s *mockStore) Products() repository.ProductRepository   { return &mockProductRepository{s} }
func (s *mockStore) Carts() repository.CartRepository         { return &mockCartRepository{s} }
func (s *mockStore) Orders() repository.OrderRepository       { return &mockOrderRepository{s} }
func (s *mockStore) Wishlists() repository.WishlistRepository { return &mockWishlistRepository{s} }

func copyProduct(p *domain.Product) *domain.Product {
	cp := *p
	cp.Variants = make([]domain.Variant, len(p.Variants))
	for i, v := range p.Variants {
		cv := v
		cv.Images = append([]string(nil), v.Images...)
		cv.Sizes = append([]domain.SizeStock(nil), v.Sizes...)
		cp.Variants[i] = cv
	}
	return &cp
}

func (s *mockStore) snapshot() *mockStore {
	snap := newMockStore()
	snap.seq = s.seq
	for id, p := range s.products {
		snap.products[id] = copyProduct(p)
	}
	for id, c := range s.carts {
		cc := *c
		snap.carts[id] = &cc
	}
	for id, o := range s.orders {
		oo := *o
		oo.Items = append([]domain.OrderItem(nil), o.Items...)
		snap.orders[id] = &oo
	}
	for id, w := range s.wishlists {
		ww := *w
		snap.wishlists[id] = &ww
	}
	return snap
}

func (s *mockStore) restore(snap *mockStore) {
	s.products = snap.products
	s.carts = snap.carts
	s.orders = snap.orders
	s.wishlists = snap.wishlists
	s.seq = snap.seq
}

// addProduct seeds the store and returns the stored product
func (s *mockStore) addProduct(p *domain.Product) *domain.Product {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	for i := range p.Variants {
		if p.Variants[i].ID == uuid.Nil {
			p.Variants[i].ID = uuid.New()
		}
		p.Variants[i].ProductID = p.ID
	}
	s.products[p.ID] = p
	return p
}

func (s *mockStore) stockFor(variantID uuid.UUID, size string) int {
	for _, p := range s.products {
		for i := range p.Variants {
			if p.Variants[i].ID == variantID {
				if entry := p.Variants[i].FindSize(size); entry != nil {
					return entry.Stock
				}
			}
		}
	}
	return -1
}

type mockTxManager struct {
	store     *mockStore
	commitErr error
}

func (m *mockTxManager) WithinTx(ctx context.Context, fn func(tx repository.Tx) error) error {
	snap := m.store.snapshot()
	if err := fn(m.store); err != nil {
		m.store.restore(snap)
		return err
	}
	if m.commitErr != nil {
		m.store.restore(snap)
		return m.commitErr
	}
	return nil
}

type mockProductRepository struct {
	store *mockStore
}

func (m *mockProductRepository) ReplaceAll(ctx context.Context, products []*domain.Product) (int, error) {
	m.store.products = make(map[uuid.UUID]*domain.Product)
	for _, p := range products {
		m.store.addProduct(p)
	}
	return len(products), nil
}

func (m *mockProductRepository) List(ctx context.Context, search string) ([]*domain.Product, error) {
	needle := strings.ToLower(search)
	products := []*domain.Product{}
	for _, p := range m.store.products {
		if needle != "" &&
			!strings.Contains(strings.ToLower(p.Name), needle) &&
			!strings.Contains(strings.ToLower(p.Brand), needle) {
			continue
		}
		products = append(products, copyProduct(p))
	}
	sort.Slice(products, func(i, j int) bool { return products[i].Name < products[j].Name })
	return products, nil
}

func (m *mockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	p, ok := m.store.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	return copyProduct(p), nil
}

func (m *mockProductRepository) DecrementStock(ctx context.Context, variantID uuid.UUID, size string, quantity int) error {
	for _, p := range m.store.products {
		for i := range p.Variants {
			if p.Variants[i].ID != variantID {
				continue
			}
			for j := range p.Variants[i].Sizes {
				if p.Variants[i].Sizes[j].Size != size {
					continue
				}
				if p.Variants[i].Sizes[j].Stock < quantity {
					return repository.ErrInsufficientStock
				}
				p.Variants[i].Sizes[j].Stock -= quantity
				return nil
			}
			return repository.ErrInsufficientStock
		}
	}
	return repository.ErrInsufficientStock
}

type mockCartRepository struct {
	store *mockStore
}

func (m *mockCartRepository) FindEntry(ctx context.Context, userID, productID, variantID uuid.UUID, size string) (*domain.CartItem, error) {
	for _, item := range m.store.carts {
		if item.UserID == userID && item.ProductID == productID && item.VariantID == variantID && item.Size == size {
			cc := *item
			return &cc, nil
		}
	}
	return nil, repository.ErrCartItemNotFound
}

func (m *mockCartRepository) Create(ctx context.Context, item *domain.CartItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	m.store.seq++
	item.CreatedAt = time.Unix(int64(m.store.seq), 0)
	item.UpdatedAt = item.CreatedAt
	cc := *item
	m.store.carts[item.ID] = &cc
	return nil
}

func (m *mockCartRepository) IncrementQuantity(ctx context.Context, id uuid.UUID, delta int) (*domain.CartItem, error) {
	item, ok := m.store.carts[id]
	if !ok {
		return nil, repository.ErrCartItemNotFound
	}
	item.Quantity += delta
	cc := *item
	return &cc, nil
}

func (m *mockCartRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*domain.CartItem, error) {
	items := []*domain.CartItem{}
	for _, item := range m.store.carts {
		if item.UserID == userID {
			cc := *item
			items = append(items, &cc)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.Before(items[j].CreatedAt) })
	return items, nil
}

func (m *mockCartRepository) UpdateSize(ctx context.Context, id, userID uuid.UUID, size string) (*domain.CartItem, error) {
	item, ok := m.store.carts[id]
	if !ok || item.UserID != userID {
		return nil, repository.ErrCartItemNotFound
	}
	item.Size = size
	cc := *item
	return &cc, nil
}

func (m *mockCartRepository) UpdateQuantity(ctx context.Context, id, userID uuid.UUID, quantity int) (*domain.CartItem, error) {
	item, ok := m.store.carts[id]
	if !ok || item.UserID != userID {
		return nil, repository.ErrCartItemNotFound
	}
	item.Quantity = quantity
	cc := *item
	return &cc, nil
}

func (m *mockCartRepository) Delete(ctx context.Context, id, userID uuid.UUID) (*domain.CartItem, error) {
	item, ok := m.store.carts[id]
	if !ok || item.UserID != userID {
		return nil, repository.ErrCartItemNotFound
	}
	delete(m.store.carts, id)
	return item, nil
}

func (m *mockCartRepository) DeleteEntry(ctx context.Context, userID, productID, variantID uuid.UUID, size string) error {
	for id, item := range m.store.carts {
		if item.UserID == userID && item.ProductID == productID && item.VariantID == variantID && item.Size == size {
			delete(m.store.carts, id)
			return nil
		}
	}
	return nil
}

type mockOrderRepository struct {
	store *mockStore
}

func (m *mockOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	m.store.seq++
	order.CreatedAt = time.Unix(int64(m.store.seq), 0)
	order.UpdatedAt = order.CreatedAt
	oo := *order
	oo.Items = append([]domain.OrderItem(nil), order.Items...)
	m.store.orders[order.ID] = &oo
	return nil
}

func (m *mockOrderRepository) ExistsByOrderID(ctx context.Context, orderID int64) (bool, error) {
	for _, order := range m.store.orders {
		if order.OrderID == orderID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	order, ok := m.store.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	oo := *order
	oo.Items = append([]domain.OrderItem(nil), order.Items...)
	return &oo, nil
}

func (m *mockOrderRepository) listSummaries(match func(*domain.Order) bool, filter repository.ListFilter) ([]*domain.OrderSummary, int, error) {
	orders := []*domain.Order{}
	for _, order := range m.store.orders {
		if match(order) {
			orders = append(orders, order)
		}
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })

	summaries := []*domain.OrderSummary{}
	for _, order := range orders {
		summaries = append(summaries, &domain.OrderSummary{
			ID:            order.ID,
			OrderID:       order.OrderID,
			UserID:        order.UserID,
			Address:       order.Address,
			Status:        order.Status,
			PaymentMethod: order.PaymentMethod,
			TotalAmount:   order.TotalAmount,
			ItemCount:     len(order.Items),
			RiderID:       order.RiderID,
			CreatedAt:     order.CreatedAt,
		})
	}
	return summaries, len(summaries), nil
}

func (m *mockOrderRepository) ListByUser(ctx context.Context, userID uuid.UUID, filter repository.ListFilter) ([]*domain.OrderSummary, int, error) {
	return m.listSummaries(func(o *domain.Order) bool { return o.UserID == userID }, filter)
}

func (m *mockOrderRepository) ListAll(ctx context.Context, filter repository.ListFilter) ([]*domain.OrderSummary, int, error) {
	return m.listSummaries(func(o *domain.Order) bool { return true }, filter)
}

func (m *mockOrderRepository) ListByRider(ctx context.Context, riderID uuid.UUID, filter repository.ListFilter) ([]*domain.OrderSummary, int, error) {
	return m.listSummaries(func(o *domain.Order) bool {
		return o.RiderID != nil && *o.RiderID == riderID
	}, filter)
}

func (m *mockOrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) (*domain.Order, error) {
	order, ok := m.store.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	order.Status = status
	return m.FindByID(ctx, id)
}

func (m *mockOrderRepository) AssignRider(ctx context.Context, id, riderID uuid.UUID) (*domain.Order, error) {
	order, ok := m.store.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	rid := riderID
	order.RiderID = &rid
	return m.FindByID(ctx, id)
}

type mockWishlistRepository struct {
	store *mockStore
}

func (m *mockWishlistRepository) Find(ctx context.Context, userID, productID, variantID uuid.UUID) (*domain.WishlistItem, error) {
	for _, item := range m.store.wishlists {
		if item.UserID == userID && item.ProductID == productID && item.VariantID == variantID {
			ww := *item
			return &ww, nil
		}
	}
	return nil, repository.ErrWishlistItemNotFound
}

func (m *mockWishlistRepository) Create(ctx context.Context, item *domain.WishlistItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	m.store.seq++
	item.CreatedAt = time.Unix(int64(m.store.seq), 0)
	ww := *item
	m.store.wishlists[item.ID] = &ww
	return nil
}

func (m *mockWishlistRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.store.wishlists[id]; !ok {
		return repository.ErrWishlistItemNotFound
	}
	delete(m.store.wishlists, id)
	return nil
}

func (m *mockWishlistRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*domain.WishlistItem, error) {
	items := []*domain.WishlistItem{}
	for _, item := range m.store.wishlists {
		if item.UserID == userID {
			ww := *item
			items = append(items, &ww)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })
	return items, nil
}

// mockUserRepository backs the login and address book tests
type mockUserRepository struct {
	users     map[string]*domain.User
	addresses map[uuid.UUID]*domain.Address
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		users:     make(map[string]*domain.User),
		addresses: make(map[uuid.UUID]*domain.Address),
	}
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	m.users[user.Email] = user
	return nil
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, exists := m.users[email]
	if !exists {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

func (m *mockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	for _, user := range m.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserRepository) UpdateImageRef(ctx context.Context, id uuid.UUID, imageRef string) error {
	for _, user := range m.users {
		if user.ID == id {
			user.ImageRef = imageRef
			return nil
		}
	}
	return repository.ErrUserNotFound
}

func (m *mockUserRepository) AddAddress(ctx context.Context, address *domain.Address) error {
	if address.ID == uuid.Nil {
		address.ID = uuid.New()
	}
	m.addresses[address.ID] = address
	return nil
}

func (m *mockUserRepository) ListAddresses(ctx context.Context, userID uuid.UUID) ([]*domain.Address, error) {
	addresses := []*domain.Address{}
	for _, address := range m.addresses {
		if address.UserID == userID && !address.IsDeleted {
			addresses = append(addresses, address)
		}
	}
	sort.Slice(addresses, func(i, j int) bool { return addresses[i].CreatedAt.Before(addresses[j].CreatedAt) })
	return addresses, nil
}

func (m *mockUserRepository) SoftDeleteAddress(ctx context.Context, userID, addressID uuid.UUID) error {
	address, ok := m.addresses[addressID]
	if !ok || address.UserID != userID || address.IsDeleted {
		return repository.ErrAddressNotFound
	}
	address.IsDeleted = true
	return nil
}

// mockRiderRepository backs rider listing tests
type mockRiderRepository struct {
	riders map[uuid.UUID]*domain.Rider
}

func newMockRiderRepository() *mockRiderRepository {
	return &mockRiderRepository{riders: make(map[uuid.UUID]*domain.Rider)}
}

func (m *mockRiderRepository) Create(ctx context.Context, rider *domain.Rider) error {
	if rider.ID == uuid.Nil {
		rider.ID = uuid.New()
	}
	m.riders[rider.ID] = rider
	return nil
}

func (m *mockRiderRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Rider, error) {
	rider, ok := m.riders[id]
	if !ok {
		return nil, repository.ErrRiderNotFound
	}
	return rider, nil
}

func (m *mockRiderRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*domain.Rider, error) {
	for _, rider := range m.riders {
		if rider.UserID == userID {
			return rider, nil
		}
	}
	return nil, repository.ErrRiderNotFound
}

func (m *mockRiderRepository) List(ctx context.Context) ([]*domain.RiderAccount, error) {
	accounts := []*domain.RiderAccount{}
	for _, rider := range m.riders {
		accounts = append(accounts, &domain.RiderAccount{
			ID:          rider.ID,
			UserID:      rider.UserID,
			Name:        rider.Name,
			PhoneNumber: rider.PhoneNumber,
			CreatedAt:   rider.CreatedAt,
		})
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].CreatedAt.Before(accounts[j].CreatedAt) })
	return accounts, nil
}

// mockIdentityProvider returns a canned identity
type mockIdentityProvider struct {
	user *GoogleUser
	err  error
}

func (m *mockIdentityProvider) FetchUser(ctx context.Context, code string) (*GoogleUser, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.user, nil
}
