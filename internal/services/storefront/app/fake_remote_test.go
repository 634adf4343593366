package app

import (
	"context"
	"sync"

	apperrors "github.com/louisbranch/storefront/internal/platform/errors"
	"github.com/louisbranch/storefront/internal/services/storefront/domain"
	"github.com/louisbranch/storefront/internal/services/storefront/storage"
	"github.com/shopspring/decimal"
)

// fakeRemote is an in-memory backend for one shopper at a time.
type fakeRemote struct {
	mu          sync.Mutex
	products    []domain.Product
	carts       map[string][]domain.CartItem
	wishlists   map[string][]domain.WishlistItem
	orders      map[string][]domain.Order
	plans       []domain.Plan
	sessionUser string
	otpUser     string
	forgotten   bool
	cartErr     error
	calls       []string

	// addStarted and addRelease, when set, hold AddToCart until released.
	addStarted chan struct{}
	addRelease chan struct{}
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		products: []domain.Product{
			{ID: "p1", Name: "Oolong Tea", Description: "Roasted leaves", Category: "Tea", Price: decimal.RequireFromString("4.50"), Stock: 5},
			{ID: "p2", Name: "Sencha", Description: "Green tea", Category: "Tea", Price: decimal.RequireFromString("6.00"), Stock: 2},
			{ID: "p3", Name: "Mug", Description: "Ceramic mug", Category: "Ware", Price: decimal.RequireFromString("12.00"), Stock: 0},
		},
		carts:     map[string][]domain.CartItem{},
		wishlists: map[string][]domain.WishlistItem{},
		orders:    map[string][]domain.Order{},
		otpUser:   "u1",
	}
}

func (f *fakeRemote) record(call string) {
	f.calls = append(f.calls, call)
}

func (f *fakeRemote) called(call string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.calls {
		if c == call {
			return true
		}
	}
	return false
}

func (f *fakeRemote) product(id string) (domain.Product, bool) {
	for _, p := range f.products {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Product{}, false
}

func (f *fakeRemote) Products(context.Context) ([]domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Product(nil), f.products...), nil
}

func (f *fakeRemote) Product(_ context.Context, id string) (domain.Product, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.product(id)
	return p, ok, nil
}

func (f *fakeRemote) CartItems(_ context.Context, userID string) ([]domain.CartItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cartErr != nil {
		return nil, f.cartErr
	}
	return append([]domain.CartItem(nil), f.carts[userID]...), nil
}

func (f *fakeRemote) AddToCart(_ context.Context, userID, productID string, quantity int) (string, error) {
	if f.addRelease != nil {
		f.addStarted <- struct{}{}
		<-f.addRelease
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("add_to_cart")
	items := f.carts[userID]
	for i := range items {
		if items[i].ProductID == productID {
			items[i].Quantity += quantity
			return "Quantity increased", nil
		}
	}
	p, ok := f.product(productID)
	if !ok {
		return "", apperrors.New(apperrors.CodeNotFound, "product not found")
	}
	f.carts[userID] = append(items, domain.CartItem{ProductID: p.ID, Name: p.Name, Price: p.Price, Stock: p.Stock, Quantity: quantity})
	return "Added to cart", nil
}

func (f *fakeRemote) UpdateCart(_ context.Context, userID, productID string, quantity int) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("update_cart")
	items := f.carts[userID]
	for i := range items {
		if items[i].ProductID == productID {
			items[i].Quantity = quantity
		}
	}
	return "Cart updated", nil
}

func (f *fakeRemote) RemoveFromCart(_ context.Context, userID, productID string) ([]domain.CartItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("remove_from_cart")
	var kept []domain.CartItem
	for _, item := range f.carts[userID] {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}
	f.carts[userID] = kept
	return append([]domain.CartItem(nil), kept...), nil
}

func (f *fakeRemote) WishlistItems(_ context.Context, userID string) ([]domain.WishlistItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.WishlistItem(nil), f.wishlists[userID]...), nil
}

func (f *fakeRemote) AddToWishlist(_ context.Context, userID, productID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, _ := f.product(productID)
	f.wishlists[userID] = append(f.wishlists[userID], domain.WishlistItem{ProductID: productID, Name: p.Name, Price: p.Price, Stock: p.Stock})
	return "Added to wishlist", nil
}

func (f *fakeRemote) RemoveFromWishlist(_ context.Context, userID, productID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var kept []domain.WishlistItem
	for _, item := range f.wishlists[userID] {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}
	f.wishlists[userID] = kept
	return "Removed from wishlist", nil
}

func (f *fakeRemote) VerifySession(context.Context) (domain.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sessionUser == "" {
		return domain.Session{}, nil
	}
	return domain.Session{Valid: true, User: domain.User{ID: f.sessionUser}}, nil
}

func (f *fakeRemote) SendOTP(context.Context, string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("send_otp")
	return nil
}

func (f *fakeRemote) ResendOTP(context.Context, string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("resend_otp")
	return nil
}

func (f *fakeRemote) VerifyOTP(_ context.Context, _ string, otp string) (domain.Login, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if otp != "123456" {
		return domain.Login{}, apperrors.WithMetadata(apperrors.CodeValidation, "invalid otp", map[string]string{"reason": "Invalid OTP"})
	}
	f.sessionUser = f.otpUser
	return domain.Login{UserID: f.otpUser}, nil
}

func (f *fakeRemote) Logout(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessionUser = ""
	return nil
}

func (f *fakeRemote) ForgetSession() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.forgotten = true
	return nil
}

func (f *fakeRemote) UserDetails(context.Context, string) (domain.Profile, error) {
	return domain.Profile{Name: "Asha Rao", Email: "asha@example.com", Phone: "9876543210"}, nil
}

func (f *fakeRemote) UpdateUser(context.Context, string, domain.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("update_user")
	return nil
}

func (f *fakeRemote) OrderSummary(context.Context, string) (domain.OrderSummary, error) {
	return domain.OrderSummary{PayableAmount: decimal.RequireFromString("9.00")}, nil
}

func (f *fakeRemote) CreateOrder(_ context.Context, userID string, _ domain.OrderForm, method domain.PaymentMethod) (domain.CheckoutSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("create_order")
	if method == domain.PaymentCard {
		return domain.CheckoutSession{SessionURL: "https://pay.example.com/session/1"}, nil
	}
	f.carts[userID] = nil
	return domain.CheckoutSession{Message: "Order placed"}, nil
}

func (f *fakeRemote) UserOrders(_ context.Context, userID string) ([]domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Order(nil), f.orders[userID]...), nil
}

func (f *fakeRemote) RequestCancel(context.Context, string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("request_cancel")
	return "Cancel request submitted", nil
}

func (f *fakeRemote) Plans(context.Context, string) ([]domain.Plan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Plan(nil), f.plans...), nil
}

func (f *fakeRemote) CreateSubscription(context.Context, string, string) (domain.CheckoutSession, error) {
	return domain.CheckoutSession{SessionURL: "https://pay.example.com/sub/1"}, nil
}

func (f *fakeRemote) CancelSubscription(context.Context, string, bool) (string, error) {
	return "Subscription cancelled", nil
}

// memoryStore keeps snapshots in a map.
type memoryStore struct {
	mu        sync.Mutex
	snapshots map[string]storage.Snapshot
	purged    bool
}

func newMemoryStore() *memoryStore {
	return &memoryStore{snapshots: map[string]storage.Snapshot{}}
}

func snapshotKey(ownerID string, collection storage.Collection) string {
	return ownerID + "/" + string(collection)
}

func (m *memoryStore) Close() error { return nil }

func (m *memoryStore) GetSnapshot(_ context.Context, ownerID string, collection storage.Collection) (storage.Snapshot, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	snapshot, ok := m.snapshots[snapshotKey(ownerID, collection)]
	return snapshot, ok, nil
}

func (m *memoryStore) PutSnapshot(_ context.Context, snapshot storage.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots[snapshotKey(snapshot.OwnerID, snapshot.Collection)] = snapshot
	return nil
}

func (m *memoryStore) DeleteOwner(_ context.Context, ownerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, snapshot := range m.snapshots {
		if snapshot.OwnerID == ownerID {
			delete(m.snapshots, key)
		}
	}
	return nil
}

func (m *memoryStore) Purge(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots = map[string]storage.Snapshot{}
	m.purged = true
	return nil
}

func (m *memoryStore) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.snapshots)
}
