package cart

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	apperrors "github.com/louisbranch/storefront/internal/platform/errors"
	"github.com/louisbranch/storefront/internal/services/storefront/domain"
)

type fakeRemote struct {
	cart  []domain.CartItem
	calls []string
}

func (f *fakeRemote) CartItems(_ context.Context, userID string) ([]domain.CartItem, error) {
	f.calls = append(f.calls, "get:"+userID)
	return append([]domain.CartItem(nil), f.cart...), nil
}

func (f *fakeRemote) AddToCart(_ context.Context, userID, productID string, quantity int) (string, error) {
	f.calls = append(f.calls, "add:"+productID)
	for i := range f.cart {
		if f.cart[i].ProductID == productID {
			f.cart[i].Quantity += quantity
			return "updated", nil
		}
	}
	f.cart = append(f.cart, domain.CartItem{ProductID: productID, Price: decimal.NewFromInt(1), Stock: 10, Quantity: quantity})
	return "added", nil
}

func (f *fakeRemote) UpdateCart(_ context.Context, userID, productID string, quantity int) (string, error) {
	f.calls = append(f.calls, "update:"+productID)
	for i := range f.cart {
		if f.cart[i].ProductID == productID {
			f.cart[i].Quantity = quantity
		}
	}
	return "updated", nil
}

func (f *fakeRemote) RemoveFromCart(_ context.Context, userID, productID string) ([]domain.CartItem, error) {
	f.calls = append(f.calls, "remove:"+productID)
	kept := f.cart[:0]
	for _, item := range f.cart {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}
	f.cart = kept
	return append([]domain.CartItem(nil), f.cart...), nil
}

func newBoundCart(t *testing.T, remote *fakeRemote) *Synchronizer {
	t.Helper()
	s := New(remote)
	s.Bind("u1")
	if _, err := s.Fetch(context.Background()); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	remote.calls = nil
	return s
}

func TestSetQuantityAboveStockIsRejectedLocally(t *testing.T) {
	remote := &fakeRemote{cart: []domain.CartItem{{ProductID: "p1", Price: decimal.NewFromInt(10), Stock: 3, Quantity: 2}}}
	s := newBoundCart(t, remote)

	for _, qty := range []int{4, 5, 100} {
		snap, err := s.SetQuantity(context.Background(), "p1", qty, 3)
		if apperrors.CodeOf(err) != apperrors.CodeValidation {
			t.Fatalf("qty %d: code = %q, want VALIDATION", qty, apperrors.CodeOf(err))
		}
		if snap.Items[0].Quantity != 2 {
			t.Fatalf("qty %d: item changed to %d", qty, snap.Items[0].Quantity)
		}
	}
	if len(remote.calls) != 0 {
		t.Fatalf("calls = %v, want none", remote.calls)
	}
}

func TestSetQuantityBelowOneRemovesItem(t *testing.T) {
	for _, qty := range []int{0, -1} {
		remote := &fakeRemote{cart: []domain.CartItem{
			{ProductID: "p1", Price: decimal.NewFromInt(10), Stock: 5, Quantity: 2},
			{ProductID: "p2", Price: decimal.NewFromInt(4), Stock: 5, Quantity: 1},
		}}
		s := newBoundCart(t, remote)
		before := s.Count()

		snap, err := s.SetQuantity(context.Background(), "p1", qty, 5)
		if err != nil {
			t.Fatalf("qty %d: %v", qty, err)
		}
		if snap.Contains("p1") {
			t.Fatalf("qty %d: p1 still present", qty)
		}
		if got := s.Count(); got != before-2 {
			t.Fatalf("qty %d: count = %d, want %d", qty, got, before-2)
		}
		if len(remote.calls) != 1 || remote.calls[0] != "remove:p1" {
			t.Fatalf("qty %d: calls = %v, want a single remove", qty, remote.calls)
		}
	}
}

func TestSetQuantityUpdatesThenRefreshes(t *testing.T) {
	remote := &fakeRemote{cart: []domain.CartItem{{ProductID: "p1", Price: decimal.NewFromInt(10), Stock: 5, Quantity: 1}}}
	s := newBoundCart(t, remote)

	snap, err := s.SetQuantity(context.Background(), "p1", 4, 5)
	if err != nil {
		t.Fatalf("set quantity: %v", err)
	}
	if snap.Items[0].Quantity != 4 {
		t.Fatalf("quantity = %d, want 4", snap.Items[0].Quantity)
	}
	want := []string{"update:p1", "get:u1"}
	if len(remote.calls) != 2 || remote.calls[0] != want[0] || remote.calls[1] != want[1] {
		t.Fatalf("calls = %v, want %v", remote.calls, want)
	}
}

func TestAddItemLetsServerDecideQuantity(t *testing.T) {
	remote := &fakeRemote{cart: []domain.CartItem{{ProductID: "p1", Price: decimal.NewFromInt(10), Stock: 1, Quantity: 1}}}
	s := newBoundCart(t, remote)

	snap, err := s.AddItem(context.Background(), "p1")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if snap.Items[0].Quantity != 2 {
		t.Fatalf("quantity = %d, want server-decided 2", snap.Items[0].Quantity)
	}
}

func TestTotalSkipsOutOfStock(t *testing.T) {
	items := []domain.CartItem{
		{ProductID: "a", Price: decimal.RequireFromString("2.50"), Stock: 4, Quantity: 2},
		{ProductID: "b", Price: decimal.RequireFromString("100"), Stock: 0, Quantity: 1},
		{ProductID: "c", Price: decimal.RequireFromString("0.10"), Stock: 1, Quantity: 3},
	}
	if got := Total(items); !got.Equal(decimal.RequireFromString("5.30")) {
		t.Fatalf("total = %s, want 5.30", got)
	}
	if got := Count(items); got != 6 {
		t.Fatalf("count = %d, want 6", got)
	}
}

func TestUnboundCartIsAuthError(t *testing.T) {
	s := New(&fakeRemote{})
	if _, err := s.AddItem(context.Background(), "p1"); apperrors.CodeOf(err) != apperrors.CodeAuth {
		t.Fatalf("code = %q, want AUTH", apperrors.CodeOf(err))
	}
}

func TestBindToNewOwnerClears(t *testing.T) {
	remote := &fakeRemote{cart: []domain.CartItem{{ProductID: "p1", Stock: 1, Quantity: 1}}}
	s := newBoundCart(t, remote)
	s.Bind("u1")
	if s.Count() != 1 {
		t.Fatal("rebinding the same owner cleared the cart")
	}
	s.Bind("u2")
	if s.Count() != 0 {
		t.Fatal("expected empty cart for new owner")
	}
}
