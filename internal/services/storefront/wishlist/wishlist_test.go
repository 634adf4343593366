package wishlist

import (
	"context"
	"testing"

	apperrors "github.com/louisbranch/storefront/internal/platform/errors"
	"github.com/louisbranch/storefront/internal/services/storefront/domain"
)

type fakeRemote struct {
	items  []domain.WishlistItem
	calls  []string
	addErr error
}

func (f *fakeRemote) WishlistItems(_ context.Context, userID string) ([]domain.WishlistItem, error) {
	f.calls = append(f.calls, "get")
	return append([]domain.WishlistItem(nil), f.items...), nil
}

func (f *fakeRemote) AddToWishlist(_ context.Context, userID, productID string) (string, error) {
	f.calls = append(f.calls, "add:"+productID)
	if f.addErr != nil {
		return "", f.addErr
	}
	f.items = append(f.items, domain.WishlistItem{ProductID: productID})
	return "added", nil
}

func (f *fakeRemote) RemoveFromWishlist(_ context.Context, userID, productID string) (string, error) {
	f.calls = append(f.calls, "remove:"+productID)
	kept := f.items[:0]
	for _, item := range f.items {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}
	f.items = kept
	return "removed", nil
}

func TestToggleAbsentAddsThenRefreshes(t *testing.T) {
	remote := &fakeRemote{}
	s := New(remote)
	s.Bind("u1")

	if _, err := s.Toggle(context.Background(), "p9"); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if len(remote.calls) != 2 || remote.calls[0] != "add:p9" || remote.calls[1] != "get" {
		t.Fatalf("calls = %v, want add then refresh", remote.calls)
	}
	if !s.Contains("p9") || s.Count() != 1 {
		t.Fatal("expected p9 in wishlist after toggle")
	}
}

func TestTogglePresentRemoves(t *testing.T) {
	remote := &fakeRemote{items: []domain.WishlistItem{{ProductID: "p1"}, {ProductID: "p2"}}}
	s := New(remote)
	s.Bind("u1")
	if _, err := s.Fetch(context.Background()); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	remote.calls = nil

	if _, err := s.Toggle(context.Background(), "p1"); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if remote.calls[0] != "remove:p1" {
		t.Fatalf("calls = %v", remote.calls)
	}
	if s.Contains("p1") || !s.Contains("p2") {
		t.Fatalf("items = %+v", s.Snapshot().Items)
	}
}

func TestToggleFailureKeepsMembership(t *testing.T) {
	remote := &fakeRemote{addErr: apperrors.New(apperrors.CodeServer, "down")}
	s := New(remote)
	s.Bind("u1")
	_, err := s.Toggle(context.Background(), "p1")
	if apperrors.CodeOf(err) != apperrors.CodeServer {
		t.Fatalf("code = %q", apperrors.CodeOf(err))
	}
	if s.Contains("p1") {
		t.Fatal("failed add must not be applied")
	}
	if len(remote.calls) != 1 {
		t.Fatalf("calls = %v, want no refresh after failure", remote.calls)
	}
}

func TestRemoveAndClear(t *testing.T) {
	remote := &fakeRemote{items: []domain.WishlistItem{{ProductID: "p1"}}}
	s := New(remote)
	s.Bind("u1")
	if _, err := s.Fetch(context.Background()); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if _, err := s.Remove(context.Background(), "p1"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if s.Count() != 0 {
		t.Fatalf("count = %d", s.Count())
	}
	remote.items = []domain.WishlistItem{{ProductID: "p3"}}
	if _, err := s.Fetch(context.Background()); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	s.Clear()
	if s.Count() != 0 {
		t.Fatal("clear left items")
	}
}

type memoryPersister struct {
	saved map[string][]domain.WishlistItem
}

func (p *memoryPersister) Save(_ context.Context, ownerID string, items []domain.WishlistItem) error {
	if p.saved == nil {
		p.saved = map[string][]domain.WishlistItem{}
	}
	p.saved[ownerID] = append([]domain.WishlistItem(nil), items...)
	return nil
}

func (p *memoryPersister) Load(_ context.Context, ownerID string) ([]domain.WishlistItem, bool, error) {
	items, ok := p.saved[ownerID]
	return items, ok, nil
}

func TestWithPersisterSavesAndRestores(t *testing.T) {
	persister := &memoryPersister{}
	s := New(&fakeRemote{items: []domain.WishlistItem{{ProductID: "p1"}}}, WithPersister(persister))
	s.Bind("u1")
	if _, err := s.Fetch(context.Background()); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if got := persister.saved["u1"]; len(got) != 1 || got[0].ProductID != "p1" {
		t.Fatalf("saved = %v, want p1", got)
	}

	restored := New(&fakeRemote{}, WithPersister(persister))
	restored.Bind("u1")
	ok, err := restored.Restore(context.Background())
	if err != nil || !ok {
		t.Fatalf("Restore() = %t, %v", ok, err)
	}
	if !restored.Contains("p1") {
		t.Fatal("expected restored wishlist to contain p1")
	}
}
