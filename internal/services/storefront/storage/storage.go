package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/louisbranch/storefront/internal/services/storefront/collection"
	"github.com/louisbranch/storefront/internal/services/storefront/domain"
)

// Collection names one persisted collection kind.
type Collection string

const (
	CollectionCart     Collection = "cart"
	CollectionWishlist Collection = "wishlist"
)

// Snapshot stores the last accepted items of one collection for one owner.
type Snapshot struct {
	OwnerID      string
	Collection   Collection
	PayloadBytes []byte
	SavedAt      time.Time
}

// Store is the persistence contract for collection snapshots.
type Store interface {
	Close() error
	GetSnapshot(ctx context.Context, ownerID string, collection Collection) (Snapshot, bool, error)
	PutSnapshot(ctx context.Context, snapshot Snapshot) error
	DeleteOwner(ctx context.Context, ownerID string) error
	Purge(ctx context.Context) error
}

// JSONPersister adapts a Store to collection.Persister by encoding items as JSON.
type JSONPersister[T collection.Keyed] struct {
	store      Store
	collection Collection
	now        func() time.Time
}

// NewJSONPersister returns a persister writing the named collection into store.
func NewJSONPersister[T collection.Keyed](store Store, name Collection) *JSONPersister[T] {
	return &JSONPersister[T]{store: store, collection: name, now: time.Now}
}

// CartPersister persists cart snapshots.
func CartPersister(store Store) *JSONPersister[domain.CartItem] {
	return NewJSONPersister[domain.CartItem](store, CollectionCart)
}

// WishlistPersister persists wishlist snapshots.
func WishlistPersister(store Store) *JSONPersister[domain.WishlistItem] {
	return NewJSONPersister[domain.WishlistItem](store, CollectionWishlist)
}

// Save replaces the stored snapshot for ownerID.
func (p *JSONPersister[T]) Save(ctx context.Context, ownerID string, items []T) error {
	if p == nil || p.store == nil {
		return nil
	}
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return fmt.Errorf("owner id is required")
	}
	if items == nil {
		items = []T{}
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s snapshot: %w", p.collection, err)
	}
	return p.store.PutSnapshot(ctx, Snapshot{
		OwnerID:      ownerID,
		Collection:   p.collection,
		PayloadBytes: payload,
		SavedAt:      p.now().UTC(),
	})
}

// Load returns the stored snapshot for ownerID, if any.
func (p *JSONPersister[T]) Load(ctx context.Context, ownerID string) ([]T, bool, error) {
	if p == nil || p.store == nil {
		return nil, false, nil
	}
	snapshot, ok, err := p.store.GetSnapshot(ctx, ownerID, p.collection)
	if err != nil || !ok {
		return nil, false, err
	}
	var items []T
	if err := json.Unmarshal(snapshot.PayloadBytes, &items); err != nil {
		return nil, false, fmt.Errorf("decode %s snapshot: %w", p.collection, err)
	}
	return items, true, nil
}
