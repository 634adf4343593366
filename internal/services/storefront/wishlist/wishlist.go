// Package wishlist keeps the shopper's wishlist in step with the backend.
package wishlist

import (
	"context"

	"go.uber.org/zap"

	apperrors "github.com/louisbranch/storefront/internal/platform/errors"
	"github.com/louisbranch/storefront/internal/services/storefront/collection"
	"github.com/louisbranch/storefront/internal/services/storefront/domain"
)

// Remote is the slice of the backend the wishlist talks to.
type Remote interface {
	WishlistItems(ctx context.Context, userID string) ([]domain.WishlistItem, error)
	AddToWishlist(ctx context.Context, userID, productID string) (string, error)
	RemoveFromWishlist(ctx context.Context, userID, productID string) (string, error)
}

// Snapshot is an immutable view of the wishlist.
type Snapshot = collection.Snapshot[domain.WishlistItem]

// Synchronizer owns the local wishlist mirror. Every mutation is followed by
// a refresh, so membership is read back from the backend's answer.
type Synchronizer struct {
	items *collection.Collection[domain.WishlistItem]
	owner collection.Owner
}

// Option configures a Synchronizer.
type Option func(*options)

type options struct {
	persister collection.Persister[domain.WishlistItem]
	logger    *zap.Logger
}

// WithPersister keeps accepted wishlist snapshots in p.
func WithPersister(p collection.Persister[domain.WishlistItem]) Option {
	return func(o *options) { o.persister = p }
}

// WithLogger sets the synchronizer logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// New builds a synchronizer over remote.
func New(remote Remote, opts ...Option) *Synchronizer {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	collectionOpts := []collection.Option[domain.WishlistItem]{collection.WithLogger[domain.WishlistItem](o.logger)}
	if o.persister != nil {
		collectionOpts = append(collectionOpts, collection.WithPersister(o.persister))
	}
	return &Synchronizer{
		items: collection.New[domain.WishlistItem]("wishlist", source{remote: remote}, collectionOpts...),
	}
}

// Bind switches to ownerID, clearing local state when the owner changes.
func (s *Synchronizer) Bind(ownerID string) {
	if s.owner.Set(ownerID) {
		s.items.Clear()
	}
}

// Restore seeds the wishlist from persisted state.
func (s *Synchronizer) Restore(ctx context.Context) (bool, error) {
	ownerID, err := s.owner.Require("wishlist")
	if err != nil {
		return false, err
	}
	return s.items.Restore(ctx, ownerID)
}

// Fetch replaces the wishlist with the backend's list.
func (s *Synchronizer) Fetch(ctx context.Context) (Snapshot, error) {
	ownerID, err := s.owner.Require("wishlist")
	if err != nil {
		return s.items.Snapshot(), err
	}
	return s.items.FetchAll(ctx, ownerID)
}

// Toggle removes productID when present and adds it otherwise.
func (s *Synchronizer) Toggle(ctx context.Context, productID string) (Snapshot, error) {
	ownerID, err := s.owner.Require("wishlist")
	if err != nil {
		return s.items.Snapshot(), err
	}
	op := collection.OpAdd
	if s.Contains(productID) {
		op = collection.OpRemove
	}
	return s.items.Mutate(ctx, op, ownerID, productID, collection.Payload{})
}

// Remove drops productID from the wishlist.
func (s *Synchronizer) Remove(ctx context.Context, productID string) (Snapshot, error) {
	ownerID, err := s.owner.Require("wishlist")
	if err != nil {
		return s.items.Snapshot(), err
	}
	return s.items.Mutate(ctx, collection.OpRemove, ownerID, productID, collection.Payload{})
}

// Contains reports current membership.
func (s *Synchronizer) Contains(productID string) bool {
	return s.items.Snapshot().Contains(productID)
}

// Count is the number of wishlisted products.
func (s *Synchronizer) Count() int {
	return len(s.items.Snapshot().Items)
}

// Clear empties the wishlist without contacting the backend.
func (s *Synchronizer) Clear() {
	s.items.Clear()
}

// Snapshot returns the current state.
func (s *Synchronizer) Snapshot() Snapshot {
	return s.items.Snapshot()
}

type source struct {
	remote Remote
}

func (s source) List(ctx context.Context, ownerID string) ([]domain.WishlistItem, error) {
	return s.remote.WishlistItems(ctx, ownerID)
}

func (s source) Apply(ctx context.Context, op collection.Op, ownerID, productID string, _ collection.Payload) ([]domain.WishlistItem, bool, error) {
	var err error
	switch op {
	case collection.OpAdd:
		_, err = s.remote.AddToWishlist(ctx, ownerID, productID)
	case collection.OpRemove:
		_, err = s.remote.RemoveFromWishlist(ctx, ownerID, productID)
	default:
		err = apperrors.New(apperrors.CodeValidation, "unsupported wishlist operation "+string(op))
	}
	return nil, false, err
}
