// Package cart keeps the shopper's cart in step with the backend.
package cart

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	apperrors "github.com/louisbranch/storefront/internal/platform/errors"
	"github.com/louisbranch/storefront/internal/services/storefront/collection"
	"github.com/louisbranch/storefront/internal/services/storefront/domain"
)

// Remote is the slice of the backend the cart talks to.
type Remote interface {
	CartItems(ctx context.Context, userID string) ([]domain.CartItem, error)
	AddToCart(ctx context.Context, userID, productID string, quantity int) (string, error)
	UpdateCart(ctx context.Context, userID, productID string, quantity int) (string, error)
	RemoveFromCart(ctx context.Context, userID, productID string) ([]domain.CartItem, error)
}

// Snapshot is an immutable view of the cart.
type Snapshot = collection.Snapshot[domain.CartItem]

// Synchronizer owns the local cart mirror for one shopper at a time.
type Synchronizer struct {
	items *collection.Collection[domain.CartItem]
	owner collection.Owner
}

// Option configures a Synchronizer.
type Option func(*options)

type options struct {
	persister collection.Persister[domain.CartItem]
	logger    *zap.Logger
}

// WithPersister keeps accepted cart snapshots in p.
func WithPersister(p collection.Persister[domain.CartItem]) Option {
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
	collectionOpts := []collection.Option[domain.CartItem]{collection.WithLogger[domain.CartItem](o.logger)}
	if o.persister != nil {
		collectionOpts = append(collectionOpts, collection.WithPersister(o.persister))
	}
	return &Synchronizer{
		items: collection.New[domain.CartItem]("cart", source{remote: remote}, collectionOpts...),
	}
}

// Bind switches the synchronizer to ownerID. Switching to a different owner
// clears the local cart.
func (s *Synchronizer) Bind(ownerID string) {
	if s.owner.Set(ownerID) {
		s.items.Clear()
	}
}

// OwnerID returns the bound shopper.
func (s *Synchronizer) OwnerID() string {
	return s.owner.ID()
}

// Restore seeds the cart from persisted state.
func (s *Synchronizer) Restore(ctx context.Context) (bool, error) {
	ownerID, err := s.owner.Require("cart")
	if err != nil {
		return false, err
	}
	return s.items.Restore(ctx, ownerID)
}

// Fetch reloads the cart from the backend.
func (s *Synchronizer) Fetch(ctx context.Context) (Snapshot, error) {
	ownerID, err := s.owner.Require("cart")
	if err != nil {
		return s.items.Snapshot(), err
	}
	return s.items.FetchAll(ctx, ownerID)
}

// AddItem asks the backend to add one unit of productID. The backend decides
// the resulting quantity, so the cart is refreshed afterwards.
func (s *Synchronizer) AddItem(ctx context.Context, productID string) (Snapshot, error) {
	ownerID, err := s.owner.Require("cart")
	if err != nil {
		return s.items.Snapshot(), err
	}
	return s.items.Mutate(ctx, collection.OpAdd, ownerID, productID, collection.Payload{Quantity: 1})
}

// SetQuantity changes the quantity of a cart row. Quantities below one
// remove the row; quantities above knownStock are rejected locally.
func (s *Synchronizer) SetQuantity(ctx context.Context, productID string, newQuantity, knownStock int) (Snapshot, error) {
	ownerID, err := s.owner.Require("cart")
	if err != nil {
		return s.items.Snapshot(), err
	}
	if newQuantity < 1 {
		return s.items.Mutate(ctx, collection.OpRemove, ownerID, productID, collection.Payload{})
	}
	if newQuantity > knownStock {
		return s.items.Snapshot(), apperrors.WithMetadata(apperrors.CodeValidation, "quantity exceeds stock", map[string]string{
			"reason":     "Quantity exceeds available stock",
			"product_id": productID,
		})
	}
	return s.items.Mutate(ctx, collection.OpUpdate, ownerID, productID, collection.Payload{Quantity: newQuantity})
}

// Remove drops a row from the cart.
func (s *Synchronizer) Remove(ctx context.Context, productID string) (Snapshot, error) {
	return s.SetQuantity(ctx, productID, 0, 0)
}

// Clear empties the local cart without contacting the backend.
func (s *Synchronizer) Clear() {
	s.items.Clear()
}

// Snapshot returns the current cart.
func (s *Synchronizer) Snapshot() Snapshot {
	return s.items.Snapshot()
}

// Count is the number of units in the cart.
func (s *Synchronizer) Count() int {
	return Count(s.items.Snapshot().Items)
}

// Total is the payable sum over in-stock rows.
func (s *Synchronizer) Total() decimal.Decimal {
	return Total(s.items.Snapshot().Items)
}

// Count sums quantities.
func Count(items []domain.CartItem) int {
	total := 0
	for _, item := range items {
		total += item.Quantity
	}
	return total
}

// Total sums price × quantity, skipping rows whose product is out of stock.
// Those rows stay visible in the cart but are not payable.
func Total(items []domain.CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		if item.Stock <= 0 {
			continue
		}
		total = total.Add(item.Subtotal())
	}
	return total
}

type source struct {
	remote Remote
}

func (s source) List(ctx context.Context, ownerID string) ([]domain.CartItem, error) {
	return s.remote.CartItems(ctx, ownerID)
}

func (s source) Apply(ctx context.Context, op collection.Op, ownerID, productID string, payload collection.Payload) ([]domain.CartItem, bool, error) {
	switch op {
	case collection.OpAdd:
		_, err := s.remote.AddToCart(ctx, ownerID, productID, payload.Quantity)
		return nil, false, err
	case collection.OpUpdate:
		_, err := s.remote.UpdateCart(ctx, ownerID, productID, payload.Quantity)
		return nil, false, err
	case collection.OpRemove:
		items, err := s.remote.RemoveFromCart(ctx, ownerID, productID)
		return items, err == nil, err
	default:
		return nil, false, apperrors.New(apperrors.CodeValidation, "unsupported cart operation "+string(op))
	}
}
