// Package collection keeps a local, order-preserving mirror of a remote
// keyed list.
//
// Every fetch and every mutation that answers with the full list takes a
// ticket from a monotonic sequence. A completion is applied only while its
// ticket is still the latest one issued, so the last request started wins
// regardless of the order responses arrive in. Mutations are never applied
// optimistically.
package collection

import (
	"context"
	"sync"

	"go.uber.org/zap"

	apperrors "github.com/louisbranch/storefront/internal/platform/errors"
)

// Keyed is implemented by items with a stable identity.
type Keyed interface {
	Key() string
}

// Op names a single-item mutation.
type Op string

const (
	OpAdd    Op = "add"
	OpRemove Op = "remove"
	OpUpdate Op = "update"
)

// Payload carries the mutation arguments beyond the item key.
type Payload struct {
	Quantity int
}

// Source is the remote side of a collection.
type Source[T Keyed] interface {
	List(ctx context.Context, ownerID string) ([]T, error)
	// Apply sends one mutation. When the backend answers with the
	// authoritative list, Apply returns it with full set to true.
	Apply(ctx context.Context, op Op, ownerID, key string, payload Payload) (items []T, full bool, err error)
}

// Persister stores accepted snapshots so a later session can start warm.
type Persister[T Keyed] interface {
	Save(ctx context.Context, ownerID string, items []T) error
	Load(ctx context.Context, ownerID string) (items []T, ok bool, err error)
}

// Snapshot is an immutable view of a collection.
type Snapshot[T Keyed] struct {
	Items   []T
	Loading bool
	Err     error
	// Seq is the latest ticket issued when the snapshot was taken.
	Seq uint64
}

// Contains reports whether an item with key is present.
func (s Snapshot[T]) Contains(key string) bool {
	for _, item := range s.Items {
		if item.Key() == key {
			return true
		}
	}
	return false
}

// Option configures a Collection.
type Option[T Keyed] func(*Collection[T])

// WithPersister saves every accepted replacement through p.
func WithPersister[T Keyed](p Persister[T]) Option[T] {
	return func(c *Collection[T]) { c.persister = p }
}

// WithLogger sets the logger used for discarded responses and failures.
func WithLogger[T Keyed](logger *zap.Logger) Option[T] {
	return func(c *Collection[T]) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Collection is safe for concurrent use.
type Collection[T Keyed] struct {
	name      string
	source    Source[T]
	persister Persister[T]
	logger    *zap.Logger

	mu        sync.Mutex
	items     []T
	err       error
	seq       uint64
	epoch     uint64
	fetching  uint64
	mutations int
}

// New builds an empty collection named name over source.
func New[T Keyed](name string, source Source[T], opts ...Option[T]) *Collection[T] {
	c := &Collection[T]{
		name:   name,
		source: source,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With(zap.String("collection", name))
	return c
}

// Snapshot returns a copy of the current state.
func (c *Collection[T]) Snapshot() Snapshot[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Collection[T]) snapshotLocked() Snapshot[T] {
	return Snapshot[T]{
		Items:   cloneItems(c.items),
		Loading: c.fetching != 0 || c.mutations > 0,
		Err:     c.err,
		Seq:     c.seq,
	}
}

// FetchAll replaces the collection with the owner's authoritative list.
// A response superseded by a later request is discarded and FetchAll
// returns the state that was current when it resolved.
func (c *Collection[T]) FetchAll(ctx context.Context, ownerID string) (Snapshot[T], error) {
	c.mu.Lock()
	return c.fetchLocked(ctx, ownerID)
}

// fetchLocked is entered with c.mu held and releases it.
func (c *Collection[T]) fetchLocked(ctx context.Context, ownerID string) (Snapshot[T], error) {
	ticket := c.nextTicketLocked()
	c.fetching = ticket
	c.err = nil
	c.mu.Unlock()

	items, err := c.source.List(ctx, ownerID)

	c.mu.Lock()
	if ticket != c.seq {
		if c.fetching == ticket {
			c.fetching = 0
		}
		snap := c.snapshotLocked()
		c.mu.Unlock()
		c.logStale("fetch", ticket)
		return snap, nil
	}
	c.fetching = 0
	if err != nil {
		c.err = err
		snap := c.snapshotLocked()
		c.mu.Unlock()
		c.logger.Warn("fetch failed", zap.String("code", string(apperrors.CodeOf(err))), zap.Error(err))
		return snap, err
	}
	c.items = dedupe(items)
	snap := c.snapshotLocked()
	c.persistLocked(ctx, ownerID, snap.Items)
	c.mu.Unlock()
	return snap, nil
}

// Mutate sends one mutation and then reconciles: a full-list answer replaces
// the collection directly, anything else triggers FetchAll. A Clear while
// the mutation is in flight cancels that follow-up fetch.
func (c *Collection[T]) Mutate(ctx context.Context, op Op, ownerID, key string, payload Payload) (Snapshot[T], error) {
	c.mu.Lock()
	epoch := c.epoch
	ticket := c.nextTicketLocked()
	c.mutations++
	c.err = nil
	c.mu.Unlock()

	items, full, err := c.source.Apply(ctx, op, ownerID, key, payload)

	c.mu.Lock()
	c.mutations--
	current := ticket == c.seq
	if err != nil {
		if current {
			c.err = err
		}
		snap := c.snapshotLocked()
		c.mu.Unlock()
		c.logger.Warn("mutation failed",
			zap.String("op", string(op)),
			zap.String("key", key),
			zap.String("code", string(apperrors.CodeOf(err))),
			zap.Error(err),
		)
		return snap, err
	}
	if !full {
		if epoch != c.epoch {
			snap := c.snapshotLocked()
			c.mu.Unlock()
			c.logStale(string(op), ticket)
			return snap, nil
		}
		return c.fetchLocked(ctx, ownerID)
	}
	if !current {
		snap := c.snapshotLocked()
		c.mu.Unlock()
		c.logStale(string(op), ticket)
		return snap, nil
	}
	c.items = dedupe(items)
	snap := c.snapshotLocked()
	c.persistLocked(ctx, ownerID, snap.Items)
	c.mu.Unlock()
	return snap, nil
}

// Clear empties the collection and invalidates every in-flight request. It
// never contacts the source.
func (c *Collection[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextTicketLocked()
	c.epoch++
	c.items = nil
	c.err = nil
	c.fetching = 0
}

// Restore seeds the collection from the persister. It only applies when no
// request has completed or been issued since the collection was created or
// last cleared, so a live fetch always wins over persisted state.
func (c *Collection[T]) Restore(ctx context.Context, ownerID string) (bool, error) {
	if c.persister == nil {
		return false, nil
	}
	c.mu.Lock()
	ticket := c.seq
	c.mu.Unlock()

	items, ok, err := c.persister.Load(ctx, ownerID)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if ticket != c.seq || len(c.items) > 0 {
		return false, nil
	}
	c.items = dedupe(items)
	return true, nil
}

func (c *Collection[T]) nextTicketLocked() uint64 {
	c.seq++
	return c.seq
}

// persistLocked saves while c.mu is held so a concurrent Clear, and any
// purge that follows it, always lands after the save.
func (c *Collection[T]) persistLocked(ctx context.Context, ownerID string, items []T) {
	if c.persister == nil {
		return
	}
	if err := c.persister.Save(ctx, ownerID, items); err != nil {
		c.logger.Warn("persist snapshot", zap.Error(err))
	}
}

func (c *Collection[T]) logStale(what string, ticket uint64) {
	c.logger.Debug("discarded stale response",
		zap.String("request", what),
		zap.Uint64("ticket", ticket),
		zap.Error(apperrors.ErrStaleResponse),
	)
}

func cloneItems[T Keyed](items []T) []T {
	if len(items) == 0 {
		return []T{}
	}
	out := make([]T, len(items))
	copy(out, items)
	return out
}

// dedupe keeps the first occurrence of each key, preserving order.
func dedupe[T Keyed](items []T) []T {
	seen := make(map[string]struct{}, len(items))
	out := make([]T, 0, len(items))
	for _, item := range items {
		key := item.Key()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
	}
	return out
}
