// Package storage declares persistence contracts for shopper-local state.
//
// Only cart and wishlist snapshots are kept. They let a new session render
// before the first fetch completes and are always replaced by the backend's
// answer once it arrives.
package storage
