// Package domain declares the storefront's shopper-facing data shapes.
//
// Products are owned by the catalog index, cart and wishlist rows by their
// synchronizers; everything else here is read/write-through display data
// fetched per view and never reconciled locally.
package domain
