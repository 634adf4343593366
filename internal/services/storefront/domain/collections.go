package domain

import "github.com/shopspring/decimal"

// CartItem is one cart row mirrored from the backend's authoritative cart.
// Stock is the product stock snapshot at the last sync.
type CartItem struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	MainImage string          `json:"main_image"`
	Stock     int             `json:"stock"`
	Quantity  int             `json:"quantity"`
}

// Key returns the identity used for de-duplication.
func (i CartItem) Key() string { return i.ProductID }

// Subtotal is price × quantity.
func (i CartItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// WishlistItem is one wishlist row mirrored from the backend.
type WishlistItem struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	MainImage string          `json:"main_image"`
	Stock     int             `json:"stock"`
}

// Key returns the identity used for de-duplication.
func (i WishlistItem) Key() string { return i.ProductID }
