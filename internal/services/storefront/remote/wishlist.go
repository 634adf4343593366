package remote

import (
	"context"
	"net/http"

	"github.com/louisbranch/storefront/internal/services/storefront/domain"
)

type wishlistResponse struct {
	Wishlist []wishlistItemWire `json:"wishlist"`
}

// WishlistItems fetches the authoritative wishlist for userID.
func (c *Client) WishlistItems(ctx context.Context, userID string) ([]domain.WishlistItem, error) {
	var resp wishlistResponse
	err := c.do(ctx, request{
		method: http.MethodGet,
		route:  "/getwishlist/:userId",
		path:   "/getwishlist/" + pathEscape(userID),
	}, &resp)
	if err != nil {
		return nil, err
	}
	return mapSlice(resp.Wishlist, wishlistItemWire.toDomain), nil
}

// AddToWishlist marks a product as wished for.
func (c *Client) AddToWishlist(ctx context.Context, userID, productID string) (string, error) {
	var resp messageResponse
	err := c.do(ctx, request{
		method: http.MethodPost,
		route:  "/addtowishlist/:userId/:productId",
		path:   cartPath("/addtowishlist/", userID, productID),
	}, &resp)
	return resp.Message, err
}

// RemoveFromWishlist drops a product from the wishlist.
func (c *Client) RemoveFromWishlist(ctx context.Context, userID, productID string) (string, error) {
	var resp messageResponse
	err := c.do(ctx, request{
		method: http.MethodDelete,
		route:  "/removewishlist/:userId/:productId",
		path:   cartPath("/removewishlist/", userID, productID),
	}, &resp)
	return resp.Message, err
}
