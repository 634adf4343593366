package remote

import (
	"context"
	"net/http"

	"github.com/louisbranch/storefront/internal/services/storefront/domain"
)

type cartResponse struct {
	Cart []cartItemWire `json:"cart"`
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

func cartPath(prefix, userID, productID string) string {
	return prefix + pathEscape(userID) + "/" + pathEscape(productID)
}

// CartItems fetches the authoritative cart for userID.
func (c *Client) CartItems(ctx context.Context, userID string) ([]domain.CartItem, error) {
	var resp cartResponse
	err := c.do(ctx, request{
		method: http.MethodGet,
		route:  "/getcartitems/:userId",
		path:   "/getcartitems/" + pathEscape(userID),
	}, &resp)
	if err != nil {
		return nil, err
	}
	return mapSlice(resp.Cart, cartItemWire.toDomain), nil
}

// AddToCart adds quantity units of a product and returns the backend's message.
func (c *Client) AddToCart(ctx context.Context, userID, productID string, quantity int) (string, error) {
	var resp messageResponse
	err := c.do(ctx, request{
		method: http.MethodPost,
		route:  "/addtocart/:userId/:productId",
		path:   cartPath("/addtocart/", userID, productID),
		body:   quantityRequest{Quantity: quantity},
	}, &resp)
	return resp.Message, err
}

// UpdateCart sets the quantity of a cart row.
func (c *Client) UpdateCart(ctx context.Context, userID, productID string, quantity int) (string, error) {
	var resp messageResponse
	err := c.do(ctx, request{
		method: http.MethodPut,
		route:  "/updatecart/:userId/:productId",
		path:   cartPath("/updatecart/", userID, productID),
		body:   quantityRequest{Quantity: quantity},
	}, &resp)
	return resp.Message, err
}

// RemoveFromCart deletes a cart row and returns the resulting cart.
func (c *Client) RemoveFromCart(ctx context.Context, userID, productID string) ([]domain.CartItem, error) {
	var resp cartResponse
	err := c.do(ctx, request{
		method: http.MethodDelete,
		route:  "/removecart/:userId/:productId",
		path:   cartPath("/removecart/", userID, productID),
	}, &resp)
	if err != nil {
		return nil, err
	}
	return mapSlice(resp.Cart, cartItemWire.toDomain), nil
}
