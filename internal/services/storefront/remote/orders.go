package remote

import (
	"context"
	"net/http"

	"github.com/louisbranch/storefront/internal/services/storefront/domain"
)

// OrderSummary fetches the payable breakdown of the user's current cart.
func (c *Client) OrderSummary(ctx context.Context, userID string) (domain.OrderSummary, error) {
	var summary domain.OrderSummary
	err := c.do(ctx, request{
		method: http.MethodGet,
		route:  "/getordersummary/:userId",
		path:   "/getordersummary/" + pathEscape(userID),
	}, &summary)
	return summary, err
}

type createOrderRequest struct {
	domain.OrderForm
	PaymentMethod domain.PaymentMethod `json:"payment_method"`
}

// CreateOrder places an order for the user's cart.
func (c *Client) CreateOrder(ctx context.Context, userID string, form domain.OrderForm, method domain.PaymentMethod) (domain.CheckoutSession, error) {
	var resp domain.CheckoutSession
	err := c.do(ctx, request{
		method: http.MethodPost,
		route:  "/createorder/:userId",
		path:   "/createorder/" + pathEscape(userID),
		body:   createOrderRequest{OrderForm: form, PaymentMethod: method},
	}, &resp)
	return resp, err
}

type ordersResponse struct {
	Orders []orderWire `json:"orders"`
}

// UserOrders lists the user's placed orders.
func (c *Client) UserOrders(ctx context.Context, userID string) ([]domain.Order, error) {
	var resp ordersResponse
	err := c.do(ctx, request{
		method: http.MethodGet,
		route:  "/getuserorders/:userId",
		path:   "/getuserorders/" + pathEscape(userID),
	}, &resp)
	if err != nil {
		return nil, err
	}
	return mapSlice(resp.Orders, orderWire.toDomain), nil
}

// RequestCancel asks the backend to cancel an order.
func (c *Client) RequestCancel(ctx context.Context, orderID string) (string, error) {
	var resp messageResponse
	err := c.do(ctx, request{
		method: http.MethodPut,
		route:  "/requestCancel/:orderId",
		path:   "/requestCancel/" + pathEscape(orderID),
	}, &resp)
	return resp.Message, err
}
