package remote

import (
	"context"
	"net/http"

	"github.com/louisbranch/storefront/internal/services/storefront/domain"
)

type plansResponse struct {
	Plans []planWire `json:"plans"`
}

// Plans lists subscription plans with the user's status on each.
func (c *Client) Plans(ctx context.Context, userID string) ([]domain.Plan, error) {
	var resp plansResponse
	err := c.do(ctx, request{
		method: http.MethodGet,
		route:  "/getplans/:userId",
		path:   "/getplans/" + pathEscape(userID),
	}, &resp)
	if err != nil {
		return nil, err
	}
	return mapSlice(resp.Plans, planWire.toDomain), nil
}

type createSubscriptionRequest struct {
	UserID  string `json:"userId"`
	PriceID string `json:"priceId"`
}

// CreateSubscription starts a hosted checkout for a plan price.
func (c *Client) CreateSubscription(ctx context.Context, userID, priceID string) (domain.CheckoutSession, error) {
	var resp domain.CheckoutSession
	err := c.do(ctx, request{
		method: http.MethodPost,
		route:  "/createsubscription",
		path:   "/createsubscription",
		body:   createSubscriptionRequest{UserID: userID, PriceID: priceID},
	}, &resp)
	return resp, err
}

type cancelSubscriptionRequest struct {
	SubscriptionID string `json:"subscriptionId"`
	Immediate      bool   `json:"immediate"`
}

// CancelSubscription ends a subscription now or at the end of the period.
func (c *Client) CancelSubscription(ctx context.Context, subscriptionID string, immediate bool) (string, error) {
	var resp messageResponse
	err := c.do(ctx, request{
		method: http.MethodDelete,
		route:  "/cancelsubscription",
		path:   "/cancelsubscription",
		body:   cancelSubscriptionRequest{SubscriptionID: subscriptionID, Immediate: immediate},
	}, &resp)
	return resp.Message, err
}
