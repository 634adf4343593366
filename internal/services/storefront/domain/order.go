package domain

import "github.com/shopspring/decimal"

// PaymentMethod selects how an order is paid.
type PaymentMethod string

const (
	PaymentCOD  PaymentMethod = "COD"
	PaymentCard PaymentMethod = "CARD"
)

// OrderForm carries the shipping details submitted at checkout.
type OrderForm struct {
	Name            string `json:"name"`
	Phone           string `json:"phone"`
	ShippingAddress string `json:"shippingAddress"`
	Email           string `json:"email"`
}

// CheckoutSession is the backend's reply to order or subscription creation.
// SessionURL is set when payment continues on a hosted page.
type CheckoutSession struct {
	SessionURL string `json:"sessionUrl"`
	Message    string `json:"message"`
}

// OrderSummary is the backend-computed payable view of the current cart.
type OrderSummary struct {
	Plan          string          `json:"plan"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	DeliveryFee   decimal.Decimal `json:"deliveryFee"`
	Discount      decimal.Decimal `json:"discount"`
	PayableAmount decimal.Decimal `json:"payableAmount"`
}

// OrderLine is one item inside a placed order.
type OrderLine struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	MainImage string          `json:"main_image"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

// Order is a placed order as listed for its owner.
type Order struct {
	ID                  string          `json:"orderId"`
	Status              string          `json:"status"`
	PaymentMethod       string          `json:"paymentMethod"`
	DeliveryStatus      string          `json:"deliveryStatus"`
	CancelRequestStatus string          `json:"cancel_request_status,omitempty"`
	TotalAmount         decimal.Decimal `json:"totalAmount"`
	Name                string          `json:"name"`
	Phone               string          `json:"phone"`
	ShippingAddress     string          `json:"shippingAddress"`
	Email               string          `json:"email"`
	Items               []OrderLine     `json:"items"`
}

var cancellableDeliveryStatuses = map[string]bool{
	"Order Placed": true,
	"Processing":   true,
	"Packed":       true,
}

// Cancellable reports whether the shopper may still request cancellation.
func (o Order) Cancellable() bool {
	return cancellableDeliveryStatuses[o.DeliveryStatus]
}

// Plan is one subscription plan with the shopper's status on it.
type Plan struct {
	ID                 string          `json:"id"`
	Name               string          `json:"plan_name"`
	Price              decimal.Decimal `json:"price"`
	PriceID            string          `json:"stripe_price_id"`
	SubscriptionID     string          `json:"stripe_subscription_id,omitempty"`
	SubscriptionStatus string          `json:"subscription_status,omitempty"`
}

// Active reports whether the shopper currently holds this plan.
func (p Plan) Active() bool {
	return p.SubscriptionStatus == "active"
}
