package remote

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/louisbranch/storefront/internal/services/storefront/domain"
)

// flexID accepts identifiers the backend emits either as JSON strings or numbers.
type flexID string

func (id *flexID) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*id = ""
		return nil
	}
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decode id: %w", err)
		}
		*id = flexID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("decode id: %w", err)
	}
	*id = flexID(n.String())
	return nil
}

type productWire struct {
	ID          flexID          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Images      []string        `json:"image"`
	MainImage   string          `json:"main_image"`
}

func (w productWire) toDomain() domain.Product {
	return domain.Product{
		ID:          string(w.ID),
		Name:        w.Name,
		Description: w.Description,
		Category:    w.Category,
		Price:       w.Price,
		Stock:       w.Stock,
		Images:      append([]string(nil), w.Images...),
		MainImage:   w.MainImage,
	}
}

type cartItemWire struct {
	ProductID flexID          `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	MainImage string          `json:"main_image"`
	Stock     int             `json:"stock"`
	Quantity  int             `json:"quantity"`
}

func (w cartItemWire) toDomain() domain.CartItem {
	return domain.CartItem{
		ProductID: string(w.ProductID),
		Name:      w.Name,
		Price:     w.Price,
		MainImage: w.MainImage,
		Stock:     w.Stock,
		Quantity:  w.Quantity,
	}
}

type wishlistItemWire struct {
	ProductID flexID          `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	MainImage string          `json:"main_image"`
	Stock     int             `json:"stock"`
}

func (w wishlistItemWire) toDomain() domain.WishlistItem {
	return domain.WishlistItem{
		ProductID: string(w.ProductID),
		Name:      w.Name,
		Price:     w.Price,
		MainImage: w.MainImage,
		Stock:     w.Stock,
	}
}

type orderLineWire struct {
	ProductID flexID          `json:"product_id"`
	Name      string          `json:"name"`
	MainImage string          `json:"main_image"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

type orderWire struct {
	ID                  flexID          `json:"orderId"`
	Status              string          `json:"status"`
	PaymentMethod       string          `json:"paymentMethod"`
	DeliveryStatus      string          `json:"deliveryStatus"`
	CancelRequestStatus string          `json:"cancel_request_status"`
	TotalAmount         decimal.Decimal `json:"totalAmount"`
	Name                string          `json:"name"`
	Phone               string          `json:"phone"`
	ShippingAddress     string          `json:"shippingAddress"`
	Email               string          `json:"email"`
	Items               []orderLineWire `json:"items"`
}

func (w orderWire) toDomain() domain.Order {
	lines := make([]domain.OrderLine, 0, len(w.Items))
	for _, line := range w.Items {
		lines = append(lines, domain.OrderLine{
			ProductID: string(line.ProductID),
			Name:      line.Name,
			MainImage: line.MainImage,
			Price:     line.Price,
			Quantity:  line.Quantity,
		})
	}
	return domain.Order{
		ID:                  string(w.ID),
		Status:              w.Status,
		PaymentMethod:       w.PaymentMethod,
		DeliveryStatus:      w.DeliveryStatus,
		CancelRequestStatus: w.CancelRequestStatus,
		TotalAmount:         w.TotalAmount,
		Name:                w.Name,
		Phone:               w.Phone,
		ShippingAddress:     w.ShippingAddress,
		Email:               w.Email,
		Items:               lines,
	}
}

type planWire struct {
	ID                 flexID          `json:"id"`
	Name               string          `json:"plan_name"`
	Price              decimal.Decimal `json:"price"`
	PriceID            string          `json:"stripe_price_id"`
	SubscriptionID     string          `json:"stripe_subscription_id"`
	SubscriptionStatus string          `json:"subscription_status"`
}

func (w planWire) toDomain() domain.Plan {
	return domain.Plan{
		ID:                 string(w.ID),
		Name:               w.Name,
		Price:              w.Price,
		PriceID:            w.PriceID,
		SubscriptionID:     w.SubscriptionID,
		SubscriptionStatus: w.SubscriptionStatus,
	}
}

func mapSlice[W any, D any](in []W, convert func(W) D) []D {
	out := make([]D, 0, len(in))
	for _, item := range in {
		out = append(out, convert(item))
	}
	return out
}
