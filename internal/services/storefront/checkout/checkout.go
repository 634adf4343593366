// Package checkout places orders and manages subscription plans. Orders and
// plans are read through on every call and never reconciled locally.
package checkout

import (
	"context"
	"strings"

	"go.uber.org/zap"

	apperrors "github.com/louisbranch/storefront/internal/platform/errors"
	"github.com/louisbranch/storefront/internal/services/storefront/domain"
	"github.com/louisbranch/storefront/internal/services/storefront/nav"
	"github.com/louisbranch/storefront/internal/services/storefront/routepath"
)

// Plan tiers.
const (
	TierBasic   = "basic"
	TierPro     = "pro"
	TierPremium = "premium"
)

// Remote is the order and subscription half of the backend.
type Remote interface {
	OrderSummary(ctx context.Context, userID string) (domain.OrderSummary, error)
	CreateOrder(ctx context.Context, userID string, form domain.OrderForm, method domain.PaymentMethod) (domain.CheckoutSession, error)
	UserOrders(ctx context.Context, userID string) ([]domain.Order, error)
	RequestCancel(ctx context.Context, orderID string) (string, error)
	Plans(ctx context.Context, userID string) ([]domain.Plan, error)
	CreateSubscription(ctx context.Context, userID, priceID string) (domain.CheckoutSession, error)
	CancelSubscription(ctx context.Context, subscriptionID string, immediate bool) (string, error)
}

// Cart is emptied after a cash-on-delivery order.
type Cart interface {
	Clear()
}

// Service is safe for concurrent use when its dependencies are.
type Service struct {
	remote Remote
	cart   Cart
	logger *zap.Logger
}

// New builds a checkout service. cart may be nil.
func New(remote Remote, cart Cart, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{remote: remote, cart: cart, logger: logger}
}

// OrderSummary returns the backend-computed payable breakdown.
func (s *Service) OrderSummary(ctx context.Context, userID string) (domain.OrderSummary, error) {
	return s.remote.OrderSummary(ctx, userID)
}

// PlaceOrder submits the order. Card payments continue on the hosted
// payment page; cash on delivery clears the cart and lands on the order
// confirmation.
func (s *Service) PlaceOrder(ctx context.Context, userID string, form domain.OrderForm, method domain.PaymentMethod) (nav.Intent, error) {
	form = trimForm(form)
	if err := validateForm(form); err != nil {
		return nav.None(), err
	}
	switch method {
	case domain.PaymentCOD, domain.PaymentCard:
	default:
		return nav.None(), apperrors.WithMetadata(apperrors.CodeValidation, "unknown payment method", map[string]string{
			"reason": "Choose cash on delivery or card",
		})
	}

	resp, err := s.remote.CreateOrder(ctx, userID, form, method)
	if err != nil {
		return nav.None(), err
	}
	if method == domain.PaymentCard {
		if strings.TrimSpace(resp.SessionURL) == "" {
			return nav.None(), apperrors.New(apperrors.CodeServer, "payment session missing from order response")
		}
		return nav.Redirect(resp.SessionURL), nil
	}
	if s.cart != nil {
		s.cart.Clear()
	}
	s.logger.Info("order placed", zap.String("user_id", userID), zap.String("payment_method", string(method)))
	return nav.Redirect(routepath.OrderSuccess), nil
}

func trimForm(form domain.OrderForm) domain.OrderForm {
	return domain.OrderForm{
		Name:            strings.TrimSpace(form.Name),
		Phone:           strings.TrimSpace(form.Phone),
		ShippingAddress: strings.TrimSpace(form.ShippingAddress),
		Email:           strings.TrimSpace(form.Email),
	}
}

func validateForm(form domain.OrderForm) error {
	for _, field := range []struct{ name, value string }{
		{"name", form.Name},
		{"phone", form.Phone},
		{"shippingAddress", form.ShippingAddress},
		{"email", form.Email},
	} {
		if field.value == "" {
			return apperrors.WithMetadata(apperrors.CodeValidation, field.name+" is required", map[string]string{
				"reason": "Please fill in " + field.name,
				"field":  field.name,
			})
		}
	}
	return nil
}

// Orders lists the shopper's orders.
func (s *Service) Orders(ctx context.Context, userID string) ([]domain.Order, error) {
	return s.remote.UserOrders(ctx, userID)
}

// RequestCancel asks for cancellation of order. Orders past packing are
// rejected locally.
func (s *Service) RequestCancel(ctx context.Context, order domain.Order) (string, error) {
	if !order.Cancellable() {
		return "", apperrors.WithMetadata(apperrors.CodeValidation, "order can no longer be cancelled", map[string]string{
			"reason":          "This order can no longer be cancelled",
			"delivery_status": order.DeliveryStatus,
		})
	}
	return s.remote.RequestCancel(ctx, order.ID)
}

// Plans lists the subscription plans.
func (s *Service) Plans(ctx context.Context, userID string) ([]domain.Plan, error) {
	return s.remote.Plans(ctx, userID)
}

// ActiveTier is the tier of the first active pro or premium plan, or basic.
func ActiveTier(plans []domain.Plan) string {
	for _, plan := range plans {
		if !plan.Active() {
			continue
		}
		switch tier := strings.ToLower(strings.TrimSpace(plan.Name)); tier {
		case TierPro, TierPremium:
			return tier
		}
	}
	return TierBasic
}

// Subscribe starts a hosted checkout for priceID.
func (s *Service) Subscribe(ctx context.Context, userID, priceID string) (nav.Intent, error) {
	if strings.TrimSpace(priceID) == "" {
		return nav.None(), apperrors.New(apperrors.CodeValidation, "price id is required")
	}
	resp, err := s.remote.CreateSubscription(ctx, userID, priceID)
	if err != nil {
		return nav.None(), err
	}
	if strings.TrimSpace(resp.SessionURL) == "" {
		return nav.None(), apperrors.New(apperrors.CodeServer, "subscription checkout did not start")
	}
	return nav.Redirect(resp.SessionURL), nil
}

// CancelSubscription ends a subscription now or at period end.
func (s *Service) CancelSubscription(ctx context.Context, subscriptionID string, immediate bool) (string, error) {
	if strings.TrimSpace(subscriptionID) == "" {
		return "", apperrors.New(apperrors.CodeValidation, "subscription id is required")
	}
	return s.remote.CancelSubscription(ctx, subscriptionID, immediate)
}
