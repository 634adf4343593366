package app

import (
	"context"
	"strings"

	apperrors "github.com/louisbranch/storefront/internal/platform/errors"
	"github.com/louisbranch/storefront/internal/platform/errors/i18n"
	"github.com/louisbranch/storefront/internal/services/storefront/domain"
	"github.com/louisbranch/storefront/internal/services/storefront/nav"
)

// Result is the outcome of one command.
type Result struct {
	// Notice is shopper-facing text: a confirmation, or the failure message.
	Notice string
	Err    error
	Intent nav.Intent
}

// Command is one shopper action.
type Command interface {
	Name() string
	Execute(ctx context.Context, s *Storefront) Result
}

func failed(err error) Result {
	return Result{Err: err, Intent: nav.None()}
}

func (s *Storefront) requireUser() (string, error) {
	userID := s.UserID()
	if userID == "" {
		return "", apperrors.New(apperrors.CodeAuth, "no shopper signed in")
	}
	return userID, nil
}

// SendOTP starts a passcode login.
type SendOTP struct{ Email string }

func (SendOTP) Name() string { return "send_otp" }

func (c SendOTP) Execute(ctx context.Context, s *Storefront) Result {
	if err := s.account.SendOTP(ctx, c.Email); err != nil {
		return failed(err)
	}
	return Result{Notice: s.Notice(i18n.NoticeOTPSent, nil)}
}

// ResendOTP asks for a fresh passcode.
type ResendOTP struct{ Email string }

func (ResendOTP) Name() string { return "resend_otp" }

func (c ResendOTP) Execute(ctx context.Context, s *Storefront) Result {
	if err := s.account.ResendOTP(ctx, c.Email); err != nil {
		return failed(err)
	}
	return Result{Notice: s.Notice(i18n.NoticeOTPResent, nil)}
}

// VerifyOTP completes a passcode login.
type VerifyOTP struct {
	Email string
	OTP   string
}

func (VerifyOTP) Name() string { return "verify_otp" }

func (c VerifyOTP) Execute(ctx context.Context, s *Storefront) Result {
	_, intent, err := s.account.VerifyOTP(ctx, c.Email, c.OTP)
	if err != nil {
		return failed(err)
	}
	return Result{Notice: s.Notice(i18n.NoticeOTPVerified, nil), Intent: intent}
}

// Logout ends the session and forgets all shopper state.
type Logout struct{}

func (Logout) Name() string { return "logout" }

func (Logout) Execute(ctx context.Context, s *Storefront) Result {
	intent, err := s.account.Logout(ctx)
	if err != nil && intent.Kind == nav.KindNone {
		return failed(err)
	}
	s.discovery.CancelPending()
	s.discovery.Reset()
	s.gate.Reset()
	s.cart.Bind("")
	s.wishlist.Bind("")
	if err != nil {
		return Result{Err: err, Intent: intent}
	}
	return Result{Notice: s.Notice(i18n.NoticeLoggedOut, nil), Intent: intent}
}

// AddToCart adds one unit of a product.
type AddToCart struct{ ProductID string }

func (AddToCart) Name() string { return "add_to_cart" }

func (c AddToCart) Execute(ctx context.Context, s *Storefront) Result {
	if _, err := s.cart.AddItem(ctx, c.ProductID); err != nil {
		return failed(err)
	}
	return Result{Notice: s.Notice(i18n.NoticeCartAdded, nil)}
}

// SetQuantity changes a cart row's quantity. The stock bound comes from the
// cart row, falling back to the catalog for rows not yet mirrored.
type SetQuantity struct {
	ProductID string
	Quantity  int
}

func (SetQuantity) Name() string { return "set_quantity" }

func (c SetQuantity) Execute(ctx context.Context, s *Storefront) Result {
	stock := s.knownStock(c.ProductID)
	if _, err := s.cart.SetQuantity(ctx, c.ProductID, c.Quantity, stock); err != nil {
		return failed(err)
	}
	if c.Quantity < 1 {
		return Result{Notice: s.Notice(i18n.NoticeCartRemoved, nil)}
	}
	return Result{Notice: s.Notice(i18n.NoticeCartUpdated, nil)}
}

func (s *Storefront) knownStock(productID string) int {
	for _, item := range s.cart.Snapshot().Items {
		if item.ProductID == productID {
			return item.Stock
		}
	}
	for _, product := range s.catalog.Products() {
		if product.ID == productID {
			return product.Stock
		}
	}
	return 0
}

// RemoveFromCart drops a cart row.
type RemoveFromCart struct{ ProductID string }

func (RemoveFromCart) Name() string { return "remove_from_cart" }

func (c RemoveFromCart) Execute(ctx context.Context, s *Storefront) Result {
	if _, err := s.cart.Remove(ctx, c.ProductID); err != nil {
		return failed(err)
	}
	return Result{Notice: s.Notice(i18n.NoticeCartRemoved, nil)}
}

// ToggleWishlist adds or removes a product from the wishlist.
type ToggleWishlist struct{ ProductID string }

func (ToggleWishlist) Name() string { return "toggle_wishlist" }

func (c ToggleWishlist) Execute(ctx context.Context, s *Storefront) Result {
	wasPresent := s.wishlist.Contains(c.ProductID)
	if _, err := s.wishlist.Toggle(ctx, c.ProductID); err != nil {
		return failed(err)
	}
	if wasPresent {
		return Result{Notice: s.Notice(i18n.NoticeWishlistRemoved, nil)}
	}
	return Result{Notice: s.Notice(i18n.NoticeWishlistAdded, nil)}
}

// PlaceOrder checks out the current cart.
type PlaceOrder struct {
	Form   domain.OrderForm
	Method domain.PaymentMethod
}

func (PlaceOrder) Name() string { return "place_order" }

func (c PlaceOrder) Execute(ctx context.Context, s *Storefront) Result {
	userID, err := s.requireUser()
	if err != nil {
		return failed(err)
	}
	intent, err := s.checkout.PlaceOrder(ctx, userID, c.Form, c.Method)
	if err != nil {
		return failed(err)
	}
	if intent.External() {
		return Result{Notice: s.Notice(i18n.NoticeRedirecting, nil), Intent: intent}
	}
	return Result{Notice: s.Notice(i18n.NoticeOrderPlaced, nil), Intent: intent}
}

// CancelOrder requests cancellation of one of the shopper's orders.
type CancelOrder struct{ OrderID string }

func (CancelOrder) Name() string { return "cancel_order" }

func (c CancelOrder) Execute(ctx context.Context, s *Storefront) Result {
	userID, err := s.requireUser()
	if err != nil {
		return failed(err)
	}
	orders, err := s.checkout.Orders(ctx, userID)
	if err != nil {
		return failed(err)
	}
	orderID := strings.TrimSpace(c.OrderID)
	for _, order := range orders {
		if order.ID != orderID {
			continue
		}
		msg, err := s.checkout.RequestCancel(ctx, order)
		if err != nil {
			return failed(err)
		}
		return Result{Notice: s.Notice(i18n.NoticeOrderCancel, map[string]string{"message": msg})}
	}
	return failed(apperrors.WithMetadata(apperrors.CodeNotFound, "order not found", map[string]string{
		"resource": "Order",
	}))
}

// Subscribe starts a plan checkout.
type Subscribe struct{ PriceID string }

func (Subscribe) Name() string { return "subscribe" }

func (c Subscribe) Execute(ctx context.Context, s *Storefront) Result {
	userID, err := s.requireUser()
	if err != nil {
		return failed(err)
	}
	intent, err := s.checkout.Subscribe(ctx, userID, c.PriceID)
	if err != nil {
		return failed(err)
	}
	return Result{Notice: s.Notice(i18n.NoticeRedirecting, nil), Intent: intent}
}

// CancelSubscription ends a plan now or at the end of the billing period.
type CancelSubscription struct {
	SubscriptionID string
	Immediate      bool
}

func (CancelSubscription) Name() string { return "cancel_subscription" }

func (c CancelSubscription) Execute(ctx context.Context, s *Storefront) Result {
	msg, err := s.checkout.CancelSubscription(ctx, c.SubscriptionID, c.Immediate)
	if err != nil {
		return failed(err)
	}
	return Result{Notice: s.Notice(i18n.NoticeSubscriptionCancel, map[string]string{"message": msg})}
}

// UpdateProfile saves the shopper's profile.
type UpdateProfile struct{ Profile domain.Profile }

func (UpdateProfile) Name() string { return "update_profile" }

func (c UpdateProfile) Execute(ctx context.Context, s *Storefront) Result {
	userID, err := s.requireUser()
	if err != nil {
		return failed(err)
	}
	if err := s.account.UpdateProfile(ctx, userID, c.Profile); err != nil {
		return failed(err)
	}
	return Result{Notice: s.Notice(i18n.NoticeProfileUpdated, nil)}
}
