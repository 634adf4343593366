package remote

import (
	"context"
	"net/http"
	"strings"

	"github.com/louisbranch/storefront/internal/services/storefront/domain"
)

type verifyResponse struct {
	Valid bool `json:"valid"`
	User  *struct {
		ID    flexID `json:"id"`
		Email string `json:"email"`
		Role  int    `json:"role"`
	} `json:"user"`
}

// VerifySession checks the current session cookie.
func (c *Client) VerifySession(ctx context.Context) (domain.Session, error) {
	var resp verifyResponse
	if err := c.do(ctx, request{method: http.MethodGet, route: "/verify", path: "/verify"}, &resp); err != nil {
		return domain.Session{}, err
	}
	if !resp.Valid || resp.User == nil || strings.TrimSpace(string(resp.User.ID)) == "" {
		return domain.Session{Valid: false}, nil
	}
	return domain.Session{
		Valid: true,
		User: domain.User{
			ID:    string(resp.User.ID),
			Email: resp.User.Email,
			Role:  resp.User.Role,
		},
	}, nil
}

type emailRequest struct {
	Email string `json:"email"`
}

// SendOTP asks the backend to email a one-time passcode.
func (c *Client) SendOTP(ctx context.Context, email string) error {
	return c.do(ctx, request{method: http.MethodPost, route: "/sendotp", path: "/sendotp", body: emailRequest{Email: email}}, nil)
}

// ResendOTP asks the backend to issue a fresh one-time passcode.
func (c *Client) ResendOTP(ctx context.Context, email string) error {
	return c.do(ctx, request{method: http.MethodPost, route: "/resendotp", path: "/resendotp", body: emailRequest{Email: email}}, nil)
}

type verifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type verifyOTPResponse struct {
	UserID flexID `json:"userId"`
	Role   int    `json:"role"`
}

// VerifyOTP exchanges a passcode for a session; the session cookie lands in
// the client's jar.
func (c *Client) VerifyOTP(ctx context.Context, email, otp string) (domain.Login, error) {
	var resp verifyOTPResponse
	err := c.do(ctx, request{
		method: http.MethodPost,
		route:  "/verifyotp",
		path:   "/verifyotp",
		body:   verifyOTPRequest{Email: email, OTP: otp},
	}, &resp)
	if err != nil {
		return domain.Login{}, err
	}
	return domain.Login{UserID: string(resp.UserID), Role: resp.Role}, nil
}

// Logout invalidates the session on the backend.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, request{method: http.MethodPost, route: "/logout", path: "/logout", body: struct{}{}}, nil)
}
