package remote

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	apperrors "github.com/louisbranch/storefront/internal/platform/errors"
	"github.com/louisbranch/storefront/internal/platform/requestctx"
	"github.com/louisbranch/storefront/internal/services/storefront/domain"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := NewClient(Config{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, payload any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		t.Errorf("encode response: %v", err)
	}
}

func TestNewClientRejectsRelativeURL(t *testing.T) {
	for _, raw := range []string{"", "  ", "/api", "localhost"} {
		if _, err := NewClient(Config{BaseURL: raw}); err == nil {
			t.Fatalf("expected error for base url %q", raw)
		}
	}
}

func TestProductsDecodesNumericAndStringIDs(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/getproducts" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		_, _ = io.WriteString(w, `{"products":[
			{"id":7,"name":"Green Tea","category":"tea","price":"4.50","stock":3,"image":["a.png","b.png"],"main_image":"b.png"},
			{"id":"p-2","name":"Espresso","category":"coffee","price":12,"stock":0,"image":["c.png"]}
		]}`)
	}))

	products, err := client.Products(context.Background())
	if err != nil {
		t.Fatalf("products: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("products = %d, want 2", len(products))
	}
	if products[0].ID != "7" || products[1].ID != "p-2" {
		t.Fatalf("ids = %q, %q", products[0].ID, products[1].ID)
	}
	if products[0].MainImage != "b.png" || products[1].PrimaryImage() != "c.png" {
		t.Fatalf("unexpected images: %+v", products)
	}
	if products[1].Price.String() != "12" {
		t.Fatalf("price = %s, want 12", products[1].Price)
	}
}

func TestProductMissingReturnsNotFound(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/getproduct/42" {
			t.Fatalf("path = %q", r.URL.Path)
		}
		_, _ = io.WriteString(w, `{"product":null}`)
	}))
	_, ok, err := client.Product(context.Background(), "42")
	if err != nil {
		t.Fatalf("product: %v", err)
	}
	if ok {
		t.Fatal("expected product to be absent")
	}
}

func TestCartEndpoints(t *testing.T) {
	var calls []string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.Path)
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/addtocart/u1/p1":
			var body quantityRequest
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body.Quantity != 1 {
				t.Fatalf("quantity = %d, want 1", body.Quantity)
			}
			writeJSON(t, w, http.StatusOK, map[string]string{"message": "added"})
		case r.Method == http.MethodPut && r.URL.Path == "/updatecart/u1/p1":
			writeJSON(t, w, http.StatusOK, map[string]string{"message": "updated"})
		case r.Method == http.MethodDelete && r.URL.Path == "/removecart/u1/p1":
			writeJSON(t, w, http.StatusOK, map[string]any{"cart": []map[string]any{
				{"product_id": 2, "name": "Mug", "price": "3", "stock": 5, "quantity": 2},
			}})
		default:
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	}))

	ctx := context.Background()
	if msg, err := client.AddToCart(ctx, "u1", "p1", 1); err != nil || msg != "added" {
		t.Fatalf("add = %q, %v", msg, err)
	}
	if msg, err := client.UpdateCart(ctx, "u1", "p1", 3); err != nil || msg != "updated" {
		t.Fatalf("update = %q, %v", msg, err)
	}
	cart, err := client.RemoveFromCart(ctx, "u1", "p1")
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(cart) != 1 || cart[0].ProductID != "2" || cart[0].Quantity != 2 {
		t.Fatalf("cart = %+v", cart)
	}
	if len(calls) != 3 {
		t.Fatalf("calls = %v", calls)
	}
}

func TestPathSegmentsAreEscaped(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.EscapedPath() != "/getwishlist/a%2Fb" {
			t.Fatalf("escaped path = %q", r.URL.EscapedPath())
		}
		_, _ = io.WriteString(w, `{"wishlist":[]}`)
	}))
	if _, err := client.WishlistItems(context.Background(), "a/b"); err != nil {
		t.Fatalf("wishlist: %v", err)
	}
}

func TestStatusErrorsAreTagged(t *testing.T) {
	tests := []struct {
		status int
		want   apperrors.Code
	}{
		{status: http.StatusBadRequest, want: apperrors.CodeValidation},
		{status: http.StatusUnauthorized, want: apperrors.CodeAuth},
		{status: http.StatusForbidden, want: apperrors.CodeAuth},
		{status: http.StatusNotFound, want: apperrors.CodeNotFound},
		{status: http.StatusTooManyRequests, want: apperrors.CodeRateLimited},
		{status: http.StatusInternalServerError, want: apperrors.CodeServer},
		{status: http.StatusTeapot, want: apperrors.CodeServer},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				writeJSON(t, w, tt.status, map[string]string{"message": "nope"})
			}))
			err := client.SendOTP(context.Background(), "a@b.c")
			if got := apperrors.CodeOf(err); got != tt.want {
				t.Fatalf("code = %q, want %q (err=%v)", got, tt.want, err)
			}
			if reason := apperrors.MetadataOf(err)["reason"]; reason != "nope" {
				t.Fatalf("reason = %q, want nope", reason)
			}
		})
	}
}

func TestTransportFailureIsNetworkError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client, err := NewClient(Config{BaseURL: url})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	_, err = client.Products(context.Background())
	if !errors.Is(err, apperrors.ErrNetwork) {
		t.Fatalf("expected network error, got %v", err)
	}
}

func TestTimeoutIsNetworkError(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		server.Close()
	})

	client, err := NewClient(Config{BaseURL: server.URL, Timeout: 20 * time.Millisecond})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	_, err = client.Products(context.Background())
	if apperrors.CodeOf(err) != apperrors.CodeNetwork {
		t.Fatalf("code = %q, want NETWORK", apperrors.CodeOf(err))
	}
}

func TestMalformedBodyIsServerError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"cart":`)
	}))
	_, err := client.CartItems(context.Background(), "u1")
	if apperrors.CodeOf(err) != apperrors.CodeServer {
		t.Fatalf("code = %q, want SERVER", apperrors.CodeOf(err))
	}
}

func TestSessionCookieIsCarriedAndForgotten(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/verifyotp":
			http.SetCookie(w, &http.Cookie{Name: "token", Value: "abc", Path: "/"})
			writeJSON(t, w, http.StatusOK, map[string]any{"userId": 42, "role": 1})
		case "/verify":
			cookie, err := r.Cookie("token")
			if err != nil || cookie.Value != "abc" {
				writeJSON(t, w, http.StatusOK, map[string]any{"valid": false})
				return
			}
			writeJSON(t, w, http.StatusOK, map[string]any{"valid": true, "user": map[string]any{"id": 42, "email": "a@b.c"}})
		default:
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
	}))

	ctx := context.Background()
	login, err := client.VerifyOTP(ctx, "a@b.c", "123456")
	if err != nil {
		t.Fatalf("verify otp: %v", err)
	}
	if login.UserID != "42" || login.Role != domain.RoleAdmin {
		t.Fatalf("login = %+v", login)
	}
	session, err := client.VerifySession(ctx)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !session.Valid || session.User.ID != "42" {
		t.Fatalf("session = %+v", session)
	}

	if err := client.ForgetSession(); err != nil {
		t.Fatalf("forget session: %v", err)
	}
	session, err = client.VerifySession(ctx)
	if err != nil {
		t.Fatalf("verify after forget: %v", err)
	}
	if session.Valid {
		t.Fatal("expected session to be invalid after forget")
	}
}

func TestCreateOrderSendsFormAndPaymentMethod(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body["payment_method"] != "CARD" || body["shippingAddress"] != "1 Main St" {
			t.Fatalf("body = %v", body)
		}
		writeJSON(t, w, http.StatusOK, map[string]string{"sessionUrl": "https://pay.example/s/1"})
	}))
	resp, err := client.CreateOrder(context.Background(), "u1", domain.OrderForm{
		Name:            "Ana",
		ShippingAddress: "1 Main St",
	}, domain.PaymentCard)
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if resp.SessionURL != "https://pay.example/s/1" {
		t.Fatalf("session url = %q", resp.SessionURL)
	}
}

func TestCancelSubscriptionSendsDeleteBody(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Fatalf("method = %s", r.Method)
		}
		var body cancelSubscriptionRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body.SubscriptionID != "sub_1" || !body.Immediate {
			t.Fatalf("body = %+v", body)
		}
		writeJSON(t, w, http.StatusOK, map[string]string{"message": "cancelled"})
	}))
	msg, err := client.CancelSubscription(context.Background(), "sub_1", true)
	if err != nil || msg != "cancelled" {
		t.Fatalf("cancel = %q, %v", msg, err)
	}
}

func TestUpdateUserSendsMultipartForm(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
			t.Fatalf("content type = %q", r.Header.Get("Content-Type"))
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if r.FormValue("name") != "Ana Lima" || r.FormValue("phone") != "5551234567" {
			t.Fatalf("form = %v", r.MultipartForm.Value)
		}
		if _, ok := r.MultipartForm.Value["profile"]; ok {
			t.Fatal("expected no profile field when picture is empty")
		}
		w.WriteHeader(http.StatusOK)
	}))
	err := client.UpdateUser(context.Background(), "u1", domain.Profile{Name: "Ana Lima", Phone: "5551234567"})
	if err != nil {
		t.Fatalf("update user: %v", err)
	}
}

func TestRequestCarriesRequestIDAndSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Request-Id"); got != "req-1" {
			t.Fatalf("request id = %q", got)
		}
		_, _ = io.WriteString(w, `{"plans":[{"id":1,"plan_name":"pro","subscription_status":"active"}]}`)
	}))
	t.Cleanup(server.Close)

	client, err := NewClient(Config{BaseURL: server.URL, TracerProvider: provider})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	ctx := requestctx.WithUserID(requestctx.WithRequestID(context.Background(), "req-1"), "u1")
	plans, err := client.Plans(ctx, "u1")
	if err != nil {
		t.Fatalf("plans: %v", err)
	}
	if len(plans) != 1 || !plans[0].Active() {
		t.Fatalf("plans = %+v", plans)
	}

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("spans = %d, want 1", len(spans))
	}
	if spans[0].Name() != "GET /getplans/:userId" {
		t.Fatalf("span name = %q", spans[0].Name())
	}
	var enduser string
	for _, attr := range spans[0].Attributes() {
		if attr.Key == "enduser.id" {
			enduser = attr.Value.AsString()
		}
	}
	if enduser != "u1" {
		t.Fatalf("enduser.id = %q, want u1", enduser)
	}
}

func TestFlexIDRejectsObjects(t *testing.T) {
	var id flexID
	if err := json.Unmarshal([]byte(`{"a":1}`), &id); err == nil {
		t.Fatal("expected error for object id")
	}
	if err := json.Unmarshal([]byte(`null`), &id); err != nil || id != "" {
		t.Fatalf("null id = %q, %v", id, err)
	}
}
