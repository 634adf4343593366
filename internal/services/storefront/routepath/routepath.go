// Package routepath stores canonical storefront view paths and matches
// incoming paths against them.
package routepath

import (
	"net/url"
	"strings"
)

const (
	Root               = "/"
	SuccessPattern     = "/success/:id"
	ProductPattern     = "/product/:userid/:id"
	CartPattern        = "/addtocart/:userid"
	WishlistPattern    = "/wishlist/:userid"
	OrdersPattern      = "/userorders/:userId"
	CreateOrderPattern = "/createorder/:userid"
	OrderSuccess       = "/ordersuccess"
	PlansPattern       = "/plans/:userId"
)

// View names a screen of the storefront.
type View string

const (
	ViewLogin        View = "login"
	ViewSuccess      View = "success"
	ViewProduct      View = "product"
	ViewCart         View = "cart"
	ViewWishlist     View = "wishlist"
	ViewOrders       View = "orders"
	ViewCreateOrder  View = "createorder"
	ViewOrderSuccess View = "ordersuccess"
	ViewPlans        View = "plans"
	ViewNotFound     View = "notfound"
)

// Route binds a path pattern to a view.
type Route struct {
	Pattern   string
	View      View
	Protected bool
}

// Routes is the storefront route table in match order.
var Routes = []Route{
	{Pattern: Root, View: ViewLogin},
	{Pattern: SuccessPattern, View: ViewSuccess, Protected: true},
	{Pattern: ProductPattern, View: ViewProduct, Protected: true},
	{Pattern: CartPattern, View: ViewCart, Protected: true},
	{Pattern: WishlistPattern, View: ViewWishlist, Protected: true},
	{Pattern: OrdersPattern, View: ViewOrders, Protected: true},
	{Pattern: CreateOrderPattern, View: ViewCreateOrder, Protected: true},
	{Pattern: OrderSuccess, View: ViewOrderSuccess, Protected: true},
	{Pattern: PlansPattern, View: ViewPlans, Protected: true},
}

// userParamKeys lists the parameters that identify the view's owner, in
// precedence order.
var userParamKeys = []string{"userid", "userId", "id"}

// Match is a resolved path.
type Match struct {
	Route  Route
	Params map[string]string
}

// UserParam returns the owner identifier carried by the path, if any.
func (m Match) UserParam() (string, bool) {
	for _, key := range userParamKeys {
		if value, ok := m.Params[key]; ok {
			return value, true
		}
	}
	return "", false
}

// Resolve matches path against Routes. Unknown paths resolve to the
// not-found view, which is not protected.
func Resolve(path string) Match {
	segments := splitPath(path)
	for _, route := range Routes {
		if params, ok := matchPattern(route.Pattern, segments); ok {
			return Match{Route: route, Params: params}
		}
	}
	return Match{Route: Route{Pattern: "*", View: ViewNotFound}, Params: map[string]string{}}
}

func matchPattern(pattern string, segments []string) (map[string]string, bool) {
	parts := splitPath(pattern)
	if len(parts) != len(segments) {
		return nil, false
	}
	params := make(map[string]string)
	for i, part := range parts {
		if name, ok := strings.CutPrefix(part, ":"); ok {
			value, err := url.PathUnescape(segments[i])
			if err != nil || value == "" {
				return nil, false
			}
			params[name] = value
			continue
		}
		if part != segments[i] {
			return nil, false
		}
	}
	return params, true
}

func splitPath(path string) []string {
	path = strings.TrimSpace(path)
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

// Success returns the post-login landing route.
func Success(userID string) string {
	return "/success/" + escapeSegment(userID)
}

// Product returns the product detail route.
func Product(userID, productID string) string {
	return "/product/" + escapeSegment(userID) + "/" + escapeSegment(productID)
}

// Cart returns the cart route.
func Cart(userID string) string {
	return "/addtocart/" + escapeSegment(userID)
}

// Wishlist returns the wishlist route.
func Wishlist(userID string) string {
	return "/wishlist/" + escapeSegment(userID)
}

// Orders returns the order history route.
func Orders(userID string) string {
	return "/userorders/" + escapeSegment(userID)
}

// CreateOrder returns the checkout route.
func CreateOrder(userID string) string {
	return "/createorder/" + escapeSegment(userID)
}

// Plans returns the subscription plans route.
func Plans(userID string) string {
	return "/plans/" + escapeSegment(userID)
}

// AdminDashboard returns the external admin dashboard URL for userID.
func AdminDashboard(adminBaseURL, userID string) string {
	return strings.TrimRight(strings.TrimSpace(adminBaseURL), "/") + "/" + escapeSegment(userID)
}

func escapeSegment(raw string) string {
	return url.PathEscape(strings.TrimSpace(raw))
}
