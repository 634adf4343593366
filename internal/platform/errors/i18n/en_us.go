package i18n

// Error codes must match the codes defined in internal/platform/errors/codes.go.
// These are duplicated as strings to avoid an import cycle.
const (
	CodeUnknown     = "UNKNOWN"
	CodeNetwork     = "NETWORK"
	CodeServer      = "SERVER"
	CodeValidation  = "VALIDATION"
	CodeAuth        = "AUTH"
	CodeNotFound    = "NOT_FOUND"
	CodeRateLimited = "RATE_LIMITED"
)

// Notice keys share the catalog with error codes.
const (
	NoticeOTPSent            = "NOTICE_OTP_SENT"
	NoticeOTPResent          = "NOTICE_OTP_RESENT"
	NoticeOTPVerified        = "NOTICE_OTP_VERIFIED"
	NoticeLoggedOut          = "NOTICE_LOGGED_OUT"
	NoticeCartAdded          = "NOTICE_CART_ADDED"
	NoticeCartUpdated        = "NOTICE_CART_UPDATED"
	NoticeCartRemoved        = "NOTICE_CART_REMOVED"
	NoticeWishlistAdded      = "NOTICE_WISHLIST_ADDED"
	NoticeWishlistRemoved    = "NOTICE_WISHLIST_REMOVED"
	NoticeOrderPlaced        = "NOTICE_ORDER_PLACED"
	NoticeOrderCancel        = "NOTICE_ORDER_CANCEL"
	NoticeSubscriptionCancel = "NOTICE_SUBSCRIPTION_CANCEL"
	NoticeProfileUpdated     = "NOTICE_PROFILE_UPDATED"
	NoticeRedirecting        = "NOTICE_REDIRECTING"
)

var enUSMessages = map[Code]string{
	CodeUnknown:     "Something went wrong",
	CodeNetwork:     "Could not reach the store. Check your connection and try again.",
	CodeServer:      "The store is having trouble right now. Please try again.",
	CodeValidation:  "{{if .reason}}{{.reason}}{{else}}Please check your input{{end}}",
	CodeAuth:        "Please sign in again",
	CodeNotFound:    "{{if .resource}}{{.resource}} not found{{else}}Not found{{end}}",
	CodeRateLimited: "Please wait {{.wait}} before trying again",

	NoticeOTPSent:            "OTP sent successfully!",
	NoticeOTPResent:          "New OTP sent!",
	NoticeOTPVerified:        "OTP verified successfully!",
	NoticeLoggedOut:          "Logged out successfully!",
	NoticeCartAdded:          "{{if .message}}{{.message}}{{else}}Added to cart{{end}}",
	NoticeCartUpdated:        "Quantity updated",
	NoticeCartRemoved:        "Item removed from cart",
	NoticeWishlistAdded:      "Added to wishlist",
	NoticeWishlistRemoved:    "Removed from wishlist",
	NoticeOrderPlaced:        "Order placed successfully (Cash on Delivery)",
	NoticeOrderCancel:        "{{if .message}}{{.message}}{{else}}Cancel request sent{{end}}",
	NoticeSubscriptionCancel: "{{if .message}}{{.message}}{{else}}Subscription cancelled{{end}}",
	NoticeProfileUpdated:     "User updated successfully!",
	NoticeRedirecting:        "Redirecting to payment...",
}
