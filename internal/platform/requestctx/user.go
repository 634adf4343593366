// Package requestctx carries per-request identity through context.
package requestctx

import (
	"context"

	"github.com/google/uuid"
)

// userIDContextKey is the context key for the shopper identity.
type userIDContextKey struct{}

// requestIDContextKey is the context key for the outbound request identifier.
type requestIDContextKey struct{}

// WithUserID stores a user identifier in context.
func WithUserID(ctx context.Context, userID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, userIDContextKey{}, userID)
}

// UserIDFromContext returns the user identifier stored in context.
func UserIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(userIDContextKey{}).(string)
	return value
}

// WithRequestID stores a request identifier in context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, requestIDContextKey{}, requestID)
}

// RequestIDFromContext returns the request identifier stored in context, or
// mints a new random one when none is present.
func RequestIDFromContext(ctx context.Context) string {
	if ctx != nil {
		if value, _ := ctx.Value(requestIDContextKey{}).(string); value != "" {
			return value
		}
	}
	return uuid.NewString()
}
