// Package errors provides structured error handling with i18n support.
package errors

import "net/http"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Transport errors
	CodeNetwork Code = "NETWORK"
	CodeServer  Code = "SERVER"

	// Request errors
	CodeValidation  Code = "VALIDATION"
	CodeAuth        Code = "AUTH"
	CodeNotFound    Code = "NOT_FOUND"
	CodeRateLimited Code = "RATE_LIMITED"

	// CodeStaleResponse marks a completion superseded by a newer request.
	// It never crosses a component boundary.
	CodeStaleResponse Code = "STALE_RESPONSE"
)

// CodeForHTTPStatus maps a non-2xx response status to a domain code.
func CodeForHTTPStatus(status int) Code {
	switch {
	case status == http.StatusBadRequest,
		status == http.StatusConflict,
		status == http.StatusUnprocessableEntity:
		return CodeValidation
	case status == http.StatusUnauthorized,
		status == http.StatusForbidden:
		return CodeAuth
	case status == http.StatusNotFound:
		return CodeNotFound
	case status == http.StatusTooManyRequests:
		return CodeRateLimited
	case status >= http.StatusInternalServerError:
		return CodeServer
	default:
		return CodeUnknown
	}
}

// Retryable reports whether a user may reasonably try the same action again.
// Nothing in the client retries automatically; this only drives messaging.
func (c Code) Retryable() bool {
	switch c {
	case CodeNetwork, CodeServer, CodeRateLimited:
		return true
	default:
		return false
	}
}
