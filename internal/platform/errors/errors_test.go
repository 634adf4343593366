package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestErrorIsMatchesByCode(t *testing.T) {
	err := WithMetadata(CodeValidation, "quantity exceeds stock", map[string]string{"reason": "too many"})
	if !stderrors.Is(err, ErrValidation) {
		t.Fatal("expected validation error to match sentinel")
	}
	if stderrors.Is(err, ErrAuth) {
		t.Fatal("expected validation error not to match auth sentinel")
	}
}

func TestCodeOfWalksChain(t *testing.T) {
	inner := Wrap(CodeNetwork, "get products", stderrors.New("dial tcp: refused"))
	outer := fmt.Errorf("load catalog: %w", inner)
	if got := CodeOf(outer); got != CodeNetwork {
		t.Fatalf("CodeOf() = %q, want NETWORK", got)
	}
	if got := CodeOf(stderrors.New("plain")); got != CodeUnknown {
		t.Fatalf("CodeOf(plain) = %q, want UNKNOWN", got)
	}
	if got := CodeOf(nil); got != "" {
		t.Fatalf("CodeOf(nil) = %q, want empty", got)
	}
}

func TestErrorMessageIncludesCause(t *testing.T) {
	cause := stderrors.New("timeout")
	if got := Wrap(CodeNetwork, "get cart", cause).Error(); got != "get cart: timeout" {
		t.Fatalf("Error() = %q", got)
	}
	if got := Wrap(CodeNetwork, "", cause).Error(); got != "timeout" {
		t.Fatalf("Error() = %q", got)
	}
	if !stderrors.Is(Wrap(CodeNetwork, "get cart", cause), cause) {
		t.Fatal("expected cause to be reachable")
	}
}

func TestMetadataOf(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", WithMetadata(CodeRateLimited, "cooldown", map[string]string{"wait": "12s"}))
	if got := MetadataOf(err)["wait"]; got != "12s" {
		t.Fatalf("MetadataOf()[wait] = %q, want 12s", got)
	}
	if MetadataOf(stderrors.New("plain")) != nil {
		t.Fatal("expected nil metadata for plain errors")
	}
}

func TestCodeForHTTPStatus(t *testing.T) {
	tests := map[int]Code{
		http.StatusBadRequest:          CodeValidation,
		http.StatusConflict:            CodeValidation,
		http.StatusUnprocessableEntity: CodeValidation,
		http.StatusUnauthorized:        CodeAuth,
		http.StatusForbidden:           CodeAuth,
		http.StatusNotFound:            CodeNotFound,
		http.StatusTooManyRequests:     CodeRateLimited,
		http.StatusInternalServerError: CodeServer,
		http.StatusBadGateway:          CodeServer,
		http.StatusTeapot:              CodeUnknown,
	}
	for status, want := range tests {
		if got := CodeForHTTPStatus(status); got != want {
			t.Fatalf("CodeForHTTPStatus(%d) = %q, want %q", status, got, want)
		}
	}
}

func TestRetryable(t *testing.T) {
	for code, want := range map[Code]bool{
		CodeNetwork:     true,
		CodeServer:      true,
		CodeRateLimited: true,
		CodeValidation:  false,
		CodeAuth:        false,
	} {
		if got := code.Retryable(); got != want {
			t.Fatalf("%s.Retryable() = %t, want %t", code, got, want)
		}
	}
}
