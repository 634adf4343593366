// Package remote is the storefront's HTTP/JSON adapter for the shop backend.
//
// Every exported call is a single request. Nothing here retries, caches or
// orders requests; callers own sequencing and stale-response suppression.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/net/publicsuffix"

	apperrors "github.com/louisbranch/storefront/internal/platform/errors"
	platformotel "github.com/louisbranch/storefront/internal/platform/otel"
	"github.com/louisbranch/storefront/internal/platform/requestctx"
	"github.com/louisbranch/storefront/internal/platform/timeouts"
)

// maxErrorBody bounds how much of a failed response is read for its message.
const maxErrorBody = 64 << 10

// Config configures a Client.
type Config struct {
	BaseURL string
	// Timeout caps each request. Defaults to timeouts.RemoteRequest.
	Timeout time.Duration
	// HTTPClient overrides the transport. Its Jar is replaced when nil.
	HTTPClient     *http.Client
	TracerProvider trace.TracerProvider
	Logger         *zap.Logger
}

// Client talks to the shop backend. The session cookie set by the backend is
// kept in the client's cookie jar, so one Client represents one browser-like
// session.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	jar     *sessionJar
	timeout time.Duration
	tracer  trace.Tracer
	logger  *zap.Logger
}

// NewClient builds a client for the backend at cfg.BaseURL.
func NewClient(cfg Config) (*Client, error) {
	raw := strings.TrimSpace(cfg.BaseURL)
	if raw == "" {
		return nil, fmt.Errorf("base url is required")
	}
	baseURL, err := url.Parse(strings.TrimRight(raw, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if baseURL.Scheme == "" || baseURL.Host == "" {
		return nil, fmt.Errorf("base url must be absolute: %q", raw)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	jar, ok := httpClient.Jar.(*sessionJar)
	if httpClient.Jar == nil {
		fresh, err := newSessionJar()
		if err != nil {
			return nil, err
		}
		httpClient.Jar = fresh
		jar, ok = fresh, true
	}
	if !ok {
		jar = nil
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = timeouts.RemoteRequest
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		baseURL: baseURL,
		http:    httpClient,
		jar:     jar,
		timeout: timeout,
		tracer:  platformotel.Tracer(cfg.TracerProvider),
		logger:  logger,
	}, nil
}

// ForgetSession drops every cookie the backend has set. It is a no-op when
// the caller supplied its own cookie jar.
func (c *Client) ForgetSession() error {
	if c.jar == nil {
		return nil
	}
	return c.jar.reset()
}

// sessionJar is a cookie jar that can be emptied while requests are in flight.
type sessionJar struct {
	mu  sync.RWMutex
	jar *cookiejar.Jar
}

func newSessionJar() (*sessionJar, error) {
	j := &sessionJar{}
	if err := j.reset(); err != nil {
		return nil, err
	}
	return j, nil
}

func (j *sessionJar) reset() error {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return fmt.Errorf("create cookie jar: %w", err)
	}
	j.mu.Lock()
	j.jar = jar
	j.mu.Unlock()
	return nil
}

func (j *sessionJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.mu.RLock()
	jar := j.jar
	j.mu.RUnlock()
	jar.SetCookies(u, cookies)
}

func (j *sessionJar) Cookies(u *url.URL) []*http.Cookie {
	j.mu.RLock()
	jar := j.jar
	j.mu.RUnlock()
	return jar.Cookies(u)
}

// request describes one backend call.
type request struct {
	method string
	// route is the templated path used for span names, e.g. /getcartitems/:userId.
	route string
	path  string
	body  any
	// contentType overrides JSON encoding when body is already encoded.
	contentType string
}

type messageResponse struct {
	Message string `json:"message"`
}

// do sends req and decodes a 2xx JSON body into out when out is non-nil.
func (c *Client) do(ctx context.Context, req request, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	ctx, span := c.tracer.Start(ctx, req.method+" "+req.route, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(
		attribute.String("http.request.method", req.method),
		attribute.String("url.path", req.route),
	)
	userID := requestctx.UserIDFromContext(ctx)
	if userID != "" {
		span.SetAttributes(attribute.String("enduser.id", userID))
	}

	httpReq, err := c.newRequest(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "build request")
		return err
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport")
		c.logger.Warn("remote request failed",
			zap.String("method", req.method),
			zap.String("route", req.route),
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return apperrors.Wrap(apperrors.CodeNetwork, req.method+" "+req.route, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := statusError(req, resp)
		span.SetStatus(codes.Error, resp.Status)
		c.logger.Warn("remote request rejected",
			zap.String("method", req.method),
			zap.String("route", req.route),
			zap.Int("status", resp.StatusCode),
			zap.String("user_id", userID),
			zap.String("code", string(apperrors.CodeOf(statusErr))),
		)
		return statusErr
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "decode")
		return apperrors.Wrap(apperrors.CodeServer, "decode "+req.route+" response", err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, req request) (*http.Request, error) {
	target := c.baseURL.JoinPath(req.path)

	var body io.Reader
	contentType := req.contentType
	switch payload := req.body.(type) {
	case nil:
	case []byte:
		body = bytes.NewReader(payload)
	default:
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.CodeValidation, "encode "+req.route+" request", err)
		}
		body = bytes.NewReader(encoded)
		contentType = "application/json"
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, target.String(), body)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeValidation, "build "+req.route+" request", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-Id", requestctx.RequestIDFromContext(ctx))
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	return httpReq, nil
}

// statusError turns a non-2xx response into a tagged error carrying the
// backend's message when it sent one.
func statusError(req request, resp *http.Response) error {
	code := apperrors.CodeForHTTPStatus(resp.StatusCode)
	if code == apperrors.CodeUnknown {
		code = apperrors.CodeServer
	}

	message := req.method + " " + req.route + ": " + resp.Status
	metadata := map[string]string{"status": resp.Status}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var decoded messageResponse
	if len(raw) > 0 && json.Unmarshal(raw, &decoded) == nil && strings.TrimSpace(decoded.Message) != "" {
		metadata["reason"] = strings.TrimSpace(decoded.Message)
		message += ": " + metadata["reason"]
	}
	return apperrors.WithMetadata(code, message, metadata)
}

func pathEscape(segment string) string {
	return url.PathEscape(strings.TrimSpace(segment))
}
