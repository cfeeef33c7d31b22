// ABOUTME: HTTP client for the campus events REST API
// ABOUTME: Normalizes responses into typed values or *Error and sends session cookies on every call

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultTimeout bounds each request when no option overrides it
const DefaultTimeout = 30 * time.Second

// maxBodyBytes caps how much of a response body is read
const maxBodyBytes = 10 << 20

// Client is the API client for the campus events backend
type Client struct {
	baseURL    string
	httpClient *http.Client
	jar        *persistentJar
	dedupe     bool
	group      singleflight.Group
}

// Option configures a Client
type Option func(*Client)

// WithTimeout sets the per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithDedupe toggles sharing of identical in-flight GET requests
func WithDedupe(enabled bool) Option {
	return func(c *Client) {
		c.dedupe = enabled
	}
}

// WithCookieStore persists the session cookie between runs
func WithCookieStore(store CookieStore) Option {
	return func(c *Client) {
		c.jar.store = store
	}
}

// WithTransport replaces the underlying round tripper
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.httpClient.Transport = rt
	}
}

// New creates a new API client with the given base URL
func New(baseURL string, opts ...Option) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	base, err := url.Parse(baseURL)
	if err != nil {
		base = &url.URL{}
	}

	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		jar:    newPersistentJar(base, nil),
		dedupe: true,
	}
	c.httpClient.Jar = c.jar

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root this client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// LoadCookies restores cookies saved by an earlier run
func (c *Client) LoadCookies(ctx context.Context) error {
	if err := c.jar.load(ctx); err != nil {
		return fmt.Errorf("failed to restore cookies: %w", err)
	}
	return nil
}

// ClearCookies forgets the session cookie locally
func (c *Client) ClearCookies(ctx context.Context) {
	c.jar.reset(ctx)
}

// HasSessionCookie reports whether any cookie is held for the API host
func (c *Client) HasSessionCookie() bool {
	return len(c.jar.Cookies(c.jar.base)) > 0
}

// response is a fully read HTTP response
type response struct {
	status      int
	contentType string
	body        []byte
}

func (r *response) ok() bool {
	return r.status >= 200 && r.status < 300
}

func (r *response) isJSON() bool {
	mediaType, _, err := mime.ParseMediaType(r.contentType)
	if err != nil {
		return strings.Contains(r.contentType, "application/json")
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

// do issues a request. Identical GETs in flight at the same time share one
// round trip when dedupe is on; each caller still honours its own context.
func (c *Client) do(ctx context.Context, method, path string, body any) (*response, error) {
	if err := ctx.Err(); err != nil {
		return nil, c.handleRequestError(ctx, err)
	}

	if method != http.MethodGet || !c.dedupe {
		return c.roundTrip(ctx, method, path, body)
	}

	key := method + " " + path
	ch := c.group.DoChan(key, func() (any, error) {
		// Detached so one caller's cancellation does not fail the others
		return c.roundTrip(context.WithoutCancel(ctx), method, path, nil)
	})

	select {
	case <-ctx.Done():
		return nil, c.handleRequestError(ctx, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			slog.Debug("Shared in-flight request", "method", method, "path", path)
		}
		return res.Val.(*response), nil
	}
}

func (c *Client) roundTrip(ctx context.Context, method, path string, body any) (*response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, &Error{Kind: KindValidation, Message: "failed to encode request", Err: err}
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Message: "failed to create request", Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.handleRequestError(ctx, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, c.handleRequestError(ctx, err)
	}

	slog.Debug("API request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"latency_ms", time.Since(start).Milliseconds(),
	)

	return &response{
		status:      resp.StatusCode,
		contentType: resp.Header.Get("Content-Type"),
		body:        data,
	}, nil
}

// getJSON performs a GET and decodes a JSON reply into out
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	return c.sendJSON(ctx, http.MethodGet, path, nil, out)
}

// sendJSON performs a request and decodes a JSON reply into out. A 2xx reply
// that is not JSON leaves out untouched.
func (c *Client) sendJSON(ctx context.Context, method, path string, in, out any) error {
	resp, err := c.do(ctx, method, path, in)
	if err != nil {
		return err
	}
	return decodeResponse(resp, out)
}

func decodeResponse(resp *response, out any) error {
	if !resp.ok() {
		return handleErrorResponse(resp)
	}
	if out == nil || !resp.isJSON() || len(bytes.TrimSpace(resp.body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.body, out); err != nil {
		return &Error{Kind: KindDecode, Status: resp.status, Message: "invalid response from backend", Err: err}
	}
	return nil
}

// handleRequestError converts transport and context errors to user-friendly ones
func (c *Client) handleRequestError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return &Error{Kind: KindCanceled, Message: "request canceled", Err: err}
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: KindTimeout, Message: "request timed out", Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &Error{Kind: KindTimeout, Message: "request timed out", Err: err}
	}
	return &Error{
		Kind:    KindTransport,
		Message: fmt.Sprintf("cannot connect to backend at %s", c.baseURL),
		Err:     err,
	}
}

// handleErrorResponse surfaces the server's message verbatim when the body
// carries one, and a generic status message otherwise.
func handleErrorResponse(resp *response) error {
	var errResp ErrorResponse
	if err := json.Unmarshal(resp.body, &errResp); err != nil || errResp.Message == "" {
		return statusError(resp.status)
	}
	return &Error{Kind: KindHTTP, Status: resp.status, Message: errResp.Message}
}
