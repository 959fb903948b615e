package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vitortiger/utm-tracker-saas/internal/logging"
)

const (
	RequestIDHeader = "X-Request-ID"

	// DefaultTimeout caps a single request when no http.Client is supplied.
	DefaultTimeout = 15 * time.Second

	maxBodySize = 10 << 20
)

// TokenStore is the part of the credential store the gateway needs.
type TokenStore interface {
	Token(ctx context.Context) (string, error)
	// RemoveIf clears the credential (and its cached user) only while it is
	// still token, reporting whether it did.
	RemoveIf(ctx context.Context, token string) (bool, error)
}

// InvalidationFunc is notified after the credential rejected was refused by
// the server and cleared. It runs synchronously on the goroutine that
// received the 401 and must not block for long.
type InvalidationFunc func(ctx context.Context, rejected string)

type invalidationKey struct{}

// WithoutInvalidation marks ctx so that a 401 on requests made with it is
// returned to the caller without clearing the credential or notifying
// listeners. Logout uses it, since it clears the session itself.
func WithoutInvalidation(ctx context.Context) context.Context {
	return context.WithValue(ctx, invalidationKey{}, true)
}

func invalidationSuppressed(ctx context.Context) bool {
	v, _ := ctx.Value(invalidationKey{}).(bool)
	return v
}

type Option func(*Gateway)

func WithHTTPClient(c *http.Client) Option {
	return func(g *Gateway) { g.client = c }
}

func WithTimeout(d time.Duration) Option {
	return func(g *Gateway) { g.client.Timeout = d }
}

// Gateway dispatches every API request of the client.
type Gateway struct {
	baseURL *url.URL
	client  *http.Client
	tokens  TokenStore
	logger  logging.Logger

	// newRequestID is a test seam.
	newRequestID func() string

	// mu serializes invalidations so a second concurrent 401 waits until
	// the first one has finished notifying listeners.
	mu        sync.Mutex
	listeners []InvalidationFunc
}

func NewGateway(baseURL string, tokens TokenStore, logger logging.Logger, opts ...Option) (*Gateway, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("parse base url: unsupported scheme %q", u.Scheme)
	}

	g := &Gateway{
		baseURL:      u,
		client:       &http.Client{Timeout: DefaultTimeout},
		tokens:       tokens,
		logger:       logger.With("component", "gateway"),
		newRequestID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// OnInvalidated registers fn to be called on every forced logout.
func (g *Gateway) OnInvalidated(fn InvalidationFunc) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.listeners = append(g.listeners, fn)
}

// Do sends method path (relative to the base URL) with body encoded as JSON
// and decodes a 2xx response into out. body and out may be nil.
func (g *Gateway) Do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	req, err := g.newRequest(ctx, method, path, query, body)
	if err != nil {
		return err
	}

	token, err := g.attach(ctx, req)
	if err != nil {
		return err
	}

	started := time.Now()
	resp, err := g.client.Do(req)
	if err != nil {
		g.logger.Warn(ctx, "request failed",
			"method", method, "path", path, "request_id", req.Header.Get(RequestIDHeader), "error", err)
		return &Error{Method: method, Path: path, Err: fmt.Errorf("%w: %w", ErrUnavailable, err)}
	}
	defer resp.Body.Close()

	g.logger.Debug(ctx, "request finished",
		"method", method, "path", path, "status", resp.StatusCode,
		"duration", time.Since(started), "request_id", req.Header.Get(RequestIDHeader))

	return g.observe(ctx, req, token, resp, out)
}

func (g *Gateway) newRequest(ctx context.Context, method, path string, query url.Values, body any) (*http.Request, error) {
	u := g.baseURL.JoinPath(path)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s body: %w", method, path, err)
		}
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), r)
	if err != nil {
		return nil, fmt.Errorf("build %s %s request: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, g.newRequestID())
	return req, nil
}

// attach is the request stage: it adds the bearer credential when one is
// stored and returns it so observe can tell which credential was rejected.
func (g *Gateway) attach(ctx context.Context, req *http.Request) (string, error) {
	token, err := g.tokens.Token(ctx)
	if err != nil {
		return "", fmt.Errorf("read credential: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return token, nil
}

// observe is the response stage.
func (g *Gateway) observe(ctx context.Context, req *http.Request, token string, resp *http.Response, out any) error {
	method, path := req.Method, strings.TrimPrefix(req.URL.Path, g.baseURL.Path)

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return &Error{Method: method, Path: path, Status: resp.StatusCode, Err: fmt.Errorf("%w: %w", ErrUnavailable, err)}
	}

	if resp.StatusCode == http.StatusUnauthorized {
		if token != "" && !invalidationSuppressed(ctx) {
			g.invalidate(ctx, token, req.Header.Get(RequestIDHeader))
		}
		return &Error{Method: method, Path: path, Status: resp.StatusCode, Message: extractMessage(body), Body: body, Err: ErrUnauthorized}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{Method: method, Path: path, Status: resp.StatusCode, Message: extractMessage(body), Body: body}
	}

	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &Error{Method: method, Path: path, Status: resp.StatusCode, Body: body, Err: fmt.Errorf("%w: %w", ErrMalformedResponse, err)}
	}
	return nil
}

// invalidate clears the rejected credential and notifies listeners. Only
// the call that actually removes the credential notifies, so concurrent
// 401s for one credential produce a single forced logout, and a 401 for a
// credential that was already replaced by a new login is ignored.
func (g *Gateway) invalidate(ctx context.Context, token, requestID string) {
	ctx = context.WithoutCancel(ctx)

	g.mu.Lock()
	defer g.mu.Unlock()

	removed, err := g.tokens.RemoveIf(ctx, token)
	if err != nil {
		// the in-memory session is still dropped below
		g.logger.Error(ctx, "failed to clear rejected credential", "request_id", requestID, "error", err)
	} else if !removed {
		return
	}

	g.logger.Warn(ctx, "credential rejected by server, session invalidated", "request_id", requestID)
	for _, fn := range g.listeners {
		fn(ctx, token)
	}
}
