// Package api is the typed client for the VisionLink REST API. Every operation
// returns either its result or an *Error carrying one Kind.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"

	"visionlink/internal/session"
)

const (
	DefaultBaseURL = "http://localhost:8000/api"
	defaultTimeout = 20 * time.Second
	maxBodyBytes   = 4 << 20
)

type authMode int

const (
	authNone authMode = iota
	// authOptional attaches the token when one is held.
	authOptional
	authRequired
)

// Client issues requests against the API. It holds no identity of its own; the
// token comes from the injected session.Store on every call.
type Client struct {
	httpClient *http.Client
	baseURL    string
	session    *session.Store
	authScheme string
	strictAuth bool
	userAgent  string
	logger     zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the transport client, e.g. an httptest server's.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout bounds each round trip, response body included.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		hc := *c.httpClient
		hc.Timeout = d
		c.httpClient = &hc
	}
}

// WithStrictAuth makes auth-required operations fail locally when no token is
// held instead of letting the server reject them.
func WithStrictAuth(strict bool) Option {
	return func(c *Client) { c.strictAuth = strict }
}

// WithAuthScheme sets the Authorization scheme, "Token" by default.
func WithAuthScheme(scheme string) Option {
	return func(c *Client) { c.authScheme = scheme }
}

// WithUserAgent sets the User-Agent header sent on every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithLogger sets the logger used for request tracing and logout warnings.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New returns a Client for baseURL, DefaultBaseURL when empty.
func New(baseURL string, sess *session.Store, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		session:    sess,
		authScheme: "Token",
		userAgent:  "visionlink-client",
		logger:     log.Logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Session returns the store the client reads its identity from.
func (c *Client) Session() *session.Store { return c.session }

// BaseURL returns the API root without a trailing slash.
func (c *Client) BaseURL() string { return c.baseURL }

// IsAuthenticated reports whether a token is held locally.
func (c *Client) IsAuthenticated() bool { return c.session.IsAuthenticated() }

// ---- Helpers ----

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, auth authMode, in any) (*http.Request, error) {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, validationError("encode request: %v", err)
		}
		body = bytes.NewReader(b)
	}
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, networkError("build request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	if auth != authNone {
		token := c.session.Token()
		switch {
		case token != "":
			tok := &oauth2.Token{AccessToken: token, TokenType: c.authScheme}
			tok.SetAuthHeader(req)
		case auth == authRequired && c.strictAuth:
			return nil, &Error{Kind: KindAuthentication, Message: "login required", Err: ErrNotAuthenticated}
		}
	}
	return req, nil
}

// call performs one round trip and decodes a 2xx body into out (when non-nil).
func (c *Client) call(ctx context.Context, method, path string, query url.Values, auth authMode, in, out any) error {
	req, err := c.newRequest(ctx, method, path, query, auth, in)
	if err != nil {
		return err
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return networkError("request canceled", ctxErr)
		}
		return networkError("request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("took", time.Since(start)).
		Msg("api call")
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return networkError("request canceled", ctxErr)
		}
		return networkError("read response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errorFromResponse(resp.StatusCode, body)
	}
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &Error{Kind: KindNetwork, Status: resp.StatusCode, Message: "malformed response: " + err.Error(), Err: err}
	}
	return nil
}

// stillWanted guards state changes against responses that arrive after the
// caller gave up on the request.
func stillWanted(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return networkError("request canceled", err)
	}
	return nil
}

func asAPIError(err error) *Error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return nil
}
