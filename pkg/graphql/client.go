package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Transport tuning defaults. Endpoint and timeout have none; New requires
// both.
const (
	DefaultMaxResponseBytes = 64 << 20
	DefaultUserAgent        = "opentargets-mcp"

	bodyExcerptLen = 512
)

// Client is a GraphQL-over-HTTP client bound to a single endpoint.
type Client struct {
	endpoint         string
	httpClient       *http.Client
	timeout          time.Duration
	maxResponseBytes int64
	userAgent        string
	headers          http.Header
}

// Option is a functional option for configuring the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client. Its Timeout field should be left
// zero; per-call timeouts are applied through the request context.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithMaxResponseBytes caps the size of a response body.
func WithMaxResponseBytes(n int64) Option {
	return func(c *Client) {
		c.maxResponseBytes = n
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithHeader adds a static header sent with every request.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		c.headers.Add(key, value)
	}
}

// New creates a client for endpoint, an absolute http(s) URL. Every call is
// bounded by timeout, which must be positive.
func New(endpoint string, timeout time.Duration, opts ...Option) (*Client, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("graphql: invalid endpoint %q: %w", endpoint, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("graphql: endpoint %q is not an http(s) URL", endpoint)
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("graphql: timeout must be positive, got %s", timeout)
	}

	c := &Client{
		endpoint:         endpoint,
		httpClient:       http.DefaultClient,
		timeout:          timeout,
		maxResponseBytes: DefaultMaxResponseBytes,
		userAgent:        DefaultUserAgent,
		headers:          make(http.Header),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Endpoint returns the configured endpoint URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Timeout returns the configured per-call timeout.
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// Execute sends req to the endpoint and returns the data payload.
//
// Exactly one of three outcomes is produced: a Response with data, an
// *ApplicationError carrying every GraphQL error, or a *TransportError.
// ErrEmptyQuery is returned before any I/O when the query is blank.
func (c *Client) Execute(ctx context.Context, req *Request) (*Response, error) {
	if req == nil || strings.TrimSpace(req.Query) == "" {
		return nil, ErrEmptyQuery
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, &TransportError{Kind: KindEncode, Cause: fmt.Errorf("encoding request: %w", err)}
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()

	httpReq, err := http.NewRequestWithContext(callCtx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, &TransportError{Kind: KindConnection, Cause: fmt.Errorf("creating request: %w", err)}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}
	for k, vs := range c.headers {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		terr := c.classify(ctx, callCtx, err)
		slog.Debug("GraphQL request failed",
			slog.String("endpoint", c.endpoint),
			slog.String("kind", string(terr.Kind)),
			slog.String("error", err.Error()),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return nil, terr
	}
	defer resp.Body.Close()

	body, err := c.readBody(resp.Body)
	if err != nil {
		var terr *TransportError
		if !errors.As(err, &terr) {
			terr = c.classify(ctx, callCtx, err)
		}
		terr.StatusCode = resp.StatusCode
		return nil, terr
	}

	result, err := c.interpret(resp.StatusCode, body)

	attrs := []slog.Attr{
		slog.String("endpoint", c.endpoint),
		slog.Int("status", resp.StatusCode),
		slog.Int("bytes", len(body)),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		slog.LogAttrs(ctx, slog.LevelDebug, "GraphQL request returned error", attrs...)
		return nil, err
	}
	slog.LogAttrs(ctx, slog.LevelDebug, "GraphQL request completed", attrs...)

	return result, nil
}

// Introspect runs the standard introspection query and returns the raw data
// payload describing the schema.
func (c *Client) Introspect(ctx context.Context) (*Response, error) {
	return c.Execute(ctx, &Request{Query: IntrospectionQuery, OperationName: IntrospectionOperationName})
}

// readBody reads at most maxResponseBytes from r.
func (c *Client) readBody(r io.Reader) ([]byte, error) {
	if c.maxResponseBytes <= 0 {
		return io.ReadAll(r)
	}
	body, err := io.ReadAll(io.LimitReader(r, c.maxResponseBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > c.maxResponseBytes {
		return nil, &TransportError{
			Kind:  KindDecode,
			Cause: fmt.Errorf("response body exceeds %d bytes", c.maxResponseBytes),
		}
	}
	return body, nil
}

// interpret maps a status code and body to a Response or a typed error.
func (c *Client) interpret(status int, body []byte) (*Response, error) {
	var env envelope
	decodeErr := json.Unmarshal(body, &env)

	if status < 200 || status > 299 {
		if decodeErr == nil && len(env.Errors) > 0 {
			return nil, &ApplicationError{Errors: env.Errors, StatusCode: status, Data: partialData(&env)}
		}
		return nil, &TransportError{Kind: KindStatus, StatusCode: status, Body: excerpt(body)}
	}

	if decodeErr != nil {
		return nil, &TransportError{
			Kind:       KindDecode,
			StatusCode: status,
			Body:       excerpt(body),
			Cause:      fmt.Errorf("decoding response: %w", decodeErr),
		}
	}

	if len(env.Errors) > 0 {
		return nil, &ApplicationError{Errors: env.Errors, StatusCode: status, Data: partialData(&env)}
	}

	if !env.hasData() {
		cause := "response contained neither data nor errors"
		if env.Errors != nil {
			cause = "response contained an empty errors array and no data"
		}
		return nil, &TransportError{
			Kind:       KindDecode,
			StatusCode: status,
			Body:       excerpt(body),
			Cause:      errors.New(cause),
		}
	}

	return &Response{Data: env.Data, StatusCode: status}, nil
}

// classify turns a transport failure into a TransportError. parent is the
// caller's context, call is the context carrying the configured timeout.
func (c *Client) classify(parent, call context.Context, err error) *TransportError {
	if perr := parent.Err(); perr != nil {
		if errors.Is(perr, context.DeadlineExceeded) {
			return &TransportError{Kind: KindTimeout, Cause: err}
		}
		return &TransportError{Kind: KindCanceled, Cause: err}
	}
	if errors.Is(call.Err(), context.DeadlineExceeded) {
		return &TransportError{
			Kind:  KindTimeout,
			Cause: fmt.Errorf("no response within %s: %w", c.timeout, err),
		}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &TransportError{Kind: KindTimeout, Cause: err}
	}
	return &TransportError{Kind: KindConnection, Cause: err}
}

func partialData(env *envelope) json.RawMessage {
	if env.hasData() {
		return env.Data
	}
	return nil
}

func excerpt(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > bodyExcerptLen {
		return s[:bodyExcerptLen] + "..."
	}
	return s
}
