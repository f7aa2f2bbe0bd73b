/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package codacy

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"chainguard.dev/codestandard/metrics"
	"github.com/chainguard-dev/clog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the public v3 API endpoint.
	DefaultBaseURL = "https://app.codacy.com/api/v3"
	// DefaultProvider is the git provider segment of organization paths.
	DefaultProvider = "gh"

	defaultUserAgent = "codestd/1.0"
	defaultTimeout   = time.Minute

	// maxBodySize bounds how much of a response body is read.
	maxBodySize = 32 << 20
)

// Client talks to the coding standard resources of the service. Calls are made
// one at a time by its callers; the client itself holds no per-call state.
type Client struct {
	baseURL    string
	provider   string
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint, e.g. for a self-hosted installation.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(u, "/")
	}
}

// WithProvider sets the git provider segment (gh, gl, bb).
func WithProvider(provider string) Option {
	return func(c *Client) {
		c.provider = provider
	}
}

// WithHTTPClient sets the underlying HTTP client. Its transport is wrapped to
// add authentication.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithRateLimit paces requests to at most limit per second with the given burst.
func WithRateLimit(limit rate.Limit, burst int) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(limit, burst)
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// New creates a client that authenticates with tokens from ts.
func New(ts oauth2.TokenSource, opts ...Option) (*Client, error) {
	if ts == nil {
		return nil, errors.New("token source is required")
	}

	c := &Client{
		baseURL:   DefaultBaseURL,
		provider:  DefaultProvider,
		userAgent: defaultUserAgent,
		limiter:   rate.NewLimiter(rate.Inf, 1),
	}
	for _, opt := range opts {
		opt(c)
	}

	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", c.baseURL)
	}
	if c.provider == "" {
		return nil, errors.New("provider is required")
	}

	hc := &http.Client{Timeout: defaultTimeout}
	if c.httpClient != nil {
		copied := *c.httpClient
		hc = &copied
	}
	base := hc.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	hc.Transport = &tokenTransport{source: ts, userAgent: c.userAgent, base: base}
	c.httpClient = hc

	return c, nil
}

// orgURL builds an absolute URL under /organizations/{provider}/{org}.
func (c *Client) orgURL(org string, query url.Values, elems ...string) string {
	var sb strings.Builder
	sb.WriteString(c.baseURL)
	sb.WriteString("/organizations/")
	sb.WriteString(url.PathEscape(c.provider))
	sb.WriteString("/")
	sb.WriteString(url.PathEscape(org))
	for _, e := range elems {
		sb.WriteString("/")
		sb.WriteString(url.PathEscape(e))
	}
	if len(query) > 0 {
		sb.WriteString("?")
		sb.WriteString(query.Encode())
	}
	return sb.String()
}

// do sends one request and decodes a JSON response into out. A nil out or an
// empty response body skips decoding.
func (c *Client) do(ctx context.Context, method, target string, in, out any) (err error) {
	tr := otel.Tracer("chainguard.codestandard.codacy",
		oteltrace.WithInstrumentationVersion("1.0.0"))
	ctx, span := tr.Start(ctx, "codacy.request",
		oteltrace.WithSpanKind(oteltrace.SpanKindClient),
		oteltrace.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("http.url", target),
		))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.End()
	}()

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding %s %s: %w", method, target, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	clog.FromContext(ctx).With("method", method).With("url", target).Debug("Sending request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.ObserveRequest(method, 0)
		return &TransportError{Method: method, URL: target, Err: err}
	}
	defer resp.Body.Close()

	metrics.ObserveRequest(method, resp.StatusCode)
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return &TransportError{Method: method, URL: target, Err: fmt.Errorf("reading response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &RemoteError{
			Method:     method,
			URL:        target,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(raw)),
		}
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decoding %s %s: %w", method, target, err)
	}
	return nil
}
