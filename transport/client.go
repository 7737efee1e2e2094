// Package transport executes single HTTP attempts against a REST server and
// hands back deferred-read responses. It deliberately knows nothing about
// polling: one call in, one response out. Network-level failures are not
// retried here.
package transport

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/gaborage/go-longops/logger"
	"github.com/gaborage/go-longops/trace"
)

// Client executes HTTP attempts against a base server URL. It is safe for
// concurrent use.
type Client struct {
	httpClient   *http.Client
	log          logger.Logger
	baseURL      *url.URL
	headers      map[string]string
	auth         *BasicAuth
	interceptors []RequestInterceptor
	callCount    int64
}

// Builder provides a fluent interface for configuring the transport client.
type Builder struct {
	log          logger.Logger
	serverURL    string
	timeout      time.Duration
	proxyURL     string
	headers      map[string]string
	auth         *BasicAuth
	interceptors []RequestInterceptor
	httpClient   *http.Client
}

// NewBuilder creates a builder targeting the given server URL.
func NewBuilder(log logger.Logger, serverURL string) *Builder {
	return &Builder{
		log:       log,
		serverURL: serverURL,
		timeout:   DefaultTimeout,
		headers:   make(map[string]string),
	}
}

// WithTimeout sets the per-attempt timeout.
func (b *Builder) WithTimeout(timeout time.Duration) *Builder {
	b.timeout = timeout
	return b
}

// WithProxy routes requests through the given HTTP proxy URL.
func (b *Builder) WithProxy(proxyURL string) *Builder {
	b.proxyURL = proxyURL
	return b
}

// WithBasicAuth sets basic authentication credentials
func (b *Builder) WithBasicAuth(username, password string) *Builder {
	b.auth = &BasicAuth{Username: username, Password: password}
	return b
}

// WithDefaultHeader adds a header sent with every attempt.
func (b *Builder) WithDefaultHeader(key, value string) *Builder {
	b.headers[key] = value
	return b
}

// WithRequestInterceptor adds a request interceptor
func (b *Builder) WithRequestInterceptor(interceptor RequestInterceptor) *Builder {
	b.interceptors = append(b.interceptors, interceptor)
	return b
}

// WithHTTPClient supplies a custom *http.Client. Its transport wins over
// WithProxy; a zero timeout is filled from the builder.
func (b *Builder) WithHTTPClient(hc *http.Client) *Builder {
	b.httpClient = hc
	return b
}

// Build validates the configuration and creates the client.
func (b *Builder) Build() (*Client, error) {
	base, err := url.Parse(b.serverURL)
	if err != nil || !base.IsAbs() {
		return nil, NewValidationError("server URL must be absolute: " + b.serverURL)
	}

	hc := b.httpClient
	if hc == nil {
		hc = &http.Client{}
		if b.proxyURL != "" {
			proxy, err := url.Parse(b.proxyURL)
			if err != nil || !proxy.IsAbs() {
				return nil, NewValidationError("proxy URL must be absolute: " + b.proxyURL)
			}
			tr := http.DefaultTransport.(*http.Transport).Clone()
			tr.Proxy = http.ProxyURL(proxy)
			hc.Transport = tr
		}
	}
	if hc.Timeout == 0 {
		hc.Timeout = b.timeout
	}

	return &Client{
		httpClient:   hc,
		log:          b.log,
		baseURL:      base,
		headers:      b.headers,
		auth:         b.auth,
		interceptors: b.interceptors,
	}, nil
}

// NewClient creates a client for the given server URL with default settings.
func NewClient(log logger.Logger, serverURL string) (*Client, error) {
	return NewBuilder(log, serverURL).Build()
}

// Get performs a GET attempt
func (c *Client) Get(ctx context.Context, req *Request) (*Response, error) {
	return c.Do(ctx, http.MethodGet, req)
}

// Post performs a POST attempt
func (c *Client) Post(ctx context.Context, req *Request) (*Response, error) {
	return c.Do(ctx, http.MethodPost, req)
}

// Put performs a PUT attempt
func (c *Client) Put(ctx context.Context, req *Request) (*Response, error) {
	return c.Do(ctx, http.MethodPut, req)
}

// Delete performs a DELETE attempt
func (c *Client) Delete(ctx context.Context, req *Request) (*Response, error) {
	return c.Do(ctx, http.MethodDelete, req)
}

// Do executes one HTTP attempt and returns the response with its body
// unread, so in-progress responses can be released without consuming them.
func (c *Client) Do(ctx context.Context, method string, req *Request) (*Response, error) {
	if req == nil {
		return nil, NewValidationError("request cannot be nil")
	}

	httpReq, err := c.buildRequest(ctx, method, req)
	if err != nil {
		return nil, err
	}

	call := atomic.AddInt64(&c.callCount, 1)
	c.log.Debug().
		Str("method", method).
		Str("url", httpReq.URL.Redacted()).
		Int64("call_count", call).
		Msg("transport attempt")

	start := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	elapsed := time.Since(start)
	if err != nil {
		if c.isTimeout(err) {
			return nil, NewTimeoutError("attempt timed out", c.httpClient.Timeout, err)
		}
		return nil, NewNetworkError("attempt failed", err)
	}

	c.log.Info().
		Str("method", method).
		Str("url", httpReq.URL.Redacted()).
		Int("status", httpResp.StatusCode).
		Dur("elapsed", elapsed).
		Int64("call_count", call).
		Msg("transport response")

	return newResponse(httpResp), nil
}

// buildRequest constructs the *http.Request, applies headers, auth, the
// request ID, and runs interceptors.
func (c *Client) buildRequest(ctx context.Context, method string, req *Request) (*http.Request, error) {
	target, err := c.resolveURL(req.Path)
	if err != nil {
		return nil, err
	}

	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, NewNetworkError("failed to create HTTP request", err)
	}

	for key, value := range c.headers {
		httpReq.Header.Set(key, value)
	}
	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}
	if httpReq.Header.Get("Content-Type") == "" && req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if httpReq.Header.Get(trace.HeaderXRequestID) == "" {
		httpReq.Header.Set(trace.HeaderXRequestID, trace.EnsureRequestID(ctx))
	}

	auth := req.Auth
	if auth == nil {
		auth = c.auth
	}
	if auth != nil {
		httpReq.SetBasicAuth(auth.Username, auth.Password)
	}

	for _, interceptor := range c.interceptors {
		if err := interceptor(ctx, httpReq); err != nil {
			return nil, NewValidationError("request interceptor failed: " + err.Error())
		}
	}
	return httpReq, nil
}

// resolveURL joins a relative path to the base URL; absolute URLs pass
// through untouched.
func (c *Client) resolveURL(path string) (string, error) {
	if path == "" {
		return c.baseURL.String(), nil
	}
	u, err := url.Parse(path)
	if err != nil {
		return "", NewValidationError("invalid request path: " + path)
	}
	if u.IsAbs() {
		return u.String(), nil
	}
	resolved := c.baseURL.JoinPath(u.Path)
	resolved.RawQuery = u.RawQuery
	return resolved.String(), nil
}

func (c *Client) isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
