package transport

import (
	"context"
	"net/http"
	"time"
)

const (
	// DefaultTimeout is the default per-attempt timeout. Long-running
	// operations report progress via 202 well before this elapses.
	DefaultTimeout = 5 * time.Minute
)

// Request describes a single HTTP attempt. The same Request value can be
// executed repeatedly; every execution is a fresh network call.
type Request struct {
	// Path is resolved against the client base URL. An absolute URL is used
	// as-is.
	Path    string
	Headers map[string]string
	Body    []byte
	Auth    *BasicAuth
}

// BasicAuth contains basic authentication credentials
type BasicAuth struct {
	Username string
	Password string
}

// RequestInterceptor is called before sending the request
type RequestInterceptor func(ctx context.Context, req *http.Request) error
