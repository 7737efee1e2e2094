package transport

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
)

// maxDrainBytes bounds how much of an unread body Release drains before
// closing, so the connection can be reused without buffering huge payloads.
const maxDrainBytes = 512 << 10

// Response is a single HTTP response whose body has not been read yet.
// The body is consumed at most once (ReadBody) and the underlying connection
// resources are released exactly once, either by ReadBody or by Release.
// A Response is owned by one goroutine at a time.
type Response struct {
	statusCode int
	reason     string
	body       io.ReadCloser

	released bool
	read     bool
	data     []byte
}

// NewResponse wraps an already-obtained status line and body. It exists for
// custom transports and tests; Client produces responses directly from the
// wire. A nil body is treated as empty.
func NewResponse(statusCode int, reasonPhrase string, body io.ReadCloser) *Response {
	return &Response{
		statusCode: statusCode,
		reason:     reasonPhrase,
		body:       body,
	}
}

// newResponse adapts a net/http response.
func newResponse(hr *http.Response) *Response {
	return NewResponse(hr.StatusCode, reasonPhrase(hr), hr.Body)
}

// reasonPhrase extracts the reason phrase from the status line, falling back
// to the canonical text when the server sent none.
func reasonPhrase(hr *http.Response) string {
	phrase := strings.TrimSpace(strings.TrimPrefix(hr.Status, strconv.Itoa(hr.StatusCode)))
	if phrase == "" {
		phrase = http.StatusText(hr.StatusCode)
	}
	return phrase
}

// StatusCode returns the HTTP status code.
func (r *Response) StatusCode() int {
	return r.statusCode
}

// ReasonPhrase returns the status line reason phrase, e.g. "OK".
func (r *Response) ReasonPhrase() string {
	return r.reason
}

// ReadBody consumes the body and releases the response. Subsequent calls
// return the cached bytes, so the wire is never read twice.
func (r *Response) ReadBody() ([]byte, error) {
	if r.read {
		return r.data, nil
	}
	if r.released {
		return nil, fmt.Errorf("transport: response already released")
	}
	r.released = true
	if r.body == nil {
		r.read = true
		return nil, nil
	}
	data, err := io.ReadAll(r.body)
	_ = r.body.Close()
	if err != nil {
		return nil, fmt.Errorf("transport: read response body: %w", err)
	}
	r.data = data
	r.read = true
	return data, nil
}

// Release disposes of the underlying resources without reading the body.
// It is idempotent and safe to call after ReadBody.
func (r *Response) Release() {
	if r.released {
		return
	}
	r.released = true
	if r.body == nil {
		return
	}
	_, _ = io.CopyN(io.Discard, r.body, maxDrainBytes)
	_ = r.body.Close()
}
