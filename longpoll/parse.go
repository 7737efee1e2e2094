package longpoll

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/gaborage/go-longops/transport"
)

// Parse validates a terminal response against the status allow-list and
// decodes its JSON body into T. The response is consumed: its body is read
// once and its resources released before Parse returns, on every path.
//
// Decoding is tolerant on purpose: unknown fields are ignored and missing
// fields are zero-valued, so the client keeps working when the server adds
// response fields.
//
// A disallowed status yields a *StatusError carrying the raw body, without
// any decode attempt. A malformed body yields a *DecodeError wrapping the
// underlying parse error.
func Parse[T any](resp *transport.Response, validStatus ...int) (T, error) {
	var result T

	statusCode := resp.StatusCode()
	reason := resp.ReasonPhrase()

	body, err := resp.ReadBody()
	if err != nil {
		return result, fmt.Errorf("parse response: %w", err)
	}

	if !slices.Contains(validStatus, statusCode) {
		return result, &StatusError{
			statusCode:   statusCode,
			reasonPhrase: reason,
			body:         body,
		}
	}

	if err := json.Unmarshal(body, &result); err != nil {
		return result, &DecodeError{
			statusCode:   statusCode,
			reasonPhrase: reason,
			body:         body,
			cause:        err,
		}
	}

	return result, nil
}
