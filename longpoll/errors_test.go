package longpoll

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResponseErrorFormat(t *testing.T) {
	msg := responseError("invalid status code", 500, "Internal Server Error", []byte("boom"))
	assert.Equal(t, "invalid status code: [500 Internal Server Error] boom", msg)

	msg = responseError("failed to deserialize response body", 200, "OK", nil)
	assert.Equal(t, "failed to deserialize response body: [200 OK] ", msg)
}

func TestInterruptedError(t *testing.T) {
	err := &InterruptedError{Operation: "matchWindow", cause: context.Canceled}

	assert.Equal(t, ErrTypeInterrupted, err.Type())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Contains(t, err.Error(), `"matchWindow"`)
}

func TestIsErrorType(t *testing.T) {
	statusErr := &StatusError{statusCode: 404, reasonPhrase: "Not Found"}

	assert.True(t, IsErrorType(statusErr, ErrTypeStatus))
	assert.False(t, IsErrorType(statusErr, ErrTypeDecode))
	assert.False(t, IsErrorType(nil, ErrTypeStatus))
	assert.False(t, IsErrorType(errors.New("plain"), ErrTypeStatus))

	wrapped := fmt.Errorf("run operation: %w", statusErr)
	assert.True(t, IsErrorType(wrapped, ErrTypeStatus))
}

func TestDecodeErrorUnwrap(t *testing.T) {
	cause := errors.New("unexpected end of JSON input")
	err := &DecodeError{statusCode: 200, reasonPhrase: "OK", body: []byte("{"), cause: cause}

	assert.Equal(t, ErrTypeDecode, err.Type())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "failed to deserialize response body: [200 OK] {", err.Error())
}
