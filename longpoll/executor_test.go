package longpoll

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaborage/go-longops/logger"
	"github.com/gaborage/go-longops/transport"
)

func testLogger() logger.Logger {
	return logger.NewWithWriter("error", io.Discard)
}

// trackedBody counts closes so tests can assert release-once semantics.
type trackedBody struct {
	io.Reader
	closes int
}

func (b *trackedBody) Close() error {
	b.closes++
	return nil
}

// script produces one scripted response per attempt and records the bodies
// it handed out.
type script struct {
	statuses []int
	attempts int
	bodies   []*trackedBody
}

func (s *script) attempt(context.Context) (*transport.Response, error) {
	status := s.statuses[s.attempts]
	s.attempts++
	body := &trackedBody{Reader: strings.NewReader(`{"id":"abc"}`)}
	s.bodies = append(s.bodies, body)
	return transport.NewResponse(status, http.StatusText(status), body), nil
}

// recordDelays replaces the executor's wait with one that only records.
func recordDelays(e *Executor) *[]time.Duration {
	var delays []time.Duration
	e.wait = func(_ context.Context, d time.Duration) error {
		delays = append(delays, d)
		return nil
	}
	return &delays
}

func TestRunReturnsTerminalResponseImmediately(t *testing.T) {
	for _, status := range []int{200, 201, 400, 500} {
		s := &script{statuses: []int{status}}
		e := New(testLogger())
		delays := recordDelays(e)

		resp, err := e.Run(context.Background(), "op", s.attempt)
		require.NoError(t, err)

		assert.Equal(t, status, resp.StatusCode())
		assert.Equal(t, 1, s.attempts)
		assert.Empty(t, *delays)
		// terminal response is handed over unread
		assert.Equal(t, 0, s.bodies[0].closes)
	}
}

func TestRunRetriesOnAccepted(t *testing.T) {
	s := &script{statuses: []int{202, 202, 200}}
	e := New(testLogger())
	delays := recordDelays(e)

	resp, err := e.Run(context.Background(), "matchWindow", s.attempt)
	require.NoError(t, err)

	assert.Equal(t, 200, resp.StatusCode())
	assert.Equal(t, 3, s.attempts)
	assert.Equal(t, []time.Duration{2 * time.Second, 3 * time.Second}, *delays)
}

func TestRunDelayProgressionIsCapped(t *testing.T) {
	s := &script{statuses: []int{202, 202, 202, 202, 202, 202, 200}}
	e := New(testLogger())
	delays := recordDelays(e)

	_, err := e.Run(context.Background(), "op", s.attempt)
	require.NoError(t, err)

	want := []time.Duration{
		2 * time.Second,
		3 * time.Second,
		4500 * time.Millisecond,
		6750 * time.Millisecond,
		10 * time.Second,
		10 * time.Second,
	}
	assert.Equal(t, want, *delays)
}

func TestRunReleasesEveryAcceptedResponseOnce(t *testing.T) {
	s := &script{statuses: []int{202, 202, 202, 200}}
	e := New(testLogger())
	recordDelays(e)

	resp, err := e.Run(context.Background(), "op", s.attempt)
	require.NoError(t, err)

	for i, body := range s.bodies[:3] {
		assert.Equal(t, 1, body.closes, "202 response %d", i)
	}
	assert.Equal(t, 0, s.bodies[3].closes)

	data, err := resp.ReadBody()
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"abc"}`, string(data))
	assert.Equal(t, 1, s.bodies[3].closes)
}

func TestRunPropagatesAttemptErrorUnchanged(t *testing.T) {
	cause := errors.New("connection refused")
	attempts := 0
	e := New(testLogger())
	recordDelays(e)

	_, err := e.Run(context.Background(), "op", func(context.Context) (*transport.Response, error) {
		attempts++
		return nil, cause
	})

	assert.Same(t, cause, err)
	assert.Equal(t, 1, attempts)
}

func TestRunInterrupted(t *testing.T) {
	s := &script{statuses: []int{202, 200}}
	e := New(testLogger())
	e.wait = func(ctx context.Context, _ time.Duration) error {
		return context.Canceled
	}

	_, err := e.Run(context.Background(), "matchWindow", s.attempt)
	require.Error(t, err)

	assert.True(t, IsErrorType(err, ErrTypeInterrupted))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Contains(t, err.Error(), "matchWindow")
	// the loop never resumed
	assert.Equal(t, 1, s.attempts)
	assert.Equal(t, 1, s.bodies[0].closes)
}

func TestRunCancelledContextAbortsWait(t *testing.T) {
	s := &script{statuses: []int{202, 200}}
	ctx, cancel := context.WithCancel(context.Background())
	e := New(testLogger(), WithInitialDelay(time.Hour))

	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	_, err := e.Run(ctx, "op", s.attempt)
	require.Error(t, err)

	assert.True(t, IsErrorType(err, ErrTypeInterrupted))
	assert.Less(t, time.Since(start), 10*time.Second)
}

func TestRunOptions(t *testing.T) {
	s := &script{statuses: []int{202, 202, 202, 200}}
	e := New(testLogger(), WithInitialDelay(100*time.Millisecond), WithMaxDelay(200*time.Millisecond))
	delays := recordDelays(e)

	_, err := e.Run(context.Background(), "op", s.attempt)
	require.NoError(t, err)

	want := []time.Duration{
		100 * time.Millisecond,
		150 * time.Millisecond,
		200 * time.Millisecond,
	}
	assert.Equal(t, want, *delays)
}

func TestNextDelay(t *testing.T) {
	assert.Equal(t, 3*time.Second, nextDelay(2*time.Second, 10*time.Second))
	assert.Equal(t, 4500*time.Millisecond, nextDelay(3*time.Second, 10*time.Second))
	assert.Equal(t, 10*time.Second, nextDelay(8*time.Second, 10*time.Second))
	assert.Equal(t, 10*time.Second, nextDelay(10*time.Second, 10*time.Second))
}

// End-to-end: a real transport client polling a server that answers 202
// twice before completing.
func TestRunAgainstHTTPServer(t *testing.T) {
	var calls int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt64(&calls, 1) <= 2 {
			w.WriteHeader(http.StatusAccepted)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"id":"abc","extraField":"x"}`))
	}))
	defer server.Close()

	client, err := transport.NewClient(testLogger(), server.URL)
	require.NoError(t, err)

	e := New(testLogger(), WithInitialDelay(time.Millisecond), WithMaxDelay(2*time.Millisecond))
	resp, err := e.Run(context.Background(), "session", func(ctx context.Context) (*transport.Response, error) {
		return client.Get(ctx, &transport.Request{Path: "/running/42"})
	})
	require.NoError(t, err)

	type result struct {
		ID string `json:"id"`
	}
	got, err := Parse[result](resp, http.StatusOK, http.StatusCreated)
	require.NoError(t, err)

	assert.Equal(t, "abc", got.ID)
	assert.Equal(t, int64(3), atomic.LoadInt64(&calls))
}
