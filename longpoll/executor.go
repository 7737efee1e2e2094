package longpoll

import (
	"context"
	"net/http"
	"time"

	"github.com/gaborage/go-longops/logger"
	"github.com/gaborage/go-longops/transport"
)

const (
	// DefaultInitialDelay is the wait before the second attempt.
	DefaultInitialDelay = 2 * time.Second
	// DefaultMaxDelay caps backoff growth on very long operations.
	DefaultMaxDelay = 10 * time.Second

	// backoff grows by 3/2 per retry; integer duration math keeps this
	// exact on millisecond-grained delays (2000, 3000, 4500, 6750, ...).
	backoffNum = 3
	backoffDen = 2
)

// Attempt performs one HTTP call. Each invocation must be a fresh network
// call; the executor re-invokes it until a terminal response arrives.
type Attempt func(ctx context.Context) (*transport.Response, error)

// Executor runs long-request polling loops. It holds no per-call state, so a
// single Executor is safe to use from concurrent call sites.
type Executor struct {
	log          logger.Logger
	initialDelay time.Duration
	maxDelay     time.Duration

	// wait is swapped in tests to observe delays without sleeping.
	wait func(ctx context.Context, d time.Duration) error
}

// Option configures an Executor.
type Option func(*Executor)

// WithInitialDelay overrides the first backoff delay.
func WithInitialDelay(d time.Duration) Option {
	return func(e *Executor) {
		if d > 0 {
			e.initialDelay = d
		}
	}
}

// WithMaxDelay overrides the backoff cap.
func WithMaxDelay(d time.Duration) Option {
	return func(e *Executor) {
		if d > 0 {
			e.maxDelay = d
		}
	}
}

// New creates an Executor with the default 2s..10s backoff window.
func New(log logger.Logger, opts ...Option) *Executor {
	e := &Executor{
		log:          log,
		initialDelay: DefaultInitialDelay,
		maxDelay:     DefaultMaxDelay,
		wait:         sleepContext,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run invokes attempt until it produces a response with a status other than
// 202 Accepted and returns that response with its body unread. 202 responses
// are released without being read, then the loop waits with multiplicative
// backoff before the next attempt.
//
// Errors from attempt itself are returned unchanged: transport failures are
// not retried here. A cancelled wait returns an InterruptedError wrapping
// ctx.Err(); the loop never resumes after cancellation.
func (e *Executor) Run(ctx context.Context, operation string, attempt Attempt) (*transport.Response, error) {
	delay := e.initialDelay
	for {
		resp, err := attempt(ctx)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode() != http.StatusAccepted {
			return resp, nil
		}

		// The body of a 202 is never read, but the response must be
		// released or the underlying connection stays occupied.
		resp.Release()

		e.log.Debug().
			Str("operation", operation).
			Int64("delay_ms", delay.Milliseconds()).
			Msgf("%s: Still running... Retrying in %d ms", operation, delay.Milliseconds())

		if err := e.wait(ctx, delay); err != nil {
			return nil, &InterruptedError{Operation: operation, cause: err}
		}

		delay = nextDelay(delay, e.maxDelay)
	}
}

// nextDelay grows the delay by 3/2, capped at maxDelay.
func nextDelay(d, maxDelay time.Duration) time.Duration {
	d = d * backoffNum / backoffDen
	if d > maxDelay {
		d = maxDelay
	}
	return d
}

// sleepContext waits for d without consuming CPU, aborting when ctx is
// cancelled.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
