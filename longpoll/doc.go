// Package longpoll drives REST operations that complete asynchronously.
//
// Servers signal "still running" with HTTP 202; any other status is terminal.
// Executor re-invokes a single HTTP attempt with capped multiplicative
// backoff until a terminal response arrives, and Parse then validates the
// status code against an allow-list and decodes the body into a typed value.
//
//	exec := longpoll.New(log)
//	resp, err := exec.Run(ctx, "matchWindow", func(ctx context.Context) (*transport.Response, error) {
//		return client.Post(ctx, &transport.Request{Path: "/sessions/123", Body: payload})
//	})
//	if err != nil {
//		return err
//	}
//	result, err := longpoll.Parse[MatchResult](resp, http.StatusOK)
//
// Backoff starts at 2s and grows by a factor of 1.5 per retry, capped at 10s.
// The loop has no attempt limit; the server decides when the operation is
// done. Callers wanting a wall-clock bound wrap ctx with a deadline, which
// cancels the wait and aborts the loop.
//
// Transport failures (connection refused, DNS, TLS) are never retried by this
// package; they surface unchanged from the attempt.
package longpoll
