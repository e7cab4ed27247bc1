package infra

import (
	"context"
	"errors"
	"slices"
	"time"
)

// RetryPolicy describes when and how often an outbound call is repeated.
type RetryPolicy struct {
	MaxAttempts    int           // total attempts including the first; <1 means 1
	Backoff        time.Duration // wait before each repeat
	RetryStatuses  []int         // upstream statuses that qualify for a repeat
	RetryTransport bool          // repeat on connection/timeout failures
}

// NoRetry makes exactly one attempt.
var NoRetry = RetryPolicy{MaxAttempts: 1}

// TransportRetry repeats once, immediately, when the request never got a response.
func TransportRetry(retries int) RetryPolicy {
	return RetryPolicy{MaxAttempts: retries + 1, RetryTransport: true}
}

// StatusRetry waits wait and repeats once per retry when upstream answers
// with one of statuses.
func StatusRetry(retries int, wait time.Duration, statuses ...int) RetryPolicy {
	return RetryPolicy{MaxAttempts: retries + 1, Backoff: wait, RetryStatuses: statuses}
}

// ShouldRetry reports whether err qualifies for another attempt.
func (p RetryPolicy) ShouldRetry(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, ErrMalformedBody) {
		return false
	}
	var httpErr *ErrHTTP
	if errors.As(err, &httpErr) {
		return slices.Contains(p.RetryStatuses, httpErr.StatusCode)
	}
	return p.RetryTransport
}

func (p RetryPolicy) attempts() int {
	if p.MaxAttempts < 1 {
		return 1
	}
	return p.MaxAttempts
}

// Retry runs fn under policy, sleeping on clock between attempts. It returns
// the last result, the number of attempts made, and the last error.
func Retry[T any](ctx context.Context, clock Clock, policy RetryPolicy, fn func(context.Context) (T, error)) (T, int, error) {
	if clock == nil {
		clock = SystemClock{}
	}

	var (
		result T
		err    error
	)
	limit := policy.attempts()
	for attempt := 1; ; attempt++ {
		result, err = fn(ctx)
		if err == nil || attempt >= limit || !policy.ShouldRetry(err) {
			return result, attempt, err
		}
		if serr := clock.Sleep(ctx, policy.Backoff); serr != nil {
			return result, attempt, err
		}
	}
}
