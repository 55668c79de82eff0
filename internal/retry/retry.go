// Package retry wraps outbound calls with a bounded exponential-backoff
// retry policy. Only errors classified as transient by the policy are
// retried; everything else fails fast on the first attempt.
package retry

import (
	"context"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/galeproject/gale/internal/logging"
)

// Policy describes how a call is retried. The zero value is not usable;
// construct policies with DefaultPolicy and adjust fields as needed.
type Policy struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts uint

	// InitialInterval is the delay before the first retry.
	InitialInterval time.Duration

	// MaxInterval caps the delay between retries.
	MaxInterval time.Duration

	// Multiplier grows the delay after each retry.
	Multiplier float64

	// RandomizationFactor adds jitter to each delay (0 disables jitter).
	RandomizationFactor float64

	// Transient reports whether an error is worth retrying. A nil
	// predicate treats every error as transient.
	Transient func(error) bool
}

// DefaultPolicy mirrors the upstream services' guidance: two attempts,
// exponential backoff between one second and one minute, with jitter.
func DefaultPolicy(transient func(error) bool) Policy {
	return Policy{
		MaxAttempts:         2,
		InitialInterval:     1 * time.Second,
		MaxInterval:         60 * time.Second,
		Multiplier:          2.0,
		RandomizationFactor: 0.5,
		Transient:           transient,
	}
}

// Do executes op under the policy and returns its result. Transient
// failures are retried with exponential backoff until MaxAttempts is
// exhausted; the last error is returned unchanged. Errors the policy
// classifies as permanent are returned after a single attempt. Context
// cancellation stops the backoff wait.
func Do[T any](ctx context.Context, p Policy, op func() (T, error)) (T, error) {
	attempts := p.MaxAttempts
	if attempts == 0 {
		attempts = 1
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.InitialInterval
	b.MaxInterval = p.MaxInterval
	b.Multiplier = p.Multiplier
	b.RandomizationFactor = p.RandomizationFactor

	attempt := 0
	return backoff.Retry(ctx, func() (T, error) {
		attempt++
		v, err := op()
		if err != nil && p.Transient != nil && !p.Transient(err) {
			return v, backoff.Permanent(err)
		}
		if err != nil && uint(attempt) < attempts {
			slog.Debug("retrying after transient failure",
				logging.Attempt(attempt), logging.Err(err))
		}
		return v, err
	}, backoff.WithBackOff(b), backoff.WithMaxTries(attempts))
}
