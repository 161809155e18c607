// Package retry runs store operations with exponential backoff on transient errors.
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
)

// Classifier reports whether an error is transient.
type Classifier func(err error) bool

// Retrier retries operations whose errors the classifier marks transient.
type Retrier struct {
	name            string
	classify        Classifier
	maxRetries      int
	initialInterval time.Duration
	maxInterval     time.Duration
	maxElapsedTime  time.Duration
	logger          zerolog.Logger
}

// Option configures a Retrier.
type Option func(*Retrier)

// WithMaxRetries caps the number of retries after the first attempt.
func WithMaxRetries(n int) Option {
	return func(r *Retrier) { r.maxRetries = n }
}

// WithIntervals sets the backoff bounds.
func WithIntervals(initial, max, elapsed time.Duration) Option {
	return func(r *Retrier) {
		r.initialInterval = initial
		r.maxInterval = max
		r.maxElapsedTime = elapsed
	}
}

// WithLogger sets the logger for retry warnings.
func WithLogger(logger zerolog.Logger) Option {
	return func(r *Retrier) { r.logger = logger }
}

// New creates a retrier with default settings. name tags the log lines.
func New(name string, classify Classifier, opts ...Option) *Retrier {
	r := &Retrier{
		name:            name,
		classify:        classify,
		maxRetries:      3,
		initialInterval: 50 * time.Millisecond,
		maxInterval:     1 * time.Second,
		maxElapsedTime:  10 * time.Second,
		logger:          zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Do executes operation, retrying with exponential backoff while it fails
// with a transient error.
func (r *Retrier) Do(ctx context.Context, operation func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.initialInterval
	b.MaxInterval = r.maxInterval
	b.MaxElapsedTime = r.maxElapsedTime

	retryCount := 0

	return backoff.Retry(func() error {
		err := operation()
		if err == nil {
			return nil
		}

		if r.classify == nil || !r.classify(err) {
			return backoff.Permanent(err)
		}

		retryCount++
		if retryCount > r.maxRetries {
			return backoff.Permanent(err)
		}

		r.logger.Warn().
			Err(err).
			Str("store", r.name).
			Int("retry", retryCount).
			Msg("transient store error, retrying")

		return err
	}, backoff.WithContext(b, ctx))
}
