package models

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"

	"github.com/rickchristie/reactloop"
)

// RetryPolicy configures exponential backoff for transient model errors.
type RetryPolicy struct {
	// MaxRetries is the number of retries after the first attempt.
	MaxRetries int

	BaseDelay         time.Duration
	MaxDelay          time.Duration
	BackoffMultiplier float64

	// Jitter scales each delay by a random factor in [0.5, 1.5).
	Jitter bool

	// Retryable classifies errors. Defaults to IsRetryable.
	Retryable func(err error) bool

	// OnRetry is called before sleeping. attempt starts at 1.
	OnRetry func(err error, attempt int, delay time.Duration)
}

// DefaultRetryPolicy returns 2 retries starting at 1s, doubling up to 60s, with jitter.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:        2,
		BaseDelay:         time.Second,
		MaxDelay:          time.Minute,
		BackoffMultiplier: 2,
		Jitter:            true,
	}
}

// Delay returns the delay before retry attempt n (0-indexed).
func (p RetryPolicy) Delay(attempt int) time.Duration {
	mult := p.BackoffMultiplier
	if mult <= 0 {
		mult = 1
	}
	delay := float64(p.BaseDelay) * math.Pow(mult, float64(attempt))
	if p.MaxDelay > 0 {
		delay = math.Min(delay, float64(p.MaxDelay))
	}
	if p.Jitter {
		delay *= 0.5 + rand.Float64()
	}
	return time.Duration(delay)
}

// IsRetryable reports whether err may succeed on a second attempt. Cancellation,
// deadlines and configuration errors are permanent; everything else is retried.
func IsRetryable(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return false
	case errors.Is(err, reactloop.ErrConfiguration), errors.Is(err, ErrMissingToken):
		return false
	}
	return true
}

// Retrying wraps a model with a retry policy.
type Retrying struct {
	model  reactloop.LanguageModel
	policy RetryPolicy
}

// NewRetrying wraps model with policy.
func NewRetrying(model reactloop.LanguageModel, policy RetryPolicy) *Retrying {
	if policy.Retryable == nil {
		policy.Retryable = IsRetryable
	}
	return &Retrying{model: model, policy: policy}
}

// Generate implements reactloop.LanguageModel. The last error is returned once retries
// are exhausted; a canceled ctx during backoff returns ctx.Err().
func (r *Retrying) Generate(ctx context.Context, prompt string, stop []string) (string, error) {
	out, err := r.model.Generate(ctx, prompt, stop)
	for attempt := 0; err != nil && attempt < r.policy.MaxRetries; attempt++ {
		if !r.policy.Retryable(err) {
			return "", err
		}

		delay := r.policy.Delay(attempt)
		if r.policy.OnRetry != nil {
			r.policy.OnRetry(err, attempt+1, delay)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", ctx.Err()
		case <-timer.C:
		}

		out, err = r.model.Generate(ctx, prompt, stop)
	}
	if err != nil {
		return "", err
	}
	return out, nil
}

var _ reactloop.LanguageModel = (*Retrying)(nil)
