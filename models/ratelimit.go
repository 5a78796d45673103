package models

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/rickchristie/reactloop"
)

// RateLimited throttles calls to a model with a token bucket. It is safe to share between
// concurrent runs.
type RateLimited struct {
	model   reactloop.LanguageModel
	limiter *rate.Limiter
}

// NewRateLimited allows perSecond calls per second with the given burst. A burst below 1
// is raised to 1.
func NewRateLimited(model reactloop.LanguageModel, perSecond float64, burst int) *RateLimited {
	if burst < 1 {
		burst = 1
	}
	return &RateLimited{model: model, limiter: rate.NewLimiter(rate.Limit(perSecond), burst)}
}

// Generate implements reactloop.LanguageModel. It blocks until a token is available or
// ctx is done.
func (r *RateLimited) Generate(ctx context.Context, prompt string, stop []string) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}
	return r.model.Generate(ctx, prompt, stop)
}

var _ reactloop.LanguageModel = (*RateLimited)(nil)
