package provider

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimitProvider caps how fast a backend is queried across all pipeline
// runs sharing the provider. Fetch blocks until the limiter grants a slot or
// the context ends.
type RateLimitProvider struct {
	provider Provider
	limiter  *rate.Limiter
}

func WithRateLimit(p Provider, perSecond float64, burst int) *RateLimitProvider {
	if burst < 1 {
		burst = 1
	}
	return &RateLimitProvider{
		provider: p,
		limiter:  rate.NewLimiter(rate.Limit(perSecond), burst),
	}
}

func (p *RateLimitProvider) Fetch(ctx context.Context, key string) (map[string]interface{}, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return p.provider.Fetch(ctx, key)
}
